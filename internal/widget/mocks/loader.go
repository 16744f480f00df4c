package mocks

import (
	"context"
	"sync"

	"github.com/godilite/histogram-browser/internal/fetch"
	"go.uber.org/zap"
)

// MockLoader is a mock implementation of the widget Loader interface.
// It uses function-based mocking for flexibility.
type MockLoader struct {
	LoadFunc func(ctx context.Context, course string) fetch.Result
}

// Load implements the Loader interface
func (m *MockLoader) Load(ctx context.Context, course string) fetch.Result {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, course)
	}
	return fetch.Result{Outcome: fetch.OutcomeFailed}
}

// ImageURL implements the Loader interface
func (m *MockLoader) ImageURL(course, semester, category string) string {
	return "https://example.test/" + course + "/" + semester + "/" + category + ".png"
}

// FallbackURL implements the Loader interface
func (m *MockLoader) FallbackURL(course string) string {
	return "https://example.test/" + course + "/"
}

// RecordingTracker keeps every tracked event name.
type RecordingTracker struct {
	mu     sync.Mutex
	Events []string
}

// Track implements the Tracker interface
func (r *RecordingTracker) Track(event string, _ ...zap.Field) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, event)
}

// MockClipboard is a mock implementation of the Clipboard interface.
type MockClipboard struct {
	CopyFunc func(ctx context.Context, text string) error
}

// Copy implements the Clipboard interface
func (m *MockClipboard) Copy(ctx context.Context, text string) error {
	if m.CopyFunc != nil {
		return m.CopyFunc(ctx, text)
	}
	return nil
}
