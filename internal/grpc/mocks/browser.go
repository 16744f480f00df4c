package mocks

import (
	"context"

	"github.com/godilite/histogram-browser/internal/widget"
)

// MockBrowser is a mock implementation of the Browser interface
// for testing the handler layer. It uses function-based mocking for flexibility.
type MockBrowser struct {
	LoadFunc           func(ctx context.Context, course string) (widget.View, error)
	SelectSemesterFunc func(key string) (widget.View, error)
	SelectCategoryFunc func(key string) (widget.View, error)
	ShareActionFunc    func(ctx context.Context, action string) (widget.View, error)
	ViewFunc           func() widget.View
}

// Load implements the Browser interface
func (m *MockBrowser) Load(ctx context.Context, course string) (widget.View, error) {
	if m.LoadFunc != nil {
		return m.LoadFunc(ctx, course)
	}
	return widget.View{Status: widget.StatusReady, Course: course}, nil
}

// SelectSemester implements the Browser interface
func (m *MockBrowser) SelectSemester(key string) (widget.View, error) {
	if m.SelectSemesterFunc != nil {
		return m.SelectSemesterFunc(key)
	}
	return widget.View{}, widget.ErrNotReady
}

// SelectCategory implements the Browser interface
func (m *MockBrowser) SelectCategory(key string) (widget.View, error) {
	if m.SelectCategoryFunc != nil {
		return m.SelectCategoryFunc(key)
	}
	return widget.View{}, widget.ErrNotReady
}

// ShareAction implements the Browser interface
func (m *MockBrowser) ShareAction(ctx context.Context, action string) (widget.View, error) {
	if m.ShareActionFunc != nil {
		return m.ShareActionFunc(ctx, action)
	}
	return widget.View{}, widget.ErrNotReady
}

// View implements the Browser interface
func (m *MockBrowser) View() widget.View {
	if m.ViewFunc != nil {
		return m.ViewFunc()
	}
	return widget.View{Status: widget.StatusIdle}
}
