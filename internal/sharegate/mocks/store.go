package mocks

import (
	"context"
	"errors"
	"time"
)

// MockStore is a mock implementation of the sharegate Store interface.
// It uses function-based mocking for flexibility.
type MockStore struct {
	ReadFunc  func(ctx context.Context) (time.Time, bool, error)
	WriteFunc func(ctx context.Context, next time.Time) error
}

// Read implements the Store interface
func (m *MockStore) Read(ctx context.Context) (time.Time, bool, error) {
	if m.ReadFunc != nil {
		return m.ReadFunc(ctx)
	}
	return time.Time{}, false, errors.New("ReadFunc not implemented")
}

// Write implements the Store interface
func (m *MockStore) Write(ctx context.Context, next time.Time) error {
	if m.WriteFunc != nil {
		return m.WriteFunc(ctx, next)
	}
	return errors.New("WriteFunc not implemented")
}

// MockKeyValue is a mock implementation of the sharegate KeyValue interface.
type MockKeyValue struct {
	GetValueFunc func(ctx context.Context, key string) (string, bool, error)
	SetValueFunc func(ctx context.Context, key, value string) error
}

// GetValue implements the KeyValue interface
func (m *MockKeyValue) GetValue(ctx context.Context, key string) (string, bool, error) {
	if m.GetValueFunc != nil {
		return m.GetValueFunc(ctx, key)
	}
	return "", false, errors.New("GetValueFunc not implemented")
}

// SetValue implements the KeyValue interface
func (m *MockKeyValue) SetValue(ctx context.Context, key, value string) error {
	if m.SetValueFunc != nil {
		return m.SetValueFunc(ctx, key, value)
	}
	return errors.New("SetValueFunc not implemented")
}
