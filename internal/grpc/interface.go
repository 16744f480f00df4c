package grpc

import (
	"context"

	"github.com/godilite/histogram-browser/internal/widget"
)

// Browser is one widget instance as seen by the handlers.
type Browser interface {
	Load(ctx context.Context, course string) (widget.View, error)
	SelectSemester(key string) (widget.View, error)
	SelectCategory(key string) (widget.View, error)
	ShareAction(ctx context.Context, action string) (widget.View, error)
	View() widget.View
}

// BrowserFactory creates the widget of a new session.
type BrowserFactory func(ctx context.Context, session string) (Browser, error)
