package widget

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

const (
	// ShareGuidePage is the standalone share instructions page.
	ShareGuidePage = "share-histograms.html"
	// GradesSiteURL is where the share script is run.
	GradesSiteURL = "https://grades.technion.ac.il/"
	// ShareScriptURL is the script loaded by the bookmarklet.
	ShareScriptURL = "https://cheesefork.cf/share-histograms.js"

	popupWidth  = 800
	popupHeight = 600
)

var ErrClipboardUnavailable = errors.New("clipboard unavailable")

// BookmarkletCode is the snippet the user pastes into the grades site.
func BookmarkletCode(scriptURL string) string {
	return "javascript:var url='" + scriptURL + "';var script=document.createElement('script');" +
		"script.src=url;document.head.appendChild(script);"
}

// GuideMode tells the client how the share guide is shown.
type GuideMode string

const (
	GuideDialog GuideMode = "dialog"
	GuideWindow GuideMode = "window"
)

type GuideButton struct {
	Label  string
	Action string
}

// GuideView describes the share instructions the client must display.
type GuideView struct {
	Mode     GuideMode
	Title    string
	URL      string
	Code     string
	SiteURL  string
	Features string
	Width    int
	Height   int
	Buttons  []GuideButton
}

// GuidePresenter opens the share instructions.
type GuidePresenter interface {
	Present(ctx context.Context) (GuideView, error)
}

// DialogPresenter shows the guide in an inline modal with a confirm button.
type DialogPresenter struct {
	Title     string
	ScriptURL string
}

func (p DialogPresenter) Present(context.Context) (GuideView, error) {
	title := p.Title
	if title == "" {
		title = "Share histograms"
	}
	script := p.ScriptURL
	if script == "" {
		script = ShareScriptURL
	}
	return GuideView{
		Mode:    GuideDialog,
		Title:   title,
		Code:    BookmarkletCode(script),
		SiteURL: GradesSiteURL,
		Buttons: []GuideButton{
			{Label: "I shared", Action: ActionConfirm},
			{Label: "Close", Action: ActionClose},
		},
	}, nil
}

// WindowPresenter opens the standalone guide page in a popup window.
type WindowPresenter struct {
	URL string
}

func (p WindowPresenter) Present(context.Context) (GuideView, error) {
	u := p.URL
	if u == "" {
		u = ShareGuidePage
	}
	return GuideView{
		Mode:   GuideWindow,
		Title:  u,
		URL:    u,
		Width:  popupWidth,
		Height: popupHeight,
		Features: fmt.Sprintf("toolbar=no, location=no, directories=no, status=no, menubar=no, "+
			"scrollbars=no, resizable=no, copyhistory=no, width=%d, height=%d", popupWidth, popupHeight),
	}, nil
}

// PresenterFor picks the presenter matching the configuration.
func PresenterFor(cfg Config) GuidePresenter {
	if cfg.ShareGuideInNewWindow {
		return WindowPresenter{}
	}
	return DialogPresenter{}
}

// Clipboard copies text for the user.
type Clipboard interface {
	Copy(ctx context.Context, text string) error
}

// FallbackClipboard tries Primary and falls back to Fallback when Primary is
// missing or fails.
type FallbackClipboard struct {
	Primary  Clipboard
	Fallback Clipboard
}

func (c FallbackClipboard) Copy(ctx context.Context, text string) error {
	var primaryErr error
	if c.Primary != nil {
		if primaryErr = c.Primary.Copy(ctx, text); primaryErr == nil {
			return nil
		}
	}
	if c.Fallback == nil {
		if primaryErr != nil {
			return primaryErr
		}
		return ErrClipboardUnavailable
	}
	if err := c.Fallback.Copy(ctx, text); err != nil {
		return errors.Join(primaryErr, err)
	}
	return nil
}

// ClientClipboard holds copied text until the client picks it up from the
// view and writes it to the user's clipboard.
type ClientClipboard struct {
	mu   sync.Mutex
	text string
}

func (c *ClientClipboard) Copy(_ context.Context, text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = text
	return nil
}

// Text returns the pending text.
func (c *ClientClipboard) Text() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.text
}

func (c *ClientClipboard) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.text = ""
}
