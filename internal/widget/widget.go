package widget

import (
	"context"
	"errors"
	"sync"

	"github.com/godilite/histogram-browser/internal/cascade"
	"github.com/godilite/histogram-browser/internal/fetch"
	"github.com/godilite/histogram-browser/internal/histogram"
	"github.com/godilite/histogram-browser/internal/sharegate"
	"go.uber.org/zap"
)

const defaultColumnGrid = "lg"

// Share prompt actions.
const (
	ActionOpen     = "open"
	ActionConfirm  = "confirm"
	ActionClose    = "close"
	ActionActivate = "activate"
	ActionSnooze   = "snooze"
	ActionCopy     = "copy"
)

const (
	messageLoading = "Loading data..."
	messageEmpty   = "No histograms exist for this course."
	messageFailed  = "Loading the data failed. Try accessing the repository manually."
)

var (
	ErrLoadSuperseded = errors.New("load superseded by a newer request")
	ErrNotReady       = errors.New("no histograms loaded")
	ErrUnknownAction  = errors.New("unknown share action")
	ErrNoGuideCode    = errors.New("share guide has no code to copy")
)

// Status is the top-level state of the widget.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusFailed  Status = "failed"
	StatusEmpty   Status = "empty"
	StatusReady   Status = "ready"
)

// Loader fetches course indexes and locates their resources.
type Loader interface {
	Load(ctx context.Context, course string) fetch.Result
	ImageURL(course, semester, category string) string
	FallbackURL(course string) string
}

// Config is the widget configuration accepted from the embedding page.
type Config struct {
	SelectColumnGrid      string
	ShareGuideInNewWindow bool
	Locale                histogram.Locale
}

// View is everything a client needs to draw the widget.
type View struct {
	Status      Status
	Course      string
	Message     string
	Activated   bool
	ColumnClass string
	FallbackURL string
	ShareLink   string
	Semesters   []cascade.Option
	Categories  []cascade.Option
	Values      []histogram.Cell
	ImageURL    string
	Guide       *GuideView
	// CopyText is text the client should place on the user's clipboard.
	CopyText    string
}

// Renderer receives the view after every state change.
type Renderer interface {
	Render(v View)
}

// RenderFunc adapts a function to Renderer.
type RenderFunc func(View)

func (f RenderFunc) Render(v View) { f(v) }

type Option func(*Widget)

func WithConfig(cfg Config) Option {
	return func(w *Widget) { w.cfg = cfg }
}

func WithPresenter(p GuidePresenter) Option {
	return func(w *Widget) { w.presenter = p }
}

func WithTracker(t Tracker) Option {
	return func(w *Widget) { w.tracker = t }
}

func WithClipboard(c Clipboard) Option {
	return func(w *Widget) { w.clipboard = c }
}

func WithRenderer(r Renderer) Option {
	return func(w *Widget) { w.renderer = r }
}

func WithLogger(logger *zap.Logger) Option {
	return func(w *Widget) { w.logger = logger }
}

// Widget coordinates the data client, the share gate and the selection
// cascade for one embedding.
type Widget struct {
	mu sync.Mutex

	cfg       Config
	loader    Loader
	gate      *sharegate.Gate
	presenter GuidePresenter
	tracker   Tracker
	clipboard Clipboard
	client    *ClientClipboard
	renderer  Renderer
	logger    *zap.Logger

	gen     uint64
	course  string
	status  Status
	cascade *cascade.Cascade
	guide   *GuideView
}

// New creates a widget. loader and gate are required.
func New(loader Loader, gate *sharegate.Gate, opts ...Option) *Widget {
	if loader == nil {
		panic("loader must not be nil")
	}
	if gate == nil {
		panic("gate must not be nil")
	}

	w := &Widget{
		loader: loader,
		gate:   gate,
		status: StatusIdle,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(w)
	}

	if w.cfg.SelectColumnGrid == "" {
		w.cfg.SelectColumnGrid = defaultColumnGrid
	}
	if w.cfg.Locale.Categories == nil {
		w.cfg.Locale = histogram.English
	}
	if w.presenter == nil {
		w.presenter = PresenterFor(w.cfg)
	}
	if w.tracker == nil {
		w.tracker = NewLogTracker(w.logger)
	}
	w.client = &ClientClipboard{}
	w.clipboard = FallbackClipboard{Primary: w.clipboard, Fallback: w.client}
	if w.renderer == nil {
		w.renderer = RenderFunc(func(View) {})
	}
	w.logger = w.logger.Named("widget")
	return w
}

// Load fetches course and renders the resulting state. If another Load
// starts before this one finishes, this result is dropped and
// ErrLoadSuperseded is returned with the current view. If ctx ends before
// the fetch returns, the previous state is restored and ctx.Err() is
// returned.
func (w *Widget) Load(ctx context.Context, course string) (View, error) {
	w.mu.Lock()
	w.gen++
	gen := w.gen
	prev := w.snapshotLocked()
	w.course = course
	w.status = StatusLoading
	w.cascade = nil
	w.guide = nil
	w.client.Clear()
	w.renderLocked()
	w.mu.Unlock()

	res := w.loader.Load(ctx, course)

	w.mu.Lock()
	defer w.mu.Unlock()

	if gen != w.gen {
		w.logger.Debug("dropping stale load", zap.String("course", course))
		return w.viewLocked(), ErrLoadSuperseded
	}

	// The caller went away: drop the result and show what was there before.
	if err := ctx.Err(); err != nil {
		w.logger.Debug("load abandoned by caller", zap.String("course", course), zap.Error(err))
		w.restoreLocked(prev)
		w.renderLocked()
		return w.viewLocked(), err
	}

	switch res.Outcome {
	case fetch.OutcomeFound:
		w.gate.Load(ctx)
		w.status = StatusReady
		w.cascade = cascade.New(course, w.cfg.Locale, w.loader.ImageURL, w.onSelect)
		if err := w.cascade.SetIndex(res.Index); err != nil {
			w.logger.Info("course index has nothing to show",
				zap.String("course", course), zap.Error(err))
			w.status = StatusEmpty
			w.cascade = nil
			w.renderLocked()
		}
	case fetch.OutcomeEmpty:
		w.status = StatusEmpty
		w.renderLocked()
	default:
		w.status = StatusFailed
		w.renderLocked()
	}

	return w.viewLocked(), nil
}

// SelectSemester changes the semester dropdown.
func (w *Widget) SelectSemester(key string) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cascade == nil {
		return w.viewLocked(), ErrNotReady
	}
	err := w.cascade.SelectSemester(key)
	return w.viewLocked(), err
}

// SelectCategory changes the category dropdown.
func (w *Widget) SelectCategory(key string) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.cascade == nil {
		return w.viewLocked(), ErrNotReady
	}
	err := w.cascade.SelectCategory(key)
	return w.viewLocked(), err
}

// OpenShareGuide shows the share instructions.
func (w *Widget) OpenShareGuide(ctx context.Context) (View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tracker.Track(EventShareOpened, zap.String("course", w.course))
	guide, err := w.presenter.Present(ctx)
	if err != nil {
		return w.viewLocked(), err
	}
	w.guide = &guide
	w.client.Clear()
	w.renderLocked()
	return w.viewLocked(), nil
}

// CloseShareGuide dismisses the share instructions without confirming.
func (w *Widget) CloseShareGuide() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.guide = nil
	w.client.Clear()
	w.renderLocked()
	return w.viewLocked()
}

// ConfirmShare records that the user shared and hides the prompt.
func (w *Widget) ConfirmShare(ctx context.Context) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tracker.Track(EventShareConfirmed, zap.String("course", w.course))
	w.gate.ShareConfirmed(ctx)
	w.guide = nil
	w.client.Clear()
	w.renderLocked()
	return w.viewLocked()
}

// Activate records that the user has already shared.
func (w *Widget) Activate(ctx context.Context) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tracker.Track(EventActivate, zap.String("course", w.course))
	w.gate.Activate(ctx)
	w.renderLocked()
	return w.viewLocked()
}

// Snooze hides the prompt for a short while.
func (w *Widget) Snooze(ctx context.Context) View {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.tracker.Track(EventSnooze, zap.String("course", w.course))
	w.gate.Snooze(ctx)
	w.renderLocked()
	return w.viewLocked()
}

// ShareAction dispatches one of the share prompt actions by name.
func (w *Widget) ShareAction(ctx context.Context, action string) (View, error) {
	switch action {
	case ActionOpen:
		return w.OpenShareGuide(ctx)
	case ActionConfirm:
		return w.ConfirmShare(ctx), nil
	case ActionClose:
		return w.CloseShareGuide(), nil
	case ActionActivate:
		return w.Activate(ctx), nil
	case ActionSnooze:
		return w.Snooze(ctx), nil
	case ActionCopy:
		if err := w.CopyGuideCode(ctx); err != nil {
			return w.View(), err
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		w.renderLocked()
		return w.viewLocked(), nil
	default:
		return w.View(), ErrUnknownAction
	}
}

// CopyGuideCode copies the bookmarklet of the open share guide.
func (w *Widget) CopyGuideCode(ctx context.Context) error {
	w.mu.Lock()
	guide := w.guide
	w.mu.Unlock()

	if guide == nil || guide.Code == "" {
		return ErrNoGuideCode
	}
	if err := w.clipboard.Copy(ctx, guide.Code); err != nil {
		w.logger.Warn("copy to clipboard failed", zap.Error(err))
		return err
	}
	return nil
}

type snapshot struct {
	course  string
	status  Status
	cascade *cascade.Cascade
	guide   *GuideView
}

func (w *Widget) snapshotLocked() snapshot {
	return snapshot{course: w.course, status: w.status, cascade: w.cascade, guide: w.guide}
}

func (w *Widget) restoreLocked(s snapshot) {
	// An older load was superseded by this one and will never finish.
	if s.status == StatusLoading {
		s = snapshot{status: StatusIdle}
	}
	w.course, w.status, w.cascade, w.guide = s.course, s.status, s.cascade, s.guide
	w.client.Clear()
}

// View returns the current view.
func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewLocked()
}

// onSelect runs inside cascade calls, which are always made under w.mu.
func (w *Widget) onSelect(cascade.Selection) {
	w.renderLocked()
}

func (w *Widget) renderLocked() {
	w.renderer.Render(w.viewLocked())
}

func (w *Widget) viewLocked() View {
	v := View{
		Status:      w.status,
		Course:      w.course,
		ColumnClass: "col-" + w.cfg.SelectColumnGrid + "-6",
		Guide:       w.guide,
		CopyText:    w.client.Text(),
	}

	switch w.status {
	case StatusLoading:
		v.Message = messageLoading
	case StatusFailed:
		v.Message = messageFailed
		v.FallbackURL = w.loader.FallbackURL(w.course)
	case StatusEmpty:
		v.Message = messageEmpty
		v.ShareLink = ShareGuidePage
	case StatusReady:
		v.ShareLink = ShareGuidePage
		v.Activated = w.gate.Active()
		v.Semesters = w.cascade.SemesterOptions()
		v.Categories = w.cascade.CategoryOptions()
		sel := w.cascade.Selection()
		v.Values = sel.Stats.Cells()
		v.ImageURL = sel.ImageURL
	}
	return v
}
