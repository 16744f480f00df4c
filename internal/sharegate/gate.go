package sharegate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

const (
	// ShareDays suppresses the prompt after the user shared, or claims to have.
	ShareDays = 30 * 4
	// SnoozeHorizon suppresses the prompt after "share another time".
	SnoozeHorizon = time.Hour

	storeTimeout = 2 * time.Second
)

var (
	ErrPersistenceUnavailable = errors.New("share gate persistence unavailable")
	// ErrCorruptValue reports a stored value that is not a timestamp.
	ErrCorruptValue = errors.New("share gate value is not a timestamp")
)

// State is the visible state of the sharing prompt.
type State int

const (
	// Pending draws the sharing overlay over the histograms.
	Pending State = iota
	// Suppressed hides the overlay.
	Suppressed
)

func (s State) String() string {
	if s == Suppressed {
		return "suppressed"
	}
	return "pending"
}

// Store persists the next time the sharing prompt is due.
type Store interface {
	Read(ctx context.Context) (time.Time, bool, error)
	Write(ctx context.Context, next time.Time) error
}

type Option func(*Gate)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

func WithLogger(logger *zap.Logger) Option {
	return func(g *Gate) { g.logger = logger }
}

// Gate decides whether the sharing prompt is drawn. Persistence failures
// never escape: an unreadable store leaves the gate active, an unwritable one
// still applies the transition in memory.
type Gate struct {
	store  Store
	now    func() time.Time
	logger *zap.Logger

	next     time.Time
	failOpen bool
}

// New creates a gate over store. Call Load to read the persisted state.
func New(store Store, opts ...Option) *Gate {
	g := &Gate{
		store:  store,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.logger = g.logger.Named("sharegate")
	return g
}

// Load refreshes the in-memory state from the store.
func (g *Gate) Load(ctx context.Context) {
	if g.store == nil {
		g.failOpen = true
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	next, ok, err := g.store.Read(ctx)
	if errors.Is(err, ErrCorruptValue) {
		// The store answered, so the prompt is due again.
		g.logger.Warn("ignoring corrupt share gate value", zap.Error(err))
		g.failOpen = false
		g.next = time.Time{}
		return
	}
	if err != nil {
		g.logger.Warn("share gate read failed, suppressing prompt",
			zap.Error(fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)))
		g.failOpen = true
		return
	}

	g.failOpen = false
	if !ok {
		g.next = time.Time{}
		return
	}
	g.next = next
}

// IsActive reports whether the prompt is suppressed at now.
func (g *Gate) IsActive(now time.Time) bool {
	if g.failOpen {
		return true
	}
	return now.Before(g.next)
}

// State returns the prompt state at now.
func (g *Gate) State(now time.Time) State {
	if g.IsActive(now) {
		return Suppressed
	}
	return Pending
}

// Active reports whether the prompt is suppressed right now.
func (g *Gate) Active() bool { return g.IsActive(g.now()) }

// NextShowDate returns the in-memory due time; zero when the prompt is due.
func (g *Gate) NextShowDate() time.Time { return g.next }

// ShareConfirmed records that the user shared their histograms.
func (g *Gate) ShareConfirmed(ctx context.Context) {
	g.suppressUntil(ctx, g.now().AddDate(0, 0, ShareDays))
}

// Activate records that the user has already shared.
func (g *Gate) Activate(ctx context.Context) {
	g.suppressUntil(ctx, g.now().AddDate(0, 0, ShareDays))
}

// Snooze hides the prompt for a short while.
func (g *Gate) Snooze(ctx context.Context) {
	g.suppressUntil(ctx, g.now().Add(SnoozeHorizon))
}

func (g *Gate) suppressUntil(ctx context.Context, next time.Time) {
	g.next = next
	g.failOpen = false

	if g.store == nil {
		return
	}

	ctx, cancel := context.WithTimeout(ctx, storeTimeout)
	defer cancel()

	if err := g.store.Write(ctx, next); err != nil {
		g.logger.Warn("share gate write failed, keeping in-memory state",
			zap.Time("next_show", next),
			zap.Error(fmt.Errorf("%w: %v", ErrPersistenceUnavailable, err)))
		return
	}
	g.logger.Debug("share gate updated", zap.Time("next_show", next))
}
