package widget

import "go.uber.org/zap"

// Analytics events, one per user action.
const (
	EventShareOpened    = "histogram-button-share"
	EventShareConfirmed = "histogram-share-submit"
	EventActivate       = "histogram-button-claim-activate"
	EventSnooze         = "histogram-button-snooze"
)

// Tracker receives analytics events.
type Tracker interface {
	Track(event string, fields ...zap.Field)
}

// LogTracker writes analytics events to a zap logger.
type LogTracker struct {
	logger *zap.Logger
}

func NewLogTracker(logger *zap.Logger) *LogTracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogTracker{logger: logger.Named("analytics")}
}

func (t *LogTracker) Track(event string, fields ...zap.Field) {
	t.logger.Info("analytics event", append([]zap.Field{zap.String("event", event)}, fields...)...)
}
