package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/Dosada05/tournament-manager/metrics"
)

// Notifier pushes tournament events to live subscribers. *brackets.Hub
// satisfies it.
type Notifier interface {
	Publish(tournamentID int, eventType string, payload interface{})
}

type noopNotifier struct{}

func (noopNotifier) Publish(int, string, interface{}) {}

func notifierOrNoop(n Notifier) Notifier {
	if n == nil {
		return noopNotifier{}
	}
	return n
}

func recorderOrNoop(r metrics.Recorder) metrics.Recorder {
	if r == nil {
		return metrics.Noop{}
	}
	return r
}

func loggerOrDefault(l *slog.Logger) *slog.Logger {
	if l == nil {
		return slog.Default()
	}
	return l
}

// track is deferred at the top of an operation to record its outcome.
func track(ctx context.Context, rec metrics.Recorder, operation string, errp *error) func() {
	start := time.Now()
	return func() {
		metrics.Observe(ctx, rec, operation, start, *errp)
	}
}
