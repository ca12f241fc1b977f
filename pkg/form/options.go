package form

import (
	"io"
	"log/slog"

	"github.com/google/uuid"
)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the logger used for step transitions and submissions.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithIDGenerator overrides how response ids are minted.
func WithIDGenerator(fn func() string) Option {
	return func(c *Controller) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// WithExtras exposes additional values to visibility rules through the
// `extras.` prefix.
func WithExtras(extras map[string]any) Option {
	return func(c *Controller) {
		c.extras = cloneData(extras)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newResponseID() string {
	return uuid.NewString()
}
