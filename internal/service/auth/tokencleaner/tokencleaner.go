package tokencleaner

import (
	"context"
	"time"

	"github.com/osintsev/tweetgen/internal/logger"
)

const (
	defaultInterval = time.Hour
)

type refreshTokenRepo interface {
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// Cleaner periodically drops refresh tokens that expired and can never
// be exchanged again. Used tokens are kept until they expire so reuse
// attempts stay detectable.
type Cleaner struct {
	interval time.Duration
	repo     refreshTokenRepo
	logger   logger.Logger
}

func New(repo refreshTokenRepo, logger logger.Logger, opts ...Option) *Cleaner {
	c := &Cleaner{
		interval: defaultInterval,
		repo:     repo,
		logger:   logger,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

type Option func(*Cleaner)

func WithInterval(interval time.Duration) Option {
	return func(c *Cleaner) {
		c.interval = interval
	}
}

func (c *Cleaner) Run(ctx context.Context) <-chan struct{} {
	idleStopped := make(chan struct{})
	c.logger.Debug("Starting token cleaner", "interval", c.interval)

	go func() {
		defer close(idleStopped)

		ticker := time.NewTicker(c.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				c.logger.Debug("Token cleaner stopped by context")
				return

			case <-ticker.C:
				deleted, err := c.repo.DeleteExpired(ctx, time.Now())
				if err != nil {
					c.logger.Error("Failed to delete expired refresh tokens", "error", err)
					continue
				}

				if deleted > 0 {
					c.logger.Info("Expired refresh tokens deleted", "count", deleted)
				}
			}
		}
	}()

	return idleStopped
}
