package scan

import (
	"context"
	"time"
)

// DefaultFrameInterval samples at roughly display refresh rate.
const DefaultFrameInterval = time.Second / 60

// IntervalScheduler waits a fixed interval between samples.
type IntervalScheduler struct {
	interval time.Duration
}

func NewIntervalScheduler(d time.Duration) *IntervalScheduler {
	return &IntervalScheduler{interval: d}
}

func (s *IntervalScheduler) NextFrame(ctx context.Context) error {
	t := time.NewTimer(s.interval)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
