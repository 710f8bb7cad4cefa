// Package schedule runs cancellable one-shot delays. Every task carries
// tags so an owner can cancel everything it scheduled in one call.
package schedule

import (
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

type Scheduler struct {
	s   gocron.Scheduler
	log *zap.Logger
}

func New(log *zap.Logger) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("new scheduler: %w", err)
	}
	s.Start()
	return &Scheduler{s: s, log: log}, nil
}

// After runs fn once, d from now.
func (s *Scheduler) After(d time.Duration, fn func(), tags ...string) {
	start := gocron.OneTimeJobStartImmediately()
	if d > 0 {
		start = gocron.OneTimeJobStartDateTime(time.Now().Add(d))
	}
	_, err := s.s.NewJob(
		gocron.OneTimeJob(start),
		gocron.NewTask(fn),
		gocron.WithTags(tags...),
		gocron.WithLimitedRuns(1),
	)
	if err != nil {
		// Never drop a kickoff because the scheduler refused it.
		s.log.Warn("schedule failed, running inline", zap.Strings("tags", tags), zap.Error(err))
		go fn()
	}
}

// Cancel removes pending tasks carrying any of tags.
func (s *Scheduler) Cancel(tags ...string) {
	s.s.RemoveByTags(tags...)
}

func (s *Scheduler) Shutdown() error {
	return s.s.Shutdown()
}
