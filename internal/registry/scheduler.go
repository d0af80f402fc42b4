package registry

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler runs fn repeatedly at a fixed period.
type Scheduler interface {
	Every(period time.Duration, fn func()) (stop func(), err error)
}

// CronScheduler is a Scheduler backed by robfig/cron.
type CronScheduler struct {
	cron *cron.Cron
}

func NewCronScheduler() *CronScheduler {
	return &CronScheduler{cron: cron.New()}
}

// Start begins running scheduled jobs.
func (s *CronScheduler) Start() { s.cron.Start() }

// Stop halts the scheduler and waits for running jobs to finish.
func (s *CronScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *CronScheduler) Every(period time.Duration, fn func()) (func(), error) {
	if period < time.Second {
		return nil, fmt.Errorf("period %s is below the one second cron resolution", period)
	}
	id := s.cron.Schedule(cron.Every(period), cron.FuncJob(fn))
	return func() { s.cron.Remove(id) }, nil
}
