package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"remindme/internal/duecheck"
)

type Checker interface {
	Check(ref time.Time) (duecheck.Report, error)
}

// Scheduler runs due checks on a fixed interval.
type Scheduler struct {
	checker  Checker
	interval time.Duration
	now      func() time.Time
	log      *log.Logger
}

func New(checker Checker, interval time.Duration, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Scheduler{checker: checker, interval: interval, now: time.Now, log: logger}
}

// Run checks immediately and then on every tick until ctx is cancelled.
// A pass that has started always completes.
func (s *Scheduler) Run(ctx context.Context) error {
	if s.interval <= 0 {
		return fmt.Errorf("scheduler interval must be positive, got %s", s.interval)
	}
	s.log.Printf("[scheduler] Started. Interval: %s", s.interval)

	s.tick()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Println("[scheduler] Shutting down...")
			return nil
		case <-ticker.C:
			s.tick()
		}
	}
}

func (s *Scheduler) tick() {
	rep, err := s.checker.Check(s.now())
	if err != nil {
		s.log.Printf("[scheduler] Error: due check failed: %v", err)
		return
	}
	if len(rep.Fired) == 0 {
		return
	}
	s.log.Printf("[scheduler] %d reminder(s) fired, %d notification failure(s)", len(rep.Fired), rep.Failed)
}
