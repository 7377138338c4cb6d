// Package schedule requests inbox rescans on a cron schedule.
package schedule

import (
	"context"
	"fmt"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/raoulx24/imgshrink/internal/config"
	"github.com/raoulx24/imgshrink/internal/inbox"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/mailbox"
)

type Scheduler struct {
	mu    sync.Mutex
	cron  *cron.Cron
	spec  string
	entry cron.EntryID
	log   logging.Logger
	mb    *mailbox.Mailbox[inbox.Request]
}

// New registers cfg.Cron if set. Nothing fires until Run.
func New(cfg config.ScheduleConfig, log logging.Logger, mb *mailbox.Mailbox[inbox.Request]) (*Scheduler, error) {
	s := &Scheduler{cron: cron.New(), log: log, mb: mb}
	if err := s.UpdateConfig(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

// UpdateConfig swaps the registered expression. An empty expression
// disables scheduled rescans.
func (s *Scheduler) UpdateConfig(cfg config.ScheduleConfig) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if cfg.Cron == s.spec {
		return nil
	}
	if s.spec != "" {
		s.cron.Remove(s.entry)
		s.spec, s.entry = "", 0
	}
	if cfg.Cron == "" {
		return nil
	}

	id, err := s.cron.AddFunc(cfg.Cron, s.fire)
	if err != nil {
		return fmt.Errorf("schedule: %w", err)
	}
	s.spec, s.entry = cfg.Cron, id
	s.log.Info("schedule: rescanning on %q", cfg.Cron)
	return nil
}

func (s *Scheduler) fire() {
	s.mb.Put(inbox.NewRequest("schedule"))
}

// Spec returns the active expression, or "" when disabled.
func (s *Scheduler) Spec() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.spec
}

// Run starts the cron loop and blocks until ctx is done and any running
// trigger has returned.
func (s *Scheduler) Run(ctx context.Context) {
	s.cron.Start()
	<-ctx.Done()
	<-s.cron.Stop().Done()
}
