// Package daemon turns rescan requests into runs: scan the inbox, select
// what is new, run it, write a report and prune old ones.
package daemon

import (
	"context"
	"sync"
	"time"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/config"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/inbox"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/mailbox"
	"github.com/raoulx24/imgshrink/internal/report"
	"github.com/raoulx24/imgshrink/internal/retention"
	"github.com/raoulx24/imgshrink/internal/runner"
)

// progressInterval is how often a run is polled for completion.
const progressInterval = 100 * time.Millisecond

type Daemon struct {
	mu         sync.RWMutex
	inboxDir   string
	reportsDir string

	session *runner.Session
	scanner *inbox.Scanner
	ret     *retention.Engine
	mb      *mailbox.Mailbox[inbox.Request]
	fs      fs.FS
	log     logging.Logger

	runs int
}

func New(cfg *config.Config, session *runner.Session, mb *mailbox.Mailbox[inbox.Request], filesystem fs.FS, log logging.Logger) *Daemon {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Daemon{
		inboxDir:   cfg.Watch.Inbox,
		reportsDir: cfg.Reports.Dir,
		session:    session,
		scanner:    inbox.NewScanner(cfg.Watch.StabilityWindow, log),
		ret:        retention.New(cfg, filesystem, log),
		mb:         mb,
		fs:         filesystem,
		log:        log,
	}
}

// UpdateConfig applies from the next request on.
func (d *Daemon) UpdateConfig(cfg *config.Config) {
	d.mu.Lock()
	if cfg.Watch.Inbox != d.inboxDir {
		d.scanner.Forget()
	}
	d.inboxDir = cfg.Watch.Inbox
	d.reportsDir = cfg.Reports.Dir
	d.mu.Unlock()

	d.scanner.SetStability(cfg.Watch.StabilityWindow)
	d.ret.UpdateConfig(cfg)
}

// Run handles requests until ctx is done. The inbox is scanned once at
// start so files dropped while the daemon was down are picked up.
func (d *Daemon) Run(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		d.mb.Close()
	}()

	d.mb.Put(inbox.NewRequest("startup"))
	for {
		req, ok := d.mb.Take()
		if !ok || ctx.Err() != nil {
			return nil
		}
		d.handle(ctx, req)
	}
}

// Runs is the number of runs completed, reports included.
func (d *Daemon) Runs() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.runs
}

func (d *Daemon) handle(ctx context.Context, req inbox.Request) {
	d.mu.RLock()
	dir, reportsDir := d.inboxDir, d.reportsDir
	d.mu.RUnlock()

	filter, err := batch.NewFilter(d.session.Settings().FilePattern)
	if err != nil {
		d.log.Error("daemon: %v", err)
		return
	}
	paths, err := d.scanner.Scan(dir, filter)
	if err != nil {
		d.log.Error("daemon: %v", err)
		return
	}
	if len(paths) == 0 {
		d.log.Debug("daemon: %s request, nothing new in %s", req.Reason, dir)
		return
	}

	n, err := d.session.Select(paths...)
	if err != nil {
		d.log.Error("daemon: selecting: %v", err)
		return
	}
	if n == 0 {
		return
	}
	run, err := d.session.Run()
	if err != nil {
		d.log.Error("daemon: starting run: %v", err)
		return
	}
	d.log.Info("daemon: run %s started for %d files (%s)", run.ID, n, req.Reason)

	if !d.session.Wait(ctx.Done(), progressInterval) {
		d.log.Warn("daemon: run %s interrupted", run.ID)
		return
	}

	if r, ok := d.session.Report(); ok {
		d.log.Info("daemon: run %s finished: %d succeeded, %d failed, saved %.1f%%",
			r.RunID, r.Summary.Succeeded, r.Summary.Failed, r.Summary.SavedPercent)
		d.writeReport(ctx, reportsDir, r)
	}

	d.mu.Lock()
	d.runs++
	d.mu.Unlock()
}

func (d *Daemon) writeReport(ctx context.Context, dir string, r report.Report) {
	if dir == "" {
		return
	}
	if err := d.fs.MkdirAll(dir); err != nil {
		d.log.Error("daemon: creating reports dir: %v", err)
		return
	}
	path, err := report.Write(ctx, d.fs, dir, r)
	if err != nil {
		d.log.Error("daemon: %v", err)
		return
	}
	d.log.Debug("daemon: report written to %s", path)

	if _, err := d.ret.Apply(ctx, dir); err != nil {
		d.log.Error("daemon: retention: %v", err)
	}
}
