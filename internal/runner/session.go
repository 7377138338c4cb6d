package runner

import (
	"sync"
	"time"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/naming"
	"github.com/raoulx24/imgshrink/internal/report"
	"github.com/raoulx24/imgshrink/internal/settings"
	"github.com/raoulx24/imgshrink/internal/transform"
	"github.com/raoulx24/imgshrink/internal/worker"
)

type Options struct {
	Workers     int
	Settings    settings.Settings
	FS          fs.FS
	Transformer transform.Transformer
	Log         logging.Logger
}

// Session owns the selection, the current settings and the worker pool
// for the lifetime of a front end. Its methods may be called from any
// goroutine.
type Session struct {
	mu       sync.Mutex
	fs       fs.FS
	log      logging.Logger
	sel      *batch.Selection
	agg      *batch.Aggregator
	pool     *worker.Pool
	orch     *Orchestrator
	settings settings.Settings
	current  *Run
}

// NewSession validates opts.Settings and starts opts.Workers workers.
func NewSession(opts Options) (*Session, error) {
	if err := opts.Settings.Validate(); err != nil {
		return nil, err
	}
	filter, err := batch.NewFilter(opts.Settings.FilePattern)
	if err != nil {
		return nil, err
	}
	if opts.FS == nil {
		opts.FS = fs.New()
	}
	if opts.Log == nil {
		opts.Log = logging.Discard
	}
	if opts.Transformer == nil {
		opts.Transformer = transform.NewImage(opts.FS)
	}

	agg := &batch.Aggregator{}
	exec := worker.NewExecutor(opts.FS, opts.Transformer, agg, opts.Log)
	pool := worker.NewPool(opts.Workers, exec, opts.Log)

	return &Session{
		fs:       opts.FS,
		log:      opts.Log,
		sel:      batch.NewSelection(opts.FS, filter, opts.Log),
		agg:      agg,
		pool:     pool,
		orch:     NewOrchestrator(pool, opts.FS, agg, opts.Log),
		settings: opts.Settings,
	}, nil
}

func (s *Session) Settings() settings.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings applies to the next run only; in-flight jobs keep the
// snapshot they were submitted with.
func (s *Session) UpdateSettings(next settings.Settings) error {
	if err := next.Validate(); err != nil {
		return err
	}
	filter, err := batch.NewFilter(next.FilePattern)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = next
	s.sel.SetFilter(filter)
	return nil
}

// Select replaces the selection with paths and returns how many were kept.
func (s *Session) Select(paths ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyLocked() {
		return 0, batch.ErrBusy
	}
	s.current = nil
	return s.sel.Replace(s.agg, paths...), nil
}

// Add appends to the selection.
func (s *Session) Add(paths ...string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyLocked() {
		return 0, batch.ErrBusy
	}
	return s.sel.Add(paths...), nil
}

// Deselect removes item i.
func (s *Session) Deselect(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyLocked() {
		return batch.ErrBusy
	}
	return s.sel.Remove(i, s.agg)
}

// Run submits the selection with the current settings.
func (s *Session) Run() (*Run, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyLocked() {
		return nil, batch.ErrBusy
	}
	run, err := s.orch.Run(s.sel.Items(), s.settings)
	if err != nil {
		return nil, err
	}
	s.current = run
	return run, nil
}

// Busy reports whether a job submitted by the last run is unfinished.
// Items added after that run do not count.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busyLocked()
}

func (s *Session) busyLocked() bool {
	if s.current == nil {
		return false
	}
	for _, j := range s.current.Jobs {
		if !j.Item.Done() {
			return true
		}
	}
	return false
}

// Progress is safe to call on every UI tick.
func (s *Session) Progress() batch.Progress {
	s.mu.Lock()
	items := s.sel.Items()
	s.mu.Unlock()
	return batch.Snapshot(items, s.agg)
}

// Report describes the last run as of now. ok is false if nothing ran.
func (s *Session) Report() (r report.Report, ok bool) {
	s.mu.Lock()
	run := s.current
	items := s.sel.Items()
	s.mu.Unlock()
	if run == nil {
		return report.Report{}, false
	}

	r = report.Report{
		RunID:      run.ID,
		StartedAt:  run.StartedAt,
		FinishedAt: time.Now(),
		Settings:   run.Settings,
		Items:      make([]report.Entry, 0, len(items)),
	}
	for _, it := range items {
		e := report.Entry{Path: it.Path, SizeOriginal: it.SizeOriginal, Status: report.StatusPending}
		done := it.Done()
		e.SizeNew = it.SizeNew()
		if done {
			switch it.Outcome() {
			case batch.Succeeded:
				e.Status = report.StatusSucceeded
				_, e.Output = naming.OutputPath(it.ParentFolder, it.Name, run.Settings)
			case batch.Failed:
				e.Status = report.StatusFailed
				e.Error = it.Err()
			}
		}
		r.Items = append(r.Items, e)
	}
	r.Finalize()
	return r, true
}

// Wait polls until the last run finishes or done is closed.
func (s *Session) Wait(done <-chan struct{}, interval time.Duration) bool {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		if !s.Busy() {
			return true
		}
		select {
		case <-done:
			return false
		case <-t.C:
		}
	}
}

// Close drains the queue and stops the workers.
func (s *Session) Close() {
	s.pool.Shutdown()
}
