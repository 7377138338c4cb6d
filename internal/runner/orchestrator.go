// Package runner turns a selection into worker jobs and tracks the session
// a front end drives.
package runner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/naming"
	"github.com/raoulx24/imgshrink/internal/settings"
	"github.com/raoulx24/imgshrink/internal/worker"
)

// Submitter accepts jobs. *worker.Pool satisfies it.
type Submitter interface {
	Execute(job worker.Job) error
}

// Run describes one submission cycle.
type Run struct {
	ID        string
	StartedAt time.Time
	Settings  settings.Settings
	Jobs      []worker.Job // submitted, in order
	Dirs      []string     // output directories ensured
	Rejected  int          // items failed before submission
}

type Orchestrator struct {
	pool Submitter
	fs   fs.FS
	agg  *batch.Aggregator
	log  logging.Logger
}

func NewOrchestrator(pool Submitter, filesystem fs.FS, agg *batch.Aggregator, log logging.Logger) *Orchestrator {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if log == nil {
		log = logging.Discard
	}
	return &Orchestrator{pool: pool, fs: filesystem, agg: agg, log: log}
}

// Run submits one job per item using a snapshot of s. Output directories
// are created here, on the caller's goroutine, before the jobs that need
// them are submitted. It returns without waiting for any job.
func (o *Orchestrator) Run(items []*batch.Item, s settings.Settings) (*Run, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	run := &Run{
		ID:        uuid.NewString(),
		StartedAt: time.Now(),
		Settings:  s,
		Jobs:      make([]worker.Job, 0, len(items)),
	}
	dirs := newDirSet(o.fs)

	o.agg.Reset()

	for _, it := range items {
		it.Reset()

		dir, out := naming.OutputPath(it.ParentFolder, it.Name, run.Settings)
		if err := dirs.ensure(dir); err != nil {
			o.reject(run, it, fmt.Errorf("creating output directory %s: %w", dir, err))
			continue
		}

		job := worker.Job{
			InputPath:  it.Path,
			OutputPath: out,
			Settings:   run.Settings,
			Item:       it,
		}
		if err := o.pool.Execute(job); err != nil {
			o.reject(run, it, err)
			continue
		}
		run.Jobs = append(run.Jobs, job)
	}

	run.Dirs = dirs.created
	o.log.Info("run %s: submitted %d jobs, %d rejected", run.ID, len(run.Jobs), run.Rejected)
	return run, nil
}

func (o *Orchestrator) reject(run *Run, it *batch.Item, err error) {
	o.log.Error("run %s: %s: %v", run.ID, it.Path, err)
	o.agg.AddFailed()
	it.Fail(err)
	run.Rejected++
}
