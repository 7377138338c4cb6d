package worker

import (
	"context"
	"errors"
	"fmt"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/transform"
)

var errNoItem = errors.New("job has no item")

// Executor is the Handler that transforms a file and publishes the result
// to the job's item and the run aggregator.
type Executor struct {
	fs          fs.FS
	transformer transform.Transformer
	agg         *batch.Aggregator
	log         logging.Logger
}

func NewExecutor(filesystem fs.FS, t transform.Transformer, agg *batch.Aggregator, log logging.Logger) *Executor {
	if filesystem == nil {
		filesystem = fs.New()
	}
	if log == nil {
		log = logging.Discard
	}
	return &Executor{fs: filesystem, transformer: t, agg: agg, log: log}
}

// Handle transforms job.InputPath into job.OutputPath. Whatever happens,
// the item ends up done, and done is always the last field written.
func (e *Executor) Handle(ctx context.Context, job Job) (err error) {
	if job.Item == nil {
		return errNoItem
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
		if err != nil {
			e.agg.AddFailed()
			job.Item.Fail(err)
		}
	}()

	if err := e.transformer.Transform(ctx, job.InputPath, job.OutputPath, job.Settings); err != nil {
		return fmt.Errorf("transforming: %w", err)
	}

	info, err := e.fs.Stat(job.OutputPath)
	if err != nil {
		return fmt.Errorf("reading output size: %w", err)
	}

	size := uint64(info.Size)
	e.log.Debug("worker: %s -> %s (%d -> %d bytes)", job.InputPath, job.OutputPath, job.Item.SizeOriginal, size)
	e.agg.AddSucceeded(size)
	job.Item.Complete(size)
	return nil
}
