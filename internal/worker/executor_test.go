package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/settings"
)

// halvingTransformer writes an output half the size of its input.
type halvingTransformer struct {
	err   error
	panic bool
}

func (h halvingTransformer) Transform(_ context.Context, src, dst string, _ settings.Settings) error {
	if h.panic {
		panic("codec crashed")
	}
	if h.err != nil {
		return h.err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dst, data[:len(data)/2], 0o644)
}

func newJob(t *testing.T, size int) Job {
	t.Helper()
	dir := t.TempDir()
	src := filepath.Join(dir, "a.jpg")
	if err := os.WriteFile(src, make([]byte, size), 0o644); err != nil {
		t.Fatal(err)
	}
	it, err := batch.NewItem(fs.New(), src)
	if err != nil {
		t.Fatal(err)
	}
	return Job{
		InputPath:  src,
		OutputPath: filepath.Join(dir, "out.jpg"),
		Settings:   settings.Default(),
		Item:       it,
	}
}

func TestExecutorSuccess(t *testing.T) {
	var agg batch.Aggregator
	e := NewExecutor(fs.New(), halvingTransformer{}, &agg, logging.Discard)
	job := newJob(t, 100)

	if err := e.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !job.Item.Done() || job.Item.Outcome() != batch.Succeeded || job.Item.SizeNew() != 50 {
		t.Errorf("item: done=%v outcome=%v size=%d", job.Item.Done(), job.Item.Outcome(), job.Item.SizeNew())
	}
	if agg.TotalNew() != 50 || agg.Succeeded() != 1 {
		t.Errorf("agg: new=%d ok=%d", agg.TotalNew(), agg.Succeeded())
	}
}

func TestExecutorFailureLeavesSizes(t *testing.T) {
	var agg batch.Aggregator
	e := NewExecutor(fs.New(), halvingTransformer{err: errors.New("decode")}, &agg, logging.Discard)
	job := newJob(t, 100)

	if err := e.Handle(context.Background(), job); err == nil {
		t.Fatal("expected error")
	}
	if !job.Item.Done() || job.Item.Outcome() != batch.Failed || job.Item.SizeNew() != 100 {
		t.Errorf("item: done=%v outcome=%v size=%d", job.Item.Done(), job.Item.Outcome(), job.Item.SizeNew())
	}
	if agg.TotalNew() != 0 || agg.Failed() != 1 {
		t.Errorf("agg: new=%d failed=%d", agg.TotalNew(), agg.Failed())
	}
}

func TestExecutorPanicMarksFailed(t *testing.T) {
	var agg batch.Aggregator
	e := NewExecutor(fs.New(), halvingTransformer{panic: true}, &agg, logging.Discard)
	job := newJob(t, 10)

	err := e.Handle(context.Background(), job)
	if err == nil {
		t.Fatal("expected error from panic")
	}
	if !job.Item.Done() || job.Item.Outcome() != batch.Failed {
		t.Errorf("item not failed after panic: %v %v", job.Item.Done(), job.Item.Outcome())
	}
}

func TestExecutorWithoutItem(t *testing.T) {
	var agg batch.Aggregator
	e := NewExecutor(nil, halvingTransformer{}, &agg, logging.Discard)
	if err := e.Handle(context.Background(), Job{}); !errors.Is(err, errNoItem) {
		t.Errorf("expected errNoItem, got %v", err)
	}
}

func TestExecutorNilLoggerCountsOnce(t *testing.T) {
	var agg batch.Aggregator
	e := NewExecutor(nil, halvingTransformer{}, &agg, nil)
	job := newJob(t, 40)

	if err := e.Handle(context.Background(), job); err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if job.Item.Outcome() != batch.Succeeded || agg.Succeeded() != 1 || agg.Failed() != 0 || agg.TotalNew() != 20 {
		t.Errorf("outcome=%v ok=%d failed=%d new=%d", job.Item.Outcome(), agg.Succeeded(), agg.Failed(), agg.TotalNew())
	}
}
