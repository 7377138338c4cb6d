// Package batch holds the selected files, their per-run progress state, and
// the run totals. Progress fields are written by exactly one worker per run
// and read by any number of pollers, so they are atomics rather than locked.
package batch

import (
	"fmt"
	"path/filepath"
	"sync/atomic"

	"github.com/raoulx24/imgshrink/internal/fs"
)

type Outcome uint32

const (
	Pending Outcome = iota
	Succeeded
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Pending:
		return "pending"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Item is one selected file.
type Item struct {
	Path         string
	ParentFolder string
	Name         string
	SizeOriginal uint64

	sizeNew atomic.Uint64
	outcome atomic.Uint32
	done    atomic.Bool
	err     atomic.Pointer[string]
}

// NewItem builds an Item from an existing file.
func NewItem(filesystem fs.FS, path string) (*Item, error) {
	info, err := filesystem.Stat(path)
	if err != nil {
		return nil, err
	}
	if info.IsDir {
		return nil, fmt.Errorf("%s: is a directory", path)
	}
	return newItem(path, uint64(info.Size)), nil
}

func newItem(path string, size uint64) *Item {
	it := &Item{
		Path:         path,
		ParentFolder: filepath.Dir(path),
		Name:         filepath.Base(path),
		SizeOriginal: size,
	}
	it.sizeNew.Store(size)
	return it
}

// Reset prepares the item for a new run.
func (it *Item) Reset() {
	it.done.Store(false)
	it.outcome.Store(uint32(Pending))
	it.err.Store(nil)
	it.sizeNew.Store(it.SizeOriginal)
}

// Complete records a successful result. The size is published before done.
func (it *Item) Complete(size uint64) {
	it.sizeNew.Store(size)
	it.outcome.Store(uint32(Succeeded))
	it.done.Store(true)
}

// Fail records a failed result. sizeNew keeps its previous value.
func (it *Item) Fail(err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	it.err.Store(&msg)
	it.outcome.Store(uint32(Failed))
	it.done.Store(true)
}

func (it *Item) SizeNew() uint64  { return it.sizeNew.Load() }
func (it *Item) Done() bool       { return it.done.Load() }
func (it *Item) Outcome() Outcome { return Outcome(it.outcome.Load()) }

// Err returns the failure message of the last run, or "".
func (it *Item) Err() string {
	if p := it.err.Load(); p != nil {
		return *p
	}
	return ""
}
