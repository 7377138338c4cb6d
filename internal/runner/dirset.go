package runner

import (
	"path/filepath"

	"github.com/raoulx24/imgshrink/internal/fs"
)

// dirSet remembers every output directory a run tried to create and how
// that went, so each directory is created at most once per run no matter
// how the inputs are ordered. Only the orchestrator goroutine touches it.
type dirSet struct {
	fs      fs.FS
	results map[string]error
	created []string
}

func newDirSet(filesystem fs.FS) *dirSet {
	return &dirSet{fs: filesystem, results: map[string]error{}}
}

// ensure creates dir on first sight and replays the first result afterwards.
// An existing directory counts as success.
func (d *dirSet) ensure(dir string) error {
	key := filepath.Clean(dir)
	if err, seen := d.results[key]; seen {
		return err
	}
	err := d.fs.MkdirAll(key)
	d.results[key] = err
	if err == nil {
		d.created = append(d.created, key)
	}
	return err
}
