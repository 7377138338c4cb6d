// Package retention prunes old run reports.
package retention

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/raoulx24/imgshrink/internal/config"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/report"
)

type Engine struct {
	mu   sync.Mutex
	keep int
	fs   fs.FS
	log  logging.Logger
}

func New(cfg *config.Config, filesystem fs.FS, log logging.Logger) *Engine {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Engine{keep: cfg.Reports.Keep, fs: filesystem, log: log}
}

// UpdateConfig takes effect on the next Apply.
func (e *Engine) UpdateConfig(cfg *config.Config) {
	e.mu.Lock()
	e.keep = cfg.Reports.Keep
	e.mu.Unlock()
}

// reportFile is a report found on disk.
type reportFile struct {
	Timestamp time.Time
	Path      string
}

// Apply keeps the newest reports in dir and removes the rest. keep 0
// disables pruning. It returns how many files were removed.
func (e *Engine) Apply(ctx context.Context, dir string) (int, error) {
	e.mu.Lock()
	keep := e.keep
	e.mu.Unlock()
	if keep <= 0 {
		return 0, nil
	}

	files, err := scanReports(dir)
	if err != nil {
		return 0, err
	}
	if len(files) <= keep {
		return 0, nil
	}

	// Newest first.
	sort.Slice(files, func(i, j int) bool {
		return files[i].Timestamp.After(files[j].Timestamp)
	})

	removed := 0
	for _, f := range files[keep:] {
		if err := ctx.Err(); err != nil {
			return removed, err
		}
		if err := e.fs.RemoveAll(f.Path); err != nil {
			e.log.Warn("retention: removing %s: %v", f.Path, err)
			continue
		}
		removed++
	}
	e.log.Debug("retention: removed %d reports from %s", removed, dir)
	return removed, nil
}

// scanReports lists report-<timestamp>-<id>.json files in dir.
func scanReports(dir string) ([]reportFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading folder: %w", err)
	}

	var files []reportFile
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		ts, ok := extractTimestamp(ent.Name())
		if !ok {
			continue
		}
		files = append(files, reportFile{Timestamp: ts, Path: filepath.Join(dir, ent.Name())})
	}
	return files, nil
}

// extractTimestamp parses the timestamp out of a report file name.
func extractTimestamp(name string) (time.Time, bool) {
	const prefix, suffix = "report-", ".json"
	if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, suffix) {
		return time.Time{}, false
	}
	core := strings.TrimSuffix(strings.TrimPrefix(name, prefix), suffix)
	if len(core) < len(report.TimeLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(report.TimeLayout, core[:len(report.TimeLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
