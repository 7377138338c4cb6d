// Package report writes a JSON summary of each finished run.
package report

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/raoulx24/imgshrink/internal/display"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/settings"
)

// TimeLayout is used in report file names; retention parses it back.
const TimeLayout = "2006-01-02T15-04-05"

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
	StatusPending   = "pending"
)

type Entry struct {
	Path         string `json:"path"`
	Output       string `json:"output,omitempty"`
	SizeOriginal uint64 `json:"size_original"`
	SizeNew      uint64 `json:"size_new"`
	Status       string `json:"status"`
	Error        string `json:"error,omitempty"`
}

type Summary struct {
	Total         int     `json:"total"`
	Succeeded     int     `json:"succeeded"`
	Failed        int     `json:"failed"`
	TotalOriginal uint64  `json:"total_original"`
	TotalNew      uint64  `json:"total_new"`
	SavedPercent  float64 `json:"saved_percent"`
}

type Report struct {
	RunID      string            `json:"run_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Settings   settings.Settings `json:"settings"`
	Items      []Entry           `json:"items"`
	Summary    Summary           `json:"summary"`
}

// Finalize recomputes Summary from Items.
func (r *Report) Finalize() {
	s := Summary{Total: len(r.Items)}
	var okOriginal uint64
	for _, e := range r.Items {
		s.TotalOriginal += e.SizeOriginal
		switch e.Status {
		case StatusSucceeded:
			s.Succeeded++
			s.TotalNew += e.SizeNew
			okOriginal += e.SizeOriginal
		case StatusFailed:
			s.Failed++
		}
	}
	s.SavedPercent = display.SavedPercent(okOriginal, s.TotalNew)
	r.Summary = s
}

// FileName is the name Write uses for r.
func (r *Report) FileName() string {
	id := r.RunID
	if len(id) > 8 {
		id = id[:8]
	}
	return fmt.Sprintf("report-%s-%s.json", r.StartedAt.UTC().Format(TimeLayout), id)
}

// Write stores r in dir and returns the file path.
func Write(ctx context.Context, filesystem fs.FS, dir string, r Report) (string, error) {
	b, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	b = append(b, '\n')
	path := filepath.Join(dir, r.FileName())
	if err := filesystem.WriteFileAtomic(ctx, path, b); err != nil {
		return "", fmt.Errorf("writing report: %w", err)
	}
	return path, nil
}
