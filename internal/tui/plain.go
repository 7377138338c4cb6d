package tui

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/display"
)

// IsTerminal reports whether f can host the interactive view.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Plain polls src and writes one line per finished item, then a summary.
// It returns when every item is done or ctx is done.
func Plain(ctx context.Context, w io.Writer, src Source, interval time.Duration) (batch.Progress, error) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	started := time.Now()
	printed := map[string]bool{}

	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		p := src.Progress()
		for _, r := range p.Rows {
			if !r.Done || printed[r.Path] {
				continue
			}
			printed[r.Path] = true
			fmt.Fprintf(w, "[%d/%d] %s\n", len(printed), p.Total, rowLine(r))
		}
		if p.Finished() {
			fmt.Fprintln(w, summaryLine(p, time.Since(started)))
			return p, nil
		}

		select {
		case <-ctx.Done():
			return p, ctx.Err()
		case <-t.C:
		}
	}
}

func rowLine(r batch.Row) string {
	if r.Outcome == batch.Failed {
		return fmt.Sprintf("FAIL %s: %s", r.Path, r.Err)
	}
	return fmt.Sprintf("ok   %s %s -> %s (%.1f%%)", r.Path,
		display.FormatBytes(r.SizeOriginal), display.FormatBytes(r.SizeNew),
		display.SavedPercent(r.SizeOriginal, r.SizeNew))
}
