package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/inbox"
	"github.com/raoulx24/imgshrink/internal/report"
	"github.com/raoulx24/imgshrink/internal/retention"
	"github.com/raoulx24/imgshrink/internal/runner"
	"github.com/raoulx24/imgshrink/internal/tui"
)

// runCommand shrinks the files named on the command line once.
func runCommand(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var o options
	fset := newFlagSet("run", stderr, &o)
	if err := parse(fset, &o, args); err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(stdout, "imgshrink "+version)
		return nil
	}
	if fset.NArg() == 0 {
		fset.Usage()
		return fmt.Errorf("%w: no files given", errUsage)
	}

	interactive := !o.plain && stdout == os.Stdout && tui.IsTerminal(os.Stdout)
	e, err := setup(&o, stderr, interactive)
	if err != nil {
		return err
	}
	defer e.closeLog()

	paths, err := expandArgs(fset.Args(), e)
	if err != nil {
		return err
	}

	sess, err := runner.NewSession(runner.Options{
		Workers:  e.cfg.WorkerCount(),
		Settings: e.settings,
		FS:       e.fs,
		Log:      e.log,
	})
	if err != nil {
		return err
	}
	defer sess.Close()

	n, err := sess.Select(paths...)
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: no files match %s", errUsage, e.settings.FilePattern)
	}
	if _, err := sess.Run(); err != nil {
		return err
	}

	var p batch.Progress
	if interactive {
		p, err = tui.Run(ctx, sess, tui.Options{Light: e.settings.LightMode})
	} else {
		p, err = tui.Plain(ctx, stdout, sess, tui.DefaultInterval)
	}
	if err != nil {
		// Queued jobs still run to completion in Close.
		e.log.Warn("run: progress display stopped: %v", err)
		return err
	}

	if dir := e.cfg.Reports.Dir; dir != "" {
		writeReport(ctx, e, sess, dir)
	}
	if p.Failed > 0 {
		return fmt.Errorf("%d of %d files failed", p.Failed, p.Total)
	}
	return nil
}

// expandArgs replaces each directory argument by the matching files
// directly inside it.
func expandArgs(args []string, e *env) ([]string, error) {
	filter, err := batch.NewFilter(e.settings.FilePattern)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, a := range args {
		info, err := e.fs.Stat(a)
		if err != nil || !info.IsDir {
			out = append(out, a)
			continue
		}
		files, err := inbox.NewScanner(0, e.log).Scan(filepath.Clean(a), filter)
		if err != nil {
			return nil, err
		}
		out = append(out, files...)
	}
	return out, nil
}

func writeReport(ctx context.Context, e *env, sess *runner.Session, dir string) {
	r, ok := sess.Report()
	if !ok {
		return
	}
	if err := e.fs.MkdirAll(dir); err != nil {
		e.log.Error("run: creating reports dir: %v", err)
		return
	}
	path, err := report.Write(ctx, e.fs, dir, r)
	if err != nil {
		e.log.Error("run: %v", err)
		return
	}
	e.log.Info("run: report written to %s", path)
	if _, err := retention.New(e.cfg, e.fs, e.log).Apply(ctx, dir); err != nil {
		e.log.Warn("run: retention: %v", err)
	}
}
