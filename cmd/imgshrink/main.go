package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/raoulx24/imgshrink/internal/config"
	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/settings"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		printCommands(stderr)
		return 2
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch args[0] {
	case "run":
		err = runCommand(ctx, args[1:], stdout, stderr)
	case "watch":
		err = watchCommand(ctx, args[1:], stderr)
	case "version", "--version", "-version":
		fmt.Fprintln(stdout, "imgshrink "+version)
		return 0
	case "help", "-h", "--help":
		printCommands(stdout)
		return 0
	default:
		fmt.Fprintf(stderr, "imgshrink: unknown command %q\n", args[0])
		printCommands(stderr)
		return 2
	}

	switch {
	case err == nil:
		return 0
	case errors.Is(err, flag.ErrHelp):
		return 0
	case errors.Is(err, errUsage):
		fmt.Fprintf(stderr, "imgshrink: %v\n", err)
		return 2
	default:
		fmt.Fprintf(stderr, "imgshrink: %v\n", err)
		return 1
	}
}

var errUsage = errors.New("usage")

func printCommands(w io.Writer) {
	fmt.Fprintf(w, `imgshrink - batch image shrinking

Usage:
  imgshrink run [options] FILE|DIR...
  imgshrink watch [options]
  imgshrink version

Run "imgshrink <command> -h" for the options of a command.
`)
}

// env is what both commands build from flags and files.
type env struct {
	cfg      *config.Config
	settings settings.Settings
	log      logging.Logger
	fs       fs.FS
	closeLog func()
}

// setup loads the config and settings files, applies flags and opens the
// log. quiet sends logs nowhere unless --log is given.
func setup(o *options, stderr io.Writer, quiet bool) (*env, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if o.workers > 0 {
		cfg.Workers = o.workers
	}
	if o.settingsPath != "" {
		cfg.SettingsPath = o.settingsPath
	}

	s, err := settings.Load(cfg.SettingsPath)
	if err != nil {
		return nil, fmt.Errorf("loading settings: %w", err)
	}
	o.image.apply(&s)
	if err := s.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}

	e := &env{cfg: cfg, settings: s, fs: fs.New(), closeLog: func() {}}

	var out io.Writer = stderr
	switch {
	case o.logFile != "":
		f, err := os.OpenFile(o.logFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log: %w", err)
		}
		out = f
		e.closeLog = func() { f.Close() }
	case quiet:
		out = io.Discard
	}
	e.log = logging.New(out, cfg.Logging.Level, cfg.Logging.Format)

	if o.save {
		if err := settings.Save(context.Background(), e.fs, cfg.SettingsPath, s); err != nil {
			e.closeLog()
			return nil, fmt.Errorf("saving settings: %w", err)
		}
		e.log.Info("settings saved to %s", cfg.SettingsPath)
	}
	return e, nil
}
