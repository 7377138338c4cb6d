package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/raoulx24/imgshrink/internal/config"
	"github.com/raoulx24/imgshrink/internal/daemon"
	"github.com/raoulx24/imgshrink/internal/inbox"
	"github.com/raoulx24/imgshrink/internal/mailbox"
	"github.com/raoulx24/imgshrink/internal/runner"
	"github.com/raoulx24/imgshrink/internal/schedule"
	"github.com/raoulx24/imgshrink/internal/settings"
	"github.com/raoulx24/imgshrink/internal/watcher"
)

// watchCommand processes the inbox until interrupted.
func watchCommand(ctx context.Context, args []string, stderr io.Writer) error {
	var o options
	fset := newFlagSet("watch", stderr, &o)
	if err := parse(fset, &o, args); err != nil {
		return err
	}
	if o.showVersion {
		fmt.Fprintln(os.Stdout, "imgshrink "+version)
		return nil
	}

	e, err := setup(&o, stderr, false)
	if err != nil {
		return err
	}
	defer e.closeLog()
	if e.cfg.Watch.Inbox == "" {
		return fmt.Errorf("%w: watch.inbox is not set in %s", errUsage, o.configPath)
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

	mb := mailbox.New[inbox.Request]()
	watch := watcher.New(e.cfg.Watch, e.log, mb)
	sched, err := schedule.New(e.cfg.Schedule, e.log, mb)
	if err != nil {
		return err
	}
	d := daemon.New(e.cfg, sess, mb, e.fs, e.log)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		if err := watch.Run(ctx); err != nil {
			e.log.Error("watcher: %v", err)
			cancel()
		}
	}()
	go func() {
		defer wg.Done()
		sched.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		d.Run(ctx)
	}()

	// Hot reload on SIGHUP
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP)
		defer signal.Stop(sigCh)

		for {
			select {
			case <-ctx.Done():
				return
			case <-sigCh:
			}
			newCfg, err := config.Load(o.configPath)
			if err != nil {
				e.log.Error("config reload failed: %v", err)
				continue
			}
			if newCfg.ConfigReload.Enabled {
				watch.UpdateConfig(newCfg.Watch)
				if err := sched.UpdateConfig(newCfg.Schedule); err != nil {
					e.log.Error("config reload: %v", err)
				}
				d.UpdateConfig(newCfg)
				if s, err := settings.Load(newCfg.SettingsPath); err != nil {
					e.log.Error("settings reload failed: %v", err)
				} else {
					o.image.apply(&s)
					if err := sess.UpdateSettings(s); err != nil {
						e.log.Error("settings reload: %v", err)
					}
				}
				e.log.Info("config reloaded")
			}
			mb.Put(inbox.NewRequest("signal"))
		}
	}()

	e.log.Info("watching %s with %d workers", e.cfg.Watch.Inbox, e.cfg.WorkerCount())
	<-ctx.Done()
	e.log.Info("shutting down...")
	wg.Wait()
	sess.Close()
	e.log.Info("exit complete")
	return nil
}
