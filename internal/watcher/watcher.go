// Package watcher monitors the inbox directory and asks for a rescan when
// something in it changes.
package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raoulx24/imgshrink/internal/config"
	"github.com/raoulx24/imgshrink/internal/fsprobe"
	"github.com/raoulx24/imgshrink/internal/inbox"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/mailbox"
)

// Watcher observes the inbox and puts a rescan request in the mailbox.
type Watcher struct {
	mu sync.RWMutex

	dir      string
	interval time.Duration
	mode     string
	debounce time.Duration

	log logging.Logger

	lastState dirState
	restart   context.CancelFunc

	mb *mailbox.Mailbox[inbox.Request]
}

func New(cfg config.WatchConfig, log logging.Logger, mb *mailbox.Mailbox[inbox.Request]) *Watcher {
	return &Watcher{
		dir:      cfg.Inbox,
		interval: cfg.PollInterval,
		mode:     cfg.Mode,
		debounce: cfg.DebounceWindow,
		log:      log,
		mb:       mb,
	}
}

// Run watches until ctx is done, restarting the strategy whenever
// UpdateConfig changes the directory or the mode.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		runCtx, cancel := context.WithCancel(ctx)
		w.mu.Lock()
		w.restart = cancel
		w.mu.Unlock()

		err := w.Start(runCtx)
		cancel()
		if ctx.Err() != nil {
			return nil
		}
		if err != nil {
			return err
		}
		w.log.Info("watcher: restarting with new configuration")
	}
}

// Start chooses the watching strategy based on config and blocks until
// ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.RLock()
	mode, dir := w.mode, w.dir
	w.mu.RUnlock()

	switch mode {
	case "fsnotify":
		return w.StartFsNotify(ctx)

	case "poll":
		w.StartPolling(ctx)
		return nil

	case "", "auto":
		res := fsprobe.Probe(dir)
		if res.FsnotifySupported {
			return w.StartFsNotify(ctx)
		}
		w.log.Warn("fsnotify disabled: %s", res.Reason)
		w.StartPolling(ctx)
		return nil

	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

func (w *Watcher) request(reason string) {
	w.log.Debug("watcher: rescan requested (%s)", reason)
	w.mb.Put(inbox.NewRequest(reason))
}
