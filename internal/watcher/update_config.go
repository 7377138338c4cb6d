package watcher

import "github.com/raoulx24/imgshrink/internal/config"

// UpdateConfig updates watcher fields for hot-reload. A new directory or
// mode restarts the running strategy.
func (w *Watcher) UpdateConfig(cfg config.WatchConfig) {
	w.mu.Lock()
	defer w.mu.Unlock()

	restart := cfg.Inbox != w.dir || cfg.Mode != w.mode

	w.dir = cfg.Inbox
	w.interval = cfg.PollInterval
	w.mode = cfg.Mode
	w.debounce = cfg.DebounceWindow

	if restart {
		w.lastState = dirState{}
		if w.restart != nil {
			w.restart()
		}
	}
}
