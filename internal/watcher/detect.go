package watcher

import (
	"os"
	"time"
)

// dirState is a cheap fingerprint of the inbox contents.
type dirState struct {
	files  int
	latest time.Time
}

func readState(dir string) (dirState, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dirState{}, err
	}
	var st dirState
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		st.files++
		if info.ModTime().After(st.latest) {
			st.latest = info.ModTime()
		}
	}
	return st, nil
}

// detect requests a rescan if the inbox changed since the last call.
func (w *Watcher) detect() {
	w.mu.RLock()
	dir := w.dir
	last := w.lastState
	w.mu.RUnlock()

	st, err := readState(dir)
	if err != nil {
		w.log.Warn("watcher: failed to read dir %s: %v", dir, err)
		return
	}
	if st == last {
		return
	}

	w.mu.Lock()
	w.lastState = st
	w.mu.Unlock()

	w.request("poll")
}
