// Package inbox finds new images in a watched directory.
package inbox

import "time"

// Request asks the daemon to rescan the inbox. Requests carry no paths:
// only the latest one matters, the scan decides what is new.
type Request struct {
	Reason string // "fsnotify", "poll", "schedule", "signal", "startup"
	At     time.Time
}

func NewRequest(reason string) Request {
	return Request{Reason: reason, At: time.Now()}
}
