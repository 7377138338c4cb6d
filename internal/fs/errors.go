package fs

import (
	"errors"
	"syscall"
)

// isTransient reports whether err is worth retrying. Network shares and
// antivirus scanners on desktop machines produce these while a freshly
// written image is still held open.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, syscall.EAGAIN),
		errors.Is(err, syscall.EBUSY),
		errors.Is(err, syscall.EINTR),
		errors.Is(err, syscall.ETIMEDOUT):
		return true
	}
	return false
}
