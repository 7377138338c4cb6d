//go:build unix

package fs

import (
	"os"
	"syscall"
)

// inodeOf returns the inode number, or 0 when the platform stat is unavailable.
func inodeOf(info os.FileInfo) uint64 {
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		return uint64(st.Ino)
	}
	return 0
}
