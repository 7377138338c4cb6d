// Package fs is the filesystem seam of imgshrink. Runs create output
// folders and publish results through it; tests swap it for fakes that
// count or fail calls.
package fs

import (
	"context"
	"time"
)

// FileInfo is the subset of os.FileInfo the rest of the program reads.
type FileInfo struct {
	Path  string
	Size  int64
	MTime time.Time
	Inode uint64 // 0 where the platform has none
	IsDir bool
}

type FS interface {
	Stat(path string) (FileInfo, error)
	// CopyFile overwrites dst, aborting if src changes between attempts.
	CopyFile(ctx context.Context, src, dst string) error
	Rename(ctx context.Context, oldPath, newPath string) error
	// MkdirAll succeeds if path already exists as a directory.
	MkdirAll(path string) error
	RemoveAll(path string) error
	// WriteFileAtomic replaces path so readers see the old or the new
	// contents, never a mix.
	WriteFileAtomic(ctx context.Context, path string, data []byte) error
}
