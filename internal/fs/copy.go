package fs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

var errSourceChanged = errors.New("source changed during copy")

// copyWithRetry copies src over dst. It aborts when src is replaced or
// modified between attempts, so a half-updated image is never published.
func copyWithRetry(ctx context.Context, f FS, src, dst string) error {
	orig, err := f.Stat(src)
	if err != nil {
		return err
	}

	return retry(ctx, "copy", func() error {
		now, err := f.Stat(src)
		if err != nil {
			return err
		}
		if sourceChanged(orig, now) {
			return fmt.Errorf("%s: %w", src, errSourceChanged)
		}
		return copyOnce(src, dst)
	})
}

func sourceChanged(orig, now FileInfo) bool {
	switch {
	case now.Inode != 0 && orig.Inode != 0 && now.Inode != orig.Inode:
		return true
	case now.MTime.After(orig.MTime):
		return true
	default:
		return now.Size != orig.Size
	}
}

func copyOnce(src, dst string) (err error) {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); err == nil {
			err = cerr
		}
	}()

	if _, err = io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
