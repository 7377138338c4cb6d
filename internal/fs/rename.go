package fs

import (
	"context"
	"os"
)

// renameWithRetry moves finished outputs and atomically written files into place.
func renameWithRetry(ctx context.Context, oldPath, newPath string) error {
	return retry(ctx, "rename "+oldPath, func() error {
		return os.Rename(oldPath, newPath)
	})
}
