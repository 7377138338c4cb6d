// Package naming resolves where a processed image is written.
package naming

import (
	"path/filepath"

	"github.com/raoulx24/imgshrink/internal/settings"
)

// SameDirPrefix is prepended to the file name when the output would land
// in the input's own folder, so the source is never overwritten.
const SameDirPrefix = "min-"

// OutputDir returns the directory results for a file in parentFolder go to:
//
//	<override or parentFolder>/<output folder name>
func OutputDir(parentFolder string, s settings.Settings) string {
	parent := s.OutputParent()
	if parent == "" {
		parent = parentFolder
	}
	return filepath.Join(parent, s.OutputFolderName)
}

// OutputPath returns the output directory and the full output path for
// the file name in parentFolder.
func OutputPath(parentFolder, name string, s settings.Settings) (dir, path string) {
	dir = OutputDir(parentFolder, s)
	if filepath.Clean(dir) == filepath.Clean(parentFolder) {
		name = SameDirPrefix + name
	}
	return dir, filepath.Join(dir, name)
}
