package naming

import (
	"path/filepath"
	"testing"

	"github.com/raoulx24/imgshrink/internal/settings"
)

func TestOutputPath(t *testing.T) {
	photos := filepath.Join("home", "u", "photos")

	tests := []struct {
		name     string
		mutate   func(*settings.Settings)
		wantDir  string
		wantPath string
	}{
		{
			name:     "default folder next to input",
			mutate:   func(*settings.Settings) {},
			wantDir:  filepath.Join(photos, "_rshrinked"),
			wantPath: filepath.Join(photos, "_rshrinked", "a.jpg"),
		},
		{
			name: "override parent",
			mutate: func(s *settings.Settings) {
				s.OutputParentDir = filepath.Join("srv", "out")
				s.OutputParentDirEnabled = true
			},
			wantDir:  filepath.Join("srv", "out", "_rshrinked"),
			wantPath: filepath.Join("srv", "out", "_rshrinked", "a.jpg"),
		},
		{
			name: "override disabled is ignored",
			mutate: func(s *settings.Settings) {
				s.OutputParentDir = filepath.Join("srv", "out")
			},
			wantDir:  filepath.Join(photos, "_rshrinked"),
			wantPath: filepath.Join(photos, "_rshrinked", "a.jpg"),
		},
		{
			name: "same folder gets prefix",
			mutate: func(s *settings.Settings) {
				s.OutputParentDir = filepath.Join("home", "u")
				s.OutputParentDirEnabled = true
				s.OutputFolderName = "photos"
			},
			wantDir:  photos,
			wantPath: filepath.Join(photos, "min-a.jpg"),
		},
		{
			name: "dot folder resolves to parent",
			mutate: func(s *settings.Settings) {
				s.OutputFolderName = "."
			},
			wantDir:  photos,
			wantPath: filepath.Join(photos, "min-a.jpg"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := settings.Default()
			tt.mutate(&s)
			dir, path := OutputPath(photos, "a.jpg", s)
			if dir != tt.wantDir {
				t.Errorf("dir = %q, want %q", dir, tt.wantDir)
			}
			if path != tt.wantPath {
				t.Errorf("path = %q, want %q", path, tt.wantPath)
			}
		})
	}
}
