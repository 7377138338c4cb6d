package batch

import (
	"fmt"
	"path/filepath"
	"regexp"

	"github.com/raoulx24/imgshrink/internal/settings"
)

// Filter decides which file names are accepted into a selection.
type Filter struct {
	re *regexp.Regexp
}

// NewFilter compiles pattern. An empty pattern uses settings.DefaultFilePattern.
func NewFilter(pattern string) (*Filter, error) {
	if pattern == "" {
		pattern = settings.DefaultFilePattern
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compiling file pattern %q: %w", pattern, err)
	}
	return &Filter{re: re}, nil
}

// Match tests the base name of path.
func (f *Filter) Match(path string) bool {
	return f.re.MatchString(filepath.Base(path))
}

func (f *Filter) String() string { return f.re.String() }
