package inbox

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/logging"
	"github.com/raoulx24/imgshrink/internal/naming"
)

// Scanner remembers the modification time of every file it has returned,
// so a file is handed out again only after it changes.
type Scanner struct {
	mu        sync.Mutex
	seen      map[string]time.Time
	stability time.Duration
	log       logging.Logger
}

func NewScanner(stability time.Duration, log logging.Logger) *Scanner {
	return &Scanner{seen: map[string]time.Time{}, stability: stability, log: log}
}

// SetStability changes the window used to decide a file is fully written.
func (s *Scanner) SetStability(d time.Duration) {
	s.mu.Lock()
	s.stability = d
	s.mu.Unlock()
}

type candidate struct {
	path string
	size int64
	mod  time.Time
}

// Scan returns the files directly in dir that match filter and are new or
// modified since the last scan, sorted by name. Files still growing across
// the stability window are left for a later scan. Results written next to
// their input carry the min- prefix and are skipped.
func (s *Scanner) Scan(dir string, filter *batch.Filter) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("inbox: reading %s: %w", dir, err)
	}

	s.mu.Lock()
	stability := s.stability
	var cands []candidate
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if strings.HasPrefix(name, naming.SameDirPrefix) {
			continue
		}
		full := filepath.Join(dir, name)
		if filter != nil && !filter.Match(full) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			s.log.Warn("inbox: stat failed for %s: %v", full, err)
			continue
		}
		last, ok := s.seen[full]
		if ok && !info.ModTime().After(last) {
			continue
		}
		cands = append(cands, candidate{path: full, size: info.Size(), mod: info.ModTime()})
	}
	s.mu.Unlock()

	if len(cands) == 0 {
		return nil, nil
	}
	if stability > 0 {
		time.Sleep(stability)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	var out []string
	for _, c := range cands {
		if stability > 0 && !isStable(c) {
			s.log.Debug("inbox: %s still being written", c.path)
			continue
		}
		s.seen[c.path] = c.mod
		out = append(out, c.path)
	}
	sort.Strings(out)
	return out, nil
}

// isStable reports whether the file kept its size and mtime since c.
func isStable(c candidate) bool {
	info, err := os.Stat(c.path)
	if err != nil {
		return false
	}
	return info.Size() == c.size && info.ModTime().Equal(c.mod)
}

// Forget drops every remembered file, so the next Scan returns all of them.
func (s *Scanner) Forget() {
	s.mu.Lock()
	s.seen = map[string]time.Time{}
	s.mu.Unlock()
}

// Seen is the number of files remembered.
func (s *Scanner) Seen() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}
