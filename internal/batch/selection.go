package batch

import (
	"errors"
	"fmt"

	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
)

// ErrBusy is returned when the selection is edited while a run is in flight.
var ErrBusy = errors.New("a run is in progress")

// Selection is the ordered list of files the next run will process.
// It is edited from one goroutine only; the progress fields of its items
// are safe to read from anywhere.
type Selection struct {
	fs     fs.FS
	filter *Filter
	log    logging.Logger
	items  []*Item
	index  map[string]struct{}
}

func NewSelection(filesystem fs.FS, filter *Filter, log logging.Logger) *Selection {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Selection{
		fs:     filesystem,
		filter: filter,
		log:    log,
		index:  map[string]struct{}{},
	}
}

// SetFilter changes the filter used by later Add calls.
func (s *Selection) SetFilter(f *Filter) { s.filter = f }

// Add appends the paths that pass the filter and can be stat'ed.
// Duplicates are ignored. It returns the number of items added.
func (s *Selection) Add(paths ...string) int {
	added := 0
	for _, p := range paths {
		if s.filter != nil && !s.filter.Match(p) {
			s.log.Debug("selection: %s does not match %s", p, s.filter)
			continue
		}
		if _, dup := s.index[p]; dup {
			continue
		}
		it, err := NewItem(s.fs, p)
		if err != nil {
			s.log.Warn("selection: skipping %s: %v", p, err)
			continue
		}
		s.items = append(s.items, it)
		s.index[p] = struct{}{}
		added++
	}
	return added
}

// Replace drops the current selection and its run totals, then adds paths.
func (s *Selection) Replace(agg *Aggregator, paths ...string) int {
	s.Clear(agg)
	return s.Add(paths...)
}

// Remove deselects item i and takes its contribution out of agg.
func (s *Selection) Remove(i int, agg *Aggregator) error {
	if i < 0 || i >= len(s.items) {
		return fmt.Errorf("selection: index %d out of range [0,%d)", i, len(s.items))
	}
	it := s.items[i]
	if agg != nil {
		agg.Forget(it)
	}
	delete(s.index, it.Path)
	s.items = append(s.items[:i], s.items[i+1:]...)
	return nil
}

func (s *Selection) Clear(agg *Aggregator) {
	s.items = nil
	s.index = map[string]struct{}{}
	if agg != nil {
		agg.Reset()
	}
}

// Items returns the items in selection order.
func (s *Selection) Items() []*Item {
	out := make([]*Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Selection) Len() int { return len(s.items) }

// TotalOriginal is recomputed from the current items on every call.
func (s *Selection) TotalOriginal() uint64 {
	var total uint64
	for _, it := range s.items {
		total += it.SizeOriginal
	}
	return total
}

// AllDone reports whether every selected item finished its run.
// An empty selection is done.
func (s *Selection) AllDone() bool {
	for _, it := range s.items {
		if !it.Done() {
			return false
		}
	}
	return true
}
