package batch

import "github.com/raoulx24/imgshrink/internal/display"

// Row is a consistent read of one item.
type Row struct {
	Name         string
	Path         string
	SizeOriginal uint64
	SizeNew      uint64
	Done         bool
	Outcome      Outcome
	Err          string
}

// Progress is what a poller renders on each tick.
type Progress struct {
	Rows          []Row
	Total         int
	Done          int
	Succeeded     int
	Failed        int
	TotalOriginal uint64
	TotalNew      uint64
}

// Snapshot reads items and agg without blocking writers. done is loaded
// before the size, so a row marked done always carries its final size.
func Snapshot(items []*Item, agg *Aggregator) Progress {
	p := Progress{Rows: make([]Row, 0, len(items)), Total: len(items)}
	for _, it := range items {
		r := Row{
			Name:         it.Name,
			Path:         it.Path,
			SizeOriginal: it.SizeOriginal,
			Done:         it.Done(),
		}
		r.SizeNew = it.SizeNew()
		r.Outcome = it.Outcome()
		if r.Done {
			p.Done++
			switch r.Outcome {
			case Succeeded:
				p.Succeeded++
			case Failed:
				p.Failed++
				r.Err = it.Err()
			}
		}
		p.TotalOriginal += it.SizeOriginal
		p.Rows = append(p.Rows, r)
	}
	if agg != nil {
		p.TotalNew = agg.TotalNew()
	}
	return p
}

// Finished reports whether every row is done.
func (p Progress) Finished() bool { return p.Done == p.Total }

// Percent of items done, rounded to one decimal.
func (p Progress) Percent() float64 {
	return display.RoundPercent(uint64(p.Done), uint64(p.Total))
}

// SucceededOriginal sums the original size of succeeded rows, the
// baseline TotalNew is compared against.
func (p Progress) SucceededOriginal() uint64 {
	var total uint64
	for _, r := range p.Rows {
		if r.Done && r.Outcome == Succeeded {
			total += r.SizeOriginal
		}
	}
	return total
}

// SavedPercent compares succeeded items before and after.
func (p Progress) SavedPercent() float64 {
	return display.SavedPercent(p.SucceededOriginal(), p.TotalNew)
}
