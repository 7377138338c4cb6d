package batch

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/logging"
)

func writeFile(t *testing.T, dir, name string, size int) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(strings.Repeat("x", size)), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func newSelection(t *testing.T) *Selection {
	t.Helper()
	f, err := NewFilter("")
	if err != nil {
		t.Fatal(err)
	}
	return NewSelection(fs.New(), f, logging.Discard)
}

func TestDefaultFilter(t *testing.T) {
	f, err := NewFilter("")
	if err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"a.jpg", "b.JPG", "c.jpeg", "d.JPEG", "e.png", "f.PnG", "/x/y/g.jpg"} {
		if !f.Match(name) {
			t.Errorf("%q should match", name)
		}
	}
	for _, name := range []string{"a.gif", "jpg", "a.jpg.txt", "/photos.jpg/readme"} {
		if f.Match(name) {
			t.Errorf("%q should not match", name)
		}
	}
}

func TestNewFilterInvalid(t *testing.T) {
	if _, err := NewFilter("(["); err == nil {
		t.Error("expected compile error")
	}
}

func TestSelectionAdd(t *testing.T) {
	dir := t.TempDir()
	a := writeFile(t, dir, "a.jpg", 10)
	b := writeFile(t, dir, "b.png", 20)
	txt := writeFile(t, dir, "notes.txt", 5)

	sel := newSelection(t)
	n := sel.Add(a, b, txt, a, filepath.Join(dir, "missing.jpg"))
	if n != 2 || sel.Len() != 2 {
		t.Fatalf("added %d, len %d; want 2, 2", n, sel.Len())
	}
	if sel.TotalOriginal() != 30 {
		t.Errorf("TotalOriginal = %d", sel.TotalOriginal())
	}

	it := sel.Items()[0]
	if it.Name != "a.jpg" || it.ParentFolder != dir || it.SizeNew() != 10 || it.Done() {
		t.Errorf("unexpected item %+v", it)
	}
}

func TestSelectionRemoveAdjustsTotals(t *testing.T) {
	dir := t.TempDir()
	sel := newSelection(t)
	sel.Add(
		writeFile(t, dir, "a.jpg", 10),
		writeFile(t, dir, "b.jpg", 20),
		writeFile(t, dir, "c.jpg", 30),
	)

	var agg Aggregator
	items := sel.Items()
	items[0].Complete(4)
	agg.AddSucceeded(4)
	items[1].Complete(9)
	agg.AddSucceeded(9)
	items[2].Fail(errors.New("decode"))
	agg.AddFailed()

	if err := sel.Remove(1, &agg); err != nil {
		t.Fatal(err)
	}
	if sel.TotalOriginal() != 40 {
		t.Errorf("TotalOriginal = %d, want 40", sel.TotalOriginal())
	}
	if agg.TotalNew() != 4 || agg.Succeeded() != 1 {
		t.Errorf("agg after removing succeeded item: new=%d ok=%d", agg.TotalNew(), agg.Succeeded())
	}

	// the failed item never contributed to the size total
	if err := sel.Remove(1, &agg); err != nil {
		t.Fatal(err)
	}
	if agg.TotalNew() != 4 || agg.Failed() != 0 {
		t.Errorf("agg after removing failed item: new=%d failed=%d", agg.TotalNew(), agg.Failed())
	}

	if err := sel.Remove(5, &agg); err == nil {
		t.Error("expected out of range error")
	}
}

func TestSelectionReplace(t *testing.T) {
	dir := t.TempDir()
	sel := newSelection(t)
	sel.Add(writeFile(t, dir, "a.jpg", 10))

	var agg Aggregator
	agg.AddSucceeded(7)

	n := sel.Replace(&agg, writeFile(t, dir, "b.jpg", 3))
	if n != 1 || sel.Len() != 1 || sel.Items()[0].Name != "b.jpg" {
		t.Errorf("replace failed: n=%d items=%v", n, sel.Items())
	}
	if agg.TotalNew() != 0 {
		t.Errorf("totals not reset: %d", agg.TotalNew())
	}
}

func TestItemLifecycle(t *testing.T) {
	it := newItem("/p/a.jpg", 100)
	if it.Outcome() != Pending || it.SizeNew() != 100 {
		t.Fatalf("fresh item: %v %d", it.Outcome(), it.SizeNew())
	}

	it.Complete(40)
	if !it.Done() || it.Outcome() != Succeeded || it.SizeNew() != 40 {
		t.Errorf("after Complete: %v %v %d", it.Done(), it.Outcome(), it.SizeNew())
	}

	it.Reset()
	if it.Done() || it.Outcome() != Pending || it.SizeNew() != 100 || it.Err() != "" {
		t.Errorf("after Reset: %v %v %d %q", it.Done(), it.Outcome(), it.SizeNew(), it.Err())
	}

	it.Fail(errors.New("corrupt"))
	if !it.Done() || it.Outcome() != Failed || it.SizeNew() != 100 || it.Err() != "corrupt" {
		t.Errorf("after Fail: %v %v %d %q", it.Done(), it.Outcome(), it.SizeNew(), it.Err())
	}
}

func TestSnapshotSeesSizeWithDone(t *testing.T) {
	items := make([]*Item, 200)
	for i := range items {
		items[i] = newItem("/p/f.jpg", 1000)
	}
	var agg Aggregator

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for _, it := range items {
			it.Complete(1)
			agg.AddSucceeded(1)
		}
	}()

	for {
		p := Snapshot(items, &agg)
		for _, r := range p.Rows {
			if r.Done && r.SizeNew != 1 {
				t.Fatalf("done row with stale size %d", r.SizeNew)
			}
		}
		if p.Finished() {
			break
		}
	}
	wg.Wait()

	p := Snapshot(items, &agg)
	if p.Succeeded != 200 || p.TotalNew != 200 || p.Percent() != 100 {
		t.Errorf("final snapshot %+v", p)
	}
	if p.SavedPercent() != 99.9 {
		t.Errorf("SavedPercent = %v", p.SavedPercent())
	}
}

func TestAllDoneEmpty(t *testing.T) {
	if !newSelection(t).AllDone() {
		t.Error("empty selection should be done")
	}
}
