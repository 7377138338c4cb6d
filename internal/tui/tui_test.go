package tui

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/raoulx24/imgshrink/internal/batch"
)

// stepSource returns its snapshots in order, repeating the last one.
type stepSource struct {
	mu    sync.Mutex
	steps []batch.Progress
	i     int
}

func (s *stepSource) Progress() batch.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := s.steps[s.i]
	if s.i < len(s.steps)-1 {
		s.i++
	}
	return p
}

func progressOf(rows ...batch.Row) batch.Progress {
	p := batch.Progress{Rows: rows, Total: len(rows)}
	for _, r := range rows {
		p.TotalOriginal += r.SizeOriginal
		if !r.Done {
			continue
		}
		p.Done++
		switch r.Outcome {
		case batch.Succeeded:
			p.Succeeded++
			p.TotalNew += r.SizeNew
		case batch.Failed:
			p.Failed++
		}
	}
	return p
}

var (
	pendingA = batch.Row{Name: "a.jpg", Path: "/in/a.jpg", SizeOriginal: 2048, SizeNew: 2048}
	doneA    = batch.Row{Name: "a.jpg", Path: "/in/a.jpg", SizeOriginal: 2048, SizeNew: 1024, Done: true, Outcome: batch.Succeeded}
	failedB  = batch.Row{Name: "b.png", Path: "/in/b.png", SizeOriginal: 100, SizeNew: 100, Done: true, Outcome: batch.Failed, Err: "decode failed"}
)

func TestModelQuitsWhenFinished(t *testing.T) {
	src := &stepSource{steps: []batch.Progress{
		progressOf(pendingA, failedB),
		progressOf(doneA, failedB),
	}}
	m := newModel(src, Options{})

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(model)
	if !m.finished || cmd == nil {
		t.Fatalf("finished=%v cmd=%v", m.finished, cmd)
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected quit")
	}

	view := m.View()
	for _, want := range []string{"a.jpg", "b.png", "✓", "✗", "decode failed", "1 ok, 1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestModelKeepsTickingWhileRunning(t *testing.T) {
	src := &stepSource{steps: []batch.Progress{progressOf(pendingA)}}
	next, cmd := newModel(src, Options{Light: true}).Update(tickMsg(time.Now()))
	if next.(model).finished || cmd == nil {
		t.Error("model stopped polling early")
	}
}

func TestModelQuitKey(t *testing.T) {
	src := &stepSource{steps: []batch.Progress{progressOf(pendingA)}}
	next, _ := newModel(src, Options{}).Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if !next.(model).interrupted {
		t.Error("q did not interrupt")
	}
}

func TestVisibleRowsFitsTerminal(t *testing.T) {
	rows := make([]batch.Row, 50)
	src := &stepSource{steps: []batch.Progress{progressOf(rows...)}}
	next, _ := newModel(src, Options{}).Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	m := next.(model)
	if got := len(m.visibleRows()); got != 12 {
		t.Errorf("visible rows = %d", got)
	}
	if !strings.Contains(m.View(), "38 more") {
		t.Error("hidden row count missing")
	}
}

func TestPlain(t *testing.T) {
	src := &stepSource{steps: []batch.Progress{
		progressOf(pendingA, failedB),
		progressOf(doneA, failedB),
	}}
	var buf bytes.Buffer
	p, err := Plain(context.Background(), &buf, src, time.Millisecond)
	if err != nil {
		t.Fatal(err)
	}
	if !p.Finished() {
		t.Error("returned before finish")
	}
	out := buf.String()
	if strings.Count(out, "/in/b.png") != 1 {
		t.Errorf("failed row printed more than once:\n%s", out)
	}
	for _, want := range []string{"FAIL /in/b.png: decode failed", "ok   /in/a.jpg 2.0 KiB -> 1.0 KiB (50.0%)", "1 ok, 1 failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestPlainCancelled(t *testing.T) {
	src := &stepSource{steps: []batch.Progress{progressOf(pendingA)}}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Plain(ctx, &bytes.Buffer{}, src, time.Millisecond); err == nil {
		t.Error("expected context error")
	}
}
