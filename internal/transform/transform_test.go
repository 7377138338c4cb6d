package transform

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/settings"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x), uint8(y), 128, 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

// writeNoisyJPEG writes a low quality JPEG that grows when re-encoded at 100.
func writeNoisyJPEG(t *testing.T, path string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 2), uint8(y * 3), uint8(x ^ y), 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 5}); err != nil {
		t.Fatal(err)
	}
	f.Close()
}

func decodeBounds(t *testing.T, path string) image.Rectangle {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode %s: %v", path, err)
	}
	return image.Rect(0, 0, cfg.Width, cfg.Height)
}

func TestTransformRelativeToJPEG(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.jpg")
	writePNG(t, src, 200, 100)

	s := settings.Default() // relative 50%
	if err := NewImage(fs.New()).Transform(context.Background(), src, dst, s); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	b := decodeBounds(t, dst)
	if b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("got %dx%d, want 100x50", b.Dx(), b.Dy())
	}

	f, _ := os.Open(dst)
	defer f.Close()
	if _, err := jpeg.DecodeConfig(f); err != nil {
		t.Errorf("output is not a jpeg: %v", err)
	}
}

func TestTransformAbsoluteFitsBox(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.png")
	dst := filepath.Join(dir, "out.png")
	writePNG(t, src, 200, 100)

	s := settings.Default()
	s.ResizeMethod = settings.ResizeAbsolute
	s.Dimensions = settings.Dimensions{Width: 40, Height: 40}

	if err := NewImage(nil).Transform(context.Background(), src, dst, s); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	b := decodeBounds(t, dst)
	if b.Dx() != 40 || b.Dy() != 20 {
		t.Errorf("got %dx%d, want 40x20", b.Dx(), b.Dy())
	}
}

func TestTransformKeepsOriginalWhenRecompressionGrows(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.jpg")
	dst := filepath.Join(dir, "out.jpg")

	writeNoisyJPEG(t, src)

	s := settings.Default()
	s.ChangeDimensions = false
	s.CompressionQuality = 100
	if err := NewImage(nil).Transform(context.Background(), src, dst, s); err != nil {
		t.Fatalf("Transform: %v", err)
	}

	want, _ := os.ReadFile(src)
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, want) {
		t.Errorf("output is %d bytes, want the %d byte original", len(got), len(want))
	}
	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("temp files left behind: %d entries", len(entries))
	}
}

// publishFS records where copies and renames go.
type publishFS struct {
	fs.FS
	copies  []string
	renames []string
}

func (p *publishFS) CopyFile(ctx context.Context, src, dst string) error {
	p.copies = append(p.copies, dst)
	return p.FS.CopyFile(ctx, src, dst)
}

func (p *publishFS) Rename(ctx context.Context, oldPath, newPath string) error {
	p.renames = append(p.renames, newPath)
	return p.FS.Rename(ctx, oldPath, newPath)
}

func TestKeptOriginalIsPublishedByRename(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "in.jpg")
	dst := filepath.Join(dir, "out.jpg")
	writeNoisyJPEG(t, src)

	s := settings.Default()
	s.ChangeDimensions = false
	s.CompressionQuality = 100

	pfs := &publishFS{FS: fs.New()}
	if err := NewImage(pfs).Transform(context.Background(), src, dst, s); err != nil {
		t.Fatalf("Transform: %v", err)
	}
	if len(pfs.copies) != 1 || pfs.copies[0] == dst {
		t.Errorf("copied into %v, want a temp file", pfs.copies)
	}
	if len(pfs.renames) != 1 || pfs.renames[0] != dst {
		t.Errorf("renamed into %v, want %s", pfs.renames, dst)
	}
	want, _ := os.ReadFile(src)
	got, _ := os.ReadFile(dst)
	if !bytes.Equal(got, want) {
		t.Error("output differs from the original")
	}
}

func TestResizeKeepsSizeWhenDisabled(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))
	s := settings.Default()
	s.ChangeDimensions = false
	if got := Resize(img, s).Bounds(); got.Dx() != 30 || got.Dy() != 10 {
		t.Errorf("got %v", got)
	}
}

func TestResizeAbsoluteNoUpscale(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 30, 10))
	s := settings.Default()
	s.ResizeMethod = settings.ResizeAbsolute
	s.Dimensions = settings.Dimensions{Width: 1920, Height: 1080}
	if got := Resize(img, s).Bounds(); got.Dx() != 30 || got.Dy() != 10 {
		t.Errorf("got %v", got)
	}
}

func TestTransformErrors(t *testing.T) {
	dir := t.TempDir()
	s := settings.Default()
	tr := NewImage(nil)

	if err := tr.Transform(context.Background(), filepath.Join(dir, "missing.png"), filepath.Join(dir, "o.png"), s); err == nil {
		t.Error("expected error for missing input")
	}

	bad := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(bad, []byte("not an image"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := tr.Transform(context.Background(), bad, filepath.Join(dir, "o.jpg"), s); err == nil {
		t.Error("expected decode error")
	}

	src := filepath.Join(dir, "in.png")
	writePNG(t, src, 4, 4)
	err := tr.Transform(context.Background(), src, filepath.Join(dir, "o.gif"), s)
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("expected ErrUnsupportedFormat, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".png" && filepath.Ext(e.Name()) != ".jpg" {
			t.Errorf("leftover file %s", e.Name())
		}
	}
}
