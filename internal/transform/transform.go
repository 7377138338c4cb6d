// Package transform decodes, resizes and re-encodes a single image file.
package transform

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/nfnt/resize"

	"github.com/raoulx24/imgshrink/internal/fs"
	"github.com/raoulx24/imgshrink/internal/settings"
)

var ErrUnsupportedFormat = errors.New("unsupported output format")

// Transformer writes a processed copy of src to dst.
type Transformer interface {
	Transform(ctx context.Context, src, dst string, s settings.Settings) error
}

type encodeFunc func(w io.Writer, img image.Image, quality int) error

var (
	initOnce sync.Once
	encoders map[string]encodeFunc
)

// Init sets up the codec table. It runs once per process and is called
// implicitly by Transform; the backend needs no teardown.
func Init() {
	initOnce.Do(func() {
		encoders = map[string]encodeFunc{
			".jpg":  encodeJPEG,
			".jpeg": encodeJPEG,
			".png":  encodePNG,
		}
	})
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

// PNG is lossless, so quality does not apply.
func encodePNG(w io.Writer, img image.Image, _ int) error {
	enc := png.Encoder{CompressionLevel: png.BestCompression}
	return enc.Encode(w, img)
}

// Image is the Transformer backed by the standard codecs and nfnt/resize.
// The output format follows the extension of dst.
type Image struct {
	fs fs.FS
}

func NewImage(filesystem fs.FS) *Image {
	if filesystem == nil {
		filesystem = fs.New()
	}
	return &Image{fs: filesystem}
}

func (t *Image) Transform(ctx context.Context, src, dst string, s settings.Settings) error {
	Init()
	if err := ctx.Err(); err != nil {
		return err
	}

	encode, ok := encoders[strings.ToLower(filepath.Ext(dst))]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(dst))
	}

	img, err := decodeFile(src)
	if err != nil {
		return err
	}
	before := img.Bounds()
	img = Resize(img, s)
	resized := img.Bounds() != before

	tmp, err := os.CreateTemp(filepath.Dir(dst), "."+filepath.Base(dst)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp output: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
	}()

	if err := encode(tmp, img, s.CompressionQuality); err != nil {
		return fmt.Errorf("encoding %s: %w", dst, err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	// Recompressing alone must not grow the file.
	if !resized && strings.EqualFold(filepath.Ext(src), filepath.Ext(dst)) {
		grew, err := t.larger(tmpName, src)
		if err != nil {
			return err
		}
		if grew {
			if err := t.fs.CopyFile(ctx, src, tmpName); err != nil {
				return fmt.Errorf("keeping original: %w", err)
			}
		}
	}
	return t.fs.Rename(ctx, tmpName, dst)
}

// larger reports whether a is bigger than b.
func (t *Image) larger(a, b string) (bool, error) {
	ai, err := t.fs.Stat(a)
	if err != nil {
		return false, err
	}
	bi, err := t.fs.Stat(b)
	if err != nil {
		return false, err
	}
	return ai.Size > bi.Size, nil
}

func decodeFile(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return img, nil
}

// Resize applies the dimension settings. Absolute sizes fit the image
// inside the box keeping its aspect ratio and never upscale; relative
// sizes scale the width by the percentage.
func Resize(img image.Image, s settings.Settings) image.Image {
	if !s.ChangeDimensions {
		return img
	}

	b := img.Bounds()
	switch s.ResizeMethod {
	case settings.ResizeAbsolute:
		return resize.Thumbnail(uint(s.Dimensions.Width), uint(s.Dimensions.Height), img, resize.Lanczos3)
	case settings.ResizeRelative:
		if s.DimensionsRelative >= 100 {
			return img
		}
		w := b.Dx() * s.DimensionsRelative / 100
		if w < 1 {
			w = 1
		}
		return resize.Resize(uint(w), 0, img, resize.Lanczos3)
	default:
		return img
	}
}
