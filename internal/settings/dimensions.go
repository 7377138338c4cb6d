package settings

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxDimension caps each side of an absolute target size.
const MaxDimension = 8000

var (
	ErrInvalidDimensions  = errors.New("invalid dimensions")
	ErrDimensionsTooLarge = errors.New("dimensions too large")
)

type Dimensions struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

func DefaultDimensions() Dimensions {
	return Dimensions{Width: 1920, Height: 1080}
}

func (d Dimensions) String() string {
	return fmt.Sprintf("%dx%d", d.Width, d.Height)
}

// ParseDimensions parses "WIDTHxHEIGHT", e.g. "1920x1080".
func ParseDimensions(s string) (Dimensions, error) {
	w, h, ok := strings.Cut(strings.TrimSpace(s), "x")
	if !ok {
		return Dimensions{}, fmt.Errorf("%w: %q: expected WIDTHxHEIGHT", ErrInvalidDimensions, s)
	}
	return DimensionsFromStrings(w, h)
}

// DimensionsFromStrings validates a width/height pair entered as separate fields.
func DimensionsFromStrings(width, height string) (Dimensions, error) {
	w, err := strconv.Atoi(strings.TrimSpace(width))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: width %q is not a number", ErrInvalidDimensions, width)
	}
	h, err := strconv.Atoi(strings.TrimSpace(height))
	if err != nil {
		return Dimensions{}, fmt.Errorf("%w: height %q is not a number", ErrInvalidDimensions, height)
	}
	d := Dimensions{Width: w, Height: h}
	return d, d.Validate()
}

func (d Dimensions) Validate() error {
	if d.Width <= 0 || d.Height <= 0 {
		return fmt.Errorf("%w: %s: both sides must be positive", ErrInvalidDimensions, d)
	}
	if d.Width > MaxDimension || d.Height > MaxDimension {
		return fmt.Errorf("%w: %s exceeds %dx%d", ErrDimensionsTooLarge, d, MaxDimension, MaxDimension)
	}
	return nil
}
