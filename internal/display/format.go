// Package display formats sizes and ratios for progress output.
package display

import (
	"fmt"
	"math"
)

// FormatBytes returns a human-readable size (B, KiB, MiB, GiB, TiB, PiB, EiB).
func FormatBytes(bytes uint64) string {
	const unit = 1024
	if bytes < unit {
		return fmt.Sprintf("%d B", bytes)
	}
	div, exp := uint64(unit), 0
	for n := bytes / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	suffixes := []string{"KiB", "MiB", "GiB", "TiB", "PiB", "EiB"}
	return fmt.Sprintf("%.1f %s", float64(bytes)/float64(div), suffixes[exp])
}

// RoundPercent returns part/total as a percentage rounded to one decimal.
// A zero total yields 0.
func RoundPercent(part, total uint64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)*1000/float64(total)) / 10
}

// SavedPercent is the share of original that newSize no longer occupies.
// Negative when the result grew.
func SavedPercent(original, newSize uint64) float64 {
	if original == 0 {
		return 0
	}
	return math.Round((float64(original)-float64(newSize))*1000/float64(original)) / 10
}
