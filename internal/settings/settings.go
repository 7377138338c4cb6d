// Package settings holds the user-facing image settings that are persisted
// between sessions and snapshotted at the start of every run.
package settings

import (
	"errors"
	"fmt"
	"regexp"
)

// DefaultOutputFolder is the name of the folder results are written to.
const DefaultOutputFolder = "_rshrinked"

// DefaultFilePattern matches case variants of jpg, jpeg and png.
const DefaultFilePattern = `(?i)\.(jpe?g|png)$`

type ResizeMethod string

const (
	ResizeAbsolute ResizeMethod = "absolute"
	ResizeRelative ResizeMethod = "relative"
)

var ErrInvalidSettings = errors.New("invalid settings")

// Settings is a plain value; copying it yields an independent snapshot.
type Settings struct {
	Dimensions             Dimensions   `json:"dimensions"`
	ResizeMethod           ResizeMethod `json:"resize_method"`
	DimensionsRelative     int          `json:"dimensions_relative"`
	ChangeDimensions       bool         `json:"change_dimensions"`
	CompressionQuality     int          `json:"compression_quality"`
	OutputFolderName       string       `json:"output_folder_name"`
	OutputParentDir        string       `json:"output_folder_parent_dir_path"`
	OutputParentDirEnabled bool         `json:"output_folder_parent_dir_path_enabled"`
	LightMode              bool         `json:"light_mode"`
	FilePattern            string       `json:"file_pattern"`
}

func Default() Settings {
	return Settings{
		Dimensions:         DefaultDimensions(),
		ResizeMethod:       ResizeRelative,
		DimensionsRelative: 50,
		ChangeDimensions:   true,
		CompressionQuality: 85,
		OutputFolderName:   DefaultOutputFolder,
		FilePattern:        DefaultFilePattern,
	}
}

// OutputParent returns the override parent directory, or "" when the
// output folder should sit next to each input file.
func (s Settings) OutputParent() string {
	if s.OutputParentDirEnabled {
		return s.OutputParentDir
	}
	return ""
}

func (s Settings) Validate() error {
	switch s.ResizeMethod {
	case ResizeAbsolute:
		if s.ChangeDimensions {
			if err := s.Dimensions.Validate(); err != nil {
				return err
			}
		}
	case ResizeRelative:
		if s.ChangeDimensions && (s.DimensionsRelative < 1 || s.DimensionsRelative > 100) {
			return fmt.Errorf("%w: relative size %d%% outside 1..100", ErrInvalidSettings, s.DimensionsRelative)
		}
	default:
		return fmt.Errorf("%w: unknown resize method %q", ErrInvalidSettings, s.ResizeMethod)
	}
	if s.CompressionQuality < 1 || s.CompressionQuality > 100 {
		return fmt.Errorf("%w: compression quality %d outside 1..100", ErrInvalidSettings, s.CompressionQuality)
	}
	if s.OutputFolderName == "" {
		return fmt.Errorf("%w: output folder name is empty", ErrInvalidSettings)
	}
	if s.FilePattern != "" {
		if _, err := regexp.Compile(s.FilePattern); err != nil {
			return fmt.Errorf("%w: file pattern: %v", ErrInvalidSettings, err)
		}
	}
	return nil
}
