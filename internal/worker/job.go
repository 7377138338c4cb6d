package worker

import (
	"github.com/raoulx24/imgshrink/internal/batch"
	"github.com/raoulx24/imgshrink/internal/settings"
)

// Job is one file to transform. It is a plain value: the settings are a
// copy taken when the run started, so later edits do not reach it.
type Job struct {
	InputPath  string
	OutputPath string
	Settings   settings.Settings
	Item       *batch.Item // receives the result
}
