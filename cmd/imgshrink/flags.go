package main

// Flags shared by run and watch. Image flags overlay the saved settings:
// only flags given on the command line change them.

import (
	"errors"
	"flag"
	"fmt"
	"io"

	"github.com/raoulx24/imgshrink/internal/settings"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

type options struct {
	configPath   string
	settingsPath string
	workers      int
	logFile      string
	plain        bool
	save         bool
	showVersion  bool

	image imageFlags
}

// imageFlags are applied onto settings.Settings after Parse.
type imageFlags struct {
	size      dimensionsValue
	percent   int
	keepDims  bool
	quality   int
	folder    string
	outParent string
	pattern   string
	light     bool
	dark      bool
	set       map[string]bool
}

type dimensionsValue struct{ d settings.Dimensions }

func (v *dimensionsValue) String() string {
	if v.d.Width == 0 {
		return ""
	}
	return v.d.String()
}

func (v *dimensionsValue) Set(s string) error {
	d, err := settings.ParseDimensions(s)
	if err != nil {
		return err
	}
	v.d = d
	return nil
}

func newFlagSet(name string, out io.Writer, o *options) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(out)
	fs.Usage = func() { printUsage(out, name, fs) }

	defineGeneralFlags(fs, o)
	defineImageFlags(fs, &o.image)
	return fs
}

func defineGeneralFlags(fs *flag.FlagSet, o *options) {
	fs.StringVar(&o.configPath, "config", "config.yaml", "Application config file (YAML)")
	fs.StringVar(&o.configPath, "c", "config.yaml", "Same as --config")
	fs.StringVar(&o.settingsPath, "settings", "", "Settings file (JSON); overrides settingsPath from config")
	fs.IntVar(&o.workers, "workers", 0, "Worker goroutines (0 = config, then one per CPU)")
	fs.IntVar(&o.workers, "j", 0, "Same as --workers")
	fs.StringVar(&o.logFile, "log", "", "Append logs to file")
	fs.BoolVar(&o.plain, "plain", false, "Print one line per file instead of the interactive view")
	fs.BoolVar(&o.save, "save", false, "Write the resulting settings back to the settings file")
	fs.BoolVar(&o.showVersion, "version", false, "Print version and exit")
}

func defineImageFlags(fs *flag.FlagSet, f *imageFlags) {
	fs.Var(&f.size, "size", "Fit inside WxH, keeping aspect ratio (absolute resize)")
	fs.IntVar(&f.percent, "percent", 0, "Scale to N% of the original (relative resize)")
	fs.BoolVar(&f.keepDims, "keep-dimensions", false, "Only recompress; do not resize")
	fs.IntVar(&f.quality, "quality", 0, "JPEG quality 1..100")
	fs.IntVar(&f.quality, "q", 0, "Same as --quality")
	fs.StringVar(&f.folder, "folder", "", "Output folder name")
	fs.StringVar(&f.outParent, "out-parent", "", "Put the output folder under this directory instead of next to each file")
	fs.StringVar(&f.pattern, "pattern", "", "File name pattern (Go regexp)")
	fs.BoolVar(&f.light, "light", false, "Colors for a light terminal")
	fs.BoolVar(&f.dark, "dark", false, "Colors for a dark terminal")
}

// apply overlays the flags that were set on s.
func (f *imageFlags) apply(s *settings.Settings) {
	if f.set["size"] {
		s.Dimensions = f.size.d
		s.ResizeMethod = settings.ResizeAbsolute
		s.ChangeDimensions = true
	}
	if f.set["percent"] {
		s.DimensionsRelative = f.percent
		s.ResizeMethod = settings.ResizeRelative
		s.ChangeDimensions = true
	}
	if f.keepDims {
		s.ChangeDimensions = false
	}
	if f.set["quality"] || f.set["q"] {
		s.CompressionQuality = f.quality
	}
	if f.set["folder"] {
		s.OutputFolderName = f.folder
	}
	if f.set["out-parent"] {
		s.OutputParentDir = f.outParent
		s.OutputParentDirEnabled = f.outParent != ""
	}
	if f.set["pattern"] {
		s.FilePattern = f.pattern
	}
	if f.light {
		s.LightMode = true
	} else if f.dark {
		s.LightMode = false
	}
}

// parse parses args and records which flags were given.
func parse(fs *flag.FlagSet, o *options, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	o.image.set = map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { o.image.set[fl.Name] = true })
	if o.image.set["size"] && o.image.set["percent"] {
		return fmt.Errorf("%w: --size and --percent are mutually exclusive", errUsage)
	}
	return nil
}

func printUsage(w io.Writer, name string, fs *flag.FlagSet) {
	switch name {
	case "run":
		fmt.Fprintf(w, `Usage:
  imgshrink run [options] FILE|DIR...

Shrink the given images, or the matching images directly inside the given
directories, and show progress until every file is done.

Options:
`)
	case "watch":
		fmt.Fprintf(w, `Usage:
  imgshrink watch [options]

Watch the inbox directory from the config file and shrink new images as
they arrive. SIGHUP reloads the config and settings files.

Options:
`)
	}
	fs.PrintDefaults()
	fmt.Fprintf(w, `
Examples:
  imgshrink run --percent 50 photos/*.jpg
  imgshrink run --size 1920x1080 -q 80 --save ~/Pictures/trip
  imgshrink watch -c /etc/imgshrink/config.yaml
`)
}
