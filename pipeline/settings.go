package pipeline

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/pokedex"
	"badc0de.net/pkg/go-pmdanim/preview"
	"badc0de.net/pkg/go-pmdanim/sheet"
)

// DefaultMissingLog is the default path of the missing animation log.
const DefaultMissingLog = "stardew_missing.log"

// Settings are the options of a conversion run.
type Settings struct {
	// BaseDir holds the pokemon and custom sprite directories.
	BaseDir string
	CSVPath string
	// ConfigDir holds the mapping configuration.
	ConfigDir string
	// ImagesDir holds eyes.png and the body position reference.
	ImagesDir string
	// Output is the output directory; variants are written below a
	// subdirectory named after the variant mode.
	Output string

	FramesPerRow int
	Workers      int

	VariantMode pokedex.VariantMode
	Filter      []string
	CustomOnly  bool
	// VariationsAsSubfolders nests the variants of a creature under the
	// directory of its base variant.
	VariationsAsSubfolders bool

	// MissingLog is appended to for every animation that could not be
	// mapped. Empty disables it.
	MissingLog string

	Preview      bool
	PreviewScale int
	Report       bool
}

// DefaultSettings returns settings with the default values of the flags.
func DefaultSettings() Settings {
	return Settings{
		Output:                 "output",
		FramesPerRow:           sheet.DefaultFramesPerRow,
		Workers:                4,
		VariationsAsSubfolders: true,
		MissingLog:             DefaultMissingLog,
		PreviewScale:           preview.DefaultScale,
	}
}

// Validate checks the settings once, before any work is done.
func (s *Settings) Validate() error {
	if fi, err := os.Stat(s.BaseDir); err != nil || !fi.IsDir() {
		return errors.Errorf("base directory %q is not a directory", s.BaseDir)
	}
	if fi, err := os.Stat(s.CSVPath); err != nil || fi.IsDir() {
		return errors.Errorf("creature table %q is not a file", s.CSVPath)
	}
	if s.ConfigDir == "" {
		return errors.New("no configuration directory")
	}
	if s.Output == "" {
		return errors.New("no output directory")
	}
	if s.FramesPerRow <= 0 {
		return errors.Errorf("frames per row must be positive, got %d", s.FramesPerRow)
	}
	if s.Workers <= 0 {
		return errors.Errorf("workers must be positive, got %d", s.Workers)
	}
	if s.Preview && s.PreviewScale <= 0 {
		return errors.Errorf("preview scale must be positive, got %d", s.PreviewScale)
	}
	return nil
}

// OutputRoot is the directory the variants of this run are written to.
func (s *Settings) OutputRoot() string {
	return filepath.Join(s.Output, s.VariantMode.String())
}
