package animdata

import (
	"image"
	_ "image/png"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// MaxSheetSize is the largest sheet dimension accepted without a warning.
const MaxSheetSize = 8192

// Geometry describes the grid actually present in a sprite sheet.
type Geometry struct {
	Width, Height int
	Rows, Columns int
}

// Inspect reads the header of the sheet at path and returns its grid for
// frames of the given size. Pixel data is not decoded.
func Inspect(path string, frameWidth, frameHeight int) (Geometry, error) {
	if frameWidth <= 0 || frameHeight <= 0 {
		return Geometry{}, errors.Errorf("invalid frame size %dx%d", frameWidth, frameHeight)
	}
	f, err := os.Open(path)
	if err != nil {
		return Geometry{}, errors.Wrap(err, "opening sheet")
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return Geometry{}, errors.Wrapf(err, "reading header of %s", path)
	}
	g := Geometry{
		Width:   cfg.Width,
		Height:  cfg.Height,
		Rows:    cfg.Height / frameHeight,
		Columns: cfg.Width / frameWidth,
	}
	if cfg.Width%frameWidth != 0 || cfg.Height%frameHeight != 0 {
		glog.Warningf("%s: %dx%d is not a multiple of the %dx%d frame size", path, cfg.Width, cfg.Height, frameWidth, frameHeight)
	}
	if cfg.Width > MaxSheetSize || cfg.Height > MaxSheetSize {
		glog.Warningf("%s: %dx%d exceeds %d pixels", path, cfg.Width, cfg.Height, MaxSheetSize)
	}
	return g, nil
}

// FramesPerDirection returns the authoritative frame count of a: the declared
// count, capped by the columns present in the sheet.
func (a *Animation) FramesPerDirection(g Geometry) int {
	if g.Columns < a.TotalFrames {
		return g.Columns
	}
	return a.TotalFrames
}
