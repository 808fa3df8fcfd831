// Package sheet composes the output sprite sheet of a creature variant.
package sheet

import (
	"image"
	"image/color"
	"image/draw"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animset"
)

// DefaultFramesPerRow is the default width of the output grid, in cells.
const DefaultFramesPerRow = 32

// FileName is the name of the composed sheet in an output directory.
const FileName = "body.png"

// ErrNoFrames is returned when a layout has no physical frames to compose.
var ErrNoFrames = errors.New("no frames to compose")

// Options control the output grid.
type Options struct {
	FramesPerRow int
	// FootDifference is added to the vertical position of every frame.
	FootDifference int
}

// Sheet is a composed output sheet of uniform cells.
type Sheet struct {
	Image *image.NRGBA

	CellWidth, CellHeight int
	FramesPerRow          int
	Frames                int

	// DebugMap maps output frame indices to source frame indices.
	DebugMap map[int]int
	// Skipped counts frames left blank.
	Skipped int
}

// CellRect returns the rectangle of output frame i in a grid of w x h cells
// with perRow cells per row.
func CellRect(i, w, h, perRow int) image.Rectangle {
	x, y := (i%perRow)*w, (i/perRow)*h
	return image.Rect(x, y, x+w, y+h)
}

// Cell returns the rectangle of output frame i.
func (s *Sheet) Cell(i int) image.Rectangle {
	return CellRect(i, s.CellWidth, s.CellHeight, s.FramesPerRow)
}

// Frame returns a copy of output frame i.
func (s *Sheet) Frame(i int) *image.NRGBA {
	return imaging.Crop(s.Image, s.Cell(i))
}

// Save writes the sheet as a PNG file.
func (s *Sheet) Save(path string) error {
	if err := imaging.Save(s.Image, path); err != nil {
		return errors.Wrapf(err, "saving sheet to %s", path)
	}
	return nil
}

type sourceCache map[string]image.Image

func (c sourceCache) get(dir, file string) image.Image {
	if img, ok := c[file]; ok {
		return img
	}
	path := filepath.Join(dir, file)
	img, err := imaging.Open(path)
	if err != nil {
		glog.Warningf("cannot read sheet %s: %v", path, err)
		img = nil
	}
	c[file] = img
	return img
}

// Compose copies the physical frames of every group of l into a new sheet.
//
// Output frame Start+k of a group is the k-th frame of its owner, counting
// front, right, back and left frames in that order. Each frame is centred in
// its cell and the left frames are mirrored if the owner asks for it. Frames
// outside their source sheet are left blank.
func Compose(s *animset.Set, l *animset.Layout, opts Options) (*Sheet, error) {
	if l.Total == 0 {
		return nil, ErrNoFrames
	}
	if s.MaxWidth <= 0 || s.MaxHeight <= 0 {
		return nil, errors.Errorf("invalid cell size %dx%d", s.MaxWidth, s.MaxHeight)
	}
	perRow := opts.FramesPerRow
	if perRow <= 0 {
		perRow = DefaultFramesPerRow
	}
	rows := (l.Total + perRow - 1) / perRow

	out := &Sheet{
		Image:        imaging.New(s.MaxWidth*perRow, s.MaxHeight*rows, color.NRGBA{}),
		CellWidth:    s.MaxWidth,
		CellHeight:   s.MaxHeight,
		FramesPerRow: perRow,
		Frames:       l.Total,
		DebugMap:     make(map[int]int, l.Total),
	}

	cache := make(sourceCache)
	for _, g := range l.Groups {
		r := g.Owner
		src := cache.get(s.Directory, r.Source.AnimFile)
		if src == nil {
			glog.Warningf("%s: skipping %s (%d frames): sheet %s unavailable", s.Variant, r.Target, g.Count, r.Source.AnimFile)
			out.Skipped += g.Count
			continue
		}
		k := 0
		for _, d := range animset.Directions {
			flip := d == animset.Left && r.Entry.FlipLeftFrames
			for _, f := range r.Frames[d] {
				idx := g.Start + k
				k++
				if !out.place(s, r, src, f, idx, flip, opts.FootDifference) {
					out.Skipped++
					continue
				}
				out.DebugMap[idx] = f
			}
		}
	}
	glog.V(1).Infof("%s: composed %d frames (%d skipped) into %dx%d", s.Variant, out.Frames, out.Skipped, out.Image.Bounds().Dx(), out.Image.Bounds().Dy())
	return out, nil
}

func (sh *Sheet) place(s *animset.Set, r *animset.Resolved, src image.Image, f, idx int, flip bool, foot int) bool {
	fw, fh := r.Source.FrameWidth, r.Source.FrameHeight
	n := r.FramesPerDirection
	if n <= 0 {
		return false
	}
	row, col := f/n, f%n
	b := src.Bounds()
	rect := image.Rect(col*fw, row*fh, (col+1)*fw, (row+1)*fh).Add(b.Min)
	if !rect.In(b) {
		glog.Warningf("%s: %s frame %d out of bounds: %v vs sheet %v", s.Variant, r.Target, f, rect, b)
		return false
	}

	frame := imaging.Crop(src, rect)
	if flip {
		frame = imaging.FlipH(frame)
	}
	pos := image.Pt((sh.CellWidth-fw)/2, (sh.CellHeight-fh)/2+foot)
	cell := imaging.Overlay(imaging.New(sh.CellWidth, sh.CellHeight, color.NRGBA{}), frame, pos, 1.0)

	dst := sh.Cell(idx)
	draw.Draw(sh.Image, dst, cell, image.Point{}, draw.Src)
	glog.V(2).Infof("%s: %s frame %d -> %d", s.Variant, r.Target, f, idx)
	return true
}
