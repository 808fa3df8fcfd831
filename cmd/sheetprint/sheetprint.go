// Command sheetprint prints the frames of a converted body in the terminal.
//
// Without -frame or -animation the whole body.png is printed.
package main

import (
	"flag"
	"image"
	"os"
	"path/filepath"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/disintegration/imaging"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animset"
	"badc0de.net/pkg/go-pmdanim/body"
	"badc0de.net/pkg/go-pmdanim/imageprint"
	"badc0de.net/pkg/go-pmdanim/sheet"
)

var (
	dir       = flag.String("dir", ".", "output directory holding body.png and body.json")
	frame     = flag.Int("frame", -1, "output frame to print")
	animation = flag.String("animation", "", "animation whose frames to print")
	direction = flag.String("direction", "front", "direction of -animation: front, right, back or left")

	col      = flag.Bool("col", true, "whether to use color")
	col256   = flag.Bool("col256", false, "whether to use 256 col instead of 24 bit")
	iterm    = flag.Bool("iterm", false, "whether to print with iterm escape code instead of 24 bit")
	rasterm  = flag.Bool("rasterm", false, "whether to print with the kitty, iterm or sixel protocol")
	blanks   = flag.Bool("blanks", true, "whether to just use colored blanks instead of some bad ascii art")
	downsize = flag.Bool("downsize", true, "whether to shrink images to fit the terminal")
)

// cells describes the grid of a composed sheet.
type cells struct {
	img     image.Image
	w, h    int
	perRow  int
	nFrames int
}

func (c *cells) frame(i int) (image.Image, error) {
	if i < 0 || i >= c.nFrames {
		return nil, errors.Errorf("frame %d outside 0..%d", i, c.nFrames-1)
	}
	return imaging.Crop(c.img, sheet.CellRect(i, c.w, c.h, c.perRow)), nil
}

func loadCells(dir string, doc *body.Document) (*cells, error) {
	img, err := imaging.Open(filepath.Join(dir, sheet.FileName))
	if err != nil {
		return nil, errors.Wrap(err, "opening sheet")
	}
	var size body.Size
	for _, d := range animset.Directions {
		if b := doc.Body(d); b != nil {
			size = b.BodySize
			break
		}
	}
	if size.Width <= 0 || size.Height <= 0 {
		return nil, errors.New("descriptor has no body size")
	}
	c := &cells{img: img, w: size.Width, h: size.Height, perRow: img.Bounds().Dx() / size.Width}
	c.nFrames = c.perRow * (img.Bounds().Dy() / size.Height)
	return c, nil
}

func parseDirection(s string) (animset.Direction, error) {
	for _, d := range animset.Directions {
		if d.String() == s {
			return d, nil
		}
	}
	return 0, errors.Errorf("unknown direction %q", s)
}

// animationFrames returns the output frames target plays in d, in order.
func animationFrames(doc *body.Document, target string, d animset.Direction) []int {
	b := doc.Body(d)
	if b == nil {
		return nil
	}
	var frames []int
	for _, list := range [][]body.Record{b.IdleAnimation, b.MovementAnimation} {
		for _, r := range list {
			if r.Target == target {
				frames = append(frames, r.Frame)
			}
		}
	}
	return frames
}

func printer() *imageprint.Printer {
	p := &imageprint.Printer{W: os.Stdout, Blanks: *blanks}
	switch {
	case *rasterm:
		p.Mode = imageprint.RasTerm
	case !*col:
		p.Mode = imageprint.NoColor
	case *iterm:
		p.Mode = imageprint.ITerm
	case *col256:
		p.Mode = imageprint.Color256
	default:
		p.Mode = imageprint.TrueColor
	}
	return p
}

func main() {
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	doc, err := body.ReadDocument(filepath.Join(*dir, body.FileName))
	if err != nil {
		glog.Exitf("%v", err)
	}
	c, err := loadCells(*dir, doc)
	if err != nil {
		glog.Exitf("%v", err)
	}
	p := printer()

	switch {
	case *animation != "":
		d, err := parseDirection(*direction)
		if err != nil {
			glog.Exitf("%v", err)
		}
		frames := animationFrames(doc, *animation, d)
		if len(frames) == 0 {
			glog.Exitf("%s has no %s frames in %s", doc.Name, *animation, d)
		}
		for _, f := range frames {
			img, err := c.frame(f)
			if err != nil {
				glog.Errorf("%v", err)
				continue
			}
			out(p, img, *animation)
		}
	case *frame >= 0:
		img, err := c.frame(*frame)
		if err != nil {
			glog.Exitf("%v", err)
		}
		out(p, img, sheet.FileName)
	default:
		out(p, c.img, sheet.FileName)
	}
}
