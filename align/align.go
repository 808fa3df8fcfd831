// Package align computes where a creature sits relative to the farmer body
// it replaces.
//
// A reference image of the farmer body marks the feet with red (left), blue
// (right) or magenta (both) pixels. The creature's feet are taken from the
// first white pixel of the shadow of its Idle animation.
package align

import (
	"image"
	"image/color"
	"path/filepath"

	"github.com/disintegration/imaging"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animset"
)

// ReferenceFile is the name of the farmer body reference image.
const ReferenceFile = "body_position_references.png"

// ShadowAnimation is the animation whose shadow locates the feet.
const ShadowAnimation = "Idle"

// Offsets are the alignment results of one variant.
type Offsets struct {
	// X and Y are added to every emitted frame offset.
	X, Y int
	// FootDifference shifts frames vertically inside their cells.
	FootDifference int
}

// LoadReference reads the reference image at path.
func LoadReference(path string) (image.Image, error) {
	img, err := imaging.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading body position reference")
	}
	return img, nil
}

// floorDiv divides rounding towards negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// centred returns img pasted onto a transparent w x h canvas, centred.
func centred(img image.Image, w, h int) *image.NRGBA {
	size := img.Bounds().Size()
	pos := image.Pt(floorDiv(w-size.X, 2), floorDiv(h-size.Y, 2))
	return imaging.Paste(imaging.New(w, h, color.NRGBA{}), img, pos)
}

func nrgba(img image.Image, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

// FootRow returns the row of the feet marked in img: the average of the last
// left and right foot rows, or the only one found.
func FootRow(img image.Image) (int, bool) {
	left, right := -1, -1
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba(img, x, y)
			if c.A == 0 {
				continue
			}
			switch {
			case c.R == 255 && c.G == 0 && c.B == 0:
				left = y - b.Min.Y
			case c.R == 0 && c.G == 0 && c.B == 255:
				right = y - b.Min.Y
			case c.R == 255 && c.B == 255:
				left, right = y-b.Min.Y, y-b.Min.Y
			}
		}
	}
	switch {
	case left >= 0 && right >= 0:
		return (left + right) / 2, true
	case left >= 0:
		return left, true
	case right >= 0:
		return right, true
	}
	return 0, false
}

// WhiteRow returns the first row of img with an opaque white pixel.
func WhiteRow(img image.Image) (int, bool) {
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := nrgba(img, x, y)
			if c.A > 0 && c.R == 255 && c.G == 255 && c.B == 255 {
				return y - b.Min.Y, true
			}
		}
	}
	return 0, false
}

// FootDifference returns how far the frames of s must move down so that the
// creature's feet meet the reference feet.
func FootDifference(s *animset.Set, reference image.Image) int {
	idle := s.Catalog.Lookup(ShadowAnimation)
	if idle == nil {
		glog.Warningf("%s: no %s animation, not aligning feet", s.Variant, ShadowAnimation)
		return 0
	}
	path := filepath.Join(s.Directory, idle.ShadowFile)
	shadow, err := imaging.Open(path)
	if err != nil {
		glog.Warningf("%s: not aligning feet: %v", s.Variant, err)
		return 0
	}
	fw, fh := idle.FrameWidth, idle.FrameHeight
	if fw <= 0 || fh <= 0 {
		fw, fh = shadow.Bounds().Dx(), shadow.Bounds().Dy()
	}
	first := imaging.Crop(shadow, image.Rect(0, 0, fw, fh).Add(shadow.Bounds().Min))

	white, ok := WhiteRow(centred(first, s.MaxWidth, s.MaxHeight))
	if !ok {
		glog.Warningf("%s: no white point in %s", s.Variant, path)
		return 0
	}
	foot, ok := FootRow(centred(reference, s.MaxWidth, s.MaxHeight))
	if !ok {
		glog.Warningf("%s: no foot pixels in reference", s.Variant)
		return 0
	}
	d := foot - (white + 1)
	glog.V(1).Infof("%s: foot difference %d (white point %d, reference %d)", s.Variant, d, white, foot)
	return d
}

// Compute returns the alignment of s against reference, which may be nil.
func Compute(s *animset.Set, reference image.Image) Offsets {
	if reference == nil {
		glog.Warningf("%s: no body position reference, offsets are zero", s.Variant)
		return Offsets{}
	}
	size := reference.Bounds().Size()
	o := Offsets{
		X: s.MaxWidth/2 - size.X/2,
		Y: s.MaxHeight/2 - size.Y/2,
	}
	o.FootDifference = FootDifference(s, reference)
	o.Y -= o.FootDifference
	glog.V(1).Infof("%s: offsets %d,%d, foot difference %d", s.Variant, o.X, o.Y, o.FootDifference)
	return o
}
