// Package preview renders the emitted animations of a body as animated GIF
// files, for checking a conversion by eye.
package preview

import (
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/andybons/gogif"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"

	"badc0de.net/pkg/go-pmdanim/animset"
	"badc0de.net/pkg/go-pmdanim/body"
	"badc0de.net/pkg/go-pmdanim/sheet"
)

// DefaultScale is the default upscale factor of preview frames.
const DefaultScale = 2

// Delay converts a record duration in milliseconds to GIF centiseconds.
func Delay(ms int) int {
	if d := ms / 10; d > 0 {
		return d
	}
	return 1
}

// FileName returns the preview file name of a target animation.
func FileName(target string) string {
	clean := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '_' {
			return r
		}
		return '_'
	}, target)
	return "preview-" + clean + ".gif"
}

func scaled(img image.Image, scale int) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), img, b, xdraw.Src, nil)
	return dst
}

// paletted returns img quantized to at most 255 colours plus a transparent
// colour at index 0.
func paletted(img image.Image) *image.Paletted {
	quantizer := gogif.MedianCutQuantizer{NumColor: 255}
	pal := image.NewPaletted(img.Bounds(), nil)
	quantizer.Quantize(pal, img.Bounds(), img, image.ZP)

	// The quantizer has no notion of transparency, so the image is drawn
	// again over a palette starting with color.Transparent.
	out := image.NewPaletted(img.Bounds(), append(color.Palette{color.Transparent}, pal.Palette...))
	draw.Draw(out, img.Bounds(), img, img.Bounds().Min, draw.Over)
	return out
}

// Animation builds a GIF playing the output frames of recs from sh.
func Animation(sh *sheet.Sheet, recs []body.Record, scale int) (*gif.GIF, error) {
	g := &gif.GIF{}
	for _, rec := range recs {
		if rec.Frame < 0 || rec.Frame >= sh.Frames {
			return nil, errors.Errorf("%s: frame %d outside sheet of %d frames", rec.Target, rec.Frame, sh.Frames)
		}
		g.Image = append(g.Image, paletted(scaled(sh.Frame(rec.Frame), scale)))
		g.Delay = append(g.Delay, Delay(rec.Duration))
		g.Disposal = append(g.Disposal, gif.DisposalBackground)
	}
	if len(g.Image) == 0 {
		return nil, errors.New("no frames to preview")
	}
	g.BackgroundIndex = 0
	return g, nil
}

func write(path string, g *gif.GIF) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "creating preview")
	}
	if err := gif.EncodeAll(f, g); err != nil {
		f.Close()
		return errors.Wrapf(err, "encoding %s", path)
	}
	return errors.Wrapf(f.Close(), "closing %s", path)
}

// WriteFront writes one preview per front animation of x into dir and
// returns the number of files written. Animations that fail to render are
// logged and skipped.
func WriteFront(dir string, sh *sheet.Sheet, x *body.Expansion, scale int) int {
	front := &x.Buckets[animset.Front]
	n := 0
	for _, list := range [][]body.Animation{front.Idle, front.Movement} {
		for _, a := range list {
			g, err := Animation(sh, a.Records, scale)
			if err != nil {
				glog.Warningf("preview of %s: %v", a.Target, err)
				continue
			}
			path := filepath.Join(dir, FileName(a.Target))
			if err := write(path, g); err != nil {
				glog.Warningf("preview of %s: %v", a.Target, err)
				continue
			}
			n++
		}
	}
	glog.V(1).Infof("wrote %d previews to %s", n, dir)
	return n
}
