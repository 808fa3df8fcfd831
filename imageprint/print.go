// Package imageprint prints images on terminal.
//
// Pixels are printed as pairs of characters with a coloured background, or
// the whole image is sent with a terminal graphics protocol (kitty, iTerm2,
// sixel) where the terminal supports one.
package imageprint

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	ic "image/color"
	"image/png"
	"io"

	"github.com/gookit/color"
	"github.com/pkg/errors"
)

// Mode selects how pixels are printed.
type Mode int

const (
	TrueColor Mode = iota
	Color256
	NoColor
	ITerm
	RasTerm
)

// Printer prints images to W.
type Printer struct {
	W    io.Writer
	Mode Mode
	// Blanks prints coloured blanks instead of ascii art shading.
	Blanks bool
}

func shadeChars(c ic.Color) string {
	r, g, b, _ := c.RGBA()
	a := ((r + g + b) / 3) >> 8
	switch {
	case a < 32:
		return ".."
	case a < 64:
		return "--"
	case a < 128:
		return "=="
	default:
		return "##"
	}
}

func (p *Printer) shade(c ic.Color) {
	cR, cG, cB, cA := c.RGBA()
	if cA == 0 {
		if p.Mode == NoColor {
			fmt.Fprint(p.W, "  ")
		} else {
			fmt.Fprint(p.W, "\x1b[0m  ")
		}
		return
	}
	s := "  "
	if !p.Blanks {
		s = shadeChars(c)
	}
	r, g, b := uint8(cR>>8), uint8(cG>>8), uint8(cB>>8)
	switch p.Mode {
	case NoColor:
		fmt.Fprint(p.W, s)
	case Color256:
		fmt.Fprint(p.W, color.RGB(r, g, b, true).Sprint(s))
	default:
		fmt.Fprintf(p.W, "\x1b[48;2;%d;%d;%dm%s\x1b[0m", r, g, b, s)
	}
}

func (p *Printer) pixels(i image.Image) {
	for y := i.Bounds().Min.Y; y < i.Bounds().Max.Y; y++ {
		for x := i.Bounds().Min.X; x < i.Bounds().Max.X; x++ {
			p.shade(i.At(x, y))
		}
		if p.Mode != NoColor {
			fmt.Fprint(p.W, "\x1b[0m")
		}
		fmt.Fprint(p.W, "\n")
	}
}

// PrintITerm draws an image using iTerm2's escape sequences.
//
// https://www.iterm2.com/documentation-images.html
func (p *Printer) PrintITerm(i image.Image, fn string) error {
	name := base64.StdEncoding.EncodeToString([]byte(fn))
	b := &bytes.Buffer{}
	bEnc := base64.NewEncoder(base64.StdEncoding, b)
	if err := png.Encode(bEnc, i); err != nil {
		return errors.Wrap(err, "encoding image for iterm")
	}
	bEnc.Close()
	_, err := fmt.Fprintf(p.W, "\n\033]1337;File=name=%s;inline=1;size=%d,width=%dpx;height=%dpx:%s\a\n", name, b.Len(), i.Bounds().Size().X, i.Bounds().Size().Y, b.String())
	return err
}

// Print draws i according to the printer's mode. name is used by the
// protocols that transfer a file.
func (p *Printer) Print(i image.Image, name string) error {
	switch p.Mode {
	case ITerm:
		return p.PrintITerm(i, name)
	case RasTerm:
		return p.PrintRasTerm(i)
	default:
		p.pixels(i)
		return nil
	}
}
