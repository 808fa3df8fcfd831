//go:build !windows

package imageprint

import (
	"fmt"
	"image"

	"github.com/BourgeoisBear/rasterm"
	"github.com/andybons/gogif"
	"github.com/pkg/errors"
)

// PrintRasTerm draws an image using the RasTerm library, with whichever of
// the kitty, iTerm2 and sixel protocols the terminal supports.
func (p *Printer) PrintRasTerm(i image.Image) error {
	var err error
	switch {
	case rasterm.IsTermKitty():
		err = rasterm.Settings{}.KittyWriteImage(p.W, i)
	case rasterm.IsTermItermWez():
		err = rasterm.Settings{}.ItermWriteImage(p.W, i)
	default:
		capable, cerr := rasterm.IsSixelCapable()
		if cerr != nil || !capable {
			return errors.New("terminal supports no image protocol")
		}
		palettedImage := image.NewPaletted(i.Bounds(), nil)
		quantizer := gogif.MedianCutQuantizer{NumColor: 64}
		quantizer.Quantize(palettedImage, i.Bounds(), i, image.ZP)
		err = rasterm.Settings{}.SixelWriteImage(p.W, palettedImage)
	}
	if err != nil {
		return errors.Wrap(err, "writing image")
	}
	fmt.Fprint(p.W, "\n")
	return nil
}
