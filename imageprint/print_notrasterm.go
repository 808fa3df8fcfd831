//go:build windows

package imageprint

import (
	"image"

	"github.com/pkg/errors"
)

func (p *Printer) PrintRasTerm(i image.Image) error {
	return errors.New("rasterm not supported on windows")
}
