package main

import (
	"image"

	"github.com/golang/glog"
	"github.com/nfnt/resize"

	"badc0de.net/pkg/go-pmdanim/imageprint"
)

func out(p *imageprint.Printer, img image.Image, name string) {
	if *downsize {
		termSize, err := GetTermSize()
		if err == nil {
			if termSize.WSXPixel != 0 && termSize.WSYPixel != 0 && (p.Mode == imageprint.RasTerm || p.Mode == imageprint.ITerm) {
				// Images sent with a graphics protocol only need to fit in pixels.
				img = resize.Thumbnail(termSize.WSXPixel/2, termSize.WSYPixel/2, img, resize.NearestNeighbor)
			} else {
				// Every pixel takes two columns.
				img = resize.Thumbnail(termSize.WSCol/2, termSize.WSRow, img, resize.NearestNeighbor)
			}
		}
	}
	if err := p.Print(img, name); err != nil {
		glog.Errorf("printing %s: %v", name, err)
	}
}
