package ttesting

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

// Marker is drawn in the top-left pixel of every generated frame, so tests
// can tell a mirrored frame from an unmirrored one.
var Marker = color.NRGBA{A: 255}

// CellColor is the fill colour of frame i of a generated sheet.
func CellColor(i int) color.NRGBA {
	return color.NRGBA{R: uint8(i % 256), G: uint8(i / 256), B: 200, A: 255}
}

// Sheet generates a sprite sheet of rows x cols frames of fw x fh pixels.
// Frame i (row-major) is filled with CellColor(i) and carries Marker.
func Sheet(cols, rows, fw, fh int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, cols*fw, rows*fh))
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			col := CellColor(r*cols + c)
			for y := 0; y < fh; y++ {
				for x := 0; x < fw; x++ {
					img.SetNRGBA(c*fw+x, r*fh+y, col)
				}
			}
			img.SetNRGBA(c*fw, r*fh, Marker)
		}
	}
	return img
}

// WriteSheet writes Sheet(cols, rows, fw, fh) as a PNG file at path.
func WriteSheet(t *testing.T, path string, cols, rows, fw, fh int) {
	t.Helper()
	WriteImage(t, path, Sheet(cols, rows, fw, fh))
}

// WriteImage writes img as a PNG file at path, creating its directory.
func WriteImage(t *testing.T, path string, img image.Image) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := imaging.Save(img, path); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}
