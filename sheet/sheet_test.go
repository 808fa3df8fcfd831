package sheet

import (
	"image"
	"image/color"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animdata"
	"badc0de.net/pkg/go-pmdanim/animset"
	"badc0de.net/pkg/go-pmdanim/mapping"
	"badc0de.net/pkg/go-pmdanim/ttesting"
)

func resolved(s *animset.Set, target, source string, mode mapping.Mode, n, rows int) *animset.Resolved {
	e := mapping.NewEntry(target, []string{source}, mode)
	r := &animset.Resolved{
		Target:             target,
		Source:             s.Catalog.Lookup(source),
		Entry:              e,
		FramesPerDirection: n,
		Rows:               rows,
	}
	r.Frames = animset.FrameIndices(e, n, rows)
	s.Mappings = append(s.Mappings, r)
	return r
}

func testSet(t *testing.T) *animset.Set {
	dir := t.TempDir()
	ttesting.WriteSheet(t, filepath.Join(dir, "Walk-Anim.png"), 2, 8, 16, 16)
	ttesting.WriteSheet(t, filepath.Join(dir, "Idle-Anim.png"), 1, 1, 8, 8)
	cat := animdata.NewCatalog([]*animdata.Animation{
		{Name: "Walk", AnimFile: "Walk-Anim.png", FrameWidth: 16, FrameHeight: 16, TotalFrames: 2, Durations: []int{100, 100}},
		{Name: "Idle", AnimFile: "Idle-Anim.png", FrameWidth: 8, FrameHeight: 8, TotalFrames: 1, Durations: []int{50}},
		{Name: "Gone", AnimFile: "Gone-Anim.png", FrameWidth: 8, FrameHeight: 8, TotalFrames: 1},
	})
	return animset.NewSet("0001 - Test", dir, cat)
}

func at(img image.Image, r image.Rectangle, x, y int) color.NRGBA {
	return color.NRGBAModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.NRGBA)
}

func TestCompose(t *testing.T) {
	s := testSet(t)
	resolved(s, "walk", "Walk", nil, 2, 8)
	resolved(s, "run", "Walk", nil, 2, 8)
	resolved(s, "idle", "Idle", nil, 1, 1)
	s.ComputeDimensions()
	l := animset.Arrange(s)

	sh, err := Compose(s, l, Options{FramesPerRow: 4})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	ttesting.AssertEqualInt(t, "frames", sh.Frames, 12)
	ttesting.AssertEqualInt(t, "width", sh.Image.Bounds().Dx(), 64)
	ttesting.AssertEqualInt(t, "height", sh.Image.Bounds().Dy(), 48)
	ttesting.AssertEqualInt(t, "skipped", sh.Skipped, 0)

	// walk: front 0,1 right 4,5 back 8,9 left 12,13.
	wantSource := []int{0, 1, 4, 5, 8, 9, 12, 13}
	for out, src := range wantSource {
		cell := sh.Cell(out)
		if got, want := at(sh.Image, cell, 8, 8), ttesting.CellColor(src); got != want {
			t.Errorf("cell %d: got %v; want colour of source frame %d", out, got, src)
		}
		if sh.DebugMap[out] != src {
			t.Errorf("debug map %d: got %d; want %d", out, sh.DebugMap[out], src)
		}
	}

	// Left frames are mirrored, the others are not.
	if got := at(sh.Image, sh.Cell(0), 0, 0); got != ttesting.Marker {
		t.Errorf("front marker: got %v", got)
	}
	if got := at(sh.Image, sh.Cell(6), 15, 0); got != ttesting.Marker {
		t.Errorf("left marker not mirrored: got %v", got)
	}
	if got := at(sh.Image, sh.Cell(6), 0, 0); got != ttesting.CellColor(12) {
		t.Errorf("left frame top-left: got %v", got)
	}

	// idle is 8x8, centred in a 16x16 cell; all four directions reuse its
	// single front frame.
	for out := 8; out < 12; out++ {
		cell := sh.Cell(out)
		if got := at(sh.Image, cell, 0, 0); got.A != 0 {
			t.Errorf("idle cell %d corner: got %v; want transparent", out, got)
		}
		if got := at(sh.Image, cell, 6, 6); got != ttesting.CellColor(0) {
			t.Errorf("idle cell %d centre: got %v", out, got)
		}
	}
}

func TestComposeFootDifference(t *testing.T) {
	s := testSet(t)
	resolved(s, "walk", "Walk", mapping.ForceFrame{Frame: 0}, 2, 8)
	resolved(s, "idle", "Idle", nil, 1, 1)
	s.Mappings[1].Entry.UseFrontOnly = true
	s.Mappings[1].Frames = animset.FrameIndices(s.Mappings[1].Entry, 1, 1)
	s.ComputeDimensions()
	l := animset.Arrange(s)

	sh, err := Compose(s, l, Options{FramesPerRow: 32, FootDifference: 3})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	ttesting.AssertEqualInt(t, "frames", sh.Frames, 5)
	cell := sh.Cell(4)
	// Centred at (4,4), shifted down by 3.
	if got := at(sh.Image, cell, 4, 6); got.A != 0 {
		t.Errorf("above shifted frame: got %v; want transparent", got)
	}
	if got := at(sh.Image, cell, 4, 7); got != ttesting.Marker {
		t.Errorf("shifted marker: got %v", got)
	}
}

func TestComposeSkipsOutOfBounds(t *testing.T) {
	s := testSet(t)
	// Claims 3 frames per direction on a 2-column sheet: column 2 does not
	// exist.
	r := resolved(s, "walk", "Walk", nil, 3, 8)
	r.Entry.UseFrontOnly = true
	r.Frames = animset.FrameIndices(r.Entry, 3, 8)
	resolved(s, "gone", "Gone", nil, 1, 8)
	resolved(s, "idle", "Idle", nil, 1, 1)
	s.ComputeDimensions()
	l := animset.Arrange(s)

	sh, err := Compose(s, l, Options{FramesPerRow: 8})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	// walk 3, gone 4, idle 4.
	ttesting.AssertEqualInt(t, "frames", sh.Frames, 11)
	ttesting.AssertEqualInt(t, "skipped", sh.Skipped, 1+4)
	if got := at(sh.Image, sh.Cell(2), 8, 8); got.A != 0 {
		t.Errorf("out of bounds slot: got %v; want transparent", got)
	}
	if _, ok := sh.DebugMap[2]; ok {
		t.Error("out of bounds slot should not be in the debug map")
	}
	// idle keeps its assigned slots after the skipped ones.
	g := l.GroupOf(s.Mapping("idle"))
	ttesting.AssertEqualInt(t, "idle start", g.Start, 7)
	if got := at(sh.Image, sh.Cell(7), 8, 8); got != ttesting.CellColor(0) {
		t.Errorf("idle frame: got %v", got)
	}
}

func TestComposeNoFrames(t *testing.T) {
	s := testSet(t)
	_, err := Compose(s, animset.Arrange(s), Options{})
	if errors.Cause(err) != ErrNoFrames {
		t.Errorf("got %v; want ErrNoFrames", err)
	}
}

func TestSave(t *testing.T) {
	s := testSet(t)
	resolved(s, "idle", "Idle", nil, 1, 1)
	s.ComputeDimensions()
	sh, err := Compose(s, animset.Arrange(s), Options{FramesPerRow: 2})
	if err != nil {
		t.Fatalf("Compose: %v", err)
	}
	p := filepath.Join(t.TempDir(), "body.png")
	if err := sh.Save(p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	img, err := imaging.Open(p)
	if err != nil {
		t.Fatalf("reopening: %v", err)
	}
	ttesting.AssertEqualInt(t, "saved width", img.Bounds().Dx(), 16)
	ttesting.AssertEqualInt(t, "saved height", img.Bounds().Dy(), 16)
	ttesting.AssertEqualInt(t, "frame width", sh.Frame(3).Bounds().Dx(), 8)
}
