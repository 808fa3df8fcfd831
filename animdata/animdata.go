// Package animdata reads PMD-style AnimData.xml files into a catalog of
// source animations.
//
// Every animation is backed by a sprite sheet named <Name>-Anim.png (plus
// -Shadow.png and -Offsets.png) laid out as an 8-row grid, one row per
// direction, one column per frame. Aliases (<CopyOf>) share the sheet and
// durations of the animation they copy.
package animdata

import (
	"encoding/xml"
	"io"
	"math"
	"os"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// TicksPerSecond is the rate at which AnimData.xml durations are counted.
const TicksPerSecond = 60

// ErrNoAnimations is returned by Parse when the document has no usable
// animation.
var ErrNoAnimations = errors.New("no animations in animation data")

// Animation is a single source animation.
type Animation struct {
	Name string

	AnimFile    string
	ShadowFile  string
	OffsetsFile string

	FrameWidth  int
	FrameHeight int
	// Durations are in milliseconds, one per frame of a direction.
	Durations []int
	// TotalFrames is the number of frames per direction declared in the
	// document.
	TotalFrames int

	// CopyOf is the name of the aliased animation, or empty.
	CopyOf string
}

// Catalog is the ordered list of animations of one creature variant.
type Catalog struct {
	Animations []*Animation
	byName     map[string]*Animation
}

// NewCatalog builds a catalog. Later animations with a duplicate name are
// reachable through Animations but not through Lookup.
func NewCatalog(anims []*Animation) *Catalog {
	c := &Catalog{Animations: anims, byName: make(map[string]*Animation, len(anims))}
	for _, a := range anims {
		if _, ok := c.byName[a.Name]; ok {
			glog.Warningf("animation %q declared more than once; keeping the first", a.Name)
			continue
		}
		c.byName[a.Name] = a
	}
	return c
}

// Lookup returns the named animation, or nil.
func (c *Catalog) Lookup(name string) *Animation {
	if c == nil {
		return nil
	}
	return c.byName[name]
}

type xmlAnimData struct {
	XMLName xml.Name  `xml:"AnimData"`
	Anims   []xmlAnim `xml:"Anims>Anim"`
}

type xmlAnim struct {
	Name        string `xml:"Name"`
	CopyOf      string `xml:"CopyOf"`
	FrameWidth  int    `xml:"FrameWidth"`
	FrameHeight int    `xml:"FrameHeight"`
	Durations   []int  `xml:"Durations>Duration"`
}

// TicksToMillis converts an AnimData.xml duration to milliseconds.
func TicksToMillis(ticks int) int {
	return int(math.Round(float64(ticks) * 1000 / TicksPerSecond))
}

func fileNames(base string) (anim, shadow, offsets string) {
	return base + "-Anim.png", base + "-Shadow.png", base + "-Offsets.png"
}

// Parse reads an AnimData.xml document.
func Parse(r io.Reader) (*Catalog, error) {
	var doc xmlAnimData
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "decoding animation data")
	}

	var anims []*Animation
	base := make(map[string]*Animation)
	for _, x := range doc.Anims {
		if x.Name == "" || x.CopyOf != "" {
			continue
		}
		a := &Animation{
			Name:        x.Name,
			FrameWidth:  x.FrameWidth,
			FrameHeight: x.FrameHeight,
		}
		a.AnimFile, a.ShadowFile, a.OffsetsFile = fileNames(x.Name)
		for _, d := range x.Durations {
			a.Durations = append(a.Durations, TicksToMillis(d))
		}
		a.TotalFrames = len(a.Durations)
		if a.TotalFrames == 0 {
			a.TotalFrames = 1
		}
		anims = append(anims, a)
		if _, ok := base[a.Name]; !ok {
			base[a.Name] = a
		}
	}

	for _, x := range doc.Anims {
		if x.Name == "" || x.CopyOf == "" {
			continue
		}
		src, ok := base[x.CopyOf]
		if !ok {
			glog.Warningf("cannot alias %q to %q: no such animation", x.Name, x.CopyOf)
			continue
		}
		a := &Animation{
			Name:        x.Name,
			FrameWidth:  src.FrameWidth,
			FrameHeight: src.FrameHeight,
			Durations:   append([]int(nil), src.Durations...),
			TotalFrames: src.TotalFrames,
			CopyOf:      src.Name,
		}
		a.AnimFile, a.ShadowFile, a.OffsetsFile = fileNames(src.Name)
		glog.V(2).Infof("alias %s uses %s", a.Name, a.AnimFile)
		anims = append(anims, a)
	}

	if len(anims) == 0 {
		return nil, ErrNoAnimations
	}
	return NewCatalog(anims), nil
}

// ParseFile reads the AnimData.xml file at path.
func ParseFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening animation data")
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return c, nil
}
