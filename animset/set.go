// Package animset resolves a creature variant's mapping configuration
// against its source animations.
//
// Resolution happens in three steps, all on a single Set: every mapping
// entry is bound to a source animation (Resolve), the uniform output cell
// size is computed (ComputeDimensions), and the physical output frames are
// assigned to frame groups, sharing identical frame selections (Arrange).
package animset

import (
	"fmt"

	"badc0de.net/pkg/go-pmdanim/animdata"
	"badc0de.net/pkg/go-pmdanim/mapping"
)

// Direction is one of the four emitted directions.
type Direction int

const (
	Front Direction = iota
	Right
	Back
	Left
)

// Directions lists the emitted directions in output order.
var Directions = [...]Direction{Front, Right, Back, Left}

// SheetRows is the number of direction rows of a complete source sheet.
const SheetRows = 8

// Row returns the source sheet row of d. Diagonal rows are never emitted.
func (d Direction) Row() int {
	return 2 * int(d)
}

// MinRows is the number of sheet rows needed for d to have its own frames.
func (d Direction) MinRows() int {
	return d.Row() + 1
}

func (d Direction) String() string {
	switch d {
	case Front:
		return "front"
	case Right:
		return "right"
	case Back:
		return "back"
	case Left:
		return "left"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// BodyName is the name of the body bucket d is written to.
func (d Direction) BodyName() string {
	switch d {
	case Front:
		return "FrontBody"
	case Right:
		return "RightBody"
	case Back:
		return "BackBody"
	case Left:
		return "LeftBody"
	default:
		return ""
	}
}

// Resolved is a mapping entry bound to its source animation.
type Resolved struct {
	Target string
	Source *animdata.Animation
	Entry  mapping.Entry

	// FramesPerDirection is the authoritative frame count of Source.
	FramesPerDirection int
	// Rows is the number of direction rows present in the source sheet.
	Rows int

	// Frames holds the absolute source frame indices copied for each
	// direction, indexed by Direction.
	Frames [4][]int
}

// Base returns the absolute index of the first source frame of d.
func (r *Resolved) Base(d Direction) int {
	return r.FramesPerDirection * d.Row()
}

// PhysicalCount is the number of frames the mapping copies into a sheet.
func (r *Resolved) PhysicalCount() int {
	n := 0
	for _, f := range r.Frames {
		n += len(f)
	}
	return n
}

// Set is one creature variant.
type Set struct {
	Variant string

	ID            string
	Name          string
	Generation    string
	Custom        bool
	VariationType string

	// Directory holds AnimData.xml and the source sheets.
	Directory string
	Catalog   *animdata.Catalog

	Mappings []*Resolved
	Offsets  mapping.Offsets

	MaxWidth, MaxHeight int
}

// NewSet returns an empty set for the catalog of a variant.
func NewSet(variant, dir string, catalog *animdata.Catalog) *Set {
	return &Set{
		Variant:   variant,
		Directory: dir,
		Catalog:   catalog,
		Offsets:   mapping.DefaultOffsets(),
	}
}

// Mapping returns the first resolved mapping with the given target name, or
// nil.
func (s *Set) Mapping(target string) *Resolved {
	for _, r := range s.Mappings {
		if r.Target == target {
			return r
		}
	}
	return nil
}

// ComputeDimensions sets the uniform cell size to the largest frame among
// the resolved source animations.
func (s *Set) ComputeDimensions() {
	s.MaxWidth, s.MaxHeight = 0, 0
	for _, r := range s.Mappings {
		if r.Source.FrameWidth > s.MaxWidth {
			s.MaxWidth = r.Source.FrameWidth
		}
		if r.Source.FrameHeight > s.MaxHeight {
			s.MaxHeight = r.Source.FrameHeight
		}
	}
}
