// Package body turns the resolved mappings of a variant into the frame
// records of its body.json.
//
// Record frame numbers refer to the physical frames placed by the sheet
// compositor: group start, plus the mapping's frames in earlier directions,
// plus the position of the referenced frame in the direction.
package body

import (
	"math"

	"github.com/golang/glog"

	"badc0de.net/pkg/go-pmdanim/animset"
	"badc0de.net/pkg/go-pmdanim/mapping"
)

// DefaultDuration is used for frames without a recorded duration, in
// milliseconds.
const DefaultDuration = 100

// PortraitTarget is the target animation name the portrait is taken from.
const PortraitTarget = "portrait"

// Record is one emitted frame.
type Record struct {
	Target string `json:"Animation"`
	// Frame is the output sheet frame.
	Frame int `json:"Frame"`
	// SourceFrame is the absolute frame in SourceFile.
	SourceFrame int    `json:"SourceFrame"`
	SourceFile  string `json:"SourceFile"`

	Duration                  int         `json:"Duration"`
	EndWhenFarmerFrameUpdates bool        `json:"EndWhenFarmerFrameUpdates"`
	Offset                    Position    `json:"Offset"`
	Conditions                []Condition `json:"Conditions,omitempty"`
}

// Animation is the records of one mapping in one direction.
type Animation struct {
	Target  string
	Records []Record
}

// Portrait locates the portrait frame in its source sheet.
type Portrait struct {
	SourceFile string   `json:"SourceFile"`
	Position   Position `json:"StartingPosition"`
	Size       Size     `json:"PortraitSize"`
	Offset     Position `json:"Offset"`
}

// Bucket holds the animations of one direction.
type Bucket struct {
	Direction animset.Direction
	Flipped   bool

	Idle     []Animation
	Movement []Animation
	Portrait *Portrait
}

// Empty reports whether the direction has neither records nor a portrait.
func (b *Bucket) Empty() bool {
	return len(b.Idle) == 0 && len(b.Movement) == 0 && b.Portrait == nil
}

// Expansion is the emitted frame records of a variant.
type Expansion struct {
	Buckets [4]Bucket
	// Records is the total number of emitted records.
	Records int
}

// Offset is the alignment added to every record.
type Offset struct {
	X, Y int
}

// Duration returns the display time of column col of a source animation.
func Duration(durations []int, col int, mult float64) int {
	if col < 0 || col >= len(durations) {
		return DefaultDuration
	}
	return int(math.RoundToEven(float64(durations[col]) * mult))
}

func conditions(e mapping.Entry) []Condition {
	var out []Condition
	for _, n := range e.ConditionNames {
		out = append(out, Condition{Name: n})
	}
	for _, n := range e.ConditionGroupNames {
		out = append(out, Condition{GroupName: n})
	}
	return out
}

// direction expands the records of r in d.
func direction(s *animset.Set, g *animset.Group, r *animset.Resolved, d animset.Direction, base Offset) []Record {
	phys := r.Frames[d]
	n := r.FramesPerDirection
	if len(phys) == 0 || n <= 0 {
		return nil
	}
	before := 0
	for _, p := range animset.Directions[:d] {
		before += len(r.Frames[p])
	}
	// Emitted indices are counted from the first physical column of the
	// direction.
	base0 := r.Base(d) + phys[0]%n

	e := r.Entry
	conds := conditions(e)
	var out []Record
	for _, em := range e.Mode.Emitted(r.Base(d), n) {
		rel := em - base0
		if rel < 0 || rel >= len(phys) {
			glog.V(2).Infof("%s: %s %s drops frame %d", s.Variant, r.Target, d, em)
			continue
		}
		src := phys[rel]
		out = append(out, Record{
			Target:                    r.Target,
			Frame:                     g.Start + before + rel,
			SourceFrame:               src,
			SourceFile:                r.Source.AnimFile,
			Duration:                  Duration(r.Source.Durations, src%n, e.DurationMult),
			EndWhenFarmerFrameUpdates: e.EndWhenFarmerFrameUpdates,
			Offset: Position{
				X: base.X + s.Offsets.SpriteX + e.SpriteOffsetX,
				Y: base.Y + s.Offsets.SpriteY + e.SpriteOffsetY,
			},
			Conditions: conds,
		})
	}
	return out
}

func portrait(s *animset.Set, base Offset) *Portrait {
	r := s.Mapping(PortraitTarget)
	if r == nil || len(r.Frames[animset.Front]) == 0 || r.FramesPerDirection <= 0 {
		return nil
	}
	f := r.Frames[animset.Front][0]
	row, col := f/r.FramesPerDirection, f%r.FramesPerDirection
	return &Portrait{
		SourceFile: r.Source.AnimFile,
		Position:   Position{X: col * r.Source.FrameWidth, Y: row * r.Source.FrameHeight},
		Size:       Size{Width: s.MaxWidth, Height: s.MaxHeight},
		Offset: Position{
			X: -s.MaxWidth + r.Entry.PortraitOffsetX + s.Offsets.PortraitX,
			Y: -(s.MaxHeight + base.Y) + r.Entry.PortraitOffsetY + s.Offsets.PortraitY,
		},
	}
}

// Expand computes the emitted records of every mapping of s in every
// direction. Mappings that share frames with another one keep their own
// emitted sequence and refer to the shared frames.
func Expand(s *animset.Set, l *animset.Layout, base Offset) *Expansion {
	x := &Expansion{}
	for _, d := range animset.Directions {
		b := &x.Buckets[d]
		b.Direction = d
		b.Flipped = d == animset.Left

		for _, r := range s.Mappings {
			g := l.GroupOf(r)
			if g == nil {
				continue
			}
			recs := direction(s, g, r, d, base)
			if len(recs) == 0 {
				continue
			}
			a := Animation{Target: r.Target, Records: recs}
			switch r.Entry.BodyType {
			case mapping.IdleAnimation:
				b.Idle = append(b.Idle, a)
			case mapping.MovementAnimation:
				b.Movement = append(b.Movement, a)
			default:
				// Portrait entries only feed the portrait block.
				continue
			}
			x.Records += len(recs)
		}
		if d == animset.Front && hasFront(s) {
			b.Portrait = portrait(s, base)
		}
	}
	return x
}

// hasFront reports whether any mapping of s has front frames.
func hasFront(s *animset.Set) bool {
	for _, r := range s.Mappings {
		if len(r.Frames[animset.Front]) > 0 {
			return true
		}
	}
	return false
}
