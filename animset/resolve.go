package animset

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animdata"
	"badc0de.net/pkg/go-pmdanim/mapping"
)

// MissingLog records mapping entries that resolved to no source animation.
type MissingLog interface {
	Missing(variant, target string, fallbacks []string)
}

// MissingLine formats a missing log line.
func MissingLine(variant, target string, fallbacks []string) string {
	quoted := make([]string, len(fallbacks))
	for i, f := range fallbacks {
		quoted[i] = "'" + f + "'"
	}
	return fmt.Sprintf("%s: Missing animation for '%s' with fallbacks [%s]", variant, target, strings.Join(quoted, ", "))
}

// halfWidthDistance is the distance the discard check compares.
func halfWidthDistance(a, b *animdata.Animation) float64 {
	return math.Abs(float64(a.FrameWidth-b.FrameWidth)) / 2
}

// reference returns the last fallback present in c.
func reference(e mapping.Entry, c *animdata.Catalog) *animdata.Animation {
	for i := len(e.Fallbacks) - 1; i >= 0; i-- {
		if a := c.Lookup(e.Fallbacks[i]); a != nil {
			return a
		}
	}
	for _, name := range e.Fallbacks {
		if a := c.Lookup(name); a != nil {
			return a
		}
	}
	return nil
}

// ResolveEntry picks the source animation of e from c, or returns nil.
//
// Fallbacks are tried in order and the first one present wins. With a
// positive DiscardDistance a candidate must also be within that half-width
// difference of the reference, the last fallback present; when none is, the
// reference itself is used.
func ResolveEntry(e mapping.Entry, c *animdata.Catalog) *animdata.Animation {
	ref := reference(e, c)
	for _, name := range e.Fallbacks {
		a := c.Lookup(name)
		if a == nil {
			continue
		}
		if e.DiscardDistance <= 0 || ref == nil {
			return a
		}
		d := halfWidthDistance(a, ref)
		if d <= e.DiscardDistance {
			glog.V(2).Infof("%s: selected %q (width diff %.1f <= %g)", e.Name, a.Name, d, e.DiscardDistance)
			return a
		}
		glog.V(2).Infof("%s: discarded %q (width diff %.1f > %g)", e.Name, a.Name, d, e.DiscardDistance)
	}
	if ref != nil {
		glog.V(2).Infof("%s: using last fallback %q", e.Name, ref.Name)
	}
	return ref
}

// FrameIndices computes the physical source frames of e for each direction
// of a sheet with n frames per direction and the given number of rows.
//
// Directions whose row is absent from the sheet reuse the front frames.
// Front-only entries have frames for the front direction only.
func FrameIndices(e mapping.Entry, n, rows int) [4][]int {
	var out [4][]int
	out[Front] = e.Mode.Physical(Front.Row()*n, n)
	if e.UseFrontOnly {
		return out
	}
	for _, d := range Directions[1:] {
		if rows >= d.MinRows() {
			out[d] = e.Mode.Physical(d.Row()*n, n)
		} else {
			out[d] = out[Front]
		}
	}
	return out
}

type sheetInfo struct {
	rows, frames int
}

// Resolve binds each entry to a source animation of s, appending the results
// to s.Mappings in entry order. Entries without a source are reported to
// missing, which may be nil.
func (s *Set) Resolve(entries []mapping.Entry, missing MissingLog) {
	sheets := make(map[string]sheetInfo)
	for _, e := range entries {
		src := ResolveEntry(e, s.Catalog)
		if src == nil {
			glog.Warningf("%s", MissingLine(s.Variant, e.Name, e.Fallbacks))
			if missing != nil {
				missing.Missing(s.Variant, e.Name, e.Fallbacks)
			}
			continue
		}

		info, ok := sheets[src.AnimFile]
		if !ok {
			info = s.inspect(src)
			sheets[src.AnimFile] = info
		}

		r := &Resolved{
			Target:             e.Name,
			Source:             src,
			Entry:              e,
			FramesPerDirection: info.frames,
			Rows:               info.rows,
		}
		r.Frames = FrameIndices(e, r.FramesPerDirection, r.Rows)
		if err := Validate(r); err != nil {
			glog.Warningf("%s: %v", s.Variant, err)
		}
		if glog.V(3) {
			glog.Infof("%s: resolved %s", s.Variant, spew.Sdump(r.Target, r.Source.Name, r.Entry.Mode, r.Frames))
		}
		s.Mappings = append(s.Mappings, r)
	}
}

func (s *Set) inspect(a *animdata.Animation) sheetInfo {
	path := filepath.Join(s.Directory, a.AnimFile)
	g, err := animdata.Inspect(path, a.FrameWidth, a.FrameHeight)
	if err != nil {
		glog.Warningf("%s: assuming %d rows of %d frames for %s: %v", s.Variant, SheetRows, a.TotalFrames, a.Name, err)
		return sheetInfo{rows: SheetRows, frames: a.TotalFrames}
	}
	n := a.FramesPerDirection(g)
	glog.V(2).Infof("%s: %s has %d rows, %d frames per direction", s.Variant, a.Name, g.Rows, n)
	return sheetInfo{rows: g.Rows, frames: n}
}

// Validate checks that every frame index of r lies inside an 8-row sheet.
func Validate(r *Resolved) error {
	limit := SheetRows * r.FramesPerDirection
	for _, d := range Directions {
		for _, f := range r.Frames[d] {
			if f < 0 || f >= limit {
				return errors.Errorf("%s: %s frame %d outside [0,%d)", r.Target, d, f, limit)
			}
		}
	}
	return nil
}
