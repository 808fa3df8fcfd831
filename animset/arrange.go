package animset

import (
	"fmt"
	"strings"

	"github.com/davecgh/go-spew/spew"
	"github.com/golang/glog"
)

// Group owns a contiguous range of physical output frames. Every mapping
// with the same signature as Owner shares the range.
type Group struct {
	Start, Count int

	Owner   *Resolved
	Members []*Resolved
}

// Layout assigns physical output frames to the mappings of a set.
type Layout struct {
	// Groups are ordered by Start.
	Groups []*Group
	// Total is the number of physical output frames.
	Total int

	byMapping map[*Resolved]*Group
}

// GroupOf returns the group r belongs to, or nil if r has no frames.
func (l *Layout) GroupOf(r *Resolved) *Group {
	return l.byMapping[r]
}

// ReusesFrom returns the target name of the mapping whose frames r shares,
// or empty if r owns its frames.
func (l *Layout) ReusesFrom(r *Resolved) string {
	g := l.byMapping[r]
	if g == nil || g.Owner == r {
		return ""
	}
	return g.Owner.Target
}

// Reused is the number of physical frames saved by sharing.
func (l *Layout) Reused() int {
	n := 0
	for _, g := range l.Groups {
		n += g.Count * (len(g.Members) - 1)
	}
	return n
}

func signature(r *Resolved) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%q/%s/%t", r.Source.Name, r.Entry.Mode.Name(), r.Entry.UseFrontOnly)
	for _, f := range r.Frames {
		fmt.Fprintf(&b, "/%v", f)
	}
	return b.String()
}

// Arrange assigns physical output frames to the mappings of s in order.
// A mapping with the same source animation, mode, front-only flag and frame
// lists as an earlier one shares that one's frames.
func Arrange(s *Set) *Layout {
	l := &Layout{byMapping: make(map[*Resolved]*Group)}
	seen := make(map[string]*Group)
	for _, r := range s.Mappings {
		count := r.PhysicalCount()
		if count == 0 {
			glog.V(1).Infof("%s: %s has no frames", s.Variant, r.Target)
			continue
		}
		sig := signature(r)
		if g, ok := seen[sig]; ok {
			g.Members = append(g.Members, r)
			l.byMapping[r] = g
			glog.V(1).Infof("%s: %s reuses frames from %s", s.Variant, r.Target, g.Owner.Target)
			continue
		}
		g := &Group{Start: l.Total, Count: count, Owner: r, Members: []*Resolved{r}}
		l.Total += count
		l.Groups = append(l.Groups, g)
		l.byMapping[r] = g
		seen[sig] = g
	}
	if glog.V(3) {
		for _, g := range l.Groups {
			glog.Infof("%s: group %s", s.Variant, spew.Sdump(g.Owner.Target, g.Start, g.Count, len(g.Members)))
		}
	}
	return l
}
