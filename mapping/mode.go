package mapping

import (
	"sort"
)

// Mode selects which frames of a source direction a mapping entry uses.
//
// Physical lists the frames that get copied into the output sheet, Emitted
// lists the frames that body.json refers to. Both receive the absolute index
// of the first frame of the direction (base) and the number of frames per
// direction (n), and return absolute source frame indices.
//
// The set of modes is closed; only this package can implement Mode.
type Mode interface {
	Name() string
	Physical(base, n int) []int
	Emitted(base, n int) []int

	mode()
}

const (
	ModeDefault               = "default"
	ModeForceFrame            = "force_frame"
	ModeRangeStartEnd         = "range_start_end"
	ModeRangeStartNegativeEnd = "range_start_negative_end"
	ModePortrait              = "portrait"
	ModeRepeatFrameCount      = "repeat_frame_count"
)

// Default uses every frame of the direction.
type Default struct{}

// ForceFrame uses a single frame, clamped to the last one.
type ForceFrame struct {
	Frame int
}

// RangeStartEnd uses an inclusive range of frames, both ends clamped to the
// last frame.
type RangeStartEnd struct {
	Start, End int
}

// RangeStartNegativeEnd copies the whole direction but only emits the listed
// frames. Ends may be negative, counting back from the last frame (-1).
type RangeStartNegativeEnd struct {
	Starts []int
	Ends   []int
}

// Portrait uses a single frame, like ForceFrame, for the portrait block.
type Portrait struct {
	Frame int
}

// RepeatFrameCount copies the whole direction and emits Quantity frames by
// cycling through it.
type RepeatFrameCount struct {
	Quantity int
}

func (Default) Name() string               { return ModeDefault }
func (ForceFrame) Name() string            { return ModeForceFrame }
func (RangeStartEnd) Name() string         { return ModeRangeStartEnd }
func (RangeStartNegativeEnd) Name() string { return ModeRangeStartNegativeEnd }
func (Portrait) Name() string              { return ModePortrait }
func (RepeatFrameCount) Name() string      { return ModeRepeatFrameCount }

func (Default) mode()               {}
func (ForceFrame) mode()            {}
func (RangeStartEnd) mode()         {}
func (RangeStartNegativeEnd) mode() {}
func (Portrait) mode()              {}
func (RepeatFrameCount) mode()      {}

// span returns [base, base+n).
func span(base, n int) []int {
	if n <= 0 {
		return nil
	}
	out := make([]int, n)
	for i := range out {
		out[i] = base + i
	}
	return out
}

// inclusive returns [base+from, base+to], or nothing if from > to.
func inclusive(base, from, to int) []int {
	if from > to {
		return nil
	}
	return span(base+from, to-from+1)
}

func clampLast(frame, n int) int {
	if frame > n-1 {
		return n - 1
	}
	return frame
}

func (Default) Physical(base, n int) []int { return span(base, n) }
func (Default) Emitted(base, n int) []int  { return span(base, n) }

func (m ForceFrame) Physical(base, n int) []int {
	if n <= 0 {
		return nil
	}
	return []int{base + clampLast(m.Frame, n)}
}
func (m ForceFrame) Emitted(base, n int) []int { return m.Physical(base, n) }

func (m RangeStartEnd) Physical(base, n int) []int {
	if n <= 0 {
		return nil
	}
	return inclusive(base, clampLast(m.Start, n), clampLast(m.End, n))
}
func (m RangeStartEnd) Emitted(base, n int) []int { return m.Physical(base, n) }

func (RangeStartNegativeEnd) Physical(base, n int) []int { return span(base, n) }

// Emitted returns the selected frames sorted and without duplicates. Values
// outside the direction are ignored.
func (m RangeStartNegativeEnd) Emitted(base, n int) []int {
	seen := make(map[int]bool)
	var out []int
	add := func(rel int) {
		if rel < 0 || rel >= n || seen[rel] {
			return
		}
		seen[rel] = true
		out = append(out, base+rel)
	}
	for _, v := range m.Starts {
		add(v)
	}
	for _, v := range m.Ends {
		if v < 0 {
			v += n
		}
		add(v)
	}
	sort.Ints(out)
	return out
}

func (m Portrait) Physical(base, n int) []int {
	if n <= 0 {
		return nil
	}
	return []int{base + clampLast(m.Frame, n)}
}
func (m Portrait) Emitted(base, n int) []int { return m.Physical(base, n) }

func (RepeatFrameCount) Physical(base, n int) []int { return span(base, n) }

// Emitted returns exactly Quantity frames; frame i is physical frame
// i mod n.
func (m RepeatFrameCount) Emitted(base, n int) []int {
	physical := span(base, n)
	if len(physical) == 0 || m.Quantity <= 0 {
		return nil
	}
	out := make([]int, m.Quantity)
	for i := range out {
		out[i] = physical[i%len(physical)]
	}
	return out
}
