package mapping

import (
	"fmt"
	"testing"

	"badc0de.net/pkg/go-pmdanim/ttesting"
)

func TestModePhysical(t *testing.T) {
	for _, tc := range []struct {
		name string
		mode Mode
		base int
		n    int
		want []int
	}{
		{"default", Default{}, 0, 3, []int{0, 1, 2}},
		{"default right", Default{}, 6, 3, []int{6, 7, 8}},
		{"default empty", Default{}, 0, 0, nil},
		{"force in range", ForceFrame{Frame: 1}, 0, 2, []int{1}},
		{"force clamped", ForceFrame{Frame: 9}, 8, 4, []int{11}},
		{"force empty", ForceFrame{Frame: 0}, 0, 0, nil},
		{"range", RangeStartEnd{Start: 1, End: 2}, 4, 4, []int{5, 6}},
		{"range clamped end", RangeStartEnd{Start: 1, End: 10}, 0, 3, []int{1, 2}},
		{"range inverted", RangeStartEnd{Start: 2, End: 1}, 0, 4, nil},
		{"negative end copies all", RangeStartNegativeEnd{Starts: []int{0}, Ends: []int{-1}}, 12, 3, []int{12, 13, 14}},
		{"portrait", Portrait{Frame: 3}, 0, 2, []int{1}},
		{"repeat copies all", RepeatFrameCount{Quantity: 5}, 2, 2, []int{2, 3}},
	} {
		ttesting.AssertEqualInts(t, tc.name, tc.mode.Physical(tc.base, tc.n), tc.want)
	}
}

func TestModeEmitted(t *testing.T) {
	for _, tc := range []struct {
		name string
		mode Mode
		base int
		n    int
		want []int
	}{
		{"default", Default{}, 4, 2, []int{4, 5}},
		{"force", ForceFrame{Frame: 1}, 0, 2, []int{1}},
		{"range", RangeStartEnd{Start: 0, End: 1}, 8, 3, []int{8, 9}},
		{"negative end last", RangeStartNegativeEnd{Ends: []int{-1}}, 0, 4, []int{3}},
		{"negative end right", RangeStartNegativeEnd{Starts: []int{0}, Ends: []int{-1}}, 8, 4, []int{8, 11}},
		{"negative end dedup sorted", RangeStartNegativeEnd{Starts: []int{3, 0, 3}, Ends: []int{-4, 1}}, 0, 4, []int{0, 1, 3}},
		{"negative end out of range", RangeStartNegativeEnd{Starts: []int{4, -1}, Ends: []int{-5, 7}}, 0, 4, nil},
		{"positive end", RangeStartNegativeEnd{Ends: []int{2}}, 0, 4, []int{2}},
		{"repeat", RepeatFrameCount{Quantity: 5}, 0, 2, []int{0, 1, 0, 1, 0}},
		{"repeat fewer than frames", RepeatFrameCount{Quantity: 2}, 6, 3, []int{6, 7}},
		{"repeat zero", RepeatFrameCount{Quantity: 0}, 0, 3, nil},
		{"repeat no frames", RepeatFrameCount{Quantity: 3}, 0, 0, nil},
	} {
		ttesting.AssertEqualInts(t, tc.name, tc.mode.Emitted(tc.base, tc.n), tc.want)
	}
}

func TestNegativeEndOrderIndependent(t *testing.T) {
	a := RangeStartNegativeEnd{Starts: []int{1}, Ends: []int{-1, -2, -3}}
	b := RangeStartNegativeEnd{Starts: []int{1}, Ends: []int{-3, -1, -2, -1}}
	for n := 1; n <= 6; n++ {
		ttesting.AssertEqualInts(t, fmt.Sprintf("n=%d", n), a.Emitted(16, n), b.Emitted(16, n))
	}
}

func TestRepeatCyclesPhysical(t *testing.T) {
	for q := 0; q < 12; q++ {
		m := RepeatFrameCount{Quantity: q}
		phys := m.Physical(10, 3)
		got := m.Emitted(10, 3)
		ttesting.AssertEqualInt(t, fmt.Sprintf("len q=%d", q), len(got), q)
		for i := range got {
			if got[i] != phys[i%len(phys)] {
				t.Errorf("q=%d: emitted[%d]=%d, want %d", q, i, got[i], phys[i%len(phys)])
			}
		}
	}
}

func ExampleRangeStartNegativeEnd_Emitted() {
	m := RangeStartNegativeEnd{Starts: []int{0}, Ends: []int{-1, -2}}
	fmt.Println(m.Physical(0, 5))
	fmt.Println(m.Emitted(0, 5))
	// Output:
	// [0 1 2 3 4]
	// [0 3 4]
}
