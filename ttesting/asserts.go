// Package ttesting holds small assertion helpers shared by the tests.
package ttesting

import (
	"fmt"
	"testing"
)

func AssertEqualInt(t *testing.T, name string, got, want int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %d; want %d", got, want)
		}
	})
}

func AssertEqualString(t *testing.T, name string, got, want string) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got != want {
			t.Errorf("got %q; want %q", got, want)
		}
	})
}

// AssertEqualInts compares two index lists element by element. A nil and an
// empty list are equal.
func AssertEqualInts(t *testing.T, name string, got, want []int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if len(got) != len(want) {
			t.Fatalf("got %v (len %d); want %v (len %d)", got, len(got), want, len(want))
		}
		for i := range got {
			if got[i] != want[i] {
				t.Errorf("got %v; want %v (first difference at %d)", got, want, i)
				return
			}
		}
	})
}

// AssertInRange checks that got is within [wantMin,wantMax].
func AssertInRange(t *testing.T, name string, got, wantMin, wantMax int) {
	t.Helper()
	t.Run(name, func(t *testing.T) {
		if got < wantMin || got > wantMax {
			t.Errorf("got %d; want [%d,%d]", got, wantMin, wantMax)
		}
	})
}

// Name formats a subtest name the way the tables in this module do.
func Name(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
