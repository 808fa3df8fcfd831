package pokedex

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
)

// NameSeparator separates the parts of a variant name.
const NameSeparator = " - "

// VariantMode selects which variants of a creature are converted.
type VariantMode int

const (
	AllVariants VariantMode = iota
	// MinimalVariants keeps the variants the creature table flags as
	// minimal.
	MinimalVariants
	// SkipVariants keeps only the base variant.
	SkipVariants
)

var variantModeNames = map[VariantMode]string{
	AllVariants:     "all-variants",
	MinimalVariants: "minimal-variants",
	SkipVariants:    "skip-variants",
}

func (m VariantMode) String() string {
	if s, ok := variantModeNames[m]; ok {
		return s
	}
	return "VariantMode(" + strconv.Itoa(int(m)) + ")"
}

// ParseVariantMode parses the flag spelling of a mode.
func ParseVariantMode(s string) (VariantMode, error) {
	for m, name := range variantModeNames {
		if name == s {
			return m, nil
		}
	}
	return 0, errors.Errorf("unknown variant mode %q", s)
}

// Set implements flag.Value.
func (m *VariantMode) Set(s string) error {
	v, err := ParseVariantMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Variant is a named variant directory, ready for conversion.
type Variant struct {
	Creature
	// Path is the variant path relative to the creature's sprite subdirectory.
	Path string
	// Index is the 1-based position among the creature's variants.
	Index         int
	VariationType string
	// Name is the display name and output directory name.
	Name string
	// XMLPath is the AnimData.xml of the variant.
	XMLPath string
}

// Suffix returns the part of a variant name after the creature name.
func Suffix(index int, variationType string) string {
	switch {
	case variationType != "":
		return NameSeparator + variationType
	case index == 1:
		return ""
	default:
		return NameSeparator + strconv.Itoa(index-1)
	}
}

// VariantName returns the display name of a variant.
func VariantName(c Creature, index int, variationType string) string {
	if c.Custom {
		return c.Name + Suffix(index, variationType)
	}
	return fmt.Sprintf("%s%s%s%s", c.ID, NameSeparator, c.Name, Suffix(index, variationType))
}

// Namer assigns indices and names to the variants of each creature. Variants
// missing from the creature table are numbered after the highest index seen
// so far for their creature, so Name must be called in discovery order.
type Namer struct {
	Dex  *Dex
	Mode VariantMode

	mu       sync.Mutex
	counters map[string]int
}

// Name names the variant at xmlPath, identified as c with variant path
// path. ok is false when the mode skips the variant; reason tells why.
func (n *Namer) Name(c Creature, path, xmlPath string) (v Variant, ok bool, reason string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.counters == nil {
		n.counters = make(map[string]int)
	}

	var e *Entry
	if !c.Custom {
		e = n.Dex.Lookup(c.ID)
	}
	known := e != nil && len(e.VariationPaths) > 0

	key := c.Key()
	index := 0
	if known {
		index = e.VariantIndex(path)
	}
	if known && index == 0 && n.Mode == MinimalVariants {
		return Variant{}, false, "not in variations_paths"
	}
	if index == 0 {
		index = n.counters[key] + 1
		n.counters[key]++
	} else if index > n.counters[key] {
		n.counters[key] = index
	}

	switch n.Mode {
	case MinimalVariants:
		if known && !e.Minimal(index) {
			return Variant{}, false, "disabled in minimal_variants"
		}
		if !known && index != 1 {
			return Variant{}, false, "not the base variant"
		}
	case SkipVariants:
		if index != 1 {
			return Variant{}, false, "skip-variants mode"
		}
	}

	vt := e.VariationType(index)
	return Variant{
		Creature:      c,
		Path:          path,
		Index:         index,
		VariationType: vt,
		Name:          VariantName(c, index, vt),
		XMLPath:       xmlPath,
	}, true, ""
}

// Counts returns the number of variants numbered so far per creature key.
func (n *Namer) Counts() map[string]int {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make(map[string]int, len(n.counters))
	for k, v := range n.counters {
		out[k] = v
	}
	return out
}

// BaseName returns the name of a variant without its variation type.
func BaseName(name, variationType string) string {
	if variationType == "" {
		return name
	}
	if i := strings.LastIndex(name, NameSeparator); i >= 0 {
		return name[:i]
	}
	return name
}

// OutputDirs returns the output directory of every variant, relative to the
// output root and keyed by variant name. In nested mode the variants of a
// creature live under the directory of its first variant by name, which is
// itself the output directory of that variant unless it has a variation
// type.
func OutputDirs(variants []Variant, nested bool) map[string]string {
	dirs := make(map[string]string, len(variants))
	if !nested {
		for _, v := range variants {
			dirs[v.Name] = v.Name
		}
		return dirs
	}

	byCreature := make(map[string][]Variant)
	for _, v := range variants {
		byCreature[v.Key()] = append(byCreature[v.Key()], v)
	}
	for _, vs := range byCreature {
		sort.Slice(vs, func(i, j int) bool { return vs[i].Name < vs[j].Name })
		base := BaseName(vs[0].Name, vs[0].VariationType)
		for _, v := range vs {
			if v.VariationType == "" && v.Name == base {
				dirs[v.Name] = base
			} else {
				dirs[v.Name] = filepath.Join(base, v.Name)
			}
		}
	}
	return dirs
}
