// Package pokedex knows which creatures and variants exist: the creature
// table (a CSV file) and the sprite directory tree.
//
// The CSV file has a header row with at least the columns number, name and
// generation. The optional columns variations_paths, variation_types and
// minimal_variants hold ';'-separated lists describing the known variants of
// a creature, in order; the first variant is the base one.
package pokedex

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// ListSeparator separates the items of a list column.
const ListSeparator = ";"

// Entry is one creature of the table.
type Entry struct {
	Number     string
	Name       string
	Generation string

	// VariationPaths are sprite directories relative to the sprite root
	// (e.g. "0025/0000/0001"), without a trailing slash.
	VariationPaths []string
	// VariationTypes name the variants; an empty type is a numbered variant.
	VariationTypes []string
	// MinimalVariants flags, per variant, whether the minimal variant mode
	// keeps it.
	MinimalVariants []bool
}

// Dex is the creature table, keyed by zero-padded number.
type Dex struct {
	entries map[string]*Entry
}

// PadNumber zero-pads a creature number to four digits.
func PadNumber(n string) string {
	for len(n) < 4 {
		n = "0" + n
	}
	return n
}

// NormalizePath converts a variant path to slash form without a trailing
// slash.
func NormalizePath(p string) string {
	p = strings.TrimSpace(strings.ReplaceAll(p, `\`, "/"))
	return strings.TrimRight(p, "/")
}

// splitList splits a list column, keeping empty items so that columns stay
// aligned with variations_paths.
func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	items := strings.Split(s, ListSeparator)
	for i := range items {
		items[i] = strings.TrimSpace(items[i])
	}
	return items
}

// Read parses a creature table.
func Read(r io.Reader) (*Dex, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	col := make(map[string]int)
	for i, h := range header {
		col[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	for _, required := range []string{"number", "name", "generation"} {
		if _, ok := col[required]; !ok {
			return nil, errors.Errorf("missing column %q", required)
		}
	}

	d := &Dex{entries: make(map[string]*Entry)}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading line %d", line)
		}
		field := func(name string) string {
			i, ok := col[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		e := &Entry{
			Number:     PadNumber(strings.TrimSpace(field("number"))),
			Name:       field("name"),
			Generation: field("generation"),
		}
		for _, p := range splitList(field("variations_paths")) {
			e.VariationPaths = append(e.VariationPaths, NormalizePath(p))
		}
		e.VariationTypes = splitList(field("variation_types"))
		for _, f := range splitList(field("minimal_variants")) {
			n, err := strconv.Atoi(f)
			e.MinimalVariants = append(e.MinimalVariants, f == "" || err != nil || n == 1)
		}
		for len(e.VariationTypes) < len(e.VariationPaths) {
			e.VariationTypes = append(e.VariationTypes, "")
		}
		for len(e.MinimalVariants) < len(e.VariationPaths) {
			e.MinimalVariants = append(e.MinimalVariants, true)
		}
		d.entries[e.Number] = e
		glog.V(2).Infof("pokedex: %s %s, %d variants", e.Number, e.Name, len(e.VariationPaths))
	}
	return d, nil
}

// Load reads the creature table at path.
func Load(path string) (*Dex, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening creature table")
	}
	defer f.Close()
	d, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	glog.Infof("loaded %d creatures from %s", d.Len(), path)
	return d, nil
}

// Lookup returns the creature with the given number, or nil.
func (d *Dex) Lookup(number string) *Entry {
	if d == nil {
		return nil
	}
	return d.entries[PadNumber(number)]
}

// Len is the number of creatures.
func (d *Dex) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// VariantIndex returns the 1-based position of path among the known
// variants of e, or 0.
func (e *Entry) VariantIndex(path string) int {
	if e == nil {
		return 0
	}
	path = NormalizePath(path)
	if path == "" {
		return 0
	}
	for i, p := range e.VariationPaths {
		if p == path {
			return i + 1
		}
	}
	return 0
}

// VariationType returns the type of the variant with the given 1-based
// index, or empty.
func (e *Entry) VariationType(index int) string {
	if e == nil || index < 1 || index > len(e.VariationTypes) {
		return ""
	}
	return e.VariationTypes[index-1]
}

// Minimal reports whether the minimal variant mode keeps the variant with
// the given 1-based index.
func (e *Entry) Minimal(index int) bool {
	if e == nil || index < 1 || index > len(e.MinimalVariants) {
		return true
	}
	return e.MinimalVariants[index-1]
}
