package body

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"unicode"

	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/animset"
)

// FileName is the name of the body descriptor in an output directory.
const FileName = "body.json"

// NameSeparator separates the parts of a variant name.
const NameSeparator = " - "

type Position struct {
	X int `json:"X"`
	Y int `json:"Y"`
}

type Size struct {
	Width  int `json:"Width"`
	Height int `json:"Height"`
}

// Condition restricts when a frame plays. Exactly one of Name and GroupName
// is set.
type Condition struct {
	Name      string
	GroupName string
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c.GroupName != "" {
		return json.Marshal(struct {
			GroupName string `json:"GroupName"`
		}{c.GroupName})
	}
	return json.Marshal(struct {
		Name string `json:"Name"`
	}{c.Name})
}

func (c *Condition) UnmarshalJSON(b []byte) error {
	var raw struct {
		Name      string `json:"Name"`
		GroupName string `json:"GroupName"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	c.Name, c.GroupName = raw.Name, raw.GroupName
	return nil
}

// Body is one direction of the descriptor.
type Body struct {
	BodySize Size `json:"BodySize"`
	Flipped  bool `json:"Flipped"`

	AccessoryOffset int `json:"AccessoryOffset"`
	HeadOffset      int `json:"HeadOffset"`
	LegOffset       int `json:"LegOffset"`
	ShoeOffset      int `json:"ShoeOffset"`
	BodyOffset      int `json:"BodyOffset"`
	ArmsOffset      int `json:"ArmsOffset"`

	Portrait *Portrait `json:"Portrait,omitempty"`

	IdleAnimation     []Record `json:"IdleAnimation"`
	MovementAnimation []Record `json:"MovementAnimation"`
}

// Document is the body descriptor of a variant.
type Document struct {
	Name string   `json:"Name"`
	Tags []string `json:"Tags"`

	FrontBody *Body `json:"FrontBody,omitempty"`
	RightBody *Body `json:"RightBody,omitempty"`
	BackBody  *Body `json:"BackBody,omitempty"`
	LeftBody  *Body `json:"LeftBody,omitempty"`
}

// Body returns the body of direction d, or nil.
func (doc *Document) Body(d animset.Direction) *Body {
	switch d {
	case animset.Front:
		return doc.FrontBody
	case animset.Right:
		return doc.RightBody
	case animset.Back:
		return doc.BackBody
	case animset.Left:
		return doc.LeftBody
	}
	return nil
}

func (doc *Document) setBody(d animset.Direction, b *Body) {
	switch d {
	case animset.Front:
		doc.FrontBody = b
	case animset.Right:
		doc.RightBody = b
	case animset.Back:
		doc.BackBody = b
	case animset.Left:
		doc.LeftBody = b
	}
}

// IsAlternative reports whether the last part of a variant name has a digit.
func IsAlternative(variant string) bool {
	parts := strings.Split(variant, NameSeparator)
	return strings.IndexFunc(parts[len(parts)-1], unicode.IsDigit) >= 0
}

// Generation returns the digits of a generation label, or "1".
func Generation(label string) string {
	var b strings.Builder
	for _, r := range label {
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "1"
	}
	return b.String()
}

// Tags returns the descriptor tags of s.
func Tags(s *animset.Set) []string {
	tags := []string{"Pokemon"}
	if s.Custom {
		tags = append(tags, s.Name, "Custom")
	} else {
		tags = append(tags, "Gen "+Generation(s.Generation), s.ID, s.Name)
	}
	if IsAlternative(s.Variant) {
		tags = append(tags, "Alternative")
	}
	if s.VariationType != "" {
		tags = append(tags, s.VariationType)
	}
	return tags
}

func flatten(anims []Animation) []Record {
	out := []Record{}
	for _, a := range anims {
		out = append(out, a.Records...)
	}
	return out
}

// NewDocument builds the descriptor of s from its expansion. Directions
// without frames are left out.
func NewDocument(s *animset.Set, x *Expansion) *Document {
	doc := &Document{Name: s.Variant, Tags: Tags(s)}
	o := s.Offsets
	for i := range x.Buckets {
		b := &x.Buckets[i]
		if b.Empty() {
			continue
		}
		doc.setBody(b.Direction, &Body{
			BodySize:          Size{Width: s.MaxWidth, Height: s.MaxHeight},
			Flipped:           b.Flipped,
			AccessoryOffset:   o.Accessory,
			HeadOffset:        o.Head,
			LegOffset:         o.Leg,
			ShoeOffset:        o.Shoe,
			BodyOffset:        o.Body,
			ArmsOffset:        o.Arms,
			Portrait:          b.Portrait,
			IdleAnimation:     flatten(b.Idle),
			MovementAnimation: flatten(b.Movement),
		})
	}
	return doc
}

// Marshal encodes doc as indented JSON.
func (doc *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return nil, errors.Wrap(err, "encoding body descriptor")
	}
	return buf.Bytes(), nil
}

// Write writes doc to path.
func (doc *Document) Write(path string) error {
	b, err := doc.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0644); err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

// ReadDocument reads a descriptor written by Write.
func ReadDocument(path string) (*Document, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading body descriptor")
	}
	doc := &Document{}
	if err := json.Unmarshal(b, doc); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return doc, nil
}
