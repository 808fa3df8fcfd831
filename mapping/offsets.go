package mapping

import (
	"sort"

	"github.com/golang/glog"
)

// Offsets are the per-creature pixel offsets applied to every variant.
type Offsets struct {
	SpriteX, SpriteY     int
	PortraitX, PortraitY int

	Accessory int
	Head      int
	Leg       int
	Shoe      int
	Body      int
	Arms      int
}

// Configuration keys of the offsets in global_offsets.
const (
	KeySpriteOffsetX   = "pokemon_sprite_offset_x"
	KeySpriteOffsetY   = "pokemon_sprite_offset_y"
	KeyPortraitOffsetX = "pokemon_portrait_offset_x"
	KeyPortraitOffsetY = "pokemon_portrait_offset_y"
	KeyAccessoryOffset = "accessory_offset"
	KeyHeadOffset      = "head_offset"
	KeyLegOffset       = "leg_offset"
	KeyShoeOffset      = "shoe_offset"
	KeyBodyOffset      = "body_offset"
	KeyArmsOffset      = "arms_offset"
)

// DefaultOffsets returns the offsets used for keys absent from every
// configuration layer.
func DefaultOffsets() Offsets {
	return Offsets{Head: -4}
}

func (o *Offsets) fields() map[string]*int {
	return map[string]*int{
		KeySpriteOffsetX:   &o.SpriteX,
		KeySpriteOffsetY:   &o.SpriteY,
		KeyPortraitOffsetX: &o.PortraitX,
		KeyPortraitOffsetY: &o.PortraitY,
		KeyAccessoryOffset: &o.Accessory,
		KeyHeadOffset:      &o.Head,
		KeyLegOffset:       &o.Leg,
		KeyShoeOffset:      &o.Shoe,
		KeyBodyOffset:      &o.Body,
		KeyArmsOffset:      &o.Arms,
	}
}

// Apply overwrites the offsets named in m, key by key. Unknown keys are
// reported and ignored.
func (o *Offsets) Apply(m map[string]int, source string) {
	fields := o.fields()
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		p, ok := fields[k]
		if !ok {
			glog.Warningf("%s: ignoring unknown global offset %q", source, k)
			continue
		}
		*p = m[k]
	}
}

// Map returns the offsets keyed by their configuration names.
func (o Offsets) Map() map[string]int {
	out := make(map[string]int)
	for k, p := range o.fields() {
		out[k] = *p
	}
	return out
}
