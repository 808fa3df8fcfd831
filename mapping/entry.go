package mapping

import (
	"github.com/pkg/errors"
)

// BodyType says which animation list of a body bucket an entry is written to.
type BodyType int

const (
	IdleAnimation BodyType = iota
	MovementAnimation
	PortraitAnimation
)

var bodyTypeNames = map[string]BodyType{
	"idle_animation":     IdleAnimation,
	"movement_animation": MovementAnimation,
	"portrait":           PortraitAnimation,
}

func (b BodyType) String() string {
	switch b {
	case IdleAnimation:
		return "idle_animation"
	case MovementAnimation:
		return "movement_animation"
	case PortraitAnimation:
		return "portrait"
	default:
		return "unknown"
	}
}

// ParseBodyType parses the configuration name of a body type. An empty name
// is a movement animation.
func ParseBodyType(s string) (BodyType, error) {
	if s == "" {
		return MovementAnimation, nil
	}
	b, ok := bodyTypeNames[s]
	if !ok {
		return 0, errors.Errorf("unknown body_type %q", s)
	}
	return b, nil
}

// Entry maps one target animation onto the best matching source animation.
type Entry struct {
	// Name of the target animation.
	Name string
	// Fallbacks are source animation names, most preferred first.
	Fallbacks []string
	Mode      Mode

	UseFrontOnly   bool
	FlipLeftFrames bool
	DurationMult   float64
	// DiscardDistance is the largest accepted half-width difference between
	// a candidate and the last available fallback; 0 disables the check.
	DiscardDistance float64

	SpriteOffsetX, SpriteOffsetY     int
	PortraitOffsetX, PortraitOffsetY int

	BodyType                  BodyType
	ConditionNames            []string
	ConditionGroupNames       []string
	EndWhenFarmerFrameUpdates bool
}

// NewEntry returns an entry with the configuration defaults applied.
func NewEntry(name string, fallbacks []string, mode Mode) Entry {
	if mode == nil {
		mode = Default{}
	}
	return Entry{
		Name:           name,
		Fallbacks:      fallbacks,
		Mode:           mode,
		FlipLeftFrames: true,
		DurationMult:   1.0,
		BodyType:       MovementAnimation,
	}
}
