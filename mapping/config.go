// Package mapping loads the declarative animation mapping configuration.
//
// A configuration directory holds a required default configuration and,
// optionally, one override per creature, named after the creature's number
// (e.g. 0025.json) or, for custom creatures, after its name. An override
// replaces the whole animation list if it has one, and its global offsets
// are merged key by key into the default ones.
//
// Files can be JSON (.json) or YAML (.yaml, .yml); both use the same keys.
package mapping

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultConfigName is the base name of the required default configuration.
const DefaultConfigName = "default_config"

// ErrDefaultConfigMissing is returned when the default configuration cannot
// be found in the configuration directory.
var ErrDefaultConfigMissing = errors.New("default configuration file not found")

var extensions = []string{".json", ".yaml", ".yml"}

// Config is the resolved configuration for one creature.
type Config struct {
	Entries []Entry
	Offsets Offsets

	// Override is the path of the creature-specific file that was merged
	// in, or empty.
	Override string
}

type rawEntry struct {
	Type          string   `json:"type" yaml:"type"`
	Mode          string   `json:"mode" yaml:"mode"`
	Name          string   `json:"name" yaml:"name"`
	FallbackNames []string `json:"fallback_names" yaml:"fallback_names"`

	UseFrontOnly    *bool    `json:"use_front_only" yaml:"use_front_only"`
	FlipLeftFrames  *bool    `json:"flip_left_frames" yaml:"flip_left_frames"`
	DurationMult    *float64 `json:"duration_mult" yaml:"duration_mult"`
	DiscardDistance float64  `json:"discard_distance" yaml:"discard_distance"`

	SpriteOffsetX   int `json:"sprite_offset_x" yaml:"sprite_offset_x"`
	SpriteOffsetY   int `json:"sprite_offset_y" yaml:"sprite_offset_y"`
	PortraitOffsetX int `json:"portrait_offset_x" yaml:"portrait_offset_x"`
	PortraitOffsetY int `json:"portrait_offset_y" yaml:"portrait_offset_y"`

	BodyType                  string   `json:"body_type" yaml:"body_type"`
	ConditionsNames           []string `json:"conditions_names" yaml:"conditions_names"`
	ConditionsGroupNames      []string `json:"conditions_group_names" yaml:"conditions_group_names"`
	EndWhenFarmerFrameUpdates bool     `json:"end_when_farmer_frame_updates" yaml:"end_when_farmer_frame_updates"`

	Frame           int   `json:"frame" yaml:"frame"`
	FrameStart      int   `json:"frame_start" yaml:"frame_start"`
	FrameEnd        int   `json:"frame_end" yaml:"frame_end"`
	FrameRangeStart []int `json:"frame_range_start" yaml:"frame_range_start"`
	FrameRangeEnd   []int `json:"frame_range_end" yaml:"frame_range_end"`
	FrameQuantity   int   `json:"frame_quantity" yaml:"frame_quantity"`
}

type rawConfig struct {
	GlobalOffsets map[string]int `json:"global_offsets" yaml:"global_offsets"`
	// Animations is a pointer so that an override can be told apart from a
	// file without the key.
	Animations *[]rawEntry `json:"animations" yaml:"animations"`
}

// Loader resolves per-creature configurations against a parsed default
// configuration. It is safe for concurrent use.
type Loader struct {
	dir string

	defaultPath    string
	defaultRaw     rawConfig
	defaultEntries []Entry
}

// NewLoader reads and validates the default configuration in dir.
//
// A missing default configuration yields an error whose cause is
// ErrDefaultConfigMissing.
func NewLoader(dir string) (*Loader, error) {
	path := findConfig(dir, DefaultConfigName)
	if path == "" {
		return nil, errors.Wrapf(ErrDefaultConfigMissing, "looking for %s.{json,yaml,yml} in %q", DefaultConfigName, dir)
	}
	raw, err := readRaw(path)
	if err != nil {
		return nil, errors.Wrap(err, "loading default configuration")
	}
	l := &Loader{dir: dir, defaultPath: path, defaultRaw: raw}
	if raw.Animations != nil {
		l.defaultEntries, err = convertEntries(*raw.Animations)
		if err != nil {
			return nil, errors.Wrapf(err, "validating %s", path)
		}
	}
	glog.Infof("loaded default configuration %s (%d animations)", path, len(l.defaultEntries))
	return l, nil
}

// DefaultPath returns the path of the default configuration file.
func (l *Loader) DefaultPath() string {
	return l.defaultPath
}

// For returns the configuration of one creature. Overrides are looked up by
// id first (unless the creature is custom) and then by name. A broken
// override is reported and ignored.
func (l *Loader) For(id, name string, custom bool) *Config {
	cfg := &Config{
		Entries: copyEntries(l.defaultEntries),
		Offsets: DefaultOffsets(),
	}
	cfg.Offsets.Apply(l.defaultRaw.GlobalOffsets, l.defaultPath)

	loaded := false
	if id != "" && !custom {
		loaded = l.apply(cfg, id)
	}
	if !loaded && name != "" {
		loaded = l.apply(cfg, name)
	}
	if !loaded {
		glog.V(1).Infof("no specific configuration for %q (%s), using default", name, id)
	}
	return cfg
}

func (l *Loader) apply(cfg *Config, base string) bool {
	path := findConfig(l.dir, base)
	if path == "" {
		return false
	}
	raw, err := readRaw(path)
	if err != nil {
		glog.Warningf("ignoring configuration override: %v", err)
		return false
	}
	var entries []Entry
	if raw.Animations != nil {
		if entries, err = convertEntries(*raw.Animations); err != nil {
			glog.Warningf("ignoring configuration override %s: %v", path, err)
			return false
		}
	}

	cfg.Override = path
	cfg.Offsets.Apply(raw.GlobalOffsets, path)
	if raw.Animations != nil {
		cfg.Entries = entries
		glog.V(1).Infof("%s: using its own animation list (%d animations)", path, len(entries))
	}
	return true
}

func findConfig(dir, base string) string {
	for _, ext := range extensions {
		p := filepath.Join(dir, base+ext)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}

func readRaw(path string) (rawConfig, error) {
	var raw rawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return raw, errors.Wrapf(err, "reading %s", path)
	}
	if err := decode(path, b, &raw); err != nil {
		return raw, errors.Wrapf(err, "parsing %s", path)
	}
	return raw, nil
}

func decode(path string, b []byte, v interface{}) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, v)
	default:
		dec := json.NewDecoder(bytes.NewReader(b))
		return dec.Decode(v)
	}
}

func convertEntries(raws []rawEntry) ([]Entry, error) {
	entries := make([]Entry, 0, len(raws))
	seen := make(map[string]bool)
	for i, r := range raws {
		e, err := r.entry()
		if err != nil {
			return nil, errors.Wrapf(err, "animation #%d (%q)", i, r.Name)
		}
		if seen[e.Name] {
			glog.Warningf("animation %q is configured more than once", e.Name)
		}
		seen[e.Name] = true
		entries = append(entries, e)
	}
	return entries, nil
}

func (r rawEntry) mode() (Mode, error) {
	kind := r.Type
	if kind == "" || kind == ModeDefault {
		kind = r.Mode
	}
	if kind == "" {
		kind = ModeDefault
	}
	nonNegative := func(key string, v int) error {
		if v < 0 {
			return errors.Errorf("%s must not be negative, got %d", key, v)
		}
		return nil
	}
	switch kind {
	case ModeDefault:
		return Default{}, nil
	case ModeForceFrame:
		return ForceFrame{Frame: r.Frame}, nonNegative("frame", r.Frame)
	case ModePortrait:
		return Portrait{Frame: r.Frame}, nonNegative("frame", r.Frame)
	case ModeRangeStartEnd:
		if err := nonNegative("frame_start", r.FrameStart); err != nil {
			return nil, err
		}
		return RangeStartEnd{Start: r.FrameStart, End: r.FrameEnd}, nonNegative("frame_end", r.FrameEnd)
	case ModeRangeStartNegativeEnd:
		return RangeStartNegativeEnd{
			Starts: append([]int(nil), r.FrameRangeStart...),
			Ends:   append([]int(nil), r.FrameRangeEnd...),
		}, nil
	case ModeRepeatFrameCount:
		return RepeatFrameCount{Quantity: r.FrameQuantity}, nonNegative("frame_quantity", r.FrameQuantity)
	default:
		return nil, errors.Errorf("unknown mode %q", kind)
	}
}

func (r rawEntry) entry() (Entry, error) {
	if r.Name == "" {
		return Entry{}, errors.New("missing 'name'")
	}
	if len(r.FallbackNames) == 0 {
		return Entry{}, errors.New("missing 'fallback_names'")
	}
	mode, err := r.mode()
	if err != nil {
		return Entry{}, err
	}
	bodyType, err := ParseBodyType(r.BodyType)
	if err != nil {
		return Entry{}, err
	}

	e := NewEntry(r.Name, append([]string(nil), r.FallbackNames...), mode)
	if r.UseFrontOnly != nil {
		e.UseFrontOnly = *r.UseFrontOnly
	}
	if r.FlipLeftFrames != nil {
		e.FlipLeftFrames = *r.FlipLeftFrames
	}
	if r.DurationMult != nil {
		if *r.DurationMult < 0 {
			return Entry{}, errors.Errorf("duration_mult must not be negative, got %g", *r.DurationMult)
		}
		e.DurationMult = *r.DurationMult
	}
	e.DiscardDistance = r.DiscardDistance
	e.SpriteOffsetX, e.SpriteOffsetY = r.SpriteOffsetX, r.SpriteOffsetY
	e.PortraitOffsetX, e.PortraitOffsetY = r.PortraitOffsetX, r.PortraitOffsetY
	e.BodyType = bodyType
	e.ConditionNames = append([]string(nil), r.ConditionsNames...)
	e.ConditionGroupNames = append([]string(nil), r.ConditionsGroupNames...)
	e.EndWhenFarmerFrameUpdates = r.EndWhenFarmerFrameUpdates
	return e, nil
}

func copyEntries(in []Entry) []Entry {
	return append([]Entry(nil), in...)
}
