package pokedex

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// AnimDataFile is the animation metadata file of a variant directory.
	AnimDataFile = "AnimData.xml"
	// PokemonDir holds numbered creature directories under the sprite root.
	PokemonDir = "pokemon"
	// CustomDir holds named custom creature directories under the sprite
	// root.
	CustomDir = "custom"
	// CustomID is the id of every custom creature.
	CustomID = "-1"
)

// Creature identifies the creature a variant belongs to.
type Creature struct {
	ID         string
	Name       string
	Generation string
	Custom     bool
}

// Key identifies the creature among all creatures, custom or not.
func (c Creature) Key() string {
	if c.Custom {
		return CustomDir + "/" + c.Name
	}
	return PokemonDir + "/" + c.ID
}

// DiscoverOptions restrict which variant directories are found.
type DiscoverOptions struct {
	// Filter lists creature numbers or custom names; empty means all.
	Filter []string
	// CustomOnly skips numbered creatures.
	CustomOnly bool
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// matches reports whether the creature directory folder under the given
// sprite subdirectory passes the filter.
func (o DiscoverOptions) matches(sub, folder string) bool {
	if len(o.Filter) == 0 {
		return true
	}
	for _, f := range o.Filter {
		f = strings.TrimSpace(f)
		if sub == PokemonDir && isDigits(folder) {
			if isDigits(f) && folder == PadNumber(f) {
				return true
			}
		} else if strings.EqualFold(folder, f) {
			return true
		}
	}
	return false
}

// Discover returns the paths of every AnimData.xml under the pokemon and
// custom directories of root, in lexical order. Hidden directories are
// skipped.
func Discover(root string, opts DiscoverOptions) ([]string, error) {
	var subs []string
	if !opts.CustomOnly {
		subs = append(subs, PokemonDir)
	}
	subs = append(subs, CustomDir)

	var found []string
	for _, sub := range subs {
		dir := filepath.Join(root, sub)
		if _, err := os.Stat(dir); err != nil {
			glog.V(1).Infof("not searching %s: %v", dir, err)
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				glog.Warningf("skipping %s: %v", path, err)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			if d.IsDir() {
				if path != dir && strings.HasPrefix(d.Name(), ".") {
					return filepath.SkipDir
				}
				return nil
			}
			if d.Name() != AnimDataFile {
				return nil
			}
			rel, err := filepath.Rel(dir, path)
			if err != nil {
				return nil
			}
			parts := strings.Split(filepath.ToSlash(rel), "/")
			if len(parts) < 2 || !opts.matches(sub, parts[0]) {
				return nil
			}
			found = append(found, path)
			glog.V(1).Infof("found %s", path)
			return nil
		})
		if err != nil {
			return nil, errors.Wrapf(err, "searching %s", dir)
		}
	}
	glog.Infof("found %d animation data files under %s", len(found), root)
	return found, nil
}

// Identify tells which creature the AnimData.xml at path belongs to, and
// returns the variant path relative to the pokemon directory ("0025" or
// "0025/0000/0001"). Paths outside the pokemon and custom directories of
// root are rejected.
func (d *Dex) Identify(root, path string) (Creature, string, error) {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil {
		return Creature{}, "", errors.Wrapf(err, "locating %s", path)
	}
	parts := strings.Split(filepath.ToSlash(rel), "/")
	if len(parts) < 2 {
		return Creature{}, "", errors.Errorf("%s is not inside a creature directory", path)
	}
	switch parts[0] {
	case CustomDir:
		return Creature{ID: CustomID, Name: parts[1], Generation: "Custom", Custom: true}, strings.Join(parts[1:], "/"), nil
	case PokemonDir:
		if !isDigits(parts[1]) {
			return Creature{}, "", errors.Errorf("%s: invalid creature directory %q", path, parts[1])
		}
		c := Creature{ID: parts[1], Name: "Unknown", Generation: "Unknown"}
		if e := d.Lookup(parts[1]); e != nil {
			c.Name, c.Generation = e.Name, e.Generation
		} else {
			glog.Warningf("creature %s is not in the creature table", parts[1])
		}
		return c, strings.Join(parts[1:], "/"), nil
	default:
		return Creature{}, "", errors.Errorf("%s is outside %s and %s", path, PokemonDir, CustomDir)
	}
}
