// Package pipeline converts every discovered creature variant into a body
// sheet and its descriptor.
//
// Variants are named sequentially in discovery order, then converted in
// parallel. A failing variant is logged and counted; it never stops the
// run.
package pipeline

import (
	"context"
	"encoding/json"
	"image"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/golang/glog"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"badc0de.net/pkg/go-pmdanim/align"
	"badc0de.net/pkg/go-pmdanim/animdata"
	"badc0de.net/pkg/go-pmdanim/animset"
	"badc0de.net/pkg/go-pmdanim/body"
	"badc0de.net/pkg/go-pmdanim/mapping"
	"badc0de.net/pkg/go-pmdanim/paths"
	"badc0de.net/pkg/go-pmdanim/pokedex"
	"badc0de.net/pkg/go-pmdanim/preview"
	"badc0de.net/pkg/go-pmdanim/report"
	"badc0de.net/pkg/go-pmdanim/sheet"
)

const (
	// CreditsFile is copied from the variant directory when present.
	CreditsFile = "credits.txt"
	// EyesFile is copied from the images directory into every output
	// directory.
	EyesFile = "eyes.png"
	// FrameMapFile maps output frames to source frames; written with the
	// previews.
	FrameMapFile = "frame_map.json"
	// ImagesDirName is the default images directory name.
	ImagesDirName = "images"
)

// Result is the outcome of one variant.
type Result struct {
	Variant pokedex.Variant
	// Dir is the output directory.
	Dir string

	// Frames is the number of physical frames in the sheet.
	Frames  int
	Reused  int
	Records int
	// Skipped counts frames left blank in the sheet.
	Skipped int
	// Missing counts animations without a source.
	Missing  int
	Previews int

	DebugMap map[int]int
	Duration time.Duration
	Err      error
}

// Summary is the outcome of a run.
type Summary struct {
	Root    string
	Results []*Result
	Metrics *Metrics
}

type run struct {
	settings  Settings
	loader    *mapping.Loader
	missing   animset.MissingLog
	reference image.Image
	eyes      string
	metrics   *Metrics
}

// Plan discovers, identifies and names the variants selected by s, in
// discovery order.
func Plan(s *Settings, dex *pokedex.Dex, m *Metrics) ([]pokedex.Variant, error) {
	found, err := pokedex.Discover(s.BaseDir, pokedex.DiscoverOptions{Filter: s.Filter, CustomOnly: s.CustomOnly})
	if err != nil {
		return nil, err
	}
	namer := &pokedex.Namer{Dex: dex, Mode: s.VariantMode}
	var variants []pokedex.Variant
	for _, xmlPath := range found {
		c, path, err := dex.Identify(s.BaseDir, xmlPath)
		if err != nil {
			glog.Warningf("skipping %s: %v", xmlPath, err)
			m.skip()
			continue
		}
		v, ok, reason := namer.Name(c, path, xmlPath)
		if !ok {
			glog.V(1).Infof("skipping %s (%s)", xmlPath, reason)
			m.skip()
			continue
		}
		variants = append(variants, v)
	}
	for key, n := range namer.Counts() {
		glog.V(1).Infof("%s: %d variants", key, n)
	}
	return variants, nil
}

// Run converts every variant selected by s. It fails only when the run
// cannot start: invalid settings, a missing or broken default mapping
// configuration, or an unreadable creature table.
func Run(ctx context.Context, s Settings) (*Summary, error) {
	if err := s.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid settings")
	}
	loader, err := mapping.NewLoader(s.ConfigDir)
	if err != nil {
		return nil, err
	}
	dex, err := pokedex.Load(s.CSVPath)
	if err != nil {
		return nil, err
	}

	metrics := &Metrics{}
	variants, err := Plan(&s, dex, metrics)
	if err != nil {
		return nil, err
	}

	root := s.OutputRoot()
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, errors.Wrap(err, "creating output directory")
	}

	p := &run{settings: s, loader: loader, metrics: metrics}
	if s.MissingLog != "" {
		mf, err := OpenMissingFile(s.MissingLog)
		if err != nil {
			return nil, err
		}
		defer mf.Close()
		p.missing = mf
	}
	images := paths.Dirs(s.ImagesDir, ImagesDirName)
	if path := paths.Find(align.ReferenceFile, images); path != "" {
		if p.reference, err = align.LoadReference(path); err != nil {
			glog.Warningf("%v", err)
		}
	} else {
		glog.Warningf("%s not found in %v", align.ReferenceFile, images)
	}
	if p.eyes = paths.Find(EyesFile, images); p.eyes == "" {
		glog.Warningf("%s not found in %v", EyesFile, images)
	}

	dirs := pokedex.OutputDirs(variants, s.VariationsAsSubfolders)
	results := make([]*Result, len(variants))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.Workers)
	glog.Infof("converting %d variants into %s with %d workers", len(variants), root, s.Workers)
	for i, v := range variants {
		g.Go(func() error {
			results[i] = p.processVariant(gctx, v, filepath.Join(root, dirs[v.Name]))
			return nil
		})
	}
	g.Wait()

	if s.Report {
		if err := report.Write(filepath.Join(root, report.FileName), s.VariantMode.String(), reportEntries(root, results)); err != nil {
			glog.Warningf("%v", err)
		}
	}
	metrics.Log()
	return &Summary{Root: root, Results: results, Metrics: metrics}, nil
}

func reportEntries(root string, results []*Result) []report.Entry {
	var entries []report.Entry
	for _, r := range results {
		e := report.Entry{
			Variant: r.Variant.Name,
			Frames:  r.Frames,
			Reused:  r.Reused,
			Records: r.Records,
			Skipped: r.Skipped,
			Missing: r.Missing,
		}
		if rel, err := filepath.Rel(root, r.Dir); err == nil {
			e.Dir = filepath.ToSlash(rel)
		}
		if r.Err != nil {
			e.Err = r.Err.Error()
		} else if u, err := report.SheetURL(filepath.Join(r.Dir, sheet.FileName)); err == nil {
			e.Sheet = u
		}
		entries = append(entries, e)
	}
	return entries
}

func (p *run) processVariant(ctx context.Context, v pokedex.Variant, dir string) (res *Result) {
	res = &Result{Variant: v, Dir: dir}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			res.Err = errors.Errorf("panic: %v", r)
		}
		res.Duration = time.Since(start)
		if res.Err != nil {
			glog.Errorf("%s: %v", v.Name, res.Err)
		} else {
			glog.Infof("%s: %d frames, %d records in %v", v.Name, res.Frames, res.Records, res.Duration)
		}
		p.metrics.record(res)
	}()
	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Err = p.convert(v, res)
	return res
}

// newSet parses the animation data of v and resolves its mappings.
func (p *run) newSet(v pokedex.Variant, res *Result) (*animset.Set, error) {
	catalog, err := animdata.ParseFile(v.XMLPath)
	if err != nil {
		return nil, err
	}
	cfg := p.loader.For(v.ID, v.Creature.Name, v.Custom)

	s := animset.NewSet(v.Name, filepath.Dir(v.XMLPath), catalog)
	s.ID, s.Name, s.Generation = v.ID, v.Creature.Name, v.Generation
	s.Custom, s.VariationType = v.Custom, v.VariationType
	s.Offsets = cfg.Offsets

	counter := &missingCounter{next: p.missing}
	s.Resolve(cfg.Entries, counter)
	res.Missing = counter.n
	if len(s.Mappings) == 0 {
		return nil, errors.New("no animation could be mapped")
	}
	s.ComputeDimensions()
	return s, nil
}

func (p *run) convert(v pokedex.Variant, res *Result) error {
	s, err := p.newSet(v, res)
	if err != nil {
		return err
	}
	l := animset.Arrange(s)

	if err := os.MkdirAll(res.Dir, 0755); err != nil {
		return errors.Wrap(err, "creating output directory")
	}
	p.copySupportFiles(s, res.Dir)

	off := align.Compute(s, p.reference)
	sh, err := sheet.Compose(s, l, sheet.Options{FramesPerRow: p.settings.FramesPerRow, FootDifference: off.FootDifference})
	if err != nil {
		return err
	}
	if err := sh.Save(filepath.Join(res.Dir, sheet.FileName)); err != nil {
		return err
	}

	x := body.Expand(s, l, body.Offset{X: off.X, Y: off.Y})
	if err := body.NewDocument(s, x).Write(filepath.Join(res.Dir, body.FileName)); err != nil {
		return err
	}

	res.Frames, res.Reused, res.Records = l.Total, l.Reused(), x.Records
	res.Skipped, res.DebugMap = sh.Skipped, sh.DebugMap

	if p.settings.Preview {
		res.Previews = preview.WriteFront(res.Dir, sh, x, p.settings.PreviewScale)
		if err := writeFrameMap(filepath.Join(res.Dir, FrameMapFile), sh.DebugMap); err != nil {
			glog.Warningf("%s: %v", v.Name, err)
		}
	}
	return nil
}

func (p *run) copySupportFiles(s *animset.Set, dir string) {
	credits := filepath.Join(s.Directory, CreditsFile)
	if _, err := os.Stat(credits); err == nil {
		if err := copyFile(credits, filepath.Join(dir, CreditsFile)); err != nil {
			glog.Warningf("%s: %v", s.Variant, err)
		}
	}
	if p.eyes != "" {
		if err := copyFile(p.eyes, filepath.Join(dir, EyesFile)); err != nil {
			glog.Warningf("%s: %v", s.Variant, err)
		}
	}
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return errors.Wrap(err, "opening file to copy")
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrap(err, "creating copy")
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return errors.Wrapf(err, "copying %s to %s", src, dst)
	}
	return errors.Wrapf(out.Close(), "closing %s", dst)
}

func writeFrameMap(path string, m map[int]int) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding frame map")
	}
	return errors.Wrapf(os.WriteFile(path, b, 0644), "writing %s", path)
}
