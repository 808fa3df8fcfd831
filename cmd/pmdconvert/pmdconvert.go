// Command pmdconvert converts PMD sprite collections into Stardew body
// sheets and descriptors.
//
//	pmdconvert -base_dir=sprites -csv_path=pokedex.csv -variant_mode=minimal-variants
//
// The base directory and creature table may also be passed as the two
// positional arguments.
package main

import (
	"context"
	"flag"
	"strings"

	"badc0de.net/pkg/flagutil/v1"
	"github.com/golang/glog"
	"github.com/pkg/errors"

	"badc0de.net/pkg/go-pmdanim/mapping"
	"badc0de.net/pkg/go-pmdanim/paths"
	"badc0de.net/pkg/go-pmdanim/pipeline"
	"badc0de.net/pkg/go-pmdanim/pokedex"
	"badc0de.net/pkg/go-pmdanim/preview"
	"badc0de.net/pkg/go-pmdanim/sheet"
)

var (
	baseDir      = flag.String("base_dir", "", "directory holding the pokemon and custom sprite directories")
	csvPath      = flag.String("csv_path", "", "creature table (number, name, generation, variants)")
	output       = flag.String("output", "output", "output directory")
	framesPerRow = flag.Int("frames_per_row", sheet.DefaultFramesPerRow, "frames per row of the output sheets")
	workers      = flag.Int("workers", 4, "variants converted in parallel")
	filter       = flag.String("filter", "", "comma separated creature numbers or custom names to convert")
	customOnly   = flag.Bool("custom_only", false, "only convert custom sprites")
	noSubfolders = flag.Bool("no_variations_as_subfolders", false, "write variants next to their base variant instead of inside it")
	missingLog   = flag.String("missing_log", pipeline.DefaultMissingLog, "file missing animations are appended to; empty disables it")
	withPreview  = flag.Bool("preview", false, "write animated GIF previews and frame maps")
	previewScale = flag.Int("preview_scale", preview.DefaultScale, "upscale factor of previews")
	withReport   = flag.Bool("report", false, "write an index.html overview into the output directory")

	configDir   string
	imagesDir   string
	variantMode pokedex.VariantMode
)

func init() {
	flag.Var(&variantMode, "variant_mode", "all-variants, minimal-variants or skip-variants")
}

func splitFilter(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

func main() {
	paths.SetupDirFlag("config", "config_dir", &configDir)
	paths.SetupDirFlag(pipeline.ImagesDirName, "images_dir", &imagesDir)
	flagutil.Parse()
	flag.Set("logtostderr", "true")

	if *baseDir == "" {
		*baseDir = flag.Arg(0)
	}
	if *csvPath == "" {
		*csvPath = flag.Arg(1)
	}

	s := pipeline.DefaultSettings()
	s.BaseDir = *baseDir
	s.CSVPath = *csvPath
	s.ConfigDir = configDir
	s.ImagesDir = imagesDir
	s.Output = *output
	s.FramesPerRow = *framesPerRow
	s.Workers = *workers
	s.VariantMode = variantMode
	s.Filter = splitFilter(*filter)
	s.CustomOnly = *customOnly
	s.VariationsAsSubfolders = !*noSubfolders
	s.MissingLog = *missingLog
	s.Preview = *withPreview
	s.PreviewScale = *previewScale
	s.Report = *withReport

	sum, err := pipeline.Run(context.Background(), s)
	if err != nil {
		if errors.Cause(err) == mapping.ErrDefaultConfigMissing {
			glog.Exitf("cannot convert without a default mapping configuration: %v", err)
		}
		glog.Exitf("%v", err)
	}
	if sum.Metrics.Errors > 0 {
		glog.Warningf("%d variants failed, see the log above", sum.Metrics.Errors)
	}
	glog.Infof("done; output in %s", sum.Root)
}
