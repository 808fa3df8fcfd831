package pipeline

import (
	"context"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-pmdanim/body"
	"badc0de.net/pkg/go-pmdanim/mapping"
	"badc0de.net/pkg/go-pmdanim/pokedex"
	"badc0de.net/pkg/go-pmdanim/report"
	"badc0de.net/pkg/go-pmdanim/sheet"
	"badc0de.net/pkg/go-pmdanim/ttesting"
)

const (
	fullAnimData = `<AnimData><Anims>
<Anim><Name>Idle</Name><FrameWidth>16</FrameWidth><FrameHeight>16</FrameHeight>
<Durations><Duration>30</Duration><Duration>30</Duration></Durations></Anim>
<Anim><Name>Walk</Name><FrameWidth>24</FrameWidth><FrameHeight>16</FrameHeight>
<Durations><Duration>4</Duration><Duration>4</Duration><Duration>4</Duration></Durations></Anim>
</Anims></AnimData>`

	idleAnimData = `<AnimData><Anims>
<Anim><Name>Idle</Name><FrameWidth>16</FrameWidth><FrameHeight>16</FrameHeight>
<Durations><Duration>30</Duration><Duration>30</Duration></Durations></Anim>
</Anims></AnimData>`

	defaultConfig = `{
  "global_offsets": {"head_offset": -2},
  "animations": [
    {"name": "Idle", "fallback_names": ["Idle"], "body_type": "idle_animation"},
    {"name": "Walk", "fallback_names": ["Walk"], "body_type": "movement_animation"},
    {"name": "Run", "fallback_names": ["Walk"], "body_type": "movement_animation"}
  ]
}`

	creatureTable = "number,name,generation,variations_paths,variation_types,minimal_variants\n" +
		"25,Pikachu,Generation I,0025;0025/0000/0001,;Shiny,1;1\n"
)

type fixture struct {
	base, config, images, out string
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	tmp := t.TempDir()
	f := fixture{
		base:   filepath.Join(tmp, "sprites"),
		config: filepath.Join(tmp, "config"),
		images: filepath.Join(tmp, "images"),
		out:    filepath.Join(tmp, "output"),
	}

	pikachu := filepath.Join(f.base, "pokemon", "0025")
	writeFile(t, filepath.Join(pikachu, "AnimData.xml"), fullAnimData)
	writeFile(t, filepath.Join(pikachu, CreditsFile), "someone")
	ttesting.WriteSheet(t, filepath.Join(pikachu, "Idle-Anim.png"), 2, 8, 16, 16)
	ttesting.WriteSheet(t, filepath.Join(pikachu, "Walk-Anim.png"), 3, 8, 24, 16)

	shiny := filepath.Join(pikachu, "0000", "0001")
	writeFile(t, filepath.Join(shiny, "AnimData.xml"), idleAnimData)
	ttesting.WriteSheet(t, filepath.Join(shiny, "Idle-Anim.png"), 2, 8, 16, 16)

	fluffy := filepath.Join(f.base, "custom", "Fluffy")
	writeFile(t, filepath.Join(fluffy, "AnimData.xml"), idleAnimData)
	ttesting.WriteSheet(t, filepath.Join(fluffy, "Idle-Anim.png"), 2, 8, 16, 16)

	writeFile(t, filepath.Join(f.base, "custom", "Broken", "AnimData.xml"), "<AnimData><Anims>")

	writeFile(t, filepath.Join(f.config, "default_config.json"), defaultConfig)
	writeFile(t, filepath.Join(f.base, "pokedex.csv"), creatureTable)
	ttesting.WriteImage(t, filepath.Join(f.images, EyesFile), image.NewNRGBA(image.Rect(0, 0, 4, 4)))
	return f
}

func (f fixture) settings() Settings {
	s := DefaultSettings()
	s.BaseDir = f.base
	s.CSVPath = filepath.Join(f.base, "pokedex.csv")
	s.ConfigDir = f.config
	s.ImagesDir = f.images
	s.Output = f.out
	s.MissingLog = filepath.Join(f.out, "missing.log")
	s.Workers = 2
	return s
}

func resultByName(t *testing.T, sum *Summary, name string) *Result {
	t.Helper()
	for _, r := range sum.Results {
		if r.Variant.Name == name {
			return r
		}
	}
	t.Fatalf("no result for %q", name)
	return nil
}

func TestRun(t *testing.T) {
	f := newFixture(t)
	s := f.settings()
	s.Preview = true
	s.Report = true

	sum, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, sum.Results, 4)
	assert.Equal(t, filepath.Join(f.out, "all-variants"), sum.Root)

	base := resultByName(t, sum, "0025 - Pikachu")
	require.NoError(t, base.Err)
	assert.Equal(t, filepath.Join(sum.Root, "0025 - Pikachu"), base.Dir)
	assert.Equal(t, 20, base.Frames, "idle 8 + walk 12, run shares walk")
	assert.Equal(t, 12, base.Reused)
	assert.Equal(t, 32, base.Records)
	assert.Equal(t, 0, base.Missing)
	assert.Equal(t, 3, base.Previews)

	img, err := imaging.Open(filepath.Join(base.Dir, sheet.FileName))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(24*sheet.DefaultFramesPerRow, 16), img.Bounds().Size())

	doc, err := body.ReadDocument(filepath.Join(base.Dir, body.FileName))
	require.NoError(t, err)
	assert.Equal(t, "0025 - Pikachu", doc.Name)
	assert.Equal(t, []string{"Pokemon", "Gen 1", "0025", "Pikachu"}, doc.Tags)
	require.NotNil(t, doc.FrontBody)
	assert.Equal(t, -2, doc.FrontBody.HeadOffset)
	assert.Len(t, doc.FrontBody.IdleAnimation, 2)
	assert.Len(t, doc.FrontBody.MovementAnimation, 6)
	assert.True(t, doc.LeftBody.Flipped)

	for _, name := range []string{CreditsFile, EyesFile, FrameMapFile, "preview-Walk.gif"} {
		_, err := os.Stat(filepath.Join(base.Dir, name))
		assert.NoError(t, err, name)
	}

	shiny := resultByName(t, sum, "0025 - Pikachu - Shiny")
	require.NoError(t, shiny.Err)
	assert.Equal(t, filepath.Join(sum.Root, "0025 - Pikachu", "0025 - Pikachu - Shiny"), shiny.Dir)
	assert.Equal(t, 8, shiny.Frames)
	assert.Equal(t, 2, shiny.Missing)
	_, err = os.Stat(filepath.Join(shiny.Dir, CreditsFile))
	assert.True(t, os.IsNotExist(err), "shiny has no credits")

	fluffy := resultByName(t, sum, "Fluffy")
	require.NoError(t, fluffy.Err)
	doc, err = body.ReadDocument(filepath.Join(fluffy.Dir, body.FileName))
	require.NoError(t, err)
	assert.Equal(t, []string{"Pokemon", "Fluffy", "Custom"}, doc.Tags)

	assert.Error(t, resultByName(t, sum, "Broken").Err)

	missing, err := os.ReadFile(s.MissingLog)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(missing)), "\n")
	assert.Len(t, lines, 4, "walk and run for the shiny and Fluffy")
	assert.Contains(t, lines, "0025 - Pikachu - Shiny: Missing animation for 'Walk' with fallbacks ['Walk']")

	m := sum.Metrics
	assert.Equal(t, 3, m.Files)
	assert.Equal(t, 1, m.Errors)
	assert.Equal(t, 36, m.Frames)
	assert.Equal(t, 48, m.Records)
	assert.Equal(t, map[string]int{"pokemon": 2, "custom": 1}, m.ByType)

	b, err := os.ReadFile(filepath.Join(sum.Root, report.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(b), "3 converted, 1 failed.")
}

func TestRunFlatSkipVariants(t *testing.T) {
	f := newFixture(t)
	s := f.settings()
	s.VariantMode = pokedex.SkipVariants
	s.VariationsAsSubfolders = false
	s.Filter = []string{"25"}

	sum, err := Run(context.Background(), s)
	require.NoError(t, err)
	require.Len(t, sum.Results, 1)
	r := sum.Results[0]
	assert.Equal(t, "0025 - Pikachu", r.Variant.Name)
	assert.Equal(t, filepath.Join(f.out, "skip-variants", "0025 - Pikachu"), r.Dir)
	assert.Equal(t, 1, sum.Metrics.Skipped)

	_, err = os.Stat(filepath.Join(r.Dir, FrameMapFile))
	assert.True(t, os.IsNotExist(err), "no frame map without previews")
}

func TestRunMissingDefaultConfig(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.Remove(filepath.Join(f.config, "default_config.json")))

	_, err := Run(context.Background(), f.settings())
	require.Error(t, err)
	assert.Equal(t, mapping.ErrDefaultConfigMissing, errors.Cause(err))
}

func TestRunCancelled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	sum, err := Run(ctx, f.settings())
	require.NoError(t, err)
	for _, r := range sum.Results {
		assert.Equal(t, context.Canceled, r.Err, r.Variant.Name)
	}
}

func TestSettingsValidate(t *testing.T) {
	f := newFixture(t)
	for _, test := range []struct {
		name   string
		change func(*Settings)
	}{
		{"base dir", func(s *Settings) { s.BaseDir = filepath.Join(f.base, "nothing") }},
		{"csv", func(s *Settings) { s.CSVPath = f.base }},
		{"config dir", func(s *Settings) { s.ConfigDir = "" }},
		{"frames per row", func(s *Settings) { s.FramesPerRow = 0 }},
		{"workers", func(s *Settings) { s.Workers = -1 }},
		{"preview scale", func(s *Settings) { s.Preview, s.PreviewScale = true, 0 }},
	} {
		t.Run(test.name, func(t *testing.T) {
			s := f.settings()
			require.NoError(t, s.Validate())
			test.change(&s)
			assert.Error(t, s.Validate())
		})
	}
}
