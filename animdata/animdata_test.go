package animdata

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"badc0de.net/pkg/go-pmdanim/ttesting"
	"github.com/pkg/errors"
)

const animDataXML = `<?xml version="1.0" ?>
<AnimData>
	<ShadowSize>1</ShadowSize>
	<Anims>
		<Anim>
			<Name>Walk</Name>
			<Index>0</Index>
			<FrameWidth>32</FrameWidth>
			<FrameHeight>40</FrameHeight>
			<Durations>
				<Duration>8</Duration>
				<Duration>10</Duration>
				<Duration>6</Duration>
			</Durations>
		</Anim>
		<Anim>
			<Name>Idle</Name>
			<FrameWidth>24</FrameWidth>
			<FrameHeight>32</FrameHeight>
		</Anim>
		<Anim>
			<Name>Sleep</Name>
			<CopyOf>Walk</CopyOf>
		</Anim>
		<Anim>
			<Name>Broken</Name>
			<CopyOf>Nothing</CopyOf>
		</Anim>
	</Anims>
</AnimData>`

func TestParse(t *testing.T) {
	c, err := Parse(strings.NewReader(animDataXML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	ttesting.AssertEqualInt(t, "count", len(c.Animations), 3)

	walk := c.Lookup("Walk")
	if walk == nil {
		t.Fatal("Walk missing")
	}
	ttesting.AssertEqualInts(t, "walk durations", walk.Durations, []int{133, 167, 100})
	ttesting.AssertEqualInt(t, "walk frames", walk.TotalFrames, 3)
	ttesting.AssertEqualInt(t, "walk width", walk.FrameWidth, 32)
	ttesting.AssertEqualString(t, "walk sheet", walk.AnimFile, "Walk-Anim.png")
	ttesting.AssertEqualString(t, "walk shadow", walk.ShadowFile, "Walk-Shadow.png")

	idle := c.Lookup("Idle")
	ttesting.AssertEqualInt(t, "idle frames default", idle.TotalFrames, 1)
	ttesting.AssertEqualInt(t, "idle durations", len(idle.Durations), 0)

	sleep := c.Lookup("Sleep")
	if sleep == nil {
		t.Fatal("Sleep alias missing")
	}
	ttesting.AssertEqualString(t, "alias sheet", sleep.AnimFile, "Walk-Anim.png")
	ttesting.AssertEqualString(t, "alias of", sleep.CopyOf, "Walk")
	ttesting.AssertEqualInts(t, "alias durations", sleep.Durations, walk.Durations)
	ttesting.AssertEqualInt(t, "alias height", sleep.FrameHeight, 40)

	if c.Lookup("Broken") != nil {
		t.Error("broken alias should be skipped")
	}
}

func TestParseNoAnimations(t *testing.T) {
	_, err := Parse(strings.NewReader(`<AnimData><Anims></Anims></AnimData>`))
	if errors.Cause(err) != ErrNoAnimations {
		t.Errorf("got %v; want ErrNoAnimations", err)
	}
}

func TestParseFileMissing(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "AnimData.xml")); err == nil {
		t.Error("want error for missing file")
	}
}

func TestTicksToMillis(t *testing.T) {
	for ticks, want := range map[int]int{0: 0, 1: 17, 2: 33, 3: 50, 4: 67, 60: 1000} {
		ttesting.AssertEqualInt(t, fmt.Sprintf("%d ticks", ticks), TicksToMillis(ticks), want)
	}
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "Walk-Anim.png")
	ttesting.WriteSheet(t, p, 2, 4, 24, 32)

	g, err := Inspect(p, 24, 32)
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	ttesting.AssertEqualInt(t, "rows", g.Rows, 4)
	ttesting.AssertEqualInt(t, "columns", g.Columns, 2)
	ttesting.AssertEqualInt(t, "width", g.Width, 48)

	a := &Animation{TotalFrames: 3}
	ttesting.AssertEqualInt(t, "capped", a.FramesPerDirection(g), 2)
	a.TotalFrames = 1
	ttesting.AssertEqualInt(t, "declared", a.FramesPerDirection(g), 1)

	if _, err := Inspect(p, 0, 32); err == nil {
		t.Error("want error for zero frame width")
	}
	if _, err := Inspect(filepath.Join(dir, "nope.png"), 24, 32); err == nil {
		t.Error("want error for missing sheet")
	}
	if err := os.WriteFile(filepath.Join(dir, "bad.png"), []byte("not a png"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Inspect(filepath.Join(dir, "bad.png"), 24, 32); err == nil {
		t.Error("want error for corrupt sheet")
	}
}

func ExampleParse() {
	c, err := Parse(strings.NewReader(animDataXML))
	if err != nil {
		panic(err)
	}
	for _, a := range c.Animations {
		fmt.Println(a.Name, a.AnimFile, a.Durations)
	}
	// Output:
	// Walk Walk-Anim.png [133 167 100]
	// Idle Idle-Anim.png []
	// Sleep Walk-Anim.png [133 167 100]
}
