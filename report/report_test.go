package report

import (
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"badc0de.net/pkg/go-pmdanim/ttesting"
)

func TestSheetURL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "body.png")
	ttesting.WriteImage(t, path, image.NewNRGBA(image.Rect(0, 0, 2, 2)))

	u, err := SheetURL(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(u), "data:image/png;base64,"), "got %.40s", u)

	_, err = SheetURL(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	entries := []Entry{
		{Variant: "0025 - Pikachu", Dir: "0025 - Pikachu", Frames: 12, Reused: 4, Records: 20, Sheet: "data:image/png;base64,AAAA"},
		{Variant: "0133 - Eevee <b>", Dir: "0133 - Eevee", Err: "no animation could be mapped"},
	}
	require.NoError(t, Write(path, "all-variants", entries))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	html := string(b)
	assert.Contains(t, html, "<title>all-variants</title>")
	assert.Contains(t, html, "1 converted, 1 failed.")
	assert.Contains(t, html, `src="data:image/png;base64,AAAA"`)
	assert.Contains(t, html, "no animation could be mapped")
	assert.Contains(t, html, "0133 - Eevee &lt;b&gt;")
}
