package terminal_test

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/mdterm/pkg/resources"
	"github.com/yaklabco/mdterm/pkg/terminal"
)

// pngFile writes a PNG of the given dimensions to a temp file and returns
// its file URL. Noisy pixels keep the file from compressing away when a
// test needs a large payload.
func pngFile(t *testing.T, width, height int, noisy bool) (*url.URL, []byte) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	rng := rand.New(rand.NewSource(42))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			c := color.RGBA{R: 20, G: 40, B: 60, A: 255}
			if noisy {
				c = color.RGBA{
					R: uint8(rng.Intn(256)),
					G: uint8(rng.Intn(256)),
					B: uint8(rng.Intn(256)),
					A: 255,
				}
			}
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))

	path := filepath.Join(t.TempDir(), "img.png")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
	return &url.URL{Scheme: "file", Path: path}, buf.Bytes()
}

func TestKittyNeedsPixelSize(t *testing.T) {
	t.Parallel()

	target, _ := pngFile(t, 1, 1, false)
	var buf bytes.Buffer
	err := terminal.KittyImages{}.RenderImage(&buf, target,
		terminal.Size{Columns: 80, Rows: 24}, resources.LocalOnly)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}

func TestKittyTransmitsFittingPNGVerbatim(t *testing.T) {
	t.Parallel()

	target, contents := pngFile(t, 2, 2, false)
	size := terminal.Size{
		Columns: 80, Rows: 24,
		Pixels: &terminal.PixelSize{X: 1000, Y: 1000},
	}

	var buf bytes.Buffer
	require.NoError(t, terminal.KittyImages{}.RenderImage(&buf, target, size, resources.LocalOnly))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "\x1b_Ga=T,t=d,f=100,m=0;"), "got %q", out)
	assert.Contains(t, out, base64.StdEncoding.EncodeToString(contents))
	assert.True(t, strings.HasSuffix(out, "\x1b\\\n"))
}

func TestKittyScalesOversizedImage(t *testing.T) {
	t.Parallel()

	target, _ := pngFile(t, 10, 10, false)
	size := terminal.Size{
		Columns: 80, Rows: 24,
		Pixels: &terminal.PixelSize{X: 5, Y: 5},
	}

	var buf bytes.Buffer
	require.NoError(t, terminal.KittyImages{}.RenderImage(&buf, target, size, resources.LocalOnly))

	out := buf.String()
	assert.Contains(t, out, "f=32")
	assert.Contains(t, out, "s=5")
	assert.Contains(t, out, "v=5")
}

func TestKittyChunksLargePayload(t *testing.T) {
	t.Parallel()

	// Incompressible pixels make the PNG far exceed one 4096 byte chunk.
	target, _ := pngFile(t, 60, 60, true)
	size := terminal.Size{
		Columns: 80, Rows: 24,
		Pixels: &terminal.PixelSize{X: 1000, Y: 1000},
	}

	var buf bytes.Buffer
	require.NoError(t, terminal.KittyImages{}.RenderImage(&buf, target, size, resources.LocalOnly))

	out := buf.String()
	assert.GreaterOrEqual(t, strings.Count(out, "\x1b_G"), 2)
	assert.Contains(t, out, "m=1;")
	assert.Equal(t, 1, strings.Count(out, "m=0;"), "exactly one final chunk")
}

func TestITerm2InlineFile(t *testing.T) {
	t.Parallel()

	target, contents := pngFile(t, 1, 1, false)
	var buf bytes.Buffer
	require.NoError(t, terminal.ITerm2Images{}.RenderImage(&buf, target,
		terminal.DefaultSize(), resources.LocalOnly))

	want := fmt.Sprintf("\x1b]1337;File=name=%s;size=%d;inline=1:%s\a\n",
		base64.StdEncoding.EncodeToString([]byte("img.png")),
		len(contents),
		base64.StdEncoding.EncodeToString(contents))
	assert.Equal(t, want, buf.String())
}

func TestITerm2DeniesRemoteUnderLocalPolicy(t *testing.T) {
	t.Parallel()

	target, err := url.Parse("https://example.com/img.png")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = terminal.ITerm2Images{}.RenderImage(&buf, target,
		terminal.DefaultSize(), resources.LocalOnly)

	var accessErr *resources.AccessError
	require.ErrorAs(t, err, &accessErr)
	assert.Empty(t, buf.String())
}

func TestTerminologyDrawsCellRectangle(t *testing.T) {
	t.Parallel()

	target, _ := pngFile(t, 1, 1, false)
	size := terminal.Size{Columns: 4, Rows: 10}

	var buf bytes.Buffer
	require.NoError(t, terminal.TerminologyImages{}.RenderImage(&buf, target, size, resources.LocalOnly))

	out := buf.String()
	// 1:1 image proportions over half the columns give two cell lines.
	assert.Contains(t, out, fmt.Sprintf("\x1b}ic#4;2;%s\x00", target.Path))
	assert.Equal(t, 2, strings.Count(out, "\x1b}ib\x00####\x1b}ie\x00\n"))
}

func TestTerminologyDeniesRemoteUnderLocalPolicy(t *testing.T) {
	t.Parallel()

	target, err := url.Parse("https://example.com/img.png")
	require.NoError(t, err)

	var buf bytes.Buffer
	err = terminal.TerminologyImages{}.RenderImage(&buf, target,
		terminal.DefaultSize(), resources.LocalOnly)
	assert.Error(t, err)
	assert.Empty(t, buf.String())
}
