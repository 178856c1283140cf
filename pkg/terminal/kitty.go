package terminal

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"io"
	"net/url"

	// Register the decoders for the formats commonly referenced from
	// markdown documents.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"

	"github.com/yaklabco/mdterm/pkg/resources"
)

// KittyImages renders inline images with the kitty graphics protocol.
// The payload travels base64-encoded in 4096 byte chunks inside APC _G
// sequences; see the protocol's control data reference.
type KittyImages struct{}

func (KittyImages) Name() string { return "kitty" }

const kittyChunkSize = 4096

func (k KittyImages) RenderImage(w io.Writer, target *url.URL, size Size, access resources.Access) error {
	if size.Pixels == nil {
		return fmt.Errorf("kitty: terminal pixel size not available")
	}
	contents, err := resources.Read(target, access)
	if err != nil {
		return err
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(contents))
	if err != nil {
		return fmt.Errorf("kitty: decode image from %s: %w", target, err)
	}

	// PNG data that already fits the window can be transmitted verbatim.
	if format == "png" && size.Pixels.Contains(PixelSize{X: cfg.Width, Y: cfg.Height}) {
		return k.writeChunked(w, contents, "f=100")
	}

	img, _, err := image.Decode(bytes.NewReader(contents))
	if err != nil {
		return fmt.Errorf("kitty: decode image from %s: %w", target, err)
	}
	rgba, px := scaleToFit(img, *size.Pixels)
	return k.writeChunked(w, rgba.Pix, "f=32", fmt.Sprintf("s=%d", px.X), fmt.Sprintf("v=%d", px.Y))
}

// writeChunked transmits the payload in 4096 byte base64 chunks. Every
// chunk but the last carries m=1.
func (KittyImages) writeChunked(w io.Writer, payload []byte, control ...string) error {
	encoded := base64.StdEncoding.EncodeToString(payload)
	header := append([]string{"a=T", "t=d"}, control...)
	first := true
	for len(encoded) > 0 {
		chunk := encoded
		if len(chunk) > kittyChunkSize {
			chunk = chunk[:kittyChunkSize]
		}
		encoded = encoded[len(chunk):]

		var cmd bytes.Buffer
		cmd.WriteString("\x1b_G")
		if first {
			for i, kv := range header {
				if i > 0 {
					cmd.WriteByte(',')
				}
				cmd.WriteString(kv)
			}
			cmd.WriteByte(',')
			first = false
		}
		if len(encoded) > 0 {
			cmd.WriteString("m=1")
		} else {
			cmd.WriteString("m=0")
		}
		cmd.WriteByte(';')
		cmd.WriteString(chunk)
		cmd.WriteString("\x1b\\")
		if _, err := w.Write(cmd.Bytes()); err != nil {
			return err
		}
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// scaleToFit converts img to RGBA, downscaling it to bounds if it exceeds
// them in either dimension while preserving the aspect ratio.
func scaleToFit(img image.Image, bounds PixelSize) (*image.RGBA, PixelSize) {
	b := img.Bounds()
	width, height := b.Dx(), b.Dy()
	if width > bounds.X || height > bounds.Y {
		scaleX := float64(bounds.X) / float64(width)
		scaleY := float64(bounds.Y) / float64(height)
		scale := scaleX
		if scaleY < scale {
			scale = scaleY
		}
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
		if width < 1 {
			width = 1
		}
		if height < 1 {
			height = 1
		}
	}
	rgba := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.ApproxBiLinear.Scale(rgba, rgba.Bounds(), img, b, draw.Over, nil)
	return rgba, PixelSize{X: width, Y: height}
}
