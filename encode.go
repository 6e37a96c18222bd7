package qoif

import (
	"image"
	"image/draw"
	"io"

	"github.com/pkg/errors"

	"github.com/deepteams/qoif/internal/codec"
	"github.com/deepteams/qoif/internal/pool"
)

// Colorspace values for the header's informational byte.
const (
	ColorspaceSRGB   = 0 // sRGB with linear alpha
	ColorspaceLinear = 1 // all channels linear
)

// EncoderOptions controls QOIF encoding parameters.
type EncoderOptions struct {
	// Channels selects the header channel count: 3 (RGB) or 4 (RGBA).
	// 0 (default) picks 4 when the image has any non-opaque pixel and 3
	// otherwise. Forcing 3 on a non-opaque image discards the alpha channel.
	Channels int

	// Colorspace is the informational colorspace byte: ColorspaceSRGB
	// (default) or ColorspaceLinear. Decoders carry it through without
	// interpreting it.
	Colorspace int
}

// DefaultOptions returns encoding options with automatic channel selection
// and the sRGB colorspace tag.
func DefaultOptions() *EncoderOptions {
	return &EncoderOptions{}
}

// validateOptions rejects option values outside the format's ranges.
func validateOptions(opts *EncoderOptions) error {
	if opts.Channels != 0 && opts.Channels != 3 && opts.Channels != 4 {
		return errors.Errorf("qoif: invalid Channels %d (must be 0, 3 or 4)", opts.Channels)
	}
	if opts.Colorspace != ColorspaceSRGB && opts.Colorspace != ColorspaceLinear {
		return errors.Errorf("qoif: invalid Colorspace %d (must be 0 or 1)", opts.Colorspace)
	}
	return nil
}

// EncodeRaw encodes a raw sample buffer as a complete QOIF stream.
// pixels must hold width*height samples of the given channel count (3 or 4),
// row-major. Three-channel input is treated as fully opaque.
func EncodeRaw(pixels []byte, width, height int, channels, colorspace uint8) ([]byte, error) {
	return codec.Encode(pixels, width, height, channels, colorspace)
}

// Encode writes the image img to w in QOIF format.
// If opts is nil, DefaultOptions() is used.
func Encode(w io.Writer, img image.Image, opts *EncoderOptions) error {
	if opts == nil {
		opts = DefaultOptions()
	}
	if err := validateOptions(opts); err != nil {
		return err
	}

	nrgba := toNRGBA(img)
	width, height := nrgba.Rect.Dx(), nrgba.Rect.Dy()

	channels := opts.Channels
	if channels == 0 {
		channels = 3
		if !nrgba.Opaque() {
			channels = 4
		}
	}
	raw := nrgba.Pix
	if channels == 3 {
		raw = dropAlpha(raw)
	}

	buf := pool.Get(codec.MaxEncodedSize(width, height, channels))
	defer pool.Put(buf)

	out, err := codec.AppendEncode(buf[:0], raw, width, height, uint8(channels), uint8(opts.Colorspace))
	if err != nil {
		return err
	}
	if _, err := w.Write(out); err != nil {
		return errors.Wrap(err, "qoif: writing stream")
	}
	return nil
}

// toNRGBA returns img as a zero-origin *image.NRGBA with a tightly packed
// Pix buffer, copying only when needed.
func toNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok &&
		n.Rect.Min == (image.Point{}) && n.Stride == 4*n.Rect.Dx() {
		return n
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst
}

// dropAlpha repacks RGBA samples as RGB.
func dropAlpha(rgba []byte) []byte {
	rgb := make([]byte, len(rgba)/4*3)
	for i, o := 0, 0; i < len(rgba); i, o = i+4, o+3 {
		rgb[o], rgb[o+1], rgb[o+2] = rgba[i], rgba[i+1], rgba[i+2]
	}
	return rgb
}
