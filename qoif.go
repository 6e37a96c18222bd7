package qoif

import (
	"image"
	"image/color"
	"io"

	"github.com/pkg/errors"

	"github.com/deepteams/qoif/internal/codec"
)

func init() {
	image.RegisterFormat("qoif", codec.Magic, Decode, DecodeConfig)
}

// Errors returned by the decoder, re-exported for errors.Is checks.
var (
	ErrBadMagic      = codec.ErrBadMagic
	ErrTruncated     = codec.ErrTruncated
	ErrBadFooter     = codec.ErrBadFooter
	ErrPixelOverflow = codec.ErrPixelOverflow
	ErrInvalidHeader = codec.ErrInvalidHeader
	ErrTooLarge      = codec.ErrTooLarge
)

// MaxPixels is the largest width*height either side of the codec accepts.
const MaxPixels = codec.MaxPixels

// Features describes a QOIF stream's header fields, as returned by
// [GetFeatures].
type Features struct {
	Width      int // Image width in pixels.
	Height     int // Image height in pixels.
	Channels   int // 3 (RGB) or 4 (RGBA). Informational: decoded output is always RGBA.
	Colorspace int // 0 = sRGB with linear alpha, 1 = all channels linear. Informational.
}

// Raster is a decoded image as raw samples. Pix always holds 4-channel RGBA
// in row-major order, regardless of Channels, which echoes the stream header.
type Raster struct {
	Width      int
	Height     int
	Channels   int
	Colorspace int
	Pix        []byte
}

// readAll reads all data from r. If r implements Len() int (e.g.
// *bytes.Reader), a single exact-sized allocation is used instead of
// the repeated doublings that io.ReadAll performs.
func readAll(r io.Reader) ([]byte, error) {
	if lr, ok := r.(interface{ Len() int }); ok {
		n := lr.Len()
		if n > 0 {
			data := make([]byte, n)
			_, err := io.ReadFull(r, data)
			return data, err
		}
	}
	return io.ReadAll(r)
}

// DecodeRaw decodes a complete QOIF stream held in b.
func DecodeRaw(b []byte) (*Raster, error) {
	ras, err := codec.Decode(b)
	if err != nil {
		return nil, err
	}
	return &Raster{
		Width:      ras.Width,
		Height:     ras.Height,
		Channels:   int(ras.Channels),
		Colorspace: int(ras.Colorspace),
		Pix:        ras.Pix,
	}, nil
}

// Decode reads a QOIF image from r and returns it as an *image.NRGBA.
func Decode(r io.Reader) (image.Image, error) {
	data, err := readAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "qoif: reading data")
	}
	ras, err := codec.Decode(data)
	if err != nil {
		return nil, err
	}
	img := image.NewNRGBA(image.Rect(0, 0, ras.Width, ras.Height))
	copy(img.Pix, ras.Pix)
	return img, nil
}

// DecodeConfig returns the color model and dimensions of a QOIF image
// without decoding the pixel data.
func DecodeConfig(r io.Reader) (image.Config, error) {
	var buf [codec.HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return image.Config{}, errors.Wrap(err, "qoif: reading header")
	}
	h, err := codec.ParseHeader(buf[:])
	if err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      int(h.Width),
		Height:     int(h.Height),
	}, nil
}

// GetFeatures reads QOIF header features (dimensions, channel count,
// colorspace) without decoding pixel data, making it much cheaper than a
// full [Decode].
func GetFeatures(r io.Reader) (*Features, error) {
	var buf [codec.HeaderSize]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return nil, errors.Wrap(err, "qoif: reading header")
	}
	h, err := codec.ParseHeader(buf[:])
	if err != nil {
		return nil, err
	}
	return &Features{
		Width:      int(h.Width),
		Height:     int(h.Height),
		Channels:   int(h.Channels),
		Colorspace: int(h.Colorspace),
	}, nil
}
