package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/pkg/errors"
)

// Magic opens every QOIF stream.
const Magic = "qoif"

// HeaderSize and FooterSize frame the chunk body.
const (
	HeaderSize = 14
	FooterSize = 8
)

// MaxPixels caps width*height. Keeps a hostile header from driving the
// decoder's up-front width*height*4 allocation.
const MaxPixels = 400_000_000

// footer is the end-of-stream marker: seven zero bytes then 0x01.
var footer = [FooterSize]byte{7: 0x01}

// Header describes a QOIF stream.
type Header struct {
	Width      uint32
	Height     uint32
	Channels   uint8 // 3 = RGB, 4 = RGBA
	Colorspace uint8 // 0 = sRGB with linear alpha, 1 = all channels linear
}

func (h Header) validate() error {
	if h.Channels != 3 && h.Channels != 4 {
		return errors.Wrapf(ErrInvalidHeader, "channels %d", h.Channels)
	}
	if h.Colorspace > 1 {
		return errors.Wrapf(ErrInvalidHeader, "colorspace %d", h.Colorspace)
	}
	if h.Width == 0 || h.Height == 0 {
		return errors.Wrapf(ErrInvalidHeader, "empty image %dx%d", h.Width, h.Height)
	}
	if uint64(h.Width)*uint64(h.Height) > MaxPixels {
		return errors.Wrapf(ErrTooLarge, "%dx%d", h.Width, h.Height)
	}
	return nil
}

// appendHeader packs h onto dst.
func appendHeader(dst []byte, h Header) []byte {
	dst = append(dst, Magic...)
	dst = binary.BigEndian.AppendUint32(dst, h.Width)
	dst = binary.BigEndian.AppendUint32(dst, h.Height)
	return append(dst, h.Channels, h.Colorspace)
}

// ParseHeader reads and validates the 14-byte header at the start of data.
func ParseHeader(data []byte) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, errors.Wrapf(ErrTruncated, "header needs %d bytes, have %d", HeaderSize, len(data))
	}
	if string(data[:4]) != Magic {
		return Header{}, errors.Wrapf(ErrBadMagic, "got % x", data[:4])
	}
	h := Header{
		Width:      binary.BigEndian.Uint32(data[4:8]),
		Height:     binary.BigEndian.Uint32(data[8:12]),
		Channels:   data[12],
		Colorspace: data[13],
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	return h, nil
}

// CheckFooter verifies that data ends with the 8-byte end-of-stream marker.
func CheckFooter(data []byte) error {
	if len(data) < FooterSize {
		return errors.Wrap(ErrTruncated, "no room for end-of-stream marker")
	}
	if tail := data[len(data)-FooterSize:]; !bytes.Equal(tail, footer[:]) {
		return errors.Wrapf(ErrBadFooter, "got % x", tail)
	}
	return nil
}
