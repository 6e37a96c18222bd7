package codec

import (
	"testing"

	qt "github.com/frankban/quicktest"
)

func TestApplyChunk(t *testing.T) {
	c := qt.New(t)

	prev := Pixel{100, 150, 200, 64}
	var palette Palette
	palette[5] = Pixel{1, 2, 3, 4}

	tests := []struct {
		name  string
		chunk Chunk
		want  Pixel
	}{
		{"rgb_keeps_alpha", Chunk{Op: OpRGB, R: 9, G: 8, B: 7}, Pixel{9, 8, 7, 64}},
		{"rgba", Chunk{Op: OpRGBA, R: 9, G: 8, B: 7, A: 6}, Pixel{9, 8, 7, 6}},
		{"index", Chunk{Op: OpIndex, Index: 5}, Pixel{1, 2, 3, 4}},
		{"diff", Chunk{Op: OpDiff, DR: 1, DG: -2, DB: 0}, Pixel{101, 148, 200, 64}},
		{"luma", Chunk{Op: OpLuma, DiffG: 10, DRDG: -3, DBDG: 4}, Pixel{107, 160, 214, 64}},
		{"run_repeats_prev", Chunk{Op: OpRun, Run: 3}, prev},
	}
	for _, tt := range tests {
		c.Run(tt.name, func(c *qt.C) {
			c.Assert(applyChunk(tt.chunk, prev, &palette), qt.Equals, tt.want)
		})
	}
}

func TestApplyChunkWraparound(t *testing.T) {
	c := qt.New(t)

	prev := Pixel{255, 0, 254, 255}
	var palette Palette

	got := applyChunk(Chunk{Op: OpDiff, DR: 1, DG: -2, DB: 1}, prev, &palette)
	c.Assert(got, qt.Equals, Pixel{0, 254, 255, 255})

	// R: 255+38 wraps to 37; B: 254+23 wraps to 21.
	got = applyChunk(Chunk{Op: OpLuma, DiffG: 31, DRDG: 7, DBDG: -8}, prev, &palette)
	c.Assert(got, qt.Equals, Pixel{37, 31, 21, 255})
}

func mustEncode(c *qt.C, raw []byte, w, h int, channels, colorspace uint8) []byte {
	c.Helper()
	out, err := Encode(raw, w, h, channels, colorspace)
	c.Assert(err, qt.IsNil)
	return out
}

func TestDecodeRoundTrip(t *testing.T) {
	c := qt.New(t)

	pix := []Pixel{
		{0, 0, 0, 255}, {10, 20, 30, 255}, {11, 21, 31, 255},
		{11, 21, 31, 255}, {11, 21, 31, 128}, {250, 3, 9, 128},
	}
	raw := rgbaBytes(pix...)
	data := mustEncode(c, raw, 3, 2, 4, 1)

	ras, err := Decode(data)
	c.Assert(err, qt.IsNil)
	c.Assert(ras.Width, qt.Equals, 3)
	c.Assert(ras.Height, qt.Equals, 2)
	c.Assert(ras.Channels, qt.Equals, uint8(4))
	c.Assert(ras.Colorspace, qt.Equals, uint8(1))
	c.Assert(ras.Pix, qt.DeepEquals, raw)
}

func TestDecodeThreeChannelExpandsAlpha(t *testing.T) {
	c := qt.New(t)

	raw := []byte{10, 20, 30, 200, 100, 50}
	data := mustEncode(c, raw, 2, 1, 3, 0)

	ras, err := Decode(data)
	c.Assert(err, qt.IsNil)
	c.Assert(ras.Channels, qt.Equals, uint8(3))
	c.Assert(ras.Pix, qt.DeepEquals, []byte{10, 20, 30, 255, 200, 100, 50, 255})
}

func TestDecodeBadMagic(t *testing.T) {
	c := qt.New(t)

	data := mustEncode(c, []byte{0, 0, 0, 255}, 1, 1, 4, 0)
	data[0] = 'Q'
	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrBadMagic)
}

func TestDecodeShortHeader(t *testing.T) {
	c := qt.New(t)

	_, err := Decode([]byte("qoif"))
	c.Assert(err, qt.ErrorIs, ErrTruncated)
}

func TestDecodeInvalidHeader(t *testing.T) {
	c := qt.New(t)

	data := mustEncode(c, []byte{0, 0, 0, 255}, 1, 1, 4, 0)

	bad := append([]byte(nil), data...)
	bad[12] = 5 // channels
	_, err := Decode(bad)
	c.Assert(err, qt.ErrorIs, ErrInvalidHeader)

	bad = append([]byte(nil), data...)
	bad[13] = 9 // colorspace
	_, err = Decode(bad)
	c.Assert(err, qt.ErrorIs, ErrInvalidHeader)
}

func TestDecodeTooLarge(t *testing.T) {
	c := qt.New(t)

	data := mustEncode(c, []byte{0, 0, 0, 255}, 1, 1, 4, 0)
	// Forge dimensions beyond the pixel cap.
	for i := 4; i < 12; i++ {
		data[i] = 0xff
	}
	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrTooLarge)
}

func TestDecodeChunkIntoFooter(t *testing.T) {
	c := qt.New(t)

	// Header for 1x1, then an RGB tag whose payload would have to come from
	// the footer region.
	data := appendHeader(nil, Header{Width: 1, Height: 1, Channels: 4, Colorspace: 0})
	data = append(data, tagRGB)
	data = append(data, footer[:]...)

	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrTruncated)
}

func TestDecodeBodyExhausted(t *testing.T) {
	c := qt.New(t)

	// Header promises 2 pixels but the body covers only 1.
	data := appendHeader(nil, Header{Width: 2, Height: 1, Channels: 4, Colorspace: 0})
	data = append(data, prefixRun) // run of 1
	data = append(data, footer[:]...)

	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrTruncated)
}

func TestDecodePixelOverflow(t *testing.T) {
	c := qt.New(t)

	// A run of 62 against a 1x1 image.
	data := appendHeader(nil, Header{Width: 1, Height: 1, Channels: 4, Colorspace: 0})
	data = append(data, prefixRun|0x3d)
	data = append(data, footer[:]...)

	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrPixelOverflow)
}

func TestDecodeTrailingBytes(t *testing.T) {
	c := qt.New(t)

	// All pixels produced but an extra chunk byte sits before the marker.
	data := appendHeader(nil, Header{Width: 1, Height: 1, Channels: 4, Colorspace: 0})
	data = append(data, prefixRun, prefixRun)
	data = append(data, footer[:]...)

	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrBadFooter)
}

func TestDecodeBadFooterBytes(t *testing.T) {
	c := qt.New(t)

	data := mustEncode(c, []byte{0, 0, 0, 255}, 1, 1, 4, 0)
	data[len(data)-1] = 0x02
	_, err := Decode(data)
	c.Assert(err, qt.ErrorIs, ErrBadFooter)
}

func TestDecodeFirstPixelRules(t *testing.T) {
	c := qt.New(t)

	// A black opaque first pixel matches the initial previous-pixel register
	// and encodes as a RUN.
	data := mustEncode(c, []byte{0, 0, 0, 255}, 1, 1, 4, 0)
	c.Assert(data[HeaderSize], qt.Equals, uint8(prefixRun))

	// A transparent black first pixel matches palette slot 0's initial
	// contents and encodes as an INDEX.
	data = mustEncode(c, []byte{0, 0, 0, 0}, 1, 1, 4, 0)
	c.Assert(data[HeaderSize], qt.Equals, uint8(prefixIndex))

	ras, err := Decode(data)
	c.Assert(err, qt.IsNil)
	c.Assert(ras.Pix, qt.DeepEquals, []byte{0, 0, 0, 0})
}
