package codec

import "github.com/pkg/errors"

// Raster is a decoded image. Pix is always 4-channel RGBA in row-major
// order; Channels and Colorspace echo the stream header.
type Raster struct {
	Width, Height int
	Channels      uint8
	Colorspace    uint8
	Pix           []byte
}

// applyChunk materializes c into a pixel value given the previous pixel and
// the palette. RUN chunks repeat the previous pixel; the caller handles the
// repetition count.
func applyChunk(c Chunk, prev Pixel, palette *Palette) Pixel {
	switch c.Op {
	case OpRGB:
		return Pixel{c.R, c.G, c.B, prev.A}
	case OpRGBA:
		return Pixel{c.R, c.G, c.B, c.A}
	case OpIndex:
		return palette[c.Index]
	case OpDiff:
		return Pixel{
			prev.R + uint8(c.DR),
			prev.G + uint8(c.DG),
			prev.B + uint8(c.DB),
			prev.A,
		}
	case OpLuma:
		dg := uint8(c.DiffG)
		return Pixel{
			prev.R + uint8(c.DRDG) + dg,
			prev.G + dg,
			prev.B + uint8(c.DBDG) + dg,
			prev.A,
		}
	default: // OpRun
		return prev
	}
}

// Decode reconstructs the raster from a complete QOIF stream. It parses
// chunks until exactly Width*Height pixels are produced, then requires the
// remaining bytes to be exactly the end-of-stream marker.
func Decode(data []byte) (*Raster, error) {
	h, err := ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < HeaderSize+FooterSize {
		return nil, errors.Wrapf(ErrTruncated, "stream is %d bytes, minimum %d",
			len(data), HeaderSize+FooterSize)
	}
	body := data[HeaderSize : len(data)-FooterSize]

	total := int(h.Width) * int(h.Height)
	out := make([]byte, total*4)

	prev := previousInit
	var palette Palette
	pos, n := 0, 0
	for n < total {
		if pos >= len(body) {
			return nil, errors.Wrapf(ErrTruncated, "stream ends after %d of %d pixels", n, total)
		}
		chunk, size, err := ParseChunk(body, pos)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk at byte %d", HeaderSize+pos)
		}
		pos += size

		if chunk.Op == OpRun && n+chunk.Run > total {
			return nil, errors.Wrapf(ErrPixelOverflow, "run of %d at pixel %d of %d", chunk.Run, n, total)
		}
		cur := applyChunk(chunk, prev, &palette)
		for i := 0; i < chunk.Pixels(); i++ {
			o := n * 4
			out[o], out[o+1], out[o+2], out[o+3] = cur.R, cur.G, cur.B, cur.A
			n++
		}
		palette[cur.Hash()] = cur
		prev = cur
	}

	if pos != len(body) {
		return nil, errors.Wrapf(ErrBadFooter, "%d trailing bytes before end-of-stream marker", len(body)-pos)
	}
	if err := CheckFooter(data); err != nil {
		return nil, err
	}

	return &Raster{
		Width:      int(h.Width),
		Height:     int(h.Height),
		Channels:   h.Channels,
		Colorspace: h.Colorspace,
		Pix:        out,
	}, nil
}
