package codec

import "github.com/pkg/errors"

// MaxEncodedSize returns the worst-case stream size for an image: header,
// end-of-stream marker, and channels+1 bytes per pixel (the full-color chunk
// for that channel count). A buffer this large never reallocates during
// encoding.
func MaxEncodedSize(width, height, channels int) int {
	return HeaderSize + FooterSize + width*height*(channels+1)
}

// selectChunk decides the encoding for the pixel at pos, following the fixed
// precedence RUN, INDEX, DIFF, LUMA, RGBA, RGB. First match wins; the
// encoded stream is byte-for-byte reproducible only if every encoder agrees
// on this order. Returns the chunk and how many input pixels it covers. The palette
// is read, never written; the driver installs the pixel afterwards.
func selectChunk(pix []Pixel, pos int, prev Pixel, palette *Palette, channels uint8) (Chunk, int) {
	cur := pix[pos]
	if cur == prev {
		n := 1
		for n < MaxRun && pos+n < len(pix) && pix[pos+n] == cur {
			n++
		}
		return Chunk{Op: OpRun, Run: n}, n
	}
	if slot := cur.Hash(); palette[slot] == cur {
		return Chunk{Op: OpIndex, Index: slot}, 1
	}
	// Deltas wrap at 256 and are then read as signed; a gradient crossing
	// the 0/255 boundary still lands in range.
	dr := int8(cur.R - prev.R)
	dg := int8(cur.G - prev.G)
	db := int8(cur.B - prev.B)
	if cur.A == prev.A {
		if dr >= -2 && dr <= 1 && dg >= -2 && dg <= 1 && db >= -2 && db <= 1 {
			return Chunk{Op: OpDiff, DR: dr, DG: dg, DB: db}, 1
		}
		drdg := dr - dg
		dbdg := db - dg
		if dg >= -32 && dg <= 31 && drdg >= -8 && drdg <= 7 && dbdg >= -8 && dbdg <= 7 {
			return Chunk{Op: OpLuma, DiffG: dg, DRDG: drdg, DBDG: dbdg}, 1
		}
	}
	if channels == 4 && cur.A != prev.A {
		return Chunk{Op: OpRGBA, R: cur.R, G: cur.G, B: cur.B, A: cur.A}, 1
	}
	return Chunk{Op: OpRGB, R: cur.R, G: cur.G, B: cur.B}, 1
}

// validateEncodeArgs checks the encoder's inputs and builds the stream
// header. pixels must hold width*height samples of the given channel count.
func validateEncodeArgs(pixels []byte, width, height int, channels, colorspace uint8) (Header, error) {
	if width <= 0 || height <= 0 {
		return Header{}, errors.Errorf("qoif: invalid dimensions %dx%d", width, height)
	}
	h := Header{
		Width:      uint32(width),
		Height:     uint32(height),
		Channels:   channels,
		Colorspace: colorspace,
	}
	if err := h.validate(); err != nil {
		return Header{}, err
	}
	if want := width * height * int(channels); len(pixels) != want {
		return Header{}, errors.Errorf("qoif: pixel buffer is %d bytes, want %d for %dx%d with %d channels",
			len(pixels), want, width, height, channels)
	}
	return h, nil
}

// AppendEncode encodes pixels as a complete QOIF stream appended to dst and
// returns the extended slice. Pass a buffer with MaxEncodedSize capacity to
// avoid reallocation. Encoding cannot fail once the arguments validate.
func AppendEncode(dst, pixels []byte, width, height int, channels, colorspace uint8) ([]byte, error) {
	h, err := validateEncodeArgs(pixels, width, height, channels, colorspace)
	if err != nil {
		return nil, err
	}

	pix := expandPixels(pixels, channels)
	dst = appendHeader(dst, h)

	prev := previousInit
	var palette Palette
	for pos := 0; pos < len(pix); {
		chunk, n := selectChunk(pix, pos, prev, &palette, channels)
		dst = appendChunk(dst, chunk)
		// All pixels of a run are identical, so installing the last one
		// covers the whole chunk.
		cur := pix[pos+n-1]
		palette[cur.Hash()] = cur
		prev = cur
		pos += n
	}
	return append(dst, footer[:]...), nil
}

// Encode is AppendEncode into a fresh worst-case buffer.
func Encode(pixels []byte, width, height int, channels, colorspace uint8) ([]byte, error) {
	if _, err := validateEncodeArgs(pixels, width, height, channels, colorspace); err != nil {
		return nil, err
	}
	buf := make([]byte, 0, MaxEncodedSize(width, height, int(channels)))
	return AppendEncode(buf, pixels, width, height, channels, colorspace)
}
