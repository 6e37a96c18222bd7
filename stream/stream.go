// Package stream inspects QOIF byte streams at the chunk level.
//
// Scan walks every chunk of a stream without materializing pixels, which is
// enough to report header fields, per-op chunk counts, and structural
// problems. Validate additionally checks the end-of-stream marker.
package stream

import (
	"github.com/pkg/errors"

	"github.com/deepteams/qoif/internal/codec"
)

// Op identifies a chunk kind in Stats. Values match the codec's ops.
type Op = codec.Op

const (
	OpRGB   = codec.OpRGB
	OpRGBA  = codec.OpRGBA
	OpIndex = codec.OpIndex
	OpDiff  = codec.OpDiff
	OpLuma  = codec.OpLuma
	OpRun   = codec.OpRun
)

// Stats summarizes a scanned stream.
type Stats struct {
	Width      int
	Height     int
	Channels   int
	Colorspace int

	// BodyBytes counts the chunk bytes between header and end-of-stream
	// marker; Pixels equals Width*Height on success.
	BodyBytes int
	Chunks    int
	Pixels    int

	// Ops and OpPixels count chunks and emitted pixels per op, indexed by Op.
	Ops      [codec.NumOps]int
	OpPixels [codec.NumOps]int
}

// Scan walks every chunk in data and returns stream statistics. The stream
// must be structurally complete: header, a chunk body covering exactly
// Width*Height pixels, and room for the end-of-stream marker. The marker's
// bytes themselves are not inspected; use Validate for that.
func Scan(data []byte) (*Stats, error) {
	h, err := codec.ParseHeader(data)
	if err != nil {
		return nil, err
	}
	if len(data) < codec.HeaderSize+codec.FooterSize {
		return nil, errors.Wrapf(codec.ErrTruncated, "stream is %d bytes, minimum %d",
			len(data), codec.HeaderSize+codec.FooterSize)
	}
	body := data[codec.HeaderSize : len(data)-codec.FooterSize]

	st := &Stats{
		Width:      int(h.Width),
		Height:     int(h.Height),
		Channels:   int(h.Channels),
		Colorspace: int(h.Colorspace),
		BodyBytes:  len(body),
	}
	total := st.Width * st.Height

	pos := 0
	for st.Pixels < total {
		if pos >= len(body) {
			return nil, errors.Wrapf(codec.ErrTruncated, "stream ends after %d of %d pixels", st.Pixels, total)
		}
		c, size, err := codec.ParseChunk(body, pos)
		if err != nil {
			return nil, errors.Wrapf(err, "chunk %d at byte %d", st.Chunks, codec.HeaderSize+pos)
		}
		pos += size

		px := c.Pixels()
		if st.Pixels+px > total {
			return nil, errors.Wrapf(codec.ErrPixelOverflow, "chunk %d emits %d pixels past %d", st.Chunks, px, total)
		}
		st.Chunks++
		st.Ops[c.Op]++
		st.OpPixels[c.Op] += px
		st.Pixels += px
	}
	if pos != len(body) {
		return nil, errors.Wrapf(codec.ErrBadFooter, "%d trailing bytes before end-of-stream marker", len(body)-pos)
	}
	return st, nil
}

// Validate performs a full structural check of a QOIF stream, including the
// end-of-stream marker bytes.
func Validate(data []byte) error {
	if _, err := Scan(data); err != nil {
		return err
	}
	return codec.CheckFooter(data)
}
