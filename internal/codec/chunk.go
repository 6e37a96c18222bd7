package codec

// Op identifies one of the six chunk encodings.
type Op uint8

const (
	OpRGB Op = iota
	OpRGBA
	OpIndex
	OpDiff
	OpLuma
	OpRun

	// NumOps is the number of chunk kinds, for op-indexed tables.
	NumOps = 6
)

// String returns the conventional name of the op.
func (op Op) String() string {
	switch op {
	case OpRGB:
		return "RGB"
	case OpRGBA:
		return "RGBA"
	case OpIndex:
		return "INDEX"
	case OpDiff:
		return "DIFF"
	case OpLuma:
		return "LUMA"
	case OpRun:
		return "RUN"
	}
	return "UNKNOWN"
}

// One-byte tags and two-bit prefixes from the wire format.
const (
	tagRGB  = 0xfe
	tagRGBA = 0xff

	prefixIndex = 0x00
	prefixDiff  = 0x40
	prefixLuma  = 0x80
	prefixRun   = 0xc0
)

// MaxRun is the longest run a single RUN chunk can carry. The biased run
// values 62 and 63 would collide with the RGB/RGBA tags, so 62 is the cap.
const MaxRun = 62

// Chunk is one parsed or selected chunk. Op discriminates which of the
// remaining fields are meaningful.
type Chunk struct {
	Op Op

	// R, G, B, A carry the literal channels of an RGB or RGBA chunk.
	R, G, B, A uint8

	// Index is an INDEX chunk's palette slot, 0..63.
	Index uint8

	// DR, DG, DB are a DIFF chunk's channel deltas, each in -2..1.
	DR, DG, DB int8

	// DiffG (-32..31), DRDG and DBDG (-8..7) are a LUMA chunk's deltas.
	DiffG, DRDG, DBDG int8

	// Run is a RUN chunk's length, 1..62.
	Run int
}

// Pixels returns how many pixels the chunk emits.
func (c Chunk) Pixels() int {
	if c.Op == OpRun {
		return c.Run
	}
	return 1
}

// appendChunk packs c onto dst using the exact bit layouts of the format.
// Field ranges are the selector's responsibility; bias-plus-mask keeps the
// packing total even for out-of-range values.
func appendChunk(dst []byte, c Chunk) []byte {
	switch c.Op {
	case OpRGB:
		return append(dst, tagRGB, c.R, c.G, c.B)
	case OpRGBA:
		return append(dst, tagRGBA, c.R, c.G, c.B, c.A)
	case OpIndex:
		return append(dst, prefixIndex|c.Index&0x3f)
	case OpDiff:
		b := uint8(prefixDiff)
		b |= (uint8(c.DR+2) & 0x03) << 4
		b |= (uint8(c.DG+2) & 0x03) << 2
		b |= uint8(c.DB+2) & 0x03
		return append(dst, b)
	case OpLuma:
		b0 := prefixLuma | uint8(c.DiffG+32)&0x3f
		b1 := (uint8(c.DRDG+8)&0x0f)<<4 | uint8(c.DBDG+8)&0x0f
		return append(dst, b0, b1)
	case OpRun:
		return append(dst, prefixRun|uint8(c.Run-1)&0x3f)
	}
	return dst
}

// ParseChunk reads the chunk starting at body[pos] and returns it together
// with the number of bytes it occupies. body must exclude the header and the
// end-of-stream marker; a multi-byte chunk whose tail would fall outside the
// body is reported as ErrTruncated.
func ParseChunk(body []byte, pos int) (Chunk, int, error) {
	tag := body[pos]
	switch tag {
	case tagRGB:
		if pos+4 > len(body) {
			return Chunk{}, 0, ErrTruncated
		}
		return Chunk{Op: OpRGB, R: body[pos+1], G: body[pos+2], B: body[pos+3]}, 4, nil
	case tagRGBA:
		if pos+5 > len(body) {
			return Chunk{}, 0, ErrTruncated
		}
		return Chunk{Op: OpRGBA, R: body[pos+1], G: body[pos+2], B: body[pos+3], A: body[pos+4]}, 5, nil
	}
	switch tag >> 6 {
	case 0:
		return Chunk{Op: OpIndex, Index: tag & 0x3f}, 1, nil
	case 1:
		return Chunk{
			Op: OpDiff,
			DR: int8(tag>>4&0x03) - 2,
			DG: int8(tag>>2&0x03) - 2,
			DB: int8(tag&0x03) - 2,
		}, 1, nil
	case 2:
		if pos+2 > len(body) {
			return Chunk{}, 0, ErrTruncated
		}
		b1 := body[pos+1]
		return Chunk{
			Op:    OpLuma,
			DiffG: int8(tag&0x3f) - 32,
			DRDG:  int8(b1>>4&0x0f) - 8,
			DBDG:  int8(b1&0x0f) - 8,
		}, 2, nil
	default:
		return Chunk{Op: OpRun, Run: int(tag&0x3f) + 1}, 1, nil
	}
}
