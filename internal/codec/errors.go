package codec

import "github.com/pkg/errors"

// Decode-side failure taxonomy. Callers compare with errors.Is; wrap sites
// attach positional context. The encoder never fails once its arguments
// validate; its argument checks reuse ErrInvalidHeader and ErrTooLarge for
// bad channels, colorspace, or size.
var (
	ErrBadMagic      = errors.New("qoif: bad magic")
	ErrTruncated     = errors.New("qoif: truncated stream")
	ErrBadFooter     = errors.New("qoif: bad end-of-stream marker")
	ErrPixelOverflow = errors.New("qoif: chunk overflows pixel count")
	ErrInvalidHeader = errors.New("qoif: invalid header field")
	ErrTooLarge      = errors.New("qoif: image exceeds pixel limit")
)
