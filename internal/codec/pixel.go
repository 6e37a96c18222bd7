package codec

// Pixel is a single RGBA sample. All channel arithmetic in this package is
// modular over 8 bits: crossing the 0/255 boundary wraps, which the DIFF and
// LUMA encodings rely on.
type Pixel struct {
	R, G, B, A uint8
}

// paletteSize is fixed by the format: an INDEX chunk carries a 6-bit slot.
const paletteSize = 64

// Hash maps a pixel to its palette slot. The coefficients 3/5/7/11 and the
// modulus 64 are part of the wire format; encoder and decoder must compute
// identical slots for identical pixels.
func (p Pixel) Hash() uint8 {
	return uint8((int(p.R)*3 + int(p.G)*5 + int(p.B)*7 + int(p.A)*11) % paletteSize)
}

// Palette is the table of recently seen pixels that both sides of the codec
// keep in lockstep. The zero value is the required initial state.
type Palette [paletteSize]Pixel

// previousInit is the previous-pixel register before the first pixel.
var previousInit = Pixel{A: 255}

// expandPixels widens a raw sample buffer into RGBA pixels. Three-channel
// input gets an opaque alpha, so its alpha delta against the previous pixel
// is always zero.
func expandPixels(raw []byte, channels uint8) []Pixel {
	pix := make([]Pixel, len(raw)/int(channels))
	if channels == 4 {
		for i := range pix {
			o := i * 4
			pix[i] = Pixel{raw[o], raw[o+1], raw[o+2], raw[o+3]}
		}
		return pix
	}
	for i := range pix {
		o := i * 3
		pix[i] = Pixel{raw[o], raw[o+1], raw[o+2], 0xff}
	}
	return pix
}
