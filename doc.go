// Package qoif provides a pure Go encoder and decoder for the QOIF image
// format.
//
// QOIF ("Quite OK Image Format") is a compact, byte-oriented lossless format
// for 8-bit RGB and RGBA rasters. Each pixel is encoded as one of six chunk
// kinds (RGB, RGBA, INDEX, DIFF, LUMA, RUN) chosen against a predictor that
// both sides maintain in lockstep: the previous pixel and a 64-entry table of
// recently seen pixels indexed by a fixed hash. This package registers itself
// with the standard library's image package so that image.Decode can
// transparently read QOIF files.
//
// Basic usage for decoding:
//
//	img, err := qoif.Decode(reader)
//
// Basic usage for encoding:
//
//	err := qoif.Encode(writer, img, nil)
//
// EncodeRaw and DecodeRaw operate directly on raw sample buffers for callers
// that do not want to go through image.Image.
package qoif
