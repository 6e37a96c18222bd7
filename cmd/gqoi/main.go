// Command gqoi encodes, decodes, and inspects QOIF images from the command line.
//
// Usage:
//
//	gqoi enc [options] <input>        PNG/JPEG/GIF/BMP → QOIF (use "-" for stdin)
//	gqoi dec [options] <input.qoi>    QOIF → PNG/JPEG/BMP (use "-" for stdin, -o - for stdout)
//	gqoi info <input.qoi>             Display QOIF metadata and chunk statistics
//	gqoi cmp <a> <b>                  Compare two images pixel by pixel
package main

import (
	"bytes"
	"flag"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/deepteams/qoif"
	"github.com/deepteams/qoif/stream"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "enc":
		err = runEnc(os.Args[2:])
	case "dec":
		err = runDec(os.Args[2:])
	case "info":
		err = runInfo(os.Args[2:])
	case "cmp":
		err = runCmp(os.Args[2:])
	case "-h", "-help", "--help", "help":
		printUsage()
		return
	default:
		fmt.Fprintf(os.Stderr, "gqoi: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "gqoi: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `Usage:
  gqoi enc [options] <input>        Encode PNG/JPEG/GIF/BMP to QOIF
  gqoi dec [options] <input.qoi>    Decode QOIF to PNG, JPEG, or BMP
  gqoi info <input.qoi>             Display QOIF metadata and chunk statistics
  gqoi cmp <a> <b>                  Compare two images pixel by pixel

Use "-" as input to read from stdin, "-o -" to write to stdout.

Run "gqoi <command> -h" for command-specific options.
`)
}

// openInput returns an io.ReadCloser for the given path.
// If path is "-", stdin is returned wrapped so that Close leaves it open.
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// --- enc ---

func runEnc(args []string) error {
	fs := flag.NewFlagSet("enc", flag.ContinueOnError)
	channels := fs.Int("channels", 0, "header channel count: 3, 4, or 0 for auto")
	colorspace := fs.String("colorspace", "srgb", "colorspace tag: srgb or linear")
	output := fs.String("o", "", `output path (default: <input>.qoi, "-" for stdout)`)

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("enc: missing input file\nUsage: gqoi enc [options] <input>")
	}
	inputPath := fs.Arg(0)

	cs, err := parseColorspace(*colorspace)
	if err != nil {
		return err
	}
	opts := &qoif.EncoderOptions{
		Channels:   *channels,
		Colorspace: cs,
	}

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return fmt.Errorf("enc: decoding input: %w", err)
	}

	outputPath := *output
	if outputPath == "-" {
		return qoif.Encode(os.Stdout, img, opts)
	}

	if outputPath == "" {
		if inputPath == "-" {
			outputPath = "output.qoi"
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ".qoi"
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if err := qoif.Encode(out, img, opts); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("enc: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fi, _ := os.Stat(outputPath)
	fmt.Fprintf(os.Stderr, "Encoded %s → %s (%d bytes)\n", inputPath, outputPath, fi.Size())
	return nil
}

func parseColorspace(s string) (int, error) {
	switch strings.ToLower(s) {
	case "srgb":
		return qoif.ColorspaceSRGB, nil
	case "linear":
		return qoif.ColorspaceLinear, nil
	default:
		return 0, fmt.Errorf("enc: unknown colorspace %q (use srgb/linear)", s)
	}
}

// --- dec ---

func runDec(args []string) error {
	fs := flag.NewFlagSet("dec", flag.ContinueOnError)
	output := fs.String("o", "", `output path (default: <input>.png, "-" for stdout)`)
	fmtFlag := fs.String("fmt", "", "output format: png, jpeg, bmp (auto-detect from extension if omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("dec: missing input file\nUsage: gqoi dec [options] <input.qoi>")
	}
	inputPath := fs.Arg(0)

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}

	data, err := io.ReadAll(in)
	in.Close()
	if err != nil {
		return fmt.Errorf("dec: reading input: %w", err)
	}

	img, err := qoif.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("dec: %w", err)
	}

	outputPath := *output
	outFmt := detectOutputFormat(*fmtFlag, outputPath)

	if outputPath == "-" {
		return encodeImage(os.Stdout, img, outFmt)
	}

	if outputPath == "" {
		ext := "." + outFmt
		if outFmt == "jpeg" {
			ext = ".jpg"
		}
		if inputPath == "-" {
			outputPath = "output" + ext
		} else {
			base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
			outputPath = base + ext
		}
	}

	out, err := os.Create(outputPath)
	if err != nil {
		return err
	}

	if err := encodeImage(out, img, outFmt); err != nil {
		out.Close()
		os.Remove(outputPath)
		return fmt.Errorf("dec: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(outputPath)
		return err
	}

	fmt.Fprintf(os.Stderr, "Decoded %s → %s\n", inputPath, outputPath)
	return nil
}

// detectOutputFormat returns "png", "jpeg", or "bmp" based on flag/extension.
func detectOutputFormat(fmtFlag, outputPath string) string {
	if fmtFlag != "" {
		return strings.ToLower(fmtFlag)
	}
	if outputPath != "" && outputPath != "-" {
		switch strings.ToLower(filepath.Ext(outputPath)) {
		case ".jpg", ".jpeg":
			return "jpeg"
		case ".bmp":
			return "bmp"
		}
	}
	return "png"
}

// encodeImage writes img in the specified format to w.
func encodeImage(w io.Writer, img image.Image, format string) error {
	switch format {
	case "jpeg", "jpg":
		return jpeg.Encode(w, img, &jpeg.Options{Quality: 90})
	case "bmp":
		return bmp.Encode(w, img)
	default:
		return png.Encode(w, img)
	}
}

// --- info ---

func runInfo(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("info: missing input file\nUsage: gqoi info <input.qoi>")
	}
	inputPath := args[0]

	in, err := openInput(inputPath)
	if err != nil {
		return err
	}
	defer in.Close()

	data, err := io.ReadAll(in)
	if err != nil {
		return fmt.Errorf("info: reading input: %w", err)
	}

	st, err := stream.Scan(data)
	if err != nil {
		return fmt.Errorf("info: %w", err)
	}

	name := inputPath
	if inputPath == "-" {
		name = "<stdin>"
	}

	colorspace := "sRGB with linear alpha"
	if st.Colorspace == 1 {
		colorspace = "all channels linear"
	}

	fmt.Printf("File:       %s\n", name)
	fmt.Printf("Dimensions: %d x %d\n", st.Width, st.Height)
	fmt.Printf("Channels:   %d\n", st.Channels)
	fmt.Printf("Colorspace: %s\n", colorspace)
	fmt.Printf("Body:       %d bytes, %d chunks\n", st.BodyBytes, st.Chunks)
	for op := stream.OpRGB; op <= stream.OpRun; op++ {
		if st.Ops[op] == 0 {
			continue
		}
		fmt.Printf("  %-5s  %6d chunks  %8d pixels\n", op, st.Ops[op], st.OpPixels[op])
	}
	fmt.Printf("File size:  %d bytes\n", len(data))
	return nil
}

// --- cmp ---

func runCmp(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("cmp: need two input files\nUsage: gqoi cmp <a> <b>")
	}

	a, err := loadNRGBA(args[0])
	if err != nil {
		return fmt.Errorf("cmp: %s: %w", args[0], err)
	}
	b, err := loadNRGBA(args[1])
	if err != nil {
		return fmt.Errorf("cmp: %s: %w", args[1], err)
	}

	if !a.Rect.Eq(b.Rect) {
		return fmt.Errorf("cmp: dimensions differ: %dx%d vs %dx%d",
			a.Rect.Dx(), a.Rect.Dy(), b.Rect.Dx(), b.Rect.Dy())
	}

	diffs, firstX, firstY := compareNRGBA(a, b)
	if diffs == 0 {
		fmt.Printf("Images are identical (%dx%d)\n", a.Rect.Dx(), a.Rect.Dy())
		return nil
	}
	return fmt.Errorf("cmp: %d of %d pixels differ, first at (%d,%d)",
		diffs, a.Rect.Dx()*a.Rect.Dy(), firstX, firstY)
}

// loadNRGBA decodes any registered image format into a zero-origin NRGBA.
func loadNRGBA(path string) (*image.NRGBA, error) {
	in, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	img, _, err := image.Decode(in)
	if err != nil {
		return nil, err
	}
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n, nil
	}
	b := img.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), img, b.Min, draw.Src)
	return dst, nil
}

// compareNRGBA counts differing pixels and reports the first difference.
func compareNRGBA(a, b *image.NRGBA) (diffs, firstX, firstY int) {
	w, h := a.Rect.Dx(), a.Rect.Dy()
	firstX, firstY = -1, -1
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ao := a.PixOffset(x, y)
			bo := b.PixOffset(x, y)
			if !bytes.Equal(a.Pix[ao:ao+4], b.Pix[bo:bo+4]) {
				if diffs == 0 {
					firstX, firstY = x, y
				}
				diffs++
			}
		}
	}
	return diffs, firstX, firstY
}
