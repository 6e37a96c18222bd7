package stream

import (
	"errors"
	"testing"

	"github.com/deepteams/qoif"
)

// encodeFixture builds a QOIF stream with a known chunk mix: one RGB chunk,
// one DIFF chunk, and a run of 3.
func encodeFixture(t *testing.T) []byte {
	t.Helper()
	raw := []byte{
		10, 20, 30, 255,
		11, 21, 31, 255,
		11, 21, 31, 255,
		11, 21, 31, 255,
		11, 21, 31, 255,
	}
	data, err := qoif.EncodeRaw(raw, 5, 1, 4, 0)
	if err != nil {
		t.Fatalf("EncodeRaw: %v", err)
	}
	return data
}

func TestScan(t *testing.T) {
	data := encodeFixture(t)

	st, err := Scan(data)
	if err != nil {
		t.Fatal(err)
	}
	if st.Width != 5 || st.Height != 1 {
		t.Errorf("dimensions = %dx%d, want 5x1", st.Width, st.Height)
	}
	if st.Channels != 4 || st.Colorspace != 0 {
		t.Errorf("channels/colorspace = %d/%d, want 4/0", st.Channels, st.Colorspace)
	}
	if st.Pixels != 5 {
		t.Errorf("pixels = %d, want 5", st.Pixels)
	}
	if st.Chunks != 3 {
		t.Errorf("chunks = %d, want 3", st.Chunks)
	}
	if st.Ops[OpRGB] != 1 || st.Ops[OpDiff] != 1 || st.Ops[OpRun] != 1 {
		t.Errorf("op counts = %v, want one RGB, one DIFF, one RUN", st.Ops)
	}
	if st.OpPixels[OpRun] != 3 {
		t.Errorf("run pixels = %d, want 3", st.OpPixels[OpRun])
	}
	if st.BodyBytes != len(data)-22 {
		t.Errorf("body bytes = %d, want %d", st.BodyBytes, len(data)-22)
	}
}

func TestScanTruncatedBody(t *testing.T) {
	data := encodeFixture(t)

	// Drop the DIFF and RUN chunks but keep the marker: the body now ends
	// before the promised pixel count.
	short := append([]byte(nil), data[:len(data)-10]...)
	short = append(short, data[len(data)-8:]...)

	if _, err := Scan(short); !errors.Is(err, qoif.ErrTruncated) {
		t.Errorf("Scan = %v, want ErrTruncated", err)
	}
}

func TestScanBadMagic(t *testing.T) {
	data := encodeFixture(t)
	data[0] = 'x'
	if _, err := Scan(data); !errors.Is(err, qoif.ErrBadMagic) {
		t.Errorf("Scan = %v, want ErrBadMagic", err)
	}
}

func TestValidate(t *testing.T) {
	data := encodeFixture(t)
	if err := Validate(data); err != nil {
		t.Fatalf("Validate: %v", err)
	}

	// Corrupt the end-of-stream marker: Scan still succeeds, Validate must not.
	data[len(data)-1] = 0x00
	if _, err := Scan(data); err != nil {
		t.Fatalf("Scan after marker corruption: %v", err)
	}
	if err := Validate(data); !errors.Is(err, qoif.ErrBadFooter) {
		t.Errorf("Validate = %v, want ErrBadFooter", err)
	}
}
