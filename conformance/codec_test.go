package conformance

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestCodecNames(t *testing.T) {
	want := []string{
		"brotli", "flate", "lvss-exhaustive", "lvss-streaming",
		"lz4", "s2", "snappy", "zstd",
	}
	if diff := cmp.Diff(want, CodecNames()); diff != "" {
		t.Fatalf("CodecNames mismatch (-want +got):\n%s", diff)
	}
	if _, err := NewCodec("lzma"); err == nil {
		t.Fatalf("NewCodec(%q) returned no error", "lzma")
	}
}

func TestCodecRoundTrip(t *testing.T) {
	inputs := [][]byte{
		nil,
		[]byte("a"),
		[]byte("This test is testing the encoder!!!!"),
		[]byte(strings.Repeat("foobar", 1000)),
	}
	for _, name := range CodecNames() {
		t.Run(name, func(t *testing.T) {
			c, err := NewCodec(name)
			if err != nil {
				t.Fatalf("NewCodec error %s", err)
			}
			if c.Name() != name {
				t.Fatalf("c.Name() is %q; want %q", c.Name(), name)
			}
			for _, p := range inputs {
				comp, err := c.Compress([]byte("x"), p)
				if err != nil {
					t.Fatalf("Compress error %s", err)
				}
				if comp[0] != 'x' {
					t.Fatalf("Compress didn't append")
				}
				q, err := c.Decompress(nil, comp[1:])
				if err != nil {
					t.Fatalf("Decompress error %s", err)
				}
				if diff := cmp.Diff(p, q, cmpopts.EquateEmpty()); diff != "" {
					t.Fatalf("decompressed mismatch (-want +got):\n%s",
						diff)
				}
			}
		})
	}
}

func TestMeasure(t *testing.T) {
	c, err := NewCodec("lvss-streaming")
	if err != nil {
		t.Fatalf("NewCodec error %s", err)
	}
	p := []byte(strings.Repeat("abcdefghij", 100))
	m, err := Measure(c, p, 0)
	if err != nil {
		t.Fatalf("Measure error %s", err)
	}
	if m.Runs != 1 {
		t.Fatalf("m.Runs is %d; want 1", m.Runs)
	}
	if m.Size != len(p) || m.Compressed <= 0 || m.Compressed >= m.Size {
		t.Fatalf("unexpected sizes %d -> %d", m.Size, m.Compressed)
	}
	if m.Ratio() <= 1 {
		t.Fatalf("m.Ratio() is %g; want > 1", m.Ratio())
	}

	m, err = Measure(c, p, 10*time.Millisecond)
	if err != nil {
		t.Fatalf("Measure error %s", err)
	}
	if m.Runs < 1 {
		t.Fatalf("unexpected measurement %+v", m)
	}
}

// brokenCodec loses the last byte.
type brokenCodec struct{ s2Codec }

func (brokenCodec) Decompress(dst, src []byte) ([]byte, error) {
	dst, err := s2Codec{}.Decompress(dst, src)
	if len(dst) > 0 {
		dst = dst[:len(dst)-1]
	}
	return dst, err
}

func TestMeasureBroken(t *testing.T) {
	if _, err := Measure(brokenCodec{}, []byte("abcabc"), 0); err == nil {
		t.Fatalf("Measure of broken codec returned no error")
	}
}
