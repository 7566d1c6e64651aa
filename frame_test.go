package lvss

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestFrameRoundTrip(t *testing.T) {
	tests := []string{
		"",
		"a",
		"This test is testing the encoder!!!!",
		strings.Repeat("A", 20),
		strings.Repeat("abcdefghij", 500),
	}
	for _, s := range tests {
		frame, err := Compress([]byte(s))
		if err != nil {
			t.Fatalf("Compress error %s", err)
		}
		p, err := Decompress(frame)
		if err != nil {
			t.Fatalf("Decompress error %s", err)
		}
		if diff := cmp.Diff([]byte(s), p, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("decompressed mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestFrameBlock(t *testing.T) {
	blk := encodeBlock(t, Streaming, []byte("This test is testing the encoder!!!!"))
	frame, err := blk.MarshalBinary()
	if err != nil {
		t.Fatalf("blk.MarshalBinary error %s", err)
	}
	var g Block
	if err = g.UnmarshalBinary(frame); err != nil {
		t.Fatalf("g.UnmarshalBinary error %s", err)
	}
	if !g.Equal(blk) || g.Len != blk.Len || g.Sum != blk.Sum {
		t.Fatalf("unmarshalled block differs")
	}
	if n := g.Refs(); n != 3 {
		t.Fatalf("g.Refs() is %d; want 3", n)
	}
}

func TestFrameErrors(t *testing.T) {
	frame, err := Compress([]byte(strings.Repeat("xyz", 40)))
	if err != nil {
		t.Fatalf("Compress error %s", err)
	}

	if _, err = Decompress(frame[:3]); !errors.Is(err, ErrFormat) {
		t.Fatalf("Decompress of short frame error %v; want %v",
			err, ErrFormat)
	}
	if _, err = Decompress(frame[:len(frame)-1]); !errors.Is(err, ErrFormat) {
		t.Fatalf("Decompress of truncated frame error %v; want %v",
			err, ErrFormat)
	}

	bad := []byte(string(frame))
	bad[0] = 'X'
	if _, err = Decompress(bad); !errors.Is(err, ErrFormat) {
		t.Fatalf("Decompress with bad magic error %v; want %v",
			err, ErrFormat)
	}

	bad = []byte(string(frame))
	bad[len(bad)-1] ^= 0xff
	if _, err = Decompress(bad); !errors.Is(err, ErrChecksum) {
		t.Fatalf("Decompress with bad checksum error %v; want %v",
			err, ErrChecksum)
	}
}

func FuzzFrame(f *testing.F) {
	f.Add([]byte("=====foofoobarfoobar bartender===="))
	f.Add([]byte{})
	f.Fuzz(func(t *testing.T, p []byte) {
		frame, err := Compress(p)
		if err != nil {
			t.Fatalf("Compress error %s", err)
		}
		q, err := Decompress(frame)
		if err != nil {
			t.Fatalf("Decompress error %s", err)
		}
		if diff := cmp.Diff(p, q, cmpopts.EquateEmpty()); diff != "" {
			t.Fatalf("decompressed mismatch (-want +got):\n%s", diff)
		}
		// Arbitrary frames must not crash the decoder.
		_, _ = Decompress(p)
	})
}
