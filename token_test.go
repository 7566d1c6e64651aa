package lvss

import (
	"errors"
	"testing"
)

func TestPutRef(t *testing.T) {
	tests := []struct {
		n, pos int
		b0, b1 byte
	}{
		{2, 0, 0x20, 0x00},
		{15, 4095, 0xff, 0xff},
		{7, 2, 0x70, 0x02},
		{4, 0x123, 0x41, 0x23},
	}
	for _, tc := range tests {
		b0, b1, err := putRef(tc.n, tc.pos)
		if err != nil {
			t.Fatalf("putRef(%d, %d) error %s", tc.n, tc.pos, err)
		}
		if b0 != tc.b0 || b1 != tc.b1 {
			t.Fatalf("putRef(%d, %d) is %#02x %#02x; want %#02x %#02x",
				tc.n, tc.pos, b0, b1, tc.b0, tc.b1)
		}
		n, pos := parseRef(b0, b1)
		if n != tc.n || pos != tc.pos {
			t.Fatalf("parseRef(%#02x, %#02x) is %d, %d; want %d, %d",
				b0, b1, n, pos, tc.n, tc.pos)
		}
	}
}

func TestPutRefOverflow(t *testing.T) {
	tests := []struct{ n, pos int }{
		{0, 0}, {1, 5}, {16, 0}, {2, 4096}, {3, -1},
	}
	for _, tc := range tests {
		_, _, err := putRef(tc.n, tc.pos)
		if !errors.Is(err, ErrFieldOverflow) {
			t.Fatalf("putRef(%d, %d) error %v; want %v",
				tc.n, tc.pos, err, ErrFieldOverflow)
		}
	}
}

func TestTokenAppendTo(t *testing.T) {
	p, err := Lit('x').AppendTo(nil)
	if err != nil {
		t.Fatalf("Lit('x').AppendTo error %s", err)
	}
	p, err = Ref(3, 258).AppendTo(p)
	if err != nil {
		t.Fatalf("Ref(3, 258).AppendTo error %s", err)
	}
	if string(p) != "x\x31\x02" {
		t.Fatalf("tokens encoded as %q; want %q", p, "x\x31\x02")
	}
	if _, err = Ref(1, 0).AppendTo(nil); !errors.Is(err, ErrFieldOverflow) {
		t.Fatalf("Ref(1, 0).AppendTo error %v; want %v",
			err, ErrFieldOverflow)
	}
}
