package lvss

import (
	"errors"
	"testing"
)

func TestEnginePriming(t *testing.T) {
	e := NewEngine()
	for i, c := range []byte("abcabcabcabcab") {
		e.Feed(c)
		if r := e.Result(); r != 0 {
			t.Fatalf("Result() after %d bytes is %#04x; want 0", i+1, r)
		}
	}
	if s := e.Pos(); s != -1 {
		t.Fatalf("e.Pos() is %d; want -1", s)
	}
	e.Feed('c')
	r := e.Result()
	if r.Len() != 0 || r.Lit() != 'a' {
		t.Fatalf("first result is %d/%q; want literal 'a'", r.Len(), r.Lit())
	}
}

func TestEngineResult(t *testing.T) {
	p := []byte("abcabcabcabcabcabc")
	e := NewEngine()
	for _, c := range p {
		e.Feed(c)
	}
	// The result refers to position 3; "abcabcabcabcabc" matches at 0
	// with length 3, because sources must not overlap the lookahead.
	if s := e.Pos(); s != 3 {
		t.Fatalf("e.Pos() is %d; want 3", s)
	}
	r := e.Result()
	if r.Len() != 3 || r.Pos() != 0 {
		t.Fatalf("result is %d@%d; want 3@0", r.Len(), r.Pos())
	}
	b0, b1 := r.Bytes()
	if b0 != 0x30 || b1 != 0x00 {
		t.Fatalf("r.Bytes() is %#02x %#02x; want 0x30 0x00", b0, b1)
	}
}

func TestEnginePadding(t *testing.T) {
	e := NewEngine()
	for i := 0; i < 20; i++ {
		e.Feed(0)
	}
	for i := 0; i < 11; i++ {
		e.FeedPad()
	}
	// Only 4 data bytes follow position 16; the zero padding must not
	// extend the match.
	if s := e.Pos(); s != 16 {
		t.Fatalf("e.Pos() is %d; want 16", s)
	}
	r := e.Result()
	if r.Len() != 4 || r.Pos() != 12 {
		t.Fatalf("result is %d@%d; want 4@12", r.Len(), r.Pos())
	}
	e.Reset()
	if s := e.Pos(); s != -LookaheadLen {
		t.Fatalf("e.Pos() after Reset is %d; want %d", s, -LookaheadLen)
	}
}

// countingDevice counts the words fed into the wrapped device.
type countingDevice struct {
	Device
	feeds, pads, resets int
}

func (d *countingDevice) Feed(c byte) { d.feeds++; d.Device.Feed(c) }
func (d *countingDevice) FeedPad()    { d.pads++; d.Device.FeedPad() }
func (d *countingDevice) Reset()      { d.resets++; d.Device.Reset() }

func TestStreamingFeeds(t *testing.T) {
	p := []byte("This test is testing the encoder!!!!")
	dev := &countingDevice{Device: NewEngine()}
	e, err := EncoderOptions{Strategy: Streaming, Device: dev}.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	var blk Block
	if err = e.EncodeBytes(&blk, p); err != nil {
		t.Fatalf("EncodeBytes error %s", err)
	}
	if dev.feeds != len(p) {
		t.Fatalf("device got %d bytes; want %d", dev.feeds, len(p))
	}
	if dev.pads != PadLen {
		t.Fatalf("device got %d padding bytes; want %d", dev.pads, PadLen)
	}
	if dev.resets != 2 {
		t.Fatalf("device got %d resets; want 2", dev.resets)
	}
}

// badDevice always reports a substitution from position 5.
type badDevice struct{ Engine }

func (d *badDevice) Result() Result { return 2<<12 | 5 }

func TestStreamingBadDevice(t *testing.T) {
	e, err := EncoderOptions{Strategy: Streaming, Device: &badDevice{}}.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	var blk Block
	err = e.EncodeBytes(&blk, []byte("abcdefgh"))
	if !errors.Is(err, ErrMalformedToken) {
		t.Fatalf("EncodeBytes error %v; want %v", err, ErrMalformedToken)
	}
}
