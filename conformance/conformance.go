// Package conformance cross-validates the match finders of package lvss and
// measures their throughput against other compressors.
//
// Compare encodes a buffer with the exhaustive and the streaming strategy and
// requires identical token streams. Check additionally verifies the format
// properties: every back-reference is valid, the encoding never expands the
// input and the data decodes to the original bytes.
package conformance

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ulikunitz/lvss"
)

// MismatchError reports the first difference between the token streams of
// both strategies.
type MismatchError struct {
	// Offset is the first token offset at which the streams differ.
	Offset int
	// Exhaustive and Streaming are the tokens found at Offset. A token
	// is the zero value if the stream ended before.
	Exhaustive lvss.Token
	Streaming  lvss.Token
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf(
		"conformance: strategies differ at offset %d: exhaustive %v, streaming %v",
		e.Offset, e.Exhaustive, e.Streaming)
}

// PropertyError reports the violation of a format property.
type PropertyError struct {
	Property string
	Err      error
}

func (e *PropertyError) Error() string {
	return fmt.Sprintf("conformance: property %s violated: %v",
		e.Property, e.Err)
}

func (e *PropertyError) Unwrap() error { return e.Err }

// Names of the properties verified by Check.
const (
	PropValidity    = "token-validity"
	PropNoExpansion = "no-expansion"
	PropRoundTrip   = "round-trip"
	PropFrame       = "frame"
)

// Comparison holds the blocks produced by both strategies.
type Comparison struct {
	Exhaustive *lvss.Block
	Streaming  *lvss.Block
}

func encode(s lvss.Strategy, p []byte) (*lvss.Block, error) {
	e, err := lvss.EncoderOptions{Strategy: s}.NewEncoder()
	if err != nil {
		return nil, err
	}
	blk := new(lvss.Block)
	if err = e.EncodeBytes(blk, p); err != nil {
		return nil, fmt.Errorf("conformance: %s encoder: %w", s, err)
	}
	return blk, nil
}

// tokenAt returns the token starting at offset off, if any.
func tokenAt(blk *lvss.Block, off int) lvss.Token {
	p := blk.Data
	switch {
	case off >= len(p):
		return lvss.Token{}
	case !blk.IsRef(off):
		return lvss.Lit(p[off])
	case off+1 < len(p):
		return lvss.Ref(int(p[off]>>4), int(p[off]&0x0f)<<8|int(p[off+1]))
	default:
		return lvss.Token{}
	}
}

// firstDiff returns the offset of the first token that differs in both
// blocks.
func firstDiff(x, y *lvss.Block) int {
	for off := 0; ; {
		tx, ty := tokenAt(x, off), tokenAt(y, off)
		if tx != ty || x.IsRef(off) != y.IsRef(off) {
			return off
		}
		if off >= len(x.Data) {
			return off
		}
		off += tx.Size()
	}
}

// Compare encodes p with both strategies. It returns a *MismatchError if the
// token streams are not identical.
func Compare(p []byte) (*Comparison, error) {
	x, err := encode(lvss.Exhaustive, p)
	if err != nil {
		return nil, err
	}
	y, err := encode(lvss.Streaming, p)
	if err != nil {
		return nil, err
	}
	c := &Comparison{Exhaustive: x, Streaming: y}
	if x.Equal(y) {
		return c, nil
	}
	off := firstDiff(x, y)
	return c, &MismatchError{
		Offset:     off,
		Exhaustive: tokenAt(x, off),
		Streaming:  tokenAt(y, off),
	}
}

var errNotDecoded = errors.New("source position not yet decoded")

// validate checks every token of the block against the format contract.
func validate(blk *lvss.Block) error {
	tokens, err := blk.Tokens()
	if err != nil {
		return err
	}
	pos := 0
	for k, t := range tokens {
		if t.IsRef() {
			if !(lvss.MinMatchLen <= t.Len && t.Len <= lvss.MaxMatchLen) {
				return fmt.Errorf("token %d: length %d out of range",
					k, t.Len)
			}
			if t.Pos > lvss.MaxPos {
				return fmt.Errorf("token %d: position %d out of range",
					k, t.Pos)
			}
			if int(t.Pos)+int(t.Len) > pos {
				return fmt.Errorf("token %d: %v at %d: %w",
					k, t, pos, errNotDecoded)
			}
			if pos-int(t.Pos) > lvss.WindowSize {
				return fmt.Errorf("token %d: %v at %d outside window",
					k, t, pos)
			}
			pos += int(t.Len)
			continue
		}
		pos++
	}
	if pos != blk.Len {
		return fmt.Errorf("tokens cover %d bytes; want %d", pos, blk.Len)
	}
	return nil
}

// Check runs Compare and verifies the format properties of the resulting
// block.
func Check(p []byte) error {
	c, err := Compare(p)
	if err != nil {
		return err
	}
	blk := c.Exhaustive
	if err = validate(blk); err != nil {
		return &PropertyError{Property: PropValidity, Err: err}
	}
	if len(blk.Data) > len(p) {
		return &PropertyError{
			Property: PropNoExpansion,
			Err: fmt.Errorf("%d bytes encoded into %d bytes",
				len(p), len(blk.Data)),
		}
	}
	q, err := lvss.Decode(blk)
	if err != nil {
		return &PropertyError{Property: PropRoundTrip, Err: err}
	}
	if !bytes.Equal(p, q) {
		return &PropertyError{
			Property: PropRoundTrip,
			Err:      errors.New("decoded data differs from input"),
		}
	}
	frame, err := blk.MarshalBinary()
	if err != nil {
		return &PropertyError{Property: PropFrame, Err: err}
	}
	if q, err = lvss.Decompress(frame); err != nil {
		return &PropertyError{Property: PropFrame, Err: err}
	}
	if !bytes.Equal(p, q) {
		return &PropertyError{
			Property: PropFrame,
			Err:      errors.New("decompressed data differs from input"),
		}
	}
	return nil
}
