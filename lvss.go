// Package lvss implements a compact back-reference substitution scheme for
// byte buffers. The format has been designed to be produced by a fixed
// latency hardware pipeline as well as by software, so that both can be
// cross-validated.
//
// The encoded data is a stream of tokens. A literal token is a single byte
// copied verbatim. A back-reference token consists of two bytes: the upper
// nibble of the first byte stores the match length (2..15) and the remaining
// 12 bits store the absolute position of the match source in the decoded
// data. The tokens carry no tag bit, so a [Block] keeps a kind map that
// tells literals and back-references apart. [Block.MarshalBinary] writes the
// kind map together with the tokens into a self-contained frame.
//
// Two match finders produce the tokens: the exhaustive finder searches the
// whole window for every position, the streaming [Engine] is fed one byte at
// a time and reports a result word for every byte as the hardware does. Both
// must produce identical output; the conformance sub-package verifies that.
package lvss

import (
	"errors"
)

// Format constants.
const (
	// WindowSize is the maximum distance between a position and the source
	// of a back-reference.
	WindowSize = 4096
	// LookaheadLen is the number of bytes compared at the scan position.
	LookaheadLen = 15
	// MaxMatchLen is the largest length the 4-bit length field can hold.
	MaxMatchLen = 15
	// MinMatchLen is the shortest back-reference ever emitted.
	MinMatchLen = 2
	// MaxPos is the largest absolute position the 12-bit field can hold.
	MaxPos = 1<<12 - 1
	// PadLen is the number of zero bytes that must follow the input.
	PadLen = LookaheadLen - 1
)

// Errors returned by the package.
var (
	// ErrInvalidLength indicates that the true data length doesn't fit the
	// buffer provided.
	ErrInvalidLength = errors.New("lvss: invalid length")
	// ErrMalformedToken indicates a back-reference that cannot be decoded.
	ErrMalformedToken = errors.New("lvss: malformed token")
	// ErrFieldOverflow indicates a length or position that doesn't fit
	// into the token fields.
	ErrFieldOverflow = errors.New("lvss: field overflow")
	// ErrFormat indicates that a frame cannot be parsed.
	ErrFormat = errors.New("lvss: invalid frame format")
	// ErrChecksum indicates that the decoded data doesn't match the frame
	// checksum.
	ErrChecksum = errors.New("lvss: checksum mismatch")
)

// Pad returns a copy of p followed by PadLen zero bytes as required by the
// encoders.
func Pad(p []byte) []byte {
	q := make([]byte, len(p)+PadLen)
	copy(q, p)
	return q
}

// Encode appends the tokens for the first n bytes of src to dst using the
// exhaustive match finder. The src slice must carry PadLen trailing padding
// bytes, so len(src) must be n+PadLen. The tokens appended never take more
// than n bytes.
func Encode(dst, src []byte, n int) ([]byte, error) {
	var blk Block
	if err := encodeExhaustive(&blk, src, n); err != nil {
		return dst, err
	}
	return append(dst, blk.Data...), nil
}

// Decode reconstructs the data encoded in the block.
func Decode(blk *Block) ([]byte, error) {
	var d Decoder
	if err := d.Init(DecoderOptions{MaxSize: blk.Len}); err != nil {
		return nil, err
	}
	if err := d.WriteBlock(blk); err != nil {
		return nil, err
	}
	return d.Data, nil
}

// Compress encodes p with the exhaustive match finder and returns a frame
// that can be decoded by Decompress.
func Compress(p []byte) ([]byte, error) {
	var blk Block
	if err := encodeExhaustive(&blk, Pad(p), len(p)); err != nil {
		return nil, err
	}
	return blk.MarshalBinary()
}

// Decompress decodes a frame created by Compress or Block.MarshalBinary.
func Decompress(frame []byte) ([]byte, error) {
	var blk Block
	if err := blk.UnmarshalBinary(frame); err != nil {
		return nil, err
	}
	p, err := Decode(&blk)
	if err != nil {
		return nil, err
	}
	if sum(p) != blk.Sum {
		return nil, ErrChecksum
	}
	return p, nil
}
