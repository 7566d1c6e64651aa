package lvss

import "fmt"

// Token represents a single literal or back-reference. Len is zero for
// literals; Lit is only used by literals and Pos only by back-references.
type Token struct {
	Len uint8
	Pos uint16
	Lit byte
}

// Lit returns a literal token.
func Lit(c byte) Token { return Token{Lit: c} }

// Ref returns a back-reference token.
func Ref(n, pos int) Token { return Token{Len: uint8(n), Pos: uint16(pos)} }

// IsRef reports whether the token is a back-reference.
func (t Token) IsRef() bool { return t.Len > 0 }

// Size returns the encoded size of the token in bytes.
func (t Token) Size() int {
	if t.IsRef() {
		return 2
	}
	return 1
}

// String formats the token for test and debug output.
func (t Token) String() string {
	if t.IsRef() {
		return fmt.Sprintf("%d@%d", t.Len, t.Pos)
	}
	return fmt.Sprintf("%q", t.Lit)
}

// AppendTo appends the encoding of the token to p.
func (t Token) AppendTo(p []byte) ([]byte, error) {
	if !t.IsRef() {
		return append(p, t.Lit), nil
	}
	b0, b1, err := putRef(int(t.Len), int(t.Pos))
	if err != nil {
		return p, err
	}
	return append(p, b0, b1), nil
}

// putRef packs a back-reference into its two bytes. Values that don't fit
// the fields are reported and never truncated.
func putRef(n, pos int) (b0, b1 byte, err error) {
	if !(MinMatchLen <= n && n <= MaxMatchLen) {
		return 0, 0, fmt.Errorf("%w: length %d out of range [%d,%d]",
			ErrFieldOverflow, n, MinMatchLen, MaxMatchLen)
	}
	if !(0 <= pos && pos <= MaxPos) {
		return 0, 0, fmt.Errorf("%w: position %d out of range [0,%d]",
			ErrFieldOverflow, pos, MaxPos)
	}
	u := uint16(n)<<12 | uint16(pos)
	return byte(u >> 8), byte(u), nil
}

// parseRef unpacks the two bytes of a back-reference.
func parseRef(b0, b1 byte) (n, pos int) {
	u := uint16(b0)<<8 | uint16(b1)
	return int(u >> 12), int(u & MaxPos)
}
