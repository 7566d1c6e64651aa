package lvss

import (
	"fmt"

	"github.com/dchest/siphash"
	"golang.org/x/exp/slices"
)

// Block stores the result of an encoding run. Data holds the token bytes as
// they are emitted by the hardware. Len is the length of the encoded input
// and Sum its checksum. The block keeps track which tokens are
// back-references, because the token bytes don't tell.
type Block struct {
	Data []byte
	Len  int
	Sum  uint64

	refs bitset
}

// Keys for the siphash checksum.
const (
	sumK0 = 0x6c7673732d73756d
	sumK1 = 0x2d31323a31352d34
)

func sum(p []byte) uint64 {
	return siphash.Hash(sumK0, sumK1, p)
}

// reset prepares the block for the encoding of p.
func (b *Block) reset(p []byte) {
	b.Data = b.Data[:0]
	b.Len = len(p)
	b.Sum = sum(p)
	b.refs.init(len(p))
}

func (b *Block) appendLit(c byte) {
	b.Data = append(b.Data, c)
}

// appendRef appends a back-reference found by a match finder. The finders
// must never produce values that cannot be represented.
func (b *Block) appendRef(n, pos int) {
	b0, b1, err := putRef(n, pos)
	if err != nil {
		panic(fmt.Errorf("lvss: match finder error: %w", err))
	}
	off := len(b.Data)
	b.refs.extend(off + 1)
	b.refs.insert(off)
	b.Data = append(b.Data, b0, b1)
}

// Append adds the token to the block. It doesn't change Len and Sum.
func (b *Block) Append(t Token) error {
	off := len(b.Data)
	var err error
	if b.Data, err = t.AppendTo(b.Data); err != nil {
		return err
	}
	if t.IsRef() {
		b.refs.extend(off + 1)
		b.refs.insert(off)
	}
	return nil
}

// IsRef reports whether a back-reference starts at offset off of the
// token data.
func (b *Block) IsRef(off int) bool {
	return b.refs.isMember(off)
}

// Refs returns the number of back-references in the block.
func (b *Block) Refs() int {
	return b.refs.pop()
}

// Equal reports whether both blocks contain the same tokens.
func (b *Block) Equal(c *Block) bool {
	return slices.Equal(b.Data, c.Data) && b.refs.equal(&c.refs)
}

// Tokens parses the token data.
func (b *Block) Tokens() ([]Token, error) {
	var q []Token
	p := b.Data
	for i := 0; i < len(p); {
		if !b.IsRef(i) {
			q = append(q, Lit(p[i]))
			i++
			continue
		}
		if i+1 >= len(p) {
			return q, fmt.Errorf(
				"%w: truncated back-reference at offset %d",
				ErrMalformedToken, i)
		}
		n, pos := parseRef(p[i], p[i+1])
		q = append(q, Ref(n, pos))
		i += 2
	}
	return q, nil
}
