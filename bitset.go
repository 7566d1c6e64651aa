package lvss

import "math/bits"

const bsMask = 1<<6 - 1

// bitset stores the kind map of a block. Bit i is set if a back-reference
// starts at offset i of the token data.
type bitset struct {
	a []uint64
	n int
}

func (b *bitset) init(n int) {
	k := (n + 63) / 64
	if k <= cap(b.a) {
		b.a = b.a[:k]
		b.clear()
	} else {
		b.a = make([]uint64, k)
	}
	b.n = n
}

// extend makes room for n bits keeping the bits already set.
func (b *bitset) extend(n int) {
	if n <= b.n {
		return
	}
	k := (n + 63) / 64
	for len(b.a) < k {
		b.a = append(b.a, 0)
	}
	b.n = n
}

func (b *bitset) clear() {
	for i := range b.a {
		b.a[i] = 0
	}
}

func (b *bitset) insert(i int) {
	b.a[i>>6] |= 1 << uint(i&bsMask)
}

func (b *bitset) isMember(i int) bool {
	if !(0 <= i && i < b.n) {
		return false
	}
	return (b.a[i>>6] & (1 << uint(i&bsMask))) != 0
}

func (b *bitset) pop() int {
	n := 0
	for _, x := range b.a {
		n += bits.OnesCount64(x)
	}
	return n
}

// equal compares the members of both sets ignoring the capacity.
func (b *bitset) equal(c *bitset) bool {
	x, y := b.a, c.a
	if len(x) < len(y) {
		x, y = y, x
	}
	for i, u := range x {
		var v uint64
		if i < len(y) {
			v = y[i]
		}
		if u != v {
			return false
		}
	}
	return true
}
