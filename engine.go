// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package lvss

// Result is the word returned by a device after a byte has been fed. Bits
// 12 to 15 contain the substitution length. If the length is at least
// MinMatchLen, the word is the back-reference token in big-endian byte
// order; otherwise the lower 8 bits contain the literal.
type Result uint16

// Len returns the substitution length.
func (r Result) Len() int { return int(r >> 12) }

// Pos returns the absolute position of the substitution source.
func (r Result) Pos() int { return int(r & MaxPos) }

// Lit returns the literal byte.
func (r Result) Lit() byte { return byte(r) }

// Bytes returns the two bytes of the back-reference token.
func (r Result) Bytes() (b0, b1 byte) { return byte(r >> 8), byte(r) }

// Device describes the feed and result registers of the streaming match
// finder. After PadLen bytes have been fed to prime the device, every
// further byte produces a result for the position PadLen bytes before it.
// The Engine type implements Device in software; a hardware accelerator
// providing the same interface can be used instead.
type Device interface {
	// Feed pushes the next input byte.
	Feed(c byte)
	// FeedPad pushes a padding byte after the end of the input.
	FeedPad()
	// Result returns the result word for the last byte fed.
	Result() Result
	// Reset returns the device to its initial state.
	Reset()
}

const (
	ringSize = 2 * WindowSize
	ringMask = ringSize - 1

	// runTop is the bit for the youngest lookahead position in a run
	// register.
	runTop = 1 << (LookaheadLen - 1)
)

// Engine is the streaming match finder. It models the hardware pipeline:
// for every distance d in the window a 15-bit shift register records
// whether the bytes of the lookahead equal the bytes d positions before
// them. Bit 0 refers to the oldest lookahead byte, so the trailing ones of a
// register give the match length at distance d.
//
// The engine is not safe for concurrent use.
type Engine struct {
	// ring stores the history and the lookahead.
	ring [ringSize]byte
	// runs[d] is the shift register for distance d; runs[0] is unused.
	runs [WindowSize + 1]uint16
	// i counts the bytes fed, including padding.
	i int
}

// NewEngine allocates a new streaming engine.
func NewEngine() *Engine {
	return new(Engine)
}

// Reset puts the engine in its initial state.
func (e *Engine) Reset() {
	*e = Engine{}
}

// Feed pushes the input byte c into the engine.
func (e *Engine) Feed(c byte) {
	e.push(c, true)
}

// FeedPad pushes a padding byte into the engine. Padding never matches.
func (e *Engine) FeedPad() {
	e.push(0, false)
}

func (e *Engine) push(c byte, valid bool) {
	i := e.i
	for d := 1; d <= WindowSize; d++ {
		var bit uint16
		if valid && d <= i && e.ring[(i-d)&ringMask] == c {
			bit = runTop
		}
		e.runs[d] = e.runs[d]>>1 | bit
	}
	e.ring[i&ringMask] = c
	e.i++
}

// Pos returns the position the next result refers to. It is negative while
// the engine is primed.
func (e *Engine) Pos() int {
	return e.i - LookaheadLen
}

// Result returns the result word for the oldest byte in the lookahead. The
// result is only meaningful after at least LookaheadLen bytes have been fed.
func (e *Engine) Result() Result {
	s := e.Pos()
	if s < 0 {
		return 0
	}
	n, dist := 0, 0
	// The nearest distance comes first. Sources must be representable
	// in the 12-bit position field.
	for d := max(1, s-MaxPos); d <= min(s, WindowSize); d++ {
		k := min(trailingOnes(e.runs[d]), d, MaxMatchLen)
		if k > n {
			n, dist = k, d
			if n == MaxMatchLen {
				break
			}
		}
	}
	if n < MinMatchLen {
		return Result(n)<<12 | Result(e.ring[s&ringMask])
	}
	return Result(n)<<12 | Result(s-dist)
}

var _ Device = (*Engine)(nil)
