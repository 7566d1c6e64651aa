package lvss

import "fmt"

// checkInput verifies that src holds n bytes of data followed by the
// padding.
func checkInput(src []byte, n int) error {
	if n < 0 {
		return fmt.Errorf("%w: n=%d must not be negative",
			ErrInvalidLength, n)
	}
	if len(src) != n+PadLen {
		return fmt.Errorf("%w: len(src)=%d; want n+%d=%d",
			ErrInvalidLength, len(src), PadLen, n+PadLen)
	}
	return nil
}

// findMatch searches the window before position i for the longest match
// with the lookahead. Candidates are visited from the nearest to the
// farthest position, so the nearest one wins if lengths are equal. Matches
// never reach into the lookahead and never beyond the end of the data.
func findMatch(p []byte, i int) (n, pos int) {
	lo := max(0, i-WindowSize)
	for j := min(i-1, MaxPos); j >= lo; j-- {
		m := min(MaxMatchLen, i-j, len(p)-i)
		k := lcp(p[j:j+m], p[i:i+m])
		if k > n {
			n, pos = k, j
			if n == MaxMatchLen {
				break
			}
		}
	}
	return n, pos
}

// encodeExhaustive encodes the first n bytes of src into blk searching the
// whole window for every position.
func encodeExhaustive(blk *Block, src []byte, n int) error {
	if err := checkInput(src, n); err != nil {
		return err
	}
	p := src[:n]
	blk.reset(p)
	for i := 0; i < n; {
		k, pos := findMatch(p, i)
		if k < MinMatchLen {
			blk.appendLit(p[i])
			i++
			continue
		}
		blk.appendRef(k, pos)
		i += k
	}
	return nil
}
