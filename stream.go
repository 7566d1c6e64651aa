package lvss

import "fmt"

// encodeStreaming encodes the first n bytes of src into blk by feeding the
// bytes into the device. The device is primed with the first PadLen
// positions; afterwards every result word decides about the position PadLen
// bytes before the byte fed. After a substitution of length k the device
// is advanced k-1 further bytes before the next decision is taken.
func encodeStreaming(dev Device, blk *Block, src []byte, n int) error {
	if err := checkInput(src, n); err != nil {
		return err
	}
	blk.reset(src[:n])
	dev.Reset()
	feed := func(i int) {
		if i < n {
			dev.Feed(src[i])
		} else {
			dev.FeedPad()
		}
	}
	m := n + PadLen
	i := 0
	for ; i < PadLen; i++ {
		feed(i)
	}
	for ; i < m; i++ {
		feed(i)
		r := dev.Result()
		k := r.Len()
		if k < MinMatchLen {
			blk.appendLit(r.Lit())
			continue
		}
		if s := i - PadLen; s+k > n || r.Pos() >= s {
			dev.Reset()
			return fmt.Errorf(
				"%w: device result %d@%d at position %d of %d",
				ErrMalformedToken, k, r.Pos(), s, n)
		}
		blk.appendRef(k, r.Pos())
		for ; k > 1; k-- {
			i++
			feed(i)
		}
	}
	dev.Reset()
	return nil
}
