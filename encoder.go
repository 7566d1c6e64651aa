package lvss

// Encoder converts byte buffers into token blocks using the match finder
// selected by its options. An encoder must not be used concurrently.
type Encoder struct {
	opts EncoderOptions
}

// Options returns the options of the encoder.
func (e *Encoder) Options() EncoderOptions {
	return e.opts
}

// Encode encodes the first n bytes of src into blk. The remaining PadLen
// bytes of src are padding; len(src) must be n+PadLen, otherwise
// ErrInvalidLength is returned. The previous content of blk is replaced.
func (e *Encoder) Encode(blk *Block, src []byte, n int) error {
	switch e.opts.Strategy {
	case Streaming:
		return encodeStreaming(e.opts.Device, blk, src, n)
	default:
		return encodeExhaustive(blk, src, n)
	}
}

// EncodeBytes encodes p after padding it.
func (e *Encoder) EncodeBytes(blk *Block, p []byte) error {
	return e.Encode(blk, Pad(p), len(p))
}
