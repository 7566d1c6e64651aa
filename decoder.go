// SPDX-FileCopyrightText: © 2021 Ulrich Kunitz
//
// SPDX-License-Identifier: BSD-3-Clause

package lvss

import (
	"errors"
	"fmt"
	"io"
)

// DecoderOptions contains the parameters for the Decoder.
type DecoderOptions struct {
	// MaxSize limits the number of bytes the decoder produces. Zero
	// means no limit.
	MaxSize int
}

func (opts DecoderOptions) NewDecoder() (*Decoder, error) {
	d := &Decoder{}
	if err := d.Init(opts); err != nil {
		return nil, err
	}
	return d, nil
}

// verify checks the parameters of the DecoderOptions value and returns an
// error for the first issue found.
func (opts *DecoderOptions) verify() error {
	if opts.MaxSize < 0 {
		return fmt.Errorf("lvss.DecoderOptions: MaxSize=%d must not be negative",
			opts.MaxSize)
	}
	return nil
}

// Decoder reconstructs the data from tokens. Data is the decoded data; the
// positions of back-references refer to it directly. R tracks the position
// of the reads from the buffer and must be less or equal to the length of
// the Data slice.
type Decoder struct {
	// Data contains the decoded data.
	Data []byte
	// R tracks the position of the reads from the buffer.
	R int

	// DecoderOptions provides the configuration parameter MaxSize.
	DecoderOptions
}

// Init initializes the Decoder.
func (d *Decoder) Init(opts DecoderOptions) error {
	if err := opts.verify(); err != nil {
		return err
	}
	*d = Decoder{
		Data:           d.Data[:0],
		DecoderOptions: opts,
	}
	return nil
}

// Reset returns the Decoder to its initialized state.
func (d *Decoder) Reset() {
	*d = Decoder{
		Data:           d.Data[:0],
		DecoderOptions: d.DecoderOptions,
	}
}

// Read reads decoded data from the buffer.
func (d *Decoder) Read(p []byte) (n int, err error) {
	if d.R >= len(d.Data) && len(p) > 0 {
		return 0, io.EOF
	}
	n = copy(p, d.Data[d.R:])
	d.R += n
	return n, nil
}

// WriteTo writes the decoded data to the writer.
func (d *Decoder) WriteTo(w io.Writer) (n int64, err error) {
	k, err := w.Write(d.Data[d.R:])
	d.R += k
	return int64(k), err
}

// errFull is returned if MaxSize would be exceeded.
var errFull = fmt.Errorf("%w: decoded data exceeds MaxSize", ErrInvalidLength)

func (d *Decoder) available(n int) error {
	if d.MaxSize > 0 && len(d.Data)+n > d.MaxSize {
		return errFull
	}
	return nil
}

// WriteByte appends a literal byte.
func (d *Decoder) WriteByte(c byte) error {
	if err := d.available(1); err != nil {
		return err
	}
	d.Data = append(d.Data, c)
	return nil
}

// Errors for WriteMatch.
var (
	errMatchLen = errors.New("length out of range")
	errPos      = errors.New("position not yet decoded")
)

// WriteMatch appends n bytes copied from the absolute position pos. The
// bytes are copied one at a time, so the source may overlap the bytes
// written.
func (d *Decoder) WriteMatch(n, pos int) error {
	if !(MinMatchLen <= n && n <= MaxMatchLen) {
		return fmt.Errorf("%w: %w: %d", ErrMalformedToken, errMatchLen, n)
	}
	if !(0 <= pos && pos < len(d.Data)) {
		return fmt.Errorf("%w: %w: %d >= %d",
			ErrMalformedToken, errPos, pos, len(d.Data))
	}
	if err := d.available(n); err != nil {
		return err
	}
	for i := pos; i < pos+n; i++ {
		d.Data = append(d.Data, d.Data[i])
	}
	return nil
}

// WriteToken appends the data of a single token.
func (d *Decoder) WriteToken(t Token) error {
	if !t.IsRef() {
		return d.WriteByte(t.Lit)
	}
	return d.WriteMatch(int(t.Len), int(t.Pos))
}

// WriteBlock decodes all tokens of the block. The block must start a new
// data stream, because its positions are absolute.
func (d *Decoder) WriteBlock(blk *Block) error {
	p := blk.Data
	for i := 0; i < len(p); {
		if !blk.IsRef(i) {
			if err := d.WriteByte(p[i]); err != nil {
				return err
			}
			i++
			continue
		}
		if i+1 >= len(p) {
			return fmt.Errorf(
				"%w: truncated back-reference at offset %d",
				ErrMalformedToken, i)
		}
		n, pos := parseRef(p[i], p[i+1])
		if err := d.WriteMatch(n, pos); err != nil {
			return fmt.Errorf("offset %d: %w", i, err)
		}
		i += 2
	}
	if blk.Len != len(d.Data) {
		return fmt.Errorf("%w: decoded %d bytes; want %d",
			ErrInvalidLength, len(d.Data), blk.Len)
	}
	return nil
}
