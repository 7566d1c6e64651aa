package lvss

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"

	"github.com/icza/bitio"
)

// frameMagic starts every frame.
const frameMagic = "LVSS"

// MarshalBinary encodes the block into a frame. The frame layout is:
//
//	magic "LVSS"
//	uvarint decoded length
//	uvarint number of tokens
//	uvarint number of token bytes
//	kind bitmap, one bit per token (1 for back-references), MSB first,
//	    padded to a full byte
//	token bytes
//	siphash-2-4 of the decoded data, 8 bytes little-endian
func (b *Block) MarshalBinary() (data []byte, err error) {
	var buf bytes.Buffer
	buf.WriteString(frameMagic)
	buf.Write(binary.AppendUvarint(nil, uint64(b.Len)))

	tokens := 0
	for i := 0; i < len(b.Data); tokens++ {
		if b.IsRef(i) {
			i += 2
		} else {
			i++
		}
	}
	buf.Write(binary.AppendUvarint(nil, uint64(tokens)))
	buf.Write(binary.AppendUvarint(nil, uint64(len(b.Data))))

	w := bitio.NewWriter(&buf)
	for i := 0; i < len(b.Data); {
		ref := b.IsRef(i)
		if err = w.WriteBool(ref); err != nil {
			return nil, err
		}
		if ref {
			i += 2
		} else {
			i++
		}
	}
	// Close aligns the bit stream; it doesn't close buf.
	if err = w.Close(); err != nil {
		return nil, err
	}

	buf.Write(b.Data)
	buf.Write(binary.LittleEndian.AppendUint64(nil, b.Sum))
	return buf.Bytes(), nil
}

func formatErr(format string, a ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{ErrFormat}, a...)...)
}

// UnmarshalBinary parses a frame created by MarshalBinary. Tokens are not
// validated; the Decoder does that.
func (b *Block) UnmarshalBinary(data []byte) error {
	r := bytes.NewReader(data)
	magic := make([]byte, len(frameMagic))
	if _, err := io.ReadFull(r, magic); err != nil ||
		string(magic) != frameMagic {
		return formatErr("missing magic")
	}
	var u [3]uint64
	for i := range u {
		x, err := binary.ReadUvarint(r)
		if err != nil {
			return formatErr("header: %v", err)
		}
		u[i] = x
	}
	if u[2] > uint64(r.Len()) || u[1] > u[2] ||
		u[0] > u[2]*MaxMatchLen {
		return formatErr("header values out of range")
	}
	n, tokens, size := int(u[0]), int(u[1]), int(u[2])

	*b = Block{
		Data: b.Data[:0],
		Len:  n,
		refs: b.refs,
	}
	b.refs.init(size)
	br := bitio.NewReader(r)
	off := 0
	for k := 0; k < tokens; k++ {
		ref, err := br.ReadBool()
		if err != nil {
			return formatErr("kind bitmap: %v", err)
		}
		if ref {
			if off+2 > size {
				return formatErr("back-reference at offset %d exceeds token data", off)
			}
			b.refs.insert(off)
			off += 2
		} else {
			off++
		}
	}
	if off != size {
		return formatErr("%d tokens cover %d bytes; want %d", tokens, off, size)
	}
	br.Align()

	if r.Len() != size+8 {
		return formatErr("frame has %d trailing bytes; want %d",
			r.Len(), size+8)
	}
	b.Data = append(b.Data, make([]byte, size)...)
	if _, err := io.ReadFull(r, b.Data); err != nil {
		return formatErr("token data: %v", err)
	}
	var s [8]byte
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return formatErr("checksum: %v", err)
	}
	b.Sum = binary.LittleEndian.Uint64(s[:])
	return nil
}
