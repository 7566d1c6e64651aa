package conformance

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/flate"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"golang.org/x/exp/slices"

	"github.com/ulikunitz/lvss"
)

// Codec describes a compressor whose throughput and compression ratio can be
// measured.
type Codec interface {
	// Name is the name of the compression algorithm.
	Name() string
	// Compress appends the compressed contents of src to dst and
	// returns the result.
	Compress(dst, src []byte) ([]byte, error)
	// Decompress appends the decompressed contents of src to dst and
	// returns the result.
	Decompress(dst, src []byte) ([]byte, error)
}

// lvssCodec compresses into lvss frames using the given strategy.
type lvssCodec struct {
	enc *lvss.Encoder
	blk lvss.Block
}

func newLVSSCodec(s lvss.Strategy) (*lvssCodec, error) {
	enc, err := lvss.EncoderOptions{Strategy: s}.NewEncoder()
	if err != nil {
		return nil, err
	}
	return &lvssCodec{enc: enc}, nil
}

func (c *lvssCodec) Name() string {
	return "lvss-" + strings.ToLower(c.enc.Options().Strategy.String())
}

func (c *lvssCodec) Compress(dst, src []byte) ([]byte, error) {
	if err := c.enc.EncodeBytes(&c.blk, src); err != nil {
		return dst, err
	}
	frame, err := c.blk.MarshalBinary()
	if err != nil {
		return dst, err
	}
	return append(dst, frame...), nil
}

func (c *lvssCodec) Decompress(dst, src []byte) ([]byte, error) {
	p, err := lvss.Decompress(src)
	if err != nil {
		return dst, err
	}
	return append(dst, p...), nil
}

type s2Codec struct{}

func (s2Codec) Name() string { return "s2" }

func (s2Codec) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, s2.Encode(nil, src)...), nil
}

func (s2Codec) Decompress(dst, src []byte) ([]byte, error) {
	p, err := s2.Decode(nil, src)
	if err != nil {
		return dst, err
	}
	return append(dst, p...), nil
}

type zstdCodec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

func newZstdCodec() (*zstdCodec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderConcurrency(1),
		zstd.WithZeroFrames(true))
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(nil, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return &zstdCodec{enc: enc, dec: dec}, nil
}

func (z *zstdCodec) Name() string { return "zstd" }

func (z *zstdCodec) Compress(dst, src []byte) ([]byte, error) {
	return z.enc.EncodeAll(src, dst), nil
}

func (z *zstdCodec) Decompress(dst, src []byte) ([]byte, error) {
	return z.dec.DecodeAll(src, dst)
}

type snappyCodec struct{}

func (snappyCodec) Name() string { return "snappy" }

func (snappyCodec) Compress(dst, src []byte) ([]byte, error) {
	return append(dst, snappy.Encode(nil, src)...), nil
}

func (snappyCodec) Decompress(dst, src []byte) ([]byte, error) {
	p, err := snappy.Decode(nil, src)
	if err != nil {
		return dst, err
	}
	return append(dst, p...), nil
}

// lz4Codec uses the lz4 block format. The block is preceded by the
// uncompressed length and a flag byte, because incompressible blocks are
// stored verbatim.
type lz4Codec struct {
	c lz4.Compressor
}

func (c *lz4Codec) Name() string { return "lz4" }

func (c *lz4Codec) Compress(dst, src []byte) ([]byte, error) {
	dst = binary.AppendUvarint(dst, uint64(len(src)))
	buf := make([]byte, lz4.CompressBlockBound(len(src)))
	n, err := c.c.CompressBlock(src, buf)
	if err != nil {
		return dst, err
	}
	if n == 0 || n >= len(src) {
		dst = append(dst, 0)
		return append(dst, src...), nil
	}
	dst = append(dst, 1)
	return append(dst, buf[:n]...), nil
}

func (c *lz4Codec) Decompress(dst, src []byte) ([]byte, error) {
	u, k := binary.Uvarint(src)
	if k <= 0 || k >= len(src) {
		return dst, fmt.Errorf("lz4: invalid block header")
	}
	src = src[k:]
	if src[0] == 0 {
		return append(dst, src[1:]...), nil
	}
	if u > uint64(len(src))*255 {
		return dst, fmt.Errorf("lz4: invalid block length %d", u)
	}
	p := make([]byte, u)
	n, err := lz4.UncompressBlock(src[1:], p)
	if err != nil {
		return dst, err
	}
	return append(dst, p[:n]...), nil
}

type flateCodec struct{ level int }

func (c flateCodec) Name() string { return "flate" }

func (c flateCodec) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w, err := flate.NewWriter(buf, c.level)
	if err != nil {
		return dst, err
	}
	if _, err = w.Write(src); err != nil {
		return dst, err
	}
	if err = w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c flateCodec) Decompress(dst, src []byte) ([]byte, error) {
	r := flate.NewReader(bytes.NewReader(src))
	defer r.Close()
	buf := bytes.NewBuffer(dst)
	if _, err := io.Copy(buf, r); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

type brotliCodec struct{ level int }

func (c brotliCodec) Name() string { return "brotli" }

func (c brotliCodec) Compress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	w := brotli.NewWriterLevel(buf, c.level)
	if _, err := w.Write(src); err != nil {
		return dst, err
	}
	if err := w.Close(); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

func (c brotliCodec) Decompress(dst, src []byte) ([]byte, error) {
	buf := bytes.NewBuffer(dst)
	if _, err := io.Copy(buf, brotli.NewReader(bytes.NewReader(src))); err != nil {
		return dst, err
	}
	return buf.Bytes(), nil
}

// codecs maps the supported names to constructors.
var codecs = map[string]func() (Codec, error){
	"lvss-exhaustive": func() (Codec, error) { return newLVSSCodec(lvss.Exhaustive) },
	"lvss-streaming":  func() (Codec, error) { return newLVSSCodec(lvss.Streaming) },
	"s2":              func() (Codec, error) { return s2Codec{}, nil },
	"zstd":            func() (Codec, error) { return newZstdCodec() },
	"snappy":          func() (Codec, error) { return snappyCodec{}, nil },
	"lz4":             func() (Codec, error) { return new(lz4Codec), nil },
	"flate":           func() (Codec, error) { return flateCodec{level: flate.DefaultCompression}, nil },
	"brotli":          func() (Codec, error) { return brotliCodec{level: brotli.DefaultCompression}, nil },
}

// DefaultCodecs are measured if no codecs are selected.
var DefaultCodecs = []string{"lvss-exhaustive", "lvss-streaming"}

// CodecNames returns the names of all supported codecs in sorted order.
func CodecNames() []string {
	names := make([]string, 0, len(codecs))
	for name := range codecs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// NewCodec creates the codec with the given name.
func NewCodec(name string) (Codec, error) {
	f, ok := codecs[name]
	if !ok {
		return nil, fmt.Errorf("conformance: unknown codec %q; supported %s",
			name, strings.Join(CodecNames(), ", "))
	}
	return f()
}
