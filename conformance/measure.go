package conformance

import (
	"bytes"
	"fmt"
	"time"
)

// Measurement describes the compression of a single buffer by a codec.
type Measurement struct {
	Codec string `json:"codec"`
	// Size is the length of the input and Compressed the length of
	// the compressed representation.
	Size       int `json:"size"`
	Compressed int `json:"compressed"`
	// Runs counts the compressions performed until the deadline.
	Runs int `json:"runs"`
	// fastest runs
	Compress   time.Duration `json:"compress_ns"`
	Decompress time.Duration `json:"decompress_ns"`
}

// Ratio returns the compression ratio.
func (m *Measurement) Ratio() float64 {
	if m.Compressed == 0 {
		return 0
	}
	return float64(m.Size) / float64(m.Compressed)
}

func mbps(n int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(n) / d.Seconds() / 1e6
}

// CompressMBps returns the compression throughput in MB/s.
func (m *Measurement) CompressMBps() float64 { return mbps(m.Size, m.Compress) }

// DecompressMBps returns the decompression throughput in MB/s.
func (m *Measurement) DecompressMBps() float64 {
	return mbps(m.Size, m.Decompress)
}

// Measure compresses and decompresses p with codec c repeatedly until the
// duration d has passed and records the fastest runs. At least one run is
// always made. The decompressed data must be identical to p.
func Measure(c Codec, p []byte, d time.Duration) (Measurement, error) {
	m := Measurement{Codec: c.Name(), Size: len(p)}
	var comp, tmp []byte
	var err error
	deadline := time.Now().Add(d)
	for m.Runs == 0 || time.Now().Before(deadline) {
		start := time.Now()
		comp, err = c.Compress(comp[:0], p)
		if err != nil {
			return m, fmt.Errorf("%s: compression error: %w", m.Codec, err)
		}
		dur := time.Since(start)
		if m.Compress == 0 || dur < m.Compress {
			m.Compress = dur
		}

		start = time.Now()
		tmp, err = c.Decompress(tmp[:0], comp)
		if err != nil {
			return m, fmt.Errorf("%s: decompression error: %w",
				m.Codec, err)
		}
		dur = time.Since(start)
		if m.Decompress == 0 || dur < m.Decompress {
			m.Decompress = dur
		}
		if !bytes.Equal(p, tmp) {
			return m, fmt.Errorf("%s: decompressed data differs from input",
				m.Codec)
		}
		m.Runs++
	}
	m.Compressed = len(comp)
	return m, nil
}
