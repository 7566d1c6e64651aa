package conformance

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"

	"sigs.k8s.io/yaml"
)

// Suite describes a set of inputs to check and to measure. Suites are
// stored as YAML documents:
//
//	codecs: [lvss-exhaustive, lvss-streaming, zstd]
//	duration: 500ms
//	cases:
//	  - name: runs
//	    generator: repeat
//	    pattern: A
//	    size: 20
//	  - name: corpus
//	    file: testdata/alice.txt
type Suite struct {
	Codecs   []string `json:"codecs,omitempty"`
	Duration string   `json:"duration,omitempty"`
	Cases    []Case   `json:"cases"`
}

// Generators supported for the generation of case data.
const (
	GenRepeat   = "repeat"
	GenRandom   = "random"
	GenDistinct = "distinct"
	GenText     = "text"
)

// Case is a single input of a suite. Either File or Generator must be set.
type Case struct {
	Name string `json:"name"`
	// File is read relative to the directory of the suite.
	File      string `json:"file,omitempty"`
	Generator string `json:"generator,omitempty"`
	// Pattern is repeated by the repeat generator.
	Pattern string `json:"pattern,omitempty"`
	Size    int    `json:"size,omitempty"`
	Seed    int64  `json:"seed,omitempty"`
	// Alphabet restricts the bytes of the random generator.
	Alphabet string `json:"alphabet,omitempty"`
}

func (c *Case) verify() error {
	if c.Name == "" {
		return fmt.Errorf("conformance: case without name")
	}
	if (c.File == "") == (c.Generator == "") {
		return fmt.Errorf(
			"conformance: case %q: exactly one of file and generator required",
			c.Name)
	}
	if c.File != "" {
		return nil
	}
	if c.Size < 0 {
		return fmt.Errorf("conformance: case %q: negative size %d",
			c.Name, c.Size)
	}
	switch c.Generator {
	case GenRepeat:
		if c.Pattern == "" {
			return fmt.Errorf("conformance: case %q: pattern required",
				c.Name)
		}
	case GenRandom, GenText:
	case GenDistinct:
		if c.Size > 256 {
			return fmt.Errorf(
				"conformance: case %q: distinct size %d exceeds 256",
				c.Name, c.Size)
		}
	default:
		return fmt.Errorf("conformance: case %q: unknown generator %q",
			c.Name, c.Generator)
	}
	return nil
}

// Data returns the input of the case. Files are located relative to dir.
func (c *Case) Data(dir string) ([]byte, error) {
	if err := c.verify(); err != nil {
		return nil, err
	}
	if c.File != "" {
		name := c.File
		if !filepath.IsAbs(name) {
			name = filepath.Join(dir, name)
		}
		return os.ReadFile(name)
	}
	p := make([]byte, c.Size)
	switch c.Generator {
	case GenRepeat:
		for i := range p {
			p[i] = c.Pattern[i%len(c.Pattern)]
		}
	case GenRandom:
		r := rand.New(rand.NewSource(c.Seed))
		if c.Alphabet == "" {
			r.Read(p)
			break
		}
		for i := range p {
			p[i] = c.Alphabet[r.Intn(len(c.Alphabet))]
		}
	case GenDistinct:
		for i := range p {
			p[i] = byte(i)
		}
	case GenText:
		p = genText(p[:0], c.Size, c.Seed)
	}
	return p, nil
}

var words = strings.Fields(`the encoder substitutes a back reference for
	every run of at least two bytes that already occurred in the window of
	four thousand ninety six bytes preceding the position and emits a
	literal otherwise`)

// genText produces n bytes of text from a small vocabulary.
func genText(p []byte, n int, seed int64) []byte {
	r := rand.New(rand.NewSource(seed))
	for len(p) < n {
		if len(p) > 0 {
			p = append(p, ' ')
		}
		p = append(p, words[r.Intn(len(words))]...)
	}
	return p[:n]
}

func (s *Suite) verify() error {
	if len(s.Cases) == 0 {
		return fmt.Errorf("conformance: suite has no cases")
	}
	names := make(map[string]bool, len(s.Cases))
	for i := range s.Cases {
		c := &s.Cases[i]
		if err := c.verify(); err != nil {
			return err
		}
		if names[c.Name] {
			return fmt.Errorf("conformance: duplicate case %q", c.Name)
		}
		names[c.Name] = true
	}
	for _, name := range s.Codecs {
		if _, ok := codecs[name]; !ok {
			return fmt.Errorf("conformance: unknown codec %q", name)
		}
	}
	if _, err := s.duration(); err != nil {
		return err
	}
	return nil
}

// duration parses the Duration field; zero means the default.
func (s *Suite) duration() (time.Duration, error) {
	if s.Duration == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s.Duration)
	if err != nil {
		return 0, fmt.Errorf("conformance: suite duration: %w", err)
	}
	if d < 0 {
		return 0, fmt.Errorf("conformance: negative suite duration %s", d)
	}
	return d, nil
}

// ParseSuite parses a suite from its YAML representation. Unknown fields
// are rejected.
func ParseSuite(data []byte) (*Suite, error) {
	s := new(Suite)
	if err := yaml.UnmarshalStrict(data, s); err != nil {
		return nil, fmt.Errorf("conformance: parsing suite: %w", err)
	}
	if err := s.verify(); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSuite reads the suite file.
func LoadSuite(name string) (*Suite, error) {
	data, err := os.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return ParseSuite(data)
}

// FileSuite returns a suite with one case per file.
func FileSuite(files ...string) *Suite {
	s := new(Suite)
	for _, f := range files {
		s.Cases = append(s.Cases, Case{Name: f, File: f})
	}
	return s
}
