package conformance

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"
)

// DefaultDuration is the measurement duration per codec and case.
const DefaultDuration = time.Second

// Runner checks and measures the cases of a suite.
type Runner struct {
	// Logger receives progress messages; nil discards them.
	Logger *log.Logger
	// Codecs overrides the codecs of the suite.
	Codecs []string
	// Duration overrides the duration of the suite if it is positive.
	Duration time.Duration
}

// CaseReport contains the results for a single case.
type CaseReport struct {
	Name string `json:"name"`
	Size int    `json:"size"`
	// Error is the conformance failure; it is empty if the case passed.
	Error        string        `json:"error,omitempty"`
	Measurements []Measurement `json:"measurements,omitempty"`
}

// Report is the result of a run.
type Report struct {
	ID      string       `json:"id"`
	Started time.Time    `json:"started"`
	Cases   []CaseReport `json:"cases"`
}

// Failed returns the number of cases that failed.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Cases {
		if c.Error != "" {
			n++
		}
	}
	return n
}

func (r *Runner) logf(format string, args ...any) {
	if r.Logger != nil {
		r.Logger.Printf(format, args...)
	}
}

// Run runs the suite. Files of the suite are located relative to dir.
// Conformance failures are recorded in the report; errors are returned for
// unreadable cases and failing baseline codecs.
func (r *Runner) Run(s *Suite, dir string) (*Report, error) {
	if err := s.verify(); err != nil {
		return nil, err
	}
	d, _ := s.duration()
	if r.Duration > 0 {
		d = r.Duration
	}
	if d == 0 {
		d = DefaultDuration
	}
	names := s.Codecs
	if len(r.Codecs) > 0 {
		names = r.Codecs
	}
	if len(names) == 0 {
		names = DefaultCodecs
	}
	cs := make([]Codec, 0, len(names))
	for _, name := range names {
		c, err := NewCodec(name)
		if err != nil {
			return nil, err
		}
		cs = append(cs, c)
	}

	rep := &Report{ID: uuid.New().String(), Started: time.Now()}
	r.logf("run %s: %d cases, %d codecs", rep.ID, len(s.Cases), len(cs))
	for i := range s.Cases {
		c := &s.Cases[i]
		p, err := c.Data(dir)
		if err != nil {
			return rep, fmt.Errorf("conformance: case %q: %w", c.Name, err)
		}
		cr := CaseReport{Name: c.Name, Size: len(p)}
		if err = Check(p); err != nil {
			r.logf("case %s: FAIL %s", c.Name, err)
			cr.Error = err.Error()
			rep.Cases = append(rep.Cases, cr)
			continue
		}
		r.logf("case %s: %d bytes ok", c.Name, len(p))
		for _, codec := range cs {
			m, err := Measure(codec, p, d)
			if err != nil {
				return rep, fmt.Errorf("conformance: case %q: %w",
					c.Name, err)
			}
			cr.Measurements = append(cr.Measurements, m)
		}
		slices.SortFunc(cr.Measurements, func(a, b Measurement) int {
			return strings.Compare(a.Codec, b.Codec)
		})
		rep.Cases = append(rep.Cases, cr)
	}
	return rep, nil
}

// WriteText writes the report as a table.
func (r *Report) WriteText(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "run %s\t\t\t\t\t\t\n", r.ID)
	fmt.Fprintf(tw, "case\tcodec\tsize\tcompressed\tratio\tcomp MB/s\tdecomp MB/s\t\n")
	for _, c := range r.Cases {
		if c.Error != "" {
			fmt.Fprintf(tw, "%s\tFAIL\t%d\t\t\t\t\t\n", c.Name, c.Size)
			continue
		}
		for _, m := range c.Measurements {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%.3f\t%.1f\t%.1f\t\n",
				c.Name, m.Codec, m.Size, m.Compressed, m.Ratio(),
				m.CompressMBps(), m.DecompressMBps())
		}
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	for _, c := range r.Cases {
		if c.Error != "" {
			if _, err := fmt.Fprintf(w, "%s: %s\n", c.Name, c.Error); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteJSON writes the report in JSON format.
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
