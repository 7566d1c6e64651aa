package lvss

import "fmt"

// Strategy selects the match finder used by the encoder.
type Strategy int

const (
	// Exhaustive searches the whole window for every position.
	Exhaustive Strategy = 1 + iota
	// Streaming feeds the input byte by byte into a Device.
	Streaming
)

func (s Strategy) String() string {
	switch s {
	case Exhaustive:
		return "Exhaustive"
	case Streaming:
		return "Streaming"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

func (s Strategy) MarshalText() ([]byte, error) {
	switch s {
	case Exhaustive, Streaming:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("lvss: unknown Strategy %d", s)
	}
}

func (s *Strategy) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Exhaustive":
		*s = Exhaustive
		return nil
	case "Streaming":
		*s = Streaming
		return nil
	default:
		return fmt.Errorf("lvss: unknown Strategy %q", text)
	}
}

// EncoderOptions define the encoder to create.
type EncoderOptions struct {
	Strategy Strategy `json:",omitzero"`

	// Device is used by the Streaming strategy. If it is nil, a software
	// Engine is used.
	Device Device `json:"-"`
}

func (opts *EncoderOptions) setDefaults() {
	if opts.Strategy == 0 {
		opts.Strategy = Exhaustive
	}
	if opts.Strategy == Streaming && opts.Device == nil {
		opts.Device = NewEngine()
	}
}

func (opts *EncoderOptions) verify() error {
	switch opts.Strategy {
	case Exhaustive:
		if opts.Device != nil {
			return fmt.Errorf(
				"lvss: Device not supported by Strategy %s",
				opts.Strategy)
		}
	case Streaming:
		if opts.Device == nil {
			return fmt.Errorf("lvss: Strategy %s requires a Device",
				opts.Strategy)
		}
	default:
		return fmt.Errorf("lvss: unknown Strategy %d", opts.Strategy)
	}
	return nil
}

// NewEncoder creates a new encoder.
func (opts EncoderOptions) NewEncoder() (*Encoder, error) {
	opts.setDefaults()
	if err := opts.verify(); err != nil {
		return nil, err
	}
	return &Encoder{opts: opts}, nil
}
