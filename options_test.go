package lvss

import (
	"encoding/json"
	"testing"
)

func TestEncoderOptionsJSON(t *testing.T) {
	opts := EncoderOptions{Strategy: Streaming}
	data, err := json.MarshalIndent(opts, "", "  ")
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}
	t.Logf("Marshalled JSON:\n%s", data)

	var optsG EncoderOptions
	if err := json.Unmarshal(data, &optsG); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}

	if optsG != opts {
		t.Fatalf("json.Unmarshal: got %+v; want %+v", optsG, opts)
	}
}

func TestStrategyText(t *testing.T) {
	var s Strategy
	if err := s.UnmarshalText([]byte("Foo")); err == nil {
		t.Fatalf("s.UnmarshalText(%q) returns no error", "Foo")
	}
	if _, err := Strategy(7).MarshalText(); err == nil {
		t.Fatalf("Strategy(7).MarshalText() returns no error")
	}
	for _, w := range []Strategy{Exhaustive, Streaming} {
		text, err := w.MarshalText()
		if err != nil {
			t.Fatalf("%s.MarshalText() error %s", w, err)
		}
		if err = s.UnmarshalText(text); err != nil {
			t.Fatalf("s.UnmarshalText(%q) error %s", text, err)
		}
		if s != w {
			t.Fatalf("s.UnmarshalText(%q) got %s; want %s", text, s, w)
		}
	}
}

func TestNewEncoder(t *testing.T) {
	e, err := EncoderOptions{}.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if s := e.Options().Strategy; s != Exhaustive {
		t.Fatalf("default strategy is %s; want %s", s, Exhaustive)
	}

	e, err = EncoderOptions{Strategy: Streaming}.NewEncoder()
	if err != nil {
		t.Fatalf("NewEncoder error %s", err)
	}
	if _, ok := e.Options().Device.(*Engine); !ok {
		t.Fatalf("streaming encoder device is %T; want *Engine",
			e.Options().Device)
	}

	opts := EncoderOptions{Strategy: Exhaustive, Device: NewEngine()}
	if _, err = opts.NewEncoder(); err == nil {
		t.Fatalf("NewEncoder with Device for %s returns no error",
			Exhaustive)
	}
	if _, err = (EncoderOptions{Strategy: 9}).NewEncoder(); err == nil {
		t.Fatalf("NewEncoder with unknown strategy returns no error")
	}
}
