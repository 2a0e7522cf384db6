package yamlutil

// Notes:
// - UnmarshalStrict: strictness on unknown fields, input guards

import (
	"errors"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

func TestUnmarshalStrict(t *testing.T) {
	t.Parallel()

	var s sample
	err := UnmarshalStrict([]byte("name: book\ncount: 3\n"), &s)
	if err != nil {
		t.Fatalf("UnmarshalStrict failed: %v", err)
	}
	if s.Name != "book" || s.Count != 3 {
		t.Errorf("got %+v", s)
	}
}

func TestUnmarshalStrictRejectsUnknownFields(t *testing.T) {
	t.Parallel()

	var s sample
	err := UnmarshalStrict([]byte("name: book\nbogus: true\n"), &s)
	if err == nil {
		t.Fatal("expected error for unknown field")
	}
}

func TestUnmarshalStrictGuards(t *testing.T) {
	t.Parallel()

	var s sample
	if err := UnmarshalStrict(nil, &s); !errors.Is(err, ErrNilData) {
		t.Errorf("nil data: got %v, want ErrNilData", err)
	}
	if err := UnmarshalStrict([]byte("name: x"), nil); !errors.Is(err, ErrNilDestination) {
		t.Errorf("nil destination: got %v, want ErrNilDestination", err)
	}

	big := []byte(strings.Repeat("x", MaxInputSize+1))
	if err := UnmarshalStrict(big, &s); !errors.Is(err, ErrInputTooLarge) {
		t.Errorf("oversized input: got %v, want ErrInputTooLarge", err)
	}
}
