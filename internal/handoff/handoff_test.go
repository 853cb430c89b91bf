package handoff

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/planetexplorer/planetexplorer/internal/model"
)

func TestRoundTrip(t *testing.T) {
	planets := []model.Planet{
		{ID: 1, Name: "Tatooine", Climate: model.StringPtr("arid"), OrbitalPeriod: model.IntPtr(304), Gravity: model.StringPtr("1 standard")},
		{ID: 10, Name: "Kamino"},
		{ID: 28, Name: "", Climate: model.StringPtr(""), OrbitalPeriod: model.IntPtr(0)},
	}
	for _, p := range planets {
		t.Run(p.Name, func(t *testing.T) {
			payload, err := Encode(p)
			if err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(payload)
			if err != nil {
				t.Fatalf("Decode(%s): %v", payload, err)
			}
			if diff := cmp.Diff(p, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEncodeSchema(t *testing.T) {
	payload, err := Encode(model.Planet{ID: 10, Name: "Kamino", OrbitalPeriod: model.IntPtr(463)})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	want := `{"id":10,"name":"Kamino","climate":null,"orbitalPeriod":463,"gravity":null}`
	if payload != want {
		t.Errorf("Encode() = %s, want %s", payload, want)
	}
}

func TestDecodeNullableKeysOptional(t *testing.T) {
	got, err := Decode(`{"id":3,"name":"Yavin IV"}`)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got.ID != 3 || got.Name != "Yavin IV" || got.Climate != nil {
		t.Errorf("Decode() = %+v", got)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		missing bool
	}{
		{"empty", "", false},
		{"not json", "Tatooine", false},
		{"truncated", `{"id":1,"name":"Tat`, false},
		{"wrong type", `{"id":"one","name":"Tatooine"}`, false},
		{"unknown key", `{"id":1,"name":"Tatooine","terrain":"desert"}`, false},
		{"trailing data", `{"id":1,"name":"Tatooine"} {}`, false},
		{"missing id", `{"name":"Tatooine"}`, true},
		{"missing name", `{"id":1}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(tt.payload)
			if err == nil {
				t.Fatalf("Decode(%q) expected error", tt.payload)
			}
			if err.Error() == "" {
				t.Error("error message should not be empty")
			}
			if got := errors.Is(err, ErrMissingField); got != tt.missing {
				t.Errorf("errors.Is(ErrMissingField) = %v, want %v", got, tt.missing)
			}
		})
	}
}
