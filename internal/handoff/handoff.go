// Package handoff defines the payload passed from the planet list to the
// detail view so the detail view can render without a second fetch.
package handoff

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/planetexplorer/planetexplorer/internal/model"
)

// ErrMissingField is wrapped when a required field is absent from a payload.
var ErrMissingField = errors.New("missing required field")

// PlanetArg is the wire form of a planet crossing the list/detail boundary.
type PlanetArg struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Climate       *string `json:"climate"`
	OrbitalPeriod *int    `json:"orbitalPeriod"`
	Gravity       *string `json:"gravity"`
}

// decodeArg uses pointers for the required fields so absence can be told
// apart from a zero value.
type decodeArg struct {
	ID            *int    `json:"id"`
	Name          *string `json:"name"`
	Climate       *string `json:"climate"`
	OrbitalPeriod *int    `json:"orbitalPeriod"`
	Gravity       *string `json:"gravity"`
}

// FromPlanet builds the transfer object for p.
func FromPlanet(p model.Planet) PlanetArg {
	return PlanetArg{
		ID:            p.ID,
		Name:          p.Name,
		Climate:       p.Climate,
		OrbitalPeriod: p.OrbitalPeriod,
		Gravity:       p.Gravity,
	}
}

// Planet converts the transfer object back into a domain planet.
func (a PlanetArg) Planet() model.Planet {
	return model.Planet{
		ID:            a.ID,
		Name:          a.Name,
		Climate:       a.Climate,
		OrbitalPeriod: a.OrbitalPeriod,
		Gravity:       a.Gravity,
	}
}

// Encode serializes p as a JSON handoff payload.
func Encode(p model.Planet) (string, error) {
	b, err := json.Marshal(FromPlanet(p))
	if err != nil {
		return "", fmt.Errorf("encode planet handoff: %w", err)
	}
	return string(b), nil
}

// Decode parses a payload produced by Encode. Unknown keys, trailing data
// and a missing id or name are errors.
func Decode(payload string) (model.Planet, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))
	dec.DisallowUnknownFields()

	var raw decodeArg
	if err := dec.Decode(&raw); err != nil {
		return model.Planet{}, fmt.Errorf("decode planet handoff: %w", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return model.Planet{}, fmt.Errorf("decode planet handoff: unexpected data after payload")
	}
	if raw.ID == nil {
		return model.Planet{}, fmt.Errorf("decode planet handoff: %w %q", ErrMissingField, "id")
	}
	if raw.Name == nil {
		return model.Planet{}, fmt.Errorf("decode planet handoff: %w %q", ErrMissingField, "name")
	}

	return PlanetArg{
		ID:            *raw.ID,
		Name:          *raw.Name,
		Climate:       raw.Climate,
		OrbitalPeriod: raw.OrbitalPeriod,
		Gravity:       raw.Gravity,
	}.Planet(), nil
}
