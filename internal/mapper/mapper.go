// Package mapper translates SWAPI wire records into domain planets.
package mapper

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/planetexplorer/planetexplorer/internal/model"
	"github.com/planetexplorer/planetexplorer/internal/swapi"
)

// unknownSentinel is what SWAPI reports in place of a missing value.
const unknownSentinel = "unknown"

// ErrInvalidID is wrapped by ParseError when a resource URL does not end in
// a decimal identifier.
var ErrInvalidID = errors.New("invalid planet id")

// ParseError reports a resource URL whose trailing segment is not an integer.
type ParseError struct {
	URL     string
	Segment string
	Err     error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse planet id from %q: segment %q: %v", e.URL, e.Segment, e.Err)
}

func (e *ParseError) Unwrap() []error {
	return []error{ErrInvalidID, e.Err}
}

// ToDomain converts a DTO into a Planet. The only failure is an
// unparsable ID segment; unknown or non-numeric optional values become nil.
func ToDomain(dto swapi.PlanetDTO) (model.Planet, error) {
	id, err := IDFromURL(dto.URL)
	if err != nil {
		return model.Planet{}, err
	}

	return model.Planet{
		ID:            id,
		Name:          dto.Name,
		Climate:       nullIfUnknown(dto.Climate),
		OrbitalPeriod: parseIntOrNil(dto.OrbitalPeriod),
		Gravity:       nullIfUnknown(dto.Gravity),
	}, nil
}

// ToDomainList maps every DTO in order. The first failing element aborts
// the whole conversion.
func ToDomainList(dtos []swapi.PlanetDTO) ([]model.Planet, error) {
	planets := make([]model.Planet, 0, len(dtos))
	for i, dto := range dtos {
		p, err := ToDomain(dto)
		if err != nil {
			return nil, fmt.Errorf("planet %d: %w", i, err)
		}
		planets = append(planets, p)
	}
	return planets, nil
}

// IDFromURL extracts the trailing numeric segment of a resource URL,
// ignoring any trailing slashes.
func IDFromURL(rawURL string) (int, error) {
	trimmed := strings.TrimRight(rawURL, "/")
	segment := trimmed[strings.LastIndex(trimmed, "/")+1:]

	n, err := strconv.ParseInt(segment, 10, 32)
	if err != nil {
		return 0, &ParseError{URL: rawURL, Segment: segment, Err: err}
	}
	return int(n), nil
}

func nullIfUnknown(s string) *string {
	if strings.EqualFold(s, unknownSentinel) {
		return nil
	}
	return &s
}

func parseIntOrNil(s string) *int {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return nil
	}
	v := int(n)
	return &v
}
