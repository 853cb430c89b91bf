package swapi

import (
	"net/url"
	"strconv"
)

// PlanetDTO mirrors the SWAPI planet resource. Every field arrives as a
// string; numeric fields may hold the literal "unknown".
type PlanetDTO struct {
	Name          string `json:"name"`
	Climate       string `json:"climate"`
	OrbitalPeriod string `json:"orbital_period"`
	Gravity       string `json:"gravity"`
	URL           string `json:"url"` // absolute resource URL ending in the planet ID
}

// PlanetPage is one page of the paginated planets listing.
type PlanetPage struct {
	Results []PlanetDTO `json:"results"`
	Next    *string     `json:"next"` // nil on the last page
}

// NextPage returns the page number referenced by Next, if any.
func (p PlanetPage) NextPage() (int, bool) {
	if p.Next == nil || *p.Next == "" {
		return 0, false
	}
	u, err := url.Parse(*p.Next)
	if err != nil {
		return 0, false
	}
	n, err := strconv.Atoi(u.Query().Get("page"))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}
