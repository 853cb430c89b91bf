package model

// Planet is the normalized domain representation of a SWAPI planet.
// A nil field means the upstream API reported the value as "unknown" (or,
// for OrbitalPeriod, returned something that is not an integer).
type Planet struct {
	ID            int     `json:"id"`
	Name          string  `json:"name"`
	Climate       *string `json:"climate"`
	OrbitalPeriod *int    `json:"orbitalPeriod"`
	Gravity       *string `json:"gravity"`
}

// Equal reports whether p and o describe the same planet, comparing the
// values behind the optional fields rather than their addresses.
func (p Planet) Equal(o Planet) bool {
	return p.ID == o.ID &&
		p.Name == o.Name &&
		equalPtr(p.Climate, o.Climate) &&
		equalPtr(p.OrbitalPeriod, o.OrbitalPeriod) &&
		equalPtr(p.Gravity, o.Gravity)
}

// EqualPlanets reports whether a and b hold equal planets in the same order.
func EqualPlanets(a, b []Planet) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StringPtr returns a pointer to s. Convenience for building planets.
func StringPtr(s string) *string {
	return &s
}

// IntPtr returns a pointer to n.
func IntPtr(n int) *int {
	return &n
}
