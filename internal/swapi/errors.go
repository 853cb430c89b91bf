package swapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the API responds 404 for a resource.
var ErrNotFound = errors.New("not found")

// HTTPError is returned for any non-2xx response from the API.
type HTTPError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("swapi: %s returned status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("swapi: %s returned status %d: %s", e.URL, e.StatusCode, e.Body)
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == 404
}
