package orbit

import (
	"errors"
	"strings"
)

// ErrUnknownBody indicates a central body name outside the catalog.
var ErrUnknownBody = errors.New("unknown central body")

// Body pairs a central body name with its gravitational parameter.
type Body struct {
	Name string  `json:"name"`
	Mu   float64 `json:"mu"` // km^3/s^2
}

// Earth is the default central body.
var Earth = Body{Name: "earth", Mu: EarthMu}

// Gravitational parameters in km^3/s^2.
var catalog = []Body{
	Earth,
	{Name: "moon", Mu: 4902.800066},
	{Name: "mars", Mu: 42828.37},
	{Name: "venus", Mu: 324859.0},
	{Name: "jupiter", Mu: 126686531.9},
	{Name: "sun", Mu: 132712440018.0},
}

// Bodies returns the supported central bodies.
func Bodies() []Body {
	out := make([]Body, len(catalog))
	copy(out, catalog)
	return out
}

// LookupBody resolves a body by name, case-insensitively.
// An empty name resolves to Earth.
func LookupBody(name string) (Body, error) {
	if name == "" {
		return Earth, nil
	}
	needle := strings.ToLower(strings.TrimSpace(name))
	for _, b := range catalog {
		if b.Name == needle {
			return b, nil
		}
	}
	return Body{}, ErrUnknownBody
}
