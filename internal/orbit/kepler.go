package orbit

import (
	"errors"
	"math"
)

// EarthMu is the standard gravitational parameter for Earth in km^3/s^2.
// It is the default when no central body is specified.
const EarthMu = 398600.4418

// Domain errors for inputs that make the period expression undefined.
var (
	ErrNonPositiveAxis = errors.New("semi-major axis must be positive")
	ErrNonPositiveMu   = errors.New("gravitational parameter must be positive")
)

// Elements holds the shape parameters of an orbit as supplied by a caller.
// Units: kilometers for the semi-major axis; eccentricity is unitless and
// expected in [0, 1) for a closed ellipse.
type Elements struct {
	SemiMajorAxisKm float64 `json:"semi_major_axis"`
	Eccentricity    float64 `json:"eccentricity"`
}

// Parameters holds the derived orbit quantities for a single computation.
type Parameters struct {
	PeriapsisKm float64 `json:"periapsis"`
	ApoapsisKm  float64 `json:"apoapsis"`
	PeriodSec   float64 `json:"orbital_period"`
}

// Period returns the orbital period in seconds: 2*pi*sqrt(a^3/mu).
// Rejects non-positive inputs rather than producing NaN.
func Period(semiMajorAxisKm, mu float64) (float64, error) {
	if semiMajorAxisKm <= 0 {
		return 0, ErrNonPositiveAxis
	}
	if mu <= 0 {
		return 0, ErrNonPositiveMu
	}
	return 2 * math.Pi * math.Sqrt(math.Pow(semiMajorAxisKm, 3)/mu), nil
}

// Periapsis returns the closest distance from the focus in kilometers.
func Periapsis(semiMajorAxisKm, eccentricity float64) float64 {
	return semiMajorAxisKm * (1 - eccentricity)
}

// Apoapsis returns the farthest distance from the focus in kilometers.
func Apoapsis(semiMajorAxisKm, eccentricity float64) float64 {
	return semiMajorAxisKm * (1 + eccentricity)
}

// MeanMotion returns the mean angular rate in rad/s: sqrt(mu/a^3).
// Same domain rules as Period.
func MeanMotion(semiMajorAxisKm, mu float64) (float64, error) {
	if semiMajorAxisKm <= 0 {
		return 0, ErrNonPositiveAxis
	}
	if mu <= 0 {
		return 0, ErrNonPositiveMu
	}
	return math.Sqrt(mu / math.Pow(semiMajorAxisKm, 3)), nil
}
