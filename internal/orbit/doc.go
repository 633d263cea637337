// Package orbit implements closed-form two-body Keplerian computations:
// orbital period, periapsis and apoapsis distances, and mean motion, plus
// the catalog of central bodies used to resolve gravitational parameters.
//
// The pure functions are total over their numeric domain except where the
// expression itself is undefined (non-positive semi-major axis or
// gravitational parameter); those cases return sentinel domain errors
// instead of propagating NaN. Range validation of eccentricity is a
// boundary concern and lives in the API layer.
package orbit
