// Package api implements the HTTP API for the Orbit Calculation Container.
//
// Two surfaces are exposed:
//
//   - GET /calculate — the original flat-JSON contract: two required query
//     parameters, a fixed 400 error body, and a plain result object.
//   - /api/v1/* — enveloped endpoints (health, central-body catalog, and a
//     stricter calculate variant with range validation and central-body
//     selection).
package api
