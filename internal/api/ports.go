package api

import (
	"context"

	"github.com/orbital-control/occ/internal/orbit"
)

// CalculatorPort defines the minimal interface the API needs from the
// orbit calculator.
type CalculatorPort interface {
	Compute(ctx context.Context, elements orbit.Elements, body orbit.Body) (orbit.Parameters, error)
}

// Compile-time assertion for port conformance
var _ CalculatorPort = (*orbit.Calculator)(nil)
