package orbit

import (
	"context"
	"fmt"
)

// AuditSink records the outcome of each computation.
type AuditSink interface {
	LogComputation(ctx context.Context, body string, elements Elements, outcome string, err error)
}

// Calculator derives orbit parameters for API callers, resolving the
// default central body and recording an audit entry per computation.
type Calculator struct {
	audit AuditSink
}

// NewCalculator creates a calculator with no audit sink attached.
func NewCalculator() *Calculator {
	return &Calculator{}
}

// SetAuditSink attaches an audit sink; nil disables auditing.
func (c *Calculator) SetAuditSink(sink AuditSink) {
	c.audit = sink
}

// Compute derives the full parameter set for the given elements around
// the given central body. A zero-valued body resolves to Earth.
func (c *Calculator) Compute(ctx context.Context, elements Elements, body Body) (Parameters, error) {
	if body.Name == "" && body.Mu == 0 {
		body = Earth
	}

	period, err := Period(elements.SemiMajorAxisKm, body.Mu)
	if err != nil {
		c.record(ctx, body.Name, elements, "error", err)
		return Parameters{}, fmt.Errorf("compute period: %w", err)
	}

	params := Parameters{
		PeriapsisKm: Periapsis(elements.SemiMajorAxisKm, elements.Eccentricity),
		ApoapsisKm:  Apoapsis(elements.SemiMajorAxisKm, elements.Eccentricity),
		PeriodSec:   period,
	}

	c.record(ctx, body.Name, elements, "success", nil)
	return params, nil
}

func (c *Calculator) record(ctx context.Context, body string, elements Elements, outcome string, err error) {
	if c.audit == nil {
		return
	}
	c.audit.LogComputation(ctx, body, elements, outcome, err)
}
