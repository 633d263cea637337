package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/orbital-control/occ/internal/audit"
	"github.com/orbital-control/occ/internal/orbit"
)

// legacyErrorMessage is the fixed error body of the unversioned
// /calculate contract. It covers missing and unparseable parameters and
// the rejected non-positive semi-major axis.
const legacyErrorMessage = "Invalid or missing parameters"

// RegisterRoutes registers all endpoints.
func (s *Server) RegisterRoutes(router *mux.Router) {
	// Original flat-JSON contract.
	router.HandleFunc("/calculate", s.handleCalculate).Methods(http.MethodGet)

	// Versioned enveloped endpoints.
	apiV1 := router.PathPrefix("/api/v1").Subrouter()
	apiV1.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	apiV1.HandleFunc("/bodies", s.handleBodies).Methods(http.MethodGet)
	apiV1.HandleFunc("/orbits/calculate", s.handleOrbitCalculate).Methods(http.MethodGet)

	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusNotFound, "NOT_FOUND", "Resource not found", nil)
	})
	router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED",
			"Only GET method is allowed", nil)
	})
}

// handleCalculate handles GET /calculate.
//
// Success: 200 {"periapsis": km, "apoapsis": km, "orbital_period": s}.
// Missing/unparseable parameters and non-positive semi-major axes: 400 with
// the fixed legacy error body. Eccentricity is deliberately not
// range-checked here; the permissive contract predates the v1 endpoint.
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	semiMajorAxis, errA := parseQueryFloat(query, "semi_major_axis")
	eccentricity, errE := parseQueryFloat(query, "eccentricity")
	if errA != nil || errE != nil {
		writeLegacyError(w, http.StatusBadRequest, legacyErrorMessage)
		return
	}

	ctx := audit.WithSource(r.Context(), clientSource(r))
	elements := orbit.Elements{SemiMajorAxisKm: semiMajorAxis, Eccentricity: eccentricity}

	params, err := s.calculator.Compute(ctx, elements, orbit.Earth)
	if err != nil {
		if errors.Is(err, orbit.ErrNonPositiveAxis) || errors.Is(err, orbit.ErrNonPositiveMu) {
			writeLegacyError(w, http.StatusBadRequest, legacyErrorMessage)
			return
		}
		writeLegacyError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(params)
}

// handleOrbitCalculate handles GET /api/v1/orbits/calculate.
//
// Stricter than the legacy route: the semi-major axis must be positive and
// the eccentricity must describe a closed ellipse. An optional body query
// parameter selects the central body (default earth).
func (s *Server) handleOrbitCalculate(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	semiMajorAxis, errA := parseQueryFloat(query, "semi_major_axis")
	eccentricity, errE := parseQueryFloat(query, "eccentricity")
	if errA != nil || errE != nil {
		WriteError(w, http.StatusBadRequest, "BAD_REQUEST",
			"Malformed or missing required parameter", nil)
		return
	}

	if semiMajorAxis <= 0 {
		WriteError(w, http.StatusBadRequest, "INVALID_RANGE",
			"Semi-major axis must be positive", nil)
		return
	}
	if eccentricity < 0 || eccentricity >= 1 {
		WriteError(w, http.StatusBadRequest, "INVALID_RANGE",
			"Eccentricity must be in [0, 1) for a closed orbit", nil)
		return
	}

	body, err := orbit.LookupBody(query.Get("body"))
	if err != nil {
		writeAPIError(w, err)
		return
	}

	ctx := audit.WithSource(r.Context(), clientSource(r))
	elements := orbit.Elements{SemiMajorAxisKm: semiMajorAxis, Eccentricity: eccentricity}

	params, err := s.calculator.Compute(ctx, elements, body)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	meanMotion, err := orbit.MeanMotion(semiMajorAxis, body.Mu)
	if err != nil {
		writeAPIError(w, err)
		return
	}

	WriteSuccess(w, map[string]interface{}{
		"body":          body.Name,
		"elements":      elements,
		"parameters":    params,
		"meanMotionRad": meanMotion,
	})
}

// handleBodies handles GET /api/v1/bodies.
func (s *Server) handleBodies(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, orbit.Bodies())
}

// handleHealth handles GET /api/v1/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	uptime := 0.0
	if !s.startTime.IsZero() {
		uptime = time.Since(s.startTime).Seconds()
	}

	subsystems := map[string]bool{
		"calculator": s.calculator != nil,
	}

	health := map[string]interface{}{
		"status":     "ok",
		"uptimeSec":  uptime,
		"version":    Version,
		"subsystems": subsystems,
	}

	if !subsystems["calculator"] {
		health["status"] = "degraded"
		WriteError(w, http.StatusServiceUnavailable, "SERVICE_DEGRADED",
			"One or more subsystems are unavailable", health)
		return
	}

	WriteSuccess(w, health)
}

// parseQueryFloat returns the named query parameter as a finite float64.
// An absent value is an error: it must not coerce to zero. NaN and the
// infinities are rejected too; they slip through every range check and
// cannot be marshalled back out as JSON numbers.
func parseQueryFloat(query url.Values, name string) (float64, error) {
	if !query.Has(name) {
		return 0, fmt.Errorf("missing parameter %q", name)
	}
	value, err := strconv.ParseFloat(query.Get(name), 64)
	if err != nil {
		return 0, fmt.Errorf("parse parameter %q: %w", name, err)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("parameter %q is not a finite number", name)
	}
	return value, nil
}

func writeLegacyError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}
