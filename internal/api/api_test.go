package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orbital-control/occ/internal/orbit"
	"github.com/orbital-control/occ/internal/ratelimit"
)

func newTestHandler(t *testing.T, opts ...Option) http.Handler {
	t.Helper()

	log := logrus.New()
	log.SetOutput(io.Discard)

	opts = append([]Option{WithLogger(log)}, opts...)
	server := NewServer(orbit.NewCalculator(), 30*time.Second, 30*time.Second, 120*time.Second, opts...)
	return server.Handler()
}

func get(handler http.Handler, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "192.0.2.10:40000"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func TestCalculateRoundTrip(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/calculate?semi_major_axis=7000&eccentricity=0.01")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

	var result orbit.Parameters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))

	assert.InDelta(t, 6930.00, result.PeriapsisKm, 0.005)
	assert.InDelta(t, 7070.00, result.ApoapsisKm, 0.005)
	assert.InDelta(t, 5828.52, result.PeriodSec, 0.01)
	assert.InDelta(t, 97.14, result.PeriodSec/60, 0.01)

	// The HTTP layer must agree with direct function calls.
	period, err := orbit.Period(7000, orbit.EarthMu)
	require.NoError(t, err)
	assert.Equal(t, orbit.Periapsis(7000, 0.01), result.PeriapsisKm)
	assert.Equal(t, orbit.Apoapsis(7000, 0.01), result.ApoapsisKm)
	assert.Equal(t, period, result.PeriodSec)
}

func TestCalculateFlatBodyShape(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/calculate?semi_major_axis=7000&eccentricity=0.01")
	require.Equal(t, http.StatusOK, rec.Code)

	var raw map[string]float64
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &raw))

	// The legacy contract is a flat object with exactly these keys.
	assert.Len(t, raw, 3)
	assert.Contains(t, raw, "periapsis")
	assert.Contains(t, raw, "apoapsis")
	assert.Contains(t, raw, "orbital_period")
}

func TestCalculateMissingParameters(t *testing.T) {
	handler := newTestHandler(t)

	targets := []string{
		"/calculate",
		"/calculate?semi_major_axis=7000",
		"/calculate?eccentricity=0.01",
	}

	for _, target := range targets {
		rec := get(handler, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target: %s", target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, map[string]string{"error": "Invalid or missing parameters"}, body)
	}
}

func TestCalculateNonNumericParameter(t *testing.T) {
	handler := newTestHandler(t)

	// strconv.ParseFloat accepts NaN/Inf spellings; the contract does not.
	targets := []string{
		"/calculate?semi_major_axis=abc&eccentricity=0.01",
		"/calculate?semi_major_axis=NaN&eccentricity=0.01",
		"/calculate?semi_major_axis=7000&eccentricity=NaN",
		"/calculate?semi_major_axis=Inf&eccentricity=0.01",
		"/calculate?semi_major_axis=-Inf&eccentricity=0.01",
	}

	for _, target := range targets {
		rec := get(handler, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target: %s", target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "target: %s", target)
		assert.Equal(t, "Invalid or missing parameters", body["error"], "target: %s", target)
	}
}

func TestCalculateRejectsNonPositiveAxis(t *testing.T) {
	handler := newTestHandler(t)

	for _, target := range []string{
		"/calculate?semi_major_axis=0&eccentricity=0.01",
		"/calculate?semi_major_axis=-7000&eccentricity=0.01",
	} {
		rec := get(handler, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "target: %s", target)

		var body map[string]string
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "Invalid or missing parameters", body["error"])
	}
}

func TestCalculateKeepsPermissiveEccentricity(t *testing.T) {
	handler := newTestHandler(t)

	// The legacy contract never range-checked eccentricity.
	rec := get(handler, "/calculate?semi_major_axis=7000&eccentricity=1.5")
	require.Equal(t, http.StatusOK, rec.Code)

	var result orbit.Parameters
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.InDelta(t, -3500.0, result.PeriapsisKm, 1e-9)
	assert.InDelta(t, 17500.0, result.ApoapsisKm, 1e-9)
}

func TestCalculateMethodNotAllowed(t *testing.T) {
	handler := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/calculate?semi_major_axis=7000&eccentricity=0.01", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "METHOD_NOT_ALLOWED", resp.Code)
}

func TestUnknownRouteNotFound(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", resp.Code)
}

func TestOrbitCalculateEnvelope(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=0.01")
	require.Equal(t, http.StatusOK, rec.Code, "body: %s", rec.Body.String())

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "ok", resp.Result)
	assert.NotEmpty(t, resp.CorrelationID)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "earth", data["body"])

	params, ok := data["parameters"].(map[string]interface{})
	require.True(t, ok)
	assert.InDelta(t, 6930.0, params["periapsis"].(float64), 0.005)
	assert.InDelta(t, 7070.0, params["apoapsis"].(float64), 0.005)
	assert.InDelta(t, 5828.52, params["orbital_period"].(float64), 0.01)
	assert.Greater(t, data["meanMotionRad"].(float64), 0.0)
}

func TestOrbitCalculateCustomBody(t *testing.T) {
	handler := newTestHandler(t)

	earth := get(handler, "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=0.01")
	moon := get(handler, "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=0.01&body=moon")
	require.Equal(t, http.StatusOK, earth.Code)
	require.Equal(t, http.StatusOK, moon.Code)

	earthPeriod := decodeEnvelope(t, earth).Data.(map[string]interface{})["parameters"].(map[string]interface{})["orbital_period"].(float64)
	moonPeriod := decodeEnvelope(t, moon).Data.(map[string]interface{})["parameters"].(map[string]interface{})["orbital_period"].(float64)

	assert.Greater(t, moonPeriod, earthPeriod, "a weaker mu must lengthen the period")
}

func TestOrbitCalculateValidation(t *testing.T) {
	handler := newTestHandler(t)

	tests := []struct {
		name       string
		target     string
		wantStatus int
		wantCode   string
	}{
		{"missing params", "/api/v1/orbits/calculate", http.StatusBadRequest, "BAD_REQUEST"},
		{"non-numeric", "/api/v1/orbits/calculate?semi_major_axis=x&eccentricity=0.1", http.StatusBadRequest, "BAD_REQUEST"},
		{"NaN axis", "/api/v1/orbits/calculate?semi_major_axis=NaN&eccentricity=0.1", http.StatusBadRequest, "BAD_REQUEST"},
		{"NaN eccentricity", "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=NaN", http.StatusBadRequest, "BAD_REQUEST"},
		{"infinite axis", "/api/v1/orbits/calculate?semi_major_axis=Inf&eccentricity=0.1", http.StatusBadRequest, "BAD_REQUEST"},
		{"zero axis", "/api/v1/orbits/calculate?semi_major_axis=0&eccentricity=0.1", http.StatusBadRequest, "INVALID_RANGE"},
		{"negative eccentricity", "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=-0.1", http.StatusBadRequest, "INVALID_RANGE"},
		{"parabolic eccentricity", "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=1", http.StatusBadRequest, "INVALID_RANGE"},
		{"unknown body", "/api/v1/orbits/calculate?semi_major_axis=7000&eccentricity=0.1&body=phobos", http.StatusNotFound, "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(handler, tt.target)
			assert.Equal(t, tt.wantStatus, rec.Code)

			resp := decodeEnvelope(t, rec)
			assert.Equal(t, "error", resp.Result)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.CorrelationID)
		})
	}
}

func TestBodiesCatalog(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/api/v1/bodies")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	require.Equal(t, "ok", resp.Result)

	bodies, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.NotEmpty(t, bodies)

	first, ok := bodies[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "earth", first["name"])
	assert.InDelta(t, orbit.EarthMu, first["mu"].(float64), 1e-6)
}

func TestHealth(t *testing.T) {
	handler := newTestHandler(t)

	rec := get(handler, "/api/v1/health")
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeEnvelope(t, rec)
	require.Equal(t, "ok", resp.Result)

	data, ok := resp.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
	assert.Equal(t, Version, data["version"])

	subsystems, ok := data["subsystems"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, subsystems["calculator"])
}

func TestRateLimitedServer(t *testing.T) {
	store := ratelimit.NewStore(0.001, 1)
	handler := newTestHandler(t, WithRateLimit(ratelimit.Middleware(ratelimit.Options{Store: store})))

	first := get(handler, "/calculate?semi_major_axis=7000&eccentricity=0.01")
	require.Equal(t, http.StatusOK, first.Code)

	second := get(handler, "/calculate?semi_major_axis=7000&eccentricity=0.01")
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.NotEmpty(t, second.Header().Get("Retry-After"))
}

func TestCORSHeaderOnAllowedOrigin(t *testing.T) {
	handler := newTestHandler(t, WithCORSOrigins([]string{"https://ops.example"}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	req.Header.Set("Origin", "https://ops.example")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "https://ops.example", rec.Header().Get("Access-Control-Allow-Origin"))
}
