// Package ratelimit provides per-client token-bucket rate limiting for the
// HTTP API: a keyed limiter store with idle eviction, an http.Handler
// middleware, and an optional Redis-backed recorder for request statistics.
package ratelimit
