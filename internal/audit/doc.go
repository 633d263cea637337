// Package audit provides append-only JSONL audit logging for orbit
// computations. Each computation produces one entry recording the request
// source, the central body, the input elements, and the outcome.
package audit
