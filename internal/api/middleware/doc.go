// Package middleware provides HTTP middleware: CORS, rate limiting, and
// request ID correlation.
package middleware
