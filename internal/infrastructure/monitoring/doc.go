// Package monitoring provides Prometheus metrics for TermBridge.
//
// Collected metrics cover HTTP traffic, session lifecycle, window launch
// attempts/latency, and input/output channel activity. Collectors are
// registered on a caller-supplied registry so tests can create them freely.
package monitoring
