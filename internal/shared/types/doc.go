// Package types defines shared data structures for TermBridge.
//
// It holds the service/tool metadata model that the provider layer exposes
// to automation clients, and the structured Result type every tool call
// returns so success is always distinguishable from each failure kind.
package types
