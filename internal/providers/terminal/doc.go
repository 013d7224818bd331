// Package terminal exposes the session registry as a tool provider: five
// operations (create_or_get, send_input, get_output, list, close) with
// JSON-friendly parameters and results. Domain errors come back as failed
// results with a stable error code; an unknown tool is the only hard error.
package terminal
