// Package logging provides structured logging built on zap.
//
// All process logs go to stderr so they can never interleave with a tool
// transport on stdout. Production builds emit JSON; development builds emit
// colored console output.
package logging
