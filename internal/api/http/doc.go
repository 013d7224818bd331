// Package http exposes the terminal session API over REST: session CRUD
// under /terminals, plus a /services surface mirroring the tool provider.
package http
