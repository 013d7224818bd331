// Package terminal implements the terminal session communication layer.
//
// A session is a real, user-visible terminal window, not a pipe-connected
// child process. Because the window's stdio is human-facing and cannot be
// captured directly, each platform launcher wires an indirect channel pair
// before returning:
//
//   - Input Channel: a named pipe serviced by a read/eval loop inside the
//     window's shell on unix-like platforms, or a polled control file
//     consumed by a batch loop on Windows and WSL.
//   - Output Sink: an append-only log file the shell mirrors its output
//     into (tee on unix, >> redirection on Windows), tail-read on demand.
//
// Components:
//   - Registry: process-wide session map; create-or-get by name, lookup,
//     listing, teardown. One coarse lock serializes identity allocation.
//   - Launcher: platform variants for macOS (AppleScript/Terminal.app),
//     Linux (emulator preference list), Windows (wt.exe or cmd.exe), and
//     WSL (Windows launcher reached through cmd.exe interop).
//   - Session: binds one window to its channel and sink, with serialized
//     sends and lock-free tail reads.
//   - Coordinator: idempotent shutdown hook closing every session on exit
//     or signal.
//
// Readiness is a handshake, not a sleep: every agent script writes a ready
// file as its first act after wiring redirection, and Launch blocks on that
// file (fsnotify plus ticker fallback) bounded by the launch timeout.
package terminal
