// Package resilience provides bounded retry with exponential backoff.
//
// OS scripting bridges (osascript, wt.exe) occasionally fail transiently;
// launch paths retry through this package. Errors wrapped with Permanent
// (invalid working directory, missing emulator) short-circuit the loop.
package resilience
