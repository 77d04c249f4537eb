// Package pkg provides shared utilities for the usbdac audio device stack.
//
// This package contains common functionality used across the USB control
// plane and the real-time sample pipeline, including:
//
//   - Structured logging via Go's standard [log/slog] package
//   - Sentinel error types for streaming and control faults
//   - Component identifiers for log filtering
//
// The package is designed to have zero external dependencies, relying
// only on the Go standard library.
//
// # Logging
//
// The logging subsystem wraps [log/slog] with device-specific context:
//
//	pkg.SetLogLevel(slog.LevelDebug)
//	pkg.LogInfo(pkg.ComponentControl, "stream activated", "rate", 48000)
//
// Logging must never be used from the sample-clock context; the engine's
// per-cycle handler runs under a hard deadline and only bumps counters.
//
// # Errors
//
// Streaming faults are defined as sentinel values:
//
//	if errors.Is(err, pkg.ErrUnderrun) {
//	    // Substitute silence, count, continue
//	}
//
// Faults in the streaming path are absorbed and counted rather than
// propagated; an audio device must keep its USB presence alive through
// transient glitches. Only control-layer rejections (unsupported format)
// surface to the host as stalled requests.
package pkg
