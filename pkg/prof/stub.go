//go:build !profile

package prof

import "io"

// The sentinels exist in both build flavors so callers can compare with
// errors.Is unconditionally; the stubs never return them.
var (
	// ErrCPUProfileActive indicates CPU profiling is already active.
	ErrCPUProfileActive error

	// ErrCPUProfileNotActive indicates CPU profiling is not active.
	ErrCPUProfileNotActive error

	// ErrInvalidProfile indicates an invalid or unsupported profile type.
	ErrInvalidProfile error
)

// Profile represents a pprof profile type.
type Profile string

// Profile type constants.
const (
	ProfileCPU          Profile = "cpu"
	ProfileHeap         Profile = "heap"
	ProfileAllocs       Profile = "allocs"
	ProfileGoroutine    Profile = "goroutine"
	ProfileThreadCreate Profile = "threadcreate"
	ProfileBlock        Profile = "block"
	ProfileMutex        Profile = "mutex"
)

// String returns the string representation of the profile type.
func (p Profile) String() string {
	return string(p)
}

// StartCPU does nothing without the "profile" build tag.
func StartCPU(_ string) error {
	return nil
}

// StartCPUWriter does nothing without the "profile" build tag.
func StartCPUWriter(_ io.Writer) error {
	return nil
}

// StopCPU does nothing without the "profile" build tag.
func StopCPU() {}

// IsCPUActive always reports false without the "profile" build tag.
func IsCPUActive() bool {
	return false
}

// Write does nothing without the "profile" build tag.
func Write(_ Profile, _ string) error {
	return nil
}

// WriteTo does nothing without the "profile" build tag.
func WriteTo(_ Profile, _ io.Writer) error {
	return nil
}

// WriteToDebug does nothing without the "profile" build tag.
func WriteToDebug(_ Profile, _ io.Writer, _ int) error {
	return nil
}

// SetBlockProfileRate does nothing without the "profile" build tag.
func SetBlockProfileRate(_ int) {}

// SetMutexProfileFraction does nothing without the "profile" build tag.
func SetMutexProfileFraction(_ int) {}
