//go:build profile

package prof

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"

	_ "net/http/pprof" // Register HTTP handlers at /debug/pprof/
)

func init() {
	go func() {
		println(http.ListenAndServe("localhost:6060", nil))
	}()
}

// Profiling errors.
var (
	// ErrCPUProfileActive indicates CPU profiling is already active.
	ErrCPUProfileActive = errors.New("cpu profile already active")

	// ErrCPUProfileNotActive indicates CPU profiling is not active.
	ErrCPUProfileNotActive = errors.New("cpu profile not active")

	// ErrInvalidProfile indicates an invalid or unsupported profile type.
	ErrInvalidProfile = errors.New("invalid profile")
)

// Profile represents a pprof profile type.
type Profile string

// Profile type constants. When hunting faults in the sample pipeline,
// allocs and mutex are the interesting ones: the fill path must show up
// in neither.
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

// CPU profiling is a singleton in the runtime, so the start/stop pair
// is serialized here and double starts fail fast.
var (
	cpuMutex  sync.Mutex
	cpuOut    *os.File // non-nil only when profiling to a path we opened
	cpuActive bool
)

// StartCPU starts CPU profiling and writes the profile to the given
// path. Returns [ErrCPUProfileActive] if profiling is already active.
func StartCPU(path string) error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuActive {
		return ErrCPUProfileActive
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		return err
	}

	cpuOut = f
	cpuActive = true
	return nil
}

// StartCPUWriter starts CPU profiling streaming to w. The writer stays
// open after [StopCPU]; the caller owns it. Returns
// [ErrCPUProfileActive] if profiling is already active.
func StartCPUWriter(w io.Writer) error {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if cpuActive {
		return ErrCPUProfileActive
	}
	if err := pprof.StartCPUProfile(w); err != nil {
		return err
	}

	cpuActive = true
	return nil
}

// StopCPU stops CPU profiling and closes the output file if StartCPU
// opened one. Stopping when not active is a no-op.
func StopCPU() {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()

	if !cpuActive {
		return
	}

	pprof.StopCPUProfile()
	if cpuOut != nil {
		cpuOut.Close()
		cpuOut = nil
	}
	cpuActive = false
}

// IsCPUActive reports whether CPU profiling is currently active.
func IsCPUActive() bool {
	cpuMutex.Lock()
	defer cpuMutex.Unlock()
	return cpuActive
}

// Write snapshots the named profile to a file at path. CPU is not a
// snapshot profile: passing [ProfileCPU] returns [ErrInvalidProfile]
// (use [StartCPU]/[StopCPU]).
func Write(profile Profile, path string) error {
	if profile == ProfileCPU {
		printCPUProfileError()
		return ErrInvalidProfile
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return snapshot(profile, f, 0)
}

// WriteTo snapshots the named profile to w in binary protobuf format.
// Passing [ProfileCPU] returns [ErrInvalidProfile].
func WriteTo(profile Profile, w io.Writer) error {
	return WriteToDebug(profile, w, 0)
}

// WriteToDebug snapshots the named profile to w at the given debug
// level: 0 is binary protobuf for go tool pprof, 1 is human-readable
// text. Passing [ProfileCPU] returns [ErrInvalidProfile].
func WriteToDebug(profile Profile, w io.Writer, debug int) error {
	if profile == ProfileCPU {
		printCPUProfileError()
		return ErrInvalidProfile
	}
	return snapshot(profile, w, debug)
}

func snapshot(profile Profile, w io.Writer, debug int) error {
	p := pprof.Lookup(string(profile))
	if p == nil {
		return ErrInvalidProfile
	}
	return p.WriteTo(w, debug)
}

// printCPUProfileError tells the operator on stderr how CPU profiling
// differs from the snapshot profiles.
func printCPUProfileError() {
	fmt.Fprint(os.Stderr, `prof: CPU profiling requires StartCPU/StopCPU:

	prof.StartCPU("cpu.prof")
	defer prof.StopCPU()
`)
}

// SetBlockProfileRate controls the fraction of goroutine blocking
// events recorded in the block profile: the average number of
// nanoseconds blocked before an event is sampled. 0 disables, 1 records
// everything.
func SetBlockProfileRate(rate int) {
	runtime.SetBlockProfileRate(rate)
}

// SetMutexProfileFraction controls the fraction of mutex contention
// events recorded in the mutex profile: on average 1/rate events are
// sampled. 0 disables, 1 records everything.
func SetMutexProfileFraction(rate int) {
	runtime.SetMutexProfileFraction(rate)
}
