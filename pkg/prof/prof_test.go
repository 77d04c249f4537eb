//go:build profile

package prof

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestStartStopCPU(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cpu.prof")

	if err := StartCPU(path); err != nil {
		t.Fatalf("StartCPU error: %v", err)
	}
	if !IsCPUActive() {
		t.Error("IsCPUActive() = false while profiling")
	}

	// The runtime profiler is a singleton; a second start fails fast.
	if err := StartCPU(filepath.Join(t.TempDir(), "cpu2.prof")); !errors.Is(err, ErrCPUProfileActive) {
		t.Errorf("second StartCPU = %v, want ErrCPUProfileActive", err)
	}

	StopCPU()
	if IsCPUActive() {
		t.Error("IsCPUActive() = true after StopCPU")
	}
	// Idempotent, and restartable.
	StopCPU()
	if err := StartCPU(path); err != nil {
		t.Errorf("StartCPU after StopCPU error: %v", err)
	}
	StopCPU()

	if info, err := os.Stat(path); err != nil {
		t.Errorf("profile file missing: %v", err)
	} else if info.Size() == 0 {
		t.Error("profile file is empty")
	}
}

func TestStartCPU_InvalidPath(t *testing.T) {
	if err := StartCPU("/nonexistent/directory/cpu.prof"); err == nil {
		StopCPU()
		t.Error("StartCPU into missing directory succeeded")
	}
}

func TestStartCPUWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := StartCPUWriter(&buf); err != nil {
		t.Fatalf("StartCPUWriter error: %v", err)
	}
	StopCPU()
	if buf.Len() == 0 {
		t.Error("no profile data streamed to writer")
	}
}

func TestWriteTo_SnapshotProfiles(t *testing.T) {
	for _, profile := range []Profile{
		ProfileHeap,
		ProfileAllocs,
		ProfileGoroutine,
		ProfileThreadCreate,
		ProfileBlock,
		ProfileMutex,
	} {
		t.Run(profile.String(), func(t *testing.T) {
			var buf bytes.Buffer
			if err := WriteTo(profile, &buf); err != nil {
				t.Fatalf("WriteTo(%v) error: %v", profile, err)
			}
			if buf.Len() == 0 {
				t.Errorf("WriteTo(%v) wrote no data", profile)
			}
		})
	}
}

func TestWriteToDebug_HumanReadable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteToDebug(ProfileGoroutine, &buf, 1); err != nil {
		t.Fatalf("WriteToDebug error: %v", err)
	}
	if !bytes.Contains(buf.Bytes(), []byte("goroutine")) {
		t.Error("debug output does not mention goroutines")
	}
}

func TestSnapshot_CPUProfileRejected(t *testing.T) {
	// CPU is streaming-only; every snapshot entry point rejects it.
	old := os.Stderr
	os.Stderr, _ = os.Open(os.DevNull)
	defer func() { os.Stderr = old }()

	var buf bytes.Buffer
	if err := Write(ProfileCPU, filepath.Join(t.TempDir(), "cpu.prof")); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("Write(ProfileCPU) = %v, want ErrInvalidProfile", err)
	}
	if err := WriteTo(ProfileCPU, &buf); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("WriteTo(ProfileCPU) = %v, want ErrInvalidProfile", err)
	}
	if err := WriteToDebug(ProfileCPU, &buf, 1); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("WriteToDebug(ProfileCPU) = %v, want ErrInvalidProfile", err)
	}
}

func TestSnapshot_UnknownProfile(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTo(Profile("nonexistent"), &buf); !errors.Is(err, ErrInvalidProfile) {
		t.Errorf("WriteTo(unknown) = %v, want ErrInvalidProfile", err)
	}
}

func TestProfile_String(t *testing.T) {
	if got := ProfileAllocs.String(); got != "allocs" {
		t.Errorf("ProfileAllocs.String() = %q, want %q", got, "allocs")
	}
}
