package collect

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sysreport-dev/sysreport/internal/probe"
)

// testOrchestrator returns an orchestrator whose units all succeed with
// canned data. Individual tests overwrite the units they care about.
func testOrchestrator() *Orchestrator {
	return &Orchestrator{
		osUnit: func(context.Context, Mode) (OSInfo, error) {
			return OSInfo{Name: "linux", Hostname: "test"}, nil
		},
		cpuUnit: func(context.Context, Mode) (CPUInfo, error) {
			return CPUInfo{Model: "test cpu", LogicalCores: 4}, nil
		},
		memoryUnit: func(context.Context, Mode) (MemoryInfo, error) {
			return MemoryInfo{RAMUsed: 1, RAMTotal: 2}, nil
		},
		diskUnit: func(context.Context, Mode) (DiskInfo, error) {
			return DiskInfo{Disks: []DiskRecord{{Mountpoint: "/", Used: 1, Total: 2}}}, nil
		},
		networkUnit: func(context.Context, Mode) (NetworkInfo, error) {
			return NetworkInfo{}, nil
		},
		sessionUnit: func(context.Context, Mode) (SessionInfo, error) {
			return SessionInfo{Username: "alice"}, nil
		},
		platformUnit: func(context.Context, Mode) (probe.Info, error) {
			return probe.Info{}, nil
		},
	}
}

func TestCollectHappyPath(t *testing.T) {
	snap, err := testOrchestrator().Collect(context.Background(), Full)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if snap.OS.Hostname != "test" || snap.Session == nil || snap.Session.Username != "alice" {
		t.Fatalf("snapshot incomplete: %+v", snap)
	}
	if snap.Disk == nil || snap.Disk.Used != 1 || snap.Disk.Total != 2 {
		t.Fatalf("disk aggregate missing: %+v", snap.Disk)
	}
}

func TestMandatoryFailureAbortsReport(t *testing.T) {
	boom := errors.New("no cpu facts")
	o := testOrchestrator()
	o.cpuUnit = func(context.Context, Mode) (CPUInfo, error) {
		return CPUInfo{}, boom
	}

	snap, err := o.Collect(context.Background(), Full)
	if snap != nil {
		t.Fatal("mandatory failure must not produce a snapshot")
	}
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapped unit error", err)
	}
	if !strings.Contains(err.Error(), "cpu collector") {
		t.Fatalf("err = %v, want the failing collector named", err)
	}
}

func TestOptionalFailureDegradesSnapshot(t *testing.T) {
	o := testOrchestrator()
	o.diskUnit = func(context.Context, Mode) (DiskInfo, error) {
		return DiskInfo{}, errors.New("partitions unavailable")
	}
	o.platformUnit = func(context.Context, Mode) (probe.Info, error) {
		return probe.Info{}, errors.New("probe exploded")
	}

	snap, err := o.Collect(context.Background(), Full)
	if err != nil {
		t.Fatalf("optional failure must not abort: %v", err)
	}
	if snap.Disk != nil || snap.Platform != nil {
		t.Fatalf("failed optional sections must be nil: disk=%v platform=%v", snap.Disk, snap.Platform)
	}
	if snap.Network == nil || snap.Session == nil {
		t.Fatal("unrelated optional sections must survive")
	}
	if snap.Hypervisor != "Bare Metal" {
		t.Fatalf("hypervisor = %q, want default when platform failed", snap.Hypervisor)
	}
}

func TestUnitPanicIsIsolated(t *testing.T) {
	o := testOrchestrator()
	o.networkUnit = func(context.Context, Mode) (NetworkInfo, error) {
		panic("nil map write")
	}

	snap, err := o.Collect(context.Background(), Full)
	if err != nil {
		t.Fatalf("optional unit panic must not abort: %v", err)
	}
	if snap.Network != nil {
		t.Fatal("panicked unit's section must be nil")
	}
	if snap.Session == nil || snap.Disk == nil {
		t.Fatal("sibling units must be unaffected by the panic")
	}
}

func TestMandatoryPanicAbortsReport(t *testing.T) {
	o := testOrchestrator()
	o.memoryUnit = func(context.Context, Mode) (MemoryInfo, error) {
		panic("bad read")
	}

	snap, err := o.Collect(context.Background(), Full)
	if snap != nil || err == nil {
		t.Fatalf("mandatory panic must abort, got snap=%v err=%v", snap, err)
	}
}

func TestCollectJoinsAllUnitsUnconditionally(t *testing.T) {
	var finished atomic.Int32
	o := testOrchestrator()
	o.osUnit = func(context.Context, Mode) (OSInfo, error) {
		return OSInfo{}, errors.New("fail fast")
	}
	o.sessionUnit = func(context.Context, Mode) (SessionInfo, error) {
		time.Sleep(50 * time.Millisecond)
		finished.Add(1)
		return SessionInfo{}, nil
	}

	_, err := o.Collect(context.Background(), Full)
	if err == nil {
		t.Fatal("expected mandatory failure")
	}
	if finished.Load() != 1 {
		t.Fatal("slow unit must finish before Collect returns, even when a mandatory unit already failed")
	}
}

func TestCollectPassesModeToEveryUnit(t *testing.T) {
	var fastSeen atomic.Int32
	o := testOrchestrator()
	wrap := o.platformUnit
	o.platformUnit = func(ctx context.Context, mode Mode) (probe.Info, error) {
		if mode == Fast {
			fastSeen.Add(1)
		}
		return wrap(ctx, mode)
	}

	if _, err := o.Collect(context.Background(), Fast); err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if fastSeen.Load() != 1 {
		t.Fatal("mode must reach the units")
	}
}

func TestFastModeCompletesFasterThanFull(t *testing.T) {
	if testing.Short() {
		t.Skip("wall-clock comparison")
	}

	// The all-absent adapter keeps subprocesses out of both runs, so the
	// difference is the sampling window and the slow-probe gating.
	o := NewOrchestrator(probe.ForOS("plan9", nil))

	measure := func(mode Mode) time.Duration {
		start := time.Now()
		if _, err := o.Collect(context.Background(), mode); err != nil {
			t.Fatalf("Collect(%s): %v", mode, err)
		}
		return time.Since(start)
	}

	full := measure(Full)
	fast := measure(Fast)

	if fast >= full {
		t.Fatalf("fast run took %v, full took %v; fast must be quicker", fast, full)
	}
}
