package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/sysreport-dev/sysreport/internal/logging"
	"github.com/sysreport-dev/sysreport/internal/probe"
	"github.com/sysreport-dev/sysreport/internal/taskgroup"
)

var log = logging.L("collect")

// Collector task names. OS, CPU and memory are mandatory: their failure
// aborts the report. The rest degrade the snapshot with a warning.
var (
	mandatoryUnits = []string{"os", "cpu", "memory"}
	optionalUnits  = []string{"disk", "network", "session", "platform"}
)

// Orchestrator fans one collection run out over the seven collector
// units and assembles the results into a Snapshot. The unit functions
// are fields so tests can substitute failing or slow units.
type Orchestrator struct {
	osUnit       func(context.Context, Mode) (OSInfo, error)
	cpuUnit      func(context.Context, Mode) (CPUInfo, error)
	memoryUnit   func(context.Context, Mode) (MemoryInfo, error)
	diskUnit     func(context.Context, Mode) (DiskInfo, error)
	networkUnit  func(context.Context, Mode) (NetworkInfo, error)
	sessionUnit  func(context.Context, Mode) (SessionInfo, error)
	platformUnit func(context.Context, Mode) (probe.Info, error)
}

// NewOrchestrator wires the production units against the given platform
// probe adapter.
func NewOrchestrator(p probe.Platform) *Orchestrator {
	return &Orchestrator{
		osUnit:     collectOS,
		memoryUnit: collectMemory,
		diskUnit:   collectDisk,
		cpuUnit: func(ctx context.Context, mode Mode) (CPUInfo, error) {
			return collectCPU(ctx, mode, p)
		},
		networkUnit: func(ctx context.Context, mode Mode) (NetworkInfo, error) {
			return collectNetwork(ctx, mode, p)
		},
		sessionUnit: func(ctx context.Context, mode Mode) (SessionInfo, error) {
			return collectSession(ctx, mode, p)
		},
		platformUnit: func(ctx context.Context, mode Mode) (probe.Info, error) {
			return collectPlatform(ctx, mode, p)
		},
	}
}

// Collect runs all seven units concurrently, joins them unconditionally,
// and aggregates the results. Each unit writes to its own slot; there is
// no shared mutable state between tasks. A mandatory unit failure
// returns a nil snapshot; optional failures leave their section nil.
func (o *Orchestrator) Collect(ctx context.Context, mode Mode) (*Snapshot, error) {
	start := time.Now()

	var (
		osInfo   OSInfo
		cpuInfo  CPUInfo
		memInfo  MemoryInfo
		diskInfo DiskInfo
		netInfo  NetworkInfo
		sessInfo SessionInfo
		platInfo probe.Info
	)

	g := taskgroup.New()
	g.Go("os", func() (err error) {
		osInfo, err = o.osUnit(ctx, mode)
		return err
	})
	g.Go("cpu", func() (err error) {
		cpuInfo, err = o.cpuUnit(ctx, mode)
		return err
	})
	g.Go("memory", func() (err error) {
		memInfo, err = o.memoryUnit(ctx, mode)
		return err
	})
	g.Go("disk", func() (err error) {
		diskInfo, err = o.diskUnit(ctx, mode)
		return err
	})
	g.Go("network", func() (err error) {
		netInfo, err = o.networkUnit(ctx, mode)
		return err
	})
	g.Go("session", func() (err error) {
		sessInfo, err = o.sessionUnit(ctx, mode)
		return err
	})
	g.Go("platform", func() (err error) {
		platInfo, err = o.platformUnit(ctx, mode)
		return err
	})
	results := g.Wait()

	for _, name := range mandatoryUnits {
		if err := results[name]; err != nil {
			return nil, fmt.Errorf("%s collector: %w", name, err)
		}
	}

	var (
		disk *DiskInfo
		net  *NetworkInfo
		sess *SessionInfo
		plat *probe.Info
	)
	for _, name := range optionalUnits {
		if err := results[name]; err != nil {
			logging.WithCollector(log, name).Warn("optional collector failed", logging.KeyError, err)
		}
	}
	if results["disk"] == nil {
		disk = &diskInfo
	}
	if results["network"] == nil {
		net = &netInfo
	}
	if results["session"] == nil {
		sess = &sessInfo
	}
	if results["platform"] == nil {
		plat = &platInfo
	}

	snap := assemble(mode, time.Now(), osInfo, cpuInfo, memInfo, disk, net, sess, plat)

	log.Debug("collection finished",
		"mode", mode.String(), logging.KeyDurationMs, time.Since(start).Milliseconds())

	return snap, nil
}
