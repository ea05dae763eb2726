package collect

import (
	"context"
	"fmt"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/load"

	"github.com/sysreport-dev/sysreport/internal/probe"
)

// cpuSampleWindow is the delta-sampling interval used in full mode. Fast
// mode passes 0 for an instant reading instead.
const cpuSampleWindow = 200 * time.Millisecond

func collectCPU(ctx context.Context, mode Mode, p probe.Platform) (CPUInfo, error) {
	infos, err := cpu.InfoWithContext(ctx)
	if err != nil {
		return CPUInfo{}, fmt.Errorf("cpu info: %w", err)
	}
	if len(infos) == 0 {
		return CPUInfo{}, fmt.Errorf("cpu info: no processors reported")
	}

	cores, err := cpu.CountsWithContext(ctx, true)
	if err != nil || cores <= 0 {
		cores = len(infos)
	}

	info := CPUInfo{
		Model:        infos[0].ModelName,
		LogicalCores: cores,
		FrequencyMHz: infos[0].Mhz,
	}

	window := cpuSampleWindow
	if mode == Fast {
		window = 0
	}
	if samples, err := cpu.PercentWithContext(ctx, window, false); err == nil && len(samples) > 0 {
		usage := samples[0]
		info.UsagePercent = &usage
	}

	info.Load1, info.Load5, info.Load15 = loadAverages(ctx, mode, cores, info.UsagePercent, p.HasLoadAverages())

	if mode.AllowSlow() {
		if n, ok := p.SocketCount(); ok {
			info.Sockets = &n
		}
	}

	return info, nil
}

// loadAverages normalizes the kernel load averages to percent of logical
// cores, capped at 100. hasNative is the platform capability: where the
// kernel keeps no load averages (Windows), the current usage sample is
// substituted in full mode and absence reported in fast mode. The load
// library cannot signal that itself: its Windows sampler returns zeros
// with a nil error, so the capability has to come from the adapter.
func loadAverages(ctx context.Context, mode Mode, cores int, usage *float64, hasNative bool) (l1, l5, l15 *float64) {
	if hasNative {
		avg, err := load.AvgWithContext(ctx)
		if err != nil || avg == nil {
			return nil, nil, nil
		}
		return normalizeLoad(avg.Load1, cores), normalizeLoad(avg.Load5, cores), normalizeLoad(avg.Load15, cores)
	}

	if mode == Fast || usage == nil {
		return nil, nil, nil
	}
	l1 = clampPtr(usage)
	l5 = clampPtr(usage)
	l15 = clampPtr(usage)
	return l1, l5, l15
}

func normalizeLoad(loadAvg float64, cores int) *float64 {
	if cores <= 0 {
		cores = 1
	}
	pct := clamp(loadAvg / float64(cores) * 100.0)
	return &pct
}
