package collect

import (
	"context"
	"fmt"
	"runtime"

	"github.com/shirou/gopsutil/v3/host"
)

func collectOS(ctx context.Context, _ Mode) (OSInfo, error) {
	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return OSInfo{}, fmt.Errorf("host info: %w", err)
	}

	arch := info.KernelArch
	if arch == "" {
		arch = runtime.GOARCH
	}

	return OSInfo{
		Name:          info.Platform,
		Version:       info.PlatformVersion,
		Kernel:        info.KernelVersion,
		Arch:          arch,
		Hostname:      info.Hostname,
		UptimeSeconds: info.Uptime,
	}, nil
}
