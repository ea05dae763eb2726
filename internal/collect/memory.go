package collect

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/mem"
)

func collectMemory(ctx context.Context, _ Mode) (MemoryInfo, error) {
	vmem, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return MemoryInfo{}, fmt.Errorf("virtual memory: %w", err)
	}

	info := MemoryInfo{
		RAMUsed:  vmem.Used,
		RAMTotal: vmem.Total,
	}

	// Swap is best-effort: some systems run without it.
	if swap, err := mem.SwapMemoryWithContext(ctx); err == nil {
		info.SwapUsed = swap.Used
		info.SwapTotal = swap.Total
	}

	return info, nil
}
