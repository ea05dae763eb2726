package render

import (
	"fmt"

	"github.com/sysreport-dev/sysreport/internal/collect"
)

// Options are the render knobs. They only affect presentation; the
// snapshot is read-only.
type Options struct {
	Title    string
	Subtitle string
	ASCII    bool
	NoColor  bool
}

const (
	titleStyle = "\x1b[1;36m"
	styleReset = "\x1b[0m"
)

// gpuJoinThreshold is the largest GPU count that still gets one row per
// device; anything above is compacted into a single joined row.
const gpuJoinThreshold = 3

// Report renders the snapshot as the fixed-width box table. It is a pure
// function of its inputs.
func Report(snap *collect.Snapshot, opts Options) string {
	cs := charsetFor(opts.ASCII)
	t := newTable(cs)

	t.top()
	if opts.NoColor {
		t.centered(opts.Title)
	} else {
		t.centeredStyled(opts.Title, titleStyle, styleReset)
	}
	if opts.Subtitle != "" {
		t.centered(opts.Subtitle)
	}

	t.divider()
	osSection(t, snap)
	t.divider()
	networkSection(t, snap)
	t.divider()
	cpuSection(t, snap, cs)
	if snap.Disk != nil && len(snap.Disk.Disks) > 0 {
		t.divider()
		diskSection(t, snap.Disk, cs)
	}
	t.divider()
	memorySection(t, snap.Memory, cs)
	t.divider()
	sessionSection(t, snap)
	t.bottom()

	return t.String()
}

func osSection(t *table, snap *collect.Snapshot) {
	t.row("OS", osLine(snap))
	t.row("KERNEL", snap.OS.Kernel)
	t.row("ARCH", snap.OS.Arch)
}

// osLine folds the platform extras into the OS row: the Windows edition
// replaces the generic name, the macOS codename is appended.
func osLine(snap *collect.Snapshot) string {
	line := snap.OS.Name + " " + snap.OS.Version
	if snap.Platform != nil {
		if snap.Platform.Edition != nil {
			line = *snap.Platform.Edition
		}
		if snap.Platform.Codename != nil {
			line += " (" + *snap.Platform.Codename + ")"
		}
	}
	return line
}

func networkSection(t *table, snap *collect.Snapshot) {
	t.row("HOSTNAME", snap.OS.Hostname)

	if net := snap.Network; net != nil {
		if net.MachineIP != nil {
			t.row("MACHINE IP", *net.MachineIP)
		}
		if net.ClientIP != nil {
			t.row("CLIENT IP", *net.ClientIP)
		}
		for i, server := range net.DNSServers {
			t.row(collect.DNSLabel(i), server)
		}
	}

	if snap.Session != nil {
		t.row("USER", snap.Session.Username)
	}
}

func cpuSection(t *table, snap *collect.Snapshot, cs charset) {
	t.row("PROCESSOR", snap.CPU.Model)
	t.row("CORES", snap.CPU.TopologyString())

	if snap.Platform != nil {
		gpus := snap.Platform.GPUs
		if len(gpus) > gpuJoinThreshold {
			t.row("GPU", collect.JoinedGPUs(gpus))
		} else {
			for _, gpu := range gpus {
				t.row("GPU", gpu)
			}
		}
		if snap.Platform.Resolution != nil {
			t.row("RESOLUTION", *snap.Platform.Resolution)
		}
	}

	t.row("HYPERVISOR", snap.Hypervisor)
	if snap.CPU.FrequencyMHz > 0 {
		t.row("CPU FREQ", fmt.Sprintf("%.0f MHz", snap.CPU.FrequencyMHz))
	}

	if snap.CPU.Load1 != nil {
		t.row("LOAD 1m", bar(*snap.CPU.Load1, cs))
	}
	if snap.CPU.Load5 != nil {
		t.row("LOAD 5m", bar(*snap.CPU.Load5, cs))
	}
	if snap.CPU.Load15 != nil {
		t.row("LOAD 15m", bar(*snap.CPU.Load15, cs))
	}
}

func diskSection(t *table, disk *collect.DiskInfo, cs charset) {
	t.row("VOLUME", volumeLabel(disk))
	t.row("DISK USAGE", bar(disk.UsedPercent, cs))
	t.row("DISK SIZE", disk.UsageString())
}

func volumeLabel(disk *collect.DiskInfo) string {
	if len(disk.Disks) == 1 {
		return disk.Disks[0].Mountpoint
	}
	return fmt.Sprintf("%d volumes", len(disk.Disks))
}

func memorySection(t *table, mem collect.MemoryInfo, cs charset) {
	t.row("MEMORY", mem.RAMString())
	t.row("USAGE", bar(mem.RAMPercent, cs))
	t.row("SWAP", mem.SwapString())
}

func sessionSection(t *table, snap *collect.Snapshot) {
	if snap.Session != nil && snap.Session.LastLogin != nil {
		line := snap.Session.LastLogin.When
		if snap.Session.LastLogin.From != nil {
			line += " from " + *snap.Session.LastLogin.From
		}
		t.row("LAST LOGIN", line)
	}

	t.row("UPTIME", snap.UptimeString())

	if snap.Session != nil {
		if snap.Session.Shell != nil {
			t.row("SHELL", *snap.Session.Shell)
		}
		if snap.Session.Terminal != nil {
			t.row("TERMINAL", *snap.Session.Terminal)
		}
	}

	if snap.Platform != nil {
		if snap.Platform.Locale != nil {
			t.row("LOCALE", *snap.Platform.Locale)
		}
		if snap.Platform.Battery != nil {
			t.row("BATTERY", *snap.Platform.Battery)
		}
	}
}
