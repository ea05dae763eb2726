package collect

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysreport-dev/sysreport/internal/probe"
)

// Snapshot is the fully aggregated result of one collection run. It is
// built exactly once by assemble and never mutated afterward; renderers
// treat it as read-only.
type Snapshot struct {
	Mode        Mode
	CollectedAt time.Time

	OS     OSInfo
	CPU    CPUInfo
	Memory MemoryInfo

	// Optional sections: nil when the owning collector failed.
	Disk     *DiskInfo
	Network  *NetworkInfo
	Session  *SessionInfo
	Platform *probe.Info

	// Hypervisor is the virtualization label, "Bare Metal" when no
	// hypervisor was detected or the platform collector failed.
	Hypervisor string
}

type OSInfo struct {
	Name          string
	Version       string
	Kernel        string
	Arch          string
	Hostname      string
	UptimeSeconds uint64
}

type CPUInfo struct {
	Model        string
	LogicalCores int
	FrequencyMHz float64

	// Sockets needs a subprocess probe and is nil in fast mode.
	Sockets *int

	// UsagePercent is nil only when sampling produced no data.
	UsagePercent *float64

	// Load averages normalized to percent of logical cores, capped at
	// 100. Nil on platforms without a load facility in fast mode.
	Load1  *float64
	Load5  *float64
	Load15 *float64
}

type MemoryInfo struct {
	RAMUsed   uint64
	RAMTotal  uint64
	SwapUsed  uint64
	SwapTotal uint64

	// Derived by assemble, never collected.
	RAMPercent  float64
	SwapPercent float64
}

type DiskRecord struct {
	Device     string
	Mountpoint string
	Filesystem string
	Used       uint64
	Total      uint64
	Removable  bool
}

type DiskInfo struct {
	Disks []DiskRecord

	// Aggregate figures derived by assemble.
	Used        uint64
	Total       uint64
	UsedPercent float64
}

type NetworkInfo struct {
	MachineIP  *string
	ClientIP   *string
	DNSServers []string
}

type SessionInfo struct {
	Username string
	HomeDir  string
	Cwd      *string

	// Shell and Terminal are merged in from the platform probe during
	// assembly so the session section renders complete.
	Shell    *string
	Terminal *string

	LastLogin *LastLogin
}

type LastLogin struct {
	When string
	From *string
}

// assemble derives the final Snapshot from raw collector outputs. It is
// pure and idempotent: the same inputs always produce the same Snapshot,
// and its inputs are not modified.
func assemble(mode Mode, now time.Time, osInfo OSInfo, cpuInfo CPUInfo, memInfo MemoryInfo,
	diskInfo *DiskInfo, netInfo *NetworkInfo, sessInfo *SessionInfo, platInfo *probe.Info) *Snapshot {

	snap := &Snapshot{
		Mode:        mode,
		CollectedAt: now,
		OS:          osInfo,
		CPU:         cpuInfo,
		Memory:      memInfo,
		Network:     netInfo,
		Hypervisor:  "Bare Metal",
	}

	snap.CPU.UsagePercent = clampPtr(cpuInfo.UsagePercent)
	snap.CPU.Load1 = clampPtr(cpuInfo.Load1)
	snap.CPU.Load5 = clampPtr(cpuInfo.Load5)
	snap.CPU.Load15 = clampPtr(cpuInfo.Load15)

	if memInfo.RAMUsed > memInfo.RAMTotal {
		snap.Memory.RAMUsed = memInfo.RAMTotal
	}
	if memInfo.SwapUsed > memInfo.SwapTotal {
		snap.Memory.SwapUsed = memInfo.SwapTotal
	}
	snap.Memory.RAMPercent = Percent(snap.Memory.RAMUsed, snap.Memory.RAMTotal)
	snap.Memory.SwapPercent = Percent(snap.Memory.SwapUsed, snap.Memory.SwapTotal)

	if diskInfo != nil {
		agg := *diskInfo
		agg.Disks = append([]DiskRecord(nil), diskInfo.Disks...)
		for i, d := range agg.Disks {
			if d.Used > d.Total {
				agg.Disks[i].Used = d.Total
			}
		}
		agg.Used, agg.Total = aggregateDiskUsage(agg.Disks)
		agg.UsedPercent = Percent(agg.Used, agg.Total)
		snap.Disk = &agg
	}

	if platInfo != nil {
		info := *platInfo
		snap.Platform = &info
		if info.Virtualization != nil {
			snap.Hypervisor = *info.Virtualization
		}
	}

	if sessInfo != nil {
		sess := *sessInfo
		if snap.Platform != nil {
			if sess.Shell == nil {
				sess.Shell = snap.Platform.Shell
			}
			if sess.Terminal == nil {
				sess.Terminal = snap.Platform.Terminal
			}
		}
		snap.Session = &sess
	}

	return snap
}

// aggregateDiskUsage reduces the disk list to one used/total pair. The
// primary volume (mounted at / or C:) wins outright; otherwise fixed
// disks are summed; a sum of zero with disks present falls back to the
// first disk in list order.
func aggregateDiskUsage(disks []DiskRecord) (used, total uint64) {
	for _, d := range disks {
		if isPrimaryMount(d.Mountpoint) {
			return d.Used, d.Total
		}
	}

	for _, d := range disks {
		if d.Removable {
			continue
		}
		used += d.Used
		total += d.Total
	}
	if total > 0 {
		return used, total
	}

	if len(disks) > 0 {
		return disks[0].Used, disks[0].Total
	}
	return 0, 0
}

func isPrimaryMount(mountpoint string) bool {
	switch mountpoint {
	case "/", "C:", `C:\`:
		return true
	}
	return false
}

// Percent derives used/total as a percentage clamped to [0,100]. A zero
// total yields 0.0, never NaN.
func Percent(used, total uint64) float64 {
	if total == 0 {
		return 0.0
	}
	return clamp(float64(used) / float64(total) * 100.0)
}

func clamp(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

func clampPtr(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := clamp(*p)
	return &v
}

// UptimeString formats the OS uptime as "Xd Xh Xm".
func (s *Snapshot) UptimeString() string {
	d := s.OS.UptimeSeconds / 86400
	h := s.OS.UptimeSeconds % 86400 / 3600
	m := s.OS.UptimeSeconds % 3600 / 60
	return fmt.Sprintf("%dd %dh %dm", d, h, m)
}

// TopologyString formats the core and socket counts the way the report
// prints them, e.g. "8 vCPU(s) / 1 Socket(s)".
func (c CPUInfo) TopologyString() string {
	if c.Sockets == nil {
		return fmt.Sprintf("%d vCPU(s)", c.LogicalCores)
	}
	return fmt.Sprintf("%d vCPU(s) / %d Socket(s)", c.LogicalCores, *c.Sockets)
}

// UsageString formats the aggregate disk figures in decimal gigabytes.
func (d DiskInfo) UsageString() string {
	return fmt.Sprintf("%.2f/%.2f GB [%.1f%%]", gb(d.Used), gb(d.Total), d.UsedPercent)
}

// RAMString formats RAM usage in binary gibibytes.
func (m MemoryInfo) RAMString() string {
	return fmt.Sprintf("%.2f/%.2f GiB [%.1f%%]", gib(m.RAMUsed), gib(m.RAMTotal), m.RAMPercent)
}

// SwapString formats swap usage in binary gibibytes, "None" when the
// system has no swap configured.
func (m MemoryInfo) SwapString() string {
	if m.SwapTotal == 0 {
		return "None"
	}
	return fmt.Sprintf("%.2f/%.2f GiB [%.1f%%]", gib(m.SwapUsed), gib(m.SwapTotal), m.SwapPercent)
}

func gb(b uint64) float64  { return float64(b) / 1e9 }
func gib(b uint64) float64 { return float64(b) / (1 << 30) }

// DNSLabel returns the row label for the nth DNS server ("DNS IP 1", ...).
func DNSLabel(i int) string {
	return fmt.Sprintf("DNS IP %d", i+1)
}

// JoinedGPUs compacts a GPU list into one display string.
func JoinedGPUs(gpus []string) string {
	return strings.Join(gpus, ", ")
}
