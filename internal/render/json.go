package render

import (
	"encoding/json"
	"fmt"

	"github.com/sysreport-dev/sysreport/internal/collect"
)

// JSON document schema. Absent facts serialize as null, never as zero
// values; whole sections are null when their collector failed.
type jsonReport struct {
	OS      jsonOS       `json:"os"`
	Network *jsonNetwork `json:"network"`
	CPU     jsonCPU      `json:"cpu"`
	Disk    *jsonDisk    `json:"disk"`
	Memory  jsonMemory   `json:"memory"`
	Session *jsonSession `json:"session"`
}

type jsonOS struct {
	Name               string  `json:"name"`
	Version            string  `json:"version"`
	Edition            *string `json:"edition"`
	Codename           *string `json:"codename"`
	Kernel             string  `json:"kernel"`
	Arch               string  `json:"arch"`
	Hostname           string  `json:"hostname"`
	DesktopEnvironment *string `json:"desktop_environment"`
	DisplayServer      *string `json:"display_server"`
	BootMode           *string `json:"boot_mode"`
	UptimeSeconds      uint64  `json:"uptime_seconds"`
	Uptime             string  `json:"uptime"`
}

type jsonNetwork struct {
	MachineIP  *string  `json:"machine_ip"`
	ClientIP   *string  `json:"client_ip"`
	DNSServers []string `json:"dns_servers"`
}

type jsonCPU struct {
	Model        string   `json:"model"`
	VCPUs        int      `json:"vcpus"`
	Sockets      *int     `json:"sockets"`
	FrequencyMHz float64  `json:"frequency_mhz"`
	UsagePercent *float64 `json:"usage_percent"`
	Load         jsonLoad `json:"load"`
	Hypervisor   string   `json:"hypervisor"`
	GPUs         []string `json:"gpus"`
	Resolution   *string  `json:"resolution"`
}

type jsonLoad struct {
	OneMin     *float64 `json:"1m"`
	FiveMin    *float64 `json:"5m"`
	FifteenMin *float64 `json:"15m"`
}

type jsonDisk struct {
	Volumes     []jsonVolume `json:"volumes"`
	UsedBytes   uint64       `json:"used_bytes"`
	TotalBytes  uint64       `json:"total_bytes"`
	UsedPercent float64      `json:"used_percent"`
}

type jsonVolume struct {
	Device     string `json:"device"`
	Mountpoint string `json:"mountpoint"`
	Filesystem string `json:"filesystem"`
	UsedBytes  uint64 `json:"used_bytes"`
	TotalBytes uint64 `json:"total_bytes"`
	Removable  bool   `json:"removable"`
}

type jsonMemory struct {
	RAMUsedBytes   uint64  `json:"ram_used_bytes"`
	RAMTotalBytes  uint64  `json:"ram_total_bytes"`
	RAMPercent     float64 `json:"ram_percent"`
	SwapUsedBytes  uint64  `json:"swap_used_bytes"`
	SwapTotalBytes uint64  `json:"swap_total_bytes"`
	SwapPercent    float64 `json:"swap_percent"`
}

type jsonSession struct {
	Username  string         `json:"username"`
	HomeDir   string         `json:"home_dir"`
	Cwd       *string        `json:"cwd"`
	Shell     *string        `json:"shell"`
	Terminal  *string        `json:"terminal"`
	LastLogin *jsonLastLogin `json:"last_login"`
	Locale    *string        `json:"locale"`
	Battery   *string        `json:"battery"`
}

type jsonLastLogin struct {
	When string  `json:"when"`
	From *string `json:"from"`
}

// JSON renders the snapshot as an indented JSON document.
func JSON(snap *collect.Snapshot) (string, error) {
	doc := jsonReport{
		OS: jsonOS{
			Name:          snap.OS.Name,
			Version:       snap.OS.Version,
			Kernel:        snap.OS.Kernel,
			Arch:          snap.OS.Arch,
			Hostname:      snap.OS.Hostname,
			UptimeSeconds: snap.OS.UptimeSeconds,
			Uptime:        snap.UptimeString(),
		},
		CPU: jsonCPU{
			Model:        snap.CPU.Model,
			VCPUs:        snap.CPU.LogicalCores,
			Sockets:      snap.CPU.Sockets,
			FrequencyMHz: snap.CPU.FrequencyMHz,
			UsagePercent: snap.CPU.UsagePercent,
			Load: jsonLoad{
				OneMin:     snap.CPU.Load1,
				FiveMin:    snap.CPU.Load5,
				FifteenMin: snap.CPU.Load15,
			},
			Hypervisor: snap.Hypervisor,
		},
		Memory: jsonMemory{
			RAMUsedBytes:   snap.Memory.RAMUsed,
			RAMTotalBytes:  snap.Memory.RAMTotal,
			RAMPercent:     snap.Memory.RAMPercent,
			SwapUsedBytes:  snap.Memory.SwapUsed,
			SwapTotalBytes: snap.Memory.SwapTotal,
			SwapPercent:    snap.Memory.SwapPercent,
		},
	}

	if plat := snap.Platform; plat != nil {
		doc.OS.Edition = plat.Edition
		doc.OS.Codename = plat.Codename
		doc.OS.DesktopEnvironment = plat.DesktopEnvironment
		doc.OS.DisplayServer = plat.DisplayServer
		doc.OS.BootMode = plat.BootMode
		doc.CPU.GPUs = plat.GPUs
		doc.CPU.Resolution = plat.Resolution
	}

	if net := snap.Network; net != nil {
		doc.Network = &jsonNetwork{
			MachineIP:  net.MachineIP,
			ClientIP:   net.ClientIP,
			DNSServers: net.DNSServers,
		}
	}

	if disk := snap.Disk; disk != nil {
		jd := &jsonDisk{
			UsedBytes:   disk.Used,
			TotalBytes:  disk.Total,
			UsedPercent: disk.UsedPercent,
		}
		for _, d := range disk.Disks {
			jd.Volumes = append(jd.Volumes, jsonVolume{
				Device:     d.Device,
				Mountpoint: d.Mountpoint,
				Filesystem: d.Filesystem,
				UsedBytes:  d.Used,
				TotalBytes: d.Total,
				Removable:  d.Removable,
			})
		}
		doc.Disk = jd
	}

	if sess := snap.Session; sess != nil {
		js := &jsonSession{
			Username: sess.Username,
			HomeDir:  sess.HomeDir,
			Cwd:      sess.Cwd,
			Shell:    sess.Shell,
			Terminal: sess.Terminal,
		}
		if sess.LastLogin != nil {
			js.LastLogin = &jsonLastLogin{When: sess.LastLogin.When, From: sess.LastLogin.From}
		}
		if snap.Platform != nil {
			js.Locale = snap.Platform.Locale
			js.Battery = snap.Platform.Battery
		}
		doc.Session = js
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal report: %w", err)
	}
	return string(out) + "\n", nil
}
