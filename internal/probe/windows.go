package probe

import (
	"os"
	"strings"

	"github.com/spf13/cast"
)

// windowsProbe gathers Windows facts through CIM queries issued from
// PowerShell, with wmic/ipconfig textual fallbacks. Every PowerShell spawn
// costs hundreds of milliseconds, which is why this platform skips the
// most probes in fast mode.
type windowsProbe struct {
	run    Runner
	getenv func(string) string
}

func newWindowsProbe(run Runner) *windowsProbe {
	return &windowsProbe{run: run, getenv: os.Getenv}
}

func (p *windowsProbe) Name() string { return "windows" }

func (p *windowsProbe) powershell(command string) (string, bool) {
	out, err := p.run.Output("powershell", "-NoProfile", "-Command", command)
	if err != nil {
		return "", false
	}
	return nonEmpty(out)
}

func (p *windowsProbe) SocketCount() (int, bool) {
	if out, ok := p.powershell("(Get-CimInstance Win32_ComputerSystem).NumberOfProcessors"); ok {
		if n, err := cast.ToIntE(out); err == nil && n > 0 {
			return n, true
		}
	}

	// wmic fallback, "NumberOfProcessors=N" per line
	if out, err := p.run.Output("wmic", "computersystem", "get", "NumberOfProcessors", "/format:list"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			line = strings.TrimSpace(line)
			if v, ok := strings.CutPrefix(line, "NumberOfProcessors="); ok {
				if n, err := cast.ToIntE(strings.TrimSpace(v)); err == nil && n > 0 {
					return n, true
				}
			}
		}
	}

	return 1, true
}

func (p *windowsProbe) MachineIP() (string, bool) {
	return first(
		func() (string, bool) {
			out, ok := p.powershell("(Get-NetIPAddress -AddressFamily IPv4 | Where-Object { $_.InterfaceAlias -notmatch 'Loopback' -and $_.PrefixOrigin -ne 'WellKnown' } | Select-Object -First 1).IPAddress")
			if !ok || out == "127.0.0.1" {
				return "", false
			}
			return out, true
		},
		func() (string, bool) {
			out, err := p.run.Output("ipconfig")
			if err != nil {
				return "", false
			}
			for _, line := range strings.Split(out, "\n") {
				if !strings.Contains(line, "IPv4 Address") {
					continue
				}
				idx := strings.LastIndex(line, ":")
				if idx < 0 {
					continue
				}
				ip, ok := nonEmpty(line[idx+1:])
				if ok && ip != "127.0.0.1" {
					return ip, true
				}
			}
			return "", false
		},
	)
}

func (p *windowsProbe) DNSServers() []string {
	var servers []string

	if out, ok := p.powershell("(Get-DnsClientServerAddress -AddressFamily IPv4 | Where-Object { $_.ServerAddresses } | Select-Object -ExpandProperty ServerAddresses) -join \"`n\""); ok {
		for _, line := range strings.Split(out, "\n") {
			if ip, ok := nonEmpty(line); ok {
				servers = appendUnique(servers, ip)
				if len(servers) >= maxDNSServers {
					return servers
				}
			}
		}
	}

	if len(servers) > 0 {
		return servers
	}

	// ipconfig /all fallback: addresses follow a "DNS Servers" header,
	// continuation lines are indented bare IPs.
	out, err := p.run.Output("ipconfig", "/all")
	if err != nil {
		return servers
	}
	inDNS := false
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "DNS Servers") {
			inDNS = true
			if idx := strings.LastIndex(line, ":"); idx >= 0 {
				if ip, ok := nonEmpty(line[idx+1:]); ok && strings.Contains(ip, ".") {
					servers = appendUnique(servers, ip)
				}
			}
			continue
		}
		if !inDNS {
			continue
		}
		trimmed := strings.TrimSpace(line)
		if strings.Contains(trimmed, ".") && !strings.Contains(trimmed, ":") {
			servers = appendUnique(servers, trimmed)
		} else if trimmed != "" {
			inDNS = false
		}
		if len(servers) >= maxDNSServers {
			break
		}
	}

	return servers
}

// HasLoadAverages is false on Windows: there is no kernel load average,
// and the emulated sampler some libraries offer reports zeros until it
// has been running for a while, which is worse than absence.
func (p *windowsProbe) HasLoadAverages() bool { return false }

// LastLoginIsSlow is true on Windows: the only implementation shells out,
// so fast mode drops the lookup entirely.
func (p *windowsProbe) LastLoginIsSlow() bool { return true }

func (p *windowsProbe) LastLogin(username string) (string, *string, bool) {
	out, err := p.run.Output("net", "user", username)
	if err != nil {
		return "", nil, false
	}

	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "Last logon") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) >= 3 {
			return strings.Join(fields[2:], " "), nil, true
		}
	}
	return "", nil, false
}

func (p *windowsProbe) Extended(allowSlow bool) Info {
	info := Info{
		DesktopEnvironment: strptr("Windows Shell"),
		DisplayServer:      strptr("DWM"),
		Terminal:           p.terminal(allowSlow),
		Shell:              p.shell(allowSlow),
	}

	if !allowSlow {
		return info
	}

	info.Edition = p.edition()
	info.BootMode = p.bootMode()
	info.Virtualization = p.virtualization()
	info.GPUs, info.Resolution = p.videoControllers()
	info.Battery = p.battery()
	info.Locale = p.locale()

	return info
}

func (p *windowsProbe) edition() *string {
	if out, ok := p.powershell("(Get-CimInstance Win32_OperatingSystem).Caption"); ok {
		return strptr(out)
	}
	return nil
}

func (p *windowsProbe) bootMode() *string {
	if out, ok := p.powershell("$env:firmware_type"); ok {
		upper := strings.ToUpper(out)
		if strings.Contains(upper, "UEFI") {
			return strptr("UEFI")
		}
		if strings.Contains(upper, "LEGACY") || strings.Contains(upper, "BIOS") {
			return strptr("Legacy BIOS")
		}
	}

	if out, err := p.run.Output("cmd", "/c", "bcdedit", "/enum", "{current}"); err == nil {
		if strings.Contains(strings.ToLower(out), "winload.efi") {
			return strptr("UEFI")
		}
		return strptr("Legacy BIOS")
	}

	return nil
}

func (p *windowsProbe) virtualization() *string {
	if out, ok := p.powershell("(Get-CimInstance Win32_ComputerSystem).Manufacturer + '|' + (Get-CimInstance Win32_ComputerSystem).Model"); ok {
		lower := strings.ToLower(out)
		switch {
		case strings.Contains(lower, "vmware"):
			return strptr("VMware")
		case strings.Contains(lower, "virtualbox"), strings.Contains(lower, "vbox"):
			return strptr("VirtualBox")
		case strings.Contains(lower, "microsoft") && strings.Contains(lower, "virtual"):
			return strptr("Hyper-V")
		case strings.Contains(lower, "qemu"):
			return strptr("QEMU")
		case strings.Contains(lower, "xen"):
			return strptr("Xen")
		case strings.Contains(lower, "parallels"):
			return strptr("Parallels")
		}
	}

	if out, ok := p.powershell("(Get-CimInstance Win32_ComputerSystem).HypervisorPresent"); ok {
		if strings.EqualFold(out, "true") {
			return strptr("Hypervisor Present")
		}
	}

	return nil
}

// videoControllers derives the GPU list and the primary display resolution
// from a single Win32_VideoController query. One CIM round trip serves
// both facts; issuing it per fact would double the slowest probe.
func (p *windowsProbe) videoControllers() ([]string, *string) {
	out, ok := p.powershell("(Get-CimInstance Win32_VideoController | ForEach-Object { \"$($_.Name)|$($_.CurrentHorizontalResolution)x$($_.CurrentVerticalResolution)\" }) -join \"`n\"")
	if !ok {
		return nil, nil
	}

	var gpus []string
	var resolution *string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		name, res, _ := strings.Cut(line, "|")
		if name, ok := nonEmpty(name); ok {
			gpus = appendUnique(gpus, name)
		}
		if resolution == nil {
			if res, ok := nonEmpty(res); ok && res != "x" && !strings.HasPrefix(res, "x") {
				resolution = strptr(res)
			}
		}
	}

	return gpus, resolution
}

// batteryStatusNames translates Win32_Battery status codes.
var batteryStatusNames = map[string]string{
	"1": "Discharging",
	"2": "AC Power",
	"3": "Charging",
	"4": "Low",
	"5": "Critical",
	"6": "Charging",
	"7": "Charging High",
	"8": "Charging Low",
	"9": "Charging Critical",
}

func (p *windowsProbe) battery() *string {
	out, ok := p.powershell("$b = Get-CimInstance Win32_Battery; if ($b) { \"$($b.EstimatedChargeRemaining)|$($b.BatteryStatus)\" }")
	if !ok {
		return nil
	}

	pctStr, code, _ := strings.Cut(out, "|")
	pct, err := cast.ToIntE(strings.TrimSpace(pctStr))
	if err != nil {
		return nil
	}

	status, known := batteryStatusNames[strings.TrimSpace(code)]
	if !known {
		status = "Unknown"
	}
	return strptr(cast.ToString(pct) + "% (" + status + ")")
}

func (p *windowsProbe) locale() *string {
	if out, ok := p.powershell("(Get-Culture).Name"); ok {
		return strptr(out)
	}
	return nil
}

func (p *windowsProbe) terminal(allowSlow bool) *string {
	if p.getenv("WT_SESSION") != "" {
		return strptr("Windows Terminal")
	}
	if p.getenv("TERM_PROGRAM") == "vscode" {
		return strptr("VS Code")
	}
	if p.getenv("ConEmuANSI") != "" {
		return strptr("ConEmu")
	}

	if allowSlow {
		if out, ok := p.powershell("(Get-Process -Id $PID).Parent.ProcessName"); ok {
			switch strings.ToLower(out) {
			case "windowsterminal":
				return strptr("Windows Terminal")
			case "code":
				return strptr("VS Code")
			case "conhost":
				return strptr("Console Host")
			case "cmd":
				return strptr("Command Prompt")
			case "powershell", "pwsh":
				return strptr("PowerShell")
			default:
				return strptr(out)
			}
		}
	}

	return strptr("Console")
}

func (p *windowsProbe) shell(allowSlow bool) *string {
	if allowSlow {
		if out, ok := p.powershell("$PSVersionTable.PSVersion.ToString()"); ok {
			return strptr("PowerShell " + out)
		}
	}

	if comspec := p.getenv("COMSPEC"); comspec != "" {
		// COMSPEC is a Windows path; filepath.Base only splits on the
		// host OS separator, so split on backslash explicitly.
		base := comspec
		if idx := strings.LastIndexAny(comspec, `\/`); idx >= 0 {
			base = comspec[idx+1:]
		}
		return strptr(base)
	}
	if p.getenv("PSModulePath") != "" {
		return strptr("PowerShell")
	}
	return strptr("cmd.exe")
}
