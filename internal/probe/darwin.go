package probe

import (
	"encoding/json"
	"os"
	"runtime"
	"strings"

	"github.com/spf13/cast"
)

// darwinProbe gathers macOS facts. Almost everything on this platform is a
// subprocess (sw_vers, system_profiler, pmset, scutil), so its fast-mode
// skip list is longer than Linux's.
type darwinProbe struct {
	run    Runner
	getenv func(string) string
}

func newDarwinProbe(run Runner) *darwinProbe {
	return &darwinProbe{run: run, getenv: os.Getenv}
}

func (p *darwinProbe) Name() string { return "darwin" }

func (p *darwinProbe) SocketCount() (int, bool) {
	if out, err := p.run.Output("sysctl", "-n", "hw.packages"); err == nil {
		if n, err := cast.ToIntE(strings.TrimSpace(out)); err == nil && n > 0 {
			return n, true
		}
	}
	return 1, true
}

func (p *darwinProbe) MachineIP() (string, bool) {
	for _, iface := range []string{"en0", "en1", "en2"} {
		if ip, ok := p.ifaceAddr(iface); ok {
			return ip, true
		}
	}

	// Ask the routing table which interface carries the default route.
	out, err := p.run.Output("route", "get", "default")
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "interface:") {
			continue
		}
		iface := strings.TrimSpace(strings.TrimPrefix(line, "interface:"))
		if ip, ok := p.ifaceAddr(iface); ok {
			return ip, true
		}
	}

	return "", false
}

func (p *darwinProbe) ifaceAddr(iface string) (string, bool) {
	out, err := p.run.Output("ipconfig", "getifaddr", iface)
	if err != nil {
		return "", false
	}
	ip, ok := nonEmpty(out)
	if !ok || ip == "127.0.0.1" {
		return "", false
	}
	return ip, true
}

func (p *darwinProbe) DNSServers() []string {
	out, err := p.run.Output("scutil", "--dns")
	if err != nil {
		return nil
	}

	var servers []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "nameserver[") {
			continue
		}
		if _, ip, ok := strings.Cut(line, ":"); ok {
			if ip, ok := nonEmpty(ip); ok {
				servers = appendUnique(servers, ip)
				if len(servers) >= maxDNSServers {
					break
				}
			}
		}
	}
	return servers
}

func (p *darwinProbe) HasLoadAverages() bool { return true }

func (p *darwinProbe) LastLoginIsSlow() bool { return false }

func (p *darwinProbe) LastLogin(username string) (string, *string, bool) {
	return lastFromWtmp(p.run, username)
}

func (p *darwinProbe) Extended(allowSlow bool) Info {
	info := Info{
		DesktopEnvironment: strptr("Aqua"),
		DisplayServer:      strptr("Quartz"),
		BootMode:           p.bootMode(),
		Locale:             envLocale(p.getenv),
		Terminal:           envTerminal(p.getenv),
		Shell:              shellFromEnv(p.getenv, p.run, allowSlow),
	}

	if allowSlow {
		info.Codename = p.codename()
		info.Virtualization = p.virtualization()
		info.GPUs, info.Resolution = p.displays()
		info.Battery = p.battery()
	}

	return info
}

// bootMode needs no subprocess: Apple Silicon is identified by the build
// architecture, Intel Macs always boot via UEFI.
func (p *darwinProbe) bootMode() *string {
	if runtime.GOARCH == "arm64" {
		return strptr("Apple Silicon")
	}
	return strptr("UEFI")
}

var macosCodenames = map[int]string{
	26: "Tahoe",
	15: "Sequoia",
	14: "Sonoma",
	13: "Ventura",
	12: "Monterey",
	11: "Big Sur",
	10: "Catalina",
}

func (p *darwinProbe) codename() *string {
	out, err := p.run.Output("sw_vers", "-productVersion")
	if err != nil {
		return nil
	}
	version, ok := nonEmpty(out)
	if !ok {
		return nil
	}

	majorStr, _, _ := strings.Cut(version, ".")
	major, err := cast.ToIntE(majorStr)
	if err != nil {
		return nil
	}
	if name, ok := macosCodenames[major]; ok {
		return strptr(name)
	}
	return nil
}

func (p *darwinProbe) virtualization() *string {
	if out, err := p.run.Output("system_profiler", "SPHardwareDataType"); err == nil {
		lower := strings.ToLower(out)
		switch {
		case strings.Contains(lower, "vmware"):
			return strptr("VMware")
		case strings.Contains(lower, "virtualbox"):
			return strptr("VirtualBox")
		case strings.Contains(lower, "parallels"):
			return strptr("Parallels")
		case strings.Contains(lower, "qemu"):
			return strptr("QEMU")
		}
	}

	if out, err := p.run.Output("sysctl", "-n", "kern.hv_vmm_present"); err == nil {
		if strings.TrimSpace(out) == "1" {
			return strptr("Virtual Machine")
		}
	}

	return nil
}

// system_profiler JSON structures for the displays query.
type spDisplaysData struct {
	SPDisplaysDataType []spDisplayEntry `json:"SPDisplaysDataType"`
}

type spDisplayEntry struct {
	Model    string         `json:"sppci_model"`
	Displays []spDisplayNdr `json:"spdisplays_ndrvs"`
}

type spDisplayNdr struct {
	Resolution string `json:"_spdisplays_resolution"`
}

// displays derives both the GPU list and the primary display resolution
// from one system_profiler invocation. The call is expensive; issuing it
// twice for the two facts would be a bug.
func (p *darwinProbe) displays() ([]string, *string) {
	out, err := p.run.Output("system_profiler", "SPDisplaysDataType", "-json")
	if err != nil {
		return nil, nil
	}

	var data spDisplaysData
	if json.Unmarshal([]byte(out), &data) != nil {
		return nil, nil
	}

	var gpus []string
	var resolution *string
	for _, entry := range data.SPDisplaysDataType {
		if name, ok := nonEmpty(entry.Model); ok {
			gpus = appendUnique(gpus, name)
		}
		if resolution == nil {
			for _, d := range entry.Displays {
				if res, ok := nonEmpty(d.Resolution); ok {
					// "2560 x 1440 @ 60.00Hz" -> "2560x1440"
					res = strings.ReplaceAll(res, " x ", "x")
					if idx := strings.Index(res, " @"); idx > 0 {
						res = res[:idx]
					}
					resolution = strptr(res)
					break
				}
			}
		}
	}

	return gpus, resolution
}

func (p *darwinProbe) battery() *string {
	out, err := p.run.Output("pmset", "-g", "batt")
	if err != nil {
		return nil
	}

	// "-InternalBattery-0 (id=...)	85%; discharging; 4:12 remaining ..."
	for _, line := range strings.Split(out, "\n") {
		if !strings.Contains(line, "%") {
			continue
		}
		fields := strings.Split(line, "\t")
		detail := fields[len(fields)-1]
		parts := strings.Split(detail, ";")
		if len(parts) < 2 {
			continue
		}
		pct, ok := nonEmpty(parts[0])
		if !ok || !strings.HasSuffix(pct, "%") {
			continue
		}
		state, _ := nonEmpty(parts[1])
		return strptr(pct + " (" + state + ")")
	}
	return nil
}
