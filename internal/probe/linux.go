package probe

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
)

// linuxProbe gathers Linux facts. Most sources are /sys, /proc or env
// reads and stay available in fast mode; lspci, xrandr and the shell
// version query are the slow list.
type linuxProbe struct {
	run    Runner
	getenv func(string) string

	resolvConfPath string
	dmiProductPath string
	cpuinfoPath    string
	efiPath        string
	powerSupplyDir string
}

func newLinuxProbe(run Runner) *linuxProbe {
	return &linuxProbe{
		run:            run,
		getenv:         os.Getenv,
		resolvConfPath: "/etc/resolv.conf",
		dmiProductPath: "/sys/class/dmi/id/product_name",
		cpuinfoPath:    "/proc/cpuinfo",
		efiPath:        "/sys/firmware/efi",
		powerSupplyDir: "/sys/class/power_supply",
	}
}

func (p *linuxProbe) Name() string { return "linux" }

func (p *linuxProbe) SocketCount() (int, bool) {
	if out, err := p.run.Output("lscpu"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			if !strings.HasPrefix(line, "Socket(s):") {
				continue
			}
			if n, err := cast.ToIntE(strings.TrimSpace(strings.TrimPrefix(line, "Socket(s):"))); err == nil && n > 0 {
				return n, true
			}
		}
	}
	// Constant default ends the chain.
	return 1, true
}

func (p *linuxProbe) MachineIP() (string, bool) {
	return first(
		func() (string, bool) {
			out, err := p.run.Output("hostname", "-I")
			if err != nil {
				return "", false
			}
			fields := strings.Fields(out)
			if len(fields) == 0 || fields[0] == "127.0.0.1" {
				return "", false
			}
			return fields[0], true
		},
		func() (string, bool) {
			out, err := p.run.Output("ip", "route", "get", "1")
			if err != nil {
				return "", false
			}
			fields := strings.Fields(out)
			for i, f := range fields {
				if f == "src" && i+1 < len(fields) {
					return fields[i+1], true
				}
			}
			return "", false
		},
	)
}

func (p *linuxProbe) DNSServers() []string {
	var servers []string

	if data, err := os.ReadFile(p.resolvConfPath); err == nil {
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if !strings.HasPrefix(line, "nameserver") {
				continue
			}
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				servers = appendUnique(servers, fields[1])
			}
			if len(servers) >= maxDNSServers {
				return servers
			}
		}
	}

	if len(servers) > 0 {
		return servers
	}

	// systemd-resolved fallback
	if out, err := p.run.Output("resolvectl", "status"); err == nil {
		for _, line := range strings.Split(out, "\n") {
			if !strings.Contains(line, "DNS Servers:") {
				continue
			}
			_, rest, ok := strings.Cut(line, ":")
			if !ok {
				continue
			}
			for _, ip := range strings.Fields(rest) {
				servers = appendUnique(servers, ip)
				if len(servers) >= maxDNSServers {
					return servers
				}
			}
		}
	}

	return servers
}

func (p *linuxProbe) HasLoadAverages() bool { return true }

func (p *linuxProbe) LastLoginIsSlow() bool { return false }

func (p *linuxProbe) LastLogin(username string) (string, *string, bool) {
	// lastlog2 on newer systems
	if out, err := p.run.Output("lastlog2", "--user", username); err == nil {
		lines := strings.Split(out, "\n")
		if len(lines) >= 2 {
			fields := strings.Fields(lines[1])
			if len(fields) >= 4 {
				when := strings.Join(fields[1:4], " ")
				var from *string
				if len(fields) >= 5 {
					from = strptr(fields[4])
				}
				return when, from, true
			}
		}
	}

	// lastlog on older systems
	if out, err := p.run.Output("lastlog", "-u", username); err == nil {
		lines := strings.Split(out, "\n")
		if len(lines) >= 2 {
			line := lines[1]
			if strings.Contains(line, "Never logged in") {
				return "Never logged in", nil, true
			}
			fields := strings.Fields(line)
			if len(fields) >= 5 {
				return strings.Join(fields[3:], " "), strptr(fields[2]), true
			}
		}
	}

	return lastFromWtmp(p.run, username)
}

// lastFromWtmp parses `last -1 <user>` output, shared with the darwin probe.
func lastFromWtmp(run Runner, username string) (string, *string, bool) {
	out, err := run.Output("last", "-1", username)
	if err != nil {
		return "", nil, false
	}

	line, ok := firstLine(out)
	if !ok || strings.Contains(line, "wtmp begins") {
		return "", nil, false
	}

	fields := strings.Fields(line)
	if len(fields) < 5 {
		return "", nil, false
	}

	var from *string
	origin := fields[2]
	if !strings.HasPrefix(origin, ":") && !strings.HasPrefix(origin, "pts") &&
		!strings.HasPrefix(origin, "tty") && !strings.HasPrefix(origin, "console") {
		from = strptr(origin)
	}

	end := len(fields)
	if end > 7 {
		end = 7
	}
	return strings.Join(fields[3:end], " "), from, true
}

func (p *linuxProbe) Extended(allowSlow bool) Info {
	info := Info{
		DesktopEnvironment: p.desktopEnvironment(),
		DisplayServer:      p.displayServer(),
		BootMode:           p.bootMode(),
		Virtualization:     p.virtualization(),
		Battery:            p.battery(),
		Locale:             envLocale(p.getenv),
		Terminal:           envTerminal(p.getenv),
	}

	info.Shell = shellFromEnv(p.getenv, p.run, allowSlow)

	if allowSlow {
		info.GPUs = p.gpus()
		info.Resolution = p.resolution()
	}

	return info
}

func (p *linuxProbe) desktopEnvironment() *string {
	if de := p.getenv("XDG_CURRENT_DESKTOP"); de != "" {
		return strptr(de)
	}
	if session := p.getenv("DESKTOP_SESSION"); session != "" {
		return strptr(session)
	}
	if p.getenv("GNOME_DESKTOP_SESSION_ID") != "" {
		return strptr("GNOME")
	}
	if p.getenv("KDE_FULL_SESSION") != "" {
		return strptr("KDE")
	}
	return nil
}

func (p *linuxProbe) displayServer() *string {
	if t := p.getenv("XDG_SESSION_TYPE"); t != "" {
		return strptr(t)
	}
	if p.getenv("WAYLAND_DISPLAY") != "" {
		return strptr("wayland")
	}
	if p.getenv("DISPLAY") != "" {
		return strptr("x11")
	}
	return nil
}

func (p *linuxProbe) bootMode() *string {
	if _, err := os.Stat(p.efiPath); err == nil {
		return strptr("UEFI")
	}
	return strptr("Legacy BIOS")
}

func (p *linuxProbe) virtualization() *string {
	if data, err := os.ReadFile(p.dmiProductPath); err == nil {
		product := strings.ToLower(strings.TrimSpace(string(data)))
		switch {
		case strings.Contains(product, "virtualbox"):
			return strptr("VirtualBox")
		case strings.Contains(product, "vmware"):
			return strptr("VMware")
		case strings.Contains(product, "qemu"), strings.Contains(product, "kvm"):
			return strptr("QEMU/KVM")
		case strings.Contains(product, "hyper-v"):
			return strptr("Hyper-V")
		}
	}

	if data, err := os.ReadFile(p.cpuinfoPath); err == nil {
		if strings.Contains(string(data), "hypervisor") {
			return strptr("Virtual Machine")
		}
	}

	return nil
}

func (p *linuxProbe) battery() *string {
	entries, err := os.ReadDir(p.powerSupplyDir)
	if err != nil {
		return nil
	}

	for _, entry := range entries {
		if !strings.HasPrefix(entry.Name(), "BAT") {
			continue
		}
		dir := filepath.Join(p.powerSupplyDir, entry.Name())

		capData, err := os.ReadFile(filepath.Join(dir, "capacity"))
		if err != nil {
			continue
		}
		pct, err := cast.ToIntE(strings.TrimSpace(string(capData)))
		if err != nil {
			continue
		}

		status := "Unknown"
		if stData, err := os.ReadFile(filepath.Join(dir, "status")); err == nil {
			if s, ok := nonEmpty(string(stData)); ok {
				status = s
			}
		}

		return strptr(cast.ToString(pct) + "% (" + status + ")")
	}

	return nil
}

func (p *linuxProbe) gpus() []string {
	out, err := p.run.Output("lspci")
	if err != nil {
		return nil
	}

	var gpus []string
	for _, line := range strings.Split(out, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "vga") && !strings.Contains(lower, "3d controller") {
			continue
		}
		// "00:02.0 VGA compatible controller: Intel Corporation ..."
		if _, name, ok := strings.Cut(line, ": "); ok {
			if name, ok := nonEmpty(name); ok {
				gpus = appendUnique(gpus, name)
			}
		}
	}
	return gpus
}

func (p *linuxProbe) resolution() *string {
	out, err := p.run.Output("xrandr", "--current")
	if err != nil {
		return nil
	}

	for _, line := range strings.Split(out, "\n") {
		fields := strings.Fields(line)
		for i, f := range fields {
			if f == "current" && i+3 < len(fields) {
				// "... current 1920 x 1080, maximum ..."
				w := fields[i+1]
				h := strings.TrimSuffix(fields[i+3], ",")
				return strptr(w + "x" + h)
			}
		}
	}
	return nil
}

// envLocale reads the locale from the standard environment chain.
func envLocale(getenv func(string) string) *string {
	for _, key := range []string{"LC_ALL", "LANG"} {
		if v := getenv(key); v != "" {
			return strptr(v)
		}
	}
	return nil
}

// envTerminal identifies the terminal emulator from environment markers.
func envTerminal(getenv func(string) string) *string {
	if v := getenv("TERM_PROGRAM"); v != "" {
		return strptr(v)
	}
	if getenv("WT_SESSION") != "" {
		return strptr("Windows Terminal")
	}
	if v := getenv("TERM"); v != "" {
		return strptr(v)
	}
	return nil
}

// shellFromEnv reports the login shell, appending its version when the
// slow version query is allowed.
func shellFromEnv(getenv func(string) string, run Runner, allowSlow bool) *string {
	shellPath := getenv("SHELL")
	if shellPath == "" {
		return nil
	}
	name := filepath.Base(shellPath)

	if allowSlow {
		if out, err := run.Output(shellPath, "--version"); err == nil {
			if line, ok := firstLine(out); ok {
				if ver := parseShellVersion(line); ver != "" {
					return strptr(name + " " + ver)
				}
			}
		}
	}

	return strptr(name)
}

// parseShellVersion extracts the dotted version number from a
// "--version" banner like "GNU bash, version 5.2.15(1)-release".
func parseShellVersion(line string) string {
	idx := strings.Index(line, "version ")
	rest := line
	if idx >= 0 {
		rest = line[idx+len("version "):]
	} else {
		fields := strings.Fields(line)
		rest = ""
		for _, f := range fields {
			if len(f) > 0 && f[0] >= '0' && f[0] <= '9' {
				rest = f
				break
			}
		}
	}

	end := 0
	for end < len(rest) && (rest[end] == '.' || (rest[end] >= '0' && rest[end] <= '9')) {
		end++
	}
	if end == 0 {
		return ""
	}
	return rest[:end]
}
