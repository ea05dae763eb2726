package probe

import (
	"os"
	"path/filepath"
	"testing"
)

func newTestLinuxProbe(run Runner, env map[string]string) *linuxProbe {
	return &linuxProbe{
		run:            run,
		getenv:         envMap(env),
		resolvConfPath: "/nonexistent/resolv.conf",
		dmiProductPath: "/nonexistent/product_name",
		cpuinfoPath:    "/nonexistent/cpuinfo",
		efiPath:        "/nonexistent/efi",
		powerSupplyDir: "/nonexistent/power_supply",
	}
}

func TestLinuxSocketCountFromLscpu(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"lscpu": "Architecture:        x86_64\nSocket(s):           2\nCore(s) per socket:  8\n",
	}}
	p := newTestLinuxProbe(run, nil)

	n, ok := p.SocketCount()
	if !ok || n != 2 {
		t.Fatalf("SocketCount = %d/%v, want 2/true", n, ok)
	}
}

func TestLinuxSocketCountDefaultsToOne(t *testing.T) {
	p := newTestLinuxProbe(&fakeRunner{}, nil)

	n, ok := p.SocketCount()
	if !ok || n != 1 {
		t.Fatalf("SocketCount = %d/%v, want fallback 1/true", n, ok)
	}
}

func TestLinuxMachineIPPrefersHostname(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"hostname -I": "192.168.1.50 10.0.0.3 \n",
	}}
	p := newTestLinuxProbe(run, nil)

	ip, ok := p.MachineIP()
	if !ok || ip != "192.168.1.50" {
		t.Fatalf("MachineIP = %q/%v, want 192.168.1.50/true", ip, ok)
	}
}

func TestLinuxMachineIPFallsBackToRouteSrc(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ip route get 1": "1.0.0.0 via 192.168.1.1 dev eth0 src 192.168.1.50 uid 1000\n",
	}}
	p := newTestLinuxProbe(run, nil)

	ip, ok := p.MachineIP()
	if !ok || ip != "192.168.1.50" {
		t.Fatalf("MachineIP = %q/%v, want route src fallback", ip, ok)
	}
}

func TestLinuxMachineIPAbsentWhenChainExhausted(t *testing.T) {
	p := newTestLinuxProbe(&fakeRunner{}, nil)

	if ip, ok := p.MachineIP(); ok {
		t.Fatalf("MachineIP = %q, want absence", ip)
	}
}

func TestLinuxDNSServersFromResolvConf(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	content := "# comment\nnameserver 8.8.8.8\nnameserver 1.1.1.1\nnameserver 8.8.8.8\nsearch example.com\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestLinuxProbe(&fakeRunner{}, nil)
	p.resolvConfPath = path

	servers := p.DNSServers()
	want := []string{"8.8.8.8", "1.1.1.1"}
	if len(servers) != len(want) {
		t.Fatalf("DNSServers = %v, want %v", servers, want)
	}
	for i := range want {
		if servers[i] != want[i] {
			t.Fatalf("DNSServers[%d] = %q, want %q", i, servers[i], want[i])
		}
	}
}

func TestLinuxDNSServersCappedAtFive(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "resolv.conf")
	content := ""
	for _, ip := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3", "10.0.0.4", "10.0.0.5", "10.0.0.6"} {
		content += "nameserver " + ip + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	p := newTestLinuxProbe(&fakeRunner{}, nil)
	p.resolvConfPath = path

	if servers := p.DNSServers(); len(servers) != 5 {
		t.Fatalf("DNSServers returned %d entries, want cap of 5", len(servers))
	}
}

func TestLinuxDNSServersResolvectlFallback(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"resolvectl status": "Global\n  DNS Servers: 9.9.9.9 149.112.112.112\n",
	}}
	p := newTestLinuxProbe(run, nil)

	servers := p.DNSServers()
	if len(servers) != 2 || servers[0] != "9.9.9.9" {
		t.Fatalf("DNSServers = %v, want resolvectl fallback entries", servers)
	}
}

func TestLinuxLastLoginFromLastlog(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"lastlog -u alice": "Username         Port     From             Latest\nalice            pts/0    10.0.0.9         Mon Aug 25 09:14:02 +0000 2025\n",
	}}
	p := newTestLinuxProbe(run, nil)

	when, from, ok := p.LastLogin("alice")
	if !ok {
		t.Fatal("expected last login from lastlog")
	}
	if when == "" {
		t.Fatal("expected non-empty login time")
	}
	if from == nil || *from != "10.0.0.9" {
		t.Fatalf("from = %v, want 10.0.0.9", from)
	}
}

func TestLinuxLastLoginWtmpFallbackHidesLocalOrigin(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"last -1 bob": "bob      pts/1        :0               Mon Aug 25 10:00   still logged in\n",
	}}
	p := newTestLinuxProbe(run, nil)

	when, from, ok := p.LastLogin("bob")
	if !ok || when == "" {
		t.Fatalf("LastLogin = %q/%v, want wtmp fallback hit", when, ok)
	}
	if from != nil {
		t.Fatalf("from = %q, local console origin should be dropped", *from)
	}
}

func TestLinuxLastLoginAbsentOnEmptyWtmp(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"last -1 ghost": "\nwtmp begins Sat Aug  1 00:00:00 2025\n",
	}}
	p := newTestLinuxProbe(run, nil)

	if _, _, ok := p.LastLogin("ghost"); ok {
		t.Fatal("expected absence for user with no wtmp entries")
	}
}

func TestLinuxExtendedFastSkipsSlowProbes(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"lspci":            "00:02.0 VGA compatible controller: Intel Corporation UHD Graphics 620\n",
		"xrandr --current": "Screen 0: minimum 320 x 200, current 1920 x 1080, maximum 8192 x 8192\n",
	}}
	env := map[string]string{
		"XDG_CURRENT_DESKTOP": "GNOME",
		"XDG_SESSION_TYPE":    "wayland",
		"LANG":                "en_US.UTF-8",
		"TERM":                "xterm-256color",
	}
	p := newTestLinuxProbe(run, env)

	info := p.Extended(false)
	if info.GPUs != nil || info.Resolution != nil {
		t.Fatalf("fast mode must skip gpus/resolution, got %v / %v", info.GPUs, info.Resolution)
	}
	if info.DesktopEnvironment == nil || *info.DesktopEnvironment != "GNOME" {
		t.Fatalf("desktop environment = %v, want GNOME", info.DesktopEnvironment)
	}
	if run.callCount("lspci") != 0 || run.callCount("xrandr") != 0 {
		t.Fatalf("fast mode must not spawn lspci/xrandr, calls: %v", run.calls)
	}

	full := p.Extended(true)
	if len(full.GPUs) != 1 || full.GPUs[0] != "Intel Corporation UHD Graphics 620" {
		t.Fatalf("GPUs = %v", full.GPUs)
	}
	if full.Resolution == nil || *full.Resolution != "1920x1080" {
		t.Fatalf("Resolution = %v, want 1920x1080", full.Resolution)
	}
}

func TestLinuxBatteryFromSysfs(t *testing.T) {
	dir := t.TempDir()
	bat := filepath.Join(dir, "BAT0")
	if err := os.MkdirAll(bat, 0o755); err != nil {
		t.Fatal(err)
	}
	os.WriteFile(filepath.Join(bat, "capacity"), []byte("87\n"), 0o644)
	os.WriteFile(filepath.Join(bat, "status"), []byte("Discharging\n"), 0o644)

	p := newTestLinuxProbe(&fakeRunner{}, nil)
	p.powerSupplyDir = dir

	got := p.battery()
	if got == nil || *got != "87% (Discharging)" {
		t.Fatalf("battery = %v, want 87%% (Discharging)", got)
	}
}

func TestShellFromEnvGatesVersionQuery(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"/bin/bash --version": "GNU bash, version 5.2.15(1)-release (x86_64-pc-linux-gnu)\n",
	}}
	env := envMap(map[string]string{"SHELL": "/bin/bash"})

	fast := shellFromEnv(env, run, false)
	if fast == nil || *fast != "bash" {
		t.Fatalf("fast shell = %v, want bare name", fast)
	}
	if len(run.calls) != 0 {
		t.Fatalf("fast mode must not run the version query, calls: %v", run.calls)
	}

	full := shellFromEnv(env, run, true)
	if full == nil || *full != "bash 5.2.15" {
		t.Fatalf("full shell = %v, want bash 5.2.15", full)
	}
}
