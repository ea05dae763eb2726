package probe

import "testing"

func newTestDarwinProbe(run Runner, env map[string]string) *darwinProbe {
	return &darwinProbe{run: run, getenv: envMap(env)}
}

func TestDarwinMachineIPTriesInterfacesInOrder(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"ipconfig getifaddr en1": "192.168.0.12\n",
	}}
	p := newTestDarwinProbe(run, nil)

	ip, ok := p.MachineIP()
	if !ok || ip != "192.168.0.12" {
		t.Fatalf("MachineIP = %q/%v, want en1 address", ip, ok)
	}
	if run.calls[0] != "ipconfig getifaddr en0" {
		t.Fatalf("en0 must be tried first, calls: %v", run.calls)
	}
}

func TestDarwinMachineIPRouteFallback(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"route get default":      "   route to: default\n  interface: en5\n",
		"ipconfig getifaddr en5": "10.1.2.3\n",
	}}
	p := newTestDarwinProbe(run, nil)

	ip, ok := p.MachineIP()
	if !ok || ip != "10.1.2.3" {
		t.Fatalf("MachineIP = %q/%v, want default-route interface address", ip, ok)
	}
}

func TestDarwinDNSServersDedupedAndCapped(t *testing.T) {
	out := ""
	for _, ip := range []string{"8.8.8.8", "8.8.8.8", "1.1.1.1", "1.0.0.1", "9.9.9.9", "4.4.4.4", "5.5.5.5"} {
		out += "  nameserver[0] : " + ip + "\n"
	}
	run := &fakeRunner{outputs: map[string]string{"scutil --dns": out}}
	p := newTestDarwinProbe(run, nil)

	servers := p.DNSServers()
	if len(servers) != 5 {
		t.Fatalf("DNSServers returned %d entries, want 5", len(servers))
	}
	if servers[0] != "8.8.8.8" || servers[1] != "1.1.1.1" {
		t.Fatalf("DNSServers = %v, want first-seen order", servers)
	}
}

func TestDarwinCodename(t *testing.T) {
	cases := map[string]string{
		"15.3.1\n": "Sequoia",
		"14.0\n":   "Sonoma",
		"26.0\n":   "Tahoe",
	}
	for version, want := range cases {
		run := &fakeRunner{outputs: map[string]string{"sw_vers -productVersion": version}}
		p := newTestDarwinProbe(run, nil)

		got := p.codename()
		if got == nil || *got != want {
			t.Fatalf("codename(%q) = %v, want %q", version, got, want)
		}
	}
}

func TestDarwinCodenameAbsentForUnknownMajor(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{"sw_vers -productVersion": "9.5\n"}}
	p := newTestDarwinProbe(run, nil)

	if got := p.codename(); got != nil {
		t.Fatalf("codename = %q, want nil for unmapped major", *got)
	}
}

func TestDarwinDisplaysSingleCallYieldsGPUsAndResolution(t *testing.T) {
	payload := `{
  "SPDisplaysDataType": [
    {
      "sppci_model": "Apple M2",
      "spdisplays_ndrvs": [
        {"_spdisplays_resolution": "2560 x 1440 @ 60.00Hz"}
      ]
    },
    {
      "sppci_model": "Apple M2",
      "spdisplays_ndrvs": []
    }
  ]
}`
	run := &fakeRunner{outputs: map[string]string{
		"system_profiler SPDisplaysDataType -json": payload,
	}}
	p := newTestDarwinProbe(run, nil)

	gpus, res := p.displays()
	if len(gpus) != 1 || gpus[0] != "Apple M2" {
		t.Fatalf("GPUs = %v, want deduped [Apple M2]", gpus)
	}
	if res == nil || *res != "2560x1440" {
		t.Fatalf("resolution = %v, want 2560x1440", res)
	}
	if run.callCount("system_profiler SPDisplaysDataType") != 1 {
		t.Fatalf("display query must be issued exactly once, calls: %v", run.calls)
	}
}

func TestDarwinExtendedFastSkipsSubprocessProbes(t *testing.T) {
	run := &fakeRunner{}
	p := newTestDarwinProbe(run, map[string]string{"LANG": "en_US.UTF-8"})

	info := p.Extended(false)
	if info.Codename != nil || info.Virtualization != nil || info.GPUs != nil || info.Battery != nil {
		t.Fatalf("fast mode must leave subprocess facts absent, got %+v", info)
	}
	if info.DesktopEnvironment == nil || *info.DesktopEnvironment != "Aqua" {
		t.Fatalf("desktop environment = %v, want Aqua", info.DesktopEnvironment)
	}
	if len(run.calls) != 0 {
		t.Fatalf("fast mode must spawn nothing, calls: %v", run.calls)
	}
}

func TestDarwinBatteryFromPmset(t *testing.T) {
	run := &fakeRunner{outputs: map[string]string{
		"pmset -g batt": "Now drawing from 'Battery Power'\n -InternalBattery-0 (id=12345)\t85%; discharging; 4:12 remaining present: true\n",
	}}
	p := newTestDarwinProbe(run, nil)

	got := p.battery()
	if got == nil || *got != "85% (discharging)" {
		t.Fatalf("battery = %v, want 85%% (discharging)", got)
	}
}
