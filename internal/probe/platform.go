package probe

// Info is the union of all OS-specific optional facts. Every field is
// independently optional; nil (or an empty slice) means the responsible
// probe was skipped or exhausted its fallback chain.
type Info struct {
	DesktopEnvironment *string
	DisplayServer      *string
	Edition            *string // Windows edition (Home, Pro, ...)
	Codename           *string // macOS release codename
	BootMode           *string
	Virtualization     *string
	GPUs               []string
	Terminal           *string
	Shell              *string
	Resolution         *string
	Battery            *string
	Locale             *string
}

// Platform is the capability interface for OS-specific fact gathering.
// One concrete variant exists per supported OS; the variant is selected
// once at startup by ForOS and never at a call site. Methods report
// absence via ok=false or nil fields, never errors: a probe failure for
// an optional fact must stay inside the adapter.
type Platform interface {
	// Name returns the GOOS this adapter serves.
	Name() string

	// SocketCount reports the number of physical CPU sockets. Always a
	// subprocess or management-interface query, so callers gate it off in
	// fast mode on every platform.
	SocketCount() (int, bool)

	// MachineIP reports the primary non-loopback IP address.
	MachineIP() (string, bool)

	// HasLoadAverages reports whether the kernel maintains real load
	// averages. Where it does not (Windows), the CPU collector
	// substitutes the current usage sample in full mode and reports
	// absence in fast mode.
	HasLoadAverages() bool

	// DNSServers reports configured DNS servers, de-duplicated in
	// first-seen order, capped at maxDNSServers.
	DNSServers() []string

	// LastLogin reports the previous login time and, when known, the
	// origin address for the given user.
	LastLogin(username string) (when string, from *string, ok bool)

	// LastLoginIsSlow reports whether this platform's only last-login
	// implementation is a slow call. Part of the per-platform skip table:
	// fast mode drops the lookup exactly when this is true.
	LastLoginIsSlow() bool

	// Extended gathers the OS-specific optional facts. allowSlow=false
	// (fast mode) skips every probe on this platform's slow list; the
	// skipped fields come back nil rather than stale.
	Extended(allowSlow bool) Info
}

// ForOS selects the adapter for the given GOOS. Unknown platforms get a
// stub whose probes all report absence.
func ForOS(goos string, run Runner) Platform {
	switch goos {
	case "linux":
		return newLinuxProbe(run)
	case "darwin":
		return newDarwinProbe(run)
	case "windows":
		return newWindowsProbe(run)
	default:
		return unsupportedProbe{goos: goos}
	}
}

// maxDNSServers caps the DNS list the same way the report caps its rows.
const maxDNSServers = 5

func strptr(s string) *string { return &s }

// unsupportedProbe serves platforms without an adapter: every fact is
// absent, nothing errors.
type unsupportedProbe struct {
	goos string
}

func (p unsupportedProbe) Name() string                             { return p.goos }
func (p unsupportedProbe) SocketCount() (int, bool)                 { return 0, false }
func (p unsupportedProbe) MachineIP() (string, bool)                { return "", false }
func (p unsupportedProbe) HasLoadAverages() bool                    { return false }
func (p unsupportedProbe) DNSServers() []string                     { return nil }
func (p unsupportedProbe) LastLogin(string) (string, *string, bool) { return "", nil, false }
func (p unsupportedProbe) LastLoginIsSlow() bool                    { return false }
func (p unsupportedProbe) Extended(bool) Info                       { return Info{} }
