package collect

// Mode selects the collection depth for one run.
type Mode int

const (
	// Full samples CPU usage over a real window and runs every platform
	// probe, including slow subprocess queries.
	Full Mode = iota

	// Fast trades completeness for latency: no delta sampling, no
	// subprocess probes. Facts that need them come back absent.
	Fast
)

func (m Mode) String() string {
	if m == Fast {
		return "fast"
	}
	return "full"
}

// AllowSlow reports whether slow probes run in this mode.
func (m Mode) AllowSlow() bool { return m == Full }
