package probe

import (
	"context"
	"os/exec"
	"time"

	"github.com/sysreport-dev/sysreport/internal/logging"
)

var log = logging.L("probe")

// commandTimeout bounds every probe subprocess. A probe that stalls past it
// is treated the same as one that failed.
const commandTimeout = 15 * time.Second

// Runner executes one external command and returns its stdout. Probes never
// call os/exec directly; injecting a fake Runner makes every fallback chain
// testable without the underlying OS tools.
type Runner interface {
	Output(name string, args ...string) (string, error)
}

// ExecRunner is the production Runner backed by os/exec.
type ExecRunner struct {
	Timeout time.Duration
}

// NewRunner returns an ExecRunner with the default timeout.
func NewRunner() ExecRunner {
	return ExecRunner{Timeout: commandTimeout}
}

func (r ExecRunner) Output(name string, args ...string) (string, error) {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = commandTimeout
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err != nil {
		log.Debug("command failed", "cmd", name, logging.KeyError, err)
		return "", err
	}
	return string(out), nil
}
