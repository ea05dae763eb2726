package collect

import (
	"context"
	"os"
	"strings"

	"github.com/sysreport-dev/sysreport/internal/probe"
)

func collectNetwork(_ context.Context, _ Mode, p probe.Platform) (NetworkInfo, error) {
	var info NetworkInfo

	if ip, ok := p.MachineIP(); ok {
		info.MachineIP = &ip
	}
	if ip, ok := clientIP(os.Getenv); ok {
		info.ClientIP = &ip
	}
	info.DNSServers = p.DNSServers()

	return info, nil
}

// clientIP reads the remote address of an SSH session from the variables
// sshd sets. Local sessions have neither and report absence.
func clientIP(getenv func(string) string) (string, bool) {
	for _, key := range []string{"SSH_CLIENT", "SSH_CONNECTION"} {
		fields := strings.Fields(getenv(key))
		if len(fields) > 0 {
			return fields[0], true
		}
	}
	return "", false
}
