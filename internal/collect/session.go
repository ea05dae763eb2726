package collect

import (
	"context"
	"fmt"
	"os"
	"os/user"
	"strings"

	"github.com/sysreport-dev/sysreport/internal/probe"
)

func collectSession(_ context.Context, mode Mode, p probe.Platform) (SessionInfo, error) {
	current, err := user.Current()
	if err != nil {
		return SessionInfo{}, fmt.Errorf("current user: %w", err)
	}

	info := SessionInfo{
		Username: shortUsername(current.Username),
		HomeDir:  current.HomeDir,
	}
	if cwd, err := os.Getwd(); err == nil {
		info.Cwd = &cwd
	}

	// Last login is dropped in fast mode on platforms whose only
	// implementation shells out.
	if mode.AllowSlow() || !p.LastLoginIsSlow() {
		if when, from, ok := p.LastLogin(info.Username); ok {
			info.LastLogin = &LastLogin{When: when, From: from}
		}
	}

	return info, nil
}

// shortUsername strips the DOMAIN\ prefix Windows puts on usernames.
func shortUsername(name string) string {
	if idx := strings.LastIndex(name, `\`); idx >= 0 {
		return name[idx+1:]
	}
	return name
}
