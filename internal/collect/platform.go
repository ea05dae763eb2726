package collect

import (
	"context"

	"github.com/sysreport-dev/sysreport/internal/probe"
)

func collectPlatform(_ context.Context, mode Mode, p probe.Platform) (probe.Info, error) {
	return p.Extended(mode.AllowSlow()), nil
}
