package runner

import (
	"context"

	"github.com/xcraft-inc/gowpkg/pkg/errors"
)

// GreaterThan reports whether v1 sorts strictly after v2 under the tool's
// Debian version ordering. Exit code 0 means the predicate holds, 1 that it
// does not; anything else is a tool failure.
func (r *Runner) GreaterThan(ctx context.Context, v1, v2 string) (bool, error) {
	code, err := r.Tool(ctx, Command{Args: []string{"--compare-versions", v1, ">", v2}})
	if err != nil {
		return false, err
	}
	switch code {
	case 0:
		return true, nil
	case 1:
		return false, nil
	default:
		return false, errors.NewToolError(r.cfg.Tools.PkgTool, code)
	}
}
