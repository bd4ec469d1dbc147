package orchestrator

import (
	"context"
	"strings"

	version "github.com/hashicorp/go-version"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// minToolVersion is the oldest package-tool release whose argument forms
// this orchestrator relies on.
const minToolVersion = ">= 0.9.0"

// VerifyTool checks once per orchestrator lifetime that the wrapped tool is
// recent enough.
func (o *Orchestrator) VerifyTool(ctx context.Context) error {
	if o.toolVerified {
		return nil
	}

	var firstLine string
	code, err := o.tool.Tool(ctx, runner.Command{
		Args: []string{"--version"},
		OnLine: func(line string) {
			if firstLine == "" {
				firstLine = line
			}
		},
	})
	if err != nil {
		return err
	}
	if code != 0 {
		return errors.NewToolError(o.cfg.Tools.PkgTool, code)
	}

	fields := strings.Fields(firstLine)
	if len(fields) == 0 {
		return errors.Wrapf(errors.ErrValidation, "unexpected %s --version output %q", o.cfg.Tools.PkgTool, firstLine)
	}
	raw := fields[len(fields)-1]

	v, err := version.NewVersion(raw)
	if err != nil {
		return errors.Wrapf(errors.ErrValidation, "cannot parse tool version %q", raw)
	}
	constraint, err := version.NewConstraint(minToolVersion)
	if err != nil {
		return err
	}
	if !constraint.Check(v) {
		return errors.Wrapf(errors.ErrValidation, "%s %s is older than required %s", o.cfg.Tools.PkgTool, raw, minToolVersion)
	}

	o.toolVerified = true
	return nil
}
