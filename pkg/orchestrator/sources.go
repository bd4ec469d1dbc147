package orchestrator

import (
	"context"
	"os"
	"strconv"
	"strings"

	"github.com/xcraft-inc/gowpkg/internal/logger"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
	"github.com/xcraft-inc/gowpkg/pkg/runner"
)

// readSourcesList reads the target's sources.list directly. The tool's own
// --list-sources takes the admindir database lock, which we avoid here.
// Lines are returned verbatim so indexes stay 1-based file line numbers.
func (o *Orchestrator) readSourcesList(targetRoot, arch string) ([]string, error) {
	path := o.cfg.SourcesListPath(targetRoot, arch)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "failed to read %s", path)
	}
	lines := strings.Split(string(data), "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return lines, nil
}

// AddSources registers a source entry in the target root. An entry already
// present is a no-op without any tool invocation.
func (o *Orchestrator) AddSources(ctx context.Context, sourcePath, arch, targetRoot string) error {
	entries, err := o.readSourcesList(targetRoot, arch)
	if err != nil {
		return err
	}
	entry := strings.TrimSpace(sourcePath)
	for _, line := range entries {
		if strings.TrimSpace(line) == entry {
			logger.Debug("source entry already present", logger.Fields{"entry": entry})
			return nil
		}
	}

	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--add-sources"}
	return o.runTool(ctx, runner.Command{Args: args, LastArg: sourcePath})
}

// RemoveSources unregisters a source entry from the target root. A missing
// entry is a no-op; otherwise the tool removes it by its 1-based index.
func (o *Orchestrator) RemoveSources(ctx context.Context, sourcePath, arch, targetRoot string) error {
	entries, err := o.readSourcesList(targetRoot, arch)
	if err != nil {
		return err
	}

	index := -1
	entry := strings.TrimSpace(sourcePath)
	for i, line := range entries {
		if strings.TrimSpace(line) == entry {
			index = i + 1
			break
		}
	}
	if index < 0 {
		logger.Debug("source entry not present", logger.Fields{"entry": entry})
		return nil
	}

	args := []string{"--root", o.cfg.TargetPath(targetRoot, arch), "--remove-sources"}
	return o.runTool(ctx, runner.Command{Args: args, LastArg: strconv.Itoa(index)})
}
