package runner

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcraft-inc/gowpkg/pkg/config"
	"github.com/xcraft-inc/gowpkg/test/toolstub"
)

func stubConfig(t *testing.T) (*config.Config, string) {
	t.Helper()
	bin, callsLog := toolstub.Install(t)
	cfg := config.DefaultConfig()
	cfg.Tools.PkgTool = bin
	cfg.Tools.PkgGraph = bin
	cfg.TempDir = t.TempDir()
	return cfg, callsLog
}

func TestTool_PrependsTmpdirAndAppendsLastArg(t *testing.T) {
	cfg, callsLog := stubConfig(t)
	r := New(cfg, nil)

	code, err := r.Tool(context.Background(), Command{
		Args:    []string{"--install"},
		LastArg: "/repo/stable/pkg_1.0_amd64.deb",
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	calls := toolstub.Calls(t, callsLog)
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0], "--tmpdir "), "got %q", calls[0])
	assert.True(t, strings.HasSuffix(calls[0], "--install /repo/stable/pkg_1.0_amd64.deb"), "got %q", calls[0])
}

func TestTool_StdoutLines(t *testing.T) {
	cfg, _ := stubConfig(t)
	r := New(cfg, nil)

	var lines []string
	code, err := r.Tool(context.Background(), Command{
		Args:   []string{"--field", "pkg", "Version", "Depends"},
		OnLine: func(line string) { lines = append(lines, line) },
	})
	require.NoError(t, err)
	assert.Equal(t, 0, code)
	assert.Equal(t, []string{"Version: value-of-Version", "Depends: value-of-Depends"}, lines)
}

func TestTool_ExitCodePropagated(t *testing.T) {
	cfg, _ := stubConfig(t)
	r := New(cfg, nil)

	code, err := r.Tool(context.Background(), Command{Args: []string{"--fail", "3"}})
	require.NoError(t, err)
	assert.Equal(t, 3, code)
}

func TestTool_SpawnFailure(t *testing.T) {
	cfg, _ := stubConfig(t)
	cfg.Tools.PkgTool = "/nonexistent/wpkg-binary"
	r := New(cfg, nil)

	_, err := r.Tool(context.Background(), Command{Args: []string{"--version"}})
	assert.Error(t, err)
}

func TestTool_EnvOverlayWins(t *testing.T) {
	cfg, _ := stubConfig(t)
	r := New(cfg, nil)

	t.Setenv("GOWPKG_STUB_VAR", "process")

	var lines []string
	_, err := r.Tool(context.Background(), Command{
		Args:   []string{"--print-env", "GOWPKG_STUB_VAR"},
		Env:    map[string]string{"GOWPKG_STUB_VAR": "overlay"},
		OnLine: func(line string) { lines = append(lines, line) },
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "overlay", lines[0])
}

func TestGraph_NoTmpdir(t *testing.T) {
	cfg, callsLog := stubConfig(t)
	r := New(cfg, nil)

	code, err := r.Graph(context.Background(), Command{Args: []string{"--verbose", "a.deb"}})
	require.NoError(t, err)
	assert.Equal(t, 0, code)

	calls := toolstub.Calls(t, callsLog)
	require.Len(t, calls, 1)
	assert.Equal(t, "--verbose a.deb", calls[0])
}

func TestGreaterThan(t *testing.T) {
	cfg, _ := stubConfig(t)
	r := New(cfg, nil)
	ctx := context.Background()

	gt, err := r.GreaterThan(ctx, "1.0-2", "1.0-1")
	require.NoError(t, err)
	assert.True(t, gt)

	gt, err = r.GreaterThan(ctx, "0.9", "1.0-1")
	require.NoError(t, err)
	assert.False(t, gt)

	gt, err = r.GreaterThan(ctx, "1.0", "1.0")
	require.NoError(t, err)
	assert.False(t, gt)
}

func TestSubstMapper_ShortPathUntouched(t *testing.T) {
	m := NewSubstMapper()
	assert.Equal(t, "/tmp/x", m.Short("/tmp/x"))
}

func TestSubstMapper_LongPathAliased(t *testing.T) {
	long := t.TempDir()
	for len(long) <= shortPathLimit {
		long += "/abcdefghij"
	}
	// the alias target need not exist: Readlink also reads a dangling link
	m := NewSubstMapper()
	short := m.Short(long)
	assert.NotEqual(t, long, short)
	assert.LessOrEqual(t, len(short), shortPathLimit)

	// stable across calls
	assert.Equal(t, short, m.Short(long))
}
