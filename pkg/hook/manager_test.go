package hook

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
)

func TestExecute_NoHookIsNoop(t *testing.T) {
	m := NewManager()
	assert.NoError(t, m.Execute(PreInstall, Context{Name: "pkg"}))
}

func TestAddAndExecute(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddHook(Hook{
		Type:    PreInstall,
		Content: `err := ""; if name != "pkg" { err = "unexpected name" }`,
	}))

	assert.True(t, m.HasHook(PreInstall))
	assert.NoError(t, m.Execute(PreInstall, Context{Name: "pkg", Version: "1.0-1"}))
}

func TestExecute_ScriptError(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddHook(Hook{
		Type:    PostPublish,
		Content: `err := "publish rejected for " + name`,
	}))

	err := m.Execute(PostPublish, Context{Name: "pkg"})
	require.Error(t, err)
	assert.ErrorIs(t, err, errors.ErrHookExecution)
	assert.Contains(t, err.Error(), "publish rejected for pkg")
}

func TestExecute_CompileError(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddHook(Hook{Type: PreBuild, Content: `if {`}))

	err := m.Execute(PreBuild, Context{})
	assert.ErrorIs(t, err, errors.ErrHookExecution)
}

func TestAddHook_EmptyType(t *testing.T) {
	m := NewManager()
	assert.ErrorIs(t, m.AddHook(Hook{Content: "x := 1"}), errors.ErrHookTypeEmpty)
}

func TestRemoveHook(t *testing.T) {
	m := NewManager()
	require.NoError(t, m.AddHook(Hook{Type: PreRemove, Content: `x := 1`}))
	require.NoError(t, m.RemoveHook(PreRemove))
	assert.False(t, m.HasHook(PreRemove))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "pre-install.tengo"), []byte(`x := 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "post-publish.tengo"), []byte(`x := 1`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte(`ignored`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unknown-event.tengo"), []byte(`ignored`), 0o644))

	m := NewManager()
	require.NoError(t, LoadFromDir(m, dir))

	assert.True(t, m.HasHook(PreInstall))
	assert.True(t, m.HasHook(PostPublish))
	assert.False(t, m.HasHook(Type("unknown-event")))
}

func TestLoadFromDir_MissingDir(t *testing.T) {
	m := NewManager()
	assert.NoError(t, LoadFromDir(m, filepath.Join(t.TempDir(), "absent")))
}
