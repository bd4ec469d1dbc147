package hook

import (
	"github.com/xcraft-inc/gowpkg/pkg/errors"
)

// DefaultManager is the default implementation of Manager.
type DefaultManager struct {
	executor *TengoExecutor
}

// NewManager creates a hook manager with no registered scripts.
func NewManager() *DefaultManager {
	return &DefaultManager{
		executor: NewTengoExecutor(),
	}
}

// Execute runs the script registered for the event with the given context.
func (m *DefaultManager) Execute(hookType Type, ctx Context) error {
	if !m.HasHook(hookType) {
		return nil
	}

	ctxCopy := ctx
	if ctxCopy.Vars == nil {
		ctxCopy.Vars = make(map[string]interface{})
	}
	return m.executor.Execute(hookType, ctxCopy)
}

// AddHook registers a new script.
func (m *DefaultManager) AddHook(hook Hook) error {
	if hook.Type == "" {
		return errors.ErrHookTypeEmpty
	}
	m.executor.AddScript(hook.Type, hook.Content)
	return nil
}

// RemoveHook unregisters the event's script.
func (m *DefaultManager) RemoveHook(hookType Type) error {
	if hookType == "" {
		return errors.ErrHookTypeEmpty
	}
	m.executor.RemoveScript(hookType)
	return nil
}

// HasHook checks whether a script is registered for the event.
func (m *DefaultManager) HasHook(hookType Type) bool {
	return m.executor.HasScript(hookType)
}
