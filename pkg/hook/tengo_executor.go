package hook

import (
	"sync"

	"github.com/d5/tengo/v2"
	"github.com/d5/tengo/v2/stdlib"
	"github.com/xcraft-inc/gowpkg/pkg/errors"
)

// TengoExecutor compiles and runs the registered Tengo scripts.
type TengoExecutor struct {
	scripts map[Type]string
	mutex   sync.RWMutex
}

// NewTengoExecutor creates a new executor.
func NewTengoExecutor() *TengoExecutor {
	return &TengoExecutor{
		scripts: make(map[Type]string),
	}
}

// Execute runs the event's script with the given context.
func (e *TengoExecutor) Execute(hookType Type, ctx Context) error {
	e.mutex.RLock()
	script, exists := e.scripts[hookType]
	e.mutex.RUnlock()
	if !exists {
		return nil
	}

	instance := tengo.NewScript([]byte(script))
	instance.SetImports(stdlib.GetModuleMap("fmt", "os", "text", "times"))

	_ = instance.Add("name", ctx.Name)
	_ = instance.Add("version", ctx.Version)
	_ = instance.Add("arch", ctx.Arch)
	_ = instance.Add("distribution", ctx.Distribution)
	_ = instance.Add("repository", ctx.Repository)
	for k, v := range ctx.Vars {
		_ = instance.Add(k, v)
	}

	compiled, err := instance.Run()
	if err != nil {
		return errors.Wrapf(errors.ErrHookExecution, "%s: %v", hookType, err)
	}

	// a script reports failure by assigning err
	if errVar := compiled.Get("err"); errVar != nil {
		switch v := errVar.Value().(type) {
		case error:
			return errors.Wrapf(errors.ErrHookExecution, "%s: %s", hookType, v.Error())
		case string:
			if v != "" {
				return errors.Wrapf(errors.ErrHookExecution, "%s: %s", hookType, v)
			}
		}
	}
	return nil
}

// AddScript adds or replaces the event's script.
func (e *TengoExecutor) AddScript(hookType Type, script string) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	e.scripts[hookType] = script
}

// RemoveScript drops the event's script.
func (e *TengoExecutor) RemoveScript(hookType Type) {
	e.mutex.Lock()
	defer e.mutex.Unlock()
	delete(e.scripts, hookType)
}

// HasScript checks whether the event has a script.
func (e *TengoExecutor) HasScript(hookType Type) bool {
	e.mutex.RLock()
	defer e.mutex.RUnlock()
	_, exists := e.scripts[hookType]
	return exists
}
