// Package hook runs user-provided Tengo scripts around the orchestrator's
// mutating operations.
package hook

// Type identifies a lifecycle event.
type Type string

// Supported lifecycle events.
const (
	PreBuild    Type = "pre-build"
	PostBuild   Type = "post-build"
	PreInstall  Type = "pre-install"
	PostInstall Type = "post-install"
	PreRemove   Type = "pre-remove"
	PostRemove  Type = "post-remove"
	PostPublish Type = "post-publish"
)

// Hook is a script bound to a lifecycle event.
type Hook struct {
	Type    Type
	Content string
}

// Context is the information exposed to hook scripts as globals.
type Context struct {
	Name         string
	Version      string
	Arch         string
	Distribution string
	Repository   string
	Vars         map[string]interface{}
}

// Manager defines the interface for registering and running hooks.
type Manager interface {
	// Execute runs the hook registered for the event, if any
	Execute(hookType Type, ctx Context) error

	// AddHook registers a script for an event
	AddHook(hook Hook) error

	// RemoveHook unregisters the event's script
	RemoveHook(hookType Type) error

	// HasHook checks whether the event has a script
	HasHook(hookType Type) bool
}
