package model

// BuildOptions control package builds.
type BuildOptions struct {
	OutputRepository string // override the default repository root
	Distribution     string // pick the target subtree
}

// InstallOptions control installation into a target root.
type InstallOptions struct {
	Arch         string
	Distribution string
	TargetRoot   string // override the configured target root
	Reinstall    bool   // drop --skip-same-version
}

// PublishOptions control artifact publication.
type PublishOptions struct {
	Arch             string
	InputRepository  string // repository to resolve from
	OutputRepository string // repository to publish into
	Distribution     string
}

// LookupOptions narrow a package resolution.
type LookupOptions struct {
	Version      string // exact version, empty for latest
	Arch         string // defaults to the toolchain arch
	Distribution string // defaults to the toolchain distribution
	Repository   string // explicit repository root to probe first
}

// UnpublishOptions control artifact removal from a repository.
type UnpublishOptions struct {
	Arch         string
	Distribution string
	Repository   string
	UpdateIndex  bool // skip the expensive re-sync when false
}

// ShowOptions control metadata queries.
type ShowOptions struct {
	Version      string // pin to an archived version
	Arch         string
	Distribution string
}
