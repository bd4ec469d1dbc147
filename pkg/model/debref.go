// Package model provides the data structures shared between the index
// parser, the resolver, the archive manager and the orchestrator.
package model

import (
	"fmt"
	"path/filepath"
	"regexp"
)

// CtrlFields carries the control-file fields attached to a resolved package.
type CtrlFields struct {
	Distribution string `json:"Distribution"`
}

// DebRef is a fully-qualified package descriptor. It is produced by the
// resolver and consumed by every mutating operation.
type DebRef struct {
	Name         string     `json:"name"`
	Version      string     `json:"version"`
	Arch         string     `json:"arch,omitempty"`
	Distribution string     `json:"distribution"`
	File         string     `json:"file"`       // absolute artifact path
	Repository   string     `json:"repository"` // owning repository root
	Hash         string     `json:"hash,omitempty"`
	Ctrl         CtrlFields `json:"ctrl"`
}

// IndexEntry is one package occurrence read from a repository index.
type IndexEntry struct {
	Name             string
	Version          string
	Arch             string // empty for source packages
	Distrib          string // empty when the index entry carries no distribution directory
	CtrlDistribution string // control-file Distribution field
	File             string // path relative to the repository root
}

// DebFileName renders the artifact filename for the entry. Source packages
// omit the architecture part.
func (e IndexEntry) DebFileName() string {
	if e.Arch == "" {
		return fmt.Sprintf("%s_%s.deb", e.Name, e.Version)
	}
	return fmt.Sprintf("%s_%s_%s.deb", e.Name, e.Version, e.Arch)
}

// debNameRx splits "<name>_<version>[_<arch>].deb".
var debNameRx = regexp.MustCompile(`^([^ _]+)_([^ _]+)(?:_([^ _]+))?\.deb$`)

// ParseDebFileName parses an artifact filename into an IndexEntry with File
// set to the bare filename. Returns false when the name is not an artifact.
func ParseDebFileName(name string) (IndexEntry, bool) {
	m := debNameRx.FindStringSubmatch(filepath.Base(name))
	if m == nil {
		return IndexEntry{}, false
	}
	return IndexEntry{
		Name:    m[1],
		Version: m[2],
		Arch:    m[3],
		File:    filepath.Base(name),
	}, true
}
