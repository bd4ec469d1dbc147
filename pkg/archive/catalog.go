package archive

import (
	"regexp"
	"sort"

	json "github.com/goccy/go-json"

	"github.com/xcraft-inc/gowpkg/pkg/errors"
)

// CatalogFilename is the per-package catalog file inside the archive tree.
const CatalogFilename = "index.json"

// latestKey shares the top-level namespace with base-version keys.
const latestKey = "latest"

// baseVersionRx strips the trailing -suffix off a full version.
var baseVersionRx = regexp.MustCompile(`-[^-]*$`)

// BaseVersion returns the version up to (but not including) the last
// -suffix. A version without a dash is its own base.
func BaseVersion(version string) string {
	return baseVersionRx.ReplaceAllString(version, "")
}

// BaseEntry records the known variants of one base version.
type BaseEntry struct {
	Latest   string   `json:"latest"`
	Versions []string `json:"versions"`
}

// Catalog is the per-package archive catalog persisted as index.json: one key
// per base version plus a top-level "latest" pointing at the greatest base.
type Catalog struct {
	Latest string
	Bases  map[string]*BaseEntry
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{Bases: make(map[string]*BaseEntry)}
}

// Add records a full version under its base, keeping the version list sorted
// and unique. Latest pointers are left to the caller.
func (c *Catalog) Add(version string) {
	base := BaseVersion(version)
	entry := c.Bases[base]
	if entry == nil {
		entry = &BaseEntry{}
		c.Bases[base] = entry
	}
	for _, v := range entry.Versions {
		if v == version {
			return
		}
	}
	entry.Versions = append(entry.Versions, version)
	sort.Strings(entry.Versions)
}

// AllVersions returns every full version in the catalog, sorted.
func (c *Catalog) AllVersions() []string {
	var versions []string
	for _, entry := range c.Bases {
		versions = append(versions, entry.Versions...)
	}
	sort.Strings(versions)
	return versions
}

// MarshalJSON flattens the catalog into one object: base-version keys plus
// the literal "latest" key. Key order is stable.
func (c *Catalog) MarshalJSON() ([]byte, error) {
	flat := make(map[string]interface{}, len(c.Bases)+1)
	for base, entry := range c.Bases {
		flat[base] = entry
	}
	flat[latestKey] = c.Latest
	return json.Marshal(flat)
}

// UnmarshalJSON splits the flat object back into the latest pointer and the
// base entries.
func (c *Catalog) UnmarshalJSON(data []byte) error {
	var flat map[string]json.RawMessage
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	c.Bases = make(map[string]*BaseEntry, len(flat))
	for key, raw := range flat {
		if key == latestKey {
			if err := json.Unmarshal(raw, &c.Latest); err != nil {
				return errors.Wrap(err, "invalid latest pointer in archive catalog")
			}
			continue
		}
		entry := &BaseEntry{}
		if err := json.Unmarshal(raw, entry); err != nil {
			return errors.Wrapf(err, "invalid catalog entry %s", key)
		}
		c.Bases[key] = entry
	}
	return nil
}
