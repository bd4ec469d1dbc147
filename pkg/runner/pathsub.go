package runner

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/xcraft-inc/gowpkg/internal/logger"
)

// paths at or under this length are passed through untouched
const shortPathLimit = 64

// PathMapper presents a short alias for a long directory path. wpkg trips
// over deeply nested temp directories on some platforms.
type PathMapper interface {
	Short(path string) string
}

// SubstMapper aliases long paths through a stable symlink under the system
// temp directory.
type SubstMapper struct {
	aliasRoot string
}

// NewSubstMapper creates a mapper placing aliases under the system temp
// directory.
func NewSubstMapper() *SubstMapper {
	return &SubstMapper{aliasRoot: os.TempDir()}
}

// Short returns an aliased path for long inputs. On any failure the original
// path is returned; the tool may still cope.
func (m *SubstMapper) Short(path string) string {
	if len(path) <= shortPathLimit {
		return path
	}

	sum := sha256.Sum256([]byte(path))
	alias := filepath.Join(m.aliasRoot, "gowpkg-"+hex.EncodeToString(sum[:4]))

	if target, err := os.Readlink(alias); err == nil && target == path {
		return alias
	}
	_ = os.Remove(alias)
	if err := os.Symlink(path, alias); err != nil {
		logger.Debug("path substitution failed", logger.Fields{"path": path, "error": err})
		return path
	}
	return alias
}
