package hook

import (
	"os"
	"path/filepath"

	"github.com/xcraft-inc/gowpkg/pkg/errors"
)

// scriptExtension is the only supported hook script extension.
const scriptExtension = ".tengo"

// LoadFromDir registers every "<event>.tengo" script found in dir. A missing
// directory is not an error.
func LoadFromDir(manager Manager, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrapf(err, "failed to read hooks directory %s", dir)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != scriptExtension {
			continue
		}
		name := entry.Name()
		hookType := Type(name[:len(name)-len(scriptExtension)])
		if !knownType(hookType) {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return errors.Wrapf(err, "failed to read hook script %s", name)
		}
		if err := manager.AddHook(Hook{Type: hookType, Content: string(content)}); err != nil {
			return err
		}
	}
	return nil
}

func knownType(t Type) bool {
	switch t {
	case PreBuild, PostBuild, PreInstall, PostInstall, PreRemove, PostRemove, PostPublish:
		return true
	}
	return false
}
