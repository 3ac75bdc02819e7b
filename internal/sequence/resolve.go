package sequence

import (
	"path/filepath"
	"strings"
)

// EnginePrefix marks a reference rooted at the resource root rather than
// the watched directory.
const EnginePrefix = "res://"

// ResolveRef turns a track reference into a filesystem path. Absolute paths
// are used as-is, engine-rooted references map onto resRoot, and anything
// else is relative to watchDir.
func ResolveRef(watchDir, resRoot, ref string) string {
	switch {
	case ref == "":
		return ""
	case strings.HasPrefix(ref, EnginePrefix):
		return filepath.Join(resRoot, filepath.FromSlash(strings.TrimPrefix(ref, EnginePrefix)))
	case filepath.IsAbs(ref):
		return filepath.Clean(ref)
	default:
		return filepath.Join(watchDir, filepath.FromSlash(ref))
	}
}
