package capture

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/koyoi/falls/internal/config"
)

// OutputPath maps a requested output name into root. Any ".." is replaced
// before the path is joined, an empty name becomes the default, and a name
// without an extension gets ".png".
func OutputPath(root, name string) (string, error) {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "..", "_")
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimLeft(name, "/")
	if name == "" {
		name = config.DefaultCaptureOutput
	}
	if filepath.Ext(name) == "" {
		name += ".png"
	}

	root = filepath.Clean(root)
	path := filepath.Join(root, filepath.FromSlash(name))

	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return "", fmt.Errorf("capture: output %q escapes %s", name, root)
	}
	return path, nil
}

// FramePath returns the path of frame i of a sequence rooted at path:
// "out/burst.png" becomes "out/burst_0003.png".
func FramePath(path string, i int) string {
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%04d%s", strings.TrimSuffix(path, ext), i, ext)
}
