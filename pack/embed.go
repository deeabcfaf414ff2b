package pack

import (
	"embed"
	"os"
	"path/filepath"
	"strings"
)

// Dir is the on-disk override directory, relative to the working directory.
// Files found there shadow the embedded defaults.
const Dir = "pack"

//go:embed *.yaml
var PackFS embed.FS

// Load reads a pack file, preferring an on-disk copy under Dir so edits take
// effect without rebuilding, and falling back to the embedded default.
func Load(name string) ([]byte, error) {
	clean := cleanPackPath(name)
	if data, err := os.ReadFile(diskPackPath(clean)); err == nil {
		return data, nil
	}
	return PackFS.ReadFile(clean)
}

func cleanPackPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	return strings.TrimPrefix(s, Dir+"/")
}

func diskPackPath(clean string) string {
	return filepath.Join(Dir, filepath.FromSlash(clean))
}
