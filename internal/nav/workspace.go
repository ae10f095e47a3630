package nav

import (
	"os"
	"path/filepath"
)

// DefaultWorkspaceMarkers are tried in order when no workspace is given.
var DefaultWorkspaceMarkers = []string{".git", "Gemfile"}

// FindWorkspace returns the workspace root of path. For each marker in
// order, the nearest ancestor directory containing it wins.
func FindWorkspace(path string, markers []string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", NewError(ErrEnvironment, err, "could not resolve %s", path)
	}
	if len(markers) == 0 {
		markers = DefaultWorkspaceMarkers
	}

	start := filepath.Dir(abs)
	for _, marker := range markers {
		for dir := start; ; dir = filepath.Dir(dir) {
			if _, err := os.Stat(filepath.Join(dir, marker)); err == nil {
				return dir, nil
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
		}
	}
	return "", NewError(ErrEnvironment, nil, "file is not in a workspace: %s", path)
}

// InWorkspace reports whether path lives under workspace.
func InWorkspace(workspace, path string) bool {
	rel, err := filepath.Rel(workspace, path)
	if err != nil {
		return false
	}
	return rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
