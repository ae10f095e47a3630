package resolve

import (
	"path/filepath"
	"strings"

	"github.com/morozRed/railsnav/internal/convention"
)

// Candidate is one convention-derived location a controller or view may live at.
type Candidate struct {
	Path      string `json:"path"`
	Root      string `json:"root"`
	Extension string `json:"extension,omitempty"`
}

// Roots returns the ordered base directories searched for identity. The
// workspace always comes first; when identity is namespaced, one root per
// multi-root prefix follows, e.g. <workspace>/domains/cms.
func Roots(opts convention.Options, workspace, identity string) []string {
	roots := []string{workspace}
	prefix, _, namespaced := strings.Cut(identity, "/")
	if !namespaced || prefix == "" {
		return roots
	}
	for _, dir := range opts.MultiRootPrefixes {
		roots = append(roots, filepath.Join(workspace, dir, prefix))
	}
	return roots
}

// ViewCandidates enumerates view paths root-major, extension-minor: the
// candidate at i*len(opts.ViewExtensions)+j belongs to roots[i] and
// extension j.
func ViewCandidates(opts convention.Options, roots []string, identity, action string) []Candidate {
	out := make([]Candidate, 0, len(roots)*len(opts.ViewExtensions))
	for _, root := range roots {
		dir := filepath.Join(root, opts.AppDir, opts.ViewsDir, filepath.FromSlash(identity))
		for _, ext := range opts.ViewExtensions {
			out = append(out, Candidate{
				Path:      filepath.Join(dir, action+ext.String()),
				Root:      root,
				Extension: ext.String(),
			})
		}
	}
	return out
}

// ControllerCandidates enumerates one controller path per root.
func ControllerCandidates(opts convention.Options, roots []string, identity string) []Candidate {
	out := make([]Candidate, 0, len(roots))
	file := filepath.FromSlash(identity) + opts.ControllerFileSuffix()
	for _, root := range roots {
		out = append(out, Candidate{
			Path:      filepath.Join(root, opts.AppDir, opts.ControllersDir, file),
			Root:      root,
			Extension: opts.SourceExt,
		})
	}
	return out
}
