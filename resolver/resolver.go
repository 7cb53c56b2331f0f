package resolver

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/hannajonsd/depcheck/classifier"
)

// DefaultExtensions are probed when a specifier names a file without extension
var DefaultExtensions = []string{".js", ".mjs", ".cjs", ".json", ".node", ".ts", ".tsx", ".d.ts"}

// NodeModules resolves bare specifiers by looking for the package directory in
// node_modules, walking upward from the importing file.
type NodeModules struct {
	Extensions []string
}

// New creates a node_modules resolver with the default extensions
func New() *NodeModules {
	return &NodeModules{Extensions: DefaultExtensions}
}

// Resolve returns the location of specifier as seen from fromFile. A bare
// specifier resolves when its package directory exists; the subpath, when it can
// be found on disk, refines the returned location.
func (r *NodeModules) Resolve(specifier, fromFile string) (string, bool) {
	abs, err := filepath.Abs(fromFile)
	if err != nil {
		return "", false
	}
	dir := filepath.Dir(abs)

	if classifier.IsRelative(specifier) || classifier.IsAbsolute(specifier) {
		target := specifier
		if !filepath.IsAbs(target) {
			target = filepath.Join(dir, specifier)
		}
		return r.resolveFile(target)
	}

	pkg := classifier.PackageName(specifier)
	sub := strings.TrimPrefix(strings.TrimPrefix(specifier, pkg), "/")

	for {
		base := filepath.Join(dir, "node_modules", filepath.FromSlash(pkg))
		if isDir(base) {
			if sub != "" {
				if found, ok := r.resolveFile(filepath.Join(base, filepath.FromSlash(sub))); ok {
					return found, true
				}
			}
			return base, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

func (r *NodeModules) resolveFile(target string) (string, bool) {
	if isFile(target) {
		return target, true
	}
	for _, ext := range r.Extensions {
		if isFile(target + ext) {
			return target + ext, true
		}
	}
	if isDir(target) {
		if isFile(filepath.Join(target, "package.json")) {
			return target, true
		}
		for _, ext := range r.Extensions {
			index := filepath.Join(target, "index"+ext)
			if isFile(index) {
				return index, true
			}
		}
	}
	return "", false
}

// Any treats every specifier as resolvable. It is used when dependencies are not
// installed, so unlisted packages are still reported.
var Any = classifier.ResolverFunc(func(specifier, fromFile string) (string, bool) {
	return specifier, true
})

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
