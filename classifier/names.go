package classifier

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	scopedPattern = regexp.MustCompile(`^@[^/]+/[^/]+`)
	modulePattern = regexp.MustCompile(`^\w`)
)

// PackageName returns the package a specifier refers to: the first two path
// segments for scoped names, otherwise the first segment.
//
//	@scope/pkg/sub -> @scope/pkg
//	pkg/sub        -> pkg
func PackageName(specifier string) string {
	parts := strings.Split(specifier, "/")
	if strings.HasPrefix(parts[0], "@") && len(parts) > 1 {
		return parts[0] + "/" + parts[1]
	}
	return parts[0]
}

// IsRelative reports whether specifier is a ./ or ../ path, or "." / ".."
func IsRelative(specifier string) bool {
	return specifier == "." || specifier == ".." ||
		strings.HasPrefix(specifier, "./") || strings.HasPrefix(specifier, "../")
}

// IsAbsolute reports whether specifier is an absolute file path
func IsAbsolute(specifier string) bool {
	return strings.HasPrefix(specifier, "/") || filepath.IsAbs(specifier)
}

// IsExternal reports whether specifier names a third-party package, as opposed to a
// relative or absolute path, a Node.js core module, or a URL-like reference.
func IsExternal(specifier string) bool {
	if specifier == "" || IsRelative(specifier) || IsAbsolute(specifier) || IsCoreModule(specifier) {
		return false
	}

	if scopedPattern.MatchString(specifier) {
		return true
	}

	first, _, _ := strings.Cut(specifier, "/")
	if strings.Contains(first, ":") {
		// protocol-style references such as "data:" or "https:"
		return false
	}

	return modulePattern.MatchString(specifier)
}
