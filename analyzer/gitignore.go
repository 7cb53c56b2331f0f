package analyzer

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar"
	"github.com/hannajonsd/depcheck/parser"
)

// skippedDirs are never descended into
var skippedDirs = map[string]bool{
	"node_modules":     true,
	"bower_components": true,
	"vendor":           true,
	"build":            true,
	"dist":             true,
	"coverage":         true,
}

// GitignoreParser holds the patterns of a root .gitignore
type GitignoreParser struct {
	rootDir          string
	ignorePatterns   []string
	negationPatterns []string
}

// NewGitignoreParser creates a new gitignore parser for the given directory
func NewGitignoreParser(rootDir string) *GitignoreParser {
	parser := &GitignoreParser{
		rootDir: rootDir,
	}
	parser.loadGitignore()
	return parser
}

// loadGitignore reads and parses the .gitignore file
func (gp *GitignoreParser) loadGitignore() {
	gitignorePath := filepath.Join(gp.rootDir, ".gitignore")
	file, err := os.Open(gitignorePath)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if strings.HasPrefix(line, "!") {
			gp.negationPatterns = append(gp.negationPatterns, strings.TrimPrefix(line, "!"))
		} else {
			gp.ignorePatterns = append(gp.ignorePatterns, line)
		}
	}
}

// ShouldIgnore checks if a path should be ignored based on .gitignore patterns
func (gp *GitignoreParser) ShouldIgnore(path string) bool {
	relPath, err := filepath.Rel(gp.rootDir, path)
	if err != nil || relPath == "." {
		return false
	}

	relPath = filepath.ToSlash(relPath)

	shouldIgnore := false
	for _, pattern := range gp.ignorePatterns {
		if gp.matchPattern(pattern, relPath) {
			shouldIgnore = true
			break
		}
	}

	if shouldIgnore {
		for _, pattern := range gp.negationPatterns {
			if gp.matchPattern(pattern, relPath) {
				return false
			}
		}
	}

	return shouldIgnore
}

// matchPattern checks if a slash-separated relative path matches a gitignore pattern.
// Patterns with a leading or inner slash are anchored at the root; others match at
// any depth.
func (gp *GitignoreParser) matchPattern(pattern, path string) bool {
	pattern = strings.TrimSuffix(pattern, "/")
	if pattern == "" {
		return false
	}

	anchored := strings.Contains(pattern, "/")
	pattern = strings.TrimPrefix(pattern, "/")

	if !anchored {
		pattern = "**/" + pattern
	}

	// a match on a directory also covers everything below it
	return globMatch(pattern, path) || globMatch(pattern+"/**", path)
}

func globMatch(pattern, path string) bool {
	ok, err := doublestar.Match(pattern, path)
	return err == nil && ok
}

// FindSourceFiles finds all JavaScript and TypeScript files under root, honoring
// the root .gitignore and skipping dependency, build and hidden directories.
func FindSourceFiles(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		if parser.IsSupported(root) {
			return []string{root}, nil
		}
		return nil, nil
	}

	var sourceFiles []string
	gitignoreParser := NewGitignoreParser(root)

	err = filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if gitignoreParser.ShouldIgnore(path) {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if path != root && (strings.HasPrefix(info.Name(), ".") || skippedDirs[info.Name()]) {
				return filepath.SkipDir
			}
			return nil
		}

		if parser.IsSupported(path) && !strings.HasSuffix(path, ".d.ts") {
			sourceFiles = append(sourceFiles, path)
		}

		return nil
	})

	return sourceFiles, err
}
