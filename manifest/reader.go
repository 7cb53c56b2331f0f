package manifest

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
)

// Reader loads and parses a single manifest file
type Reader interface {
	Read(path string) (*PackageJSON, error)
}

// FileReader reads manifests straight from disk on every call
type FileReader struct{}

// Read parses the package.json at path. A missing file yields ErrManifestNotFound,
// other I/O failures a *ReadError and invalid JSON a *ParseError.
func (FileReader) Read(path string) (*PackageJSON, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrManifestNotFound
		}
		return nil, &ReadError{Path: path, Err: err}
	}

	var pkg PackageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &pkg, nil
}

// Locate walks upward from the directory of filePath and returns the path of the
// nearest package.json.
func Locate(filePath string) (string, error) {
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return "", &ReadError{Path: filePath, Err: err}
	}

	dir := filepath.Dir(abs)
	for {
		candidate := filepath.Join(dir, FileName)
		info, err := os.Stat(candidate)
		switch {
		case err == nil && !info.IsDir():
			return candidate, nil
		case err != nil && !errors.Is(err, fs.ErrNotExist) && !errors.Is(err, fs.ErrPermission):
			return "", &ReadError{Path: candidate, Err: err}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrManifestNotFound
		}
		dir = parent
	}
}
