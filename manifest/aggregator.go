package manifest

import (
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// Aggregator builds the dependency table for an analyzed file
type Aggregator struct {
	reader Reader
	log    *logrus.Logger
}

// NewAggregator creates an aggregator. A nil reader reads from disk on every call.
func NewAggregator(reader Reader, log *logrus.Logger) *Aggregator {
	if reader == nil {
		reader = FileReader{}
	}
	if log == nil {
		log = logrus.New()
	}

	return &Aggregator{
		reader: reader,
		log:    log,
	}
}

// Sources returns the ordered manifest paths consulted for filePath: the nearest
// enclosing package.json first, then one per package directory. Each absolute path
// appears once.
func (a *Aggregator) Sources(filePath string, packageDirs []string) ([]string, error) {
	nearest, err := Locate(filePath)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{nearest: true}
	sources := []string{nearest}

	for _, dir := range packageDirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, &ReadError{Path: dir, Err: err}
		}

		path := filepath.Join(abs, FileName)
		if seen[path] {
			continue
		}
		seen[path] = true
		sources = append(sources, path)
	}

	return sources, nil
}

// Build locates, reads and merges the manifests for filePath. Manifests are folded in
// source order so entries from earlier manifests are never dropped. ErrEmptyManifest
// is returned when the merged table declares nothing.
func (a *Aggregator) Build(filePath string, packageDirs []string) (*Table, error) {
	sources, err := a.Sources(filePath, packageDirs)
	if err != nil {
		return nil, err
	}

	table := NewTable(nil, nil, nil, nil)
	for _, path := range sources {
		pkg, err := a.reader.Read(path)
		if err != nil {
			return nil, err
		}
		a.log.Debugf("Merging dependencies from %s", path)
		table = table.Merge(TableFrom(pkg))
	}

	if table.Empty() {
		return nil, ErrEmptyManifest
	}

	return table, nil
}
