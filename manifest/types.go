package manifest

// FileName is the manifest file consulted in every package directory
const FileName = "package.json"

// Category identifies one dependency section of a manifest
type Category int

const (
	Runtime Category = iota
	Development
	Optional
	Peer
)

func (c Category) String() string {
	switch c {
	case Runtime:
		return "dependencies"
	case Development:
		return "devDependencies"
	case Optional:
		return "optionalDependencies"
	case Peer:
		return "peerDependencies"
	default:
		return "unknown"
	}
}

// PackageJSON represents the dependency-related fields of package.json
type PackageJSON struct {
	Name                 string            `json:"name"`
	Version              string            `json:"version"`
	Dependencies         map[string]string `json:"dependencies"`
	DevDependencies      map[string]string `json:"devDependencies"`
	OptionalDependencies map[string]string `json:"optionalDependencies"`
	PeerDependencies     map[string]string `json:"peerDependencies"`
}

// Table is the merged view of the dependency sections of one or more manifests.
// Values are version specifiers and are never interpreted, only presence matters.
// A Table is not modified after Build returns it.
type Table struct {
	sections [4]map[string]string
}

// NewTable builds a table from explicit sections. Nil maps are treated as empty.
func NewTable(runtime, dev, optional, peer map[string]string) *Table {
	t := &Table{}
	for i, m := range []map[string]string{runtime, dev, optional, peer} {
		t.sections[i] = copySection(m)
	}
	return t
}

// TableFrom extracts the four dependency sections of a parsed manifest
func TableFrom(pkg *PackageJSON) *Table {
	if pkg == nil {
		return NewTable(nil, nil, nil, nil)
	}
	return NewTable(pkg.Dependencies, pkg.DevDependencies, pkg.OptionalDependencies, pkg.PeerDependencies)
}

// Has reports whether name is declared in the given section
func (t *Table) Has(c Category, name string) bool {
	if t == nil || c < Runtime || c > Peer {
		return false
	}
	_, ok := t.sections[c][name]
	return ok
}

// Version returns the declared specifier for name in the given section
func (t *Table) Version(c Category, name string) (string, bool) {
	if t == nil || c < Runtime || c > Peer {
		return "", false
	}
	v, ok := t.sections[c][name]
	return v, ok
}

// Len returns the number of names declared in a section
func (t *Table) Len(c Category) int {
	if t == nil || c < Runtime || c > Peer {
		return 0
	}
	return len(t.sections[c])
}

// Empty reports whether every section is empty
func (t *Table) Empty() bool {
	for c := Runtime; c <= Peer; c++ {
		if t.Len(c) > 0 {
			return false
		}
	}
	return true
}

// Merge returns a new table holding the key-wise union of t and other.
// On a name collision within a section the value from other wins.
func (t *Table) Merge(other *Table) *Table {
	merged := &Table{}
	for c := Runtime; c <= Peer; c++ {
		section := make(map[string]string, t.Len(c)+other.Len(c))
		if t != nil {
			for k, v := range t.sections[c] {
				section[k] = v
			}
		}
		if other != nil {
			for k, v := range other.sections[c] {
				section[k] = v
			}
		}
		merged.sections[c] = section
	}
	return merged
}

func copySection(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
