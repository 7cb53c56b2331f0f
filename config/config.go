package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hannajonsd/depcheck/policy"
	"gopkg.in/yaml.v3"
)

// FileNames are searched, in order, when no config path is given
var FileNames = []string{".depcheck.yaml", ".depcheck.yml", ".depcheck.json"}

// Options are the rule options. Each allow option is unset (allowed), a boolean, or
// a list of glob patterns selecting the files where the category may be imported.
type Options struct {
	DevDependencies      policy.Option `yaml:"devDependencies"`
	OptionalDependencies policy.Option `yaml:"optionalDependencies"`
	PeerDependencies     policy.Option `yaml:"peerDependencies"`
	PackageDir           PathList      `yaml:"packageDir"`
}

// PathList accepts a single path or a list of paths
type PathList []string

// UnmarshalYAML decodes a string or a sequence of strings
func (p *PathList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*p = nil
			return nil
		}
		if node.Tag != "!!str" || node.Value == "" {
			return fmt.Errorf("line %d: packageDir must be a non-empty string or a list of strings", node.Line)
		}
		*p = PathList{node.Value}
		return nil
	case yaml.SequenceNode:
		paths := make(PathList, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" || item.Value == "" {
				return fmt.Errorf("line %d: packageDir entries must be non-empty strings", item.Line)
			}
			paths = append(paths, item.Value)
		}
		*p = paths
		return nil
	default:
		return fmt.Errorf("line %d: packageDir must be a string or a list of strings", node.Line)
	}
}

// Default returns options that allow every dependency category
func Default() *Options {
	return &Options{}
}

// Parse decodes options from YAML or JSON. Unknown keys and wrongly shaped values
// are rejected.
func Parse(data []byte) (*Options, error) {
	opts := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(opts); err != nil {
		if errors.Is(err, io.EOF) {
			return opts, nil
		}
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return opts, nil
}

// Load reads options from a file
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	opts, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return opts, nil
}

// LoadFromDir searches dir for a config file. It returns the defaults and an empty
// path when none exists.
func LoadFromDir(dir string) (*Options, string, error) {
	for _, name := range FileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			opts, err := Load(path)
			return opts, path, err
		}
	}

	return Default(), "", nil
}

// Allow resolves the effective policy for one file
func (o *Options) Allow(filePath, cwd string) policy.Allow {
	return policy.Resolve(o.DevDependencies, o.OptionalDependencies, o.PeerDependencies, filePath, cwd)
}

// PackageDirs returns the configured package directories resolved against cwd
func (o *Options) PackageDirs(cwd string) []string {
	if len(o.PackageDir) == 0 {
		return nil
	}

	dirs := make([]string, 0, len(o.PackageDir))
	for _, dir := range o.PackageDir {
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(cwd, dir)
		}
		dirs = append(dirs, filepath.Clean(dir))
	}
	return dirs
}
