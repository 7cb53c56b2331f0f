package policy

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar"
	"gopkg.in/yaml.v3"
)

// Option configures one dependency category: unset, a fixed value, or a list of
// glob patterns selecting the files where the category is allowed.
type Option struct {
	set      bool
	glob     bool
	fixed    bool
	patterns []string
}

// Fixed returns an option with a constant value
func Fixed(v bool) Option {
	return Option{set: true, fixed: v}
}

// Globs returns an option that is true for files matching any pattern
func Globs(patterns ...string) Option {
	return Option{set: true, glob: true, patterns: append([]string(nil), patterns...)}
}

// IsSet reports whether the option was configured
func (o Option) IsSet() bool { return o.set }

// IsGlob reports whether the option is a pattern list
func (o Option) IsGlob() bool { return o.glob }

// Patterns returns a copy of the configured patterns
func (o Option) Patterns() []string { return append([]string(nil), o.patterns...) }

func (o Option) String() string {
	switch {
	case !o.set:
		return "default"
	case o.glob:
		return fmt.Sprintf("%v", o.patterns)
	default:
		return fmt.Sprintf("%t", o.fixed)
	}
}

// UnmarshalYAML accepts a boolean or a sequence of strings
func (o *Option) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*o = Option{}
			return nil
		}
		if node.Tag != "!!bool" {
			return fmt.Errorf("line %d: expected a boolean or a list of glob patterns, got %q", node.Line, node.Value)
		}
		var v bool
		if err := node.Decode(&v); err != nil {
			return err
		}
		*o = Fixed(v)
		return nil
	case yaml.SequenceNode:
		patterns := make([]string, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.ScalarNode || item.Tag != "!!str" {
				return fmt.Errorf("line %d: glob patterns must be strings", item.Line)
			}
			patterns = append(patterns, item.Value)
		}
		*o = Globs(patterns...)
		return nil
	default:
		return fmt.Errorf("line %d: expected a boolean or a list of glob patterns", node.Line)
	}
}

// MarshalYAML writes the option back in its configured shape
func (o Option) MarshalYAML() (interface{}, error) {
	switch {
	case !o.set:
		return nil, nil
	case o.glob:
		return o.patterns, nil
	default:
		return o.fixed, nil
	}
}

// MatchesConfig resolves an option for one file. An unset option allows. A pattern
// list allows when filePath matches a pattern as written or the pattern joined onto
// cwd.
func MatchesConfig(o Option, filePath, cwd string) bool {
	if !o.set {
		return true
	}
	if !o.glob {
		return o.fixed
	}

	name := filepath.ToSlash(filePath)
	for _, pattern := range o.patterns {
		if match(pattern, name) {
			return true
		}
		if cwd != "" && match(filepath.Join(cwd, pattern), name) {
			return true
		}
	}
	return false
}

func match(pattern, name string) bool {
	ok, err := doublestar.Match(filepath.ToSlash(pattern), name)
	return err == nil && ok
}

// Allow is the effective per-file policy. Runtime dependencies are always allowed.
type Allow struct {
	DevDependencies      bool
	OptionalDependencies bool
	PeerDependencies     bool
}

// AllowAll permits every category
var AllowAll = Allow{DevDependencies: true, OptionalDependencies: true, PeerDependencies: true}

// Resolve evaluates the three options for filePath
func Resolve(dev, optional, peer Option, filePath, cwd string) Allow {
	return Allow{
		DevDependencies:      MatchesConfig(dev, filePath, cwd),
		OptionalDependencies: MatchesConfig(optional, filePath, cwd),
		PeerDependencies:     MatchesConfig(peer, filePath, cwd),
	}
}
