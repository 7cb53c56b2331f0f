package classifier

import (
	"fmt"

	"github.com/hannajonsd/depcheck/manifest"
	"github.com/hannajonsd/depcheck/parser"
	"github.com/hannajonsd/depcheck/policy"
)

// Resolver locates the module a specifier refers to, as seen from fromFile
type Resolver interface {
	Resolve(specifier, fromFile string) (string, bool)
}

// ResolverFunc adapts a function to Resolver
type ResolverFunc func(specifier, fromFile string) (string, bool)

func (f ResolverFunc) Resolve(specifier, fromFile string) (string, bool) {
	return f(specifier, fromFile)
}

// Outcome is the decision for one import
type Outcome int

const (
	Skip Outcome = iota
	Allow
	Report
)

func (o Outcome) String() string {
	switch o {
	case Skip:
		return "skip"
	case Allow:
		return "allow"
	case Report:
		return "report"
	default:
		return "unknown"
	}
}

// Reason says why an import was reported
type Reason int

const (
	ReasonNone Reason = iota
	ReasonMissing
	ReasonDevDependency
	ReasonOptionalDependency
)

// Verdict is the classification of one import specifier
type Verdict struct {
	Outcome Outcome
	Reason  Reason
	Package string
	Message string
}

// Messages reported for extraneous imports
const (
	missingTemplate  = "'%s' should be listed in the project's dependencies. Run 'npm i -S %s' to add it"
	devTemplate      = "'%s' should be listed in the project's dependencies, not devDependencies."
	optionalTemplate = "'%s' should be listed in the project's dependencies, not optionalDependencies."
)

// MissingMessage is reported when a package is declared in no allowed section
func MissingMessage(pkg string) string { return fmt.Sprintf(missingTemplate, pkg, pkg) }

// DevMessage is reported when a package is only a disallowed devDependency
func DevMessage(pkg string) string { return fmt.Sprintf(devTemplate, pkg) }

// OptionalMessage is reported when a package is only a disallowed optionalDependency
func OptionalMessage(pkg string) string { return fmt.Sprintf(optionalTemplate, pkg) }

// Classify decides whether imp, found in fromFile, is satisfied by table under allow.
// Type-only, non-external and unresolvable specifiers are skipped. Neither table
// nor allow is modified.
func Classify(imp parser.ImportSpecifier, fromFile string, table *manifest.Table, allow policy.Allow, resolver Resolver) Verdict {
	if imp.IsTypeOnly() {
		return Verdict{Outcome: Skip}
	}

	if !IsExternal(imp.Value) {
		return Verdict{Outcome: Skip}
	}

	if resolver != nil {
		if _, ok := resolver.Resolve(imp.Value, fromFile); !ok {
			return Verdict{Outcome: Skip}
		}
	}

	pkg := PackageName(imp.Value)
	return Decide(pkg, table, allow)
}

// Decide applies the dependency table to an already extracted package name.
// Sections are checked in priority order: runtime, dev, peer, optional. A peer
// dependency that is not allowed gets the generic missing message.
func Decide(pkg string, table *manifest.Table, allow policy.Allow) Verdict {
	inDev := table.Has(manifest.Development, pkg)
	inOptional := table.Has(manifest.Optional, pkg)

	switch {
	case table.Has(manifest.Runtime, pkg),
		inDev && allow.DevDependencies,
		table.Has(manifest.Peer, pkg) && allow.PeerDependencies,
		inOptional && allow.OptionalDependencies:
		return Verdict{Outcome: Allow, Package: pkg}
	case inDev:
		return Verdict{Outcome: Report, Reason: ReasonDevDependency, Package: pkg, Message: DevMessage(pkg)}
	case inOptional:
		return Verdict{Outcome: Report, Reason: ReasonOptionalDependency, Package: pkg, Message: OptionalMessage(pkg)}
	default:
		return Verdict{Outcome: Report, Reason: ReasonMissing, Package: pkg, Message: MissingMessage(pkg)}
	}
}
