package classifier

import (
	"testing"

	"github.com/hannajonsd/depcheck/manifest"
	"github.com/hannajonsd/depcheck/parser"
	"github.com/hannajonsd/depcheck/policy"
	"github.com/stretchr/testify/assert"
)

var alwaysResolves = ResolverFunc(func(specifier, fromFile string) (string, bool) {
	return "/node_modules/" + specifier, true
})

var neverResolves = ResolverFunc(func(specifier, fromFile string) (string, bool) {
	return "", false
})

func value(spec string) parser.ImportSpecifier {
	return parser.ImportSpecifier{Value: spec, Kind: parser.KindValue, Line: 1}
}

func fullTable() *manifest.Table {
	return manifest.NewTable(
		map[string]string{"lodash": "^4.0.0", "both": "1"},
		map[string]string{"jest": "^27", "both": "1", "@types/node": "20"},
		map[string]string{"fsevents": "*"},
		map[string]string{"react": ">=17"},
	)
}

var denyAll = policy.Allow{}

func TestClassifyDecisionTable(t *testing.T) {
	tests := []struct {
		name    string
		spec    string
		allow   policy.Allow
		outcome Outcome
		reason  Reason
		message string
	}{
		{"runtime always allowed", "lodash", denyAll, Allow, ReasonNone, ""},
		{"runtime wins over dev", "both", denyAll, Allow, ReasonNone, ""},
		{"dev allowed", "jest", policy.AllowAll, Allow, ReasonNone, ""},
		{"dev not allowed", "jest", denyAll, Report, ReasonDevDependency,
			"'jest' should be listed in the project's dependencies, not devDependencies."},
		{"optional allowed", "fsevents", policy.Allow{OptionalDependencies: true}, Allow, ReasonNone, ""},
		{"optional not allowed", "fsevents", denyAll, Report, ReasonOptionalDependency,
			"'fsevents' should be listed in the project's dependencies, not optionalDependencies."},
		{"peer allowed", "react", policy.Allow{PeerDependencies: true}, Allow, ReasonNone, ""},
		{"peer not allowed uses generic message", "react", denyAll, Report, ReasonMissing,
			"'react' should be listed in the project's dependencies. Run 'npm i -S react' to add it"},
		{"missing", "left-pad", policy.AllowAll, Report, ReasonMissing,
			"'left-pad' should be listed in the project's dependencies. Run 'npm i -S left-pad' to add it"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(value(tt.spec), "/p/src/a.js", fullTable(), tt.allow, alwaysResolves)
			assert.Equal(t, tt.outcome, v.Outcome)
			assert.Equal(t, tt.reason, v.Reason)
			assert.Equal(t, tt.message, v.Message)
			if tt.outcome != Skip {
				assert.Equal(t, tt.spec, v.Package)
			}
		})
	}
}

func TestRuntimeAllowedUnderEveryPolicy(t *testing.T) {
	table := fullTable()
	for _, dev := range []bool{true, false} {
		for _, opt := range []bool{true, false} {
			for _, peer := range []bool{true, false} {
				allow := policy.Allow{DevDependencies: dev, OptionalDependencies: opt, PeerDependencies: peer}
				v := Classify(value("lodash/fp"), "a.js", table, allow, alwaysResolves)
				assert.Equal(t, Allow, v.Outcome)
			}
		}
	}
}

func TestScopedSubpathClassifiesLikePackage(t *testing.T) {
	table := manifest.NewTable(nil, map[string]string{"@scope/pkg": "1"}, nil, nil)

	for _, allow := range []policy.Allow{policy.AllowAll, denyAll} {
		base := Classify(value("@scope/pkg"), "a.js", table, allow, alwaysResolves)
		deep := Classify(value("@scope/pkg/deep/path"), "a.js", table, allow, alwaysResolves)
		assert.Equal(t, base, deep)
	}
}

func TestClassifySkips(t *testing.T) {
	empty := manifest.NewTable(nil, nil, nil, nil)

	tests := []struct {
		name     string
		imp      parser.ImportSpecifier
		resolver Resolver
	}{
		{"type only", parser.ImportSpecifier{Value: "left-pad", Kind: parser.KindType}, alwaysResolves},
		{"relative", value("./local"), alwaysResolves},
		{"parent relative", value("../up"), alwaysResolves},
		{"absolute", value("/abs/path"), alwaysResolves},
		{"core module", value("fs"), alwaysResolves},
		{"core subpath", value("fs/promises"), alwaysResolves},
		{"node prefix", value("node:test"), alwaysResolves},
		{"unresolvable", value("left-pad"), neverResolves},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.imp, "/p/a.js", empty, denyAll, tt.resolver)
			assert.Equal(t, Skip, v.Outcome)
			assert.Empty(t, v.Message)
		})
	}
}

func TestClassifyWithoutResolver(t *testing.T) {
	v := Classify(value("left-pad"), "a.js", fullTable(), policy.AllowAll, nil)
	assert.Equal(t, Report, v.Outcome)
	assert.Equal(t, "left-pad", v.Package)
}

func TestDecideDoesNotMutateTable(t *testing.T) {
	table := fullTable()
	Decide("left-pad", table, denyAll)
	Decide("jest", table, denyAll)

	assert.False(t, table.Has(manifest.Runtime, "left-pad"))
	assert.Equal(t, 3, table.Len(manifest.Development))
}

func TestOutcomeString(t *testing.T) {
	assert.Equal(t, "skip", Skip.String())
	assert.Equal(t, "allow", Allow.String())
	assert.Equal(t, "report", Report.String())
}
