package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hannajonsd/depcheck/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	opts := Default()

	assert.False(t, opts.DevDependencies.IsSet())
	assert.False(t, opts.OptionalDependencies.IsSet())
	assert.False(t, opts.PeerDependencies.IsSet())
	assert.Empty(t, opts.PackageDir)
	assert.Equal(t, policy.AllowAll, opts.Allow("src/a.js", "/p"))
}

func TestParseYAML(t *testing.T) {
	opts, err := Parse([]byte(`
devDependencies:
  - test/**
  - "**/*.spec.js"
optionalDependencies: false
peerDependencies: true
packageDir: ./packages/app
`))
	require.NoError(t, err)

	assert.Equal(t, []string{"test/**", "**/*.spec.js"}, opts.DevDependencies.Patterns())
	assert.Equal(t, PathList{"./packages/app"}, opts.PackageDir)

	allow := opts.Allow("test/unit/foo.js", "/p")
	assert.True(t, allow.DevDependencies)
	assert.False(t, allow.OptionalDependencies)
	assert.True(t, allow.PeerDependencies)

	assert.False(t, opts.Allow("src/foo.js", "/p").DevDependencies)
}

func TestParseJSON(t *testing.T) {
	opts, err := Parse([]byte(`{"devDependencies": false, "packageDir": ["./", "../shared"]}`))
	require.NoError(t, err)

	assert.False(t, opts.Allow("a.js", "/p").DevDependencies)
	assert.Equal(t, PathList{"./", "../shared"}, opts.PackageDir)
}

func TestParseEmpty(t *testing.T) {
	opts, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), opts)
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"unknown key", "devDependencies: true\nbundledDependencies: true\n"},
		{"string allow value", "devDependencies: sometimes\n"},
		{"number allow value", "peerDependencies: 1\n"},
		{"packageDir number", "packageDir: 3\n"},
		{"packageDir empty", "packageDir: ''\n"},
		{"packageDir map", "packageDir: {a: b}\n"},
		{"not a mapping", "- a\n- b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			assert.Error(t, err)
		})
	}
}

func TestPackageDirs(t *testing.T) {
	cwd := filepath.FromSlash("/work/project")
	abs := filepath.FromSlash("/opt/shared")
	opts := &Options{PackageDir: PathList{"./", "../other", abs}}

	assert.Equal(t, []string{
		filepath.FromSlash("/work/project"),
		filepath.FromSlash("/work/other"),
		abs,
	}, opts.PackageDirs(cwd))

	assert.Nil(t, Default().PackageDirs(cwd))
}

func TestLoadFromDir(t *testing.T) {
	dir := t.TempDir()

	opts, path, err := LoadFromDir(dir)
	require.NoError(t, err)
	assert.Empty(t, path)
	assert.Equal(t, Default(), opts)

	cfgPath := filepath.Join(dir, ".depcheck.yml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("devDependencies: false\n"), 0o644))

	opts, path, err = LoadFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, cfgPath, path)
	assert.False(t, opts.Allow("a.js", dir).DevDependencies)
}

func TestLoadErrors(t *testing.T) {
	dir := t.TempDir()

	_, err := Load(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("nope: 1\n"), 0o644))
	_, err = Load(bad)
	assert.ErrorContains(t, err, "bad.yaml")
}
