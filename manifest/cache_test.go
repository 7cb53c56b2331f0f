package manifest

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCachedReaderReusesUnchangedManifest(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `{"dependencies": {"lodash": "4"}}`)
	inner := &countingReader{reads: map[string]int{}}

	reader, err := NewCachedReader(inner, 4)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		pkg, err := reader.Read(path)
		require.NoError(t, err)
		assert.Contains(t, pkg.Dependencies, "lodash")
	}

	assert.Equal(t, 1, inner.reads[path])
	assert.Equal(t, 1, reader.Len())
}

func TestCachedReaderRereadsChangedManifest(t *testing.T) {
	root := t.TempDir()
	path := writeManifest(t, root, `{"dependencies": {"lodash": "4"}}`)

	reader, err := NewCachedReader(nil, 4)
	require.NoError(t, err)

	_, err = reader.Read(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"dependencies": {"left-pad": "1"}}`), 0o644))
	later := time.Now().Add(2 * time.Second)
	require.NoError(t, os.Chtimes(path, later, later))

	pkg, err := reader.Read(path)
	require.NoError(t, err)
	assert.Contains(t, pkg.Dependencies, "left-pad")
	assert.NotContains(t, pkg.Dependencies, "lodash")
}

func TestCachedReaderDoesNotCacheFailures(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, FileName)

	reader, err := NewCachedReader(nil, 4)
	require.NoError(t, err)

	_, err = reader.Read(path)
	assert.ErrorIs(t, err, ErrManifestNotFound)
	assert.Equal(t, 0, reader.Len())

	writeManifest(t, root, `{"dependencies": {"lodash": "4"}}`)
	pkg, err := reader.Read(path)
	require.NoError(t, err)
	assert.Contains(t, pkg.Dependencies, "lodash")

	reader.Invalidate(path)
	assert.Equal(t, 0, reader.Len())
}

func TestCachedReaderWithAggregator(t *testing.T) {
	root := t.TempDir()
	writeManifest(t, root, `{"dependencies": {"lodash": "4"}}`)

	reader, err := NewCachedReader(nil, 4)
	require.NoError(t, err)
	agg := NewAggregator(reader, quietLogger())

	first, err := agg.Build(filepath.Join(root, "a.js"), nil)
	require.NoError(t, err)
	second, err := agg.Build(filepath.Join(root, "b.js"), nil)
	require.NoError(t, err)

	assert.True(t, first.Has(Runtime, "lodash"))
	assert.True(t, second.Has(Runtime, "lodash"))

	reader.Purge()
	assert.Equal(t, 0, reader.Len())
}
