package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildBatch(t *testing.T) {
	root := t.TempDir()
	existing := filepath.Join(root, "a.js")
	require.NoError(t, os.WriteFile(existing, nil, 0o644))

	deleted := filepath.Join(root, "deleted.js")
	pkg := filepath.Join(root, "package.json")

	batch := buildBatch(map[string]bool{existing: true, deleted: true, pkg: true})

	assert.Equal(t, []string{existing}, batch.Sources)
	assert.Equal(t, []string{pkg}, batch.Manifests)
}

func TestRelevant(t *testing.T) {
	assert.True(t, relevant("/p/package.json"))
	assert.True(t, relevant("/p/src/a.tsx"))
	assert.False(t, relevant("/p/README.md"))
	assert.False(t, relevant("/p/package-lock.json"))
}

func TestWatcherDeliversBatch(t *testing.T) {
	root := t.TempDir()
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	w, err := New(root, log)
	require.NoError(t, err)
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	batches := make(chan Batch, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(ctx context.Context, b Batch) { batches <- b })
	}()

	file := filepath.Join(root, "index.js")
	require.NoError(t, os.WriteFile(file, []byte("require('x')\n"), 0o644))

	select {
	case b := <-batches:
		assert.Equal(t, []string{file}, b.Sources)
	case <-ctx.Done():
		t.Fatal("no batch delivered")
	}

	cancel()
	assert.NoError(t, <-done)
}
