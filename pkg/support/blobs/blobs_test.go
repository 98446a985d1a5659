// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package blobs

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForPath(t *testing.T) {
	store, key, err := ForPath("gs://models-bucket/mnist/mnist.serialized.bin")
	require.NoError(t, err)
	gcs, ok := store.(*GCSStore)
	require.True(t, ok)
	assert.Equal(t, "models-bucket", gcs.Bucket)
	assert.Equal(t, "mnist/mnist.serialized.bin", key)
	assert.Equal(t, "gs://models-bucket/mnist/mnist.serialized.bin", gcs.URL(key))

	store, key, err = ForPath("testdata/pipeline.json")
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, store)
	assert.Equal(t, "testdata/pipeline.json", key)

	for _, path := range []string{"", "gs://", "gs://bucket", "gs://bucket/", "gs:///object"} {
		_, _, err = ForPath(path)
		assert.Error(t, err, "path %q", path)
	}
}

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	store := &LocalStore{Root: t.TempDir()}

	_, err := store.Read(ctx, "missing.bin")
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	require.NoError(t, store.Write(ctx, "models/mnist.bin", []byte{1, 2, 3}))
	data, err := store.Read(ctx, "models/mnist.bin")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)

	path, err := store.Path("models/mnist.bin")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(store.Root, "models", "mnist.bin"), path)

	// Absolute keys ignore the root.
	abs := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, Write(ctx, abs, []byte("{}")))
	data, err = Read(ctx, abs)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
	data, err = store.Read(ctx, abs)
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))
}
