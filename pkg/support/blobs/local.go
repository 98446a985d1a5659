// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package blobs

import (
	"bytes"
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/xrgraph/xrgraph/pkg/support/fsutil"
	"k8s.io/klog/v2"
)

// LocalStore keeps blobs as files.
type LocalStore struct {
	// Root directory of relative keys. If empty, relative keys are relative to the current directory.
	// A leading "~" is replaced by the user's home directory.
	Root string
}

var _ Store = (*LocalStore)(nil)

// Path returns the file path of key. A leading "~" in the key is replaced by the user's home directory,
// and absolute keys are used as is.
func (s *LocalStore) Path(key string) (string, error) {
	key, err := fsutil.ReplaceTildeInDir(key)
	if err != nil {
		return "", err
	}
	if filepath.IsAbs(key) || s.Root == "" {
		return key, nil
	}
	root, err := fsutil.ReplaceTildeInDir(s.Root)
	if err != nil {
		return "", err
	}
	return filepath.Join(root, key), nil
}

// Read implements Store.
func (s *LocalStore) Read(ctx context.Context, key string) ([]byte, error) {
	path, err := s.Path(key)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %q", path)
	}
	klog.FromContext(ctx).V(2).Info("read blob", "path", path, "bytes", len(data))
	return data, nil
}

// Write implements Store. The blob is written to a temporary file first, and then renamed, so readers
// never see a partial blob. Missing directories are created.
func (s *LocalStore) Write(ctx context.Context, key string, data []byte) error {
	path, err := s.Path(key)
	if err != nil {
		return err
	}
	n, err := fsutil.WriteFileAtomic(path, bytes.NewReader(data))
	if err != nil {
		return errors.WithMessagef(err, "writing %q", path)
	}
	klog.FromContext(ctx).V(2).Info("wrote blob", "path", path, "bytes", n)
	return nil
}
