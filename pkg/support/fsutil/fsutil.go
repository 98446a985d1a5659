// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

// Package fsutil contains utilities for working with the file system.
package fsutil

import (
	"io"
	"os"
	"os/user"
	"path"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DirPermMode is the permission used when creating directories.
const DirPermMode = 0o755

// ReplaceTildeInDir by the user's home directory. Returns dir if it doesn't start with "~".
//
// It returns an error if `dir` has an unknown user or some other filesystem error (e.g: `~unknown/...`)
func ReplaceTildeInDir(dir string) (string, error) {
	if len(dir) == 0 {
		return dir, nil
	}
	if dir[0] != '~' {
		return dir, nil
	}
	var userName string
	if dir != "~" && !strings.HasPrefix(dir, "~/") {
		sepIdx := strings.IndexRune(dir, '/')
		if sepIdx == -1 {
			userName = dir[1:]
		} else {
			userName = dir[1:sepIdx]
		}
	}
	var usr *user.User
	var err error
	if userName == "" {
		usr, err = user.Current()
	} else {
		usr, err = user.Lookup(userName)
	}
	if err != nil {
		return "", errors.Wrapf(err, "failed to lookup home directory for user in path %q", dir)
	}
	homeDir := usr.HomeDir
	return path.Join(homeDir, dir[1+len(userName):]), nil
}

// WriteFileAtomic writes the contents of src to a temporary file in the directory of destPath, and
// then renames it to destPath. Readers of destPath never see a partially written file.
//
// The directory of destPath is created if it doesn't exist.
func WriteFileAtomic(destPath string, src io.Reader) (n int64, err error) {
	dir := filepath.Dir(destPath)
	if err = os.MkdirAll(dir, DirPermMode); err != nil {
		return 0, errors.Wrapf(err, "creating directory %q", dir)
	}
	tempFile, err := os.CreateTemp(dir, "."+filepath.Base(destPath)+".*")
	if err != nil {
		return 0, errors.Wrap(err, "creating temp file")
	}

	shouldDeleteTempFile := true
	defer func() {
		if shouldDeleteTempFile {
			if err := os.Remove(tempFile.Name()); err != nil && !errors.Is(err, os.ErrNotExist) {
				klog.Errorf("removing temp file %q: %+v", tempFile.Name(), err)
			}
		}
	}()

	shouldCloseTempFile := true
	defer func() {
		if shouldCloseTempFile {
			if err := tempFile.Close(); err != nil {
				klog.Errorf("closing temp file %q: %+v", tempFile.Name(), err)
			}
		}
	}()

	n, err = io.Copy(tempFile, src)
	if err != nil {
		return n, errors.Wrapf(err, "writing to temp file for %q", destPath)
	}
	if err = tempFile.Close(); err != nil {
		return n, errors.Wrap(err, "closing temp file")
	}
	shouldCloseTempFile = false

	if err = os.Rename(tempFile.Name(), destPath); err != nil {
		return n, errors.Wrap(err, "renaming temp file")
	}
	shouldDeleteTempFile = false
	return n, nil
}
