// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package blobs

import (
	"bytes"
	"context"
	"io"
	"os"
	"time"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// GCSStore keeps blobs as objects of a Google Cloud Storage bucket. The keys are the object names.
//
// Credentials are taken from the environment, see storage.NewClient.
type GCSStore struct {
	Bucket string

	// Client to use. If nil, a new client is created (and closed) for each operation.
	Client *storage.Client
}

var _ Store = (*GCSStore)(nil)

// URL of the object for key.
func (s *GCSStore) URL(key string) string {
	return GCSScheme + s.Bucket + "/" + key
}

func (s *GCSStore) client(ctx context.Context) (client *storage.Client, done func(), err error) {
	if s.Client != nil {
		return s.Client, func() {}, nil
	}
	client, err = storage.NewClient(ctx)
	if err != nil {
		return nil, nil, errors.Wrap(err, "creating GCS storage client")
	}
	return client, func() { _ = client.Close() }, nil
}

// Read implements Store.
func (s *GCSStore) Read(ctx context.Context, key string) ([]byte, error) {
	log := klog.FromContext(ctx)
	gcsURL := s.URL(key)
	client, done, err := s.client(ctx)
	if err != nil {
		return nil, err
	}
	defer done()

	log.Info("downloading blob from GCS", "source", gcsURL)
	startedAt := time.Now()
	r, err := client.Bucket(s.Bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Wrapf(os.ErrNotExist, "object %q", gcsURL)
		}
		return nil, errors.Wrapf(err, "opening object from GCS %q", gcsURL)
	}
	defer func() { _ = r.Close() }()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "downloading from GCS %q", gcsURL)
	}
	log.Info("downloaded blob from GCS", "source", gcsURL, "bytes", len(data), "duration", time.Since(startedAt))
	return data, nil
}

// Write implements Store.
func (s *GCSStore) Write(ctx context.Context, key string, data []byte) error {
	log := klog.FromContext(ctx)
	gcsURL := s.URL(key)
	client, done, err := s.client(ctx)
	if err != nil {
		return err
	}
	defer done()

	log.Info("uploading blob to GCS", "destination", gcsURL, "bytes", len(data))
	startedAt := time.Now()
	w := client.Bucket(s.Bucket).Object(key).NewWriter(ctx)
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		_ = w.Close()
		return errors.Wrapf(err, "uploading to GCS %q", gcsURL)
	}
	if err := w.Close(); err != nil {
		return errors.Wrapf(err, "closing GCS writer for %q", gcsURL)
	}
	log.Info("uploaded blob to GCS", "destination", gcsURL, "duration", time.Since(startedAt))
	return nil
}
