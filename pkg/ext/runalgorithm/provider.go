// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package runalgorithm

import (
	"context"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/xrgraph/xrgraph/pkg/support/blobs"
	"k8s.io/klog/v2"
)

// CachingProvider loads model assets from a blobs.Store, and caches them.
// It is safe for concurrent use.
type CachingProvider struct {
	store   blobs.Store
	baseDir string

	mu    sync.Mutex
	cache map[string][]byte
}

var _ ModelProvider = (*CachingProvider)(nil)

// StoreProvider returns a ModelProvider that reads the assets from store, with keys relative to baseDir
// (which can be empty). Assets that are absolute paths are read from store as is, and "gs://" URLs are
// read from their bucket.
//
// Models are read once and kept in memory: pipelines rebuilt from the same document share the buffers.
func StoreProvider(store blobs.Store, baseDir string) *CachingProvider {
	return &CachingProvider{store: store, baseDir: baseDir, cache: make(map[string][]byte)}
}

// Model implements ModelProvider.
func (p *CachingProvider) Model(ctx context.Context, asset string) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if buf, found := p.cache[asset]; found {
		return buf, nil
	}

	var buf []byte
	var err error
	switch {
	case strings.HasPrefix(asset, blobs.GCSScheme):
		buf, err = blobs.Read(ctx, asset)
	case filepath.IsAbs(asset) || p.baseDir == "":
		buf, err = p.store.Read(ctx, asset)
	default:
		buf, err = p.store.Read(ctx, path.Join(p.baseDir, asset))
	}
	if err != nil {
		return nil, err
	}
	klog.FromContext(ctx).Info("loaded model", "asset", asset, "size", humanize.Bytes(uint64(len(buf))))
	p.cache[asset] = buf
	return buf, nil
}

// Forget drops all cached models.
func (p *CachingProvider) Forget() {
	p.mu.Lock()
	defer p.mu.Unlock()
	clear(p.cache)
}
