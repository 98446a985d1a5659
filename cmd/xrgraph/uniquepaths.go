// Copyright 2025-2026 The XRGraph Authors. SPDX-License-Identifier: Apache-2.0

package main

import (
	"path"
	"strings"

	"github.com/xrgraph/xrgraph/pkg/support/blobs"
	"github.com/xrgraph/xrgraph/pkg/support/sets"
)

// MinimalUniquePaths returns for each path the shortest suffix of its components that distinguishes it
// from the other paths, e.g.: "a/x/doc.json" and "b/x/doc.json" become "a/x/doc.json" and "b/x/doc.json",
// while "a/doc.json" and "b/other.json" become "doc.json" and "other.json".
//
// Repeated paths get the same name.
func MinimalUniquePaths(paths ...string) []string {
	split := make([][]string, len(paths))
	for ii, p := range paths {
		p = strings.TrimPrefix(p, blobs.GCSScheme)
		split[ii] = strings.Split(path.Clean(strings.ReplaceAll(p, "\\", "/")), "/")
	}
	suffix := func(components []string, n int) string {
		n = min(n, len(components))
		return strings.Join(components[len(components)-n:], "/")
	}

	names := make([]string, len(paths))
	for ii, components := range split {
		for n := 1; n <= len(components); n++ {
			name := suffix(components, n)
			others := sets.Make[string](len(paths))
			for jj, other := range split {
				if jj != ii && paths[jj] != paths[ii] {
					others.Insert(suffix(other, n))
				}
			}
			names[ii] = name
			if !others.Has(name) {
				break
			}
		}
	}
	return names
}
