// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package cache stores extraction results on disk so that re-crawling an
// unchanged document skips the regex passes.
//
// Entries are JSON files named after a content key:
//
//	m := cache.NewManager(cache.Options{Dir: dir, TTL: time.Hour, Version: "1"})
//	key := cache.DocumentKey(base, "utf-8", extractor.Fingerprint(), body)
//	var refs refextract.References
//	if ok, _ := m.Get(key, &refs); !ok {
//	    // extract, then m.Set(key, refs)
//	}
//
// An entry is a miss once it is older than the TTL or was written with a
// different Version, so bumping Version invalidates everything written by
// an older extractor.
package cache
