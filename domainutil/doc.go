// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package domainutil groups hostnames by their registrable ("root") domain.
//
// RootDomain walks a hostname right to left and keeps every label that is a
// known top-level or second-level control label, stopping at (and including)
// the first label that is not:
//
//	domainutil.RootDomain("foo.bar.spam.eggs.aaa.com") // "aaa.com"
//	domainutil.RootDomain("foo.aaa.com.ar")            // "aaa.com.ar"
//	domainutil.RootDomain("1.2.3.4")                   // "1.2.3.4"
//
// The label table is static and read-only. EffectiveDomain offers the public
// suffix list answer (eTLD+1) for callers that prefer it.
package domainutil
