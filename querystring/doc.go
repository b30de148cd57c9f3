// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package querystring encodes and decodes URL query strings to and from an
// ordered multi-map.
//
// Unlike net/url.Values, a Values keeps the order in which each name was first
// seen, so that a decoded query can be re-encoded without reshuffling its
// parameters. Repeated names append to the existing list:
//
//	v := querystring.Decode("id=3&ff=4&id=5")
//	v.All("id")  // ["3", "5"]
//	v.Keys()     // ["id", "ff"]
//	v.Encode()   // "id=3&id=5&ff=4"
//
// Blank values are kept ("pname" decodes to {"pname": [""]}) and only "&"
// separates pairs; ";" is part of the value.
//
// # Malformed input
//
// A pair carrying an invalid percent escape (for example "%zz") is malformed.
// Decode tolerates it and returns an empty map; DecodeStrict returns
// ErrMalformedQuery instead. Parse exposes the choice as a flag.
package querystring
