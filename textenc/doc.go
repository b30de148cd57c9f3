// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package textenc maps declared document charsets to encoders and decoders.
//
// Labels are resolved with the WHATWG rules used by HTML parsers, so "latin1"
// resolves to windows-1252 and "utf8" to utf-8. Encoding is strict: a rune
// the charset cannot represent yields ErrUnencodable. Decoding is lenient and
// drops anything that does not map to a character.
package textenc
