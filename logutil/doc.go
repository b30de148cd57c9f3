// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

// Package logutil is the slog setup shared by the crawlref packages and CLI.
//
// The CLI configures the global logger once, before any extraction runs:
//
//	logutil.SetupLogger(debug, profile.LogFormat == "json")
//	logutil.SetLevel(profile.Level())
//
// Setting CRAWLREF_DEBUG=true has the same effect as passing debug=true.
// Output goes to stderr so that stdout stays free for results and for the
// MCP stdio transport.
//
// # Component Loggers
//
// Packages hold a ComponentLogger and narrow it per document:
//
//	log := logutil.NewLogger("refextract").WithDocument(base.String())
//	log.Debug("candidate dropped", "pass", "regex", "error", err)
//
// A ComponentLogger picks up later SetupLogger and SetLevel calls, so
// library types may create theirs at construction time.
//
// # Formats
//
// Text (the default):
//
//	time=2026-01-15T10:30:00Z level=WARN msg="skipping document" component=batch document=index.html
//
// JSON, when structured is true:
//
//	{"time":"2026-01-15T10:30:00Z","level":"WARN","msg":"skipping document","component":"batch"}
package logutil
