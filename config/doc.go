// Package config loads named extraction profiles.
//
// Profiles live in <dir>/.crawlref/profiles.yaml:
//
//	profiles:
//	  thorough:
//	    encoding: latin1
//	    relative: true
//	    emails: true
//	    workers: 8
//	    cacheDir: .crawlref/cache
//	    cacheTTL: 1h
//
// User profiles are merged over the built-in "default", "strict" and "fast"
// profiles; a user profile with a built-in name replaces it. The active
// profile is chosen by name, then by the CRAWLREF_PROFILE environment
// variable, then "default".
package config
