// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package domainutil

import (
	"net/netip"
	"regexp"
	"strings"

	"golang.org/x/net/publicsuffix"
)

var (
	// validDomainPattern matches a lowercase host with an optional port of up to five digits.
	validDomainPattern = regexp.MustCompile(`^[a-z0-9-]+(\.[a-z0-9-]+)*(:\d{1,5})?$`)
)

// IsIPLiteral reports whether authority is an IPv4 or IPv6 address, optionally
// bracketed and optionally followed by a port.
func IsIPLiteral(authority string) bool {
	host := StripPort(authority)
	host = strings.TrimSuffix(strings.TrimPrefix(host, "["), "]")
	if host == "" {
		return false
	}
	_, err := netip.ParseAddr(host)
	return err == nil
}

// StripPort removes userinfo and a trailing ":port" from authority.
// Bare IPv6 addresses (more than one colon, no brackets) are returned whole.
func StripPort(authority string) string {
	if i := strings.LastIndex(authority, "@"); i >= 0 {
		authority = authority[i+1:]
	}
	if strings.HasPrefix(authority, "[") {
		if end := strings.Index(authority, "]"); end >= 0 {
			return authority[:end+1]
		}
		return authority
	}
	if strings.Count(authority, ":") == 1 {
		return authority[:strings.Index(authority, ":")]
	}
	return authority
}

// RootDomain returns the registrable part of host. IP literals are returned
// unchanged. Any port is ignored.
func RootDomain(host string) string {
	if IsIPLiteral(host) {
		return host
	}
	_, base := Split(StripPort(host))
	return base
}

// Split breaks host into its subdomain and base authority, e.g.
// "images.google.com" into ("images", "google.com") and "www.popo.com.au"
// into ("www", "popo.com.au").
func Split(host string) (subdomain, base string) {
	labels := strings.Split(host, ".")

	i := len(labels) - 1
	for ; i >= 0; i-- {
		if !IsTopLevelLabel(labels[i]) {
			break
		}
	}
	if i < 0 {
		return "", host
	}

	return strings.Join(labels[:i], "."), strings.Join(labels[i:], ".")
}

// EffectiveDomain returns the public-suffix based eTLD+1 of host. It falls
// back to RootDomain when the suffix list cannot answer (IP literals, single
// labels, bare suffixes).
func EffectiveDomain(host string) string {
	h := StripPort(host)
	if IsIPLiteral(h) {
		return h
	}
	etld1, err := publicsuffix.EffectiveTLDPlusOne(strings.TrimSuffix(strings.ToLower(h), "."))
	if err != nil {
		return RootDomain(h)
	}
	return etld1
}

// IsValidDomain reports whether authority is a plausible lowercase host name or
// IPv4 address with an optional port.
func IsValidDomain(authority string) bool {
	return validDomainPattern.MatchString(authority)
}
