// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package domainutil

import "strings"

// topLevelLabels is every assigned top-level domain as of mid 2011, which is
// also the set of labels treated as registry controlled when splitting a host.
var topLevelLabels = map[string]struct{}{}

func init() {
	for _, l := range []string{
		"ac", "ad", "ae", "aero", "af", "ag", "ai", "al", "am",
		"an", "ao", "aq", "ar", "arpa", "as", "asia", "at", "au", "aw", "ax", "az", "ba",
		"bb", "bd", "be", "bf", "bg", "bh", "bi", "biz", "bj", "bm", "bn", "bo", "br", "bs",
		"bt", "bv", "bw", "by", "bz", "ca", "cat", "cc", "cd", "cf", "cg", "ch", "ci", "ck",
		"cl", "cm", "cn", "co", "com", "coop", "cr", "cs", "cu", "cv", "cx", "cy", "cz",
		"dd", "de", "dj", "dk", "dm", "do", "dz", "ec", "edu", "ee", "eg", "er", "es", "et",
		"eu", "fi", "fj", "fk", "fm", "fo", "fr", "ga", "gb", "gd", "ge", "gf", "gg", "gh",
		"gi", "gl", "gm", "gn", "gov", "gp", "gq", "gr", "gs", "gt", "gu", "gw", "gy", "hk",
		"hm", "hn", "hr", "ht", "hu", "id", "ie", "il", "im", "in", "info", "int", "io",
		"iq", "ir", "is", "it", "je", "jm", "jo", "jobs", "jp", "ke", "kg", "kh", "ki",
		"km", "kn", "kp", "kr", "kw", "ky", "kz", "la", "lb", "lc", "li", "lk", "lr", "ls",
		"lt", "lu", "lv", "ly", "ma", "mc", "md", "me", "mg", "mh", "mil", "mk", "ml",
		"mm", "mn", "mo", "mobi", "mp", "mq", "mr", "ms", "mt", "mu", "museum", "mv", "mw",
		"mx", "my", "mz", "na", "name", "nc", "ne", "net", "nf", "ng", "ni", "nl", "no",
		"np", "nr", "nu", "nz", "om", "org", "pa", "pe", "pf", "pg", "ph", "pk", "pl", "pm",
		"pn", "pr", "pro", "ps", "pt", "pw", "py", "qa", "re", "ro", "rs", "ru", "rw", "sa",
		"sb", "sc", "sd", "se", "sg", "sh", "si", "sj", "sk", "sl", "sm", "sn", "so", "sr",
		"st", "su", "sv", "sy", "sz", "tc", "td", "tel", "tf", "tg", "th", "tj", "tk", "tl",
		"tm", "tn", "to", "tp", "tr", "travel", "tt", "tv", "tw", "tz", "ua", "ug", "uk",
		"us", "uy", "uz", "va", "vc", "ve", "vg", "vi", "vn", "vu", "wf", "ws", "xxx", "ye",
		"yt", "za", "zm", "zw",
	} {
		topLevelLabels[l] = struct{}{}
	}
}

// IsTopLevelLabel reports whether label is in the static TLD table.
// The comparison ignores case.
func IsTopLevelLabel(label string) bool {
	_, ok := topLevelLabels[strings.ToLower(label)]
	return ok
}
