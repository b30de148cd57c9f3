package refextract

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/jongio/crawlref/querystring"
)

var (
	// emailNoisePattern matches everything that cannot be part of an address.
	// Replacing it with spaces splits "mailto:a@b.com">a@b.com" into two tokens.
	emailNoisePattern = regexp.MustCompile(`[^\p{L}\p{N}_@\-.]`)

	emailPattern = regexp.MustCompile(`(?i)[\p{L}\p{N}_.%-]{1,45}@(?:[A-Z0-9.-]{1,45}\.){1,10}[A-Z]{2,4}`)
)

// FindEmails returns the unique email addresses in body in the order they
// first appear. Addresses split with tricks like "user <at> host" are not
// recognized.
func FindEmails(body string) []string {
	return appendEmails([]string{}, make(map[string]struct{}), body)
}

func appendEmails(dst []string, seen map[string]struct{}, body string) []string {
	if !strings.Contains(body, "@") {
		return dst
	}

	text := html.UnescapeString(querystring.UnquotePlus(body))
	text = emailNoisePattern.ReplaceAllLiteralString(text, " ")

	for _, addr := range emailPattern.FindAllString(text, -1) {
		if _, ok := seen[addr]; ok {
			continue
		}
		seen[addr] = struct{}{}
		dst = append(dst, addr)
	}
	return dst
}
