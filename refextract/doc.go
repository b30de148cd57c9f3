// Package refextract discovers links and email addresses in fetched
// documents without parsing their markup.
//
// An Extractor takes a document body, the URL it was fetched from and the
// charset it declared, and returns References:
//
//	ex := refextract.New()
//	refs := ex.Extract(body, base, "utf-8")
//	for _, u := range refs.Regex.URLs() {
//		fmt.Println(u)
//	}
//	fmt.Println(refs.Emails)
//
// Three passes run over the body:
//   - Absolute URLs (http:// and https://) anywhere in the text
//   - Relative paths ending in a short file extension, joined to the base
//   - Email addresses, after plus, percent and HTML-entity decoding
//
// URL matches are percent-decoded in the document charset and normalized.
// A candidate that cannot be decoded, parsed or joined is dropped and
// counted; it never stops the pass.
//
// Regex matches are lower-confidence than links found by a tag-aware parser.
// Such a parser can be plugged in with WithStructural, and its URLs are kept
// in References.Structural, apart from References.Regex.
//
// # Metrics
//
// Extraction exports Prometheus counters under the crawlref_ prefix.
// CreateMetricsServer exposes them over HTTP for long-running crawls.
package refextract
