// Package testutil provides helpers for crawlref command tests.
//
//	func TestExtractCommand(t *testing.T) {
//	    page := testutil.WriteFile(t, testutil.TempDir(t), "page.html", `<a href="/a.html">`)
//	    output := testutil.CaptureOutput(t, func() error {
//	        return run("extract", "--base", "http://w3af.com/", page)
//	    })
//	    if !strings.Contains(output, "http://w3af.com/a.html") {
//	        t.Errorf("missing reference in:\n%s", output)
//	    }
//	}
//
// All helpers call t.Helper() and fail the test on setup errors.
package testutil
