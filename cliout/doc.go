// Package cliout formats crawlref command output.
//
// Commands print either human-readable text or JSON, chosen once with
// SetFormat from the --output flag:
//
//	if err := cliout.SetFormat(output); err != nil {
//	    return err
//	}
//	return cliout.Print(refs, func() {
//	    cliout.Section("Regex")
//	    for _, u := range refs.Regex.Strings() {
//	        cliout.Bullet("%s", cliout.URL(u))
//	    }
//	})
//
// ANSI colour is used only when stdout is a terminal and NO_COLOR is unset.
// ForceColor and NoColor override the detection.
package cliout
