// Package mcptools exposes crawlref's URL and extraction operations as Model
// Context Protocol tools, so an agent driving a crawl can ask for
// references, normalized URLs and root domains over stdio:
//
//	s := mcptools.NewServer(version.Version)
//	if err := server.ServeStdio(s); err != nil {
//	    return err
//	}
//
// Every tool answers with indented JSON text. Bad input is reported as a
// tool error result rather than a protocol error.
package mcptools
