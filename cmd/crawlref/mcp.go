package main

import (
	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/mcptools"
	"github.com/jongio/crawlref/version"
)

func newMCPCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the URL tools over MCP on stdio",
		Long: `Starts a Model Context Protocol server on stdin/stdout exposing
extract_references, normalize_url, join_url, root_domain and url_directories.
Extraction follows the selected profile.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.profile.Validate(); err != nil {
				return err
			}
			logutil.Info("starting mcp server", "profile", a.profile.Name)
			s := mcptools.NewServer(version.Version, a.profile.ExtractorOptions()...)
			return server.ServeStdio(s)
		},
	}
}
