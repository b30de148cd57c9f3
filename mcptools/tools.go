package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/jongio/crawlref/domainutil"
	"github.com/jongio/crawlref/logutil"
	"github.com/jongio/crawlref/refextract"
	"github.com/jongio/crawlref/urlutil"
)

// Tool names.
const (
	ToolExtract     = "extract_references"
	ToolNormalize   = "normalize_url"
	ToolJoin        = "join_url"
	ToolRootDomain  = "root_domain"
	ToolDirectories = "url_directories"
)

// Handlers serves the crawlref tools with one Extractor.
type Handlers struct {
	extractor *refextract.Extractor
	logger    *logutil.ComponentLogger
}

// NewHandlers returns Handlers using extractor, or a default one when nil.
func NewHandlers(extractor *refextract.Extractor) *Handlers {
	if extractor == nil {
		extractor = refextract.New()
	}
	return &Handlers{extractor: extractor, logger: logutil.NewLogger("mcp")}
}

// NewServer returns an MCP server with every crawlref tool registered.
func NewServer(version string, opts ...refextract.Option) *server.MCPServer {
	s := server.NewMCPServer("crawlref", version, server.WithToolCapabilities(false))
	NewHandlers(refextract.New(opts...)).Register(s)
	return s
}

// Register adds the tools to s.
func (h *Handlers) Register(s *server.MCPServer) {
	s.AddTool(mcp.NewTool(ToolExtract,
		mcp.WithDescription("Find URLs and email addresses in a fetched document body"),
		mcp.WithString("body", mcp.Required(), mcp.Description("Document body")),
		mcp.WithString("base", mcp.Description("URL the document was fetched from; enables relative paths")),
		mcp.WithString("encoding", mcp.Description("Declared charset, default utf-8")),
	), h.Extract)

	s.AddTool(mcp.NewTool(ToolNormalize,
		mcp.WithDescription("Strip default ports and leading ../ segments from a URL"),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL to normalize")),
	), h.Normalize)

	s.AddTool(mcp.NewTool(ToolJoin,
		mcp.WithDescription("Resolve a link against the page it appeared on"),
		mcp.WithString("base", mcp.Required(), mcp.Description("Page URL")),
		mcp.WithString("ref", mcp.Required(), mcp.Description("Link as written in the page")),
	), h.Join)

	s.AddTool(mcp.NewTool(ToolRootDomain,
		mcp.WithDescription("Return the registrable root domain of a URL"),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL or host")),
	), h.RootDomain)

	s.AddTool(mcp.NewTool(ToolDirectories,
		mcp.WithDescription("List the directory of a URL and each parent directory"),
		mcp.WithString("url", mcp.Required(), mcp.Description("URL")),
	), h.Directories)
}

// Extract handles extract_references.
func (h *Handlers) Extract(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsMap(request)
	body, err := requiredString(args, "body")
	if err != nil {
		return errorResult(err)
	}
	encoding, _ := stringArg(args, "encoding")

	var base *urlutil.URL
	if raw, ok := stringArg(args, "base"); ok && raw != "" {
		if base, err = urlutil.ParseBase(raw, encoding); err != nil {
			return errorResult(err)
		}
	}

	h.logger.Debug("tool call", "tool", ToolExtract, "bytes", len(body))
	return jsonResult(h.extractor.Extract(body, base, encoding))
}

// Normalize handles normalize_url.
func (h *Handlers) Normalize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := parseArg(argsMap(request), "url")
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"url": u.Normalize().String()})
}

// Join handles join_url.
func (h *Handlers) Join(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := argsMap(request)
	raw, err := requiredString(args, "base")
	if err != nil {
		return errorResult(err)
	}
	ref, err := requiredString(args, "ref")
	if err != nil {
		return errorResult(err)
	}
	base, err := urlutil.ParseBase(raw, "")
	if err != nil {
		return errorResult(err)
	}
	joined, err := base.Join(ref)
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{"url": joined.String()})
}

// RootDomain handles root_domain.
func (h *Handlers) RootDomain(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := parseArg(argsMap(request), "url")
	if err != nil {
		return errorResult(err)
	}
	return jsonResult(map[string]string{
		"domain":          u.Domain(),
		"rootDomain":      u.RootDomain(),
		"effectiveDomain": domainutil.EffectiveDomain(u.Domain()),
	})
}

// Directories handles url_directories.
func (h *Handlers) Directories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	u, err := parseArg(argsMap(request), "url")
	if err != nil {
		return errorResult(err)
	}
	dirs := u.Directories()
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[i] = d.String()
	}
	return jsonResult(out)
}

func parseArg(args map[string]any, key string) (*urlutil.URL, error) {
	raw, err := requiredString(args, key)
	if err != nil {
		return nil, err
	}
	return urlutil.Parse(raw, "")
}
