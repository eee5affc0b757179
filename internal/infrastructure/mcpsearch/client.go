package mcpsearch

import (
	"context"
	"fmt"
	"log"
	"os/exec"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/pricescout/backend/internal/domain"
	"golang.org/x/time/rate"
)

// Tool names exposed by the web-search MCP server. The full variant follows
// each hit and extracts page content; the summary variant is snippet-only.
const (
	toolFullSearch    = "full-web-search"
	toolSearchSummary = "get-web-search-summaries"
)

// maxResultLimit is the hard cap the search server accepts.
const maxResultLimit = 10

// Client talks to a web-search MCP server over stdio. The server process and
// session are acquired lazily per call and released on every exit path, so a
// crashed or hung search never leaks into the next lookup.
type Client struct {
	command     string
	args        []string
	rateLimiter *rate.Limiter
}

// NewClient creates a search client that will spawn the given command for
// each search. An empty command leaves the capability unavailable, which the
// orchestrator treats as an immediate fallback.
func NewClient(command string, args []string) *Client {
	// The search engines behind the MCP server throttle aggressively;
	// half a request per second with a small burst stays under their radar.
	limiter := rate.NewLimiter(rate.Limit(0.5), 3)

	return &Client{
		command:     command,
		args:        args,
		rateLimiter: limiter,
	}
}

// Available reports whether a search command is configured.
func (c *Client) Available() bool {
	return c.command != ""
}

// Search runs one query against the MCP server and returns the provider's
// raw multi-source text. The caller's context bounds the whole exchange:
// spawn, initialize, tool call, teardown.
func (c *Client) Search(ctx context.Context, query string, limit int, includeContent bool) (string, error) {
	if !c.Available() {
		return "", domain.ErrSearchUnavailable
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter error: %w", err)
	}

	if limit <= 0 || limit > maxResultLimit {
		limit = maxResultLimit
	}

	session, err := c.connect(ctx)
	if err != nil {
		return "", err
	}
	defer session.Close()

	toolName := toolSearchSummary
	if includeContent {
		toolName = toolFullSearch
	}

	log.Printf("[SEARCH] Calling %s with query: %q (limit %d)", toolName, query, limit)

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name: toolName,
		Arguments: map[string]any{
			"query": query,
			"limit": limit,
		},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("%w: %v", domain.ErrSearchTimeout, err)
		}
		return "", fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}

	text := textContent(result)
	if result.IsError {
		return "", fmt.Errorf("%w: %s", domain.ErrSearchUnavailable, text)
	}
	if text == "" {
		return "", fmt.Errorf("%w: empty tool result", domain.ErrSearchUnavailable)
	}

	return text, nil
}

// connect spawns the server process and opens an MCP session over its stdio.
func (c *Client) connect(ctx context.Context) (*mcp.ClientSession, error) {
	client := mcp.NewClient(&mcp.Implementation{
		Name:    "pricescout",
		Version: "1.0.0",
	}, nil)

	cmd := exec.CommandContext(ctx, c.command, c.args...)
	session, err := client.Connect(ctx, &mcp.CommandTransport{Command: cmd}, nil)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrSearchUnavailable, err)
	}
	return session, nil
}

// textContent concatenates the text parts of a tool result.
func textContent(result *mcp.CallToolResult) string {
	if result == nil {
		return ""
	}
	var sb strings.Builder
	for _, content := range result.Content {
		if tc, ok := content.(*mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return strings.TrimSpace(sb.String())
}
