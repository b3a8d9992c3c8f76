// Package websearch exposes a web_search tool backed by a Serper-compatible
// Google search API.
package websearch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
	"github.com/felixgeelhaar/clawquant/internal/ports"
)

// Names used by the registry and by tool callers.
const (
	PluginName  = "web_search"
	HandlerName = "web.search"
	ToolName    = "web_search"
)

// DefaultEndpoint is the Serper search endpoint.
const DefaultEndpoint = "https://google.serper.dev/search"

const (
	requestTimeout = 20 * time.Second
	maxLimit       = 10
)

// Messages returned to the tool caller.
const (
	msgNotConfigured = "Web search is not configured. Set SERPER_API_KEY in your environment or via setup."
	msgEmptyQuery    = "web_search requires a non-empty query."
	msgRequestFailed = "Web search failed due to API/network error."
	msgNoResults     = "No web search results found."
)

// Config is the plugin's decoded settings.
type Config struct {
	APIKey       string `config:"api_key"`
	DefaultLimit int    `config:"default_limit"`
	Endpoint     string `config:"endpoint"`
}

// Searcher implements the web_search tool.
type Searcher struct {
	apiKey       string
	defaultLimit int
	endpoint     string
	client       *http.Client
	logger       ports.Logger
}

// New creates a Searcher. A nil client gets one with the request timeout.
func New(cfg Config, client *http.Client, logger ports.Logger) *Searcher {
	if client == nil {
		client = &http.Client{Timeout: requestTimeout}
	}
	if logger == nil {
		logger = ports.DiscardLogger{}
	}
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 5
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	return &Searcher{
		apiKey:       strings.TrimSpace(cfg.APIKey),
		defaultLimit: cfg.DefaultLimit,
		endpoint:     cfg.Endpoint,
		client:       client,
		logger:       logger,
	}
}

// Factory builds the searcher for registry.Build.
func Factory(_ context.Context, deps registry.Deps, cfg registry.Config) (any, error) {
	var c Config
	if err := cfg.Decode(&c); err != nil {
		return nil, err
	}
	return New(c, deps.HTTPClient, deps.Logger), nil
}

// Name implements task.Handler.
func (s *Searcher) Name() string { return HandlerName }

// Run has nothing to schedule.
func (s *Searcher) Run(context.Context, task.Params) task.Result {
	return task.NoAction("web.search is a tool plugin; use the 'web_search' AI tool.")
}

// Tools implements registry.ToolProvider.
func (s *Searcher) Tools() []registry.Tool {
	return []registry.Tool{{
		Name:        ToolName,
		Description: "Search the web for recent information. Supports optional as_of cutoff for sandbox-safe lookups.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"query": map[string]any{
					"type":        "string",
					"description": "Search query text",
				},
				"limit": map[string]any{
					"type":        "integer",
					"description": "Maximum results to return (default: 5, max: 10)",
				},
				"as_of": map[string]any{
					"type":        "string",
					"description": "Optional ISO datetime cutoff. Restricts results to pages published on or before this timestamp.",
				},
			},
			"required": []string{"query"},
		},
	}}
}

type searchRequest struct {
	Q   string `json:"q"`
	Num int    `json:"num"`
	TBS string `json:"tbs,omitempty"`
}

type searchResponse struct {
	Organic []organicResult `json:"organic"`
}

type organicResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Date    string `json:"date"`
}

// CallTool implements registry.ToolProvider. Every failure is returned as
// text for the caller.
func (s *Searcher) CallTool(ctx context.Context, name string, args map[string]any) (string, bool) {
	if name != ToolName {
		return "", false
	}
	if s.apiKey == "" {
		return msgNotConfigured, true
	}

	params := task.Params(args)
	query := params.String("query")
	if query == "" {
		return msgEmptyQuery, true
	}

	limit := clamp(intArg(args["limit"], s.defaultLimit), 1, maxLimit)
	asOf, hasAsOf := ParseAsOf(args["as_of"])

	req := searchRequest{Q: query, Num: limit}
	if hasAsOf {
		req.TBS = "cdr:1,cd_max:" + asOf.Format("01/02/2006")
	}

	results, err := s.search(ctx, req)
	if err != nil {
		s.logger.Error(ctx, "web_search request failed", ports.F("query", query), ports.Err(err))
		return msgRequestFailed, true
	}
	if len(results) == 0 {
		return msgNoResults, true
	}
	if len(results) > limit {
		results = results[:limit]
	}

	lines := make([]string, 0, len(results))
	for i, r := range results {
		lines = append(lines, formatResult(i+1, r))
	}
	text := fmt.Sprintf("Web results for '%s':\n", query) + strings.Join(lines, "\n")
	if hasAsOf {
		text += fmt.Sprintf("\n(Filtered with as_of <= %s where provider metadata allows.)", formatISO(asOf))
	}
	return text, true
}

func (s *Searcher) search(ctx context.Context, body searchRequest) ([]organicResult, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("search API returned %s", resp.Status)
	}
	var out searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}
	return out.Organic, nil
}

func formatResult(n int, r organicResult) string {
	title := strings.TrimSpace(r.Title)
	link := strings.TrimSpace(r.Link)
	snippet := strings.TrimSpace(r.Snippet)
	date := strings.TrimSpace(r.Date)

	var b strings.Builder
	if title != "" {
		fmt.Fprintf(&b, "%d. %s", n, title)
	} else {
		fmt.Fprintf(&b, "%d. %s", n, link)
	}
	if date != "" {
		fmt.Fprintf(&b, " (%s)", date)
	}
	if link != "" {
		b.WriteString("\n   " + link)
	}
	if snippet != "" {
		b.WriteString("\n   " + snippet)
	}
	return b.String()
}

func intArg(v any, def int) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return int(i)
		}
	case string:
		var i int
		if _, err := fmt.Sscan(strings.TrimSpace(n), &i); err == nil {
			return i
		}
	}
	return def
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

var (
	_ task.Handler          = (*Searcher)(nil)
	_ registry.ToolProvider = (*Searcher)(nil)
)
