package websearch

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/clawquant/internal/domain/registry"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
)

type capture struct {
	apiKey      string
	contentType string
	body        map[string]any
}

func serper(t *testing.T, status int, response string) (*httptest.Server, *capture) {
	t.Helper()
	c := &capture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		c.apiKey = r.Header.Get("X-API-KEY")
		c.contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&c.body))
		w.WriteHeader(status)
		_, _ = w.Write([]byte(response))
	}))
	t.Cleanup(srv.Close)
	return srv, c
}

const threeResults = `{"organic": [
	{"title": "AAPL earnings beat", "link": "https://example.com/a", "snippet": "Apple beat estimates.", "date": "Jan 14, 2024"},
	{"title": "", "link": "https://example.com/b"},
	{"title": "Third", "link": "https://example.com/c", "snippet": "  "}
]}`

func TestCallTool_FormatsResults(t *testing.T) {
	t.Parallel()

	srv, got := serper(t, http.StatusOK, threeResults)
	s := New(Config{APIKey: "key-1", Endpoint: srv.URL}, srv.Client(), nil)

	text, ok := s.CallTool(context.Background(), ToolName, map[string]any{"query": " apple earnings "})
	require.True(t, ok)

	assert.Equal(t, "Web results for 'apple earnings':\n"+
		"1. AAPL earnings beat (Jan 14, 2024)\n   https://example.com/a\n   Apple beat estimates.\n"+
		"2. https://example.com/b\n   https://example.com/b\n"+
		"3. Third\n   https://example.com/c", text)

	assert.Equal(t, "key-1", got.apiKey)
	assert.Equal(t, "application/json", got.contentType)
	assert.Equal(t, map[string]any{"q": "apple earnings", "num": float64(5)}, got.body)
}

func TestCallTool_LimitAndAsOf(t *testing.T) {
	t.Parallel()

	srv, got := serper(t, http.StatusOK, threeResults)
	s := New(Config{APIKey: "k", DefaultLimit: 3, Endpoint: srv.URL}, srv.Client(), nil)

	text, ok := s.CallTool(context.Background(), ToolName, map[string]any{
		"query": "aapl",
		"limit": float64(1),
		"as_of": "2024-01-15T10:30:00Z",
	})
	require.True(t, ok)

	assert.Equal(t, "Web results for 'aapl':\n"+
		"1. AAPL earnings beat (Jan 14, 2024)\n   https://example.com/a\n   Apple beat estimates.\n"+
		"(Filtered with as_of <= 2024-01-15T10:30:00+00:00 where provider metadata allows.)", text)
	assert.Equal(t, map[string]any{"q": "aapl", "num": float64(1), "tbs": "cdr:1,cd_max:01/15/2024"}, got.body)
}

func TestCallTool_LimitClamped(t *testing.T) {
	t.Parallel()

	tests := []struct {
		limit any
		want  float64
	}{
		{limit: 50, want: 10},
		{limit: 0, want: 1},
		{limit: -3, want: 1},
		{limit: "7", want: 7},
		{limit: "lots", want: 5},
	}
	for _, tt := range tests {
		srv, got := serper(t, http.StatusOK, `{"organic": []}`)
		s := New(Config{APIKey: "k", Endpoint: srv.URL}, srv.Client(), nil)
		_, ok := s.CallTool(context.Background(), ToolName, map[string]any{"query": "q", "limit": tt.limit})
		require.True(t, ok)
		assert.Equal(t, tt.want, got.body["num"], "limit %v", tt.limit)
	}
}

func TestCallTool_Failures(t *testing.T) {
	t.Parallel()

	okSrv, _ := serper(t, http.StatusOK, `{"organic": []}`)
	errSrv, _ := serper(t, http.StatusUnauthorized, `{"message": "bad key"}`)
	badSrv, _ := serper(t, http.StatusOK, `not json`)

	tests := []struct {
		name string
		cfg  Config
		args map[string]any
		want string
	}{
		{name: "no key", cfg: Config{APIKey: "  "}, args: map[string]any{"query": "q"}, want: msgNotConfigured},
		{name: "empty query", cfg: Config{APIKey: "k"}, args: map[string]any{"query": "   "}, want: msgEmptyQuery},
		{name: "missing query", cfg: Config{APIKey: "k"}, args: nil, want: msgEmptyQuery},
		{name: "no results", cfg: Config{APIKey: "k", Endpoint: okSrv.URL}, args: map[string]any{"query": "q"}, want: msgNoResults},
		{name: "http error", cfg: Config{APIKey: "k", Endpoint: errSrv.URL}, args: map[string]any{"query": "q"}, want: msgRequestFailed},
		{name: "bad body", cfg: Config{APIKey: "k", Endpoint: badSrv.URL}, args: map[string]any{"query": "q"}, want: msgRequestFailed},
		{name: "unreachable", cfg: Config{APIKey: "k", Endpoint: "http://127.0.0.1:1"}, args: map[string]any{"query": "q"}, want: msgRequestFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := New(tt.cfg, nil, nil)
			text, ok := s.CallTool(context.Background(), ToolName, tt.args)
			assert.True(t, ok)
			assert.Equal(t, tt.want, text)
		})
	}
}

func TestCallTool_OtherTool(t *testing.T) {
	t.Parallel()

	text, ok := New(Config{APIKey: "k"}, nil, nil).CallTool(context.Background(), "quotes", nil)
	assert.False(t, ok)
	assert.Empty(t, text)
}

func TestRunIsNoAction(t *testing.T) {
	t.Parallel()

	s := New(Config{}, nil, nil)
	assert.Equal(t, "web.search", s.Name())
	assert.Equal(t, task.Result{
		Status:  task.StatusNoAction,
		Message: "web.search is a tool plugin; use the 'web_search' AI tool.",
	}, s.Run(context.Background(), task.Params{}))
}

func TestTools(t *testing.T) {
	t.Parallel()

	tools := New(Config{}, nil, nil).Tools()
	require.Len(t, tools, 1)
	assert.Equal(t, "web_search", tools[0].Name)
	assert.Equal(t, []string{"query"}, tools[0].Parameters["required"])

	data, err := json.Marshal(tools[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"as_of"`)
}

func TestFactory(t *testing.T) {
	t.Parallel()

	client := &http.Client{Timeout: time.Second}
	instance, err := Factory(context.Background(), registry.Deps{HTTPClient: client},
		registry.Config{"api_key": "k", "default_limit": 3})
	require.NoError(t, err)

	s := instance.(*Searcher)
	assert.Equal(t, "k", s.apiKey)
	assert.Equal(t, 3, s.defaultLimit)
	assert.Same(t, client, s.client)
	assert.Equal(t, DefaultEndpoint, s.endpoint)

	fresh := New(Config{}, nil, nil)
	assert.Equal(t, 20*time.Second, fresh.client.Timeout)
	assert.Equal(t, 5, fresh.defaultLimit)
}

func TestParseAsOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     any
		want   string
		wantOK bool
	}{
		{in: "2024-01-15T00:00:00Z", want: "2024-01-15T00:00:00+00:00", wantOK: true},
		{in: "2024-01-15T02:00:00+02:00", want: "2024-01-15T00:00:00+00:00", wantOK: true},
		{in: "2024-01-15T09:30:00", want: "2024-01-15T09:30:00+00:00", wantOK: true},
		{in: "2024-01-15", want: "2024-01-15T00:00:00+00:00", wantOK: true},
		{in: "2024-01-15T09:30:00.25Z", want: "2024-01-15T09:30:00.250000+00:00", wantOK: true},
		{in: time.Date(2024, 1, 15, 12, 0, 0, 0, time.FixedZone("EST", -5*3600)), want: "2024-01-15T17:00:00+00:00", wantOK: true},
		{in: "yesterday", wantOK: false},
		{in: "", wantOK: false},
		{in: nil, wantOK: false},
		{in: 20240115, wantOK: false},
	}
	for _, tt := range tests {
		got, ok := ParseAsOf(tt.in)
		assert.Equal(t, tt.wantOK, ok, "%v", tt.in)
		if tt.wantOK {
			assert.Equal(t, tt.want, formatISO(got), "%v", tt.in)
		}
	}
}
