// Package mcp provides MCP (Model Context Protocol) server implementation for clawquant.
package mcp

import (
	"context"
	"fmt"
	"sort"

	"github.com/felixgeelhaar/mcp-go"

	"github.com/felixgeelhaar/clawquant/internal/app"
	"github.com/felixgeelhaar/clawquant/internal/domain/plugin"
	"github.com/felixgeelhaar/clawquant/internal/domain/task"
	"github.com/felixgeelhaar/clawquant/internal/plugins/websearch"
)

// VersionInfo contains version metadata for the MCP server.
type VersionInfo struct {
	Version   string
	Commit    string
	BuildDate string
}

// StatusInput is the input for the clawquant_status tool.
type StatusInput struct{}

// StatusOutput is the output for the clawquant_status tool.
type StatusOutput struct {
	Version   string          `json:"version"`
	Commit    string          `json:"commit,omitempty"`
	BuildDate string          `json:"build_date,omitempty"`
	Plugins   []RunningPlugin `json:"plugins"`
	Handlers  []string        `json:"handlers"`
	Tools     []string        `json:"tools"`
}

// RunningPlugin is one instantiated plugin.
type RunningPlugin struct {
	Name         string   `json:"name"`
	Category     string   `json:"category"`
	Capabilities []string `json:"capabilities"`
}

// ListPluginsInput is the input for the clawquant_list_plugins tool.
type ListPluginsInput struct {
	Category string `json:"category,omitempty" jsonschema:"description=Only list plugins of this category (ai_provider, market_data, integration, risk_rule, task_handler, agent)"`
}

// ListPluginsOutput is the output for the clawquant_list_plugins tool.
type ListPluginsOutput struct {
	Plugins []PluginInfo `json:"plugins"`
}

// PluginInfo describes one discovered plugin.
type PluginInfo struct {
	Name         string      `json:"name"`
	DisplayName  string      `json:"display_name"`
	Category     string      `json:"category"`
	Description  string      `json:"description,omitempty"`
	Version      string      `json:"version,omitempty"`
	Protocols    []string    `json:"protocols,omitempty"`
	Fields       []FieldInfo `json:"fields,omitempty"`
	Dependencies []string    `json:"pip_dependencies,omitempty"`
}

// FieldInfo describes one configuration field. Secret values are never exposed.
type FieldInfo struct {
	Key      string   `json:"key"`
	Label    string   `json:"label"`
	Type     string   `json:"type"`
	Required bool     `json:"required"`
	EnvVar   string   `json:"env_var,omitempty"`
	Choices  []string `json:"choices,omitempty"`
}

// RunTaskInput is the input for the clawquant_run_task tool.
type RunTaskInput struct {
	Handler string   `json:"handler" jsonschema:"required,description=Task handler name (e.g. notifications.send)"`
	Params  []string `json:"params,omitempty" jsonschema:"description=Parameters as key=value pairs (e.g. message=BUY AAPL)"`
}

// RunTaskOutput is the output for the clawquant_run_task tool.
type RunTaskOutput struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// CallToolInput is the input for the clawquant_call_tool tool.
type CallToolInput struct {
	Tool string   `json:"tool" jsonschema:"required,description=Name of a tool offered by an enabled plugin"`
	Args []string `json:"args,omitempty" jsonschema:"description=Arguments as key=value pairs"`
}

// ToolOutput is the text a plugin tool produced.
type ToolOutput struct {
	Tool string `json:"tool"`
	Text string `json:"text"`
}

// WebSearchInput is the input for the web_search tool.
type WebSearchInput struct {
	Query string `json:"query" jsonschema:"required,description=Search query text"`
	Limit int    `json:"limit,omitempty" jsonschema:"description=Maximum results to return (default: 5, max: 10)"`
	AsOf  string `json:"as_of,omitempty" jsonschema:"description=Optional ISO datetime cutoff. Restricts results to pages published on or before this timestamp."`
}

// RegisterAll registers all MCP tools with the server. Plugin tools are
// registered only when an enabled plugin offers them.
func RegisterAll(srv *mcp.Server, rt *app.Runtime, catalog *plugin.Catalog, versionInfo VersionInfo) {
	registerStatusTool(srv, rt, versionInfo)
	registerListPluginsTool(srv, catalog)
	registerRunTaskTool(srv, rt)
	registerCallToolTool(srv, rt)

	for _, tool := range rt.Tools() {
		if tool.Name == websearch.ToolName {
			registerWebSearchTool(srv, rt)
		}
	}
}

func registerStatusTool(srv *mcp.Server, rt *app.Runtime, versionInfo VersionInfo) {
	srv.Tool("clawquant_status").
		Description("Get clawquant status: version info, running plugins with their capabilities, task handlers and tools.").
		ReadOnly().
		Handler(func(_ context.Context, _ StatusInput) (*StatusOutput, error) {
			output := &StatusOutput{
				Version:   versionInfo.Version,
				Commit:    versionInfo.Commit,
				BuildDate: versionInfo.BuildDate,
				Plugins:   make([]RunningPlugin, 0),
				Handlers:  make([]string, 0),
				Tools:     make([]string, 0),
			}

			reg := rt.Registry()
			for _, e := range reg.Entries() {
				caps := make([]string, 0, len(e.Capabilities))
				for _, c := range e.Capabilities {
					caps = append(caps, string(c))
				}
				output.Plugins = append(output.Plugins, RunningPlugin{
					Name:         e.Name,
					Category:     string(e.Category),
					Capabilities: caps,
				})
			}
			for name := range reg.Handlers() {
				output.Handlers = append(output.Handlers, name)
			}
			sort.Strings(output.Handlers)
			for _, tool := range rt.Tools() {
				output.Tools = append(output.Tools, tool.Name)
			}

			return output, nil
		})
}

func registerListPluginsTool(srv *mcp.Server, catalog *plugin.Catalog) {
	srv.Tool("clawquant_list_plugins").
		Description("List discovered plugins with their category, version and configuration fields.").
		ReadOnly().
		Handler(func(_ context.Context, in ListPluginsInput) (*ListPluginsOutput, error) {
			if err := ValidateListPluginsInput(&in); err != nil {
				return nil, err
			}

			descs := catalog.All()
			if in.Category != "" {
				descs = catalog.InCategory(plugin.Category(in.Category))
			}

			output := &ListPluginsOutput{Plugins: make([]PluginInfo, 0, len(descs))}
			for _, d := range descs {
				output.Plugins = append(output.Plugins, pluginInfo(d))
			}
			return output, nil
		})
}

func pluginInfo(d plugin.Descriptor) PluginInfo {
	info := PluginInfo{
		Name:         d.Name(),
		DisplayName:  d.DisplayName(),
		Category:     string(d.Category()),
		Description:  d.Description(),
		Version:      d.Version(),
		Protocols:    d.Protocols(),
		Dependencies: d.PipDependencies(),
	}
	for _, f := range d.ConfigFields() {
		info.Fields = append(info.Fields, FieldInfo{
			Key:      f.Key(),
			Label:    f.Label(),
			Type:     string(f.Type()),
			Required: f.IsRequired(),
			EnvVar:   f.EnvVar(),
			Choices:  f.Choices(),
		})
	}
	return info
}

func registerRunTaskTool(srv *mcp.Server, rt *app.Runtime) {
	srv.Tool("clawquant_run_task").
		Description("Run a task handler once, e.g. notifications.send with message=... to deliver a notification through every output adapter.").
		Handler(func(ctx context.Context, in RunTaskInput) (*RunTaskOutput, error) {
			if err := ValidateRunTaskInput(&in); err != nil {
				return nil, err
			}
			params, err := task.ParseParams(in.Params)
			if err != nil {
				return nil, err
			}

			result := rt.RunTask(ctx, in.Handler, params)
			return &RunTaskOutput{
				Status:  string(result.Status),
				Message: result.Message,
			}, nil
		})
}

func registerCallToolTool(srv *mcp.Server, rt *app.Runtime) {
	srv.Tool("clawquant_call_tool").
		Description("Call a tool offered by an enabled plugin by name, passing key=value arguments.").
		ReadOnly().
		Handler(func(ctx context.Context, in CallToolInput) (*ToolOutput, error) {
			if err := ValidateCallToolInput(&in); err != nil {
				return nil, err
			}
			params, err := task.ParseParams(in.Args)
			if err != nil {
				return nil, err
			}

			text, err := rt.CallTool(ctx, in.Tool, params)
			if err != nil {
				return nil, fmt.Errorf("calling %s: %w", in.Tool, err)
			}
			return &ToolOutput{Tool: in.Tool, Text: text}, nil
		})
}

func registerWebSearchTool(srv *mcp.Server, rt *app.Runtime) {
	srv.Tool(websearch.ToolName).
		Description("Search the web for recent information. Supports optional as_of cutoff for sandbox-safe lookups.").
		ReadOnly().
		Handler(func(ctx context.Context, in WebSearchInput) (*ToolOutput, error) {
			args := map[string]any{"query": in.Query}
			if in.Limit > 0 {
				args["limit"] = in.Limit
			}
			if in.AsOf != "" {
				args["as_of"] = in.AsOf
			}

			text, err := rt.CallTool(ctx, websearch.ToolName, args)
			if err != nil {
				return nil, err
			}
			return &ToolOutput{Tool: websearch.ToolName, Text: text}, nil
		})
}
