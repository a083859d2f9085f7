package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/mvp-joe/symgrep/internal/query"
	"github.com/mvp-joe/symgrep/internal/symbol"
)

// AddSymbolSearchTool registers the symbol_search tool with an MCP server.
func AddSymbolSearchTool(s *server.MCPServer, engine *query.Engine) {
	tool := mcp.NewTool(
		"symbol_search",
		mcp.WithDescription(`Structural search over the project's symbol index.

The match mode is explicit, never inferred from the pattern:
- exact: the pattern equals the name or qualified name
- prefix: the name starts with the pattern
- substring: the name contains the pattern (default)
- regex: the pattern is a Go regular expression

Results can be narrowed by symbol kind, language, and a path glob.

Examples:
- pattern="increment" - symbols containing "increment"
- pattern="util::Widget::increment", mode="exact" - one qualified name
- pattern="^get[A-Z]", mode="regex", kinds=["method"] - getter methods`),
		mcp.WithString("pattern",
			mcp.Required(),
			mcp.Description("Pattern to match, interpreted per the mode")),
		mcp.WithString("mode",
			mcp.Description("Match mode: exact, prefix, substring, regex (default: substring)")),
		mcp.WithArray("kinds",
			mcp.Description("Restrict to kinds: namespace, type, function, method, field, variable")),
		mcp.WithArray("languages",
			mcp.Description("Restrict to languages: c, cpp, rust, python, typescript, java, ruby, php")),
		mcp.WithString("path_glob",
			mcp.Description("Restrict to files matching this glob, e.g. src/**")),
		mcp.WithBoolean("unqualified",
			mcp.Description("Match plain names only, ignoring qualified names")),
		mcp.WithNumber("limit",
			mcp.Description("Maximum number of results (default: 50)")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, createSymbolSearchHandler(engine))
}

// createSymbolSearchHandler creates the handler function for symbol_search.
func createSymbolSearchHandler(engine *query.Engine) func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		startTime := time.Now()

		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}

		pattern, ok := argsMap["pattern"].(string)
		if !ok {
			return mcp.NewToolResultError("pattern parameter is required"), nil
		}

		opts := query.Options{Limit: 50}
		if mode, ok := argsMap["mode"].(string); ok && mode != "" {
			parsed, err := query.ParseMode(mode)
			if err != nil {
				return mcp.NewToolResultError(err.Error()), nil
			}
			opts.Mode = parsed
		}
		if kinds, ok := argsMap["kinds"].([]interface{}); ok {
			for _, k := range kinds {
				name, ok := k.(string)
				if !ok {
					continue
				}
				kind, err := symbol.ParseKind(name)
				if err != nil {
					return mcp.NewToolResultError(err.Error()), nil
				}
				opts.Kinds = append(opts.Kinds, kind)
			}
		}
		if languages, ok := argsMap["languages"].([]interface{}); ok {
			for _, l := range languages {
				if name, ok := l.(string); ok {
					opts.Languages = append(opts.Languages, name)
				}
			}
		}
		if pathGlob, ok := argsMap["path_glob"].(string); ok {
			opts.PathGlob = pathGlob
		}
		if unqualified, ok := argsMap["unqualified"].(bool); ok {
			opts.Unqualified = unqualified
		}
		if limit, ok := argsMap["limit"].(float64); ok && limit > 0 {
			opts.Limit = int(limit)
		}

		results, err := engine.Search(pattern, opts)
		if err != nil {
			// Bad patterns fail the call, not the server.
			return mcp.NewToolResultError(err.Error()), nil
		}

		response := &SymbolSearchResponse{
			Pattern:       pattern,
			Mode:          string(opts.Mode),
			Results:       results,
			TotalReturned: len(results),
			TookMs:        int(time.Since(startTime).Milliseconds()),
		}
		jsonData, err := json.Marshal(response)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	}
}

// AddScopeMembersTool registers the scope_members tool with an MCP server.
func AddScopeMembersTool(s *server.MCPServer, engine *query.Engine) {
	tool := mcp.NewTool(
		"scope_members",
		mcp.WithDescription(`List the direct members of a scope (a namespace or type),
identified by its qualified name. Example: qualified_name="util::Widget"
returns the fields and methods declared inside util::Widget.`),
		mcp.WithString("qualified_name",
			mcp.Required(),
			mcp.Description("Qualified name of the scope, e.g. util::Widget")),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		argsMap, ok := request.Params.Arguments.(map[string]interface{})
		if !ok {
			return mcp.NewToolResultError("invalid arguments format"), nil
		}
		qualifiedName, ok := argsMap["qualified_name"].(string)
		if !ok || qualifiedName == "" {
			return mcp.NewToolResultError("qualified_name parameter is required"), nil
		}

		members, err := engine.Members(qualifiedName)
		if err != nil {
			return nil, fmt.Errorf("member lookup failed: %w", err)
		}

		jsonData, err := json.Marshal(&ScopeMembersResponse{
			QualifiedName: qualifiedName,
			Members:       members,
			TotalReturned: len(members),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	})
}

// AddIndexInfoTool registers the index_info tool with an MCP server.
func AddIndexInfoTool(s *server.MCPServer, info func() *IndexInfo) {
	tool := mcp.NewTool(
		"index_info",
		mcp.WithDescription("Describe the loaded symbol index: root, file and symbol counts, languages."),
		mcp.WithReadOnlyHintAnnotation(true),
		mcp.WithDestructiveHintAnnotation(false),
	)

	s.AddTool(tool, func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		jsonData, err := json.Marshal(info())
		if err != nil {
			return nil, fmt.Errorf("failed to marshal response: %w", err)
		}
		return mcp.NewToolResultText(string(jsonData)), nil
	})
}

// SymbolSearchResponse is the symbol_search tool's JSON payload.
type SymbolSearchResponse struct {
	Pattern       string           `json:"pattern"`
	Mode          string           `json:"mode"`
	Results       []*symbol.Symbol `json:"results"`
	TotalReturned int              `json:"total_returned"`
	TookMs        int              `json:"took_ms"`
}

// ScopeMembersResponse is the scope_members tool's JSON payload.
type ScopeMembersResponse struct {
	QualifiedName string           `json:"qualified_name"`
	Members       []*symbol.Symbol `json:"members"`
	TotalReturned int              `json:"total_returned"`
}

// IndexInfo is the index_info tool's JSON payload.
type IndexInfo struct {
	SchemaVersion int      `json:"schema_version"`
	RootPath      string   `json:"root_path"`
	Files         int      `json:"files"`
	Symbols       int      `json:"symbols"`
	Languages     []string `json:"languages"`
}
