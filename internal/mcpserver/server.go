// Package mcpserver exposes the scoring operations as MCP tools over stdio.
//
// Each tool is a struct holding the service, with Definition() returning
// the schema and Handle() processing one call. Validation problems come
// back as tool errors, not protocol errors.
package mcpserver

import (
	"context"
	"strings"

	"hugo/internal/service"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Tool is one registered MCP tool.
type Tool interface {
	Definition() mcp.Tool
	Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error)
}

// New registers every tool on a fresh MCP server.
func New(svc *service.Service) *server.MCPServer {
	s := server.NewMCPServer(
		"hugo",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Hugo classifies people into twelve work-style types across the Vision, Innovation, Expertise and Collaboration dimensions and scores team synergy."),
	)
	for _, t := range Tools(svc) {
		s.AddTool(t.Definition(), t.Handle)
	}
	return s
}

// Serve blocks serving stdio until stdin closes.
func Serve(svc *service.Service) error {
	return server.ServeStdio(New(svc))
}

// splitList accepts comma, whitespace or newline separated values.
func splitList(raw string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' ' || r == '\n' || r == '\t'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// splitLines keeps one answer per non-empty line.
func splitLines(raw string) []string {
	var out []string
	for _, line := range strings.Split(raw, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			out = append(out, line)
		}
	}
	return out
}

// intArg extracts an integer argument; JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}
