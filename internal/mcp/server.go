// Package mcp exposes the backend's commands as MCP (Model Context Protocol)
// tools so that assistants and scripted hosts can call them over stdio.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"slices"

	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/valter-silva-au/tarefitas/internal/core"
)

// Server wraps the command router and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	router core.CommandRouter
}

// NewServer creates an MCP server named name that forwards tool calls to
// router. Tools are registered for the commands router knows at this point.
func NewServer(router core.CommandRouter, name, version string) *Server {
	if name == "" {
		name = "tarefitas"
	}
	if version == "" {
		version = "dev"
	}

	s := &Server{router: router}
	s.server = gomcp.NewServer(&gomcp.Implementation{Name: name, Version: version}, nil)
	s.registerTools()
	return s
}

// Run serves on stdio, blocking until the client disconnects or ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type generateIDInput struct{}

type generateIDOutput struct {
	ID string `json:"id"`
}

type greetInput struct {
	Name string `json:"name" jsonschema:"the name to greet; inserted verbatim, may be empty"`
}

type greetOutput struct {
	Greeting string `json:"greeting"`
}

type openURLInput struct {
	URL string `json:"url" jsonschema:"http, https or mailto URL to open with the system handler"`
}

type openURLOutput struct {
	Message string `json:"message"`
}

type listCommandsInput struct{}

type listCommandsOutput struct {
	Commands []string `json:"commands"`
	Count    int      `json:"count"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        core.CommandGenerateID,
		Description: "Generate a unique identifier of the form <unix-ms>-<8 hex chars> for a new task or subtask.",
	}, s.handleGenerateID)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        core.CommandGreet,
		Description: "Return the backend greeting for a name.",
	}, s.handleGreet)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_commands",
		Description: "List the command names the backend accepts from the host shell.",
	}, s.handleListCommands)

	if slices.Contains(s.router.Commands(), core.CommandOpenURL) {
		gomcp.AddTool(s.server, &gomcp.Tool{
			Name:        core.CommandOpenURL,
			Description: "Open a URL with the operating system's default handler.",
		}, s.handleOpenURL)
	}
}

// --- Tool handlers ---

func (s *Server) handleGenerateID(ctx context.Context, _ *gomcp.CallToolRequest, _ generateIDInput) (*gomcp.CallToolResult, generateIDOutput, error) {
	result, err := s.router.Invoke(ctx, core.CommandGenerateID, nil)
	if err != nil {
		return errorResult(err.Error()), generateIDOutput{}, nil
	}
	id, _ := result.(string)
	return nil, generateIDOutput{ID: id}, nil
}

func (s *Server) handleGreet(ctx context.Context, _ *gomcp.CallToolRequest, input greetInput) (*gomcp.CallToolResult, greetOutput, error) {
	args, err := json.Marshal(core.GreetArgs{Name: &input.Name})
	if err != nil {
		return errorResult(fmt.Sprintf("encoding arguments: %s", err)), greetOutput{}, nil
	}
	result, err := s.router.Invoke(ctx, core.CommandGreet, args)
	if err != nil {
		return errorResult(err.Error()), greetOutput{}, nil
	}
	greeting, _ := result.(string)
	return nil, greetOutput{Greeting: greeting}, nil
}

func (s *Server) handleOpenURL(ctx context.Context, _ *gomcp.CallToolRequest, input openURLInput) (*gomcp.CallToolResult, openURLOutput, error) {
	args, err := json.Marshal(core.OpenURLArgs{URL: input.URL})
	if err != nil {
		return errorResult(fmt.Sprintf("encoding arguments: %s", err)), openURLOutput{}, nil
	}
	if _, err := s.router.Invoke(ctx, core.CommandOpenURL, args); err != nil {
		return errorResult(err.Error()), openURLOutput{}, nil
	}
	return nil, openURLOutput{Message: fmt.Sprintf("opened %s", input.URL)}, nil
}

func (s *Server) handleListCommands(_ context.Context, _ *gomcp.CallToolRequest, _ listCommandsInput) (*gomcp.CallToolResult, listCommandsOutput, error) {
	names := s.router.Commands()
	return nil, listCommandsOutput{Commands: names, Count: len(names)}, nil
}

// --- Helpers ---

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
