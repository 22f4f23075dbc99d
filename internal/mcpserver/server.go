// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes flux-notes tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/Jericoz-JC/flux-notes/internal/models"
	"github.com/Jericoz-JC/flux-notes/internal/service"
	"github.com/Jericoz-JC/flux-notes/internal/store"
)

// Server wraps the MCP server with flux-notes tools.
type Server struct {
	mcp *server.MCPServer
	svc *service.Service
}

// New creates a new MCP server with all flux-notes tools registered.
func New(svc *service.Service) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"flux-notes",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_notes",
		mcp.WithDescription("Full-text search through note titles and bodies."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search query string")),
	), s.searchNotes)

	s.mcp.AddTool(mcp.NewTool("read_note",
		mcp.WithDescription("Read a note by its id."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Note id")),
	), s.readNote)

	s.mcp.AddTool(mcp.NewTool("create_note",
		mcp.WithDescription("Create a new note. Hashtags (#tag) and mentions (@name) in the body "+
			"become tags; [[Title]] references become graph links once resolved. Read the "+
			"flux://note-syntax resource for the full syntax."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Note title")),
		mcp.WithString("body", mcp.Description("Note body text")),
	), s.createNote)

	s.mcp.AddTool(mcp.NewTool("list_todos",
		mcp.WithDescription("List todos, optionally filtered by status (pending, in_progress, completed)."),
		mcp.WithString("status", mcp.Description("Optional status filter")),
	), s.listTodos)

	s.mcp.AddTool(mcp.NewTool("create_todo",
		mcp.WithDescription("Create a todo. Status defaults to pending, priority to medium."),
		mcp.WithString("title", mcp.Required(), mcp.Description("Todo title")),
		mcp.WithString("description", mcp.Description("Todo description")),
		mcp.WithString("priority", mcp.Description("low, medium, or high")),
	), s.createTodo)

	s.mcp.AddTool(mcp.NewTool("todo_stats",
		mcp.WithDescription("Todo counts: total, per status, and overdue."),
	), s.todoStats)

	s.mcp.AddTool(mcp.NewTool("focus_stats",
		mcp.WithDescription("Focus session statistics including day streaks."),
	), s.focusStats)

	s.mcp.AddTool(mcp.NewTool("get_backlinks",
		mcp.WithDescription("Find all links pointing at the given entity."),
		mcp.WithString("type", mcp.Required(), mcp.Description("Entity type: note or todo")),
		mcp.WithString("id", mcp.Required(), mcp.Description("Entity id")),
	), s.getBacklinks)

	s.mcp.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Snapshot of the full knowledge graph: notes and todos as nodes, links as edges."),
	), s.getGraph)

	// Resource: note syntax contract.
	s.mcp.AddResource(
		mcp.NewResource("flux://note-syntax", "Note Syntax",
			mcp.WithResourceDescription("Tag and wiki-link syntax recognised in note bodies."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readNoteSyntaxResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any) *mcp.CallToolResult {
	out, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(out))
}

func (s *Server) searchNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	notes, err := s.svc.Store().SearchNotes(query)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(notes), nil
}

func (s *Server) readNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	note, err := s.svc.Store().Note(id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if note == nil {
		return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
	}
	return jsonResult(note), nil
}

func (s *Server) createNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	body := ""
	if b, err := req.RequireString("body"); err == nil {
		body = b
	}
	note, err := s.svc.CreateNote(ctx, store.NoteInput{Title: title, Body: body})
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(note), nil
}

func (s *Server) listTodos(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var filter *store.TodoFilter
	if status, err := req.RequireString("status"); err == nil && status != "" {
		filter = &store.TodoFilter{Status: []models.TodoStatus{models.TodoStatus(status)}}
	}
	todos, err := s.svc.Store().ListTodos(filter)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(todos), nil
}

func (s *Server) createTodo(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	title, err := req.RequireString("title")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input := store.TodoInput{Title: title}
	if d, err := req.RequireString("description"); err == nil {
		input.Description = d
	}
	if p, err := req.RequireString("priority"); err == nil && p != "" {
		input.Priority = models.TodoPriority(p)
	}
	todo, err := s.svc.CreateTodo(ctx, input)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(todo), nil
}

func (s *Server) todoStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Store().TodoStats()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stats), nil
}

func (s *Server) focusStats(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := s.svc.Store().FocusStats()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(stats), nil
}

func (s *Server) getBacklinks(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entityType, err := req.RequireString("type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	links, err := s.svc.Store().Backlinks(models.EntityType(entityType), id)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(links) == 0 {
		return mcp.NewToolResultText("no backlinks found"), nil
	}
	return jsonResult(links), nil
}

func (s *Server) getGraph(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, edges, err := s.svc.Store().GraphData()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(map[string]any{"nodes": nodes, "edges": edges}), nil
}

func (s *Server) readNoteSyntaxResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "flux://note-syntax",
			MIMEType: "text/markdown",
			Text:     NoteSyntax,
		},
	}, nil
}
