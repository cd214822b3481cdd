// Package mcpserver provides an MCP (Model Context Protocol) server that
// exposes CoachNudge tools for LLM integration via stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/llm"
	"github.com/starford/coachnudge/internal/nudge"
	"github.com/starford/coachnudge/internal/store"
)

// Server wraps the MCP server with CoachNudge tools.
type Server struct {
	mcp    *server.MCPServer
	store  *store.Store
	engine *nudge.Engine
	gen    llm.ContentGenerator
}

// New creates a new MCP server with all CoachNudge tools registered.
func New(st *store.Store, engine *nudge.Engine, gen llm.ContentGenerator) *Server {
	s := &Server{store: st, engine: engine, gen: gen}

	s.mcp = server.NewMCPServer(
		"CoachNudge",
		"1.0.0",
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("list_supervisees",
		mcp.WithDescription("List all tracked supervisees with their ids, names, and note/document counts."),
	), s.listSupervisees)

	s.mcp.AddTool(mcp.NewTool("get_supervisee",
		mcp.WithDescription("Read a supervisee's full profile: background documents and observation notes."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Supervisee id")),
	), s.getSupervisee)

	s.mcp.AddTool(mcp.NewTool("add_note",
		mcp.WithDescription("Record a manual observation note for a supervisee."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Supervisee id")),
		mcp.WithString("content", mcp.Required(), mcp.Description("Note text")),
	), s.addNote)

	s.mcp.AddTool(mcp.NewTool("trigger_reflection_nudge",
		mcp.WithDescription("Trigger a reflection nudge for a supervisee. The nudge becomes the active one."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Supervisee id")),
	), s.triggerReflectionNudge)

	s.mcp.AddTool(mcp.NewTool("generate_synthesis",
		mcp.WithDescription("Generate a structured coaching synthesis for a supervisee from their notes and documents."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Supervisee id")),
	), s.generateSynthesis)

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

func (s *Server) listSupervisees(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	st := s.store.State()
	type row struct {
		ID        string `json:"id"`
		Name      string `json:"name"`
		Track     string `json:"track,omitempty"`
		Notes     int    `json:"notes"`
		Documents int    `json:"documents"`
	}
	rows := make([]row, 0, len(st.Supervisees))
	for _, sup := range st.Supervisees {
		rows = append(rows, row{
			ID:        sup.ID,
			Name:      sup.Name,
			Track:     sup.Track,
			Notes:     len(sup.Notes),
			Documents: len(sup.Documents),
		})
	}
	out, _ := json.MarshalIndent(rows, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) getSupervisee(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sup, ok := s.store.Supervisee(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("supervisee not found: %s", id)), nil
	}
	out, _ := json.MarshalIndent(sup, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) addNote(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := req.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := domain.ValidateNoteContent(content); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if _, ok := s.store.Supervisee(id); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("supervisee not found: %s", id)), nil
	}

	note := domain.NewNote(strings.TrimSpace(content), domain.SourceManual)
	s.store.Dispatch(store.AddNote{SuperviseeID: id, Note: note})
	return mcp.NewToolResultText(fmt.Sprintf("note recorded: %s", note.ID)), nil
}

func (s *Server) triggerReflectionNudge(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sup, ok := s.store.Supervisee(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("supervisee not found: %s", id)), nil
	}
	n, err := s.engine.TriggerReflection(ctx, sup)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("nudge %s: %s", n.ID, n.Content)), nil
}

func (s *Server) generateSynthesis(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sup, ok := s.store.Supervisee(id)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("supervisee not found: %s", id)), nil
	}
	text, err := s.gen.Synthesis(ctx, sup)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(text), nil
}
