package mcpserver

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/nudge"
	"github.com/starford/coachnudge/internal/store"
	"github.com/starford/coachnudge/internal/testutil"
)

func testServer(t *testing.T) (*Server, *store.Store) {
	t.Helper()
	st := testutil.TestStore(t)
	gen := &testutil.StubGenerator{
		ReflectionText: "How did the week go?",
		SynthesisText:  "## Key Themes",
	}
	engine := nudge.NewEngine(st, gen, testutil.DiscardLogger())
	return New(st, engine, gen), st
}

func callTool(t *testing.T, srv *Server, name string, args map[string]interface{}) *mcp.CallToolResult {
	t.Helper()
	ctx := context.Background()
	req := mcp.CallToolRequest{}
	req.Method = "tools/call"
	req.Params.Name = name
	req.Params.Arguments = args

	// mcp-go has no direct "call tool" test helper, so the handler
	// functions are invoked directly.
	var result *mcp.CallToolResult
	var err error

	switch name {
	case "list_supervisees":
		result, err = srv.listSupervisees(ctx, req)
	case "get_supervisee":
		result, err = srv.getSupervisee(ctx, req)
	case "add_note":
		result, err = srv.addNote(ctx, req)
	case "trigger_reflection_nudge":
		result, err = srv.triggerReflectionNudge(ctx, req)
	case "generate_synthesis":
		result, err = srv.generateSynthesis(ctx, req)
	default:
		t.Fatalf("unknown tool: %s", name)
	}

	if err != nil {
		t.Fatalf("tool %s error: %v", name, err)
	}
	return result
}

func resultText(r *mcp.CallToolResult) string {
	if len(r.Content) > 0 {
		if tc, ok := r.Content[0].(mcp.TextContent); ok {
			return tc.Text
		}
	}
	return ""
}

func TestListSupervisees(t *testing.T) {
	srv, st := testServer(t)
	s := domain.NewSupervisee("Nick Chen", "GC")
	st.Dispatch(store.AddSupervisee{Supervisee: s})
	st.Dispatch(store.AddNote{SuperviseeID: s.ID, Note: domain.NewNote("observed", domain.SourceManual)})

	r := callTool(t, srv, "list_supervisees", map[string]interface{}{})
	text := resultText(r)
	if !strings.Contains(text, "Nick Chen") || !strings.Contains(text, s.ID) {
		t.Errorf("list = %q", text)
	}
	if !strings.Contains(text, `"notes": 1`) {
		t.Errorf("list missing note count: %q", text)
	}
}

func TestGetSupervisee(t *testing.T) {
	srv, st := testServer(t)
	s := domain.NewSupervisee("Sarah Park", "")
	st.Dispatch(store.AddSupervisee{Supervisee: s})

	r := callTool(t, srv, "get_supervisee", map[string]interface{}{"id": s.ID})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "Sarah Park") {
		t.Errorf("profile = %q", resultText(r))
	}

	r = callTool(t, srv, "get_supervisee", map[string]interface{}{"id": "missing"})
	if !r.IsError {
		t.Error("expected error for unknown supervisee")
	}
}

func TestAddNote(t *testing.T) {
	srv, st := testServer(t)
	s := domain.NewSupervisee("Marcus Johnson", "")
	st.Dispatch(store.AddSupervisee{Supervisee: s})

	r := callTool(t, srv, "add_note", map[string]interface{}{
		"id":      s.ID,
		"content": "stepped up in the client meeting",
	})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}

	got, _ := st.Supervisee(s.ID)
	if len(got.Notes) != 1 || got.Notes[0].Source != domain.SourceManual {
		t.Errorf("notes = %+v", got.Notes)
	}

	r = callTool(t, srv, "add_note", map[string]interface{}{"id": s.ID, "content": "   "})
	if !r.IsError {
		t.Error("blank content accepted")
	}
}

func TestTriggerReflectionNudge(t *testing.T) {
	srv, st := testServer(t)
	s := domain.NewSupervisee("Nick Chen", "")
	st.Dispatch(store.AddSupervisee{Supervisee: s})

	r := callTool(t, srv, "trigger_reflection_nudge", map[string]interface{}{"id": s.ID})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if !strings.Contains(resultText(r), "How did the week go?") {
		t.Errorf("result = %q", resultText(r))
	}
	if _, ok := st.ActiveNudge(); !ok {
		t.Error("tool did not set the active nudge")
	}
}

func TestGenerateSynthesis(t *testing.T) {
	srv, st := testServer(t)
	s := domain.NewSupervisee("Emily Zhang", "")
	st.Dispatch(store.AddSupervisee{Supervisee: s})
	st.Dispatch(store.AddNote{SuperviseeID: s.ID, Note: domain.NewNote("observed", domain.SourceManual)})

	r := callTool(t, srv, "generate_synthesis", map[string]interface{}{"id": s.ID})
	if r.IsError {
		t.Fatalf("unexpected error: %s", resultText(r))
	}
	if resultText(r) != "## Key Themes" {
		t.Errorf("synthesis = %q", resultText(r))
	}

	r = callTool(t, srv, "generate_synthesis", map[string]interface{}{"id": "missing"})
	if !r.IsError {
		t.Error("expected error for unknown supervisee")
	}
}
