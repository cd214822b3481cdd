// Package testutil provides shared test helpers for setting up gateways,
// stores, and stub content generators.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"

	"github.com/starford/coachnudge/internal/domain"
	"github.com/starford/coachnudge/internal/llm"
	"github.com/starford/coachnudge/internal/persist"
	"github.com/starford/coachnudge/internal/store"
)

// TestGateway creates a temporary SQLite gateway that is automatically cleaned up.
func TestGateway(t *testing.T) *persist.SQLite {
	t.Helper()
	dbFile, err := os.CreateTemp("", "coachnudge-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	gw, err := persist.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { gw.Close() })
	return gw
}

// TestStore creates a store backed by a temporary gateway, with logging discarded.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(TestGateway(t), DiscardLogger())
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// StubGenerator is a canned ContentGenerator for tests.
type StubGenerator struct {
	CoachingText   string
	ReflectionText string
	SynthesisText  string

	CoachingErr   error
	ReflectionErr error
	SynthesisErr  error
}

var _ llm.ContentGenerator = (*StubGenerator)(nil)

func (g *StubGenerator) CoachingNudge(_ context.Context, _ domain.Supervisee) (string, error) {
	return g.CoachingText, g.CoachingErr
}

func (g *StubGenerator) ReflectionPrompt(_ context.Context, _ domain.Supervisee) (string, error) {
	return g.ReflectionText, g.ReflectionErr
}

func (g *StubGenerator) Synthesis(_ context.Context, _ domain.Supervisee) (string, error) {
	return g.SynthesisText, g.SynthesisErr
}
