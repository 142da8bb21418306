package action

import (
	"context"
	"testing"

	"github.com/PixPMusic/gopher-trigger/internal/state"
)

func TestStateMutatorSet(t *testing.T) {
	store := state.NewStore()
	m := NewStateMutator("set", store, "mode", OpSet, 7)

	if err := m.Execute(context.Background(), NoValue); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := store.Get("mode"); got != 7 {
		t.Errorf("mode = %d, want 7", got)
	}
}

func TestStateMutatorAddOnAbsent(t *testing.T) {
	store := state.NewStore()
	m := NewStateMutator("add", store, "count", OpAdd, 5)

	if err := m.Execute(context.Background(), NoValue); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := store.Get("count"); got != 5 {
		t.Errorf("count = %d, want 5 (absent is 0 for arithmetic)", got)
	}
}

func TestStateMutatorSubtract(t *testing.T) {
	store := state.NewStore()
	store.Set("count", 10)
	m := NewStateMutator("sub", store, "count", OpSubtract, 3)

	if err := m.Execute(context.Background(), NoValue); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := store.Get("count"); got != 7 {
		t.Errorf("count = %d, want 7", got)
	}
}
