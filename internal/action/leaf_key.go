package action

import (
	"context"
	"fmt"
	"strings"

	"github.com/PixPMusic/gopher-trigger/internal/effector"
	"github.com/PixPMusic/gopher-trigger/internal/state"
)

const heldKeyPrefix = state.InternalPrefix + "Key"

// heldKeyState returns the internal state key tracking whether a keyboard
// key is currently down.
func heldKeyState(key string) string {
	return heldKeyPrefix + key
}

// HeldKeyName reports the keyboard key tracked by an internal state key, if
// it is one. Used on profile switch to force-release stuck keys.
func HeldKeyName(stateKey string) (string, bool) {
	if !strings.HasPrefix(stateKey, heldKeyPrefix) {
		return "", false
	}
	return strings.TrimPrefix(stateKey, heldKeyPrefix), true
}

// KeyDown presses a keyboard key and marks it held through an internal
// state entry, so a repeated trigger cannot double-press.
type KeyDown struct {
	node
	keyboard effector.Keyboard
	store    *state.Store
	key      string
}

// NewKeyDown creates a key-press leaf.
func NewKeyDown(desc string, kb effector.Keyboard, store *state.Store, key string) *KeyDown {
	return &KeyDown{node: newNode(desc), keyboard: kb, store: store, key: key}
}

func (a *KeyDown) Execute(ctx context.Context, in Input) error {
	sk := heldKeyState(a.key)

	already := false
	a.store.Apply(sk, func(cur int32, exists bool) int32 {
		if exists && cur == 1 {
			already = true
		}
		return 1
	})
	if already {
		return nil
	}

	if err := a.keyboard.Press(a.key); err != nil {
		a.store.Set(sk, 0)
		return fmt.Errorf("press %q: %w", a.key, err)
	}
	return nil
}

// KeyUp releases a keyboard key and clears its held marker.
type KeyUp struct {
	node
	keyboard effector.Keyboard
	store    *state.Store
	key      string
}

// NewKeyUp creates a key-release leaf.
func NewKeyUp(desc string, kb effector.Keyboard, store *state.Store, key string) *KeyUp {
	return &KeyUp{node: newNode(desc), keyboard: kb, store: store, key: key}
}

func (a *KeyUp) Execute(ctx context.Context, in Input) error {
	a.store.Set(heldKeyState(a.key), 0)
	if err := a.keyboard.Release(a.key); err != nil {
		return fmt.Errorf("release %q: %w", a.key, err)
	}
	return nil
}

// KeyTap presses and immediately releases a keyboard key.
type KeyTap struct {
	node
	keyboard effector.Keyboard
	store    *state.Store
	key      string
}

// NewKeyTap creates a press-and-release leaf.
func NewKeyTap(desc string, kb effector.Keyboard, store *state.Store, key string) *KeyTap {
	return &KeyTap{node: newNode(desc), keyboard: kb, store: store, key: key}
}

func (a *KeyTap) Execute(ctx context.Context, in Input) error {
	sk := heldKeyState(a.key)
	a.store.Set(sk, 1)
	if err := a.keyboard.Press(a.key); err != nil {
		a.store.Set(sk, 0)
		return fmt.Errorf("press %q: %w", a.key, err)
	}
	// The marker stays set until the release succeeds, so a failed release
	// leaves the key visible to the force-release sweep.
	if err := a.keyboard.Release(a.key); err != nil {
		return fmt.Errorf("release %q: %w", a.key, err)
	}
	a.store.Set(sk, 0)
	return nil
}
