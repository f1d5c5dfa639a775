package auth

import (
	"testing"
	"time"
)

func TestStateManagerRoundTrip(t *testing.T) {
	sm := NewStateManager()

	state, err := sm.GenerateState("google", "test-agent", "https://app.example.com/lists")
	if err != nil {
		t.Fatalf("GenerateState failed: %v", err)
	}
	if state == "" {
		t.Fatal("empty state token")
	}

	entry, err := sm.ValidateState(state, "google", "test-agent")
	if err != nil {
		t.Fatalf("ValidateState failed: %v", err)
	}
	if entry.RedirectURI != "https://app.example.com/lists" {
		t.Errorf("redirect uri = %q, want the stored one", entry.RedirectURI)
	}

	// One-time use: the same token never validates twice.
	if _, err := sm.ValidateState(state, "google", "test-agent"); err == nil {
		t.Error("state token validated twice")
	}
}

func TestStateManagerRejections(t *testing.T) {
	sm := NewStateManager()

	if _, err := sm.ValidateState("", "google", "agent"); err == nil {
		t.Error("empty state accepted")
	}
	if _, err := sm.ValidateState("never-issued", "google", "agent"); err == nil {
		t.Error("unknown state accepted")
	}

	state, err := sm.GenerateState("google", "agent", "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := sm.ValidateState(state, "discord", "agent"); err == nil {
		t.Error("provider mismatch accepted")
	}
}

func TestStateManagerExpiry(t *testing.T) {
	sm := NewStateManager()

	state, err := sm.GenerateState("google", "agent", "")
	if err != nil {
		t.Fatal(err)
	}

	sm.mutex.Lock()
	entry := sm.states[state]
	entry.CreatedAt = time.Now().Add(-11 * time.Minute)
	sm.states[state] = entry
	sm.mutex.Unlock()

	if _, err := sm.ValidateState(state, "google", "agent"); err == nil {
		t.Error("expired state accepted")
	}

	// cleanup removes stale entries outright
	stale, err := sm.GenerateState("google", "agent", "")
	if err != nil {
		t.Fatal(err)
	}
	sm.mutex.Lock()
	entry = sm.states[stale]
	entry.CreatedAt = time.Now().Add(-11 * time.Minute)
	sm.states[stale] = entry
	sm.mutex.Unlock()

	sm.cleanupExpiredStates()

	sm.mutex.RLock()
	_, held := sm.states[stale]
	sm.mutex.RUnlock()
	if held {
		t.Error("cleanup left the expired state behind")
	}
}
