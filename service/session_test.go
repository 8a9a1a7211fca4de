package service

import "testing"

func TestSessionStore(t *testing.T) {
	store := NewSessionStore()

	w := NewWizard(NewSupplierStore(), NewRecordStore(0), nil)
	store.Put(w)

	if store.Count() != 1 {
		t.Errorf("Expected 1 session, got %d", store.Count())
	}
	if got := store.Get(w.ID()); got != w {
		t.Error("Expected the same wizard back")
	}
	if store.Get("missing") != nil {
		t.Error("Expected nil for unknown session")
	}

	store.Remove(w.ID())
	if store.Get(w.ID()) != nil {
		t.Error("Expected session removed")
	}

	// Removing twice is a no-op
	store.Remove(w.ID())
}
