package service

import (
	"testing"

	"github.com/Aravindkumar2195/mom-app/model"
	"github.com/google/go-cmp/cmp"
)

func strPtr(s string) *string { return &s }

func TestNewDraftDefaults(t *testing.T) {
	d := NewDraft()

	if d.ID == "" {
		t.Error("Expected draft to have an ID")
	}
	if d.Date == "" {
		t.Error("Expected draft to have today's date")
	}
	if len(d.Participants) != 2 {
		t.Fatalf("Expected 2 seed participants, got %d", len(d.Participants))
	}
	if d.Participants[0].Type != model.TypeCustomer {
		t.Errorf("Expected first seed participant CUSTOMER, got %s", d.Participants[0].Type)
	}
	if d.Participants[1].Type != model.TypeSupplier {
		t.Errorf("Expected second seed participant SUPPLIER, got %s", d.Participants[1].Type)
	}
	if len(d.Observations) != 0 {
		t.Errorf("Expected no observations, got %d", len(d.Observations))
	}
	if d.IsEdit() {
		t.Error("Expected new draft not to be in edit mode")
	}
	if d.SummaryState != SummaryIdle {
		t.Errorf("Expected summary state idle, got %s", d.SummaryState)
	}
}

func TestDraftFromRecord(t *testing.T) {
	record := &model.MeetingRecord{
		ID:           "rec-1",
		Date:         "2026-08-20",
		SupplierID:   "sup-1",
		SupplierName: "Apex Auto Components",
		SupplierCode: "S-1023",
		Participants: []model.Participant{
			{ID: "p-1", Name: "John", Type: model.TypeCustomer},
		},
		Observations: []model.Observation{
			{ID: "o-1", Category: "Quality Control", Description: "x", Status: model.StatusOpen},
		},
		ExecutiveSummary: "All good.",
		CreatedAt:        12345,
	}
	supplier := &model.Supplier{ID: "sup-1", Name: "Apex Auto Components", Code: "S-1023"}

	d := DraftFromRecord(record, supplier)

	if !d.IsEdit() {
		t.Error("Expected draft to be in edit mode")
	}
	if d.Date != "2026-08-20" {
		t.Errorf("Expected date carried over, got %s", d.Date)
	}
	if d.ExecutiveSummary != "All good." {
		t.Errorf("Expected summary carried over, got %q", d.ExecutiveSummary)
	}
	if diff := cmp.Diff(record.Participants, d.Participants); diff != "" {
		t.Errorf("Participants mismatch (-want +got):\n%s", diff)
	}

	// The draft's copies must be independent of the record
	d.Observations[0].Status = model.StatusClosed
	if record.Observations[0].Status != model.StatusOpen {
		t.Error("Expected draft mutation not to affect the source record")
	}
}

func TestAddObservationDefaults(t *testing.T) {
	d := NewDraft()
	d.Supplier = &model.Supplier{ID: "sup-1", Name: "Apex", Code: "S-1", ContactPerson: "John Smith"}

	o := d.AddObservation()

	if o.Category != model.ObservationCategories[0] {
		t.Errorf("Expected first category, got %s", o.Category)
	}
	if o.Status != model.StatusOpen {
		t.Errorf("Expected status OPEN, got %s", o.Status)
	}
	if o.Responsibility != "John Smith" {
		t.Errorf("Expected responsibility from contact person, got %s", o.Responsibility)
	}
	if o.ID == "" {
		t.Error("Expected a fresh identity")
	}
}

func TestAddObservationDefaultResponsibilityWithoutContact(t *testing.T) {
	d := NewDraft()

	o := d.AddObservation()

	if o.Responsibility != "Supplier" {
		t.Errorf("Expected responsibility Supplier, got %s", o.Responsibility)
	}
}

func TestAddRemoveObservationIsInverse(t *testing.T) {
	d := NewDraft()
	first := d.AddObservation()
	second := d.AddObservation()
	third := d.AddObservation()

	before := model.CloneObservations(d.Observations)
	added := d.AddObservation()
	if !d.RemoveObservation(added.ID) {
		t.Fatal("Expected removal to succeed")
	}

	if diff := cmp.Diff(before, d.Observations); diff != "" {
		t.Errorf("Expected add+remove to restore prior state (-want +got):\n%s", diff)
	}

	// Removal from the middle preserves relative order
	if !d.RemoveObservation(second.ID) {
		t.Fatal("Expected removal to succeed")
	}
	if len(d.Observations) != 2 {
		t.Fatalf("Expected 2 observations, got %d", len(d.Observations))
	}
	if d.Observations[0].ID != first.ID || d.Observations[1].ID != third.ID {
		t.Error("Expected remaining observations to keep their relative order")
	}
}

func TestAddRemoveParticipantIsInverse(t *testing.T) {
	d := NewDraft()
	before := model.CloneParticipants(d.Participants)

	added := d.AddParticipant(model.TypeSupplier)
	if !d.RemoveParticipant(added.ID) {
		t.Fatal("Expected removal to succeed")
	}

	if diff := cmp.Diff(before, d.Participants); diff != "" {
		t.Errorf("Expected add+remove to restore prior state (-want +got):\n%s", diff)
	}
}

func TestPatchObservationByIdentity(t *testing.T) {
	d := NewDraft()
	o := d.AddObservation()

	ok := d.PatchObservation(o.ID, model.ObservationPatch{
		Description: strPtr("Loose bolts"),
		Category:    strPtr("Quality Control"),
	})
	if !ok {
		t.Fatal("Expected patch to find the observation")
	}
	if d.Observations[0].Description != "Loose bolts" {
		t.Errorf("Expected patched description, got %q", d.Observations[0].Description)
	}

	// Patching an unknown identity is a no-op
	if d.PatchObservation("missing", model.ObservationPatch{Description: strPtr("x")}) {
		t.Error("Expected patch of unknown identity to report false")
	}
}

func TestRemoveUnknownIdentity(t *testing.T) {
	d := NewDraft()
	if d.RemoveObservation("missing") {
		t.Error("Expected removal of unknown observation to report false")
	}
	if d.RemoveParticipant("missing") {
		t.Error("Expected removal of unknown participant to report false")
	}
}

func TestSetSummary(t *testing.T) {
	d := NewDraft()
	d.SetSummary("Edited by hand.")

	if d.ExecutiveSummary != "Edited by hand." {
		t.Errorf("Expected summary set, got %q", d.ExecutiveSummary)
	}
	if d.SummaryState != SummaryReady {
		t.Errorf("Expected summary state ready, got %s", d.SummaryState)
	}
}
