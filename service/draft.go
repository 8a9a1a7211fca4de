package service

import (
	"time"

	"github.com/Aravindkumar2195/mom-app/model"
	"github.com/google/uuid"
)

// SummaryState tracks the asynchronous executive-summary generation
type SummaryState string

const (
	SummaryIdle        SummaryState = "idle"
	SummaryPending     SummaryState = "pending"
	SummaryReady       SummaryState = "ready"
	SummaryUnavailable SummaryState = "unavailable"
)

// Draft is the mutable working copy of a visit report while it is being
// authored. It exclusively owns participants, observations and the summary
// until Finalize hands the resulting record to the record store. Drafts are
// not safe for concurrent use; the wizard serializes access.
type Draft struct {
	ID               string
	Date             string
	Supplier         *model.Supplier
	Participants     []model.Participant
	Observations     []model.Observation
	ExecutiveSummary string
	SummaryState     SummaryState

	// Edit context: set when the draft was seeded from an existing record,
	// so Finalize preserves identity and creation time
	editRecordID  string
	editCreatedAt int64
}

// NewDraft creates an empty draft for a brand-new visit. It is pre-seeded
// with one blank attendee per side, matching how authoring usually starts.
func NewDraft() *Draft {
	return &Draft{
		ID:   uuid.New().String(),
		Date: time.Now().Format("2006-01-02"),
		Participants: []model.Participant{
			{ID: uuid.New().String(), Type: model.TypeCustomer},
			{ID: uuid.New().String(), Type: model.TypeSupplier},
		},
		Observations: []model.Observation{},
		SummaryState: SummaryIdle,
	}
}

// DraftFromRecord creates a draft seeded from an existing record for edit
// mode. The supplier must already be resolved by the caller (from the store,
// or synthesized from the record's snapshot fields).
func DraftFromRecord(record *model.MeetingRecord, supplier *model.Supplier) *Draft {
	return &Draft{
		ID:               uuid.New().String(),
		Date:             record.Date,
		Supplier:         supplier,
		Participants:     model.CloneParticipants(record.Participants),
		Observations:     model.CloneObservations(record.Observations),
		ExecutiveSummary: record.ExecutiveSummary,
		SummaryState:     SummaryIdle,
		editRecordID:     record.ID,
		editCreatedAt:    record.CreatedAt,
	}
}

// IsEdit reports whether the draft was seeded from an existing record
func (d *Draft) IsEdit() bool {
	return d.editRecordID != ""
}

// AddParticipant appends a blank participant of the given type and returns it
func (d *Draft) AddParticipant(ptype model.ParticipantType) *model.Participant {
	p := model.Participant{
		ID:   uuid.New().String(),
		Type: ptype,
	}
	d.Participants = append(d.Participants, p)
	return &d.Participants[len(d.Participants)-1]
}

// PatchParticipant applies a field patch to the participant with the given
// identity, preserving its position. Returns false if no such participant.
func (d *Draft) PatchParticipant(id string, patch model.ParticipantPatch) bool {
	for i := range d.Participants {
		if d.Participants[i].ID == id {
			patch.Apply(&d.Participants[i])
			return true
		}
	}
	return false
}

// RemoveParticipant removes the participant with the given identity,
// preserving the relative order of the rest
func (d *Draft) RemoveParticipant(id string) bool {
	for i := range d.Participants {
		if d.Participants[i].ID == id {
			d.Participants = append(d.Participants[:i], d.Participants[i+1:]...)
			return true
		}
	}
	return false
}

// AddObservation appends an observation with default values: first category,
// status OPEN, responsibility pre-filled from the supplier's contact person
// when known
func (d *Draft) AddObservation() *model.Observation {
	responsibility := "Supplier"
	if d.Supplier != nil && d.Supplier.ContactPerson != "" {
		responsibility = d.Supplier.ContactPerson
	}

	o := model.Observation{
		ID:             uuid.New().String(),
		Category:       model.ObservationCategories[0],
		Status:         model.StatusOpen,
		Responsibility: responsibility,
	}
	d.Observations = append(d.Observations, o)
	return &d.Observations[len(d.Observations)-1]
}

// PatchObservation applies a field patch to the observation with the given
// identity, preserving its position. Returns false if no such observation.
func (d *Draft) PatchObservation(id string, patch model.ObservationPatch) bool {
	for i := range d.Observations {
		if d.Observations[i].ID == id {
			patch.Apply(&d.Observations[i])
			return true
		}
	}
	return false
}

// RemoveObservation removes the observation with the given identity,
// preserving the relative order of the rest
func (d *Draft) RemoveObservation(id string) bool {
	for i := range d.Observations {
		if d.Observations[i].ID == id {
			d.Observations = append(d.Observations[:i], d.Observations[i+1:]...)
			return true
		}
	}
	return false
}

// FindObservation returns the observation with the given identity, or nil
func (d *Draft) FindObservation(id string) *model.Observation {
	for i := range d.Observations {
		if d.Observations[i].ID == id {
			return &d.Observations[i]
		}
	}
	return nil
}

// SetSummary replaces the executive summary with user-edited text
func (d *Draft) SetSummary(text string) {
	d.ExecutiveSummary = text
	d.SummaryState = SummaryReady
}
