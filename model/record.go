package model

// ParticipantType distinguishes which side of the table an attendee sits on
type ParticipantType string

const (
	TypeCustomer ParticipantType = "CUSTOMER"
	TypeSupplier ParticipantType = "SUPPLIER"
)

// Observation status constants
const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// ObservationCategories is the fixed set of categories an observation may use.
// The first entry is the default for newly added observations.
var ObservationCategories = []string{
	"Safety (EHS)",
	"Quality Control",
	"Production Process",
	"Infrastructure",
	"Supply Chain / Logistics",
	"Management / General",
}

// Supplier represents a supplier company visited by the auditor
type Supplier struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Code          string `json:"code"`
	Location      string `json:"location"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email,omitempty"`
}

// Participant is an attendee of a visit; it exists only inside a MeetingRecord
type Participant struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Designation string          `json:"designation"`
	Email       string          `json:"email"`
	Type        ParticipantType `json:"type"`
}

// Observation is a single dated finding captured during a visit
type Observation struct {
	ID                  string `json:"id"`
	Category            string `json:"category"`
	Description         string `json:"description"`
	PolishedDescription string `json:"polished_description,omitempty"`
	PhotoDataURL        string `json:"photo_data_url,omitempty"`
	Status              string `json:"status"` // OPEN, CLOSED
	TargetDate          string `json:"target_date,omitempty"`
	Responsibility      string `json:"responsibility,omitempty"`
}

// MeetingRecord is a finalized supplier-visit report. Supplier name and code
// are snapshots taken at finalize time; later supplier edits must not change
// past records.
type MeetingRecord struct {
	ID               string        `json:"id"`
	Date             string        `json:"date"` // ISO date, YYYY-MM-DD
	SupplierID       string        `json:"supplier_id"`
	SupplierName     string        `json:"supplier_name"`
	SupplierCode     string        `json:"supplier_code"`
	Participants     []Participant `json:"participants"`
	Observations     []Observation `json:"observations"`
	ExecutiveSummary string        `json:"executive_summary,omitempty"`
	CreatedAt        int64         `json:"created_at"` // unix millis, immutable once saved
}

// CloneParticipants returns an independent copy of a participant slice
func CloneParticipants(ps []Participant) []Participant {
	out := make([]Participant, len(ps))
	copy(out, ps)
	return out
}

// CloneObservations returns an independent copy of an observation slice
func CloneObservations(os []Observation) []Observation {
	out := make([]Observation, len(os))
	copy(out, os)
	return out
}
