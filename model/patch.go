package model

// ParticipantPatch names the participant fields that may be edited while
// drafting. Nil fields are left untouched.
type ParticipantPatch struct {
	Name        *string          `json:"name,omitempty"`
	Designation *string          `json:"designation,omitempty"`
	Email       *string          `json:"email,omitempty"`
	Type        *ParticipantType `json:"type,omitempty"`
}

// Apply copies the set fields of the patch onto the participant
func (p ParticipantPatch) Apply(target *Participant) {
	if p.Name != nil {
		target.Name = *p.Name
	}
	if p.Designation != nil {
		target.Designation = *p.Designation
	}
	if p.Email != nil {
		target.Email = *p.Email
	}
	if p.Type != nil {
		target.Type = *p.Type
	}
}

// ObservationPatch names the observation fields that may be edited while
// drafting. Nil fields are left untouched. Status and remediation metadata
// (target date, responsibility) are independent of each other.
type ObservationPatch struct {
	Category            *string `json:"category,omitempty"`
	Description         *string `json:"description,omitempty"`
	PolishedDescription *string `json:"polished_description,omitempty"`
	PhotoDataURL        *string `json:"photo_data_url,omitempty"`
	Status              *string `json:"status,omitempty"`
	TargetDate          *string `json:"target_date,omitempty"`
	Responsibility      *string `json:"responsibility,omitempty"`
}

// Apply copies the set fields of the patch onto the observation
func (p ObservationPatch) Apply(target *Observation) {
	if p.Category != nil {
		target.Category = *p.Category
	}
	if p.Description != nil {
		target.Description = *p.Description
	}
	if p.PolishedDescription != nil {
		target.PolishedDescription = *p.PolishedDescription
	}
	if p.PhotoDataURL != nil {
		target.PhotoDataURL = *p.PhotoDataURL
	}
	if p.Status != nil {
		target.Status = *p.Status
	}
	if p.TargetDate != nil {
		target.TargetDate = *p.TargetDate
	}
	if p.Responsibility != nil {
		target.Responsibility = *p.Responsibility
	}
}
