package service

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/Aravindkumar2195/mom-app/model"
	"github.com/google/uuid"
)

// Step identifies a wizard authoring step
type Step int

const (
	StepDetails Step = iota + 1
	StepParticipants
	StepObservations
	StepReview
)

func (s Step) String() string {
	switch s {
	case StepDetails:
		return "details"
	case StepParticipants:
		return "participants"
	case StepObservations:
		return "observations"
	case StepReview:
		return "review"
	}
	return "unknown"
}

var (
	ErrSupplierRequired  = errors.New("a supplier must be selected")
	ErrNoObservations    = errors.New("at least one observation is required")
	ErrInvalidTransition = errors.New("invalid step transition")
	ErrFinalizeInFlight  = errors.New("finalize already in progress")
	ErrWizardClosed      = errors.New("wizard already finalized")
)

// Summarizer generates an executive summary from observations
type Summarizer interface {
	Summarize(observations []model.Observation, supplierName string) string
}

// Wizard sequences the four authoring steps of a visit report, gates forward
// progress on per-step completeness, and finalizes the draft into a
// MeetingRecord. All methods are safe for concurrent use; each mutation is
// applied to the latest draft state.
type Wizard struct {
	mu         sync.Mutex
	draft      *Draft
	step       Step
	suppliers  *SupplierStore
	records    *RecordStore
	summarizer Summarizer

	// New-supplier sub-flow
	searchTerm  string
	creatingNew bool
	newSupplier model.Supplier
	finalizing  bool
	closed      bool
}

// NewWizard opens a wizard with an empty draft for a new visit
func NewWizard(suppliers *SupplierStore, records *RecordStore, summarizer Summarizer) *Wizard {
	return &Wizard{
		draft:      NewDraft(),
		step:       StepDetails,
		suppliers:  suppliers,
		records:    records,
		summarizer: summarizer,
	}
}

// NewWizardForEdit opens a wizard pre-seeded from an existing record. The
// supplier is resolved from the store by ID; when it is no longer listed, a
// minimal stand-in is reconstructed from the record's snapshot fields so the
// caller never sees a broken reference.
func NewWizardForEdit(record *model.MeetingRecord, suppliers *SupplierStore, records *RecordStore, summarizer Summarizer) *Wizard {
	supplier := suppliers.Get(record.SupplierID)
	if supplier == nil {
		supplier = &model.Supplier{
			ID:   record.SupplierID,
			Name: record.SupplierName,
			Code: record.SupplierCode,
		}
	}
	return &Wizard{
		draft:      DraftFromRecord(record, supplier),
		step:       StepDetails,
		suppliers:  suppliers,
		records:    records,
		summarizer: summarizer,
	}
}

// ID returns the draft identity, which also addresses the wizard session
func (w *Wizard) ID() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.draft.ID
}

// Step returns the current authoring step
func (w *Wizard) Step() Step {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.step
}

// CanAdvance reports whether the current step's gate is satisfied
func (w *Wizard) CanAdvance() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.gateErr() == nil
}

// gateErr checks the current step's forward gate. Caller holds the lock.
func (w *Wizard) gateErr() error {
	switch w.step {
	case StepDetails:
		if w.draft.Supplier == nil {
			return ErrSupplierRequired
		}
	case StepObservations:
		if len(w.draft.Observations) == 0 {
			return ErrNoObservations
		}
	case StepReview:
		return ErrInvalidTransition
	}
	return nil
}

// Next advances to the following step if the current gate allows it. The
// Observations -> Review transition also kicks off asynchronous summary
// generation; the Review step renders whatever summary is available.
func (w *Wizard) Next() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWizardClosed
	}
	if err := w.gateErr(); err != nil {
		return err
	}

	w.step++
	if w.step == StepReview {
		w.startSummaryGeneration()
	}
	return nil
}

// Back jumps to an earlier step without losing any step's data
func (w *Wizard) Back(target Step) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return ErrWizardClosed
	}
	if target < StepDetails || target >= w.step {
		return ErrInvalidTransition
	}
	w.step = target
	return nil
}

// startSummaryGeneration fires the summary call without blocking the
// transition. A late result is applied only if the same draft is still live.
// Caller holds the lock.
func (w *Wizard) startSummaryGeneration() {
	if w.summarizer == nil {
		return
	}

	draftID := w.draft.ID
	observations := model.CloneObservations(w.draft.Observations)
	supplierName := ""
	if w.draft.Supplier != nil {
		supplierName = w.draft.Supplier.Name
	}

	w.draft.SummaryState = SummaryPending

	go func() {
		summary := w.summarizer.Summarize(observations, supplierName)

		w.mu.Lock()
		defer w.mu.Unlock()

		if w.closed || w.draft.ID != draftID {
			return // draft no longer live, discard silently
		}
		if summary == SummaryFailureText {
			w.draft.SummaryState = SummaryUnavailable
			return
		}
		w.draft.ExecutiveSummary = summary
		w.draft.SummaryState = SummaryReady
	}()
}

// SetDate sets the visit date
func (w *Wizard) SetDate(date string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.draft.Date = date
}

// SetSearchTerm records the supplier search text; it seeds the name of the
// new-supplier form if one is started
func (w *Wizard) SetSearchTerm(term string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.searchTerm = term
}

// SelectSupplier picks an existing supplier for the draft and leaves the
// new-supplier sub-flow if it was active
func (w *Wizard) SelectSupplier(id string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	supplier := w.suppliers.Get(id)
	if supplier == nil {
		return ErrSupplierRequired
	}
	w.draft.Supplier = supplier
	w.creatingNew = false
	w.searchTerm = ""
	return nil
}

// StartNewSupplier suspends selection and opens the new-supplier form,
// seeded with the current search text as the name
func (w *Wizard) StartNewSupplier() model.Supplier {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.creatingNew = true
	w.draft.Supplier = nil
	w.newSupplier = model.Supplier{Name: w.searchTerm}
	return w.newSupplier
}

// ClearSelection drops the selected supplier and any in-progress form
func (w *Wizard) ClearSelection() {
	w.mu.Lock()
	defer w.mu.Unlock()

	w.draft.Supplier = nil
	w.creatingNew = false
	w.searchTerm = ""
}

// CreateSupplier confirms the new-supplier form: it mints an identity,
// persists the supplier, and atomically makes it the draft's selection
func (w *Wizard) CreateSupplier(form model.Supplier) (*model.Supplier, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if form.Name == "" || form.Code == "" {
		return nil, errors.New("supplier name and code are required")
	}

	form.ID = uuid.New().String()
	w.suppliers.Upsert(&form)
	w.draft.Supplier = &form
	w.creatingNew = false
	return &form, nil
}

// Mutate runs fn against the live draft under the wizard lock
func (w *Wizard) Mutate(fn func(d *Draft)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	fn(w.draft)
}

// Snapshot returns an independent copy of the draft for rendering
func (w *Wizard) Snapshot() ReportInput {
	w.mu.Lock()
	defer w.mu.Unlock()

	var supplier model.Supplier
	if w.draft.Supplier != nil {
		supplier = *w.draft.Supplier
	}
	return ReportInput{
		Date:             w.draft.Date,
		Supplier:         supplier,
		Participants:     model.CloneParticipants(w.draft.Participants),
		Observations:     model.CloneObservations(w.draft.Observations),
		ExecutiveSummary: w.draft.ExecutiveSummary,
		SummaryState:     w.draft.SummaryState,
	}
}

// Supplier returns a copy of the currently selected supplier, or nil
func (w *Wizard) Supplier() *model.Supplier {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.draft.Supplier == nil {
		return nil
	}
	cp := *w.draft.Supplier
	return &cp
}

// Finalize converts the draft into a MeetingRecord and hands it to the
// record store. When editing, the original record's identity and creation
// time are preserved; otherwise new ones are minted. Only one finalize may
// be in flight per draft; a concurrent second call is rejected.
func (w *Wizard) Finalize() (*model.MeetingRecord, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, ErrWizardClosed
	}
	if w.finalizing {
		w.mu.Unlock()
		return nil, ErrFinalizeInFlight
	}
	if w.draft.Supplier == nil {
		w.mu.Unlock()
		return nil, ErrSupplierRequired
	}
	w.finalizing = true

	record := &model.MeetingRecord{
		ID:               w.draft.editRecordID,
		Date:             w.draft.Date,
		SupplierID:       w.draft.Supplier.ID,
		SupplierName:     w.draft.Supplier.Name,
		SupplierCode:     w.draft.Supplier.Code,
		Participants:     model.CloneParticipants(w.draft.Participants),
		Observations:     model.CloneObservations(w.draft.Observations),
		ExecutiveSummary: w.draft.ExecutiveSummary,
		CreatedAt:        w.draft.editCreatedAt,
	}
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt == 0 {
		record.CreatedAt = time.Now().UnixMilli()
	}
	w.mu.Unlock()

	w.records.Upsert(record)

	w.mu.Lock()
	w.finalizing = false
	w.closed = true
	w.mu.Unlock()

	slog.Info("visit report finalized",
		"record_id", record.ID,
		"supplier", record.SupplierName,
		"observations", len(record.Observations),
	)
	return record, nil
}
