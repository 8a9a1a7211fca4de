package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/Aravindkumar2195/mom-app/config"
	"github.com/Aravindkumar2195/mom-app/model"
	"github.com/Aravindkumar2195/mom-app/pkg/logger"
	"github.com/Aravindkumar2195/mom-app/service"
	"github.com/gin-gonic/gin"
)

// TextPolisher rewrites observation text into business English
type TextPolisher interface {
	PolishText(text string) string
}

// VisitHandler exposes the authoring wizard over HTTP: one session per
// in-progress draft, addressed by draft ID
type VisitHandler struct {
	sessions    *service.SessionStore
	suppliers   *service.SupplierStore
	records     *service.RecordStore
	summarizer  service.Summarizer
	polisher    TextPolisher
	dispatcher  *service.Dispatcher
	evidence    *service.EvidenceStore // optional
	evidenceCfg config.EvidenceConfig
}

func NewVisitHandler(
	sessions *service.SessionStore,
	suppliers *service.SupplierStore,
	records *service.RecordStore,
	summarizer service.Summarizer,
	polisher TextPolisher,
	dispatcher *service.Dispatcher,
	evidence *service.EvidenceStore,
	evidenceCfg config.EvidenceConfig,
) *VisitHandler {
	return &VisitHandler{
		sessions:    sessions,
		suppliers:   suppliers,
		records:     records,
		summarizer:  summarizer,
		polisher:    polisher,
		dispatcher:  dispatcher,
		evidence:    evidence,
		evidenceCfg: evidenceCfg,
	}
}

type openRequest struct {
	RecordID string `json:"record_id,omitempty"`
}

// Open starts a wizard session, either empty or seeded from an existing
// record for edit mode
func (h *VisitHandler) Open(c *gin.Context) {
	var req openRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	var wizard *service.Wizard
	if req.RecordID != "" {
		record := h.records.Get(req.RecordID)
		if record == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
			return
		}
		wizard = service.NewWizardForEdit(record, h.suppliers, h.records, h.summarizer)
	} else {
		wizard = service.NewWizard(h.suppliers, h.records, h.summarizer)
	}

	h.sessions.Put(wizard)
	logger.Info(c.Request.Context(), "wizard session opened",
		"draft_id", wizard.ID(), "edit", req.RecordID != "")
	h.writeState(c, wizard)
}

// wizard fetches the session for the :id path parameter and tags the request
// context with the draft ID for log enrichment
func (h *VisitHandler) wizard(c *gin.Context) *service.Wizard {
	w := h.sessions.Get(c.Param("id"))
	if w == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No such draft"})
		return nil
	}
	ctx := context.WithValue(c.Request.Context(), logger.DraftIDKey, w.ID())
	c.Request = c.Request.WithContext(ctx)
	return w
}

// writeState responds with the wizard's externally visible state
func (h *VisitHandler) writeState(c *gin.Context, w *service.Wizard) {
	snapshot := w.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"draft_id":      w.ID(),
		"step":          w.Step().String(),
		"can_advance":   w.CanAdvance(),
		"date":          snapshot.Date,
		"supplier":      w.Supplier(),
		"participants":  snapshot.Participants,
		"observations":  snapshot.Observations,
		"summary":       snapshot.ExecutiveSummary,
		"summary_state": snapshot.SummaryState,
	})
}

// State returns the current wizard state
func (h *VisitHandler) State(c *gin.Context) {
	if w := h.wizard(c); w != nil {
		h.writeState(c, w)
	}
}

// Next advances to the following step
func (h *VisitHandler) Next(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	if err := w.Next(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.writeState(c, w)
}

type backRequest struct {
	Step int `json:"step" binding:"required"`
}

// Back jumps to an earlier step
func (h *VisitHandler) Back(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req backRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := w.Back(service.Step(req.Step)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	h.writeState(c, w)
}

type dateRequest struct {
	Date string `json:"date" binding:"required"`
}

// SetDate sets the visit date
func (h *VisitHandler) SetDate(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req dateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	w.SetDate(req.Date)
	h.writeState(c, w)
}

type selectSupplierRequest struct {
	ID string `json:"id" binding:"required"`
}

// SelectSupplier picks an existing supplier for the draft
func (h *VisitHandler) SelectSupplier(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req selectSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if err := w.SelectSupplier(req.ID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Supplier not found"})
		return
	}
	h.writeState(c, w)
}

type newSupplierRequest struct {
	SearchTerm string `json:"search_term"`
}

// StartNewSupplier opens the new-supplier form, name seeded from the search text
func (h *VisitHandler) StartNewSupplier(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req newSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	if req.SearchTerm != "" {
		w.SetSearchTerm(req.SearchTerm)
	}
	form := w.StartNewSupplier()
	c.JSON(http.StatusOK, gin.H{"form": form})
}

// CreateSupplier confirms the new-supplier form and selects the result
func (h *VisitHandler) CreateSupplier(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var form model.Supplier
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	created, err := w.CreateSupplier(form)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"supplier": created})
}

// ClearSupplier drops the current selection
func (h *VisitHandler) ClearSupplier(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	w.ClearSelection()
	h.writeState(c, w)
}

type addParticipantRequest struct {
	Type model.ParticipantType `json:"type" binding:"required"`
}

// AddParticipant appends a blank attendee of the given type
func (h *VisitHandler) AddParticipant(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req addParticipantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var added model.Participant
	w.Mutate(func(d *service.Draft) {
		added = *d.AddParticipant(req.Type)
	})
	c.JSON(http.StatusOK, gin.H{"participant": added})
}

// PatchParticipant applies a field patch to one attendee
func (h *VisitHandler) PatchParticipant(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var patch model.ParticipantPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var found bool
	w.Mutate(func(d *service.Draft) {
		found = d.PatchParticipant(c.Param("pid"), patch)
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	h.writeState(c, w)
}

// RemoveParticipant removes one attendee by identity
func (h *VisitHandler) RemoveParticipant(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var found bool
	w.Mutate(func(d *service.Draft) {
		found = d.RemoveParticipant(c.Param("pid"))
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Participant not found"})
		return
	}
	h.writeState(c, w)
}

// AddObservation appends an observation with default values
func (h *VisitHandler) AddObservation(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var added model.Observation
	w.Mutate(func(d *service.Draft) {
		added = *d.AddObservation()
	})
	c.JSON(http.StatusOK, gin.H{"observation": added})
}

// PatchObservation applies a field patch to one observation
func (h *VisitHandler) PatchObservation(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var patch model.ObservationPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	var found bool
	w.Mutate(func(d *service.Draft) {
		found = d.PatchObservation(c.Param("oid"), patch)
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Observation not found"})
		return
	}
	h.writeState(c, w)
}

// RemoveObservation removes one observation by identity
func (h *VisitHandler) RemoveObservation(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var found bool
	w.Mutate(func(d *service.Draft) {
		found = d.RemoveObservation(c.Param("oid"))
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Observation not found"})
		return
	}
	h.writeState(c, w)
}

type photoRequest struct {
	PhotoDataURL string `json:"photo_data_url" binding:"required"`
}

// AttachPhoto compresses an evidence photo, attaches it to the observation,
// and archives the original to object storage when configured
func (h *VisitHandler) AttachPhoto(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req photoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	compressed := service.CompressEvidenceImage(req.PhotoDataURL, h.evidenceCfg.MaxWidth, h.evidenceCfg.Quality)

	oid := c.Param("oid")
	var found bool
	w.Mutate(func(d *service.Draft) {
		found = d.PatchObservation(oid, model.ObservationPatch{PhotoDataURL: &compressed})
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Observation not found"})
		return
	}

	if h.evidence != nil {
		ctx := c.Request.Context()
		if _, err := h.evidence.ArchivePhoto(ctx, w.ID(), oid, req.PhotoDataURL); err != nil {
			// Archiving is best-effort; the compressed copy lives in the draft
			logger.Warn(ctx, "evidence archive failed", "observation_id", oid, "error", err)
		}
	}

	h.writeState(c, w)
}

// PolishObservation rewrites the observation's description via the AI
// collaborator. Failure degrades to the original text; the result is applied
// by identity, so it is dropped silently if the observation is gone.
func (h *VisitHandler) PolishObservation(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}

	oid := c.Param("oid")
	var description string
	var found bool
	w.Mutate(func(d *service.Draft) {
		if o := d.FindObservation(oid); o != nil {
			description = o.Description
			found = true
		}
	})
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Observation not found"})
		return
	}

	polished := h.polisher.PolishText(description)
	w.Mutate(func(d *service.Draft) {
		d.PatchObservation(oid, model.ObservationPatch{PolishedDescription: &polished})
	})
	c.JSON(http.StatusOK, gin.H{"polished_description": polished})
}

type summaryRequest struct {
	Text string `json:"text"`
}

// SetSummary replaces the executive summary with user-edited text
func (h *VisitHandler) SetSummary(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req summaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	w.Mutate(func(d *service.Draft) {
		d.SetSummary(req.Text)
	})
	h.writeState(c, w)
}

// Finalize converts the draft into a MeetingRecord and closes the session
func (h *VisitHandler) Finalize(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	record, err := w.Finalize()
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFinalizeInFlight), errors.Is(err, service.ErrWizardClosed):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}
	h.sessions.Remove(w.ID())
	c.JSON(http.StatusOK, record)
}

// Cancel discards the draft without saving
func (h *VisitHandler) Cancel(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	h.sessions.Remove(w.ID())
	c.JSON(http.StatusOK, gin.H{"message": "Draft discarded"})
}

// Preview returns the structured on-screen preview of the draft
func (h *VisitHandler) Preview(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	c.JSON(http.StatusOK, service.BuildPreview(w.Snapshot()))
}

// ReportHTML returns the email fragment for the draft
func (h *VisitHandler) ReportHTML(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	html := service.RenderEmailHTML(w.Snapshot())
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// ReportPDF returns the paginated document artifact for the draft
func (h *VisitHandler) ReportPDF(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	pdf, err := service.GeneratePDF(w.Snapshot())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF: " + err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="visit-report-`+w.ID()+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}

// CopyToClipboard places the rendered report on the system clipboard
func (h *VisitHandler) CopyToClipboard(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	h.dispatcher.CopyToClipboard(c.Request.Context(), w.Snapshot())
	c.JSON(http.StatusOK, gin.H{"message": "Report copied to clipboard"})
}

type sendRequest struct {
	Recipient string `json:"recipient"`
}

// Send prepares the mail handoff: clipboard placement plus a pre-filled
// mailto URL, updating the supplier's stored email when it changed
func (h *VisitHandler) Send(c *gin.Context) {
	w := h.wizard(c)
	if w == nil {
		return
	}
	var req sendRequest
	if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}
	handoff := h.dispatcher.PrepareMail(c.Request.Context(), w.Snapshot(), req.Recipient)
	if handoff.To == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No recipient email available"})
		return
	}
	c.JSON(http.StatusOK, handoff)
}
