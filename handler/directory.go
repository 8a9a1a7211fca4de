package handler

import (
	"net/http"

	"github.com/Aravindkumar2195/mom-app/service"
	"github.com/gin-gonic/gin"
)

// DirectoryHandler serves the supplier list and the finalized record history
type DirectoryHandler struct {
	suppliers *service.SupplierStore
	records   *service.RecordStore
}

func NewDirectoryHandler(suppliers *service.SupplierStore, records *service.RecordStore) *DirectoryHandler {
	return &DirectoryHandler{suppliers: suppliers, records: records}
}

// ListSuppliers returns all suppliers ordered by name
func (h *DirectoryHandler) ListSuppliers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"suppliers": h.suppliers.List()})
}

// ListRecords returns all finalized records, newest visit first
func (h *DirectoryHandler) ListRecords(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"records": h.records.List()})
}

// GetRecord returns a single finalized record
func (h *DirectoryHandler) GetRecord(c *gin.Context) {
	record := h.records.Get(c.Param("id"))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	c.JSON(http.StatusOK, record)
}

// RecordReportHTML renders a finalized record as the email fragment
func (h *DirectoryHandler) RecordReportHTML(c *gin.Context) {
	record := h.records.Get(c.Param("id"))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	html := service.RenderEmailHTML(service.InputFromRecord(record))
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
}

// RecordReportPDF renders a finalized record as the paginated PDF artifact
func (h *DirectoryHandler) RecordReportPDF(c *gin.Context) {
	record := h.records.Get(c.Param("id"))
	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Record not found"})
		return
	}
	pdf, err := service.GeneratePDF(service.InputFromRecord(record))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF: " + err.Error()})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="visit-report-`+record.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", pdf)
}
