package service

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"strings"
	"time"

	"github.com/Aravindkumar2195/mom-app/model"
	"github.com/go-pdf/fpdf"
)

// GeneratePDF lays the report out as a paginated document. It carries the
// same content as the email fragment but embeds evidence images, and uses
// "N/A" for a missing responsibility where the email fragment uses "-".
func GeneratePDF(in ReportInput) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	// Fixed metadata timestamps and sorted object catalogs keep identical
	// input producing identical bytes
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetModificationDate(time.Unix(0, 0).UTC())
	pdf.SetAutoPageBreak(true, 20)
	pdf.AddPage()

	// Header
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetTextColor(15, 23, 42)
	pdf.CellFormat(0, 10, "Visit Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 6, "Minutes of Meeting", "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(0, 6, fmt.Sprintf("Supplier: %s (%s)", in.Supplier.Name, in.Supplier.Code), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+in.Date, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(15, 23, 42)
	pdf.SetLineWidth(0.6)
	pdf.Line(10, pdf.GetY()+2, 200, pdf.GetY()+2)
	pdf.Ln(8)

	// Executive summary
	if in.ExecutiveSummary != "" {
		sectionHeading(pdf, "Executive Summary")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(30, 41, 59)
		pdf.MultiCell(0, 5, in.ExecutiveSummary, "", "L", false)
		pdf.Ln(6)
	}

	// Participants
	sectionHeading(pdf, "Participants")
	writeTeam(pdf, "Customer Team", filterByType(in.Participants, model.TypeCustomer))
	writeTeam(pdf, "Supplier Team", filterByType(in.Participants, model.TypeSupplier))
	pdf.Ln(4)

	// Observations
	sectionHeading(pdf, "Detailed Observations")
	for i, o := range in.Observations {
		writeObservation(pdf, i+1, o)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return buf.Bytes(), nil
}

func sectionHeading(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(29, 78, 216)
	pdf.CellFormat(0, 7, strings.ToUpper(title), "B", 1, "L", false, 0, "")
	pdf.Ln(2)
}

func filterByType(ps []model.Participant, t model.ParticipantType) []model.Participant {
	var out []model.Participant
	for _, p := range ps {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

func writeTeam(pdf *fpdf.Fpdf, title string, team []model.Participant) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, title, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 41, 59)
	for _, p := range team {
		line := p.Name
		if p.Designation != "" {
			line += " (" + p.Designation + ")"
		}
		pdf.CellFormat(0, 5, "- "+line, "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)
}

func writeObservation(pdf *fpdf.Fpdf, number int, o model.Observation) {
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetTextColor(30, 41, 59)
	pdf.CellFormat(150, 6, fmt.Sprintf("%d. %s", number, o.Category), "", 0, "L", false, 0, "")

	// Two fixed status styles, chosen only by the OPEN/CLOSED value
	if o.Status == model.StatusOpen {
		pdf.SetTextColor(239, 68, 68)
	} else {
		pdf.SetTextColor(22, 163, 74)
	}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 6, o.Status, "", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(51, 65, 85)
	pdf.MultiCell(0, 5, DisplayText(o), "", "L", false)

	responsibility := o.Responsibility
	if responsibility == "" {
		responsibility = fallbackRespPrint
	}
	target := o.TargetDate
	if target == "" {
		target = fallbackTarget
	}
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetTextColor(100, 116, 139)
	pdf.CellFormat(0, 5, fmt.Sprintf("Resp: %s    Target: %s", responsibility, target), "", 1, "L", false, 0, "")

	if o.PhotoDataURL != "" {
		embedEvidence(pdf, o)
	}
	pdf.Ln(4)
}

// embedEvidence draws the observation's photo below its text. An undecodable
// payload is skipped; evidence problems never fail the whole export.
func embedEvidence(pdf *fpdf.Fpdf, o model.Observation) {
	payload, ok := splitDataURL(o.PhotoDataURL)
	if !ok {
		return
	}
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return
	}

	imageType := "JPG"
	if strings.HasPrefix(o.PhotoDataURL, "data:image/png") {
		imageType = "PNG"
	}

	name := "evidence-" + o.ID
	opts := fpdf.ImageOptions{ImageType: imageType, ReadDpi: true}
	pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(raw))
	if pdf.Err() {
		// Drop the broken image registration so the rest of the page renders
		pdf.ClearError()
		return
	}
	pdf.ImageOptions(name, pdf.GetX()+2, pdf.GetY()+1, 60, 0, true, opts, 0, "")
}
