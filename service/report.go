package service

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/Aravindkumar2195/mom-app/model"
)

// Fallback literals for missing remediation fields. The print artifact and
// the email fragment deliberately differ.
const (
	fallbackTarget       = "Immediate"
	fallbackRespPrint    = "N/A"
	fallbackRespEmail    = "-"
	emptyTeamPlaceholder = "No participants listed"
)

// ReportInput is the record-like snapshot all render functions consume.
// Rendering is pure: the same input always yields byte-identical output.
type ReportInput struct {
	Date             string
	Supplier         model.Supplier
	Participants     []model.Participant
	Observations     []model.Observation
	ExecutiveSummary string
	SummaryState     SummaryState
}

// InputFromRecord builds a render snapshot from a finalized record
func InputFromRecord(r *model.MeetingRecord) ReportInput {
	return ReportInput{
		Date: r.Date,
		Supplier: model.Supplier{
			ID:   r.SupplierID,
			Name: r.SupplierName,
			Code: r.SupplierCode,
		},
		Participants:     model.CloneParticipants(r.Participants),
		Observations:     model.CloneObservations(r.Observations),
		ExecutiveSummary: r.ExecutiveSummary,
		SummaryState:     SummaryReady,
	}
}

// DisplayText returns the polished description when present, else the raw one
func DisplayText(o model.Observation) string {
	if o.PolishedDescription != "" {
		return o.PolishedDescription
	}
	return o.Description
}

// PreviewObservation is one numbered entry of the on-screen preview
type PreviewObservation struct {
	Number         int    `json:"number"`
	Category       string `json:"category"`
	Text           string `json:"text"`
	Status         string `json:"status"`
	Responsibility string `json:"responsibility"`
	TargetDate     string `json:"target_date"`
	PhotoDataURL   string `json:"photo_data_url,omitempty"`
}

// Preview is the structured on-screen representation of a draft or record
type Preview struct {
	Date             string               `json:"date"`
	SupplierName     string               `json:"supplier_name"`
	SupplierCode     string               `json:"supplier_code"`
	ExecutiveSummary string               `json:"executive_summary"`
	SummaryPending   bool                 `json:"summary_pending"`
	CustomerTeam     []model.Participant  `json:"customer_team"`
	SupplierTeam     []model.Participant  `json:"supplier_team"`
	Observations     []PreviewObservation `json:"observations"`
}

// BuildPreview groups participants by side and numbers observations in array
// order. The executive summary stays editable plain text.
func BuildPreview(in ReportInput) Preview {
	p := Preview{
		Date:             in.Date,
		SupplierName:     in.Supplier.Name,
		SupplierCode:     in.Supplier.Code,
		ExecutiveSummary: in.ExecutiveSummary,
		SummaryPending:   in.SummaryState == SummaryPending,
		CustomerTeam:     []model.Participant{},
		SupplierTeam:     []model.Participant{},
		Observations:     []PreviewObservation{},
	}

	for _, part := range in.Participants {
		if part.Type == model.TypeCustomer {
			p.CustomerTeam = append(p.CustomerTeam, part)
		} else {
			p.SupplierTeam = append(p.SupplierTeam, part)
		}
	}

	for i, o := range in.Observations {
		responsibility := o.Responsibility
		if responsibility == "" {
			responsibility = fallbackRespPrint
		}
		target := o.TargetDate
		if target == "" {
			target = fallbackTarget
		}
		p.Observations = append(p.Observations, PreviewObservation{
			Number:         i + 1,
			Category:       o.Category,
			Text:           DisplayText(o),
			Status:         o.Status,
			Responsibility: responsibility,
			TargetDate:     target,
			PhotoDataURL:   o.PhotoDataURL,
		})
	}
	return p
}

// emailRow is one observation row of the email fragment, with its visual
// styling resolved up front so the template stays declarative
type emailRow struct {
	RowBG          string
	Category       string
	Text           string
	HasPhoto       bool
	Responsibility string
	Target         string
	Status         string
	BadgeBG        string
	BadgeColor     string
	BadgeBorder    string
}

type emailTeamMember struct {
	Name        string
	Designation string
}

type emailData struct {
	Date         string
	SupplierName string
	SupplierCode string
	Location     string
	SummaryHTML  template.HTML
	CustomerTeam []emailTeamMember
	SupplierTeam []emailTeamMember
	Placeholder  string
	Rows         []emailRow
}

// RenderEmailHTML renders the self-contained corporate HTML fragment used
// for clipboard and email distribution. Photo evidence is flagged, never
// inlined; an empty executive summary omits the whole section.
func RenderEmailHTML(in ReportInput) string {
	data := emailData{
		Date:         in.Date,
		SupplierName: in.Supplier.Name,
		SupplierCode: in.Supplier.Code,
		Location:     in.Supplier.Location,
		SummaryHTML:  summaryToHTML(in.ExecutiveSummary),
		Placeholder:  emptyTeamPlaceholder,
	}

	for _, p := range in.Participants {
		m := emailTeamMember{Name: p.Name, Designation: p.Designation}
		if p.Type == model.TypeCustomer {
			data.CustomerTeam = append(data.CustomerTeam, m)
		} else {
			data.SupplierTeam = append(data.SupplierTeam, m)
		}
	}

	for i, o := range in.Observations {
		row := emailRow{
			RowBG:          "#ffffff",
			Category:       o.Category,
			Text:           DisplayText(o),
			HasPhoto:       o.PhotoDataURL != "",
			Responsibility: o.Responsibility,
			Target:         o.TargetDate,
			Status:         o.Status,
			BadgeBG:        "#f0fdf4",
			BadgeColor:     "#16a34a",
			BadgeBorder:    "#bbf7d0",
		}
		if i%2 == 1 {
			row.RowBG = "#f8fafc"
		}
		if o.Status == model.StatusOpen {
			row.BadgeBG = "#fef2f2"
			row.BadgeColor = "#ef4444"
			row.BadgeBorder = "#fecaca"
		}
		if row.Responsibility == "" {
			row.Responsibility = fallbackRespEmail
		}
		if row.Target == "" {
			row.Target = fallbackTarget
		}
		data.Rows = append(data.Rows, row)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, data); err != nil {
		// The template only touches fields of the prepared view data, so
		// execution cannot fail at runtime; keep the error visible anyway.
		return fmt.Sprintf("<!-- render error: %v -->", err)
	}
	return buf.String()
}

// summaryToHTML escapes the summary and turns newlines into line breaks.
// Empty input returns "" so the template can drop the section.
func summaryToHTML(summary string) template.HTML {
	if summary == "" {
		return ""
	}
	lines := strings.Split(summary, "\n")
	for i, line := range lines {
		lines[i] = template.HTMLEscapeString(line)
	}
	return template.HTML(strings.Join(lines, "<br/>"))
}

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1.0">
  <style>
      body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, Helvetica, Arial, sans-serif; line-height: 1.5; margin: 0; padding: 0; }
  </style>
</head>
<body style="margin: 0; padding: 0; background-color: #f1f5f9; color: #1e293b;">
  <div style="max-width: 800px; margin: 0 auto; background-color: #ffffff; font-family: sans-serif;">

    <div style="height: 6px; background: linear-gradient(90deg, #0f172a 0%, #2563eb 100%);"></div>

    <div style="padding: 40px 40px 30px 40px; background-color: white;">
      <table style="width: 100%; border-collapse: collapse;">
          <tr>
              <td style="vertical-align: top;">
                  <h1 style="margin: 0; font-size: 28px; font-weight: 800; color: #0f172a; line-height: 1.2;">Minutes of Meeting</h1>
                  <p style="margin: 8px 0 0 0; font-size: 15px; color: #64748b; font-weight: 500;">Supplier Visit Report</p>
              </td>
              <td style="vertical-align: top; text-align: right;">
                  <div style="display: inline-block; padding: 8px 16px; background-color: #f1f5f9; border-radius: 6px; text-align: left;">
                      <div style="font-size: 11px; text-transform: uppercase; color: #64748b; font-weight: 700; margin-bottom: 2px;">Date</div>
                      <div style="font-size: 16px; font-weight: 600; color: #1e293b;">{{.Date}}</div>
                  </div>
              </td>
          </tr>
      </table>
    </div>

    <div style="padding: 0 40px 30px 40px;">
      <div style="background-color: #f8fafc; border: 1px solid #e2e8f0; border-radius: 8px; padding: 20px;">
          <table style="width: 100%; border-collapse: collapse;">
              <tr>
                  <td style="vertical-align: top;">
                      <div style="font-size: 11px; text-transform: uppercase; color: #64748b; font-weight: 700; margin-bottom: 4px;">Supplier Name</div>
                      <div style="font-size: 18px; font-weight: 700; color: #0f172a;">{{.SupplierName}}</div>
                  </td>
                  <td style="vertical-align: top;">
                      <div style="font-size: 11px; text-transform: uppercase; color: #64748b; font-weight: 700; margin-bottom: 4px;">Supplier Code</div>
                      <div style="font-size: 15px; font-weight: 500; color: #1e293b;">{{.SupplierCode}}</div>
                  </td>
                  <td style="vertical-align: top;">
                      <div style="font-size: 11px; text-transform: uppercase; color: #64748b; font-weight: 700; margin-bottom: 4px;">Location</div>
                      <div style="font-size: 15px; font-weight: 500; color: #1e293b;">{{.Location}}</div>
                  </td>
              </tr>
          </table>
      </div>
    </div>

    <div style="padding: 0 40px 40px 40px;">
{{if .SummaryHTML}}
      <div style="margin-bottom: 40px;">
        <h3 style="font-size: 14px; text-transform: uppercase; color: #0f172a; font-weight: 800; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px; margin-top: 0; margin-bottom: 16px;">Executive Summary</h3>
        <div style="background-color: #ffffff; border-left: 4px solid #2563eb; padding: 4px 0 4px 16px; font-size: 15px; line-height: 1.7; color: #1e293b;">
          {{.SummaryHTML}}
        </div>
      </div>
{{end}}
      <div style="margin-bottom: 40px;">
        <h3 style="font-size: 14px; text-transform: uppercase; color: #0f172a; font-weight: 800; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px; margin-top: 0; margin-bottom: 16px;">Attendees</h3>
        <table style="width: 100%; border-collapse: collapse;">
          <tr>
              <td style="width: 50%; vertical-align: top; padding-right: 20px;">
                  <div style="background-color: #f1f5f9; padding: 12px 16px; border-radius: 6px 6px 0 0; border-bottom: 1px solid #e2e8f0; font-size: 12px; font-weight: 700; color: #0f172a; text-transform: uppercase;">Customer Team</div>
                  <div style="border: 1px solid #e2e8f0; border-top: none; border-radius: 0 0 6px 6px; padding: 16px;">
{{if .CustomerTeam}}                      <ul style="list-style: none; padding: 0; margin: 0;">
{{range .CustomerTeam}}                          <li style="margin-bottom: 8px; font-size: 14px; color: #1e293b;"><strong style="display: block; color: #1e293b;">{{.Name}}</strong><span style="display: block; font-size: 12px; color: #64748b; margin-top: 2px;">{{.Designation}}</span></li>
{{end}}                      </ul>
{{else}}                      <div style="font-style: italic; color: #94a3b8; font-size: 13px;">{{.Placeholder}}</div>
{{end}}                  </div>
              </td>
              <td style="width: 50%; vertical-align: top; padding-left: 20px;">
                  <div style="background-color: #f0fdf4; padding: 12px 16px; border-radius: 6px 6px 0 0; border-bottom: 1px solid #e2e8f0; font-size: 12px; font-weight: 700; color: #15803d; text-transform: uppercase;">Supplier Team</div>
                  <div style="border: 1px solid #e2e8f0; border-top: none; border-radius: 0 0 6px 6px; padding: 16px;">
{{if .SupplierTeam}}                      <ul style="list-style: none; padding: 0; margin: 0;">
{{range .SupplierTeam}}                          <li style="margin-bottom: 8px; font-size: 14px; color: #1e293b;"><strong style="display: block; color: #1e293b;">{{.Name}}</strong><span style="display: block; font-size: 12px; color: #64748b; margin-top: 2px;">{{.Designation}}</span></li>
{{end}}                      </ul>
{{else}}                      <div style="font-style: italic; color: #94a3b8; font-size: 13px;">{{.Placeholder}}</div>
{{end}}                  </div>
              </td>
          </tr>
        </table>
      </div>

      <div>
        <h3 style="font-size: 14px; text-transform: uppercase; color: #0f172a; font-weight: 800; border-bottom: 2px solid #e2e8f0; padding-bottom: 10px; margin-top: 0; margin-bottom: 16px;">Observations &amp; Action Plan</h3>
        <table style="width: 100%; border-collapse: collapse; margin-top: 0; font-size: 14px;">
          <thead>
            <tr style="background-color: #f1f5f9;">
              <th style="text-align: left; padding: 12px; font-size: 11px; font-weight: 700; color: #64748b; text-transform: uppercase; border-top: 1px solid #e2e8f0; border-bottom: 1px solid #e2e8f0;">Category</th>
              <th style="text-align: left; padding: 12px; font-size: 11px; font-weight: 700; color: #64748b; text-transform: uppercase; border-top: 1px solid #e2e8f0; border-bottom: 1px solid #e2e8f0; width: 40%;">Description</th>
              <th style="text-align: left; padding: 12px; font-size: 11px; font-weight: 700; color: #64748b; text-transform: uppercase; border-top: 1px solid #e2e8f0; border-bottom: 1px solid #e2e8f0;">Resp.</th>
              <th style="text-align: left; padding: 12px; font-size: 11px; font-weight: 700; color: #64748b; text-transform: uppercase; border-top: 1px solid #e2e8f0; border-bottom: 1px solid #e2e8f0;">Target</th>
              <th style="text-align: center; padding: 12px; font-size: 11px; font-weight: 700; color: #64748b; text-transform: uppercase; border-top: 1px solid #e2e8f0; border-bottom: 1px solid #e2e8f0;">Status</th>
            </tr>
          </thead>
          <tbody>
{{range .Rows}}            <tr style="background-color: {{.RowBG}}; border-bottom: 1px solid #e2e8f0;">
              <td style="padding: 16px 12px; vertical-align: top; color: #1e293b; font-weight: 600; font-size: 13px; width: 15%;">{{.Category}}</td>
              <td style="padding: 16px 12px; vertical-align: top; color: #1e293b; font-size: 14px; line-height: 1.6;">{{.Text}}{{if .HasPhoto}}<br/><div style="margin-top:8px; padding: 4px 8px; background-color: #eff6ff; border-radius: 4px; display: inline-block; font-size:11px; color: #2563eb; font-weight: 500;">&#128248; Photo Evidence Attached in App</div>{{end}}</td>
              <td style="padding: 16px 12px; vertical-align: top; color: #64748b; font-size: 13px; width: 12%;">{{.Responsibility}}</td>
              <td style="padding: 16px 12px; vertical-align: top; color: #64748b; font-size: 13px; width: 12%; white-space: nowrap;">{{.Target}}</td>
              <td style="padding: 16px 12px; vertical-align: top; text-align:center; width: 10%;"><span style="display:inline-block; padding: 4px 10px; border-radius: 9999px; font-size: 11px; font-weight: 700; text-transform: uppercase; background-color: {{.BadgeBG}}; color: {{.BadgeColor}}; border: 1px solid {{.BadgeBorder}};">{{.Status}}</span></td>
            </tr>
{{end}}          </tbody>
        </table>
      </div>

    </div>

    <div style="background-color: #f1f5f9; padding: 24px 40px; text-align: center; border-top: 1px solid #e2e8f0; color: #64748b; font-size: 12px;">
      <p style="margin: 0 0 8px 0;">Generated by <strong>AutoMoM</strong> &bull; Professional Supplier Visit Recorder</p>
      <p style="margin: 0; opacity: 0.7;">Confidential &bull; For Internal Use Only</p>
    </div>
  </div>
</body>
</html>
`))
