package service

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/Aravindkumar2195/mom-app/pkg/logger"
	"github.com/atotto/clipboard"
)

// ClipboardPayload is one atomic clipboard write: the styled fragment plus a
// plain-text fallback for targets that cannot take markup
type ClipboardPayload struct {
	HTML string
	Text string
}

// Clipboard abstracts the system clipboard so tests can capture writes
type Clipboard interface {
	Write(payload ClipboardPayload) error
}

// SystemClipboard writes to the OS clipboard
type SystemClipboard struct{}

// Write places the payload's HTML form on the clipboard. The platform API
// takes one representation only, so text-only paste targets receive the
// markup source rather than payload.Text.
func (SystemClipboard) Write(payload ClipboardPayload) error {
	return clipboard.WriteAll(payload.HTML)
}

// MailHandoff is a pre-filled mail-composer handoff. The report itself
// travels via the clipboard; the body tells the recipient to paste it.
type MailHandoff struct {
	To        string `json:"to"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
	MailtoURL string `json:"mailto_url"`
}

const mailBody = "Please find the visit report pasted below (or attached).\n\n[PASTE REPORT HERE]\n\nRegards,"

// Dispatcher routes a rendered report to one of the three distribution
// sinks: file artifact, clipboard, or mail handoff
type Dispatcher struct {
	suppliers *SupplierStore
	clipboard Clipboard
}

func NewDispatcher(suppliers *SupplierStore, cb Clipboard) *Dispatcher {
	if cb == nil {
		cb = SystemClipboard{}
	}
	return &Dispatcher{suppliers: suppliers, clipboard: cb}
}

// ExportPDF produces the downloadable document file from the paginated layout
func (d *Dispatcher) ExportPDF(in ReportInput) ([]byte, error) {
	return GeneratePDF(in)
}

// BuildPayload renders the transmission fragment and its plain-text fallback
func (d *Dispatcher) BuildPayload(in ReportInput) ClipboardPayload {
	text := fmt.Sprintf("Visit Report for %s\nDate: %s\n\nSummary:\n%s\n\n(See HTML attachment/paste for full table)",
		in.Supplier.Name, in.Date, in.ExecutiveSummary)
	return ClipboardPayload{
		HTML: RenderEmailHTML(in),
		Text: text,
	}
}

// CopyToClipboard places the rendered report on the system clipboard.
// Failure is logged, never surfaced: the user can retry or pick another sink.
func (d *Dispatcher) CopyToClipboard(ctx context.Context, in ReportInput) {
	payload := d.BuildPayload(in)
	if err := d.clipboard.Write(payload); err != nil {
		logger.Error(ctx, "clipboard write failed", "error", err)
		return
	}
	logger.Debug(ctx, "report copied to clipboard", "supplier", in.Supplier.Name)
}

// PrepareMail resolves the recipient (defaulting to the supplier's stored
// email), performs the clipboard placement, and returns a pre-filled mailto
// handoff. A recipient differing from the stored address updates the
// supplier record before send. With no resolvable recipient the handoff is
// empty and the clipboard is left untouched.
func (d *Dispatcher) PrepareMail(ctx context.Context, in ReportInput, recipient string) MailHandoff {
	supplier := in.Supplier

	if recipient == "" {
		recipient = supplier.Email
	}
	if recipient == "" {
		return MailHandoff{}
	}
	if recipient != supplier.Email && supplier.ID != "" {
		if stored := d.suppliers.Get(supplier.ID); stored != nil {
			stored.Email = recipient
			d.suppliers.Upsert(stored)
			logger.Info(ctx, "supplier email updated", "supplier_id", supplier.ID)
		}
	}

	d.CopyToClipboard(ctx, in)

	subject := fmt.Sprintf("Visit Report: %s - %s", supplier.Name, in.Date)
	return MailHandoff{
		To:        recipient,
		Subject:   subject,
		Body:      mailBody,
		MailtoURL: fmt.Sprintf("mailto:%s?subject=%s&body=%s", recipient, escapeMailtoParam(subject), escapeMailtoParam(mailBody)),
	}
}

// escapeMailtoParam escapes a mailto query parameter; spaces must become
// %20, not '+'
func escapeMailtoParam(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
