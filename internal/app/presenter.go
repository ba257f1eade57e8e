// Package app renders terminal workflow state for UI adapters. It contains no
// business logic: everything here is a pure function of a finished workflow.
package app

import (
	"fmt"
	"strings"

	"dispatch-console/internal/core"
)

// PDFURLFunc builds the invoice download URL; the download action is offered
// only when an invoice actually exists.
type PDFURLFunc func(invoiceID int64) string

// RenderSlip formats the resolved slip header and its editable lines for
// display before confirmation.
func RenderSlip(slip *core.PackagingSlip, lines []core.DispatchLineForm) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Packaging slip #%d", slip.ID)
	if slip.SlipNumber != "" {
		fmt.Fprintf(&b, " (%s)", slip.SlipNumber)
	}
	fmt.Fprintf(&b, " / order %s / %s / %s\n", slip.OrderNumber, slip.DealerName, slip.Status.Label())
	for i, l := range lines {
		fmt.Fprintf(&b, "  [%d] %s %s", i+1, l.ProductCode, l.ProductName)
		if l.BatchCode != "" {
			fmt.Fprintf(&b, " (batch %s)", l.BatchCode)
		}
		fmt.Fprintf(&b, "  ordered %s, shipping %s\n", l.OrderedQuantity, l.ShipQuantity)
	}
	return b.String()
}

// RenderSuccess formats the terminal success summary. The invoice number and
// the email confirmation appear only when those stages actually succeeded; the
// download hint only when an invoice exists.
func RenderSuccess(out *core.DispatchOutcome, pdfURL PDFURLFunc) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dispatch confirmed for packaging slip #%d", out.PackingSlipID)
	if out.SalesOrderID > 0 {
		fmt.Fprintf(&b, " (order #%d)", out.SalesOrderID)
	}
	b.WriteString("\n")

	if out.Flow == core.FlowFactory {
		b.WriteString("Goods issued by factory confirmation; no invoice generated.\n")
		return b.String()
	}

	if out.InvoiceNumber != "" {
		fmt.Fprintf(&b, "Invoice %s created.\n", out.InvoiceNumber)
	}
	if out.EmailSent {
		b.WriteString("Invoice emailed to the dealer.\n")
	}
	if out.InvoiceID > 0 && pdfURL != nil {
		fmt.Fprintf(&b, "Download: %s\n", pdfURL(out.InvoiceID))
	}
	if out.InvoiceLookup.Status == core.StageFailed {
		b.WriteString("Invoice details are not available yet; find the invoice from the order screen.\n")
	}
	return b.String()
}

// RenderFailure formats a confirmation failure. The message is the backend's
// own wording; the caller's line edits are intact and the attempt may simply
// be re-invoked.
func RenderFailure(message string) string {
	return fmt.Sprintf("Dispatch failed: %s\nYour entries are preserved; adjust if needed and confirm again.\n", message)
}

// RenderNoSlip formats the recoverable no-slip condition with its remediation,
// kept distinct from a generic failure.
func RenderNoSlip() string {
	return "No packaging slip exists for this order yet. Reserve stock first, then dispatch.\n"
}
