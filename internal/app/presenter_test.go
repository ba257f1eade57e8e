package app_test

import (
	"fmt"
	"strings"
	"testing"

	"dispatch-console/internal/app"
	"dispatch-console/internal/core"

	"github.com/shopspring/decimal"
)

func pdfURL(id int64) string {
	return fmt.Sprintf("https://erp.example.com/api/invoices/%d/pdf", id)
}

func TestRenderSuccess_SalesWithInvoiceAndEmail(t *testing.T) {
	out := &core.DispatchOutcome{
		Flow:          core.FlowSales,
		PackingSlipID: 301,
		SalesOrderID:  42,
		Dispatched:    true,
		InvoiceID:     77,
		InvoiceNumber: "INV-0099",
		EmailSent:     true,
		InvoiceLookup: core.StageOutcome{Status: core.StageOK},
		EmailSend:     core.StageOutcome{Status: core.StageOK},
	}
	s := app.RenderSuccess(out, pdfURL)
	for _, want := range []string{"#301", "#42", "INV-0099", "emailed", "/api/invoices/77/pdf"} {
		if !strings.Contains(s, want) {
			t.Errorf("summary missing %q:\n%s", want, s)
		}
	}
}

func TestRenderSuccess_DegradedSummaryOmitsWhatFailed(t *testing.T) {
	out := &core.DispatchOutcome{
		Flow:          core.FlowSales,
		PackingSlipID: 301,
		SalesOrderID:  42,
		Dispatched:    true,
		InvoiceLookup: core.StageOutcome{Status: core.StageFailed, Reason: "invoice service unavailable"},
		EmailSend:     core.StageOutcome{Status: core.StageSkipped, Reason: "invoice lookup did not complete"},
	}
	s := app.RenderSuccess(out, pdfURL)
	if strings.Contains(s, "Invoice INV") || strings.Contains(s, "emailed") {
		t.Errorf("degraded summary claims artifacts that do not exist:\n%s", s)
	}
	if strings.Contains(s, "/pdf") {
		t.Errorf("download offered without an invoice:\n%s", s)
	}
	if !strings.Contains(s, "Dispatch confirmed") {
		t.Errorf("dispatch success itself must still be reported:\n%s", s)
	}
}

func TestRenderSuccess_FactoryFlowShowsNoCommercialArtifacts(t *testing.T) {
	out := &core.DispatchOutcome{
		Flow:          core.FlowFactory,
		PackingSlipID: 401,
		Dispatched:    true,
	}
	s := app.RenderSuccess(out, pdfURL)
	if strings.Contains(s, "Invoice ") || strings.Contains(s, "/pdf") || strings.Contains(s, "emailed") {
		t.Errorf("factory summary mentions commercial artifacts:\n%s", s)
	}
	if !strings.Contains(s, "no invoice") {
		t.Errorf("factory summary should say no invoice was generated:\n%s", s)
	}
}

func TestRenderFailure_KeepsBackendWording(t *testing.T) {
	s := app.RenderFailure("Credit limit exceeded for dealer Acme Distribution")
	if !strings.Contains(s, "Credit limit exceeded for dealer Acme Distribution") {
		t.Errorf("backend message altered:\n%s", s)
	}
	if !strings.Contains(s, "preserved") {
		t.Errorf("failure text should tell the user their entries survive:\n%s", s)
	}
}

func TestRenderSlip_ListsLinesWithBatches(t *testing.T) {
	slip := &core.PackagingSlip{
		ID:          301,
		SlipNumber:  "PS-0301",
		OrderNumber: "SO-0042",
		DealerName:  "Acme Distribution",
		Status:      core.SlipStatus("AWAITING_QC"), // unknown status renders neutrally
	}
	lines := []core.DispatchLineForm{
		{LineID: 1001, ProductCode: "WIDGET", ProductName: "Widget", BatchCode: "B-77",
			OrderedQuantity: decimal.NewFromInt(10), ShipQuantity: decimal.NewFromInt(10)},
	}
	s := app.RenderSlip(slip, lines)
	for _, want := range []string{"PS-0301", "SO-0042", "Acme Distribution", "AWAITING_QC", "WIDGET", "B-77"} {
		if !strings.Contains(s, want) {
			t.Errorf("slip rendering missing %q:\n%s", want, s)
		}
	}
}
