package core

import (
	"github.com/shopspring/decimal"
)

// SlipStatus is the lifecycle state of a packaging slip. The set of values is
// owned by the backend and open-ended: new statuses may appear without a client
// release, so unknown values must render neutrally instead of failing.
type SlipStatus string

const (
	SlipPending           SlipStatus = "PENDING"
	SlipReserved          SlipStatus = "RESERVED"
	SlipPendingProduction SlipStatus = "PENDING_PRODUCTION"
	SlipPendingStock      SlipStatus = "PENDING_STOCK"
	SlipPartial           SlipStatus = "PARTIAL"
	SlipDispatched        SlipStatus = "DISPATCHED"
	SlipCancelled         SlipStatus = "CANCELLED"
)

var slipStatusLabels = map[SlipStatus]string{
	SlipPending:           "Pending",
	SlipReserved:          "Reserved",
	SlipPendingProduction: "Awaiting production",
	SlipPendingStock:      "Awaiting stock",
	SlipPartial:           "Partially dispatched",
	SlipDispatched:        "Dispatched",
	SlipCancelled:         "Cancelled",
}

// Known reports whether the status is one the client has display rules for.
func (s SlipStatus) Known() bool {
	_, ok := slipStatusLabels[s]
	return ok
}

// Label returns a human-readable form of the status. Unknown values are passed
// through unchanged so the UI shows whatever the backend introduced.
func (s SlipStatus) Label() string {
	if label, ok := slipStatusLabels[s]; ok {
		return label
	}
	return string(s)
}

// PackagingSlip is goods reserved and prepared for shipment against exactly one
// sales order. It may be fetched by its own ID or via its owning order; both
// routes return an equivalent view.
type PackagingSlip struct {
	ID           int64               `json:"id"`
	SlipNumber   string              `json:"slipNumber,omitempty"`
	SalesOrderID int64               `json:"salesOrderId"`
	OrderNumber  string              `json:"orderNumber"`
	DealerName   string              `json:"dealerName"`
	Status       SlipStatus          `json:"status"`
	Lines        []PackagingSlipLine `json:"lines"`
}

// PackagingSlipLine is one product line on a packaging slip. OrderedQuantity is
// the immutable baseline; ShippedQuantity and BackorderQuantity are authoritative
// backend values after each confirmation; the client never derives backorder.
type PackagingSlipLine struct {
	ID                int64           `json:"id"`
	ProductCode       string          `json:"productCode"`
	ProductName       string          `json:"productName"`
	BatchCode         string          `json:"batchCode,omitempty"`
	OrderedQuantity   decimal.Decimal `json:"orderedQuantity"`
	ShippedQuantity   decimal.Decimal `json:"shippedQuantity"`
	BackorderQuantity decimal.Decimal `json:"backorderQuantity"`
	UnitCost          decimal.Decimal `json:"unitCost"`
}

// Invoice is the read model of a sales invoice created by dispatch confirmation.
type Invoice struct {
	ID            int64           `json:"id"`
	SalesOrderID  int64           `json:"salesOrderId"`
	InvoiceNumber string          `json:"invoiceNumber"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
}

// COGSEntry summarizes one cost-of-goods-sold posting made by the backend as
// part of a dispatch confirmation.
type COGSEntry struct {
	JournalEntryID int64           `json:"journalEntryId"`
	ProductCode    string          `json:"productCode"`
	Quantity       decimal.Decimal `json:"quantity"`
	Amount         decimal.Decimal `json:"amount"`
}

// DispatchConfirmResponse is the backend's reply to a sales-flow confirmation.
// FinalInvoiceID is zero when no invoice was generated (e.g. a partial shipment
// under a policy that defers invoicing).
type DispatchConfirmResponse struct {
	PackingSlipID    int64       `json:"packingSlipId"`
	SalesOrderID     int64       `json:"salesOrderId"`
	FinalInvoiceID   int64       `json:"finalInvoiceId,omitempty"`
	ARJournalEntryID int64       `json:"arJournalEntryId,omitempty"`
	COGSEntries      []COGSEntry `json:"cogsEntries,omitempty"`
	Dispatched       bool        `json:"dispatched"`
}

// FactoryDispatchResponse is the backend's reply to a factory-flow confirmation.
// The factory flow never produces commercial artifacts, so there is nothing
// beyond the goods-issue acknowledgement.
type FactoryDispatchResponse struct {
	PackagingSlipID int64 `json:"packagingSlipId"`
	Dispatched      bool  `json:"dispatched"`
}
