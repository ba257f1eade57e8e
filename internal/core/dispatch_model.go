package core

import (
	"github.com/shopspring/decimal"
)

// Flow selects which confirmation path a workflow instance uses. It is fixed at
// construction and never switched mid-flow: the two paths target different
// permission sets and different backend side effects (invoicing and journal
// postings on the sales path, goods issue only on the factory path).
type Flow string

const (
	FlowSales   Flow = "sales"
	FlowFactory Flow = "factory"
)

// DispatchLineForm is the per-line editable overlay on top of a packaging slip
// line. ShipQuantity is what the user proposes to ship now; the pointer fields
// are commercial overrides where nil means "let the backend apply its default",
// deliberately distinct from an explicit zero (a 0 discount is not "standard
// discount").
type DispatchLineForm struct {
	LineID          int64
	ProductCode     string
	ProductName     string
	BatchCode       string
	OrderedQuantity decimal.Decimal
	ShipQuantity    decimal.Decimal
	UnitPrice       *decimal.Decimal
	Discount        *decimal.Decimal
	TaxRate         *decimal.Decimal
	TaxInclusive    *bool
}

// DispatchLineChange is a partial update to one DispatchLineForm. Nil fields
// leave the current value untouched.
type DispatchLineChange struct {
	ShipQuantity *decimal.Decimal
	UnitPrice    *decimal.Decimal
	Discount     *decimal.Decimal
	TaxRate      *decimal.Decimal
	TaxInclusive *bool
}

// DispatchRequest is the tagged union of the two confirmation payloads. The
// variant is chosen once when the workflow is constructed; the marker method
// keeps the two field sets from ever being merged into one struct.
type DispatchRequest interface {
	dispatchRequest()
}

// SalesDispatchRequest is the sales-flow confirmation payload. Lines carry the
// commercial overrides; AdminOverrideCreditLimit asks the backend to bypass a
// credit-limit block (the backend alone decides whether the caller may).
type SalesDispatchRequest struct {
	PackingSlipID            int64               `json:"packingSlipId"`
	SalesOrderID             int64               `json:"salesOrderId,omitempty"`
	Lines                    []SalesDispatchLine `json:"lines"`
	AdminOverrideCreditLimit bool                `json:"adminOverrideCreditLimit,omitempty"`
}

func (SalesDispatchRequest) dispatchRequest() {}

// SalesDispatchLine is one confirmed line in a sales-flow request. Omitted
// pointer fields are dropped from the wire payload entirely.
type SalesDispatchLine struct {
	LineID       int64            `json:"lineId"`
	Quantity     decimal.Decimal  `json:"qty"`
	UnitPrice    *decimal.Decimal `json:"rate,omitempty"`
	Discount     *decimal.Decimal `json:"discount,omitempty"`
	TaxRate      *decimal.Decimal `json:"taxRate,omitempty"`
	TaxInclusive *bool            `json:"taxInclusive,omitempty"`
}

// FactoryDispatchRequest is the factory-flow confirmation payload. It has no
// commercial fields at all: factory users do not set pricing, and the type
// system keeps it that way.
type FactoryDispatchRequest struct {
	PackagingSlipID int64                 `json:"packagingSlipId"`
	Lines           []FactoryDispatchLine `json:"lines"`
	ConfirmedBy     string                `json:"confirmedBy"`
}

func (FactoryDispatchRequest) dispatchRequest() {}

// FactoryDispatchLine is one confirmed line in a factory-flow request.
type FactoryDispatchLine struct {
	LineID          int64           `json:"lineId"`
	ShippedQuantity decimal.Decimal `json:"shippedQuantity"`
}

// cloneDispatchLineForm returns a copy whose override pointers do not alias
// the original, so handing a form out never exposes internal state to edits.
func cloneDispatchLineForm(f DispatchLineForm) DispatchLineForm {
	if f.UnitPrice != nil {
		v := *f.UnitPrice
		f.UnitPrice = &v
	}
	if f.Discount != nil {
		v := *f.Discount
		f.Discount = &v
	}
	if f.TaxRate != nil {
		v := *f.TaxRate
		f.TaxRate = &v
	}
	if f.TaxInclusive != nil {
		v := *f.TaxInclusive
		f.TaxInclusive = &v
	}
	return f
}

// BuildSalesDispatchRequest assembles the sales payload from already-filtered
// lines. salesOrderID is forwarded only when the workflow was opened from an
// order reference (zero omits it).
func BuildSalesDispatchRequest(slipID, salesOrderID int64, lines []DispatchLineForm, overrideCreditLimit bool) SalesDispatchRequest {
	req := SalesDispatchRequest{
		PackingSlipID:            slipID,
		SalesOrderID:             salesOrderID,
		Lines:                    make([]SalesDispatchLine, 0, len(lines)),
		AdminOverrideCreditLimit: overrideCreditLimit,
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, SalesDispatchLine{
			LineID:       l.LineID,
			Quantity:     l.ShipQuantity,
			UnitPrice:    l.UnitPrice,
			Discount:     l.Discount,
			TaxRate:      l.TaxRate,
			TaxInclusive: l.TaxInclusive,
		})
	}
	return req
}

// BuildFactoryDispatchRequest assembles the factory payload from
// already-filtered lines. Any commercial overrides on the forms are discarded;
// they have no place on this flow.
func BuildFactoryDispatchRequest(slipID int64, lines []DispatchLineForm, confirmedBy string) FactoryDispatchRequest {
	req := FactoryDispatchRequest{
		PackagingSlipID: slipID,
		Lines:           make([]FactoryDispatchLine, 0, len(lines)),
		ConfirmedBy:     confirmedBy,
	}
	for _, l := range lines {
		req.Lines = append(req.Lines, FactoryDispatchLine{
			LineID:          l.LineID,
			ShippedQuantity: l.ShipQuantity,
		})
	}
	return req
}
