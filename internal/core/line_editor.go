package core

import (
	"errors"
	"fmt"
)

// ErrNoDispatchLines is returned when a confirmation is attempted with every
// line at ship quantity zero. This is the sole client-side business gate; all
// other rules (credit, stock, pricing) are enforced by the backend.
var ErrNoDispatchLines = errors.New("at least one line must have a ship quantity greater than zero")

// SeedDispatchLines maps each slip line to an editable form. The default ship
// quantity prefers an already-recorded partial shipment over the full ordered
// amount, so re-opening a PARTIAL slip proposes completing what was started.
func SeedDispatchLines(slip *PackagingSlip) []DispatchLineForm {
	forms := make([]DispatchLineForm, 0, len(slip.Lines))
	for _, l := range slip.Lines {
		qty := l.ShippedQuantity
		if qty.IsZero() {
			qty = l.OrderedQuantity
		}
		forms = append(forms, DispatchLineForm{
			LineID:          l.ID,
			ProductCode:     l.ProductCode,
			ProductName:     l.ProductName,
			BatchCode:       l.BatchCode,
			OrderedQuantity: l.OrderedQuantity,
			ShipQuantity:    qty,
		})
	}
	return forms
}

// UpdateDispatchLine merges a partial change into exactly one line and returns
// a new slice; every other line is untouched and there is no cross-line
// recomputation. An out-of-range index returns the input unchanged.
func UpdateDispatchLine(lines []DispatchLineForm, index int, change DispatchLineChange) []DispatchLineForm {
	if index < 0 || index >= len(lines) {
		return lines
	}
	next := make([]DispatchLineForm, len(lines))
	copy(next, lines)

	form := &next[index]
	if change.ShipQuantity != nil {
		form.ShipQuantity = *change.ShipQuantity
	}
	if change.UnitPrice != nil {
		v := *change.UnitPrice
		form.UnitPrice = &v
	}
	if change.Discount != nil {
		v := *change.Discount
		form.Discount = &v
	}
	if change.TaxRate != nil {
		v := *change.TaxRate
		form.TaxRate = &v
	}
	if change.TaxInclusive != nil {
		v := *change.TaxInclusive
		form.TaxInclusive = &v
	}
	return next
}

// ValidateDispatchLines checks the local submission invariants: no negative
// quantities, and at least one non-zero line.
func ValidateDispatchLines(lines []DispatchLineForm) error {
	anyPositive := false
	for i, l := range lines {
		if l.ShipQuantity.IsNegative() {
			return fmt.Errorf("line %d (%s): ship quantity must not be negative", i+1, l.ProductCode)
		}
		if l.ShipQuantity.IsPositive() {
			anyPositive = true
		}
	}
	if !anyPositive {
		return ErrNoDispatchLines
	}
	return nil
}

// FilterDispatchLines returns the lines with a non-zero ship quantity, in their
// original order. A zero line means "do not touch this line in this
// confirmation", not "ship zero", so it never reaches the wire.
func FilterDispatchLines(lines []DispatchLineForm) []DispatchLineForm {
	var kept []DispatchLineForm
	for _, l := range lines {
		if l.ShipQuantity.IsPositive() {
			kept = append(kept, l)
		}
	}
	return kept
}
