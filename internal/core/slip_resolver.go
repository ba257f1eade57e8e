package core

import (
	"context"
	"errors"
	"fmt"
)

// ErrNoPackagingSlip signals that no packaging slip exists for the requested
// order, typically because stock was never reserved. This is a recoverable
// condition distinct from a transport failure: the caller may offer a
// reserve-and-retry action instead of a generic error.
var ErrNoPackagingSlip = errors.New("no packaging slip exists for this order; reserve stock first")

// SlipReader is the read-only backend surface slip resolution needs.
type SlipReader interface {
	GetPackagingSlip(ctx context.Context, slipID int64) (*PackagingSlip, error)
	GetPackagingSlipByOrder(ctx context.Context, orderID int64) (*PackagingSlip, error)
}

// SlipRef identifies the slip a workflow should act on: a slip object already
// in hand, a bare slip ID, or the owning sales order. At most one should be
// set; they are consulted in that order.
type SlipRef struct {
	Slip    *PackagingSlip
	SlipID  int64
	OrderID int64
}

// ResolveSlip produces a fresh packaging slip plus its seeded line forms.
// A caller-supplied slip with a resolvable ID is always re-fetched: the lines
// drive a money-affecting confirmation and a possibly-stale copy must never be
// trusted for that. Resolution is a pure read and safe to repeat.
func ResolveSlip(ctx context.Context, backend SlipReader, ref SlipRef) (*PackagingSlip, []DispatchLineForm, error) {
	var (
		slip *PackagingSlip
		err  error
	)
	switch {
	case ref.Slip != nil && ref.Slip.ID > 0:
		slip, err = backend.GetPackagingSlip(ctx, ref.Slip.ID)
	case ref.SlipID > 0:
		slip, err = backend.GetPackagingSlip(ctx, ref.SlipID)
	case ref.OrderID > 0:
		slip, err = backend.GetPackagingSlipByOrder(ctx, ref.OrderID)
	default:
		return nil, nil, fmt.Errorf("slip reference is empty: need a slip, slip ID, or order ID")
	}
	if err != nil {
		if errors.Is(err, ErrNoPackagingSlip) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to resolve packaging slip: %w", err)
	}
	if slip == nil {
		return nil, nil, ErrNoPackagingSlip
	}
	return slip, SeedDispatchLines(slip), nil
}
