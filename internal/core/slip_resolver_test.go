package core_test

import (
	"context"
	"errors"
	"testing"

	"dispatch-console/internal/core"
)

func TestResolveSlip_SameViewByIDAndByOrder(t *testing.T) {
	slip := twoLineSlip()
	backend := &fakeBackend{
		slipsByID:    map[int64]*core.PackagingSlip{301: slip},
		slipsByOrder: map[int64]*core.PackagingSlip{42: slip},
	}
	ctx := context.Background()

	byID, idLines, err := core.ResolveSlip(ctx, backend, core.SlipRef{SlipID: 301})
	if err != nil {
		t.Fatalf("resolve by slip ID failed: %v", err)
	}
	byOrder, orderLines, err := core.ResolveSlip(ctx, backend, core.SlipRef{OrderID: 42})
	if err != nil {
		t.Fatalf("resolve by order ID failed: %v", err)
	}

	if byID.ID != byOrder.ID || byID.SalesOrderID != byOrder.SalesOrderID {
		t.Errorf("the two routes resolved different slips: %+v vs %+v", byID, byOrder)
	}
	if len(idLines) != len(orderLines) {
		t.Fatalf("line counts differ: %d vs %d", len(idLines), len(orderLines))
	}
	for i := range idLines {
		a, b := idLines[i], orderLines[i]
		if a.LineID != b.LineID || !a.OrderedQuantity.Equal(b.OrderedQuantity) || a.BatchCode != b.BatchCode {
			t.Errorf("line %d differs between routes: %+v vs %+v", i, a, b)
		}
	}
}

func TestResolveSlip_RefetchesCallerSuppliedSlip(t *testing.T) {
	fresh := twoLineSlip()
	backend := &fakeBackend{slipsByID: map[int64]*core.PackagingSlip{301: fresh}}

	// A stale copy with an outdated line set; only its ID may be trusted.
	stale := &core.PackagingSlip{ID: 301, Status: core.SlipPending}

	slip, lines, err := core.ResolveSlip(context.Background(), backend, core.SlipRef{Slip: stale})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if slip != fresh {
		t.Error("resolver returned the stale caller-supplied slip instead of re-fetching")
	}
	if len(lines) != 2 {
		t.Errorf("seeded %d lines, want 2 from the fresh slip", len(lines))
	}
}

func TestResolveSlip_NoSlipIsRecoverable(t *testing.T) {
	backend := &fakeBackend{slipsByOrder: map[int64]*core.PackagingSlip{}}
	_, _, err := core.ResolveSlip(context.Background(), backend, core.SlipRef{OrderID: 42})
	if !errors.Is(err, core.ErrNoPackagingSlip) {
		t.Errorf("error = %v, want ErrNoPackagingSlip", err)
	}
}

func TestResolveSlip_EmptyReference(t *testing.T) {
	backend := &fakeBackend{}
	_, _, err := core.ResolveSlip(context.Background(), backend, core.SlipRef{})
	if err == nil {
		t.Error("expected an error for an empty slip reference")
	}
}

func TestSlipStatus_UnknownValuesStayNeutral(t *testing.T) {
	tests := []struct {
		status core.SlipStatus
		known  bool
		label  string
	}{
		{core.SlipReserved, true, "Reserved"},
		{core.SlipPendingProduction, true, "Awaiting production"},
		{core.SlipStatus("AWAITING_QC"), false, "AWAITING_QC"},
		{core.SlipStatus(""), false, ""},
	}
	for _, tt := range tests {
		if got := tt.status.Known(); got != tt.known {
			t.Errorf("%q.Known() = %v, want %v", tt.status, got, tt.known)
		}
		if got := tt.status.Label(); got != tt.label {
			t.Errorf("%q.Label() = %q, want %q", tt.status, got, tt.label)
		}
	}
}
