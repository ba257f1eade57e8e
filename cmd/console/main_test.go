package main

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestValidateArgs(t *testing.T) {
	tests := []struct {
		name    string
		slipID  int64
		orderID int64
		factory bool
		user    string
		wantErr bool
	}{
		{name: "slip only", slipID: 301, wantErr: false},
		{name: "order only", orderID: 42, wantErr: false},
		{name: "neither slip nor order", wantErr: true},
		{name: "factory with user", slipID: 301, factory: true, user: "Meera Iyer", wantErr: false},
		{name: "factory without user", slipID: 301, factory: true, wantErr: true},
		{name: "factory with blank user", slipID: 301, factory: true, user: "   ", wantErr: true},
		{name: "sales flow needs no user", slipID: 301, wantErr: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateArgs(tt.slipID, tt.orderID, tt.factory, tt.user)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateArgs(%d, %d, %v, %q) = %v, wantErr %v",
					tt.slipID, tt.orderID, tt.factory, tt.user, err, tt.wantErr)
			}
		})
	}
}

func TestQuantityFlags_Set(t *testing.T) {
	var q quantityFlags
	if err := q.Set("2=7.5"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if len(q) != 1 || q[0].index != 2 || !q[0].qty.Equal(decimal.RequireFromString("7.5")) {
		t.Errorf("unexpected override: %+v", q)
	}

	for _, bad := range []string{"2", "0=1", "x=1", "1=abc"} {
		if err := q.Set(bad); err == nil {
			t.Errorf("Set(%q) accepted an invalid override", bad)
		}
	}
}
