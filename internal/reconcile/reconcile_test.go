package reconcile

import (
	"testing"

	"github.com/greenloop/wasteops/internal/model"
)

func TestDerive(t *testing.T) {
	tests := []struct {
		name        string
		amount      int64
		totalPaid   int64
		current     model.InvoiceStatus
		wantStatus  model.InvoiceStatus
		wantChanged bool
	}{
		{
			name:        "partial payment",
			amount:      10000,
			totalPaid:   6000,
			current:     model.InvoiceStatusPending,
			wantStatus:  model.InvoiceStatusPartiallyPaid,
			wantChanged: true,
		},
		{
			name:        "exact payment completes invoice",
			amount:      10000,
			totalPaid:   10000,
			current:     model.InvoiceStatusPartiallyPaid,
			wantStatus:  model.InvoiceStatusPaid,
			wantChanged: true,
		},
		{
			name:        "overpayment is accepted and marks invoice paid",
			amount:      10000,
			totalPaid:   15000,
			current:     model.InvoiceStatusPending,
			wantStatus:  model.InvoiceStatusPaid,
			wantChanged: true,
		},
		{
			name:        "unchanged total does not request a second write",
			amount:      10000,
			totalPaid:   6000,
			current:     model.InvoiceStatusPartiallyPaid,
			wantStatus:  model.InvoiceStatusPartiallyPaid,
			wantChanged: false,
		},
		{
			name:        "paid invoice stays paid",
			amount:      10000,
			totalPaid:   10000,
			current:     model.InvoiceStatusPaid,
			wantStatus:  model.InvoiceStatusPaid,
			wantChanged: false,
		},
		{
			name:        "zero total leaves status untouched",
			amount:      10000,
			totalPaid:   0,
			current:     model.InvoiceStatusCancelled,
			wantStatus:  model.InvoiceStatusCancelled,
			wantChanged: false,
		},
		{
			name:        "partial payment on cancelled invoice still derives",
			amount:      10000,
			totalPaid:   500,
			current:     model.InvoiceStatusCancelled,
			wantStatus:  model.InvoiceStatusPartiallyPaid,
			wantChanged: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, changed := Derive(tt.amount, tt.totalPaid, tt.current)
			if status != tt.wantStatus {
				t.Fatalf("status = %q, want %q", status, tt.wantStatus)
			}
			if changed != tt.wantChanged {
				t.Fatalf("changed = %v, want %v", changed, tt.wantChanged)
			}
		})
	}
}

func TestDeriveIdempotent(t *testing.T) {
	status, changed := Derive(10000, 6000, model.InvoiceStatusPending)
	if !changed {
		t.Fatalf("first derivation must report a change")
	}

	status2, changed2 := Derive(10000, 6000, status)
	if changed2 {
		t.Fatalf("second derivation with unchanged total must not request a write")
	}
	if status2 != status {
		t.Fatalf("status2 = %q, want %q", status2, status)
	}
}
