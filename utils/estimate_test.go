package utils

import (
	"testing"

	"github.com/talyaroofing/crm/models"
)

func TestCalculateEstimateTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []models.LineItem
		taxRate      float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "empty list yields zeros",
			items:        nil,
			taxRate:      0.0825,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name: "roofing job with tax",
			items: []models.LineItem{
				{Description: "Architectural shingles", Quantity: 25, Unit: "sq", UnitPrice: 120},
				{Description: "Tear-off and haul away", Quantity: 1, Unit: "each", UnitPrice: 1500},
			},
			taxRate:      0.0825,
			wantSubtotal: 4500.00,
			wantTax:      371.25,
			wantTotal:    4871.25,
		},
		{
			name: "no tax",
			items: []models.LineItem{
				{Description: "Drip edge", Quantity: 120, Unit: "linear ft", UnitPrice: 2.50},
			},
			taxRate:      0,
			wantSubtotal: 300.00,
			wantTax:      0,
			wantTotal:    300.00,
		},
		{
			name: "fractional quantities round to cents",
			items: []models.LineItem{
				{Description: "Underlayment", Quantity: 3.333, Unit: "roll", UnitPrice: 89.99},
			},
			taxRate:      0.10,
			wantSubtotal: 299.94,
			wantTax:      29.99,
			wantTotal:    329.93,
		},
		{
			name: "sub-cent lines round per line before summing",
			items: []models.LineItem{
				{Description: "Ridge cap fastener", Quantity: 1, Unit: "each", UnitPrice: 0.005},
				{Description: "Ridge cap fastener", Quantity: 1, Unit: "each", UnitPrice: 0.005},
			},
			taxRate:      0,
			wantSubtotal: 0.02,
			wantTax:      0,
			wantTotal:    0.02,
		},
		{
			name: "negative line items pass through arithmetically",
			items: []models.LineItem{
				{Description: "Shingles", Quantity: 10, Unit: "sq", UnitPrice: 100},
				{Description: "Insurance credit", Quantity: 1, Unit: "each", UnitPrice: -250},
			},
			taxRate:      0,
			wantSubtotal: 750.00,
			wantTax:      0,
			wantTotal:    750.00,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateEstimateTotals(tt.items, tt.taxRate)
			if got.Subtotal != tt.wantSubtotal {
				t.Errorf("subtotal = %v, want %v", got.Subtotal, tt.wantSubtotal)
			}
			if got.Tax != tt.wantTax {
				t.Errorf("tax = %v, want %v", got.Tax, tt.wantTax)
			}
			if got.Total != tt.wantTotal {
				t.Errorf("total = %v, want %v", got.Total, tt.wantTotal)
			}
		})
	}
}

func TestCalculateEstimateTotalsDoesNotMutateInput(t *testing.T) {
	items := []models.LineItem{
		{Description: "Shingles", Quantity: 2, Unit: "sq", UnitPrice: 100, Total: 0},
	}
	CalculateEstimateTotals(items, 0.05)
	if items[0].Total != 0 {
		t.Errorf("input line item was mutated: total = %v", items[0].Total)
	}
}

func TestNormalizeLineItems(t *testing.T) {
	items := []models.LineItem{
		{Description: "Shingles", Quantity: 25, Unit: "sq", UnitPrice: 120, Total: 999},
		{Description: "Labor", Quantity: 16, Unit: "hour", UnitPrice: 65.50, Total: -1},
	}

	got := NormalizeLineItems(items)

	if got[0].Total != 3000.00 {
		t.Errorf("line 0 total = %v, want 3000.00", got[0].Total)
	}
	if got[1].Total != 1048.00 {
		t.Errorf("line 1 total = %v, want 1048.00", got[1].Total)
	}
	// originals untouched
	if items[0].Total != 999 {
		t.Errorf("input was mutated: total = %v", items[0].Total)
	}
}
