package utils

import (
	"math"

	"github.com/talyaroofing/crm/models"
)

// EstimateTotals holds the computed money fields of an estimate
type EstimateTotals struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Total    float64 `json:"total"`
}

// Round2 rounds to 2 decimal places (money)
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// CalculateEstimateTotals computes subtotal, tax and total for an ordered
// list of line items. It never mutates its input; negative quantities and
// prices are accepted arithmetically, validation belongs to the caller.
// An empty list yields all zeros.
func CalculateEstimateTotals(items []models.LineItem, taxRate float64) EstimateTotals {
	// Each line total is rounded before summing, so the subtotal always
	// equals the sum of the line totals printed on the estimate. With
	// sub-cent unit prices this can differ by a cent from rounding the
	// raw sum once.
	var subtotal float64
	for _, item := range items {
		subtotal += Round2(item.Quantity * item.UnitPrice)
	}
	subtotal = Round2(subtotal)
	tax := Round2(subtotal * taxRate)
	return EstimateTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Total:    Round2(subtotal + tax),
	}
}

// NormalizeLineItems returns a copy of items with each per-line total set to
// quantity × unit price, so stored rows always satisfy the invariant no
// matter what the client submitted.
func NormalizeLineItems(items []models.LineItem) models.LineItems {
	out := make(models.LineItems, len(items))
	for i, item := range items {
		item.Total = Round2(item.Quantity * item.UnitPrice)
		out[i] = item
	}
	return out
}
