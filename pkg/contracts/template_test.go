package contracts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/talyaroofing/crm/models"
)

func TestRenderReplacesAllOccurrences(t *testing.T) {
	template := "Dear {{customer_name}}, your project at {{project_address}} is ready. Thanks, {{customer_name}}!"
	got := Render(template, map[string]string{
		"customer_name":   "Jane Doe",
		"project_address": "12 Oak St",
	})

	assert.Equal(t, "Dear Jane Doe, your project at 12 Oak St is ready. Thanks, Jane Doe!", got)
	assert.NotContains(t, got, "{{customer_name}}")
}

func TestRenderLeavesUnknownPlaceholders(t *testing.T) {
	got := Render("Hello {{customer_name}}, total {{estimate_total}}", map[string]string{
		"customer_name": "Jane Doe",
	})

	assert.Contains(t, got, "Jane Doe")
	assert.Contains(t, got, "{{estimate_total}}", "missing keys stay literally in output")
}

func TestRenderDefaultTemplate(t *testing.T) {
	vars := map[string]string{
		"today_date":       "2025-06-01",
		"company_name":     "Talya Roofing",
		"company_phone":    "+15551234567",
		"customer_name":    "Jane Doe",
		"customer_address": "12 Oak St",
		"customer_phone":   "+15559876543",
		"customer_email":   "jane@example.com",
		"project_address":  "12 Oak St",
		"project_name":     "Roof replacement",
		"estimate_total":   "4871.25",
		"line_items_table": "ITEM ...",
	}

	got := Render(DefaultTemplate, vars)

	assert.NotContains(t, got, "{{", "every placeholder in the stock template must resolve")
	assert.Contains(t, got, "CUSTOMER: Jane Doe")
	assert.Contains(t, got, "TOTAL CONTRACT PRICE: $4871.25")
}

func TestLineItemsTable(t *testing.T) {
	items := []models.LineItem{
		{Description: "Architectural shingles", Quantity: 25, Unit: "sq", UnitPrice: 120, Total: 3000},
		{Description: "A very long description that exceeds the column width limit", Quantity: 1, Unit: "each", UnitPrice: 1500, Total: 1500},
	}

	table := LineItemsTable(items)

	assert.Contains(t, table, "ITEM")
	assert.Contains(t, table, "$120.00")
	assert.Contains(t, table, "$3000.00")

	// descriptions are clipped to the fixed column width
	for _, line := range strings.Split(table, "\n") {
		if strings.Contains(line, "A very long") {
			assert.NotContains(t, line, "column width limit")
		}
	}
	// quantities render without trailing zeros
	assert.Contains(t, table, "    25 ")
}
