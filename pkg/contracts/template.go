// Package contracts renders contract documents from placeholder templates.
package contracts

import (
	"fmt"
	"strings"

	"github.com/talyaroofing/crm/models"
)

// DefaultTemplate is the stock roofing contract agreement. Placeholders use
// {{name}} form and are replaced literally by Render.
const DefaultTemplate = `ROOFING CONTRACT AGREEMENT

This Agreement is made on {{today_date}} between:

CONTRACTOR: {{company_name}}
Phone: {{company_phone}}

CUSTOMER: {{customer_name}}
Address: {{customer_address}}
Phone: {{customer_phone}}
Email: {{customer_email}}

PROJECT ADDRESS: {{project_address}}
Project Name: {{project_name}}

SCOPE OF WORK:
{{line_items_table}}

TOTAL CONTRACT PRICE: ${{estimate_total}}

PAYMENT TERMS:
- 50% deposit due upon signing
- 50% balance due upon completion

TIMELINE:
Work will commence within 5 business days of deposit receipt and will be completed within a reasonable timeframe based on weather conditions and material availability.

WARRANTY:
All work is guaranteed for a period of 5 years from the date of completion. This warranty covers workmanship defects but does not cover damage from acts of nature, accidents, or normal wear and tear.

INSURANCE:
Contractor maintains general liability insurance and workers' compensation insurance for all employees.

PERMITS:
Contractor will obtain all necessary permits for the work described above.

CHANGE ORDERS:
Any changes to the scope of work must be agreed upon in writing and may result in additional charges.

CANCELLATION:
Either party may cancel this agreement with 48 hours written notice. If Customer cancels after work has begun, Customer agrees to pay for all work completed and materials purchased.

ACCEPTANCE:
By signing below, both parties agree to the terms and conditions outlined in this contract.

CONTRACTOR SIGNATURE: _____________________________  DATE: __________

CUSTOMER SIGNATURE: _____________________________  DATE: __________

Generated on {{today_date}}`

// Render replaces every occurrence of each {{key}} in the template with its
// value. A placeholder whose key is absent from variables stays literally in
// the output; detecting unresolved placeholders is the caller's concern.
func Render(template string, variables map[string]string) string {
	rendered := template
	for key, value := range variables {
		rendered = strings.ReplaceAll(rendered, "{{"+key+"}}", value)
	}
	return rendered
}

// LineItemsTable formats estimate rows as the fixed-width text table embedded
// in the scope-of-work section.
func LineItemsTable(items []models.LineItem) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString("ITEM                                    QTY    UNIT      PRICE      TOTAL\n")
	b.WriteString(strings.Repeat("─", 75) + "\n")

	for _, item := range items {
		desc := item.Description
		if len(desc) > 35 {
			desc = desc[:35]
		}
		b.WriteString(fmt.Sprintf("%-35s %6s %-8s %10s %10s\n",
			desc,
			trimZeros(item.Quantity),
			item.Unit,
			fmt.Sprintf("$%.2f", item.UnitPrice),
			fmt.Sprintf("$%.2f", item.Total),
		))
	}

	return b.String()
}

// trimZeros renders a quantity without trailing decimal noise (25 not 25.00)
func trimZeros(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
