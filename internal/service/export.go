package service

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
)

// RenderShoppingList renders the aggregated ingredient totals as the
// downloadable plain-text document
func RenderShoppingList(totals []IngredientTotal) []byte {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Ingredient", "Amount", "Unit"})
	for _, item := range totals {
		t.AppendRow(table.Row{item.Name, item.Total, item.MeasurementUnit})
	}

	var b strings.Builder
	b.WriteString("Shopping list\n\n")
	b.WriteString(t.Render())
	b.WriteString("\n")
	return []byte(b.String())
}
