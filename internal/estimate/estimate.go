// Package estimate turns a project's line items and markup rates into a cost
// breakdown. Every function is pure.
package estimate

import (
	"sort"

	"powcost/internal/models"
)

// sum adds values in ascending order so the result does not depend on the
// order the caller supplied them in.
func sum(values []float64) float64 {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	total := 0.0
	for _, v := range sorted {
		total += v
	}
	return total
}

// ComputeCostBreakdown splits direct cost by cost type and compounds the
// markups: OCM on direct cost, profit on direct+OCM, taxes on
// direct+OCM+profit.
func ComputeCostBreakdown(items []models.ProjectItem, rates models.IndirectRates) models.CostBreakdown {
	var material, labor, equipment []float64
	for _, pi := range items {
		switch pi.CostType {
		case models.CostTypeMaterial:
			material = append(material, pi.TotalCost)
		case models.CostTypeLabor:
			labor = append(labor, pi.TotalCost)
		case models.CostTypeEquipment:
			equipment = append(equipment, pi.TotalCost)
		}
	}

	direct := models.DirectCosts{
		Material:  sum(material),
		Labor:     sum(labor),
		Equipment: sum(equipment),
	}
	direct.Total = direct.Material + direct.Labor + direct.Equipment

	ocm := direct.Total * rates.OCMPercent / 100
	profit := (direct.Total + ocm) * rates.ProfitPercent / 100
	taxes := (direct.Total + ocm + profit) * rates.TaxPercent / 100
	indirect := models.IndirectCostAmounts{
		OCM:    ocm,
		Profit: profit,
		Taxes:  taxes,
		Total:  ocm + profit + taxes,
	}

	return models.CostBreakdown{
		DirectCosts:   direct,
		IndirectCosts: indirect,
		GrandTotal:    direct.Total + indirect.Total,
	}
}

// ComputeCategorySubtotals groups items by category in order of first
// appearance. Percentages are relative to the breakdown's direct total and
// are 0 when that total is 0.
func ComputeCategorySubtotals(items []models.ProjectItem, breakdown models.CostBreakdown) []models.CategorySubtotal {
	var order []string
	groups := make(map[string][]float64)
	for _, pi := range items {
		if _, ok := groups[pi.Category]; !ok {
			order = append(order, pi.Category)
		}
		groups[pi.Category] = append(groups[pi.Category], pi.TotalCost)
	}

	subtotals := make([]models.CategorySubtotal, 0, len(order))
	for _, category := range order {
		subtotal := sum(groups[category])
		subtotals = append(subtotals, models.CategorySubtotal{
			Category:   category,
			Subtotal:   subtotal,
			Percentage: Percentage(subtotal, breakdown.DirectCosts.Total),
		})
	}
	return subtotals
}

// Percentage returns part/whole*100, or 0 when whole is 0.
func Percentage(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// Summary is a project's breakdown together with its category subtotals.
type Summary struct {
	Breakdown         models.CostBreakdown      `json:"breakdown"`
	CategorySubtotals []models.CategorySubtotal `json:"category_subtotals"`
	Rates             models.IndirectRates      `json:"rates"`
	ItemCount         int                       `json:"item_count"`
}

// Summarize computes the breakdown and subtotals in one call.
func Summarize(items []models.ProjectItem, rates models.IndirectRates) Summary {
	breakdown := ComputeCostBreakdown(items, rates)
	return Summary{
		Breakdown:         breakdown,
		CategorySubtotals: ComputeCategorySubtotals(items, breakdown),
		Rates:             rates,
		ItemCount:         len(items),
	}
}
