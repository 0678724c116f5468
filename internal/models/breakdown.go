package models

// DirectCosts splits the direct cost by cost type.
type DirectCosts struct {
	Material  float64 `json:"material"`
	Labor     float64 `json:"labor"`
	Equipment float64 `json:"equipment"`
	Total     float64 `json:"total"`
}

// IndirectCostAmounts holds the computed markup amounts.
type IndirectCostAmounts struct {
	OCM    float64 `json:"ocm"`
	Profit float64 `json:"profit"`
	Taxes  float64 `json:"taxes"`
	Total  float64 `json:"total"`
}

// CostBreakdown is derived on demand and never stored.
type CostBreakdown struct {
	DirectCosts   DirectCosts         `json:"direct_costs"`
	IndirectCosts IndirectCostAmounts `json:"indirect_costs"`
	GrandTotal    float64             `json:"grand_total"`
}

// CategorySubtotal is the summed total cost of one category and its share
// of the direct cost, in percent.
type CategorySubtotal struct {
	Category   string  `json:"category"`
	Subtotal   float64 `json:"subtotal"`
	Percentage float64 `json:"percentage"`
}
