package models

// Default markup percentages.
const (
	DefaultOCMPercent    = 5.0
	DefaultProfitPercent = 8.0
	DefaultTaxPercent    = 12.0
)

// IndirectRates are the markup percentages applied on top of direct costs.
type IndirectRates struct {
	OCMPercent    float64 `json:"ocm_percent"`
	ProfitPercent float64 `json:"profit_percent"`
	TaxPercent    float64 `json:"tax_percent"`
}

// DefaultIndirectRates returns 5% OCM, 8% profit and 12% tax.
func DefaultIndirectRates() IndirectRates {
	return IndirectRates{
		OCMPercent:    DefaultOCMPercent,
		ProfitPercent: DefaultProfitPercent,
		TaxPercent:    DefaultTaxPercent,
	}
}

// IndirectCosts is the per-project markup record. At most one exists per project.
type IndirectCosts struct {
	ID        int    `json:"id"`
	ProjectID string `json:"project_id"`
	IndirectRates
}
