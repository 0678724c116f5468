package models

// ProjectItem is a catalog item placed in a project with a quantity.
//
// UnitCost is a snapshot of the catalog price taken when the item was added;
// later catalog edits never reach it. TotalCost is always Quantity*UnitCost.
type ProjectItem struct {
	ID        int     `json:"id"`
	ProjectID string  `json:"project_id"`
	ItemID    int     `json:"item_id"`
	Quantity  float64 `json:"quantity"`
	UnitCost  float64 `json:"unit_cost"`
	TotalCost float64 `json:"total_cost"`

	// Copied from the catalog item at add time.
	ItemNo      string   `json:"item_no"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Unit        string   `json:"unit"`
	CostType    CostType `json:"cost_type"`
}

// Recalculate re-derives TotalCost from Quantity and UnitCost.
func (pi *ProjectItem) Recalculate() {
	pi.TotalCost = pi.Quantity * pi.UnitCost
}

// NewProjectItem holds the caller-supplied fields of a project item.
type NewProjectItem struct {
	ProjectID   string
	ItemID      int
	Quantity    float64
	UnitCost    float64
	ItemNo      string
	Description string
	Category    string
	Unit        string
	CostType    CostType
}

// NewProjectItemFromCatalog snapshots the catalog item into a new project item.
func NewProjectItemFromCatalog(projectID string, item Item, quantity float64) NewProjectItem {
	return NewProjectItem{
		ProjectID:   projectID,
		ItemID:      item.ID,
		Quantity:    quantity,
		UnitCost:    item.UnitCost,
		ItemNo:      item.ItemNo,
		Description: item.Description,
		Category:    item.Category,
		Unit:        item.Unit,
		CostType:    item.CostType,
	}
}

// ProjectItemPatch holds the replaceable fields of a project item.
// TotalCost is always derived, never patched.
type ProjectItemPatch struct {
	Quantity    *float64 `json:"quantity,omitempty"`
	UnitCost    *float64 `json:"unit_cost,omitempty"`
	Description *string  `json:"description,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
}

// Apply merges the patch into pi and recomputes the total.
func (p ProjectItemPatch) Apply(pi *ProjectItem) {
	if p.Quantity != nil {
		pi.Quantity = *p.Quantity
	}
	if p.UnitCost != nil {
		pi.UnitCost = *p.UnitCost
	}
	if p.Description != nil {
		pi.Description = *p.Description
	}
	if p.Unit != nil {
		pi.Unit = *p.Unit
	}
	pi.Recalculate()
}
