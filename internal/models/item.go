package models

import (
	"strings"
	"time"
)

// CostType classifies a catalog item for the direct-cost breakdown.
type CostType string

const (
	CostTypeMaterial  CostType = "Material"
	CostTypeLabor     CostType = "Labor"
	CostTypeEquipment CostType = "Equipment"
)

// Valid reports whether c is one of the known cost types.
func (c CostType) Valid() bool {
	switch c {
	case CostTypeMaterial, CostTypeLabor, CostTypeEquipment:
		return true
	}
	return false
}

// ParseCostType matches s case-insensitively against the known cost types.
// Unknown or empty values fall back to Material.
func ParseCostType(s string) CostType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "labor", "labour":
		return CostTypeLabor
	case "equipment":
		return CostTypeEquipment
	}
	return CostTypeMaterial
}

// Item is a reusable priced line-item template in the cost catalog.
type Item struct {
	ID          int       `json:"id"`
	ItemNo      string    `json:"item_no"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Subcategory string    `json:"subcategory,omitempty"`
	Unit        string    `json:"unit"`
	UnitCost    float64   `json:"unit_cost"`
	CostType    CostType  `json:"cost_type"`
	DateAdded   time.Time `json:"date_added"`
}

// NewItem holds the caller-supplied fields of an item; id and date_added are
// assigned by the store.
type NewItem struct {
	ItemNo      string   `json:"item_no"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory string   `json:"subcategory,omitempty"`
	Unit        string   `json:"unit"`
	UnitCost    float64  `json:"unit_cost"`
	CostType    CostType `json:"cost_type"`
}

// ItemPatch holds the replaceable fields of an item. Nil fields are left as-is.
type ItemPatch struct {
	ItemNo      *string   `json:"item_no,omitempty"`
	Description *string   `json:"description,omitempty"`
	Category    *string   `json:"category,omitempty"`
	Subcategory *string   `json:"subcategory,omitempty"`
	Unit        *string   `json:"unit,omitempty"`
	UnitCost    *float64  `json:"unit_cost,omitempty"`
	CostType    *CostType `json:"cost_type,omitempty"`
}

// Apply merges the patch into item. ID and DateAdded are never touched.
func (p ItemPatch) Apply(item *Item) {
	if p.ItemNo != nil {
		item.ItemNo = *p.ItemNo
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Subcategory != nil {
		item.Subcategory = *p.Subcategory
	}
	if p.Unit != nil {
		item.Unit = *p.Unit
	}
	if p.UnitCost != nil {
		item.UnitCost = *p.UnitCost
	}
	if p.CostType != nil {
		item.CostType = *p.CostType
	}
}
