package services

import "powcost/internal/models"

var sampleItems = []models.NewItem{
	{ItemNo: "SW-001", Description: "Site clearing and grubbing", Category: "Site Works", Subcategory: "Preparation", Unit: "m²", UnitCost: 45, CostType: models.CostTypeLabor},
	{ItemNo: "SW-002", Description: "Excavation for foundation", Category: "Site Works", Subcategory: "Earthworks", Unit: "m³", UnitCost: 125, CostType: models.CostTypeEquipment},
	{ItemNo: "SW-003", Description: "Backfilling and compaction", Category: "Site Works", Subcategory: "Earthworks", Unit: "m³", UnitCost: 85, CostType: models.CostTypeLabor},
	{ItemNo: "ST-001", Description: "Portland Cement 40kg", Category: "Structural Works", Subcategory: "Materials", Unit: "bag", UnitCost: 285, CostType: models.CostTypeMaterial},
	{ItemNo: "ST-002", Description: "Reinforcing steel bars 12mm", Category: "Structural Works", Subcategory: "Materials", Unit: "kg", UnitCost: 55, CostType: models.CostTypeMaterial},
	{ItemNo: "ST-003", Description: "Ready mix concrete Class B", Category: "Structural Works", Subcategory: "Concrete", Unit: "m³", UnitCost: 4250, CostType: models.CostTypeMaterial},
	{ItemNo: "ST-004", Description: "Concrete pouring and finishing", Category: "Structural Works", Subcategory: "Labor", Unit: "m³", UnitCost: 850, CostType: models.CostTypeLabor},
	{ItemNo: "ST-005", Description: "Steel reinforcement installation", Category: "Structural Works", Subcategory: "Labor", Unit: "kg", UnitCost: 18, CostType: models.CostTypeLabor},
	{ItemNo: "AR-001", Description: `Hollow blocks 4" (100mm)`, Category: "Architectural Works", Subcategory: "Masonry", Unit: "pc", UnitCost: 18.50, CostType: models.CostTypeMaterial},
	{ItemNo: "AR-002", Description: "Masonry works installation", Category: "Architectural Works", Subcategory: "Masonry", Unit: "m²", UnitCost: 450, CostType: models.CostTypeLabor},
	{ItemNo: "AR-003", Description: "Ceramic floor tiles 300x300mm", Category: "Architectural Works", Subcategory: "Finishes", Unit: "m²", UnitCost: 285, CostType: models.CostTypeMaterial},
	{ItemNo: "AR-004", Description: "Floor tile installation", Category: "Architectural Works", Subcategory: "Finishes", Unit: "m²", UnitCost: 125, CostType: models.CostTypeLabor},
	{ItemNo: "EL-001", Description: "THWN wire 2.0mm²", Category: "Electrical Works", Subcategory: "Wiring", Unit: "m", UnitCost: 12.50, CostType: models.CostTypeMaterial},
	{ItemNo: "EL-002", Description: "PVC conduit 20mm", Category: "Electrical Works", Subcategory: "Conduit", Unit: "m", UnitCost: 35, CostType: models.CostTypeMaterial},
	{ItemNo: "EL-003", Description: "Electrical rough-in installation", Category: "Electrical Works", Subcategory: "Installation", Unit: "outlet", UnitCost: 285, CostType: models.CostTypeLabor},
	{ItemNo: "PL-001", Description: `PVC pipe 4" (100mm)`, Category: "Plumbing Works", Subcategory: "Pipes", Unit: "m", UnitCost: 125, CostType: models.CostTypeMaterial},
	{ItemNo: "PL-002", Description: "Water closet installation", Category: "Plumbing Works", Subcategory: "Fixtures", Unit: "ea", UnitCost: 1850, CostType: models.CostTypeLabor},
	{ItemNo: "MC-001", Description: "Split-type aircon 1HP", Category: "Mechanical Works", Subcategory: "HVAC", Unit: "ea", UnitCost: 28500, CostType: models.CostTypeMaterial},
	{ItemNo: "MC-002", Description: "Aircon installation and testing", Category: "Mechanical Works", Subcategory: "HVAC", Unit: "ea", UnitCost: 3500, CostType: models.CostTypeLabor},
}

var sampleProject = models.NewProject{
	Title:            "Sample Residential Building Project",
	Location:         "Quezon City, Metro Manila",
	Category:         "Residential",
	IdentificationNo: "RES-2024-001",
	Duration:         "6 months",
	SourceOfFund:     "Private",
}
