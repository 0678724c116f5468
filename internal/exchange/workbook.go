package exchange

import (
	"strconv"
	"strings"
	"time"

	"powcost/internal/estimate"
	"powcost/internal/models"
)

// Sheet names of the Program of Works workbook.
const (
	SheetProgramOfWorks    = "Program of Works"
	SheetCategorySubtotals = "Category Subtotals"
	SheetCostBreakdown     = "Cost Breakdown"
)

// CellKind tells a spreadsheet writer how to render a cell.
type CellKind string

const (
	CellText   CellKind = "text"
	CellNumber CellKind = "number"
	// CellFraction holds a share of a whole (0.25 = 25%) for percent formatting.
	CellFraction CellKind = "fraction"
)

// Cell is one workbook cell.
type Cell struct {
	Kind   CellKind `json:"kind"`
	Text   string   `json:"text,omitempty"`
	Number float64  `json:"number,omitempty"`
}

// Text returns a string cell.
func Text(s string) Cell { return Cell{Kind: CellText, Text: s} }

// Number returns a numeric cell.
func Number(v float64) Cell { return Cell{Kind: CellNumber, Number: v} }

// Fraction returns a percent-formatted cell holding v as a fraction.
func Fraction(v float64) Cell { return Cell{Kind: CellFraction, Number: v} }

// Row is an ordered list of cells. An empty row is a blank spreadsheet line.
type Row []Cell

// Sheet is a named list of rows with column widths in characters.
type Sheet struct {
	Name         string `json:"name"`
	Rows         []Row  `json:"rows"`
	ColumnWidths []int  `json:"column_widths"`
}

// Workbook is the row model handed to a spreadsheet writer.
type Workbook struct {
	FileName string  `json:"file_name"`
	Sheets   []Sheet `json:"sheets"`
}

// WorkbookInput is everything the Program of Works export needs.
type WorkbookInput struct {
	Project      models.Project
	ProjectItems []models.ProjectItem
	Rates        models.IndirectRates
	Now          time.Time
}

// BuildWorkbook lays out the three sheets of a Program of Works export.
func BuildWorkbook(in WorkbookInput) Workbook {
	summary := estimate.Summarize(in.ProjectItems, in.Rates)
	return Workbook{
		FileName: WorkbookName(in.Project, in.Now),
		Sheets: []Sheet{
			programOfWorksSheet(in.Project, in.ProjectItems, summary),
			categorySubtotalsSheet(summary),
			costBreakdownSheet(summary, in.Rates),
		},
	}
}

func texts(values ...string) Row {
	row := make(Row, len(values))
	for i, v := range values {
		row[i] = Text(v)
	}
	return row
}

func programOfWorksSheet(p models.Project, items []models.ProjectItem, summary estimate.Summary) Sheet {
	direct := summary.Breakdown.DirectCosts.Total

	rows := []Row{
		texts("PROGRAM OF WORKS"),
		texts(p.Title),
		{},
		texts("Project Location:", p.Location, "", "Project ID:", p.IdentificationNo),
		texts("Source of Fund:", p.SourceOfFund, "", "Duration:", p.Duration),
		{},
		texts("Item No.", "Scope of Work", "% Weight", "Quantity", "Unit", "Unit Cost", "Total Cost"),
	}

	var order []string
	byCategory := make(map[string][]models.ProjectItem)
	for _, pi := range items {
		if _, ok := byCategory[pi.Category]; !ok {
			order = append(order, pi.Category)
		}
		byCategory[pi.Category] = append(byCategory[pi.Category], pi)
	}
	subtotals := make(map[string]float64, len(summary.CategorySubtotals))
	for _, cs := range summary.CategorySubtotals {
		subtotals[cs.Category] = cs.Subtotal
	}

	for _, category := range order {
		rows = append(rows, texts(strings.ToUpper(category)))
		for _, pi := range byCategory[category] {
			rows = append(rows, Row{
				Text(pi.ItemNo),
				Text(pi.Description),
				Fraction(estimate.Percentage(pi.TotalCost, direct) / 100),
				Number(pi.Quantity),
				Text(pi.Unit),
				Number(pi.UnitCost),
				Number(pi.TotalCost),
			})
		}
		if subtotal, ok := subtotals[category]; ok {
			rows = append(rows, append(texts("", "", "", "", "", "SUBTOTAL - "+category), Number(subtotal)))
		}
		rows = append(rows, Row{})
	}

	rows = append(rows,
		append(texts("", "", "", "", "", "TOTAL DIRECT COST"), Number(direct)),
		Row{},
		Row{},
		texts("Prepared by:", "", "Recommended by:", "", "Approved by:"),
		Row{},
		Row{},
		texts("_____________________", "", "_____________________", "", "_____________________"),
		texts("Project Engineer", "", "Project Manager", "", "Approving Authority"),
	)

	return Sheet{
		Name:         SheetProgramOfWorks,
		Rows:         rows,
		ColumnWidths: []int{10, 50, 12, 12, 10, 15, 18},
	}
}

func categorySubtotalsSheet(summary estimate.Summary) Sheet {
	rows := []Row{
		texts("COST BREAKDOWN BY CATEGORY"),
		{},
		texts("Category", "Subtotal Cost", "% of Direct Cost"),
	}
	for _, cs := range summary.CategorySubtotals {
		rows = append(rows, Row{Text(cs.Category), Number(cs.Subtotal), Fraction(cs.Percentage / 100)})
	}
	rows = append(rows, Row{Text("GRAND TOTAL"), Number(summary.Breakdown.DirectCosts.Total), Fraction(1)})

	return Sheet{
		Name:         SheetCategorySubtotals,
		Rows:         rows,
		ColumnWidths: []int{30, 18, 18},
	}
}

func formatRate(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func costBreakdownSheet(summary estimate.Summary, rates models.IndirectRates) Sheet {
	b := summary.Breakdown
	share := func(label string, amount float64) Row {
		return Row{Text(label), Number(amount), Fraction(estimate.Percentage(amount, b.GrandTotal) / 100)}
	}

	rows := []Row{
		texts("PROJECT COST BREAKDOWN"),
		{},
		texts("Cost Type", "Amount", "% of Total Cost"),
		share("Direct Costs:", b.DirectCosts.Total),
		share("  - Materials", b.DirectCosts.Material),
		share("  - Labor", b.DirectCosts.Labor),
		share("  - Equipment", b.DirectCosts.Equipment),
		{},
		share("Overhead, Contingency & Management ("+formatRate(rates.OCMPercent)+"%)", b.IndirectCosts.OCM),
		share("Contractor's Profit ("+formatRate(rates.ProfitPercent)+"%)", b.IndirectCosts.Profit),
		share("Taxes ("+formatRate(rates.TaxPercent)+"%)", b.IndirectCosts.Taxes),
		{},
		{Text("GRAND TOTAL"), Number(b.GrandTotal), Fraction(1)},
	}

	return Sheet{
		Name:         SheetCostBreakdown,
		Rows:         rows,
		ColumnWidths: []int{40, 18, 18},
	}
}
