// Package exchange converts domain records to and from their interchange
// formats: catalog CSV, project and full-state JSON, and the row model of the
// Program of Works workbook.
package exchange

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"powcost/internal/models"
)

// CatalogCSVHeader is the fixed column order of a catalog export.
var CatalogCSVHeader = []string{"item_no", "description", "category", "subcategory", "unit", "unit_cost", "cost_type", "date_added"}

// Defaults substituted for blank columns on import.
const (
	DefaultImportDescription = "Imported Item"
	DefaultImportCategory    = "Miscellaneous"
	DefaultImportUnit        = "ea"
)

// EncodeCatalogCSV writes a header row and one row per item. The description
// column is always quoted; other columns are quoted only when they must be.
func EncodeCatalogCSV(items []models.Item) []byte {
	var buf bytes.Buffer
	buf.WriteString(strings.Join(CatalogCSVHeader, ","))
	for _, item := range items {
		buf.WriteByte('\n')
		fields := []string{
			csvField(item.ItemNo),
			quoteCSV(item.Description),
			csvField(item.Category),
			csvField(item.Subcategory),
			csvField(item.Unit),
			strconv.FormatFloat(item.UnitCost, 'f', -1, 64),
			csvField(string(item.CostType)),
			item.DateAdded.UTC().Format(time.RFC3339Nano),
		}
		buf.WriteString(strings.Join(fields, ","))
	}
	return buf.Bytes()
}

func quoteCSV(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func csvField(s string) string {
	if strings.ContainsAny(s, ",\"\r\n") {
		return quoteCSV(s)
	}
	return s
}

// DecodeCatalogCSV reads a catalog export. The first row is a header and is
// skipped. Blank rows are ignored. Missing or blank columns take defaults:
// item_no IMP-{n} (n counts data rows from 1), description "Imported Item",
// category "Miscellaneous", unit "ea", cost_type Material; an unparsable
// unit_cost reads as 0.
func DecodeCatalogCSV(data []byte) ([]models.NewItem, error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true

	items := []models.NewItem{}
	header := true
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading catalog csv: %w", err)
		}
		if header {
			header = false
			continue
		}
		if blankRecord(record) {
			continue
		}
		items = append(items, decodeCatalogRow(record, len(items)+1))
	}
	return items, nil
}

func blankRecord(record []string) bool {
	for _, f := range record {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func decodeCatalogRow(record []string, n int) models.NewItem {
	col := func(i int) string {
		if i < len(record) {
			return strings.TrimSpace(record[i])
		}
		return ""
	}
	orDefault := func(v, def string) string {
		if v == "" {
			return def
		}
		return v
	}

	return models.NewItem{
		ItemNo:      orDefault(col(0), fmt.Sprintf("IMP-%d", n)),
		Description: orDefault(col(1), DefaultImportDescription),
		Category:    orDefault(col(2), DefaultImportCategory),
		Subcategory: col(3),
		Unit:        orDefault(col(4), DefaultImportUnit),
		UnitCost:    ParseAmount(col(5)),
		CostType:    models.ParseCostType(col(6)),
	}
}

var numericPrefix = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseAmount parses the longest leading number of a user-entered value, so
// "12.5 m" reads as 12.5 and "1,200" as 1. Input without a finite leading
// number reads as 0.
func ParseAmount(s string) float64 {
	prefix := numericPrefix.FindString(strings.TrimSpace(s))
	if prefix == "" {
		return 0
	}
	v, err := strconv.ParseFloat(prefix, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
