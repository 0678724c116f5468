package exchange

import (
	"regexp"
	"time"

	"powcost/internal/models"
)

var whitespace = regexp.MustCompile(`\s+`)

// DateLabel formats t as an ISO calendar date in UTC.
func DateLabel(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

func underscored(s string) string {
	return whitespace.ReplaceAllString(s, "_")
}

// ProjectExportName is the download name of a single-project export.
func ProjectExportName(p models.Project) string {
	name := underscored(p.Title)
	if name == "" {
		name = "project"
	}
	return name + ".json"
}

// CatalogCSVName is the download name of a catalog export.
func CatalogCSVName(now time.Time) string {
	return "cost_database_" + DateLabel(now) + ".csv"
}

// WorkbookName is the download name of a Program of Works workbook.
func WorkbookName(p models.Project, now time.Time) string {
	id := p.IdentificationNo
	if id == "" {
		id = underscored(p.Title)
	}
	return "POW_" + id + "_" + DateLabel(now) + ".xlsx"
}

// BackupDownloadName is the download name of a full-state snapshot.
func BackupDownloadName(now time.Time) string {
	return "pow-cost-backup-" + DateLabel(now) + ".json"
}

// SettingsExportName is the download name of a settings export.
func SettingsExportName(now time.Time) string {
	return "pow_settings_" + DateLabel(now) + ".json"
}

// ProjectSetExportName is the download name of an all-projects export.
const ProjectSetExportName = "projects.json"
