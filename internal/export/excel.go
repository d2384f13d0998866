// Package export writes entry subsets as styled XLSX workbooks.
package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"devtimesheet/internal/entry"
)

const sheetName = "Status Report"

// Filename derives the workbook filename from the analyst name and the
// export scope: the general report or one specific project.
func Filename(analyst, project string) string {
	if analyst == "" {
		analyst = "Anonymous"
	}
	base := "General_Report"
	if project != "" {
		base = "Project_" + sanitize(project)
	}
	return fmt.Sprintf("Timesheet_%s_%s.xlsx", base, sanitize(analyst))
}

func sanitize(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "_")
}

// Write renders the given entries to an XLSX file at path: a styled header,
// one row per entry, and a grand-total row. The caller chooses the subset
// (filtered, per-project, or everything).
func Write(path string, entries []entry.TimeEntry, analyst string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return err
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 14}, {"B", 20}, {"C", 25}, {"D", 18}, {"E", 30}, {"F", 45}, {"G", 12},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheetName, w.col, w.col, w.width); err != nil {
			return err
		}
	}

	header := []any{"Date", "Client", "Project", "Category", "Tags", "Description", "Hours"}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 12},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"0F172A"}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, "A1", "G1", headerStyle); err != nil {
		return err
	}

	hoursFmt := "0.00"
	hoursStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true},
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		CustomNumFmt: &hoursFmt,
	})
	if err != nil {
		return err
	}

	var total float64
	row := 2
	for _, e := range entries {
		total += e.Hours

		client := e.Client
		if client == "" {
			client = "-"
		}
		tags := "-"
		if len(e.Tags) > 0 {
			tags = strings.Join(e.Tags, ", ")
		}
		desc := e.Description
		if desc == "" {
			desc = "-"
		}

		values := []any{entry.DisplayDate(e.Date), client, e.Project, e.Category, tags, desc, e.Hours}
		cell := fmt.Sprintf("A%d", row)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return err
		}
		hours := fmt.Sprintf("G%d", row)
		if err := f.SetCellStyle(sheetName, hours, hours, hoursStyle); err != nil {
			return err
		}
		row++
	}

	if err := f.AutoFilter(sheetName, "A1:G1", nil); err != nil {
		return err
	}

	// Grand-total row
	labelCell := fmt.Sprintf("F%d", row)
	valueCell := fmt.Sprintf("G%d", row)
	if err := f.SetCellValue(sheetName, labelCell, "GRAND TOTAL:"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheetName, valueCell, total); err != nil {
		return err
	}

	totalFmt := `0.00 "h"`
	totalStyle, err := f.NewStyle(&excelize.Style{
		Font:         &excelize.Font{Bold: true, Size: 14, Color: "059669"},
		Fill:         excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"ECFDF5"}},
		Alignment:    &excelize.Alignment{Horizontal: "center", Vertical: "center"},
		CustomNumFmt: &totalFmt,
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheetName, valueCell, valueCell, totalStyle); err != nil {
		return err
	}

	if analyst != "" {
		if err := f.SetCellValue(sheetName, "I1", "Analyst: "+analyst); err != nil {
			return err
		}
	}

	return f.SaveAs(path)
}
