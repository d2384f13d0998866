package export

import (
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"devtimesheet/internal/entry"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		analyst string
		project string
		want    string
	}{
		{"Dana Smith", "", "Timesheet_General_Report_Dana_Smith.xlsx"},
		{"Dana", "client site", "Timesheet_Project_client_site_Dana.xlsx"},
		{"", "", "Timesheet_General_Report_Anonymous.xlsx"},
	}

	for _, tt := range tests {
		if got := Filename(tt.analyst, tt.project); got != tt.want {
			t.Errorf("Filename(%q, %q) = %q, want %q", tt.analyst, tt.project, got, tt.want)
		}
	}
}

func TestWriteWorkbook(t *testing.T) {
	entries := []entry.TimeEntry{
		{ID: 1, Date: "2026-03-01", Client: "Acme", Project: "website", Category: "General", Tags: []string{"ui", "css"}, Description: "header fixes", Hours: 2.5},
		{ID: 2, Date: "2026-03-02", Project: "api", Category: "General", Hours: 1.25},
	}

	path := filepath.Join(t.TempDir(), "out.xlsx")
	if err := Write(path, entries, "Dana"); err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile: %v", err)
	}
	defer f.Close()

	get := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue(sheetName, cell)
		if err != nil {
			t.Fatalf("GetCellValue(%s): %v", cell, err)
		}
		return v
	}

	if get("A1") != "Date" || get("G1") != "Hours" {
		t.Error("header row missing")
	}
	if get("A2") != "01/03/2026" {
		t.Errorf("expected display date in A2, got %q", get("A2"))
	}
	if get("E2") != "ui, css" {
		t.Errorf("expected joined tags, got %q", get("E2"))
	}

	// Blank client and tags render as dashes
	if get("B3") != "-" || get("E3") != "-" {
		t.Errorf("expected dashes for blank fields, got B3=%q E3=%q", get("B3"), get("E3"))
	}

	if get("F4") != "GRAND TOTAL:" {
		t.Errorf("expected grand total label in F4, got %q", get("F4"))
	}
	if get("I1") != "Analyst: Dana" {
		t.Errorf("expected analyst stamp, got %q", get("I1"))
	}
}
