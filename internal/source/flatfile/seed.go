package flatfile

import (
	"encoding/csv"
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"
)

// demoHeader and DemoRows are the flat-file demo export. The set
// overlaps the sql and api demo data on email so merged queries show
// multi-source rows, and adds file-only users.
var demoHeader = []string{"id", "name", "email", "region", "signup_date"}

var DemoRows = [][]string{
	{"3", "Carol", "carol@example.com", "APAC", "2025-01-10"},
	{"4", "user21", "user21@example.com", "EU", "2025-01-22"},
	{"8", "Frank", "frank@example.com", "NA", "2024-11-20"},
	{"9", "user58", "user58@example.com", "APAC", "2024-11-30"},
}

// WriteDemoCSV writes the demo export as CSV at path.
func WriteDemoCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(demoHeader); err != nil {
		return err
	}
	for _, row := range DemoRows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// WriteDemoXLSX writes the demo export as a single-sheet workbook at
// path.
func WriteDemoXLSX(path string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetSheetRow(sheet, "A1", &demoHeader); err != nil {
		return err
	}
	for i, row := range DemoRows {
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
