package sheet

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/xuri/excelize/v2"

	"github.com/bigredeye/gradebook/internal/models"
)

func TestExportImport(t *testing.T) {
	grades := []models.Grade{
		{ID: 1, Name: "Ana", Score: 90},
		{ID: 2, Name: "Anabel", Score: 70.25},
		{ID: 7, Name: "José Pérez", Score: 0},
	}

	buf := bytes.Buffer{}
	if err := Export(&buf, grades); err != nil {
		t.Fatal("Failed to export:", err)
	}

	imported, rowErrors, err := Import(&buf)
	if err != nil {
		t.Fatal("Failed to import:", err)
	}
	if len(rowErrors) != 0 {
		t.Fatalf("Unexpected row errors: %v", rowErrors)
	}
	if diff := cmp.Diff(grades, imported); diff != "" {
		t.Fatalf("Imported grades differ (-want +got):\n%s", diff)
	}
}

func makeWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatal(err)
		}
		row := row
		if err := f.SetSheetRow("Sheet1", cell, &row); err != nil {
			t.Fatal(err)
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestImportSkipsInvalidRows(t *testing.T) {
	workbook := makeWorkbook(t, [][]interface{}{
		{"ID", "Nombre", "Calificación"},
		{"", "Leo", 105},
		{"", "Eva", 88},
		{"abc", "Sara", 50},
		{"", "", 10},
		{"", "Tomás", "diez"},
		{},
		{12, "Iker", 99.5},
	})

	grades, rowErrors, err := Import(workbook)
	if err != nil {
		t.Fatal("Failed to import:", err)
	}

	expected := []models.Grade{
		{Name: "Eva", Score: 88},
		{ID: 12, Name: "Iker", Score: 99.5},
	}
	if diff := cmp.Diff(expected, grades); diff != "" {
		t.Fatalf("Unexpected grades (-want +got):\n%s", diff)
	}

	rows := make([]int, 0, len(rowErrors))
	for _, e := range rowErrors {
		rows = append(rows, e.Row)
	}
	if diff := cmp.Diff([]int{2, 4, 5, 6}, rows); diff != "" {
		t.Fatalf("Unexpected failed rows (-want +got):\n%s", diff)
	}
}

func TestImportGarbage(t *testing.T) {
	if _, _, err := Import(bytes.NewBufferString("not a workbook")); err == nil {
		t.Fatal("Expected error for garbage input")
	}
}

func TestFileName(t *testing.T) {
	for keyword, expected := range map[string]string{
		"":           "calificaciones.xlsx",
		"Ana":        "calificaciones-ana.xlsx",
		"José Pérez": "calificaciones-jose-perez.xlsx",
		"  %% ":      "calificaciones.xlsx",
	} {
		if actual := FileName(keyword); actual != expected {
			t.Errorf("FileName(%q) = %q, expected %q", keyword, actual, expected)
		}
	}
}
