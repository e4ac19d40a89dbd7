// Package sheet converts grade listings to and from xlsx workbooks.
package sheet

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/alexsergivan/transliterator"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/bigredeye/gradebook/internal/models"
	"github.com/bigredeye/gradebook/internal/validation"
)

const sheetName = "Calificaciones"

var header = []interface{}{"ID", "Nombre", "Calificación"}

// RowError describes a spreadsheet row that could not be imported.
// Row numbers are 1-based, as shown by spreadsheet applications.
type RowError struct {
	Row     int
	Message string
}

func (e RowError) Error() string {
	return fmt.Sprintf("fila %d: %s", e.Row, e.Message)
}

func Export(w io.Writer, grades []models.Grade) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return errors.Wrap(err, "Failed to name sheet")
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return errors.Wrap(err, "Failed to write header")
	}

	for i, grade := range grades {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{grade.ID, grade.Name, grade.Score}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return errors.Wrapf(err, "Failed to write row %d", i+2)
		}
	}

	if err := f.Write(w); err != nil {
		return errors.Wrap(err, "Failed to write workbook")
	}
	return nil
}

// Import reads grades from the first sheet, skipping the header row. Rows
// that fail to parse or validate are reported and left out of the result.
// Blank rows are ignored.
func Import(r io.Reader) ([]models.Grade, []RowError, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, nil, errors.Wrap(err, "Failed to open workbook")
	}
	defer f.Close()

	name := f.GetSheetName(0)
	if name == "" {
		return nil, nil, errors.New("Workbook does not contain any sheets")
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "Failed to read sheet %s", name)
	}

	grades := make([]models.Grade, 0, len(rows))
	var rowErrors []RowError
	for i, row := range rows {
		if i == 0 {
			continue
		}
		grade, ok, rowErr := parseRow(i+1, row)
		if rowErr != nil {
			rowErrors = append(rowErrors, *rowErr)
			continue
		}
		if ok {
			grades = append(grades, grade)
		}
	}
	return grades, rowErrors, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return strings.TrimSpace(row[i])
	}
	return ""
}

func parseRow(num int, row []string) (models.Grade, bool, *RowError) {
	idText, name, scoreText := cellAt(row, 0), cellAt(row, 1), cellAt(row, 2)
	if idText == "" && name == "" && scoreText == "" {
		return models.Grade{}, false, nil
	}

	grade := models.Grade{Name: name}
	if idText != "" {
		id, err := strconv.ParseUint(idText, 10, 64)
		if err != nil {
			return grade, false, &RowError{num, fmt.Sprintf("identificador inválido %q", idText)}
		}
		grade.ID = uint(id)
	}

	score, err := strconv.ParseFloat(scoreText, 64)
	if err != nil || math.IsNaN(score) || math.IsInf(score, 0) {
		return grade, false, &RowError{num, validation.MessageNotANumber}
	}
	grade.Score = score

	if err := validation.Check(&grade); err != nil {
		return grade, false, &RowError{num, err.Error()}
	}
	return grade, true, nil
}

var translit = transliterator.NewTransliterator(nil)

// FileName builds an ASCII download name for a listing filtered by keyword.
func FileName(keyword string) string {
	slug := strings.Builder{}
	for _, r := range strings.ToLower(translit.Transliterate(keyword, "en")) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			slug.WriteRune(r)
		case slug.Len() > 0 && !strings.HasSuffix(slug.String(), "-"):
			slug.WriteRune('-')
		}
	}
	name := strings.TrimSuffix(slug.String(), "-")
	if name == "" {
		return "calificaciones.xlsx"
	}
	return "calificaciones-" + name + ".xlsx"
}
