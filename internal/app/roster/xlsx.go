// Package roster handles spreadsheet import and export of the school roster.
package roster

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/common"
	"github.com/snroboticslabhead-pixel/studenttaskboard/internal/domain/model"
)

const (
	studentSheet      = "Students"
	teacherSheet      = "Teachers"
	instructionsSheet = "Instructions"
)

// ExportStudents renders the roster into a workbook. Password cells show the
// shared default for freshly imported accounts; stored hashes are never
// exported.
func ExportStudents(students []model.Student, defaultPassword string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", studentSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"Student ID", "Name", "Campus", "Grade", "Section", "Default Password"}
	if err := writeRow(f, studentSheet, 1, headers); err != nil {
		return nil, err
	}
	for i, s := range students {
		row := []string{s.StudentID, s.Name, s.Campus, s.Grade, s.Section, defaultPassword}
		if err := writeRow(f, studentSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := addInstructions(f, [][]string{
		{"How to use this file"},
		{"Student IDs are assigned by the system; leave the column empty when importing new students."},
		{"Campus must be one of: " + campusNames()},
		{"Grade must be one of: 1th Class .. 10th Class."},
		{"The default password applies until the student changes it."},
	}); err != nil {
		return nil, err
	}
	return f, nil
}

// ExportTeachers renders the teacher list, including permission flags.
func ExportTeachers(teachers []model.Teacher, defaultPassword string) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", teacherSheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	headers := []string{"Teacher ID", "Name", "Email", "Campus", "Manage Students", "Manage Tasks", "Default Password"}
	if err := writeRow(f, teacherSheet, 1, headers); err != nil {
		return nil, err
	}
	for i, t := range teachers {
		row := []string{
			t.TeacherID, t.Name, t.Email, t.Campus,
			yesNo(t.CanManageStudents), yesNo(t.CanManageTasks), defaultPassword,
		}
		if err := writeRow(f, teacherSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	if err := addInstructions(f, [][]string{
		{"How to use this file"},
		{"Teacher IDs are assigned by the system."},
		{"Permission columns accept Yes or No."},
	}); err != nil {
		return nil, err
	}
	return f, nil
}

// StudentRow is one parsed roster line from an uploaded workbook.
type StudentRow struct {
	Name    string
	Campus  string
	Grade   string
	Section string
}

// ImportStudents parses an uploaded workbook back into roster rows. The first
// row is treated as a header; rows missing a name are skipped. Validation of
// campus and grade happens at creation time so one bad row reports its line
// number here instead of failing the whole file silently.
func ImportStudents(r io.Reader) ([]StudentRow, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, common.Errorf("%w: not a readable workbook: %v", common.ErrValidation, err)
	}
	defer f.Close()

	sheet := studentSheet
	if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, common.Errorf("%w: failed to read sheet %q: %v", common.ErrValidation, sheet, err)
	}
	if len(rows) < 2 {
		return nil, common.Errorf("%w: workbook has no data rows", common.ErrValidation)
	}

	// Column order follows the export layout; an ID column may or may not be
	// present, so detect it from the header.
	offset := 0
	if len(rows[0]) > 0 && strings.EqualFold(strings.TrimSpace(rows[0][0]), "Student ID") {
		offset = 1
	}

	var out []StudentRow
	for _, row := range rows[1:] {
		get := func(i int) string {
			if i+offset < len(row) {
				return strings.TrimSpace(row[i+offset])
			}
			return ""
		}
		name := get(0)
		if name == "" {
			continue
		}
		out = append(out, StudentRow{
			Name:    name,
			Campus:  get(1),
			Grade:   get(2),
			Section: get(3),
		})
	}
	if len(out) == 0 {
		return nil, common.Errorf("%w: workbook has no usable rows", common.ErrValidation)
	}
	return out, nil
}

func writeRow(f *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func addInstructions(f *excelize.File, lines [][]string) error {
	if _, err := f.NewSheet(instructionsSheet); err != nil {
		return fmt.Errorf("failed to add instructions sheet: %w", err)
	}
	for i, line := range lines {
		if err := writeRow(f, instructionsSheet, i+1, line); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

func campusNames() string {
	names := make([]string, 0, 3)
	for _, c := range model.DefaultCampuses() {
		names = append(names, c.Name)
	}
	return strings.Join(names, ", ")
}
