package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"Date", "Time", "Patient", "Service", "Status", "Doctor"}

// RenderXLSX produces the spreadsheet export for a report, one sheet per
// doctor section plus a summary sheet.
func RenderXLSX(r *Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	summary := "Summary"
	if err := f.SetSheetName("Sheet1", summary); err != nil {
		return nil, err
	}
	f.SetCellValue(summary, "A1", r.ClinicName)
	f.SetCellValue(summary, "A2", r.Title)
	if r.WindowLabel != "" {
		f.SetCellValue(summary, "A3", r.WindowLabel)
	}
	f.SetCellValue(summary, "A5", "Doctor")
	f.SetCellValue(summary, "B5", "Appointments")
	f.SetCellStyle(summary, "A5", "B5", headerStyle)
	row := 6
	for _, sec := range r.Sections {
		f.SetCellValue(summary, fmt.Sprintf("A%d", row), sec.Doctor.Name)
		f.SetCellValue(summary, fmt.Sprintf("B%d", row), sec.Count)
		row++
	}
	f.SetCellValue(summary, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(summary, fmt.Sprintf("B%d", row), r.Total)

	for _, sec := range r.Sections {
		sheet := sheetName(sec.Doctor.Name)
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, fmt.Errorf("create sheet %q: %w", sheet, err)
		}
		for col, h := range exportHeader {
			cell, _ := excelize.CoordinatesToCellName(col+1, 1)
			f.SetCellValue(sheet, cell, h)
		}
		last, _ := excelize.CoordinatesToCellName(len(exportHeader), 1)
		f.SetCellStyle(sheet, "A1", last, headerStyle)

		for i, a := range sec.Appointments {
			values := []interface{}{a.DateISO, a.TimeOfDay, a.PatientName, a.ServiceType, string(a.Status), a.DoctorName}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
				f.SetCellValue(sheet, cell, v)
			}
		}
		f.SetColWidth(sheet, "A", "F", 18)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName trims a doctor name to Excel's 31-character sheet name limit.
func sheetName(name string) string {
	if len(name) > 31 {
		return name[:31]
	}
	return name
}
