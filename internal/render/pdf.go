package render

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	"github.com/rhyrak/go-timetable/pkg/model"
)

const (
	pageWidth = 277.0 // A4 landscape minus margins
	dayWidth  = 25.0
)

// pdfEpoch stamps the document info so identical results render identical bytes.
var pdfEpoch = time.Unix(0, 0).UTC()

// PDF renders one landscape page per sheet with the grid, the elective rooms
// and the unscheduled sessions.
func PDF(res *scheduler.Result) ([]byte, error) {
	if len(res.Sheets) == 0 {
		return nil, fmt.Errorf("pdf requires at least one sheet")
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetCatalogSort(true)
	pdf.SetCreationDate(pdfEpoch)
	pdf.SetModificationDate(pdfEpoch)

	for _, sheet := range res.Sheets {
		pdf.AddPage()
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(fmt.Sprintf("%s %s", res.Group, sheet.Name)), "", 1, "C", false, 0, "")
		pdf.Ln(2)

		grid := sheet.Grid
		colWidth := (pageWidth - dayWidth) / float64(len(grid.Slots))

		pdf.SetFont("Arial", "B", 7)
		pdf.SetFillColor(230, 230, 240)
		pdf.CellFormat(dayWidth, 8, "Day", "1", 0, "C", true, 0, "")
		for _, slot := range grid.Slots {
			pdf.CellFormat(colWidth, 8, slot, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)

		for d, day := range grid.Days {
			pdf.SetFont("Arial", "B", 7)
			pdf.CellFormat(dayWidth, 12, day, "1", 0, "", false, 0, "")
			pdf.SetFont("Arial", "", 6)
			for _, text := range grid.Row(d) {
				fill := model.IsMarker(text)
				if fill {
					pdf.SetFillColor(245, 245, 245)
				}
				pdf.CellFormat(colWidth, 12, text, "1", 0, "C", fill, 0, "")
			}
			pdf.Ln(-1)
		}

		if len(sheet.ElectiveRooms) > 0 {
			pdf.Ln(4)
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(0, 6, "Elective rooms", "", 1, "", false, 0, "")
			pdf.SetFont("Arial", "", 8)
			for _, er := range sheet.ElectiveRooms {
				pdf.CellFormat(0, 5, fmt.Sprintf("%s: %s", er.Key, er.Room), "", 1, "", false, 0, "")
			}
		}

		if len(sheet.Unscheduled) > 0 {
			pdf.Ln(4)
			pdf.SetFont("Arial", "B", 9)
			pdf.CellFormat(0, 6, "Unscheduled", "", 1, "", false, 0, "")
			pdf.SetFont("Arial", "", 8)
			for _, u := range sheet.Unscheduled {
				line := fmt.Sprintf("%s %s (%s) %s: %.2f hours", u.CourseCode, u.CourseTitle, u.Faculty, u.Type, u.RemainingHours)
				pdf.CellFormat(0, 5, line, "", 1, "", false, 0, "")
			}
		}
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
