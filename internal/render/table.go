package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	"github.com/rhyrak/go-timetable/pkg/model"
)

var (
	colorHeader = lipgloss.Color("#874BFD")
	colorMarker = lipgloss.Color("#64748B")
	colorLab    = lipgloss.Color("#00FF99")
	colorWarn   = lipgloss.Color("#F59E0B")

	titleStyle  = lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Foreground(colorHeader).Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	markerStyle = cellStyle.Foreground(colorMarker)
	labStyle    = cellStyle.Foreground(colorLab)
	warnStyle   = lipgloss.NewStyle().Foreground(colorWarn)
)

// Table renders a grid as a bordered day by slot table.
func Table(grid *model.Grid) string {
	rows := make([][]string, 0, len(grid.Days))
	for d, day := range grid.Days {
		rows = append(rows, append([]string{day}, grid.Row(d)...))
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorMarker)).
		Headers(append([]string{"Day"}, grid.Slots...)...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow || col == 0 {
				return headerStyle
			}
			text := rows[row][col]
			switch {
			case model.IsMarker(text):
				return markerStyle
			case strings.Contains(text, "(Lab-"):
				return labStyle
			}
			return cellStyle
		})
	return t.Render()
}

// Result renders every sheet of a group followed by its unscheduled sessions.
func Result(res *scheduler.Result) string {
	var sb strings.Builder
	for _, sheet := range res.Sheets {
		sb.WriteString(titleStyle.Render(fmt.Sprintf("%s / %s", res.Group, sheet.Name)))
		sb.WriteString("\n")
		sb.WriteString(Table(sheet.Grid))
		sb.WriteString("\n")
		for _, er := range sheet.ElectiveRooms {
			fmt.Fprintf(&sb, "  %s -> %s\n", er.Key, er.Room)
		}
		for _, u := range sheet.Unscheduled {
			sb.WriteString(warnStyle.Render(fmt.Sprintf("  unscheduled %s %s %.2fh", u.CourseCode, u.Type, u.RemainingHours)))
			sb.WriteString("\n")
		}
	}
	return sb.String()
}
