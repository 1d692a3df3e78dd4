package csvio

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	"github.com/rhyrak/go-timetable/pkg/model"
)

type sessionRow struct {
	Sheet string  `csv:"sheet"`
	Day   string  `csv:"day"`
	Code  string  `csv:"code"`
	Type  string  `csv:"type"`
	Hours float64 `csv:"hours"`
	Start string  `csv:"start"`
	End   string  `csv:"end"`
	Room  string  `csv:"room"`
}

func sessionRows(sessions []model.Session) []*sessionRow {
	rows := make([]*sessionRow, 0, len(sessions))
	for _, s := range sessions {
		row := &sessionRow{
			Sheet: s.Sheet,
			Day:   s.Day,
			Code:  s.Code,
			Type:  s.Type.Label(),
			Hours: s.Hours,
			Room:  s.Room,
		}
		if len(s.Slots) > 0 {
			row.Start, _, _ = strings.Cut(s.Slots[0], "-")
			_, row.End, _ = strings.Cut(s.Slots[len(s.Slots)-1], "-")
		}
		rows = append(rows, row)
	}
	return rows
}

// marshalFile replaces path with the csv form of rows.
func marshalFile(path string, rows any) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()
	if err := gocsv.MarshalFile(rows, out); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func ExportPlacements(path string, placements []model.Placement) error {
	return marshalFile(path, &placements)
}

func ExportSessions(path string, sessions []model.Session) error {
	rows := sessionRows(sessions)
	return marshalFile(path, &rows)
}

func ExportUnscheduled(path string, unscheduled []model.Unscheduled) error {
	return marshalFile(path, &unscheduled)
}

func ExportElectiveRooms(path string, rooms []model.ElectiveRoom) error {
	return marshalFile(path, &rooms)
}

// ExportCourses writes courses in the input file layout, so a sheet's course
// list, elective placeholders included, can be fed back in.
func ExportCourses(path string, courses []model.Course) error {
	rows := make([]*model.CourseRecord, 0, len(courses))
	for _, c := range courses {
		r := c.Record()
		rows = append(rows, &r)
	}
	return marshalFile(path, &rows)
}

// ExportGrid writes a day by slot matrix, one row per day.
func ExportGrid(path string, grid *model.Grid) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer out.Close()

	w := csv.NewWriter(out)
	if err := w.Write(append([]string{"Day"}, grid.Slots...)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	for d, day := range grid.Days {
		if err := w.Write(append([]string{day}, grid.Row(d)...)); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// PlacementsString formats placements as csv text.
func PlacementsString(placements []model.Placement) (string, error) {
	return gocsv.MarshalString(&placements)
}

// ExportResult writes every output of a group into dir and returns the
// written paths. The unscheduled file is only written when something is left.
func ExportResult(dir string, res *scheduler.Result) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create export dir: %w", err)
	}
	name := func(suffix string) string {
		return filepath.Join(dir, fmt.Sprintf("%s_%s.csv", SafeName(res.Group), suffix))
	}

	var written []string
	var sessions []model.Session
	var electiveRooms []model.ElectiveRoom
	for _, sheet := range res.Sheets {
		path := name(sheet.Name)
		if err := ExportGrid(path, sheet.Grid); err != nil {
			return written, err
		}
		written = append(written, path)

		path = name(sheet.Name + "_courses")
		if err := ExportCourses(path, sheet.Courses); err != nil {
			return written, err
		}
		written = append(written, path)

		sessions = append(sessions, sheet.Sessions...)
		electiveRooms = append(electiveRooms, sheet.ElectiveRooms...)
	}

	path := name("placements")
	if err := ExportPlacements(path, res.Placements()); err != nil {
		return written, err
	}
	written = append(written, path)

	path = name("sessions")
	if err := ExportSessions(path, sessions); err != nil {
		return written, err
	}
	written = append(written, path)

	if len(electiveRooms) > 0 {
		path = name("elective_rooms")
		if err := ExportElectiveRooms(path, electiveRooms); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if unscheduled := res.Unscheduled(); len(unscheduled) > 0 {
		path = name("unscheduled_courses")
		if err := ExportUnscheduled(path, unscheduled); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

// SafeName replaces characters that are not portable in file names.
func SafeName(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}
		return r
	}, name)
}
