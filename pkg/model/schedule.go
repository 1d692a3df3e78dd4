package model

import "fmt"

// Markers written into grid cells that do not represent a session.
const (
	MarkerBreak = "BREAK"
	MarkerFree  = "FREE"
)

// Sheet names for the two half-term grids.
const (
	SheetFirstHalf  = "First_Half"
	SheetSecondHalf = "Second_Half"
)

type SessionType string

const (
	Lecture   SessionType = "L"
	Tutorial  SessionType = "T"
	Practical SessionType = "P"
)

// Label is the name used in unscheduled reports.
func (t SessionType) Label() string {
	switch t {
	case Lecture:
		return "Lecture"
	case Tutorial:
		return "Tutorial"
	case Practical:
		return "Lab"
	}
	return string(t)
}

// Display formats the cell text of one session slot.
func (t SessionType) Display(code, room string) string {
	switch t {
	case Tutorial:
		if room == "" {
			return code + "T"
		}
		return fmt.Sprintf("%sT (%s)", code, room)
	case Practical:
		if room == "" {
			return code
		}
		return fmt.Sprintf("%s (Lab-%s)", code, room)
	}
	if room == "" {
		return code
	}
	return fmt.Sprintf("%s (%s)", code, room)
}

// Placement is one occupied (day, slot) cell of a sheet.
type Placement struct {
	Sheet   string      `csv:"sheet" json:"sheet" db:"sheet"`
	Day     string      `csv:"day" json:"day" db:"day"`
	Slot    string      `csv:"slot" json:"slot" db:"slot"`
	Code    string      `csv:"code" json:"code" db:"course_code"`
	Display string      `csv:"display" json:"display" db:"display"`
	Faculty string      `csv:"faculty" json:"faculty" db:"faculty"`
	Room    string      `csv:"room" json:"room" db:"room"`
	Type    SessionType `csv:"type" json:"type" db:"session_type"`
}

// Session is one successful placement call spanning one or more slots.
type Session struct {
	Sheet string      `csv:"sheet" json:"sheet"`
	Day   string      `csv:"day" json:"day"`
	Code  string      `csv:"code" json:"code"`
	Type  SessionType `csv:"type" json:"type"`
	Hours float64     `csv:"hours" json:"hours"`
	Slots []string    `csv:"-" json:"slots"`
	Room  string      `csv:"room" json:"room"`
}

// Unscheduled records the hours of one session type left after all attempts.
type Unscheduled struct {
	Sheet          string  `csv:"sheet" json:"sheet" db:"sheet"`
	CourseCode     string  `csv:"course_code" json:"courseCode" db:"course_code"`
	CourseTitle    string  `csv:"course_title" json:"courseTitle" db:"course_title"`
	Faculty        string  `csv:"faculty" json:"faculty" db:"faculty"`
	Type           string  `csv:"type" json:"type" db:"session_type"`
	RemainingHours float64 `csv:"remaining_hours" json:"remainingHours" db:"remaining_hours"`
	SemesterHalf   string  `csv:"semester_half" json:"semesterHalf" db:"semester_half"`
}

// ElectiveRoom is the room resolved for one basket placeholder.
type ElectiveRoom struct {
	Sheet  string `csv:"sheet" json:"sheet"`
	Key    string `csv:"key" json:"key"`
	Basket int    `csv:"basket" json:"basket"`
	Title  string `csv:"title" json:"title"`
	Room   string `csv:"room" json:"room"`
}

// ElectiveCode is the placeholder course code of a basket.
func ElectiveCode(basket int) string {
	return fmt.Sprintf("Elective_%d", basket)
}

// Grid holds the display text of every (day, slot) cell of a sheet.
type Grid struct {
	Days  []string   `json:"days"`
	Slots []string   `json:"slots"`
	Cells [][]string `json:"cells"`
}

/* NewGrid creates an empty grid. */
func NewGrid(days, slots []string) *Grid {
	g := &Grid{Days: append([]string(nil), days...), Slots: append([]string(nil), slots...)}
	g.Cells = make([][]string, len(days))
	for i := range g.Cells {
		g.Cells[i] = make([]string, len(slots))
	}
	return g
}

func (g *Grid) Row(day int) []string {
	return g.Cells[day]
}

func (g *Grid) Get(day, slot int) string {
	return g.Cells[day][slot]
}

func (g *Grid) Set(day, slot int, text string) {
	g.Cells[day][slot] = text
}

func (g *Grid) IsFree(day, slot int) bool {
	return g.Cells[day][slot] == ""
}

// DayIndex returns the row of the named day or -1.
func (g *Grid) DayIndex(day string) int {
	for i, d := range g.Days {
		if d == day {
			return i
		}
	}
	return -1
}

// IsMarker reports whether a cell holds a non-session marker.
func IsMarker(text string) bool {
	return text == MarkerBreak || text == MarkerFree
}
