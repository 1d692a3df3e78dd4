package model

import (
	"strconv"
	"strings"
)

// CourseRecord is one row of a courses file, column names as exported by the
// department spreadsheets.
type CourseRecord struct {
	Code         string `csv:"Course_Code" json:"code" validate:"required"`
	Title        string `csv:"Course_Title" json:"title"`
	Faculty      string `csv:"Faculty" json:"faculty"`
	LTPSC        string `csv:"L-T-P-S-C" json:"ltpsc"`
	SemesterHalf string `csv:"Semester_Half" json:"semesterHalf"`
	Elective     string `csv:"Elective" json:"elective"`
	Basket       string `csv:"basket" json:"basket"`
}

type Course struct {
	Code         string
	Title        string
	Faculty      string
	LTPSC        string
	L            int
	T            int
	P            int
	S            int
	C            int
	SemesterHalf string
	Elective     bool
	Basket       int
}

// NewCourse applies the defaulting rules for optional or malformed fields.
func NewCourse(r CourseRecord) Course {
	c := Course{
		Code:         strings.TrimSpace(r.Code),
		Title:        strings.TrimSpace(r.Title),
		Faculty:      strings.TrimSpace(r.Faculty),
		LTPSC:        strings.TrimSpace(r.LTPSC),
		SemesterHalf: strings.TrimSpace(r.SemesterHalf),
		Elective:     strings.TrimSpace(r.Elective) == "1",
	}
	if c.Title == "" {
		c.Title = c.Code
	}
	if c.SemesterHalf == "" {
		c.SemesterHalf = "0"
	}
	if b, err := strconv.Atoi(strings.TrimSpace(r.Basket)); err == nil {
		c.Basket = b
	}
	c.L, c.T, c.P, c.S, c.C = ParseLTPSC(c.LTPSC)
	return c
}

// ParseLTPSC parses an "L-T-P-S-C" hour string. Short strings are padded with
// zeros; any non-integer part zeroes all five values.
func ParseLTPSC(raw string) (l, t, p, s, c int) {
	parts := strings.Split(strings.TrimSpace(raw), "-")
	var hours [5]int
	for i, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0, 0, 0, 0, 0
		}
		if i < len(hours) {
			hours[i] = v
		}
	}
	return hours[0], hours[1], hours[2], hours[3], hours[4]
}

// AppliesTo reports whether the course runs in the given half of the term.
func (c Course) AppliesTo(half string) bool {
	return c.SemesterHalf == "0" || c.SemesterHalf == half
}

// Record converts the course back to its row form.
func (c Course) Record() CourseRecord {
	r := CourseRecord{
		Code:         c.Code,
		Title:        c.Title,
		Faculty:      c.Faculty,
		LTPSC:        c.LTPSC,
		SemesterHalf: c.SemesterHalf,
		Elective:     "0",
		Basket:       strconv.Itoa(c.Basket),
	}
	if c.Elective {
		r.Elective = "1"
	}
	return r
}
