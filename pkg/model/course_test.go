package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewCourseValidFields(t *testing.T) {
	c := NewCourse(CourseRecord{
		Code:         " CS101 ",
		Title:        " Intro to Programming ",
		Faculty:      "Prof X",
		LTPSC:        "3-1-0-0-4",
		SemesterHalf: "1",
		Elective:     "0",
	})

	assert.Equal(t, "CS101", c.Code)
	assert.Equal(t, "Intro to Programming", c.Title)
	assert.Equal(t, "Prof X", c.Faculty)
	assert.Equal(t, []int{3, 1, 0, 0, 4}, []int{c.L, c.T, c.P, c.S, c.C})
	assert.False(t, c.Elective)
	assert.Equal(t, 0, c.Basket)
}

func TestNewCourseDefaults(t *testing.T) {
	c := NewCourse(CourseRecord{Code: "CS103", LTPSC: "3-0-0-0-3"})

	assert.Equal(t, "CS103", c.Title)
	assert.Equal(t, "", c.Faculty)
	assert.Equal(t, "0", c.SemesterHalf)
	assert.True(t, c.AppliesTo("1"))
	assert.True(t, c.AppliesTo("2"))
}

func TestNewCourseElective(t *testing.T) {
	c := NewCourse(CourseRecord{Code: "CS104", LTPSC: "3-1-0-0-4", Elective: "1", Basket: "2"})
	assert.True(t, c.Elective)
	assert.Equal(t, 2, c.Basket)

	c = NewCourse(CourseRecord{Code: "CS105", Elective: "yes", Basket: "x"})
	assert.False(t, c.Elective)
	assert.Equal(t, 0, c.Basket)
}

func TestParseLTPSC(t *testing.T) {
	tests := []struct {
		raw  string
		want [5]int
	}{
		{"3-1-2-0-4", [5]int{3, 1, 2, 0, 4}},
		{"3-1", [5]int{3, 1, 0, 0, 0}},
		{"3-1-x-0-4", [5]int{}},
		{"", [5]int{}},
		{"2-0-2-0-3-9", [5]int{2, 0, 2, 0, 3}},
		{" 1 - 1 - 1 ", [5]int{1, 1, 1, 0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			l, tu, p, s, c := ParseLTPSC(tt.raw)
			assert.Equal(t, tt.want, [5]int{l, tu, p, s, c})
		})
	}
}

func TestSemesterHalf(t *testing.T) {
	c := NewCourse(CourseRecord{Code: "MA201", SemesterHalf: "2"})
	assert.False(t, c.AppliesTo("1"))
	assert.True(t, c.AppliesTo("2"))
}

func TestClassifyRoom(t *testing.T) {
	assert.Equal(t, RoomLab, ClassifyRoom("L105"))
	assert.Equal(t, RoomLab, ClassifyRoom("lab-2"))
	assert.Equal(t, RoomClassroom, ClassifyRoom("C004"))
	assert.Equal(t, RoomOther, ClassifyRoom("A1"))
	assert.Equal(t, RoomOther, ClassifyRoom(""))
}

func TestCourseRecordRoundTrip(t *testing.T) {
	for _, r := range []CourseRecord{
		{Code: "CS101", Title: "Intro", Faculty: "Prof X", LTPSC: "3-1-0-0-4", SemesterHalf: "1", Elective: "0", Basket: "0"},
		{Code: "CS361", Title: "Vision", Faculty: "Prof E", LTPSC: "3-0-0-0-3", SemesterHalf: "0", Elective: "1", Basket: "2"},
	} {
		c := NewCourse(r)
		assert.Equal(t, r, c.Record())
		assert.Equal(t, c, NewCourse(c.Record()))
	}
}
