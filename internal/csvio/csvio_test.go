package csvio

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gocarina/gocsv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/model"
)

func TestLoadCourses(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	courses, err := LoadCourses("testdata/courses.csv", ',', zap.New(core))
	require.NoError(t, err)

	require.Len(t, courses, 5)
	assert.Equal(t, "CS301", courses[0].Code)
	assert.Equal(t, 2, courses[0].P)
	assert.Equal(t, "1", courses[1].SemesterHalf)
	assert.True(t, courses[2].Elective)
	assert.Equal(t, 1, courses[2].Basket)

	seminar := courses[4]
	assert.Equal(t, []int{0, 0, 0}, []int{seminar.L, seminar.T, seminar.P})
	assert.Equal(t, "0", seminar.SemesterHalf)
	assert.Equal(t, "", seminar.Faculty)

	assert.Equal(t, 1, logs.FilterMessage("dropping course row").Len())
}

func TestLoadCoursesErrors(t *testing.T) {
	_, err := LoadCourses("testdata/missing.csv", ',', zap.NewNop())
	assert.ErrorIs(t, err, tterrors.ErrInvalidInput)

	_, err = LoadCourses("testdata/header_only.csv", ',', zap.NewNop())
	assert.ErrorIs(t, err, tterrors.ErrNoCourses)
}

func TestReadCoursesDelimiter(t *testing.T) {
	in := "Course_Code;Course_Title;Faculty;L-T-P-S-C\nMA101;Calculus;Prof C;3-1-0-0-4\n"
	courses, err := ReadCourses(strings.NewReader(in), ';', zap.NewNop())
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "Calculus", courses[0].Title)
	assert.Equal(t, 3, courses[0].L)
}

func TestLoadRooms(t *testing.T) {
	rooms, err := LoadRooms("testdata/rooms.csv", ',', zap.NewNop())
	require.NoError(t, err)

	ids := make([]string, 0, len(rooms))
	for _, r := range rooms {
		ids = append(ids, r.ID)
	}
	assert.Equal(t, []string{"C101", "C102", "L201", "A1"}, ids)
	assert.Equal(t, model.RoomLab, rooms[2].Kind)
	assert.Equal(t, model.RoomOther, rooms[3].Kind)

	_, err = ReadRooms(strings.NewReader("Room_ID\n"), ',', zap.NewNop())
	assert.ErrorIs(t, err, tterrors.ErrNoRooms)
}

func TestLoadSlots(t *testing.T) {
	slots, err := LoadSlots("testdata/timeslots.csv", ',', zap.NewNop())
	require.NoError(t, err)
	require.Len(t, slots, 7)
	assert.Equal(t, "07:30-09:00", slots[0].Label())
	assert.InDelta(t, 0.25, slots[2].Duration(), 1e-9)

	_, err = LoadSlots("testdata/bad_slots.csv", ',', zap.NewNop())
	assert.ErrorIs(t, err, tterrors.ErrInvalidInput)

	_, err = ReadSlots(strings.NewReader("Start_Time,End_Time\n"), ',', zap.NewNop())
	assert.ErrorIs(t, err, tterrors.ErrNoSlots)
}

func TestLoadBusy(t *testing.T) {
	busy, err := LoadBusy("testdata/busy.csv", ',', zap.NewNop())
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.True(t, busy[0].WholeDay())
	assert.Equal(t, "09:00-10:30", busy[1].Slot)

	busy, err = LoadBusy("", ',', zap.NewNop())
	assert.NoError(t, err)
	assert.Empty(t, busy)
}

func TestExportResult(t *testing.T) {
	slots, err := LoadSlots("testdata/timeslots.csv", ',', zap.NewNop())
	require.NoError(t, err)
	rooms, err := LoadRooms("testdata/rooms.csv", ',', zap.NewNop())
	require.NoError(t, err)
	courses, err := LoadCourses("testdata/courses.csv", ',', zap.NewNop())
	require.NoError(t, err)

	s, err := scheduler.New(scheduler.NewDefaultConfiguration(), slots, rooms, nil, nil)
	require.NoError(t, err)
	res, err := s.Run("CSE 3/A", courses)
	require.NoError(t, err)

	dir := t.TempDir()
	written, err := ExportResult(dir, res)
	require.NoError(t, err)

	assert.Contains(t, written, filepath.Join(dir, "CSE_3_A_First_Half.csv"))
	assert.Contains(t, written, filepath.Join(dir, "CSE_3_A_placements.csv"))
	assert.Contains(t, written, filepath.Join(dir, "CSE_3_A_elective_rooms.csv"))

	f, err := os.Open(filepath.Join(dir, "CSE_3_A_placements.csv"))
	require.NoError(t, err)
	defer f.Close()
	var placements []*model.Placement
	require.NoError(t, gocsv.UnmarshalFile(f, &placements))
	assert.Len(t, placements, len(res.Placements()))

	c, err := os.Open(filepath.Join(dir, "CSE_3_A_First_Half_courses.csv"))
	require.NoError(t, err)
	defer c.Close()
	reread, err := ReadCourses(c, ',', zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, res.Sheets[0].Courses, reread)

	g, err := os.Open(filepath.Join(dir, "CSE_3_A_First_Half.csv"))
	require.NoError(t, err)
	defer g.Close()
	rows, err := csv.NewReader(g).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, "Day", rows[0][0])
	assert.Equal(t, "07:30-09:00", rows[0][1])
	assert.Equal(t, "Monday", rows[1][0])
	assert.Equal(t, "", rows[1][1])
}

func TestPlacementsString(t *testing.T) {
	out, err := PlacementsString([]model.Placement{
		{Sheet: "First_Half", Day: "Monday", Slot: "09:00-10:30", Code: "CS301", Display: "CS301 (C101)", Room: "C101", Type: model.Lecture},
	})
	require.NoError(t, err)
	assert.Equal(t, "sheet,day,slot,code,display,faculty,room,type\nFirst_Half,Monday,09:00-10:30,CS301,CS301 (C101),,C101,L\n", out)
}
