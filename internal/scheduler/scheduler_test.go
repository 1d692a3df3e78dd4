package scheduler

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/go-timetable/pkg/model"
)

func testConfig(days ...string) *Configuration {
	cfg := NewDefaultConfiguration()
	if len(days) > 0 {
		cfg.Days = days
	}
	cfg.ExcludedSlots = nil
	return cfg
}

func testRooms(ids ...string) []model.Room {
	out := make([]model.Room, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.NewRoom(id))
	}
	return out
}

func testCourse(code, faculty, ltpsc string) model.Course {
	return model.NewCourse(model.CourseRecord{Code: code, Faculty: faculty, LTPSC: ltpsc})
}

func newTestScheduler(t *testing.T, cfg *Configuration, slots []string, rooms []string, usage *RoomUsage) *Scheduler {
	t.Helper()
	s, err := New(cfg, mustSlots(t, slots...), testRooms(rooms...), usage, nil)
	require.NoError(t, err)
	return s
}

func TestPlaceUsesFirstFittingPrefix(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:30"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "Prof A", "CS101", 1.5, model.Lecture, false))

	assert.Equal(t, []string{"CS101 (C1)", "CS101 (C1)", model.MarkerBreak}, b.sheet.Grid.Row(0))
	require.Len(t, b.sheet.Sessions, 1)
	assert.Equal(t, []string{"09:00-10:00", "10:00-11:00"}, b.sheet.Sessions[0].Slots)
	assert.InDelta(t, 1.5, b.sheet.Sessions[0].Hours, 1e-9)
	assert.Len(t, b.sheet.Placements, 2)

	// The break slot keeps both the lecturer and the room.
	assert.False(t, b.tracker.IsFacultyFree("Monday", []string{"11:00-12:30"}, "Prof A"))
	assert.True(t, s.Usage().Holds("Monday", "11:00-12:30", "C1"))
}

func TestPlaceRejectsSameCourseTwicePerDay(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "", "CS101", 1, model.Lecture, false))
	assert.False(t, b.place("Monday", "", "CS101", 1, model.Tutorial, false))
}

func TestPlaceFacultyConflictMovesToNextBlock(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00"}, []string{"C1"}, nil)
	b := s.newBuilder("S")
	b.tracker.MarkFacultyBusy("Monday", []string{"09:00-10:00"}, "Prof A")

	// Only one free block and its prefix clashes.
	assert.False(t, b.place("Monday", "Prof A", "CS101", 1, model.Lecture, false))

	b.sheet.Grid.Set(0, 1, "X")
	require.True(t, b.place("Monday", "Prof A", "CS101", 1, model.Lecture, false))
	assert.Equal(t, []string{"11:00-12:00"}, b.sheet.Sessions[0].Slots)
}

func TestPlaceMarksQuarterHourGapFree(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-10:15", "10:15-11:15"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "", "CS101", 1, model.Lecture, false))
	assert.Equal(t, []string{"CS101 (C1)", model.MarkerFree, ""}, b.sheet.Grid.Row(0))
}

func TestPlaceLeavesQuarterHourRunOpen(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-10:15", "10:15-10:30", "10:30-11:30"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "", "CS101", 1, model.Lecture, false))
	assert.Equal(t, []string{"CS101 (C1)", model.MarkerBreak, "", ""}, b.sheet.Grid.Row(0))
}

func TestPlaceSkipsExcludedSlots(t *testing.T) {
	cfg := testConfig("Monday")
	cfg.ExcludedSlots = []string{"10:00-11:00"}
	s := newTestScheduler(t, cfg, []string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "", "CS101", 1, model.Lecture, false))
	assert.Equal(t, "", b.sheet.Grid.Get(0, 1))
	assert.False(t, b.place("Monday", "", "CS102", 2, model.Lecture, false))
}

func TestPlaceLabLock(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00"}, []string{"L1", "L2"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "", "CS101", 2, model.Practical, false))
	assert.True(t, b.tracker.IsLabLocked("Monday"))
	assert.Contains(t, b.sheet.Grid.Get(0, 0), "(Lab-L")
	assert.False(t, b.place("Monday", "", "CS102", 1, model.Practical, false))
}

func TestPlaceNeedsMatchingRoomKind(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"),
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:00"}, []string{"L1", "X9"}, nil)
	b := s.newBuilder("S")

	assert.False(t, b.place("Monday", "", "CS101", 1, model.Lecture, false))
	assert.True(t, b.place("Monday", "", "CS101", 1, model.Practical, false))
	assert.True(t, b.place("Monday", "", "Elective_1", 1, model.Lecture, true))
}

func TestPlaceElectiveHasNoRoom(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"), []string{"09:00-10:00"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "Prof E", "Elective_1", 1, model.Tutorial, true))
	assert.Equal(t, "Elective_1T", b.sheet.Grid.Get(0, 0))
	assert.Equal(t, "", b.sheet.Placements[0].Room)
	assert.False(t, s.Usage().Holds("Monday", "09:00-10:00", "C1"))
}

func TestRoomMemoReusedAcrossDays(t *testing.T) {
	s := newTestScheduler(t, testConfig(),
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:30"}, []string{"C1", "C2", "C3"}, nil)

	sheet, err := s.BuildSheet("S", []model.Course{testCourse("CS101", "Prof A", "3-0-0-0-3")})
	require.NoError(t, err)
	require.Len(t, sheet.Sessions, 2)
	assert.Equal(t, sheet.Sessions[0].Room, sheet.Sessions[1].Room)

	sorted := s.Keys().SortByKey([]string{"C1", "C2", "C3"})
	assert.Equal(t, sorted[s.Keys().SeedIndex(3)], sheet.Sessions[0].Room)
}

func TestRoomPickByCourse(t *testing.T) {
	cfg := testConfig("Monday")
	cfg.RoomPick = RoomPickCourse
	s := newTestScheduler(t, cfg, []string{"09:00-10:00"}, []string{"C1", "C2", "C3", "C4"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "", "MA201", 1, model.Lecture, false))
	sorted := s.Keys().SortByKey([]string{"C1", "C2", "C3", "C4"})
	assert.Equal(t, sorted[s.Keys().Pick(4, "MA201")], b.sheet.Sessions[0].Room)
}

func TestSharedRoomUsageBlocksPlacement(t *testing.T) {
	usage := NewRoomUsage()
	usage.Commit("Monday", []string{"09:00-10:00"}, "C1")
	s := newTestScheduler(t, testConfig("Monday"), []string{"09:00-10:00"}, []string{"C1"}, usage)

	sheet, err := s.BuildSheet("S", []model.Course{testCourse("CS101", "", "1-0-0-0-1")})
	require.NoError(t, err)
	assert.Empty(t, sheet.Sessions)
	require.Len(t, sheet.Unscheduled, 1)
	assert.Equal(t, "Lecture", sheet.Unscheduled[0].Type)
	assert.InDelta(t, 1.0, sheet.Unscheduled[0].RemainingHours, 1e-9)
}

func TestPlaceBreakSpansSeveralSlots(t *testing.T) {
	cfg := testConfig("Monday")
	cfg.BreakAfterSlots = 2
	s := newTestScheduler(t, cfg,
		[]string{"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00"}, []string{"C1"}, nil)
	b := s.newBuilder("S")

	require.True(t, b.place("Monday", "Prof A", "X", 1, model.Lecture, false))

	assert.Equal(t, []string{"X (C1)", model.MarkerBreak, model.MarkerBreak, ""}, b.sheet.Grid.Row(0))
	for _, slot := range []string{"10:00-11:00", "11:00-12:00"} {
		assert.True(t, s.Usage().Holds("Monday", slot, "C1"), slot)
		assert.False(t, b.tracker.IsFacultyFree("Monday", []string{slot}, "Prof A"), slot)
	}
	assert.False(t, s.Usage().Holds("Monday", "12:00-13:00", "C1"))
}

func TestRoomMemoFallsBackWhenTaken(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"), []string{"09:00-10:00"}, []string{"C1", "C2"}, nil)
	b := s.newBuilder("S")
	b.memo["CS101"] = "C1"
	s.Usage().Commit("Monday", []string{"09:00-10:00"}, "C1")

	require.True(t, b.place("Monday", "", "CS101", 1, model.Lecture, false))

	assert.Equal(t, "C2", b.sheet.Sessions[0].Room)
	assert.Equal(t, "C2", b.memo["CS101"])
}

func TestRoomMemoIgnoredForOtherKind(t *testing.T) {
	s := newTestScheduler(t, testConfig("Monday"), []string{"09:00-10:00"}, []string{"C1", "L1"}, nil)
	b := s.newBuilder("S")
	b.memo["CS101"] = "C1"

	require.True(t, b.place("Monday", "", "CS101", 1, model.Practical, false))

	assert.Equal(t, "L1", b.sheet.Sessions[0].Room)
	assert.Equal(t, "L1", b.memo["CS101"])
}

func electiveSheet(baskets ...int) *Sheet {
	sheet := &Sheet{Name: model.SheetFirstHalf}
	for _, id := range baskets {
		code := model.ElectiveCode(id)
		title := fmt.Sprintf("Topic %d", id)
		sheet.Electives = append(sheet.Electives, Elective{
			Basket:      id,
			Chosen:      model.Course{Code: fmt.Sprintf("CS36%d", id), Title: title},
			Placeholder: model.Course{Code: code, Title: title, Basket: id},
		})
		for _, day := range []string{"Monday", "Wednesday"} {
			sheet.Placements = append(sheet.Placements, model.Placement{
				Sheet: sheet.Name, Day: day, Slot: fmt.Sprintf("1%d:00-1%d:00", id, id+1), Code: code, Type: model.Lecture,
			})
		}
	}
	return sheet
}

func TestElectiveRoomsDistinctWhenFree(t *testing.T) {
	s := newTestScheduler(t, testConfig(), []string{"09:00-10:00"}, []string{"C1", "C2", "C3"}, nil)
	sheet := electiveSheet(1, 2, 3)

	s.assignElectiveRooms(sheet)

	require.Len(t, sheet.ElectiveRooms, 3)
	var rooms []string
	for i, er := range sheet.ElectiveRooms {
		assert.Equal(t, sheet.Electives[i].RoomKey(), er.Key)
		rooms = append(rooms, er.Room)
	}
	assert.Equal(t, []string{"C1", "C2", "C3"}, rooms)

	// Rooms are committed across every placeholder occurrence of the sheet.
	for _, p := range sheet.Placements {
		for _, room := range rooms {
			assert.True(t, s.Usage().Holds(p.Day, p.Slot, room), p.Slot)
		}
	}
}

func TestElectiveRoomsCycleWhenExhausted(t *testing.T) {
	usage := NewRoomUsage()
	sheet := electiveSheet(1, 2, 3)
	for _, p := range sheet.Placements {
		usage.Commit(p.Day, []string{p.Slot}, "C1")
		usage.Commit(p.Day, []string{p.Slot}, "C2")
	}
	s := newTestScheduler(t, testConfig(), []string{"09:00-10:00"}, []string{"C1", "C2"}, usage)

	s.assignElectiveRooms(sheet)

	require.Len(t, sheet.ElectiveRooms, 3)
	first, second, third := sheet.ElectiveRooms[0].Room, sheet.ElectiveRooms[1].Room, sheet.ElectiveRooms[2].Room
	assert.ElementsMatch(t, []string{"C1", "C2"}, []string{first, second})
	assert.Equal(t, first, third)
}
