package scheduler

import "math"

// RoomPick selects how a room is chosen among eligible candidates.
type RoomPick string

const (
	// RoomPickSeed indexes the key-sorted candidates by seed mod count.
	RoomPickSeed RoomPick = "seed"
	// RoomPickCourse indexes the key-sorted candidates by key(code) mod count.
	RoomPickCourse RoomPick = "course"
)

type Configuration struct {
	CoursesFile     string
	RoomsFile       string
	SlotsFile       string
	BusyFile        string
	ExportDir       string
	Delimiter       rune
	Seed            uint64
	Days            []string
	ExcludedSlots   []string
	MaxAttempts     int
	BreakAfterSlots int
	LectureBlock    float64
	TutorialBlock   float64
	PracticalBlock  float64
	RoomPick        RoomPick
}

func NewDefaultConfiguration() *Configuration {
	return &Configuration{
		CoursesFile:     "./data/courses.csv",
		RoomsFile:       "./data/rooms.csv",
		SlotsFile:       "./data/timeslots.csv",
		ExportDir:       "./out",
		Delimiter:       ',',
		Seed:            314156,
		Days:            []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		ExcludedSlots:   []string{"07:30-09:00", "13:15-14:00", "17:40-18:30"},
		MaxAttempts:     10,
		BreakAfterSlots: 1,
		LectureBlock:    1.5,
		TutorialBlock:   1,
		PracticalBlock:  2,
		RoomPick:        RoomPickSeed,
	}
}

// Attempt calls step at most maxAttempts times and stops at the first call
// that makes no progress. Returns the number of calls that made progress.
func Attempt(maxAttempts int, step func() bool) int {
	progressed := 0
	for i := 0; i < maxAttempts; i++ {
		if !step() {
			break
		}
		progressed++
	}
	return progressed
}

// Durations are sums of float hours, compare them with a tolerance.
const epsilon = 1e-9

func covers(have, need float64) bool {
	return have >= need-epsilon
}

func positive(hours float64) bool {
	return hours > epsilon
}

func isClose(a, b float64) bool {
	return math.Abs(a-b) <= epsilon
}
