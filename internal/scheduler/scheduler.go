package scheduler

import (
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/rhyrak/go-timetable/pkg/model"
)

// sheetBuilder carries the state of one sheet while it is being filled.
type sheetBuilder struct {
	cfg        *Configuration
	keys       Keys
	times      *TimeGrid
	classrooms []string
	labs       []string
	tracker    *Tracker
	memo       map[string]string          // course code -> last resolved room
	placed     map[string]map[string]bool // course code -> day
	deferred   map[string]bool            // codes placed without a room
	sheet      *Sheet
	logger     *zap.Logger
}

// fill places the hours of one session type for a course, one block per
// attempt, and records whatever is left as unscheduled.
func (b *sheetBuilder) fill(c model.Course, typ model.SessionType, required int, block float64) {
	remaining := float64(required)
	Attempt(b.cfg.MaxAttempts, func() bool {
		if !positive(remaining) {
			return false
		}
		for _, day := range b.dayOrder(typ) {
			alloc := math.Min(block, remaining)
			if b.place(day, c.Faculty, c.Code, alloc, typ, b.deferred[c.Code]) {
				remaining -= alloc
				return true
			}
		}
		return false
	})
	if !positive(remaining) {
		return
	}
	b.sheet.Unscheduled = append(b.sheet.Unscheduled, model.Unscheduled{
		Sheet:          b.sheet.Name,
		CourseCode:     c.Code,
		CourseTitle:    c.Title,
		Faculty:        c.Faculty,
		Type:           typ.Label(),
		RemainingHours: remaining,
		SemesterHalf:   c.SemesterHalf,
	})
	b.logger.Debug("session left unscheduled",
		zap.String("sheet", b.sheet.Name),
		zap.String("course", c.Code),
		zap.String("type", typ.Label()),
		zap.Float64("remaining_hours", remaining),
	)
}

// dayOrder returns the days to try for a session type. Practical sessions
// only consider days without a lab.
func (b *sheetBuilder) dayOrder(typ model.SessionType) []string {
	days := make([]string, 0, len(b.cfg.Days))
	for _, d := range b.cfg.Days {
		if typ == model.Practical && b.tracker.IsLabLocked(d) {
			continue
		}
		days = append(days, d)
	}
	suffix := "-" + string(typ)
	sort.SliceStable(days, func(i, j int) bool {
		return b.keys.Less(days[i]+suffix, days[j]+suffix)
	})
	return days
}

// place tries to put one session of the given length on day. The first free
// block long enough wins; within it the shortest leading run of slots that
// covers the hours is used.
func (b *sheetBuilder) place(day, faculty, code string, hours float64, typ model.SessionType, deferRoom bool) bool {
	if b.placed[code][day] {
		return false
	}
	if typ == model.Practical && b.tracker.IsLabLocked(day) {
		return false
	}
	d := b.sheet.Grid.DayIndex(day)
	if d < 0 {
		return false
	}

	for _, block := range b.times.FreeBlocks(b.sheet.Grid.Row(d)) {
		if !covers(b.times.span(block), hours) {
			continue
		}
		prefix := b.prefix(block, hours)
		labels := b.times.labelsOf(prefix)

		if faculty != "" && !b.tracker.IsFacultyFree(day, labels, faculty) {
			continue
		}

		room := ""
		if !deferRoom {
			var ok bool
			if room, ok = b.resolveRoom(day, labels, code, typ); !ok {
				continue
			}
		}

		b.commit(d, prefix, labels, faculty, code, hours, typ, room)
		return true
	}
	return false
}

func (b *sheetBuilder) prefix(block []int, hours float64) []int {
	var total float64
	for k, i := range block {
		total += b.times.Duration(i)
		if covers(total, hours) {
			return block[:k+1]
		}
	}
	return block
}

// resolveRoom reuses the course's previous room when it has the right kind
// and is free, otherwise picks a new one from the matching pool.
func (b *sheetBuilder) resolveRoom(day string, slots []string, code string, typ model.SessionType) (string, bool) {
	kind, pool := model.RoomClassroom, b.classrooms
	if typ == model.Practical {
		kind, pool = model.RoomLab, b.labs
	}

	if room, ok := b.memo[code]; ok && model.ClassifyRoom(room) == kind {
		if len(b.tracker.RoomsFreeFor(day, slots, []string{room})) == 1 {
			return room, true
		}
	}

	eligible := b.tracker.RoomsFreeFor(day, slots, pool)
	if len(eligible) == 0 {
		return "", false
	}
	eligible = b.keys.SortByKey(eligible)
	idx := b.keys.SeedIndex(len(eligible))
	if b.cfg.RoomPick == RoomPickCourse {
		idx = b.keys.Pick(len(eligible), code)
	}
	room := eligible[idx]
	b.memo[code] = room
	return room, true
}

func (b *sheetBuilder) commit(d int, prefix []int, labels []string, faculty, code string, hours float64, typ model.SessionType, room string) {
	grid := b.sheet.Grid
	day := grid.Days[d]
	display := typ.Display(code, room)

	for k, i := range prefix {
		grid.Set(d, i, display)
		b.sheet.Placements = append(b.sheet.Placements, model.Placement{
			Sheet:   b.sheet.Name,
			Day:     day,
			Slot:    labels[k],
			Code:    code,
			Display: display,
			Faculty: faculty,
			Room:    room,
			Type:    typ,
		})
	}
	b.sheet.Sessions = append(b.sheet.Sessions, model.Session{
		Sheet: b.sheet.Name,
		Day:   day,
		Code:  code,
		Type:  typ,
		Hours: hours,
		Slots: labels,
		Room:  room,
	})

	if b.placed[code] == nil {
		b.placed[code] = make(map[string]bool)
	}
	b.placed[code][day] = true
	b.tracker.MarkFacultyBusy(day, labels, faculty)
	if typ == model.Practical {
		b.tracker.LockLab(day)
	}
	b.tracker.CommitRoom(day, labels, room)

	last := prefix[len(prefix)-1]

	// A lone quarter-hour gap right after the session is too short for anything else.
	if gap := last + 1; b.quarterHour(d, gap) && !b.quarterHour(d, gap+1) {
		grid.Set(d, gap, model.MarkerFree)
	}

	for extra := 1; extra <= b.cfg.BreakAfterSlots; extra++ {
		i := last + extra
		if i >= b.times.Len() {
			break
		}
		if !b.usable(d, i) {
			continue
		}
		grid.Set(d, i, model.MarkerBreak)
		slot := []string{b.times.Label(i)}
		b.tracker.MarkFacultyBusy(day, slot, faculty)
		b.tracker.CommitRoom(day, slot, room)
	}
}

func (b *sheetBuilder) usable(d, i int) bool {
	return !b.times.IsExcluded(i) && b.sheet.Grid.IsFree(d, i)
}

func (b *sheetBuilder) quarterHour(d, i int) bool {
	return i < b.times.Len() && b.usable(d, i) && isClose(b.times.Duration(i), 0.25)
}

// clearExcluded blanks every excluded column of the grid.
func (b *sheetBuilder) clearExcluded() {
	for d := range b.sheet.Grid.Days {
		for i := 0; i < b.times.Len(); i++ {
			if b.times.IsExcluded(i) {
				b.sheet.Grid.Set(d, i, "")
			}
		}
	}
}
