package scheduler

import (
	"fmt"
	"sort"

	"go.uber.org/zap"

	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/model"
)

// Sheet is one finished grid with everything produced while filling it.
type Sheet struct {
	Name          string               `json:"name"`
	Grid          *model.Grid          `json:"grid"`
	Courses       []model.Course       `json:"courses"`
	Placements    []model.Placement    `json:"placements"`
	Sessions      []model.Session      `json:"sessions"`
	Unscheduled   []model.Unscheduled  `json:"unscheduled"`
	Electives     []Elective           `json:"electives"`
	ElectiveRooms []model.ElectiveRoom `json:"electiveRooms"`
}

// Result holds both half-term sheets of one course group.
type Result struct {
	Group   string         `json:"group"`
	Seed    uint64         `json:"seed"`
	Courses []model.Course `json:"-"`
	Sheets  []*Sheet       `json:"sheets"`
}

// Unscheduled returns the unscheduled records of every sheet.
func (r *Result) Unscheduled() []model.Unscheduled {
	var out []model.Unscheduled
	for _, s := range r.Sheets {
		out = append(out, s.Unscheduled...)
	}
	return out
}

// Placements returns the placement records of every sheet.
func (r *Result) Placements() []model.Placement {
	var out []model.Placement
	for _, s := range r.Sheets {
		out = append(out, s.Placements...)
	}
	return out
}

// Scheduler builds timetables for one course group. Room usage may be
// shared with other schedulers; everything else is private.
type Scheduler struct {
	cfg        *Configuration
	keys       Keys
	times      *TimeGrid
	classrooms []string
	labs       []string
	usage      *RoomUsage
	busy       []model.Busy
	logger     *zap.Logger
}

// New validates the slot list and splits rooms into the classroom and lab
// pools. A nil usage starts an empty one, a nil logger discards output.
func New(cfg *Configuration, slots []model.TimeSlot, rooms []model.Room, usage *RoomUsage, logger *zap.Logger) (*Scheduler, error) {
	if cfg == nil {
		cfg = NewDefaultConfiguration()
	}
	if len(cfg.Days) == 0 {
		return nil, tterrors.Clone(tterrors.ErrInvalidInput, "no days configured")
	}
	times, err := NewTimeGrid(slots, cfg.ExcludedSlots)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		usage = NewRoomUsage()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Scheduler{
		cfg:    cfg,
		keys:   NewKeys(cfg.Seed),
		times:  times,
		usage:  usage,
		logger: logger,
	}
	for _, r := range rooms {
		switch r.Kind {
		case model.RoomClassroom:
			s.classrooms = append(s.classrooms, r.ID)
		case model.RoomLab:
			s.labs = append(s.labs, r.ID)
		}
	}
	return s, nil
}

// SetFacultyBusy registers slots or whole days on which faculty cannot teach.
func (s *Scheduler) SetFacultyBusy(busy []model.Busy) {
	s.busy = append([]model.Busy(nil), busy...)
}

func (s *Scheduler) Keys() Keys {
	return s.keys
}

func (s *Scheduler) Usage() *RoomUsage {
	return s.usage
}

// BuildSheet places all courses of one sheet. Elective rooms are not
// resolved here, see Run.
func (s *Scheduler) BuildSheet(name string, courses []model.Course) (*Sheet, error) {
	if len(courses) == 0 {
		return nil, tterrors.Clone(tterrors.ErrNoCourses, fmt.Sprintf("sheet %s has no courses", name))
	}
	b := s.newBuilder(name)

	var electives, regular []model.Course
	for _, c := range courses {
		if c.Elective {
			electives = append(electives, c)
		} else {
			regular = append(regular, c)
		}
	}
	b.sheet.Electives = chooseElectives(s.keys, electives)
	for _, e := range b.sheet.Electives {
		regular = append(regular, e.Placeholder)
		b.deferred[e.Placeholder.Code] = true
	}
	sort.SliceStable(regular, func(i, j int) bool {
		return s.keys.Less(regular[i].Code, regular[j].Code)
	})
	b.sheet.Courses = regular

	for _, c := range regular {
		b.fill(c, model.Lecture, c.L, s.cfg.LectureBlock)
		b.fill(c, model.Tutorial, c.T, s.cfg.TutorialBlock)
		b.fill(c, model.Practical, c.P, s.cfg.PracticalBlock)
	}
	b.clearExcluded()

	s.logger.Info("sheet built",
		zap.String("sheet", name),
		zap.Int("courses", len(regular)),
		zap.Int("electives", len(b.sheet.Electives)),
		zap.Int("sessions", len(b.sheet.Sessions)),
		zap.Int("unscheduled", len(b.sheet.Unscheduled)),
	)
	return b.sheet, nil
}

// newBuilder starts an empty sheet with fresh faculty and lab state on top
// of the shared room usage.
func (s *Scheduler) newBuilder(name string) *sheetBuilder {
	b := &sheetBuilder{
		cfg:        s.cfg,
		keys:       s.keys,
		times:      s.times,
		classrooms: s.classrooms,
		labs:       s.labs,
		tracker:    NewTracker(s.usage),
		memo:       make(map[string]string),
		placed:     make(map[string]map[string]bool),
		deferred:   make(map[string]bool),
		sheet:      &Sheet{Name: name, Grid: model.NewGrid(s.cfg.Days, s.times.Labels())},
		logger:     s.logger,
	}
	for _, busy := range s.busy {
		if busy.WholeDay() {
			b.tracker.BlockFacultyDay(busy.Day, busy.Faculty)
		} else {
			b.tracker.MarkFacultyBusy(busy.Day, []string{busy.Slot}, busy.Faculty)
		}
	}
	return b
}

// Run builds the First_Half and Second_Half sheets of a group and then
// resolves elective rooms for both.
func (s *Scheduler) Run(group string, courses []model.Course) (*Result, error) {
	if len(courses) == 0 {
		return nil, tterrors.Clone(tterrors.ErrNoCourses, fmt.Sprintf("group %s has no courses", group))
	}
	res := &Result{Group: group, Seed: s.keys.Seed(), Courses: courses}

	halves := []struct{ sheet, half string }{
		{model.SheetFirstHalf, "1"},
		{model.SheetSecondHalf, "2"},
	}
	for _, h := range halves {
		var subset []model.Course
		for _, c := range courses {
			if c.AppliesTo(h.half) {
				subset = append(subset, c)
			}
		}
		if len(subset) == 0 {
			s.logger.Warn("no courses for sheet", zap.String("group", group), zap.String("sheet", h.sheet))
			continue
		}
		sheet, err := s.BuildSheet(h.sheet, subset)
		if err != nil {
			return nil, err
		}
		res.Sheets = append(res.Sheets, sheet)
	}
	if len(res.Sheets) == 0 {
		return nil, tterrors.Clone(tterrors.ErrNoCourses, fmt.Sprintf("group %s has no courses in either half", group))
	}

	for _, sheet := range res.Sheets {
		s.assignElectiveRooms(sheet)
	}

	s.logger.Info("timetable generated",
		zap.String("group", group),
		zap.Uint64("seed", res.Seed),
		zap.Int("sheets", len(res.Sheets)),
		zap.Int("placements", len(res.Placements())),
		zap.Int("unscheduled", len(res.Unscheduled())),
	)
	return res, nil
}
