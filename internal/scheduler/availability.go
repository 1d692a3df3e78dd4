package scheduler

// RoomUsage records which rooms are taken in each (day, slot). One instance
// can be handed to several schedulers run in sequence so that groups sharing
// a building never book the same room twice. It is not safe for concurrent use.
type RoomUsage struct {
	used map[string]map[string]map[string]bool // day -> slot -> room
}

func NewRoomUsage() *RoomUsage {
	return &RoomUsage{used: make(map[string]map[string]map[string]bool)}
}

func (u *RoomUsage) Holds(day, slot, room string) bool {
	return u.used[day][slot][room]
}

// IsFree reports whether room is unused in every slot of the span.
func (u *RoomUsage) IsFree(day string, slots []string, room string) bool {
	for _, s := range slots {
		if u.Holds(day, s, room) {
			return false
		}
	}
	return true
}

// Free filters pool to the rooms free across the whole span, keeping pool order.
func (u *RoomUsage) Free(day string, slots []string, pool []string) []string {
	var out []string
	for _, r := range pool {
		if u.IsFree(day, slots, r) {
			out = append(out, r)
		}
	}
	return out
}

func (u *RoomUsage) Commit(day string, slots []string, room string) {
	if room == "" {
		return
	}
	bySlot, ok := u.used[day]
	if !ok {
		bySlot = make(map[string]map[string]bool)
		u.used[day] = bySlot
	}
	for _, s := range slots {
		rooms, ok := bySlot[s]
		if !ok {
			rooms = make(map[string]bool)
			bySlot[s] = rooms
		}
		rooms[room] = true
	}
}

// Tracker holds the availability state of one sheet: faculty occupancy and
// lab locks are private to the sheet, room usage is shared.
type Tracker struct {
	faculty map[string]map[string]map[string]bool // day -> slot -> faculty
	busyDay map[string]map[string]bool            // day -> faculty
	labs    map[string]bool
	rooms   *RoomUsage
}

func NewTracker(rooms *RoomUsage) *Tracker {
	if rooms == nil {
		rooms = NewRoomUsage()
	}
	return &Tracker{
		faculty: make(map[string]map[string]map[string]bool),
		busyDay: make(map[string]map[string]bool),
		labs:    make(map[string]bool),
		rooms:   rooms,
	}
}

func (t *Tracker) IsFacultyFree(day string, slots []string, faculty string) bool {
	if t.busyDay[day][faculty] {
		return false
	}
	for _, s := range slots {
		if t.faculty[day][s][faculty] {
			return false
		}
	}
	return true
}

func (t *Tracker) MarkFacultyBusy(day string, slots []string, faculty string) {
	if faculty == "" {
		return
	}
	bySlot, ok := t.faculty[day]
	if !ok {
		bySlot = make(map[string]map[string]bool)
		t.faculty[day] = bySlot
	}
	for _, s := range slots {
		names, ok := bySlot[s]
		if !ok {
			names = make(map[string]bool)
			bySlot[s] = names
		}
		names[faculty] = true
	}
}

// BlockFacultyDay makes faculty unavailable for the whole day.
func (t *Tracker) BlockFacultyDay(day, faculty string) {
	names, ok := t.busyDay[day]
	if !ok {
		names = make(map[string]bool)
		t.busyDay[day] = names
	}
	names[faculty] = true
}

func (t *Tracker) IsLabLocked(day string) bool {
	return t.labs[day]
}

func (t *Tracker) LockLab(day string) {
	t.labs[day] = true
}

func (t *Tracker) RoomsFreeFor(day string, slots []string, pool []string) []string {
	return t.rooms.Free(day, slots, pool)
}

func (t *Tracker) CommitRoom(day string, slots []string, room string) {
	t.rooms.Commit(day, slots, room)
}
