package scheduler

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/rhyrak/go-timetable/pkg/model"
)

// Elective is the member chosen for one basket and the placeholder course
// scheduled in its place.
type Elective struct {
	Basket      int          `json:"basket"`
	Chosen      model.Course `json:"chosen"`
	Placeholder model.Course `json:"placeholder"`
}

// RoomKey is the key of the basket in the elective room map.
func (e Elective) RoomKey() string {
	return fmt.Sprintf("%s||%s", e.Placeholder.Code, e.Chosen.Title)
}

// chooseElectives picks one member per basket, baskets in ascending order.
// Courses without a positive basket are ignored.
func chooseElectives(keys Keys, electives []model.Course) []Elective {
	members := make(map[int][]model.Course)
	var ids []int
	for _, c := range electives {
		if c.Basket <= 0 {
			continue
		}
		if _, seen := members[c.Basket]; !seen {
			ids = append(ids, c.Basket)
		}
		members[c.Basket] = append(members[c.Basket], c)
	}
	sort.Ints(ids)

	chosen := make([]Elective, 0, len(ids))
	for _, id := range ids {
		group := members[id]
		pick := group[keys.Pick(len(group), strconv.Itoa(id))]
		chosen = append(chosen, Elective{
			Basket: id,
			Chosen: pick,
			Placeholder: model.Course{
				Code:         model.ElectiveCode(id),
				Title:        pick.Title,
				Faculty:      pick.Faculty,
				LTPSC:        pick.LTPSC,
				L:            pick.L,
				T:            pick.T,
				P:            pick.P,
				S:            pick.S,
				C:            pick.C,
				SemesterHalf: pick.SemesterHalf,
				Basket:       id,
			},
		})
	}
	return chosen
}

type slotPair struct {
	day  string
	slot string
}

// assignElectiveRooms gives every basket of the sheet one room for all of
// its placeholder occurrences. Rooms free at every occurrence are preferred
// and committed to the shared usage. When none exists the rooms with the most
// free occurrences are used, possibly clashing.
func (s *Scheduler) assignElectiveRooms(sheet *Sheet) {
	sheet.ElectiveRooms = nil
	if len(sheet.Electives) == 0 {
		return
	}

	placeholders := make(map[string]bool, len(sheet.Electives))
	for _, e := range sheet.Electives {
		placeholders[e.Placeholder.Code] = true
	}
	seen := make(map[slotPair]bool)
	var pairs []slotPair
	for _, p := range sheet.Placements {
		key := slotPair{p.Day, p.Slot}
		if placeholders[p.Code] && !seen[key] {
			seen[key] = true
			pairs = append(pairs, key)
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].day != pairs[j].day {
			return pairs[i].day < pairs[j].day
		}
		return pairs[i].slot < pairs[j].slot
	})

	freeEverywhere := func(room string) bool {
		for _, p := range pairs {
			if s.usage.Holds(p.day, p.slot, room) {
				return false
			}
		}
		return true
	}

	candidates := append(append([]string(nil), s.classrooms...), s.labs...)
	var free []string
	for _, r := range candidates {
		if freeEverywhere(r) {
			free = append(free, r)
		}
	}
	if len(free) == 0 {
		counts := make(map[string]int, len(candidates))
		for _, r := range candidates {
			for _, p := range pairs {
				if !s.usage.Holds(p.day, p.slot, r) {
					counts[r]++
				}
			}
		}
		free = append([]string(nil), candidates...)
		sort.SliceStable(free, func(i, j int) bool {
			if counts[free[i]] != counts[free[j]] {
				return counts[free[i]] > counts[free[j]]
			}
			return s.keys.Less(free[i], free[j])
		})
	}

	used := make(map[string]bool)
	for idx, e := range sheet.Electives {
		room := ""
		for _, r := range free {
			if !used[r] && freeEverywhere(r) {
				room = r
				break
			}
		}
		if room != "" {
			for _, p := range pairs {
				s.usage.Commit(p.day, []string{p.slot}, room)
			}
		} else if len(free) > 0 {
			room = free[idx%len(free)]
		}
		used[room] = true
		sheet.ElectiveRooms = append(sheet.ElectiveRooms, model.ElectiveRoom{
			Sheet:  sheet.Name,
			Key:    e.RoomKey(),
			Basket: e.Basket,
			Title:  e.Chosen.Title,
			Room:   room,
		})
	}
}
