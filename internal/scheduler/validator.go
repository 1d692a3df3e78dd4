package scheduler

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/rhyrak/go-timetable/pkg/model"
)

var sheetHalves = map[string]string{
	model.SheetFirstHalf:  "1",
	model.SheetSecondHalf: "2",
}

type check struct {
	name   string
	errors []string
}

func (c *check) failf(format string, args ...any) {
	c.errors = append(c.errors, fmt.Sprintf(format, args...))
}

// Validate checks the results of one or more groups for cell double
// booking, repeated courses within a day, more than one lab per day, room
// collisions across all groups, lost hours and elective basket coverage.
// Returns false and a report for invalid timetables. Elective rooms handed
// out without a free candidate may overlap other claims; those are listed as
// information only.
func Validate(results ...*Result) (bool, string) {
	checks := []*check{
		{name: "Cell double booking"},
		{name: "Daily uniqueness"},
		{name: "Lab exclusivity"},
		{name: "Room collision"},
		{name: "Hour conservation"},
		{name: "Elective singularity"},
	}
	cells, daily, labs, rooms, hours, electives := checks[0], checks[1], checks[2], checks[3], checks[4], checks[5]

	roomOwners := make(map[string]map[string]bool)
	electiveClaims := make(map[string]map[string]bool)
	var unscheduled int
	var unscheduledHours float64

	for _, res := range results {
		for _, sheet := range res.Sheets {
			where := res.Group + "/" + sheet.Name
			unscheduled += len(sheet.Unscheduled)
			for _, u := range sheet.Unscheduled {
				unscheduledHours += u.RemainingHours
			}

			electiveRoom := make(map[string]string, len(sheet.ElectiveRooms))
			for _, er := range sheet.ElectiveRooms {
				if er.Room != "" {
					electiveRoom[model.ElectiveCode(er.Basket)] = er.Room
				}
			}

			occupied := make(map[string]string)
			for _, p := range sheet.Placements {
				cell := p.Day + " " + p.Slot
				if other, ok := occupied[cell]; ok && other != p.Code {
					cells.failf("%s %s holds %s and %s", where, cell, other, p.Code)
				} else if ok {
					cells.failf("%s %s holds %s twice", where, cell, p.Code)
				}
				occupied[cell] = p.Code

				if p.Room != "" {
					claim(roomOwners, p.Day+" "+p.Slot+" "+p.Room, where+"/"+p.Code)
				} else if room, ok := electiveRoom[p.Code]; ok {
					claim(electiveClaims, p.Day+" "+p.Slot+" "+room, where+"/"+p.Code)
				}
			}

			perDay := make(map[string]int)
			labDays := make(map[string]int)
			for _, s := range sheet.Sessions {
				perDay[s.Code+" "+s.Day]++
				if s.Type == model.Practical {
					labDays[s.Day]++
				}
			}
			for _, k := range sortedKeys(perDay) {
				if perDay[k] > 1 {
					daily.failf("%s %s placed %d times", where, k, perDay[k])
				}
			}
			for _, day := range sortedKeys(labDays) {
				if labDays[day] > 1 {
					labs.failf("%s %s has %d lab sessions", where, day, labDays[day])
				}
			}

			checkHours(hours, where, sheet)
			checkElectives(electives, where, res.Courses, sheet)
		}
	}

	for _, k := range sortedKeys(roomOwners) {
		if len(roomOwners[k]) > 1 {
			rooms.failf("%s claimed by %s", k, strings.Join(sortedKeys(roomOwners[k]), ", "))
		}
	}

	var clashes []string
	for _, k := range sortedKeys(electiveClaims) {
		owners := make(map[string]bool, len(electiveClaims[k])+len(roomOwners[k]))
		for o := range electiveClaims[k] {
			owners[o] = true
		}
		for o := range roomOwners[k] {
			owners[o] = true
		}
		if len(owners) > 1 {
			clashes = append(clashes, fmt.Sprintf("%s shared by %s", k, strings.Join(sortedKeys(owners), ", ")))
		}
	}

	valid := true
	var sb strings.Builder
	for _, c := range checks {
		if len(c.errors) == 0 {
			fmt.Fprintf(&sb, "[  OK]: %s check.\n", c.name)
			continue
		}
		valid = false
		fmt.Fprintf(&sb, "[FAIL]: %s check.\n", c.name)
		for _, e := range c.errors {
			fmt.Fprintf(&sb, "- %s\n", e)
		}
	}
	fmt.Fprintf(&sb, "[INFO]: %d unscheduled sessions, %.2f hours.\n", unscheduled, unscheduledHours)
	if len(clashes) > 0 {
		fmt.Fprintf(&sb, "[INFO]: %d elective room clashes.\n", len(clashes))
		for _, c := range clashes {
			fmt.Fprintf(&sb, "- %s\n", c)
		}
	}
	return valid, sb.String()
}

func claim(owners map[string]map[string]bool, key, owner string) {
	if owners[key] == nil {
		owners[key] = make(map[string]bool)
	}
	owners[key][owner] = true
}

func checkHours(c *check, where string, sheet *Sheet) {
	placed := make(map[string]float64)
	for _, s := range sheet.Sessions {
		placed[s.Code+"/"+s.Type.Label()] += s.Hours
	}
	for _, u := range sheet.Unscheduled {
		placed[u.CourseCode+"/"+u.Type] += u.RemainingHours
	}
	for _, course := range sheet.Courses {
		required := map[model.SessionType]int{
			model.Lecture:   course.L,
			model.Tutorial:  course.T,
			model.Practical: course.P,
		}
		for _, typ := range []model.SessionType{model.Lecture, model.Tutorial, model.Practical} {
			got := placed[course.Code+"/"+typ.Label()]
			if math.Abs(got-float64(required[typ])) > 1e-6 {
				c.failf("%s %s %s: %.2f of %d hours accounted", where, course.Code, typ.Label(), got, required[typ])
			}
		}
	}
}

func checkElectives(c *check, where string, courses []model.Course, sheet *Sheet) {
	half, ok := sheetHalves[sheet.Name]
	baskets := make(map[int]bool)
	for _, course := range courses {
		if course.Elective && course.Basket > 0 && (!ok || course.AppliesTo(half)) {
			baskets[course.Basket] = true
		}
	}

	chosen := make(map[int]int)
	for _, e := range sheet.Electives {
		chosen[e.Basket]++
	}
	scheduled := make(map[string]int)
	for _, course := range sheet.Courses {
		scheduled[course.Code]++
	}

	ids := make([]int, 0, len(baskets))
	for b := range baskets {
		ids = append(ids, b)
	}
	sort.Ints(ids)
	for _, b := range ids {
		if chosen[b] != 1 {
			c.failf("%s basket %d has %d placeholders", where, b, chosen[b])
		}
		if n := scheduled[model.ElectiveCode(b)]; n != 1 {
			c.failf("%s %s scheduled %d times", where, model.ElectiveCode(b), n)
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
