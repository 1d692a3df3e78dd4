package scheduler

import (
	"fmt"

	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/model"
)

// TimeGrid is the ordered list of daily slots shared by every day.
type TimeGrid struct {
	slots    []model.TimeSlot
	labels   []string
	excluded []bool
	index    map[string]int
}

func NewTimeGrid(slots []model.TimeSlot, excluded []string) (*TimeGrid, error) {
	if len(slots) == 0 {
		return nil, tterrors.ErrNoSlots
	}
	g := &TimeGrid{
		slots:    append([]model.TimeSlot(nil), slots...),
		labels:   make([]string, len(slots)),
		excluded: make([]bool, len(slots)),
		index:    make(map[string]int, len(slots)),
	}
	for i, s := range slots {
		label := s.Label()
		if _, dup := g.index[label]; dup {
			return nil, tterrors.Clone(tterrors.ErrInvalidInput, fmt.Sprintf("duplicate time slot %s", label))
		}
		g.labels[i] = label
		g.index[label] = i
	}
	for _, label := range excluded {
		if i, ok := g.index[label]; ok {
			g.excluded[i] = true
		}
	}
	return g, nil
}

func (g *TimeGrid) Len() int {
	return len(g.slots)
}

func (g *TimeGrid) Labels() []string {
	return append([]string(nil), g.labels...)
}

func (g *TimeGrid) Label(i int) string {
	return g.labels[i]
}

func (g *TimeGrid) Duration(i int) float64 {
	return g.slots[i].Duration()
}

func (g *TimeGrid) IsExcluded(i int) bool {
	return g.excluded[i]
}

func (g *TimeGrid) Index(label string) (int, bool) {
	i, ok := g.index[label]
	return i, ok
}

// FreeBlocks returns the maximal runs of slot indexes that are neither
// excluded nor occupied in row, in slot order.
func (g *TimeGrid) FreeBlocks(row []string) [][]int {
	var blocks [][]int
	var run []int
	for i := range g.slots {
		if !g.excluded[i] && row[i] == "" {
			run = append(run, i)
			continue
		}
		if len(run) > 0 {
			blocks = append(blocks, run)
			run = nil
		}
	}
	if len(run) > 0 {
		blocks = append(blocks, run)
	}
	return blocks
}

func (g *TimeGrid) span(slots []int) float64 {
	var total float64
	for _, i := range slots {
		total += g.slots[i].Duration()
	}
	return total
}

func (g *TimeGrid) labelsOf(slots []int) []string {
	out := make([]string, len(slots))
	for k, i := range slots {
		out[k] = g.labels[i]
	}
	return out
}
