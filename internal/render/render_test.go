package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/go-timetable/internal/scheduler"
	"github.com/rhyrak/go-timetable/pkg/model"
)

func sampleResult() *scheduler.Result {
	grid := model.NewGrid([]string{"Monday", "Tuesday"}, []string{"09:00-10:30", "10:30-10:45"})
	grid.Set(0, 0, "CS301 (C101)")
	grid.Set(0, 1, model.MarkerBreak)
	grid.Set(1, 0, "CS301 (Lab-L201)")
	return &scheduler.Result{
		Group: "CSE-3-A",
		Sheets: []*scheduler.Sheet{{
			Name: model.SheetFirstHalf,
			Grid: grid,
			ElectiveRooms: []model.ElectiveRoom{
				{Key: "Elective_1||Vision", Basket: 1, Title: "Vision", Room: "C102"},
			},
			Unscheduled: []model.Unscheduled{
				{CourseCode: "MA301", CourseTitle: "Probability", Type: "Tutorial", RemainingHours: 1},
			},
		}},
	}
}

func TestTable(t *testing.T) {
	out := Table(sampleResult().Sheets[0].Grid)

	assert.Contains(t, out, "09:00-10:30")
	assert.Contains(t, out, "CS301 (C101)")
	assert.Contains(t, out, "BREAK")
	assert.Contains(t, out, "Tuesday")
}

func TestResult(t *testing.T) {
	out := Result(sampleResult())

	assert.Contains(t, out, "CSE-3-A / First_Half")
	assert.Contains(t, out, "Elective_1||Vision -> C102")
	assert.Contains(t, out, "unscheduled MA301 Tutorial 1.00h")
}

func TestPDF(t *testing.T) {
	data, err := PDF(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))

	_, err = PDF(&scheduler.Result{Group: "empty"})
	assert.Error(t, err)
}

func TestPDFIsStable(t *testing.T) {
	first, err := PDF(sampleResult())
	require.NoError(t, err)

	// the info dictionary has second resolution
	time.Sleep(1100 * time.Millisecond)

	second, err := PDF(sampleResult())
	require.NoError(t, err)
	assert.True(t, bytes.Equal(first, second), "same result rendered different bytes")
	assert.Contains(t, string(first), "/CreationDate (D:19700101000000)")
}
