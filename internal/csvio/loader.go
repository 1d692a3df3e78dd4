package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"
	"go.uber.org/zap"

	tterrors "github.com/rhyrak/go-timetable/pkg/errors"
	"github.com/rhyrak/go-timetable/pkg/model"
)

var validate = validator.New()

func newReader(in io.Reader, delim rune) gocsv.CSVReader {
	r := csv.NewReader(in)
	r.Comma = delim
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1
	return r
}

// unmarshal reads every row of in into out and wraps parse failures as input errors.
func unmarshal(in io.Reader, delim rune, name string, out any) error {
	if err := gocsv.UnmarshalCSV(newReader(in, delim), out); err != nil {
		if errors.Is(err, gocsv.ErrEmptyCSVFile) {
			return nil
		}
		return tterrors.Wrap(err, tterrors.ErrInvalidInput.Code, tterrors.ErrInvalidInput.Status,
			fmt.Sprintf("failed to parse %s, please check the data integrity and format", name))
	}
	return nil
}

func open(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, tterrors.Wrap(err, tterrors.ErrInvalidInput.Code, tterrors.ErrInvalidInput.Status,
			fmt.Sprintf("failed to open %s, please make sure the file exists", path))
	}
	return f, nil
}

// LoadCourses reads and parses the given csv file for course data.
func LoadCourses(path string, delim rune, logger *zap.Logger) ([]model.Course, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCourses(f, delim, logger.With(zap.String("file", path)))
}

// ReadCourses parses course rows.
func ReadCourses(in io.Reader, delim rune, logger *zap.Logger) ([]model.Course, error) {
	var records []*model.CourseRecord
	if err := unmarshal(in, delim, "courses", &records); err != nil {
		return nil, err
	}
	return Courses(records, logger)
}

// Courses validates course records. Rows without a course code are dropped.
func Courses(records []*model.CourseRecord, logger *zap.Logger) ([]model.Course, error) {
	courses := make([]model.Course, 0, len(records))
	dropped := 0
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			dropped++
			logger.Warn("dropping course row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		courses = append(courses, model.NewCourse(*r))
	}
	if len(courses) == 0 {
		return nil, tterrors.Clone(tterrors.ErrNoCourses, fmt.Sprintf("no usable course rows (%d dropped)", dropped))
	}
	logger.Info("courses loaded", zap.Int("courses", len(courses)), zap.Int("dropped", dropped))
	return courses, nil
}

func LoadRooms(path string, delim rune, logger *zap.Logger) ([]model.Room, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadRooms(f, delim, logger.With(zap.String("file", path)))
}

// ReadRooms parses room rows, keeping the first of any repeated identifier.
func ReadRooms(in io.Reader, delim rune, logger *zap.Logger) ([]model.Room, error) {
	var records []*model.RoomRecord
	if err := unmarshal(in, delim, "rooms", &records); err != nil {
		return nil, err
	}
	return Rooms(records, logger)
}

// Rooms validates and classifies room records, dropping duplicates.
func Rooms(records []*model.RoomRecord, logger *zap.Logger) ([]model.Room, error) {
	seen := make(map[string]bool, len(records))
	rooms := make([]model.Room, 0, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			logger.Warn("dropping room row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		room := model.NewRoom(r.ID)
		if seen[room.ID] {
			logger.Warn("duplicate room", zap.String("room", room.ID))
			continue
		}
		seen[room.ID] = true
		if room.Kind == model.RoomOther {
			logger.Warn("room is neither a classroom nor a lab", zap.String("room", room.ID))
		}
		rooms = append(rooms, room)
	}
	if len(rooms) == 0 {
		return nil, tterrors.ErrNoRooms
	}
	return rooms, nil
}

func LoadSlots(path string, delim rune, logger *zap.Logger) ([]model.TimeSlot, error) {
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSlots(f, delim, logger.With(zap.String("file", path)))
}

// ReadSlots parses slot rows in file order.
func ReadSlots(in io.Reader, delim rune, logger *zap.Logger) ([]model.TimeSlot, error) {
	var records []*model.SlotRecord
	if err := unmarshal(in, delim, "time slots", &records); err != nil {
		return nil, err
	}
	slots, err := Slots(records)
	if err != nil {
		return nil, err
	}
	logger.Debug("time slots loaded", zap.Int("slots", len(slots)))
	return slots, nil
}

// Slots parses slot records in order. A malformed time is an error.
func Slots(records []*model.SlotRecord) ([]model.TimeSlot, error) {
	slots := make([]model.TimeSlot, 0, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			return nil, tterrors.Wrap(err, tterrors.ErrInvalidInput.Code, tterrors.ErrInvalidInput.Status,
				fmt.Sprintf("time slot row %d", i+2))
		}
		s, err := model.ParseTimeSlot(r.Start, r.End)
		if err != nil {
			return nil, tterrors.Wrap(err, tterrors.ErrInvalidInput.Code, tterrors.ErrInvalidInput.Status,
				fmt.Sprintf("time slot row %d", i+2))
		}
		slots = append(slots, s)
	}
	if len(slots) == 0 {
		return nil, tterrors.ErrNoSlots
	}
	return slots, nil
}

// LoadBusy reads faculty unavailability. The file is optional, an empty
// path yields no records.
func LoadBusy(path string, delim rune, logger *zap.Logger) ([]model.Busy, error) {
	if path == "" {
		return nil, nil
	}
	f, err := open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var records []*model.BusyRecord
	if err := unmarshal(f, delim, "faculty availability", &records); err != nil {
		return nil, err
	}
	return Busy(records, logger.With(zap.String("file", path))), nil
}

// Busy validates faculty unavailability records, dropping invalid rows.
func Busy(records []*model.BusyRecord, logger *zap.Logger) []model.Busy {
	busy := make([]model.Busy, 0, len(records))
	for i, r := range records {
		if err := validate.Struct(r); err != nil {
			logger.Warn("dropping busy row", zap.Int("row", i+2), zap.Error(err))
			continue
		}
		busy = append(busy, model.NewBusy(*r))
	}
	return busy
}
