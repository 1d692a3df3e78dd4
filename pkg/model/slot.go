package model

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotRecord is one row of a time slots file.
type SlotRecord struct {
	Start string `csv:"Start_Time" json:"start" validate:"required"`
	End   string `csv:"End_Time" json:"end" validate:"required"`
}

// TimeSlot is the half-open interval [Start, End) of one grid column.
type TimeSlot struct {
	Start string
	End   string
	start int // minutes since midnight
	end   int
}

// ParseTimeSlot validates both clock values (HH:MM) and that the slot is not empty.
func ParseTimeSlot(start, end string) (TimeSlot, error) {
	s, err := parseClock(start)
	if err != nil {
		return TimeSlot{}, err
	}
	e, err := parseClock(end)
	if err != nil {
		return TimeSlot{}, err
	}
	if e <= s {
		return TimeSlot{}, fmt.Errorf("slot %s-%s ends before it starts", start, end)
	}
	return TimeSlot{Start: strings.TrimSpace(start), End: strings.TrimSpace(end), start: s, end: e}, nil
}

// ParseSlotLabel parses a "HH:MM-HH:MM" label.
func ParseSlotLabel(label string) (TimeSlot, error) {
	start, end, ok := strings.Cut(label, "-")
	if !ok {
		return TimeSlot{}, fmt.Errorf("slot label %q is not START-END", label)
	}
	return ParseTimeSlot(start, end)
}

func (s TimeSlot) Label() string {
	return s.Start + "-" + s.End
}

// Duration returns the slot length in hours.
func (s TimeSlot) Duration() float64 {
	return float64(s.end-s.start) / 60
}

func parseClock(raw string) (int, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(raw), ":")
	if !ok {
		return 0, fmt.Errorf("time %q is not HH:MM", raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil || h < 0 || h > 23 {
		return 0, fmt.Errorf("time %q has an invalid hour", raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || m < 0 || m > 59 {
		return 0, fmt.Errorf("time %q has an invalid minute", raw)
	}
	return h*60 + m, nil
}
