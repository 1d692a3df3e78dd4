package model

import "strings"

// BusyRecord marks a faculty member unavailable. An empty Slot blocks the whole day.
type BusyRecord struct {
	Faculty string `csv:"Faculty" json:"faculty" validate:"required"`
	Day     string `csv:"Day" json:"day" validate:"required"`
	Slot    string `csv:"Slot" json:"slot"`
}

type Busy struct {
	Faculty string
	Day     string
	Slot    string
}

func NewBusy(r BusyRecord) Busy {
	return Busy{
		Faculty: strings.TrimSpace(r.Faculty),
		Day:     strings.TrimSpace(r.Day),
		Slot:    strings.TrimSpace(r.Slot),
	}
}

// WholeDay reports whether the record blocks every slot of its day.
func (b Busy) WholeDay() bool {
	return b.Slot == ""
}
