package model

import "strings"

type RoomKind int

const (
	RoomOther RoomKind = iota
	RoomClassroom
	RoomLab
)

func (k RoomKind) String() string {
	switch k {
	case RoomClassroom:
		return "classroom"
	case RoomLab:
		return "lab"
	}
	return "other"
}

// RoomRecord is one row of a rooms file.
type RoomRecord struct {
	ID string `csv:"Room_ID" json:"id" validate:"required"`
}

type Room struct {
	ID   string
	Kind RoomKind
}

// NewRoom builds a room and classifies it by its identifier.
func NewRoom(id string) Room {
	id = strings.TrimSpace(id)
	return Room{ID: id, Kind: ClassifyRoom(id)}
}

// ClassifyRoom maps identifiers starting with L to labs and C to classrooms.
func ClassifyRoom(id string) RoomKind {
	id = strings.ToUpper(strings.TrimSpace(id))
	switch {
	case strings.HasPrefix(id, "L"):
		return RoomLab
	case strings.HasPrefix(id, "C"):
		return RoomClassroom
	}
	return RoomOther
}
