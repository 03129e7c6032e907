package models

import (
	"time"

	"teaching-schedule-core/pkg/shift"
)

// Schedule is one concrete timeslot occupancy of an assignment: a calendar
// row with a date, a timeslot and an optional room. Rows are never hard
// deleted in normal operation; cancellation goes through the status column.
type Schedule struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	AssignmentID uint      `gorm:"not null;uniqueIndex:uniq_assignment_date_slot;index" json:"assignment_id"`
	SessionDate  time.Time `gorm:"type:date;not null;uniqueIndex:uniq_assignment_date_slot;index" json:"session_date"`
	TimeslotID   uint      `gorm:"not null;uniqueIndex:uniq_assignment_date_slot" json:"timeslot_id"`
	RoomID       *uint     `gorm:"index" json:"room_id"`
	Status       string    `gorm:"type:varchar(20);not null;default:'planned';index" json:"status"`
	Note         string    `json:"note"`

	// Number of class periods this row covers, used by progress reporting.
	Periods int `gorm:"not null;default:1" json:"periods"`

	// Set when this row is a replacement for a canceled row.
	MakeupOfID *uint `gorm:"index" json:"makeup_of_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Assignment Assignment `gorm:"foreignKey:AssignmentID" json:"assignment"`
	Timeslot   *Timeslot  `gorm:"foreignKey:TimeslotID" json:"timeslot"`
	Room       *Room      `gorm:"foreignKey:RoomID" json:"room"`
	MakeupOf   *Schedule  `gorm:"foreignKey:MakeupOfID" json:"makeup_of,omitempty"`
}

func (Schedule) TableName() string {
	return "schedules"
}

// Schedule statuses
const (
	StatusPlanned       = "planned"        // upcoming session
	StatusTeaching      = "teaching"       // lecturer has started the session
	StatusDone          = "done"           // session held
	StatusCanceled      = "canceled"       // session skipped
	StatusMakeupPlanned = "makeup_planned" // replacement session scheduled
	StatusMakeupDone    = "makeup_done"    // replacement session held
)

// AutoCancelNote is stamped on rows the sweep cancels for being past due.
const AutoCancelNote = "Tự động hủy do đã qua thời gian"

// RoomLabel returns the normalized room label used for adjacency checks:
// room code, else building, else "-".
func (s *Schedule) RoomLabel() string {
	return s.Room.Label()
}

// Shift returns the time-of-day bucket of the row's timeslot.
func (s *Schedule) Shift() shift.Shift {
	return s.Timeslot.Shift()
}

// StartsAt combines the session date with the timeslot start time.
func (s *Schedule) StartsAt() time.Time {
	return s.atMinutes(s.Timeslot.StartMinutes())
}

// EndsAt combines the session date with the timeslot end time.
func (s *Schedule) EndsAt() time.Time {
	return s.atMinutes(s.Timeslot.EndMinutes())
}

func (s *Schedule) atMinutes(minutes int) time.Time {
	d := s.SessionDate
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, d.Location()).
		Add(time.Duration(minutes) * time.Minute)
}

// SameDay reports whether the row falls on the same calendar day as t.
func (s *Schedule) SameDay(t time.Time) bool {
	return s.SessionDate.Year() == t.Year() &&
		s.SessionDate.Month() == t.Month() &&
		s.SessionDate.Day() == t.Day()
}

// IsTerminal reports whether the row reached a terminal status.
func (s *Schedule) IsTerminal() bool {
	return s.Status == StatusDone || s.Status == StatusCanceled || s.Status == StatusMakeupDone
}

// IsValid checks the row before persistence.
func (s *Schedule) IsValid() bool {
	if s.AssignmentID == 0 {
		return false
	}
	if s.SessionDate.IsZero() {
		return false
	}
	if s.TimeslotID == 0 {
		return false
	}
	if s.Periods <= 0 {
		return false
	}
	switch s.Status {
	case StatusPlanned, StatusTeaching, StatusDone, StatusCanceled, StatusMakeupPlanned, StatusMakeupDone:
		return true
	}
	return false
}
