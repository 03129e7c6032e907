package models

import (
	"time"

	"teaching-schedule-core/pkg/shift"
)

// Timeslot is immutable reference data: a (day-of-week, start, end) triple
// with a unique textual code such as "T7" or "TIET13".
type Timeslot struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	DayOfWeek int       `gorm:"not null" json:"day_of_week"` // 1=Mon, 7=Sun
	StartTime string    `gorm:"type:varchar(8);not null" json:"start_time"` // "HH:MM:SS"
	EndTime   string    `gorm:"type:varchar(8);not null" json:"end_time"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Timeslot) TableName() string {
	return "timeslots"
}

// Shift returns the coarse time-of-day bucket for this slot.
func (t *Timeslot) Shift() shift.Shift {
	if t == nil {
		return shift.None
	}
	return shift.Of(t.Code, t.StartTime)
}

// StartMinutes returns the start of the slot in minutes since midnight.
func (t *Timeslot) StartMinutes() int {
	if t == nil {
		return 0
	}
	return shift.ToMinutes(t.StartTime)
}

// EndMinutes returns the end of the slot in minutes since midnight.
func (t *Timeslot) EndMinutes() int {
	if t == nil {
		return 0
	}
	return shift.ToMinutes(t.EndTime)
}
