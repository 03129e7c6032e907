package models

import "time"

// AttendanceRecord ties one schedule row to one student. The presence of
// any record for a row is the precondition for finishing it.
type AttendanceRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	ScheduleID uint      `gorm:"not null;uniqueIndex:uniq_schedule_student;index" json:"schedule_id"`
	StudentID  uint      `gorm:"not null;uniqueIndex:uniq_schedule_student" json:"student_id"`
	Status     string    `gorm:"type:varchar(10);not null;default:'present'" json:"status"`
	MarkedAt   time.Time `gorm:"not null" json:"marked_at"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Schedule Schedule `gorm:"foreignKey:ScheduleID" json:"schedule"`
}

func (AttendanceRecord) TableName() string {
	return "attendance_records"
}

// Attendance statuses
const (
	AttendancePresent = "present"
	AttendanceAbsent  = "absent"
	AttendanceExcused = "excused"
)
