package models

import "time"

// LeaveRequest is a lecturer's request to be excused from one schedule row.
// At most one request exists per (schedule, lecturer) pair; the record is
// mutable only while pending.
type LeaveRequest struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Code        string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`
	ScheduleID  uint       `gorm:"not null;uniqueIndex:uniq_schedule_lecturer" json:"schedule_id"`
	LecturerID  uint       `gorm:"not null;uniqueIndex:uniq_schedule_lecturer;index" json:"lecturer_id"`
	Reason      string     `gorm:"not null" json:"reason"`
	ProofURL    string     `json:"proof_url"`
	Status      string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedAt time.Time  `gorm:"not null" json:"requested_at"`
	DecidedAt   *time.Time `json:"decided_at"`
	DecidedBy   *uint      `json:"decided_by"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Schedule Schedule `gorm:"foreignKey:ScheduleID" json:"schedule"`
	Lecturer Lecturer `gorm:"foreignKey:LecturerID" json:"lecturer"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}

// Leave request statuses
const (
	LeaveStatusPending  = "pending"
	LeaveStatusApproved = "approved"
	LeaveStatusRejected = "rejected"
	LeaveStatusCanceled = "canceled" // withdrawn by the lecturer
)

// IsPending reports whether the request can still be edited or decided.
func (lr *LeaveRequest) IsPending() bool {
	return lr.Status == LeaveStatusPending
}

// MarkDecided stamps the decision fields.
func (lr *LeaveRequest) MarkDecided(status string, deciderID uint, at time.Time) {
	lr.Status = status
	lr.DecidedAt = &at
	lr.DecidedBy = &deciderID
}
