package models

import "time"

// MakeupRequest is a lecturer's proposal to reschedule a session after a
// leave. It ties to exactly one leave request and carries its own decision
// lifecycle; approval materializes a new schedule row elsewhere.
type MakeupRequest struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Code           string     `gorm:"type:varchar(36);uniqueIndex;not null" json:"code"`
	LeaveRequestID uint       `gorm:"not null;index" json:"leave_request_id"`
	SuggestedDate  time.Time  `gorm:"type:date;not null" json:"suggested_date"`
	TimeslotID     uint       `gorm:"not null" json:"timeslot_id"`
	RoomID         *uint      `json:"room_id"`
	Note           string     `json:"note"`
	Status         string     `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	DecidedAt      *time.Time `json:"decided_at"`
	DecidedBy      *uint      `json:"decided_by"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`

	LeaveRequest LeaveRequest `gorm:"foreignKey:LeaveRequestID" json:"leave_request"`
	Timeslot     *Timeslot    `gorm:"foreignKey:TimeslotID" json:"timeslot"`
	Room         *Room        `gorm:"foreignKey:RoomID" json:"room"`
}

func (MakeupRequest) TableName() string {
	return "makeup_requests"
}

// Makeup request statuses
const (
	MakeupStatusPending  = "pending"
	MakeupStatusApproved = "approved"
	MakeupStatusRejected = "rejected"
	MakeupStatusCanceled = "canceled"
)

// IsPending reports whether the request can still be edited or decided.
func (mr *MakeupRequest) IsPending() bool {
	return mr.Status == MakeupStatusPending
}

// MarkDecided stamps the decision fields.
func (mr *MakeupRequest) MarkDecided(status string, deciderID uint, at time.Time) {
	mr.Status = status
	mr.DecidedAt = &at
	mr.DecidedBy = &deciderID
}
