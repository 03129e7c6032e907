package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is a persistence-only record; delivery transport lives
// outside this module.
type Notification struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	LecturerID uint           `gorm:"not null;index" json:"lecturer_id"`
	Title      string         `gorm:"not null" json:"title"`
	Body       string         `json:"body"`
	Payload    datatypes.JSON `json:"payload"`
	ReadAt     *time.Time     `json:"read_at"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (Notification) TableName() string {
	return "notifications"
}

// IsRead reports whether the lecturer has seen the notification.
func (n *Notification) IsRead() bool {
	return n.ReadAt != nil
}
