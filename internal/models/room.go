package models

import (
	"strings"
	"time"
)

type Room struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Code      string    `gorm:"uniqueIndex;not null" json:"code"`
	Building  string    `json:"building"`
	Capacity  int       `gorm:"default:0" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Room) TableName() string {
	return "rooms"
}

// Label returns the display label used when comparing rooms: the code,
// else the building, else "-".
func (r *Room) Label() string {
	if r == nil {
		return "-"
	}
	if code := strings.TrimSpace(r.Code); code != "" {
		return code
	}
	if building := strings.TrimSpace(r.Building); building != "" {
		return building
	}
	return "-"
}
