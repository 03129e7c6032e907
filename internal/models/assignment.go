package models

import "time"

// Assignment binds one lecturer, one subject, one class unit and one semester.
// It owns zero or more schedules.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	LecturerID  uint      `gorm:"not null;index" json:"lecturer_id"`
	SubjectID   uint      `gorm:"not null;index" json:"subject_id"`
	ClassUnitID uint      `gorm:"not null;index" json:"class_unit_id"`
	Semester    string    `gorm:"type:varchar(20);not null;index" json:"semester"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	Lecturer  Lecturer  `gorm:"foreignKey:LecturerID" json:"lecturer"`
	Subject   Subject   `gorm:"foreignKey:SubjectID" json:"subject"`
	ClassUnit ClassUnit `gorm:"foreignKey:ClassUnitID" json:"class_unit"`
}

func (Assignment) TableName() string {
	return "assignments"
}

// OwnedBy reports whether the assignment belongs to the given lecturer.
func (a *Assignment) OwnedBy(lecturerID uint) bool {
	return a != nil && a.LecturerID == lecturerID
}
