package repository

import (
	"time"

	"teaching-schedule-core/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type AttendanceRepository interface {
	Create(record *models.AttendanceRecord) error
	ExistsForSchedule(scheduleID uint) (bool, error)
	ListBySchedule(scheduleID uint) ([]*models.AttendanceRecord, error)
}

type GormAttendanceRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormAttendanceRepository(db *gorm.DB) (*GormAttendanceRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.AttendanceRecord{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate attendance_records table")
		return nil, err
	}

	logger.Info("Attendance repository initialized")

	return &GormAttendanceRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormAttendanceRepository) Create(record *models.AttendanceRecord) error {
	r.logger.WithFields(logrus.Fields{
		"schedule_id": record.ScheduleID,
		"student_id":  record.StudentID,
	}).Info("Creating attendance record")

	if record.Status == "" {
		record.Status = models.AttendancePresent
	}
	if record.MarkedAt.IsZero() {
		record.MarkedAt = time.Now()
	}

	result := r.db.Create(record)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create attendance record")
		return result.Error
	}

	return nil
}

func (r *GormAttendanceRepository) ExistsForSchedule(scheduleID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.AttendanceRecord{}).
		Where("schedule_id = ?", scheduleID).
		Count(&count).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to check attendance existence")
		return false, err
	}
	return count > 0, nil
}

func (r *GormAttendanceRepository) ListBySchedule(scheduleID uint) ([]*models.AttendanceRecord, error) {
	var records []*models.AttendanceRecord

	result := r.db.
		Where("schedule_id = ?", scheduleID).
		Order("student_id").
		Find(&records)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list attendance records")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"schedule_id": scheduleID,
		"count":       len(records),
	}).Debug("Retrieved attendance records")

	return records, nil
}
