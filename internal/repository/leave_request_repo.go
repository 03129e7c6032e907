package repository

import (
	"errors"
	"time"

	"teaching-schedule-core/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type LeaveRequestRepository interface {
	Create(request *models.LeaveRequest) error
	Update(request *models.LeaveRequest) error
	GetByID(id uint) (*models.LeaveRequest, error)
	GetByScheduleAndLecturer(scheduleID, lecturerID uint) (*models.LeaveRequest, error)
	ListByLecturer(lecturerID uint, status string) ([]*models.LeaveRequest, error)
}

type GormLeaveRequestRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormLeaveRequestRepository(db *gorm.DB) (*GormLeaveRequestRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.LeaveRequest{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate leave_requests table")
		return nil, err
	}

	logger.Info("Leave request repository initialized")

	return &GormLeaveRequestRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormLeaveRequestRepository) Create(request *models.LeaveRequest) error {
	r.logger.WithFields(logrus.Fields{
		"schedule_id": request.ScheduleID,
		"lecturer_id": request.LecturerID,
	}).Info("Creating leave request")

	result := r.db.Create(request)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create leave request")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":   request.ID,
		"code": request.Code,
	}).Info("Leave request created successfully")

	return nil
}

func (r *GormLeaveRequestRepository) Update(request *models.LeaveRequest) error {
	r.logger.WithFields(logrus.Fields{
		"id":     request.ID,
		"status": request.Status,
	}).Info("Updating leave request")

	request.UpdatedAt = time.Now()

	result := r.db.Save(request)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update leave request")
		return result.Error
	}

	return nil
}

func (r *GormLeaveRequestRepository) GetByID(id uint) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	result := r.db.
		Preload("Schedule").
		Preload("Schedule.Assignment").
		Preload("Schedule.Timeslot").
		First(&request, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Leave request not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get leave request by ID")
		return nil, result.Error
	}

	return &request, nil
}

func (r *GormLeaveRequestRepository) GetByScheduleAndLecturer(scheduleID, lecturerID uint) (*models.LeaveRequest, error) {
	var request models.LeaveRequest
	result := r.db.
		Where("schedule_id = ? AND lecturer_id = ?", scheduleID, lecturerID).
		First(&request)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get leave request by schedule and lecturer")
		return nil, result.Error
	}

	return &request, nil
}

func (r *GormLeaveRequestRepository) ListByLecturer(lecturerID uint, status string) ([]*models.LeaveRequest, error) {
	var requests []*models.LeaveRequest

	query := r.db.
		Where("lecturer_id = ?", lecturerID).
		Preload("Schedule").
		Preload("Schedule.Timeslot").
		Order("id DESC")

	if status != "" {
		query = query.Where("status = ?", status)
	}

	result := query.Find(&requests)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list leave requests by lecturer")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"lecturer_id": lecturerID,
		"status":      status,
		"count":       len(requests),
	}).Debug("Retrieved leave requests by lecturer")

	return requests, nil
}
