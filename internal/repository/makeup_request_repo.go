package repository

import (
	"errors"
	"time"

	"teaching-schedule-core/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type MakeupRequestRepository interface {
	Create(request *models.MakeupRequest) error
	Update(request *models.MakeupRequest) error
	GetByID(id uint) (*models.MakeupRequest, error)
	ListByLeaveRequest(leaveRequestID uint) ([]*models.MakeupRequest, error)
	ListByLecturer(lecturerID uint, status string) ([]*models.MakeupRequest, error)
}

type GormMakeupRequestRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormMakeupRequestRepository(db *gorm.DB) (*GormMakeupRequestRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.MakeupRequest{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate makeup_requests table")
		return nil, err
	}

	logger.Info("Makeup request repository initialized")

	return &GormMakeupRequestRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormMakeupRequestRepository) Create(request *models.MakeupRequest) error {
	r.logger.WithFields(logrus.Fields{
		"leave_request_id": request.LeaveRequestID,
		"suggested_date":   request.SuggestedDate.Format("2006-01-02"),
	}).Info("Creating makeup request")

	result := r.db.Create(request)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create makeup request")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":   request.ID,
		"code": request.Code,
	}).Info("Makeup request created successfully")

	return nil
}

func (r *GormMakeupRequestRepository) Update(request *models.MakeupRequest) error {
	r.logger.WithFields(logrus.Fields{
		"id":     request.ID,
		"status": request.Status,
	}).Info("Updating makeup request")

	request.UpdatedAt = time.Now()

	result := r.db.Save(request)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update makeup request")
		return result.Error
	}

	return nil
}

func (r *GormMakeupRequestRepository) GetByID(id uint) (*models.MakeupRequest, error) {
	var request models.MakeupRequest
	result := r.db.
		Preload("LeaveRequest").
		Preload("LeaveRequest.Schedule").
		Preload("LeaveRequest.Schedule.Assignment").
		Preload("Timeslot").
		First(&request, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Makeup request not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get makeup request by ID")
		return nil, result.Error
	}

	return &request, nil
}

func (r *GormMakeupRequestRepository) ListByLeaveRequest(leaveRequestID uint) ([]*models.MakeupRequest, error) {
	var requests []*models.MakeupRequest

	result := r.db.
		Where("leave_request_id = ?", leaveRequestID).
		Order("id DESC").
		Find(&requests)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list makeup requests by leave request")
		return nil, result.Error
	}

	return requests, nil
}

func (r *GormMakeupRequestRepository) ListByLecturer(lecturerID uint, status string) ([]*models.MakeupRequest, error) {
	var requests []*models.MakeupRequest

	query := r.db.
		Joins("JOIN leave_requests ON leave_requests.id = makeup_requests.leave_request_id").
		Where("leave_requests.lecturer_id = ?", lecturerID).
		Preload("LeaveRequest").
		Preload("Timeslot").
		Order("makeup_requests.id DESC")

	if status != "" {
		query = query.Where("makeup_requests.status = ?", status)
	}

	result := query.Find(&requests)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list makeup requests by lecturer")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"lecturer_id": lecturerID,
		"count":       len(requests),
	}).Debug("Retrieved makeup requests by lecturer")

	return requests, nil
}
