package repository

import (
	"time"

	"teaching-schedule-core/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type NotificationRepository interface {
	Create(notification *models.Notification) error
	ListByLecturer(lecturerID uint, limit int) ([]*models.Notification, error)
	MarkRead(id uint) error
}

type GormNotificationRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormNotificationRepository(db *gorm.DB) (*GormNotificationRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(&models.Notification{}); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate notifications table")
		return nil, err
	}

	logger.Info("Notification repository initialized")

	return &GormNotificationRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormNotificationRepository) Create(notification *models.Notification) error {
	r.logger.WithFields(logrus.Fields{
		"lecturer_id": notification.LecturerID,
		"title":       notification.Title,
	}).Debug("Creating notification")

	result := r.db.Create(notification)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create notification")
		return result.Error
	}

	return nil
}

func (r *GormNotificationRepository) ListByLecturer(lecturerID uint, limit int) ([]*models.Notification, error) {
	var notifications []*models.Notification

	query := r.db.Where("lecturer_id = ?", lecturerID).Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	result := query.Find(&notifications)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list notifications")
		return nil, result.Error
	}

	return notifications, nil
}

func (r *GormNotificationRepository) MarkRead(id uint) error {
	now := time.Now()
	result := r.db.Model(&models.Notification{}).
		Where("id = ? AND read_at IS NULL", id).
		Update("read_at", now)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to mark notification read")
		return result.Error
	}
	return nil
}
