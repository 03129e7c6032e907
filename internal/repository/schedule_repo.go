package repository

import (
	"errors"
	"sort"
	"time"

	"teaching-schedule-core/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ScheduleFilter narrows schedule listings.
type ScheduleFilter struct {
	Semester string
	From     *time.Time
	To       *time.Time
	Statuses []string
}

type ScheduleRepository interface {
	Create(schedule *models.Schedule) error
	Update(schedule *models.Schedule) error
	GetByID(id uint) (*models.Schedule, error)
	ListByLecturer(lecturerID uint, filter ScheduleFilter) ([]*models.Schedule, error)
	ListDueForSweep(statuses []string, until time.Time) ([]*models.Schedule, error)
	ExistsAt(assignmentID uint, date time.Time, timeslotID uint) (bool, error)
	DeleteByAssignmentID(assignmentID uint) (int64, error)
}

type GormScheduleRepository struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewGormScheduleRepository(db *gorm.DB) (*GormScheduleRepository, error) {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	if err := db.AutoMigrate(
		&models.Lecturer{},
		&models.Subject{},
		&models.ClassUnit{},
		&models.Room{},
		&models.Timeslot{},
		&models.Assignment{},
		&models.Schedule{},
	); err != nil {
		logger.WithError(err).Error("Failed to auto-migrate schedules table")
		return nil, err
	}

	logger.Info("Schedule repository initialized")

	return &GormScheduleRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *GormScheduleRepository) Create(schedule *models.Schedule) error {
	r.logger.WithFields(logrus.Fields{
		"assignment_id": schedule.AssignmentID,
		"session_date":  schedule.SessionDate.Format("2006-01-02"),
		"timeslot_id":   schedule.TimeslotID,
	}).Info("Creating schedule row")

	if schedule.Periods == 0 {
		schedule.Periods = 1
	}
	if schedule.Status == "" {
		schedule.Status = models.StatusPlanned
	}

	if !schedule.IsValid() {
		r.logger.WithField("assignment_id", schedule.AssignmentID).Warn("Invalid schedule data")
		return errors.New("invalid schedule data")
	}

	result := r.db.Create(schedule)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to create schedule row")
		return result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"id":     schedule.ID,
		"status": schedule.Status,
	}).Info("Schedule row created successfully")

	return nil
}

func (r *GormScheduleRepository) Update(schedule *models.Schedule) error {
	r.logger.WithFields(logrus.Fields{
		"id":     schedule.ID,
		"status": schedule.Status,
	}).Info("Updating schedule row")

	if !schedule.IsValid() {
		r.logger.WithField("id", schedule.ID).Warn("Invalid schedule data for update")
		return errors.New("invalid schedule data")
	}

	schedule.UpdatedAt = time.Now()

	result := r.db.Save(schedule)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to update schedule row")
		return result.Error
	}

	return nil
}

func (r *GormScheduleRepository) GetByID(id uint) (*models.Schedule, error) {
	var schedule models.Schedule
	result := r.db.
		Preload("Assignment").
		Preload("Assignment.Subject").
		Preload("Timeslot").
		Preload("Room").
		First(&schedule, id)

	if errors.Is(result.Error, gorm.ErrRecordNotFound) {
		r.logger.WithField("id", id).Debug("Schedule row not found")
		return nil, nil
	}

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to get schedule row by ID")
		return nil, result.Error
	}

	return &schedule, nil
}

func (r *GormScheduleRepository) ListByLecturer(lecturerID uint, filter ScheduleFilter) ([]*models.Schedule, error) {
	var schedules []*models.Schedule

	query := r.db.
		Joins("JOIN assignments ON assignments.id = schedules.assignment_id").
		Where("assignments.lecturer_id = ?", lecturerID).
		Preload("Assignment").
		Preload("Assignment.Subject").
		Preload("Timeslot").
		Preload("Room")

	if filter.Semester != "" {
		query = query.Where("assignments.semester = ?", filter.Semester)
	}
	if filter.From != nil {
		query = query.Where("schedules.session_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("schedules.session_date <= ?", *filter.To)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("schedules.status IN ?", filter.Statuses)
	}

	result := query.Order("schedules.session_date").Find(&schedules)
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list schedules by lecturer")
		return nil, result.Error
	}

	// Timeslot start times live as "HH:MM:SS" strings on the slot, so the
	// within-day ordering is resolved here rather than in SQL.
	sort.SliceStable(schedules, func(i, j int) bool {
		a, b := schedules[i], schedules[j]
		if !a.SessionDate.Equal(b.SessionDate) {
			return a.SessionDate.Before(b.SessionDate)
		}
		return a.Timeslot.StartMinutes() < b.Timeslot.StartMinutes()
	})

	r.logger.WithFields(logrus.Fields{
		"lecturer_id": lecturerID,
		"count":       len(schedules),
	}).Debug("Retrieved schedules by lecturer")

	return schedules, nil
}

func (r *GormScheduleRepository) ListDueForSweep(statuses []string, until time.Time) ([]*models.Schedule, error) {
	var schedules []*models.Schedule

	result := r.db.
		Where("status IN ? AND session_date <= ?", statuses, until).
		Preload("Timeslot").
		Order("session_date").
		Find(&schedules)

	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to list schedules due for sweep")
		return nil, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"until": until.Format("2006-01-02"),
		"count": len(schedules),
	}).Debug("Retrieved schedules due for sweep")

	return schedules, nil
}

func (r *GormScheduleRepository) ExistsAt(assignmentID uint, date time.Time, timeslotID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.Schedule{}).
		Where("assignment_id = ? AND session_date = ? AND timeslot_id = ?",
			assignmentID, date, timeslotID).
		Count(&count).Error
	if err != nil {
		r.logger.WithError(err).Error("Failed to check schedule slot occupancy")
		return false, err
	}
	return count > 0, nil
}

// DeleteByAssignmentID is the administrative escape hatch; normal operation
// cancels rows instead of deleting them.
func (r *GormScheduleRepository) DeleteByAssignmentID(assignmentID uint) (int64, error) {
	r.logger.WithField("assignment_id", assignmentID).Info("Bulk deleting schedule rows for assignment")

	result := r.db.Where("assignment_id = ?", assignmentID).Delete(&models.Schedule{})
	if result.Error != nil {
		r.logger.WithError(result.Error).Error("Failed to bulk delete schedule rows")
		return 0, result.Error
	}

	r.logger.WithFields(logrus.Fields{
		"assignment_id": assignmentID,
		"rows_affected": result.RowsAffected,
	}).Info("Schedule rows deleted successfully")

	return result.RowsAffected, nil
}
