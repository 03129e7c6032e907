package repository

import (
	"errors"

	"teaching-schedule-core/internal/models"

	"gorm.io/gorm"
)

type TimeslotRepository interface {
	GetByID(id uint) (*models.Timeslot, error)
	GetByCode(code string) (*models.Timeslot, error)
	List() ([]*models.Timeslot, error)
}

type GormTimeslotRepository struct {
	db *gorm.DB
}

func NewGormTimeslotRepository(db *gorm.DB) (TimeslotRepository, error) {
	if err := db.AutoMigrate(&models.Timeslot{}); err != nil {
		return nil, err
	}
	return &GormTimeslotRepository{db: db}, nil
}

func (r *GormTimeslotRepository) GetByID(id uint) (*models.Timeslot, error) {
	var slot models.Timeslot
	err := r.db.First(&slot, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormTimeslotRepository) GetByCode(code string) (*models.Timeslot, error) {
	var slot models.Timeslot
	err := r.db.Where("code = ?", code).First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &slot, nil
}

func (r *GormTimeslotRepository) List() ([]*models.Timeslot, error) {
	var slots []*models.Timeslot
	err := r.db.Order("day_of_week, start_time").Find(&slots).Error
	return slots, err
}
