package service

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// fixture bundles an in-memory database with the real repositories so
// service tests run against the same storage stack as production.
type fixture struct {
	db            *gorm.DB
	schedules     *repository.GormScheduleRepository
	attendance    *repository.GormAttendanceRepository
	leaves        *repository.GormLeaveRequestRepository
	makeups       *repository.GormMakeupRequestRepository
	timeslots     repository.TimeslotRepository
	notifications *repository.GormNotificationRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	schedules, err := repository.NewGormScheduleRepository(db)
	if err != nil {
		t.Fatalf("failed to create schedule repository: %v", err)
	}
	attendance, err := repository.NewGormAttendanceRepository(db)
	if err != nil {
		t.Fatalf("failed to create attendance repository: %v", err)
	}
	leaves, err := repository.NewGormLeaveRequestRepository(db)
	if err != nil {
		t.Fatalf("failed to create leave request repository: %v", err)
	}
	makeups, err := repository.NewGormMakeupRequestRepository(db)
	if err != nil {
		t.Fatalf("failed to create makeup request repository: %v", err)
	}
	timeslots, err := repository.NewGormTimeslotRepository(db)
	if err != nil {
		t.Fatalf("failed to create timeslot repository: %v", err)
	}
	notifications, err := repository.NewGormNotificationRepository(db)
	if err != nil {
		t.Fatalf("failed to create notification repository: %v", err)
	}

	return &fixture{
		db:            db,
		schedules:     schedules,
		attendance:    attendance,
		leaves:        leaves,
		makeups:       makeups,
		timeslots:     timeslots,
		notifications: notifications,
	}
}

func (f *fixture) seedLecturer(t *testing.T, code string) *models.Lecturer {
	t.Helper()
	lecturer := &models.Lecturer{Code: code, FullName: "Lecturer " + code}
	if err := f.db.Create(lecturer).Error; err != nil {
		t.Fatalf("failed to seed lecturer: %v", err)
	}
	return lecturer
}

func (f *fixture) seedSubject(t *testing.T, code, name string) *models.Subject {
	t.Helper()
	subject := &models.Subject{Code: code, Name: name}
	if err := f.db.Create(subject).Error; err != nil {
		t.Fatalf("failed to seed subject: %v", err)
	}
	return subject
}

func (f *fixture) seedAssignment(t *testing.T, lecturerID, subjectID uint, semester string) *models.Assignment {
	t.Helper()
	class := &models.ClassUnit{Code: fmt.Sprintf("C%d-%d", lecturerID, subjectID), Name: "Class"}
	if err := f.db.Create(class).Error; err != nil {
		t.Fatalf("failed to seed class unit: %v", err)
	}
	assignment := &models.Assignment{
		LecturerID:  lecturerID,
		SubjectID:   subjectID,
		ClassUnitID: class.ID,
		Semester:    semester,
	}
	if err := f.db.Create(assignment).Error; err != nil {
		t.Fatalf("failed to seed assignment: %v", err)
	}
	return assignment
}

func (f *fixture) seedTimeslot(t *testing.T, code, start, end string) *models.Timeslot {
	t.Helper()
	slot := &models.Timeslot{Code: code, DayOfWeek: 1, StartTime: start, EndTime: end}
	if err := f.db.Create(slot).Error; err != nil {
		t.Fatalf("failed to seed timeslot: %v", err)
	}
	return slot
}

func (f *fixture) seedSchedule(t *testing.T, assignmentID uint, date time.Time, timeslotID uint, status string) *models.Schedule {
	t.Helper()
	schedule := &models.Schedule{
		AssignmentID: assignmentID,
		SessionDate:  date,
		TimeslotID:   timeslotID,
		Status:       status,
		Periods:      1,
	}
	if err := f.schedules.Create(schedule); err != nil {
		t.Fatalf("failed to seed schedule: %v", err)
	}
	return schedule
}

func (f *fixture) seedAttendance(t *testing.T, scheduleID, studentID uint) {
	t.Helper()
	record := &models.AttendanceRecord{
		ScheduleID: scheduleID,
		StudentID:  studentID,
		Status:     models.AttendancePresent,
		MarkedAt:   time.Now(),
	}
	if err := f.attendance.Create(record); err != nil {
		t.Fatalf("failed to seed attendance: %v", err)
	}
}

func (f *fixture) reloadSchedule(t *testing.T, id uint) *models.Schedule {
	t.Helper()
	schedule, err := f.schedules.GetByID(id)
	if err != nil {
		t.Fatalf("failed to reload schedule: %v", err)
	}
	if schedule == nil {
		t.Fatalf("schedule %d disappeared", id)
	}
	return schedule
}

func day(offset int) time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, offset)
}

// failingSink always errors; leave submission must shrug it off.
type failingSink struct{}

func (failingSink) Create(*models.Notification) error {
	return errors.New("sink unavailable")
}
