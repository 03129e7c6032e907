package service

import (
	"time"

	"teaching-schedule-core/internal/apperrors"
	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/internal/repository"

	"github.com/sirupsen/logrus"
)

// SweepResult summarizes one run of a status sweep.
type SweepResult struct {
	Done     int
	Canceled int
	Failed   int
}

// ScheduleStatusService drives the per-row status machine: lecturer
// start/finish actions plus the periodic time-based sweeps.
type ScheduleStatusService struct {
	scheduleRepo   repository.ScheduleRepository
	attendanceRepo repository.AttendanceRepository
	logger         *logrus.Logger
}

func NewScheduleStatusService(
	scheduleRepo repository.ScheduleRepository,
	attendanceRepo repository.AttendanceRepository,
) *ScheduleStatusService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ScheduleStatusService{
		scheduleRepo:   scheduleRepo,
		attendanceRepo: attendanceRepo,
		logger:         logger,
	}
}

// Start moves a planned row to teaching.
func (s *ScheduleStatusService) Start(lecturerID, scheduleID uint) (*models.Schedule, error) {
	s.logger.WithFields(logrus.Fields{
		"lecturer_id": lecturerID,
		"schedule_id": scheduleID,
	}).Info("Lecturer starting session")

	schedule, err := s.getOwnedSchedule(lecturerID, scheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.Status != models.StatusPlanned {
		return nil, apperrors.InvalidState("cannot start session in status %q", schedule.Status)
	}

	schedule.Status = models.StatusTeaching
	if err := s.scheduleRepo.Update(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// Finish moves a planned or teaching row to done. At least one attendance
// record must exist for the row first.
func (s *ScheduleStatusService) Finish(lecturerID, scheduleID uint) (*models.Schedule, error) {
	s.logger.WithFields(logrus.Fields{
		"lecturer_id": lecturerID,
		"schedule_id": scheduleID,
	}).Info("Lecturer finishing session")

	schedule, err := s.getOwnedSchedule(lecturerID, scheduleID)
	if err != nil {
		return nil, err
	}

	if schedule.Status != models.StatusPlanned && schedule.Status != models.StatusTeaching {
		return nil, apperrors.InvalidState("cannot finish session in status %q", schedule.Status)
	}

	hasAttendance, err := s.attendanceRepo.ExistsForSchedule(schedule.ID)
	if err != nil {
		return nil, err
	}
	if !hasAttendance {
		return nil, apperrors.PreconditionFailed("must take attendance first")
	}

	schedule.Status = models.StatusDone
	if err := s.scheduleRepo.Update(schedule); err != nil {
		return nil, err
	}

	return schedule, nil
}

// SweepPastDue walks every planned/teaching/makeup-planned row whose start
// moment is strictly in the past: rows with attendance become done, rows
// without become canceled and get an auto note when the note is empty.
// Each row is persisted individually; a failed row is logged and skipped,
// the sweep is idempotent and safe to re-run.
func (s *ScheduleStatusService) SweepPastDue(now time.Time) (SweepResult, error) {
	var result SweepResult

	statuses := []string{models.StatusPlanned, models.StatusTeaching, models.StatusMakeupPlanned}
	candidates, err := s.scheduleRepo.ListDueForSweep(statuses, now)
	if err != nil {
		return result, err
	}

	for _, schedule := range candidates {
		if !schedule.StartsAt().Before(now) {
			continue
		}

		hasAttendance, err := s.attendanceRepo.ExistsForSchedule(schedule.ID)
		if err != nil {
			s.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Error("Sweep: failed to check attendance, skipping row")
			result.Failed++
			continue
		}

		if hasAttendance {
			schedule.Status = models.StatusDone
		} else {
			schedule.Status = models.StatusCanceled
			if schedule.Note == "" {
				schedule.Note = models.AutoCancelNote
			}
		}

		if err := s.scheduleRepo.Update(schedule); err != nil {
			s.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Error("Sweep: failed to update row, skipping")
			result.Failed++
			continue
		}

		if schedule.Status == models.StatusDone {
			result.Done++
		} else {
			result.Canceled++
		}
	}

	s.logger.WithFields(logrus.Fields{
		"done":     result.Done,
		"canceled": result.Canceled,
		"failed":   result.Failed,
	}).Info("Past-due sweep finished")

	return result, nil
}

// SweepEndOfDay forcibly promotes every non-terminal row whose session day
// is over (date before today, or end time passed today) straight to done.
// Unlike SweepPastDue it does NOT check attendance; the two sweeps are
// intentionally kept as separate operations with different gating.
func (s *ScheduleStatusService) SweepEndOfDay(now time.Time) (int, error) {
	statuses := []string{models.StatusPlanned, models.StatusTeaching, models.StatusMakeupPlanned}
	candidates, err := s.scheduleRepo.ListDueForSweep(statuses, now)
	if err != nil {
		return 0, err
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	promoted := 0

	for _, schedule := range candidates {
		pastDay := schedule.StartsAt().Before(today)
		endedToday := schedule.SameDay(now) && schedule.EndsAt().Before(now)
		if !pastDay && !endedToday {
			continue
		}

		schedule.Status = models.StatusDone
		if err := s.scheduleRepo.Update(schedule); err != nil {
			s.logger.WithError(err).WithField("schedule_id", schedule.ID).
				Error("End-of-day sweep: failed to update row, skipping")
			continue
		}
		promoted++
	}

	s.logger.WithField("promoted", promoted).Info("End-of-day sweep finished")

	return promoted, nil
}

func (s *ScheduleStatusService) getOwnedSchedule(lecturerID, scheduleID uint) (*models.Schedule, error) {
	schedule, err := s.scheduleRepo.GetByID(scheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || !schedule.Assignment.OwnedBy(lecturerID) {
		return nil, apperrors.NotFound("schedule %d not found for lecturer %d", scheduleID, lecturerID)
	}
	return schedule, nil
}
