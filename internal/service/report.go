package service

import (
	"fmt"
	"math"

	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/internal/repository"

	"github.com/sirupsen/logrus"
)

// SubjectProgress is the per-subject progress summary for one lecturer.
type SubjectProgress struct {
	SubjectID    uint    `json:"subject_id"`
	SubjectCode  string  `json:"subject_code"`
	SubjectName  string  `json:"subject_name"`
	Total        int     `json:"total"`
	Done         int     `json:"done"`
	Canceled     int     `json:"canceled"`
	Upcoming     int     `json:"upcoming"`
	TotalPeriods int     `json:"total_periods"`
	DonePeriods  int     `json:"done_periods"`
	Ratio        float64 `json:"ratio"`
	ProgressText string  `json:"progress_text"`
}

// ReportService derives read-only progress counters from schedule rows.
type ReportService struct {
	scheduleRepo repository.ScheduleRepository
	logger       *logrus.Logger
}

func NewReportService(scheduleRepo repository.ScheduleRepository) *ReportService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &ReportService{
		scheduleRepo: scheduleRepo,
		logger:       logger,
	}
}

// SubjectProgress groups a lecturer's rows by subject and computes
// total/done/canceled/upcoming session counts plus period counters.
// Whenever the naive per-status tally disagrees with the separately summed
// not-done/canceled count, upcoming is recomputed as total-(done+canceled)
// so that done+canceled+upcoming==total always holds.
func (s *ReportService) SubjectProgress(lecturerID uint, filter repository.ScheduleFilter) ([]*SubjectProgress, error) {
	rows, err := s.scheduleRepo.ListByLecturer(lecturerID, filter)
	if err != nil {
		return nil, err
	}

	bySubject := make(map[uint]*SubjectProgress)
	order := make([]uint, 0)
	notDoneCanceled := make(map[uint]int)

	for _, row := range rows {
		subjectID := row.Assignment.SubjectID
		progress, ok := bySubject[subjectID]
		if !ok {
			progress = &SubjectProgress{
				SubjectID:   subjectID,
				SubjectCode: row.Assignment.Subject.Code,
				SubjectName: row.Assignment.Subject.Name,
			}
			bySubject[subjectID] = progress
			order = append(order, subjectID)
		}

		progress.Total++
		progress.TotalPeriods += row.Periods

		switch row.Status {
		case models.StatusDone, models.StatusMakeupDone:
			progress.Done++
			progress.DonePeriods += row.Periods
		case models.StatusCanceled:
			progress.Canceled++
		case models.StatusPlanned, models.StatusTeaching, models.StatusMakeupPlanned:
			progress.Upcoming++
		}

		switch row.Status {
		case models.StatusDone, models.StatusMakeupDone, models.StatusCanceled:
		default:
			notDoneCanceled[subjectID]++
		}
	}

	result := make([]*SubjectProgress, 0, len(order))
	for _, subjectID := range order {
		progress := bySubject[subjectID]

		// Arithmetic consistency wins over the raw tally.
		if progress.Upcoming != notDoneCanceled[subjectID] {
			progress.Upcoming = progress.Total - (progress.Done + progress.Canceled)
		}

		if progress.Total > 0 {
			progress.Ratio = math.Round(float64(progress.Done)/float64(progress.Total)*100) / 100
		}
		progress.ProgressText = fmt.Sprintf("%d/%d buoi", progress.Done, progress.Total)

		result = append(result, progress)
	}

	s.logger.WithFields(logrus.Fields{
		"lecturer_id": lecturerID,
		"subjects":    len(result),
		"rows":        len(rows),
	}).Debug("Computed subject progress report")

	return result, nil
}
