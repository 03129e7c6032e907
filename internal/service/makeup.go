package service

import (
	"time"

	"teaching-schedule-core/internal/apperrors"
	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ProposeMakeupInput carries a lecturer's replacement-session proposal.
type ProposeMakeupInput struct {
	LecturerID     uint      `validate:"required"`
	LeaveRequestID uint      `validate:"required"`
	SuggestedDate  time.Time `validate:"required"`
	TimeslotID     uint      `validate:"required"`
	RoomID         *uint
	Note           string
}

// UpdateMakeupInput carries the fields a lecturer may edit while pending.
type UpdateMakeupInput struct {
	SuggestedDate time.Time `validate:"required"`
	TimeslotID    uint      `validate:"required"`
	RoomID        *uint
	Note          string
}

// MakeupService tracks replacement-session proposals tied to leave
// requests, with their own decision lifecycle.
type MakeupService struct {
	makeupRepo   repository.MakeupRequestRepository
	leaveRepo    repository.LeaveRequestRepository
	scheduleRepo repository.ScheduleRepository
	timeslotRepo repository.TimeslotRepository
	validate     *validator.Validate
	logger       *logrus.Logger
}

func NewMakeupService(
	makeupRepo repository.MakeupRequestRepository,
	leaveRepo repository.LeaveRequestRepository,
	scheduleRepo repository.ScheduleRepository,
	timeslotRepo repository.TimeslotRepository,
) *MakeupService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &MakeupService{
		makeupRepo:   makeupRepo,
		leaveRepo:    leaveRepo,
		scheduleRepo: scheduleRepo,
		timeslotRepo: timeslotRepo,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Propose creates a pending makeup request for one of the lecturer's leave
// requests. The leave is not required to be approved yet, and no slot
// conflict check happens here; both are resolved at decision time.
func (s *MakeupService) Propose(input ProposeMakeupInput) (*models.MakeupRequest, error) {
	s.logger.WithFields(logrus.Fields{
		"lecturer_id":      input.LecturerID,
		"leave_request_id": input.LeaveRequestID,
	}).Info("Proposing makeup session")

	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, err, "invalid makeup proposal")
	}

	leave, err := s.leaveRepo.GetByID(input.LeaveRequestID)
	if err != nil {
		return nil, err
	}
	if leave == nil {
		return nil, apperrors.NotFound("leave request %d not found", input.LeaveRequestID)
	}
	if leave.LecturerID != input.LecturerID {
		return nil, apperrors.Forbidden("leave request %d does not belong to lecturer %d", leave.ID, input.LecturerID)
	}

	slot, err := s.timeslotRepo.GetByID(input.TimeslotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperrors.Validation("timeslot %d does not exist", input.TimeslotID)
	}

	request := &models.MakeupRequest{
		Code:           uuid.NewString(),
		LeaveRequestID: leave.ID,
		SuggestedDate:  input.SuggestedDate,
		TimeslotID:     input.TimeslotID,
		RoomID:         input.RoomID,
		Note:           input.Note,
		Status:         models.MakeupStatusPending,
	}

	if err := s.makeupRepo.Create(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Update edits a pending request; decided requests are immutable.
func (s *MakeupService) Update(lecturerID, requestID uint, input UpdateMakeupInput) (*models.MakeupRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, err, "invalid makeup update")
	}

	request, err := s.getOwnedRequest(lecturerID, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.Conflict("makeup request %d is %s and can no longer be edited", request.ID, request.Status)
	}

	slot, err := s.timeslotRepo.GetByID(input.TimeslotID)
	if err != nil {
		return nil, err
	}
	if slot == nil {
		return nil, apperrors.Validation("timeslot %d does not exist", input.TimeslotID)
	}

	request.SuggestedDate = input.SuggestedDate
	request.TimeslotID = input.TimeslotID
	request.RoomID = input.RoomID
	request.Note = input.Note

	if err := s.makeupRepo.Update(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Cancel withdraws a pending request.
func (s *MakeupService) Cancel(lecturerID, requestID uint) (*models.MakeupRequest, error) {
	request, err := s.getOwnedRequest(lecturerID, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.Conflict("makeup request %d is %s and can no longer be canceled", request.ID, request.Status)
	}

	request.Status = models.MakeupStatusCanceled
	if err := s.makeupRepo.Update(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Decide records the training department's decision. Approval materializes
// a new schedule row with status makeup_planned referencing the original
// row; the unique (assignment, date, timeslot) index rejects collisions.
func (s *MakeupService) Decide(requestID uint, outcome string, deciderID uint) (*models.MakeupRequest, error) {
	if outcome != models.MakeupStatusApproved && outcome != models.MakeupStatusRejected {
		return nil, apperrors.Validation("invalid makeup decision %q", outcome)
	}

	request, err := s.makeupRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("makeup request %d not found", requestID)
	}
	if !request.IsPending() {
		return nil, apperrors.Conflict("makeup request %d has already been decided", request.ID)
	}

	if outcome == models.MakeupStatusApproved {
		if err := s.materializeSchedule(request); err != nil {
			return nil, err
		}
	}

	request.MarkDecided(outcome, deciderID, time.Now())
	if err := s.makeupRepo.Update(request); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"makeup_request_id": request.ID,
		"outcome":           outcome,
		"decided_by":        deciderID,
	}).Info("Makeup request decided")

	return request, nil
}

// ListMine returns the lecturer's makeup requests, newest first.
func (s *MakeupService) ListMine(lecturerID uint, statusFilter string) ([]*models.MakeupRequest, error) {
	return s.makeupRepo.ListByLecturer(lecturerID, statusFilter)
}

func (s *MakeupService) materializeSchedule(request *models.MakeupRequest) error {
	original := &request.LeaveRequest.Schedule

	occupied, err := s.scheduleRepo.ExistsAt(original.AssignmentID, request.SuggestedDate, request.TimeslotID)
	if err != nil {
		return err
	}
	if occupied {
		return apperrors.Conflict("assignment %d already has a row at the suggested slot", original.AssignmentID)
	}

	replacement := &models.Schedule{
		AssignmentID: original.AssignmentID,
		SessionDate:  request.SuggestedDate,
		TimeslotID:   request.TimeslotID,
		RoomID:       request.RoomID,
		Status:       models.StatusMakeupPlanned,
		Periods:      original.Periods,
		MakeupOfID:   &original.ID,
	}

	if err := s.scheduleRepo.Create(replacement); err != nil {
		return err
	}

	s.logger.WithFields(logrus.Fields{
		"makeup_request_id": request.ID,
		"schedule_id":       replacement.ID,
		"makeup_of":         original.ID,
	}).Info("Makeup schedule row materialized")

	return nil
}

func (s *MakeupService) getOwnedRequest(lecturerID, requestID uint) (*models.MakeupRequest, error) {
	request, err := s.makeupRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("makeup request %d not found", requestID)
	}
	if request.LeaveRequest.LecturerID != lecturerID {
		return nil, apperrors.Forbidden("makeup request %d does not belong to lecturer %d", requestID, lecturerID)
	}
	return request, nil
}
