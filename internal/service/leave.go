package service

import (
	"encoding/json"
	"fmt"
	"time"

	"teaching-schedule-core/internal/apperrors"
	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// NotificationSink receives fire-and-forget notifications. Failures are
// swallowed by callers; delivery transport is outside this module.
type NotificationSink interface {
	Create(notification *models.Notification) error
}

// SubmitLeaveInput carries a lecturer's leave submission.
type SubmitLeaveInput struct {
	LecturerID uint   `validate:"required"`
	ScheduleID uint   `validate:"required"`
	Reason     string `validate:"required"`
	ProofURL   string `validate:"omitempty,url"`
}

// UpdateLeaveInput carries the fields a lecturer may edit while pending.
type UpdateLeaveInput struct {
	Reason   string `validate:"required"`
	ProofURL string `validate:"omitempty,url"`
}

// LeaveService tracks a lecturer's requests to skip specific schedule rows.
type LeaveService struct {
	leaveRepo    repository.LeaveRequestRepository
	scheduleRepo repository.ScheduleRepository
	sink         NotificationSink
	validate     *validator.Validate
	logger       *logrus.Logger
}

func NewLeaveService(
	leaveRepo repository.LeaveRequestRepository,
	scheduleRepo repository.ScheduleRepository,
	sink NotificationSink,
) *LeaveService {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &LeaveService{
		leaveRepo:    leaveRepo,
		scheduleRepo: scheduleRepo,
		sink:         sink,
		validate:     validator.New(),
		logger:       logger,
	}
}

// Submit creates a pending leave request for one schedule row. Only rows
// owned by the lecturer and starting strictly after the end of today are
// eligible, and a row accepts at most one request per lecturer.
func (s *LeaveService) Submit(input SubmitLeaveInput) (*models.LeaveRequest, error) {
	s.logger.WithFields(logrus.Fields{
		"lecturer_id": input.LecturerID,
		"schedule_id": input.ScheduleID,
	}).Info("Submitting leave request")

	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, err, "invalid leave submission")
	}

	schedule, err := s.scheduleRepo.GetByID(input.ScheduleID)
	if err != nil {
		return nil, err
	}
	if schedule == nil || !schedule.Assignment.OwnedBy(input.LecturerID) {
		return nil, apperrors.NotFound("schedule %d not found for lecturer %d", input.ScheduleID, input.LecturerID)
	}

	existing, err := s.leaveRepo.GetByScheduleAndLecturer(schedule.ID, input.LecturerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperrors.Conflict("leave request already exists for schedule %d", schedule.ID)
	}

	now := time.Now()
	endOfToday := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	if !schedule.StartsAt().After(endOfToday) {
		return nil, apperrors.Validation("leave can only be requested for sessions after today")
	}

	request := &models.LeaveRequest{
		Code:        uuid.NewString(),
		ScheduleID:  schedule.ID,
		LecturerID:  input.LecturerID,
		Reason:      input.Reason,
		ProofURL:    input.ProofURL,
		Status:      models.LeaveStatusPending,
		RequestedAt: now,
	}

	if err := s.leaveRepo.Create(request); err != nil {
		return nil, err
	}

	s.notify(input.LecturerID, "Leave request submitted",
		fmt.Sprintf("Your leave request for %s has been submitted.", schedule.SessionDate.Format("02/01/2006")),
		map[string]any{"leave_request_id": request.ID, "schedule_id": schedule.ID})

	return request, nil
}

// Update edits a pending request; decided or withdrawn requests are immutable.
func (s *LeaveService) Update(lecturerID, requestID uint, input UpdateLeaveInput) (*models.LeaveRequest, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, apperrors.Wrap(apperrors.KindValidation, err, "invalid leave update")
	}

	request, err := s.getOwnedRequest(lecturerID, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.Conflict("leave request %d is %s and can no longer be edited", request.ID, request.Status)
	}

	request.Reason = input.Reason
	request.ProofURL = input.ProofURL

	if err := s.leaveRepo.Update(request); err != nil {
		return nil, err
	}

	return request, nil
}

// Cancel withdraws a pending request.
func (s *LeaveService) Cancel(lecturerID, requestID uint) (*models.LeaveRequest, error) {
	request, err := s.getOwnedRequest(lecturerID, requestID)
	if err != nil {
		return nil, err
	}
	if !request.IsPending() {
		return nil, apperrors.Conflict("leave request %d is %s and can no longer be canceled", request.ID, request.Status)
	}

	request.Status = models.LeaveStatusCanceled
	if err := s.leaveRepo.Update(request); err != nil {
		return nil, err
	}

	s.logger.WithField("leave_request_id", request.ID).Info("Leave request withdrawn by lecturer")

	return request, nil
}

// Decide records the training department's decision on a pending request.
func (s *LeaveService) Decide(requestID uint, outcome string, deciderID uint) (*models.LeaveRequest, error) {
	if outcome != models.LeaveStatusApproved && outcome != models.LeaveStatusRejected {
		return nil, apperrors.Validation("invalid leave decision %q", outcome)
	}

	request, err := s.leaveRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("leave request %d not found", requestID)
	}
	if !request.IsPending() {
		return nil, apperrors.Conflict("leave request %d has already been decided", request.ID)
	}

	request.MarkDecided(outcome, deciderID, time.Now())
	if err := s.leaveRepo.Update(request); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"leave_request_id": request.ID,
		"outcome":          outcome,
		"decided_by":       deciderID,
	}).Info("Leave request decided")

	s.notify(request.LecturerID, "Leave request "+outcome,
		fmt.Sprintf("Your leave request %s has been %s.", request.Code, outcome),
		map[string]any{"leave_request_id": request.ID})

	return request, nil
}

// ListMine returns the lecturer's requests, newest first. An empty status
// filter returns all of them.
func (s *LeaveService) ListMine(lecturerID uint, statusFilter string) ([]*models.LeaveRequest, error) {
	return s.leaveRepo.ListByLecturer(lecturerID, statusFilter)
}

func (s *LeaveService) getOwnedRequest(lecturerID, requestID uint) (*models.LeaveRequest, error) {
	request, err := s.leaveRepo.GetByID(requestID)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, apperrors.NotFound("leave request %d not found", requestID)
	}
	if request.LecturerID != lecturerID {
		return nil, apperrors.Forbidden("leave request %d does not belong to lecturer %d", requestID, lecturerID)
	}
	return request, nil
}

// notify is best-effort: a failing sink never fails the operation.
func (s *LeaveService) notify(lecturerID uint, title, body string, payload map[string]any) {
	raw, err := json.Marshal(payload)
	if err != nil {
		raw = nil
	}

	notification := &models.Notification{
		LecturerID: lecturerID,
		Title:      title,
		Body:       body,
		Payload:    raw,
	}

	if err := s.sink.Create(notification); err != nil {
		s.logger.WithError(err).Warn("Failed to deliver notification, ignoring")
	}
}
