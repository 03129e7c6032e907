package service

import (
	"testing"

	"teaching-schedule-core/internal/apperrors"
	"teaching-schedule-core/internal/models"
)

func setupMakeup(t *testing.T) (*fixture, *MakeupService, *models.Assignment, *models.LeaveRequest) {
	t.Helper()
	f := newFixture(t)
	lecturer := f.seedLecturer(t, "GV01")
	subject := f.seedSubject(t, "CHEM101", "Chemistry")
	assignment := f.seedAssignment(t, lecturer.ID, subject.ID, "2025A")

	slot := f.seedTimeslot(t, "T1", "08:00:00", "08:50:00")
	schedule := f.seedSchedule(t, assignment.ID, day(3), slot.ID, models.StatusPlanned)

	leaveSvc := NewLeaveService(f.leaves, f.schedules, f.notifications)
	leave, err := leaveSvc.Submit(SubmitLeaveInput{
		LecturerID: lecturer.ID,
		ScheduleID: schedule.ID,
		Reason:     "conference travel",
	})
	if err != nil {
		t.Fatalf("failed to seed leave request: %v", err)
	}

	svc := NewMakeupService(f.makeups, f.leaves, f.schedules, f.timeslots)
	return f, svc, assignment, leave
}

func TestProposeMakeup(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	request, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
		Note:           "replacement lecture",
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}
	if request.Status != models.MakeupStatusPending {
		t.Errorf("status = %q, want pending", request.Status)
	}
	if request.Code == "" {
		t.Error("expected a generated request code")
	}
}

func TestProposeMakeupBeforeLeaveDecision(t *testing.T) {
	// The leave request is still pending here; proposing is allowed on
	// purpose, the approval step resolves the ordering.
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	if leave.Status != models.LeaveStatusPending {
		t.Fatalf("precondition: leave should be pending, is %q", leave.Status)
	}

	if _, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	}); err != nil {
		t.Fatalf("Propose before leave decision must succeed: %v", err)
	}
}

func TestProposeMakeupForeignLeaveForbidden(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	_, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID + 1,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	})
	if !apperrors.IsForbidden(err) {
		t.Fatalf("expected Forbidden for foreign leave request, got %v", err)
	}
}

func TestProposeMakeupUnknownLeaveNotFound(t *testing.T) {
	f, svc, assignment, _ := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	_, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: 9999,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	})
	if !apperrors.IsNotFound(err) {
		t.Fatalf("expected NotFound for unknown leave request, got %v", err)
	}
}

func TestProposeMakeupUnknownTimeslotFails(t *testing.T) {
	_, svc, assignment, leave := setupMakeup(t)

	_, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     9999,
	})
	if !apperrors.IsValidation(err) {
		t.Fatalf("expected Validation for unknown timeslot, got %v", err)
	}
}

func TestUpdateMakeupWhilePending(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slotA := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")
	slotB := f.seedTimeslot(t, "T8", "13:55:00", "14:45:00")

	request, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slotA.ID,
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	updated, err := svc.Update(assignment.LecturerID, request.ID, UpdateMakeupInput{
		SuggestedDate: day(8),
		TimeslotID:    slotB.ID,
		Note:          "moved one day later",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.TimeslotID != slotB.ID {
		t.Errorf("timeslot = %d, want %d", updated.TimeslotID, slotB.ID)
	}
}

func TestCancelMakeup(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	request, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	canceled, err := svc.Cancel(assignment.LecturerID, request.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if canceled.Status != models.MakeupStatusCanceled {
		t.Errorf("status = %q, want canceled", canceled.Status)
	}

	if _, err := svc.Update(assignment.LecturerID, request.ID, UpdateMakeupInput{
		SuggestedDate: day(8),
		TimeslotID:    slot.ID,
	}); !apperrors.IsConflict(err) {
		t.Fatalf("expected Conflict editing a canceled request, got %v", err)
	}
}

func TestDecideMakeupApprovalMaterializesRow(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	request, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	decided, err := svc.Decide(request.ID, models.MakeupStatusApproved, 77)
	if err != nil {
		t.Fatalf("Decide failed: %v", err)
	}
	if decided.Status != models.MakeupStatusApproved {
		t.Errorf("status = %q, want approved", decided.Status)
	}

	var replacement models.Schedule
	err = f.db.Where("makeup_of_id = ?", leave.ScheduleID).First(&replacement).Error
	if err != nil {
		t.Fatalf("expected a materialized replacement row: %v", err)
	}
	if replacement.Status != models.StatusMakeupPlanned {
		t.Errorf("replacement status = %q, want makeup_planned", replacement.Status)
	}
	if replacement.AssignmentID != assignment.ID {
		t.Errorf("replacement assignment = %d, want %d", replacement.AssignmentID, assignment.ID)
	}
	if replacement.TimeslotID != slot.ID {
		t.Errorf("replacement timeslot = %d, want %d", replacement.TimeslotID, slot.ID)
	}
}

func TestDecideMakeupApprovalConflictsOnOccupiedSlot(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	// The target slot is already occupied by the same assignment.
	f.seedSchedule(t, assignment.ID, day(7), slot.ID, models.StatusPlanned)

	request, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	_, err = svc.Decide(request.ID, models.MakeupStatusApproved, 77)
	if !apperrors.IsConflict(err) {
		t.Fatalf("expected Conflict on occupied slot, got %v", err)
	}

	// The request must stay pending so the decision can be retried.
	reloaded, err := f.makeups.GetByID(request.ID)
	if err != nil {
		t.Fatalf("failed to reload request: %v", err)
	}
	if !reloaded.IsPending() {
		t.Errorf("request status = %q, want pending after failed approval", reloaded.Status)
	}
}

func TestDecideMakeupRejectionLeavesNoRow(t *testing.T) {
	f, svc, assignment, leave := setupMakeup(t)
	slot := f.seedTimeslot(t, "T7", "13:00:00", "13:50:00")

	request, err := svc.Propose(ProposeMakeupInput{
		LecturerID:     assignment.LecturerID,
		LeaveRequestID: leave.ID,
		SuggestedDate:  day(7),
		TimeslotID:     slot.ID,
	})
	if err != nil {
		t.Fatalf("Propose failed: %v", err)
	}

	if _, err := svc.Decide(request.ID, models.MakeupStatusRejected, 77); err != nil {
		t.Fatalf("Decide failed: %v", err)
	}

	var count int64
	if err := f.db.Model(&models.Schedule{}).Where("makeup_of_id IS NOT NULL").Count(&count).Error; err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("rejection must not materialize a row, found %d", count)
	}
}
