package service

import (
	"testing"

	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/internal/repository"
)

func setupReport(t *testing.T) (*fixture, *ReportService, *models.Assignment) {
	t.Helper()
	f := newFixture(t)
	lecturer := f.seedLecturer(t, "GV01")
	subject := f.seedSubject(t, "BIO101", "Biology")
	assignment := f.seedAssignment(t, lecturer.ID, subject.ID, "2025A")
	svc := NewReportService(f.schedules)
	return f, svc, assignment
}

func TestSubjectProgressCounts(t *testing.T) {
	f, svc, assignment := setupReport(t)

	statuses := []string{
		models.StatusDone,
		models.StatusDone,
		models.StatusMakeupDone,
		models.StatusCanceled,
		models.StatusPlanned,
		models.StatusTeaching,
	}
	for i, status := range statuses {
		slot := f.seedTimeslot(t, slotCode(i), "08:00:00", "08:50:00")
		f.seedSchedule(t, assignment.ID, day(i+1), slot.ID, status)
	}

	report, err := svc.SubjectProgress(assignment.LecturerID, repository.ScheduleFilter{})
	if err != nil {
		t.Fatalf("SubjectProgress failed: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(report))
	}

	progress := report[0]
	if progress.Total != 6 {
		t.Errorf("total = %d, want 6", progress.Total)
	}
	if progress.Done != 3 {
		t.Errorf("done = %d, want 3", progress.Done)
	}
	if progress.Canceled != 1 {
		t.Errorf("canceled = %d, want 1", progress.Canceled)
	}
	if progress.Upcoming != 2 {
		t.Errorf("upcoming = %d, want 2", progress.Upcoming)
	}
	if progress.Done+progress.Canceled+progress.Upcoming != progress.Total {
		t.Errorf("done+canceled+upcoming != total: %+v", progress)
	}
	if progress.Ratio != 0.5 {
		t.Errorf("ratio = %v, want 0.5", progress.Ratio)
	}
	if progress.ProgressText != "3/6 buoi" {
		t.Errorf("progress text = %q, want \"3/6 buoi\"", progress.ProgressText)
	}
}

func TestSubjectProgressRecomputesUpcoming(t *testing.T) {
	f, svc, assignment := setupReport(t)

	slotA := f.seedTimeslot(t, "T1", "08:00:00", "08:50:00")
	slotB := f.seedTimeslot(t, "T2", "08:55:00", "09:45:00")
	slotC := f.seedTimeslot(t, "T3", "09:50:00", "10:40:00")
	f.seedSchedule(t, assignment.ID, day(1), slotA.ID, models.StatusDone)
	f.seedSchedule(t, assignment.ID, day(2), slotB.ID, models.StatusPlanned)
	alien := f.seedSchedule(t, assignment.ID, day(3), slotC.ID, models.StatusPlanned)

	// Simulate a row carrying a status this module does not know about:
	// the naive per-status tally misses it, the recomputation must not.
	if err := f.db.Model(&models.Schedule{}).Where("id = ?", alien.ID).
		Update("status", "suspended").Error; err != nil {
		t.Fatalf("failed to inject alien status: %v", err)
	}

	report, err := svc.SubjectProgress(assignment.LecturerID, repository.ScheduleFilter{})
	if err != nil {
		t.Fatalf("SubjectProgress failed: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 subject, got %d", len(report))
	}

	progress := report[0]
	if progress.Total != 3 {
		t.Fatalf("total = %d, want 3", progress.Total)
	}
	if progress.Done+progress.Canceled+progress.Upcoming != progress.Total {
		t.Errorf("recomputation invariant violated: %+v", progress)
	}
	if progress.Upcoming != 2 {
		t.Errorf("upcoming = %d, want 2 after recomputation", progress.Upcoming)
	}
}

func TestSubjectProgressGroupsBySubject(t *testing.T) {
	f, svc, assignment := setupReport(t)

	other := f.seedSubject(t, "GEO101", "Geology")
	otherAssignment := f.seedAssignment(t, assignment.LecturerID, other.ID, "2025A")

	slotA := f.seedTimeslot(t, "T1", "08:00:00", "08:50:00")
	slotB := f.seedTimeslot(t, "T2", "08:55:00", "09:45:00")
	f.seedSchedule(t, assignment.ID, day(1), slotA.ID, models.StatusDone)
	f.seedSchedule(t, otherAssignment.ID, day(1), slotB.ID, models.StatusPlanned)

	report, err := svc.SubjectProgress(assignment.LecturerID, repository.ScheduleFilter{})
	if err != nil {
		t.Fatalf("SubjectProgress failed: %v", err)
	}
	if len(report) != 2 {
		t.Fatalf("expected 2 subjects, got %d", len(report))
	}
}

func TestSubjectProgressEmpty(t *testing.T) {
	_, svc, assignment := setupReport(t)

	report, err := svc.SubjectProgress(assignment.LecturerID, repository.ScheduleFilter{})
	if err != nil {
		t.Fatalf("SubjectProgress failed: %v", err)
	}
	if len(report) != 0 {
		t.Fatalf("expected empty report, got %d entries", len(report))
	}
}

func TestSubjectProgressSemesterFilter(t *testing.T) {
	f, svc, assignment := setupReport(t)

	other := f.seedSubject(t, "GEO101", "Geology")
	otherAssignment := f.seedAssignment(t, assignment.LecturerID, other.ID, "2025B")

	slotA := f.seedTimeslot(t, "T1", "08:00:00", "08:50:00")
	slotB := f.seedTimeslot(t, "T2", "08:55:00", "09:45:00")
	f.seedSchedule(t, assignment.ID, day(1), slotA.ID, models.StatusDone)
	f.seedSchedule(t, otherAssignment.ID, day(1), slotB.ID, models.StatusPlanned)

	report, err := svc.SubjectProgress(assignment.LecturerID, repository.ScheduleFilter{Semester: "2025A"})
	if err != nil {
		t.Fatalf("SubjectProgress failed: %v", err)
	}
	if len(report) != 1 {
		t.Fatalf("expected 1 subject for semester filter, got %d", len(report))
	}
	if report[0].SubjectCode != "BIO101" {
		t.Errorf("subject = %q, want BIO101", report[0].SubjectCode)
	}
}

func slotCode(i int) string {
	return string(rune('A'+i)) + "-SLOT" // unique non-period codes
}
