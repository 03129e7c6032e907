package service

import (
	"strings"

	"teaching-schedule-core/internal/models"
	"teaching-schedule-core/pkg/shift"

	"github.com/sirupsen/logrus"
)

// MaxAdjacentGapMinutes is the widest break between two timeslots that
// still counts as the same teaching session.
const MaxAdjacentGapMinutes = 60

// SessionGrouper merges contiguous schedule rows sharing assignment, room
// and shift into logical teaching sessions.
type SessionGrouper struct {
	logger *logrus.Logger
}

func NewSessionGrouper() *SessionGrouper {
	logger := logrus.New()
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	return &SessionGrouper{logger: logger}
}

// Group scans rows left to right and produces maximal adjacent runs. Rows
// must be pre-sorted by (session date, start time) with timeslot and room
// loaded. Adjacency is always tested against the last row absorbed into
// the current group, and the scan stops at the first non-adjacent
// candidate; ties are resolved by input order, never by a global optimum.
func (g *SessionGrouper) Group(rows []*models.Schedule) []*models.GroupedSession {
	if len(rows) == 0 {
		return []*models.GroupedSession{}
	}

	sessions := make([]*models.GroupedSession, 0, len(rows))
	consumed := make([]bool, len(rows))

	for i, row := range rows {
		if consumed[i] {
			continue
		}
		consumed[i] = true

		session := &models.GroupedSession{
			SessionDate:  row.SessionDate,
			AssignmentID: row.AssignmentID,
			Shift:        row.Shift(),
			Rows:         []*models.Schedule{row},
		}
		last := row

		for j := i + 1; j < len(rows); j++ {
			if consumed[j] {
				continue
			}
			if !g.isAdjacent(last, rows[j]) {
				break
			}
			consumed[j] = true
			session.Rows = append(session.Rows, rows[j])
			last = rows[j]
		}

		sessions = append(sessions, session)
	}

	g.logger.WithFields(logrus.Fields{
		"rows":     len(rows),
		"sessions": len(sessions),
	}).Debug("Grouped schedule rows into sessions")

	return sessions
}

// isAdjacent reports whether next directly continues prev: same day, same
// assignment, same room label and shift, with a gap of at most
// MaxAdjacentGapMinutes between prev's end and next's start. A negative
// gap (overlap or out-of-order input) is rejected. Rows without a loaded
// timeslot or without start/end times are never adjacent to anything.
func (g *SessionGrouper) isAdjacent(prev, next *models.Schedule) bool {
	if prev.Timeslot == nil || next.Timeslot == nil {
		return false
	}
	if strings.TrimSpace(prev.Timeslot.EndTime) == "" || strings.TrimSpace(next.Timeslot.StartTime) == "" {
		return false
	}
	if !prev.SameDay(next.SessionDate) {
		return false
	}
	if prev.AssignmentID != next.AssignmentID {
		return false
	}
	if prev.RoomLabel() != next.RoomLabel() {
		return false
	}
	// Two "none" shifts compare equal on purpose.
	if prev.Shift() != next.Shift() {
		return false
	}

	gap := shift.Gap(prev.Timeslot.EndTime, next.Timeslot.StartTime)
	return gap >= 0 && gap <= MaxAdjacentGapMinutes
}
