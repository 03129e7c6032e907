package models

import (
	"time"

	"teaching-schedule-core/pkg/shift"
)

// GroupedSession is a derived, never-persisted run of adjacent schedule
// rows shown to users as one logical class meeting.
type GroupedSession struct {
	SessionDate  time.Time   `json:"session_date"`
	AssignmentID uint        `json:"assignment_id"`
	Shift        shift.Shift `json:"shift"`
	Rows         []*Schedule `json:"rows"`
}

// First returns the earliest row of the run.
func (g *GroupedSession) First() *Schedule {
	if len(g.Rows) == 0 {
		return nil
	}
	return g.Rows[0]
}

// Last returns the latest row of the run.
func (g *GroupedSession) Last() *Schedule {
	if len(g.Rows) == 0 {
		return nil
	}
	return g.Rows[len(g.Rows)-1]
}

// StartTime returns the start time of the first row, "" when unknown.
func (g *GroupedSession) StartTime() string {
	if row := g.First(); row != nil && row.Timeslot != nil {
		return row.Timeslot.StartTime
	}
	return ""
}

// EndTime returns the end time of the last row, "" when unknown.
func (g *GroupedSession) EndTime() string {
	if row := g.Last(); row != nil && row.Timeslot != nil {
		return row.Timeslot.EndTime
	}
	return ""
}

// Periods sums the periods covered by all rows in the run.
func (g *GroupedSession) Periods() int {
	total := 0
	for _, row := range g.Rows {
		total += row.Periods
	}
	return total
}
