package planner

import (
	"math"
	"study_planner_backend/internal/model"
	"time"
)

type UpdateOutcome string

const (
	OutcomeEscalated      UpdateOutcome = "escalated"
	OutcomeNormalized     UpdateOutcome = "normalized"
	OutcomeUnchanged      UpdateOutcome = "unchanged"
	OutcomeSkippedNoTasks UpdateOutcome = "skipped_no_tasks"
	// set by the caller when persisting an update fails
	OutcomeFailed UpdateOutcome = "failed"
)

const (
	escalationStep        = 2.0
	poorCompletionRate    = 0.5
	goodCompletionRate    = 0.8
	missedTasksEscalation = 3
)

// PriorityUpdate is the planner's verdict on one subject's stored priority.
type PriorityUpdate struct {
	SubjectID      uint          `json:"subjectId"`
	SubjectName    string        `json:"subjectName"`
	OldPriority    float64       `json:"oldPriority"`
	NewPriority    float64       `json:"newPriority"`
	TotalTasks     int           `json:"totalTasks"`
	CompletedTasks int           `json:"completedTasks"`
	MissedTasks    int           `json:"missedTasks"`
	CompletionRate float64       `json:"completionRate"`
	Outcome        UpdateOutcome `json:"outcome"`
	Reason         string        `json:"reason,omitempty"`
}

// NeedsSave reports whether the new priority has to be written back.
func (u PriorityUpdate) NeedsSave() bool {
	return u.Outcome == OutcomeEscalated || u.Outcome == OutcomeNormalized
}

// ComputePriorityUpdate adjusts a subject's stored priority from how its tasks went.
// Poor performance (under half completed, or more than three missed) bumps the priority
// by two, capped at 10. Strong performance (over 80% completed) resets it to the
// calculated value. Subjects without tasks are left alone.
func ComputePriorityUpdate(subject model.Subject, tasks []model.Task, now time.Time) PriorityUpdate {
	counts := countTasks(tasks)
	update := PriorityUpdate{
		SubjectID:      subject.ID,
		SubjectName:    subject.Name,
		OldPriority:    subject.Priority,
		NewPriority:    subject.Priority,
		TotalTasks:     counts.total,
		CompletedTasks: counts.completed,
		MissedTasks:    counts.missed,
		CompletionRate: counts.completionRate(),
	}

	switch {
	case counts.total == 0:
		update.Outcome = OutcomeSkippedNoTasks
	case counts.completionRate() < poorCompletionRate:
		update.Outcome = OutcomeEscalated
		update.Reason = "completion rate below 50%"
		update.NewPriority = math.Min(MaxPriority, subject.Priority+escalationStep)
	case counts.missed > missedTasksEscalation:
		update.Outcome = OutcomeEscalated
		update.Reason = "more than 3 missed tasks"
		update.NewPriority = math.Min(MaxPriority, subject.Priority+escalationStep)
	case counts.completionRate() > goodCompletionRate:
		update.Outcome = OutcomeNormalized
		update.Reason = "completion rate above 80%"
		update.NewPriority = CalculatePriority(subject, now)
	default:
		update.Outcome = OutcomeUnchanged
	}
	return update
}

// ComputePriorityUpdates runs ComputePriorityUpdate for every subject, in order.
func ComputePriorityUpdates(subjects []model.Subject, tasks []model.Task, now time.Time) []PriorityUpdate {
	bySubject := groupBySubject(tasks)

	updates := make([]PriorityUpdate, 0, len(subjects))
	for _, subject := range subjects {
		updates = append(updates, ComputePriorityUpdate(subject, bySubject[subject.ID], now))
	}
	return updates
}
