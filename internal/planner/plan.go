package planner

import (
	"study_planner_backend/internal/model"
	"time"
)

const (
	PlanDays = 7

	// sessions shorter than this are not worth scheduling
	MinSessionMinutes = 30

	StudySessionTitle = "Study Session"
)

// DayPlan is one calendar day of allocated study time.
type DayPlan struct {
	Date time.Time         `json:"date"`
	Plan []model.PlanEntry `json:"plan"`
}

// GenerateStudyPlan lays out seven days starting at today's local midnight. The allocation
// is computed once and every day repeats the same split.
func GenerateStudyPlan(subjects []model.Subject, dailyMinutes int, now time.Time) []DayPlan {
	allocation := AllocateStudyTime(subjects, dailyMinutes, now)
	start := midnight(now)

	plan := make([]DayPlan, 0, PlanDays)
	for day := 0; day < PlanDays; day++ {
		entries := make([]model.PlanEntry, len(allocation))
		for i, item := range allocation {
			entries[i] = model.PlanEntry{
				SubjectID:  item.SubjectID,
				Minutes:    item.Minutes,
				Difficulty: item.Difficulty,
			}
		}
		plan = append(plan, DayPlan{
			Date: start.AddDate(0, 0, day),
			Plan: entries,
		})
	}
	return plan
}

// GenerateTasks flattens a plan into pending study sessions, one per day and subject.
// Entries under MinSessionMinutes are skipped.
func GenerateTasks(plan []DayPlan, userID uint) []model.Task {
	var tasks []model.Task
	for _, day := range plan {
		for _, entry := range day.Plan {
			if entry.Minutes < MinSessionMinutes {
				continue
			}
			tasks = append(tasks, model.Task{
				UserID:    userID,
				SubjectID: entry.SubjectID,
				Title:     StudySessionTitle,
				Duration:  entry.Minutes,
				Status:    model.TaskPending,
				Date:      day.Date,
			})
		}
	}
	return tasks
}
