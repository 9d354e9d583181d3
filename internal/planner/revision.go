package planner

import (
	"fmt"
	"study_planner_backend/internal/model"
	"time"
)

const (
	DefaultRevisionDays       = 7
	DefaultRevisionWindowDays = 14

	RevisionMinutes = 90
	MockTestMinutes = 120

	// the mock test lands this many days before the exam
	mockTestLeadDays = 2
)

// GenerateRevisionTasks schedules one revision session on each of the daysBeforeExam days
// before the exam, plus a mock test two days out. It does not check whether those dates are
// already in the past; see NeedsRevision.
func GenerateRevisionTasks(subject model.Subject, userID uint, daysBeforeExam int) []model.Task {
	if daysBeforeExam <= 0 {
		daysBeforeExam = DefaultRevisionDays
	}

	tasks := make([]model.Task, 0, daysBeforeExam+1)
	for day := daysBeforeExam; day > 0; day-- {
		tasks = append(tasks, model.Task{
			UserID:    userID,
			SubjectID: subject.ID,
			Title:     fmt.Sprintf("Revision - %s", subject.Name),
			Duration:  RevisionMinutes,
			Status:    model.TaskPending,
			Date:      midnight(subject.ExamDate.AddDate(0, 0, -day)),
		})
	}

	tasks = append(tasks, model.Task{
		UserID:    userID,
		SubjectID: subject.ID,
		Title:     fmt.Sprintf("Mock Test - %s", subject.Name),
		Duration:  MockTestMinutes,
		Status:    model.TaskPending,
		Date:      midnight(subject.ExamDate.AddDate(0, 0, -mockTestLeadDays)),
	})
	return tasks
}

// NeedsRevision reports whether the exam falls within the next windowDays days (today excluded).
func NeedsRevision(subject model.Subject, now time.Time, windowDays int) bool {
	if windowDays <= 0 {
		windowDays = DefaultRevisionWindowDays
	}
	days := DaysUntil(subject.ExamDate, now)
	return days > 0 && days <= windowDays
}
