package planner

import (
	"study_planner_backend/internal/model"
	"time"
)

// 15:00 so that exams at midnight are a fractional number of days away
var now = time.Date(2026, time.March, 10, 15, 0, 0, 0, time.UTC)

func today() time.Time {
	return midnight(now)
}

func newSubject(id uint, name string, difficulty model.Difficulty, examInDays int) model.Subject {
	s := model.Subject{
		Name:       name,
		Difficulty: difficulty,
		ExamDate:   today().AddDate(0, 0, examInDays),
	}
	s.ID = id
	return s
}

func newTasks(subjectID uint, status model.TaskStatus, durations ...int) []model.Task {
	tasks := make([]model.Task, 0, len(durations))
	for _, d := range durations {
		tasks = append(tasks, model.Task{
			SubjectID: subjectID,
			Title:     StudySessionTitle,
			Duration:  d,
			Status:    status,
			Date:      today(),
		})
	}
	return tasks
}

func repeat(n, duration int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = duration
	}
	return out
}
