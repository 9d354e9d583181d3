package planner

import (
	"study_planner_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAnalytics(t *testing.T) {
	subjects := []model.Subject{newSubject(1, "Maths", model.DifficultyHard, 10)}
	var tasks []model.Task
	tasks = append(tasks, newTasks(1, model.TaskCompleted, 60, 90, 60)...)
	tasks = append(tasks, newTasks(1, model.TaskMissed, 30)...)
	tasks = append(tasks, newTasks(1, model.TaskPending, 45)...)

	a := GetAnalytics(subjects, tasks)

	assert.Equal(t, 1, a.TotalSubjects)
	assert.Equal(t, 5, a.TotalTasks)
	assert.Equal(t, 3, a.CompletedTasks)
	assert.Equal(t, 1, a.MissedTasks)
	assert.Equal(t, 1, a.PendingTasks)
	assert.Equal(t, 60, a.CompletionRate)
	assert.Equal(t, 210, a.TotalStudyMinutes)

	require.Len(t, a.SubjectBreakdown, 1)
	b := a.SubjectBreakdown[0]
	assert.Equal(t, "Maths", b.SubjectName)
	assert.Equal(t, 60, b.CompletionRate)
	assert.Equal(t, 210, b.StudyMinutes)
}

func TestGetAnalytics_NoTasks(t *testing.T) {
	subjects := []model.Subject{
		newSubject(1, "a", model.DifficultyEasy, 10),
		newSubject(2, "b", model.DifficultyEasy, 10),
	}

	a := GetAnalytics(subjects, nil)
	assert.Equal(t, 2, a.TotalSubjects)
	assert.Equal(t, 0, a.CompletionRate)
	require.Len(t, a.SubjectBreakdown, 2)
	assert.Equal(t, "a", a.SubjectBreakdown[0].SubjectName)
	assert.Equal(t, "b", a.SubjectBreakdown[1].SubjectName)
}

func TestGetProgress(t *testing.T) {
	subjects := []model.Subject{
		newSubject(1, "a", model.DifficultyEasy, 10),
		newSubject(2, "b", model.DifficultyEasy, 10),
	}
	var tasks []model.Task
	tasks = append(tasks, newTasks(2, model.TaskCompleted, 60)...)
	tasks = append(tasks, newTasks(1, model.TaskMissed, 60)...)
	tasks = append(tasks, newTasks(2, model.TaskPending, 60)...)
	// subject deleted since
	tasks = append(tasks, newTasks(9, model.TaskCompleted, 60)...)

	p := GetProgress(subjects, tasks)
	assert.Equal(t, 2, p.CompletedTasks)
	assert.Equal(t, 1, p.MissedTasks)

	require.Len(t, p.SubjectProgress, 3)
	assert.Equal(t, uint(2), p.SubjectProgress[0].SubjectID)
	assert.Equal(t, "b", p.SubjectProgress[0].SubjectName)
	assert.InDelta(t, 50.0, p.SubjectProgress[0].ProgressPercent, 1e-9)
	assert.Equal(t, uint(1), p.SubjectProgress[1].SubjectID)
	assert.Equal(t, 0.0, p.SubjectProgress[1].ProgressPercent)
	assert.Empty(t, p.SubjectProgress[2].SubjectName)
}

func TestBuildDataset(t *testing.T) {
	subject := newSubject(1, "Maths", model.DifficultyHard, 10)
	subject.Priority = 7.5
	tasks := append(newTasks(1, model.TaskCompleted, 60, 90), newTasks(1, model.TaskMissed, 30)...)

	d := BuildDataset(4, []model.Subject{subject, newSubject(2, "idle", model.DifficultyEasy, 50)}, tasks, now)

	assert.Equal(t, uint(4), d.UserID)
	assert.Equal(t, now, d.Date)
	assert.Equal(t, DatasetOverall{TotalTasks: 3, Completed: 2, Missed: 1}, d.Overall)

	require.Len(t, d.Subjects, 2)
	row := d.Subjects[0]
	assert.Equal(t, 10, row.DaysUntilExam)
	assert.Equal(t, 7.5, row.Priority)
	assert.InDelta(t, 66.666, row.CompletionRate, 0.01)
	assert.InDelta(t, 60.0, row.AvgStudyTime, 1e-9)
	assert.Equal(t, 0.0, d.Subjects[1].AvgStudyTime)
}
