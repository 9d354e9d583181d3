package planner

import (
	"math"
	"study_planner_backend/internal/model"
)

type taskCounts struct {
	total            int
	completed        int
	missed           int
	pending          int
	completedMinutes int
	plannedMinutes   int
}

func countTasks(tasks []model.Task) taskCounts {
	var c taskCounts
	for _, t := range tasks {
		c.total++
		c.plannedMinutes += t.Duration
		switch t.Status {
		case model.TaskCompleted:
			c.completed++
			c.completedMinutes += t.Duration
		case model.TaskMissed:
			c.missed++
		case model.TaskPending:
			c.pending++
		}
	}
	return c
}

func (c taskCounts) completionRate() float64 {
	if c.total == 0 {
		return 0
	}
	return float64(c.completed) / float64(c.total)
}

// completionPercent is the completion rate as a rounded whole percentage.
func (c taskCounts) completionPercent() int {
	return int(math.Round(c.completionRate() * 100))
}

// groupBySubject buckets tasks by subject id, preserving task order within each bucket.
func groupBySubject(tasks []model.Task) map[uint][]model.Task {
	groups := make(map[uint][]model.Task)
	for _, t := range tasks {
		groups[t.SubjectID] = append(groups[t.SubjectID], t)
	}
	return groups
}
