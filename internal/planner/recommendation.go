package planner

import (
	"fmt"
	"study_planner_backend/internal/model"
	"time"
)

type RecommendationLevel string

const (
	LevelUrgent RecommendationLevel = "urgent"
	LevelHigh   RecommendationLevel = "high"
	LevelLow    RecommendationLevel = "low"
)

const (
	examWarningDays = 7
	praiseMinDone   = 5
)

type Recommendation struct {
	SubjectID uint                `json:"subjectId"`
	Subject   string              `json:"subject"`
	Message   string              `json:"message"`
	Priority  RecommendationLevel `json:"priority"`
}

// GetRecommendations inspects each subject's tasks and exam date and emits advice in
// subject order. A subject without tasks only gets the "create a plan" prompt.
func GetRecommendations(subjects []model.Subject, tasks []model.Task, now time.Time) []Recommendation {
	bySubject := groupBySubject(tasks)
	recommendations := []Recommendation{}

	for _, subject := range subjects {
		add := func(level RecommendationLevel, message string) {
			recommendations = append(recommendations, Recommendation{
				SubjectID: subject.ID,
				Subject:   subject.Name,
				Message:   message,
				Priority:  level,
			})
		}

		counts := countTasks(bySubject[subject.ID])
		if counts.total == 0 {
			add(LevelHigh, "No tasks scheduled yet. Create a study plan!")
			continue
		}

		if counts.missed > missedTasksEscalation {
			add(LevelUrgent, fmt.Sprintf("You've missed %d tasks. Need to focus more!", counts.missed))
		}

		if daysLeft := DaysUntil(subject.ExamDate, now); daysLeft > 0 && daysLeft <= examWarningDays {
			add(LevelUrgent, fmt.Sprintf("Exam in %d days! Start revision now.", daysLeft))
		}

		if counts.completed > praiseMinDone && counts.missed == 0 {
			add(LevelLow, "Great job! Keep up the good work! 🎉")
		}
	}
	return recommendations
}
