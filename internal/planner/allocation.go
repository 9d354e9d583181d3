package planner

import (
	"math"
	"sort"
	"study_planner_backend/internal/model"
	"time"
)

const DefaultDailyMinutes = 240

// Allocation is one subject's share of the daily study budget.
type Allocation struct {
	SubjectID   uint             `json:"subjectId"`
	SubjectName string           `json:"subjectName"`
	Difficulty  model.Difficulty `json:"difficulty"`
	Minutes     int              `json:"minutes"`
	Priority    float64          `json:"priority"`
}

// AllocateStudyTime splits dailyMinutes across subjects in proportion to their priority,
// highest priority first. Ties keep input order. Each share is rounded on its own, so the
// total may drift from the budget by a few minutes.
//
// An empty subject list yields an empty allocation; callers should reject it beforehand.
func AllocateStudyTime(subjects []model.Subject, dailyMinutes int, now time.Time) []Allocation {
	if dailyMinutes <= 0 {
		dailyMinutes = DefaultDailyMinutes
	}

	priorities := make([]float64, len(subjects))
	totalPriority := 0.0
	for i, subject := range subjects {
		priorities[i] = CalculatePriority(subject, now)
		totalPriority += priorities[i]
	}
	if totalPriority <= 0 {
		return []Allocation{}
	}

	allocation := make([]Allocation, len(subjects))
	for i, subject := range subjects {
		share := priorities[i] / totalPriority
		allocation[i] = Allocation{
			SubjectID:   subject.ID,
			SubjectName: subject.Name,
			Difficulty:  subject.Difficulty,
			Minutes:     int(math.Round(float64(dailyMinutes) * share)),
			Priority:    priorities[i],
		}
	}

	sort.SliceStable(allocation, func(i, j int) bool {
		return allocation[i].Priority > allocation[j].Priority
	})
	return allocation
}
