package planner

import (
	"math"
	"study_planner_backend/internal/model"
	"time"
)

const (
	MaxPriority = 10.0

	// exams further away than this contribute no urgency
	urgencyHorizonDays = 30

	difficultyWeight = 0.4
	urgencyWeight    = 0.6

	defaultDifficultyScore = 6.0
)

var difficultyScores = map[model.Difficulty]float64{
	model.DifficultyEasy:   3,
	model.DifficultyMedium: 6,
	model.DifficultyHard:   9,
}

// DifficultyScore maps a difficulty tier to its base score. Unknown tiers score as medium.
func DifficultyScore(d model.Difficulty) float64 {
	if score, ok := difficultyScores[d]; ok {
		return score
	}
	return defaultDifficultyScore
}

// DaysUntil returns the whole days from now to date, rounded up. Past dates are negative.
func DaysUntil(date, now time.Time) int {
	return int(math.Ceil(date.Sub(now).Hours() / 24))
}

// CalculatePriority blends difficulty (40%) with exam urgency (60%) into a 0-10 score
// rounded to one decimal. Urgency rises linearly over the last 30 days before the exam
// and keeps rising for overdue exams; only the final result is clamped.
func CalculatePriority(subject model.Subject, now time.Time) float64 {
	daysLeft := DaysUntil(subject.ExamDate, now)

	difficultyPart := DifficultyScore(subject.Difficulty) * difficultyWeight
	urgencyPart := math.Max(0, float64(urgencyHorizonDays-daysLeft)/urgencyHorizonDays*10*urgencyWeight)

	priority := math.Min(MaxPriority, difficultyPart+urgencyPart)
	return roundTenth(priority)
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}

// midnight returns the start of t's calendar day in t's location.
func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
