package planner

import (
	"study_planner_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllocateStudyTime_HardAndSoonGetsMore(t *testing.T) {
	subjects := []model.Subject{
		newSubject(1, "Algebra", model.DifficultyEasy, 60),
		newSubject(2, "Physics", model.DifficultyHard, 5),
	}

	allocation := AllocateStudyTime(subjects, 240, now)
	require.Len(t, allocation, 2)

	assert.Equal(t, uint(2), allocation[0].SubjectID)
	assert.Equal(t, "Physics", allocation[0].SubjectName)
	assert.Equal(t, 211, allocation[0].Minutes)
	assert.Equal(t, 29, allocation[1].Minutes)
	assert.Greater(t, allocation[0].Minutes, allocation[1].Minutes)
}

func TestAllocateStudyTime_SumWithinTolerance(t *testing.T) {
	subjects := []model.Subject{
		newSubject(1, "a", model.DifficultyEasy, 3),
		newSubject(2, "b", model.DifficultyMedium, 11),
		newSubject(3, "c", model.DifficultyHard, 17),
		newSubject(4, "d", model.DifficultyMedium, 45),
		newSubject(5, "e", model.DifficultyHard, -2),
	}

	for _, budget := range []int{60, 100, 240, 333, 480} {
		allocation := AllocateStudyTime(subjects, budget, now)
		require.Len(t, allocation, len(subjects))

		sum := 0
		for i, a := range allocation {
			sum += a.Minutes
			if i > 0 {
				assert.GreaterOrEqual(t, allocation[i-1].Priority, a.Priority)
			}
		}
		assert.InDelta(t, budget, sum, float64(len(subjects)), "budget %d", budget)
	}
}

func TestAllocateStudyTime_TiesKeepInputOrder(t *testing.T) {
	subjects := []model.Subject{
		newSubject(7, "first", model.DifficultyMedium, 10),
		newSubject(3, "second", model.DifficultyMedium, 10),
		newSubject(5, "third", model.DifficultyMedium, 10),
	}

	allocation := AllocateStudyTime(subjects, 240, now)
	require.Len(t, allocation, 3)
	assert.Equal(t, uint(7), allocation[0].SubjectID)
	assert.Equal(t, uint(3), allocation[1].SubjectID)
	assert.Equal(t, uint(5), allocation[2].SubjectID)
	for _, a := range allocation {
		assert.Equal(t, 80, a.Minutes)
	}
}

func TestAllocateStudyTime_EmptyInput(t *testing.T) {
	allocation := AllocateStudyTime(nil, 240, now)
	assert.NotNil(t, allocation)
	assert.Empty(t, allocation)
}

func TestAllocateStudyTime_NonPositiveBudgetUsesDefault(t *testing.T) {
	subjects := []model.Subject{newSubject(1, "only", model.DifficultyHard, 5)}

	allocation := AllocateStudyTime(subjects, 0, now)
	require.Len(t, allocation, 1)
	assert.Equal(t, DefaultDailyMinutes, allocation[0].Minutes)
}
