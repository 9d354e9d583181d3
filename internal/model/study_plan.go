package model

import (
	"time"

	"gorm.io/datatypes"
)

// PlanEntry is one subject's share of a day.
type PlanEntry struct {
	SubjectID  uint       `json:"subjectId"`
	Minutes    int        `json:"minutes"`
	Difficulty Difficulty `json:"difficulty"`
}

// swagger:model StudyPlan
type StudyPlan struct {
	UUIDBase
	UserID uint                           `gorm:"index;not null" json:"userId"`
	Date   time.Time                      `gorm:"index;not null" json:"date"`
	Plan   datatypes.JSONSlice[PlanEntry] `json:"plan"`
}

func (StudyPlan) TableName() string {
	return "study_plans"
}
