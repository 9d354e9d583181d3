package model

import (
	"time"

	"gorm.io/datatypes"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// swagger:model Subject
type Subject struct {
	BaseModel
	UserID     uint                        `gorm:"index;not null" json:"userId"`
	Name       string                      `gorm:"size:255;not null" json:"name"`
	Difficulty Difficulty                  `gorm:"size:10;default:'medium'" json:"difficulty"`
	ExamDate   time.Time                   `gorm:"index;not null" json:"examDate"`
	Priority   float64                     `gorm:"default:0" json:"priority"`
	Materials  datatypes.JSONSlice[string] `json:"materials"`
}

func (Subject) TableName() string {
	return "subjects"
}
