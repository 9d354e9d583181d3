package model

import (
	"time"
)

type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskCompleted TaskStatus = "completed"
	TaskMissed    TaskStatus = "missed"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case TaskPending, TaskCompleted, TaskMissed:
		return true
	}
	return false
}

// swagger:model Task
type Task struct {
	BaseModel
	UserID    uint       `gorm:"index;not null" json:"userId"`
	SubjectID uint       `gorm:"index;not null" json:"subjectId"`
	Title     string     `gorm:"size:255;not null" json:"title"`
	Duration  int        `gorm:"not null" json:"duration"` // minutes
	Status    TaskStatus `gorm:"size:20;index;default:'pending'" json:"status"`
	Date      time.Time  `gorm:"index;not null" json:"date"`

	Subject *Subject `gorm:"foreignKey:SubjectID" json:"subject,omitempty"`
}

func (Task) TableName() string {
	return "tasks"
}

// TaskFilter narrows task listings; zero values mean "any".
type TaskFilter struct {
	SubjectID uint
	Status    TaskStatus
	From      *time.Time
	To        *time.Time
}
