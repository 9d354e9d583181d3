package model

import "time"

// SubjectInput carries the fields accepted when creating a subject.
type SubjectInput struct {
	Name       string
	Difficulty Difficulty
	ExamDate   time.Time
	Materials  []string
}

// SubjectPatch is a partial subject update; nil fields are left alone.
type SubjectPatch struct {
	Name       *string
	Difficulty *Difficulty
	ExamDate   *time.Time
	Materials  []string
}

type TaskInput struct {
	SubjectID uint
	Title     string
	Duration  int
	Date      time.Time
}

// TaskPatch is a partial task update; nil fields are left alone.
type TaskPatch struct {
	Title    *string
	Duration *int
	Date     *time.Time
	Status   *TaskStatus
}
