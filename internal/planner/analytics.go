package planner

import (
	"study_planner_backend/internal/model"
	"time"
)

type SubjectBreakdown struct {
	SubjectID      uint             `json:"subjectId"`
	SubjectName    string           `json:"subjectName"`
	Difficulty     model.Difficulty `json:"difficulty"`
	TotalTasks     int              `json:"totalTasks"`
	CompletedTasks int              `json:"completedTasks"`
	MissedTasks    int              `json:"missedTasks"`
	PendingTasks   int              `json:"pendingTasks"`
	CompletionRate int              `json:"completionRate"`
	StudyMinutes   int              `json:"studyMinutes"`
}

type Analytics struct {
	TotalSubjects     int                `json:"totalSubjects"`
	TotalTasks        int                `json:"totalTasks"`
	CompletedTasks    int                `json:"completedTasks"`
	MissedTasks       int                `json:"missedTasks"`
	PendingTasks      int                `json:"pendingTasks"`
	CompletionRate    int                `json:"completionRate"`
	TotalStudyMinutes int                `json:"totalStudyMinutes"`
	SubjectBreakdown  []SubjectBreakdown `json:"subjectBreakdown"`
}

// GetAnalytics aggregates task outcomes overall and per subject. Study minutes only count
// completed tasks; rates are whole percentages.
func GetAnalytics(subjects []model.Subject, tasks []model.Task) Analytics {
	overall := countTasks(tasks)
	analytics := Analytics{
		TotalSubjects:     len(subjects),
		TotalTasks:        overall.total,
		CompletedTasks:    overall.completed,
		MissedTasks:       overall.missed,
		PendingTasks:      overall.pending,
		CompletionRate:    overall.completionPercent(),
		TotalStudyMinutes: overall.completedMinutes,
		SubjectBreakdown:  make([]SubjectBreakdown, 0, len(subjects)),
	}

	bySubject := groupBySubject(tasks)
	for _, subject := range subjects {
		c := countTasks(bySubject[subject.ID])
		analytics.SubjectBreakdown = append(analytics.SubjectBreakdown, SubjectBreakdown{
			SubjectID:      subject.ID,
			SubjectName:    subject.Name,
			Difficulty:     subject.Difficulty,
			TotalTasks:     c.total,
			CompletedTasks: c.completed,
			MissedTasks:    c.missed,
			PendingTasks:   c.pending,
			CompletionRate: c.completionPercent(),
			StudyMinutes:   c.completedMinutes,
		})
	}
	return analytics
}

type SubjectProgress struct {
	SubjectID       uint    `json:"subject"`
	SubjectName     string  `json:"subjectName,omitempty"`
	TotalTasks      int     `json:"totalTasks"`
	CompletedTasks  int     `json:"completedTasks"`
	ProgressPercent float64 `json:"progressPercent"`
}

type Progress struct {
	CompletedTasks  int               `json:"completedTasks"`
	MissedTasks     int               `json:"missedTasks"`
	SubjectProgress []SubjectProgress `json:"subjectProgress"`
}

// GetProgress groups tasks by the subject they reference, in order of first appearance.
// Tasks whose subject is no longer known are still reported, just without a name.
func GetProgress(subjects []model.Subject, tasks []model.Task) Progress {
	names := make(map[uint]string, len(subjects))
	for _, s := range subjects {
		names[s.ID] = s.Name
	}

	overall := countTasks(tasks)
	progress := Progress{
		CompletedTasks:  overall.completed,
		MissedTasks:     overall.missed,
		SubjectProgress: []SubjectProgress{},
	}

	bySubject := groupBySubject(tasks)
	seen := make(map[uint]bool, len(bySubject))
	for _, t := range tasks {
		if seen[t.SubjectID] {
			continue
		}
		seen[t.SubjectID] = true

		c := countTasks(bySubject[t.SubjectID])
		progress.SubjectProgress = append(progress.SubjectProgress, SubjectProgress{
			SubjectID:       t.SubjectID,
			SubjectName:     names[t.SubjectID],
			TotalTasks:      c.total,
			CompletedTasks:  c.completed,
			ProgressPercent: c.completionRate() * 100,
		})
	}
	return progress
}

type DatasetRow struct {
	SubjectID      uint             `json:"subjectId"`
	Name           string           `json:"name"`
	Difficulty     model.Difficulty `json:"difficulty"`
	Priority       float64          `json:"priority"`
	DaysUntilExam  int              `json:"daysUntilExam"`
	TotalTasks     int              `json:"totalTasks"`
	CompletedTasks int              `json:"completedTasks"`
	MissedTasks    int              `json:"missedTasks"`
	CompletionRate float64          `json:"completionRate"`
	AvgStudyTime   float64          `json:"avgStudyTime"`
}

type DatasetOverall struct {
	TotalTasks int `json:"totalTasks"`
	Completed  int `json:"completed"`
	Missed     int `json:"missed"`
	Pending    int `json:"pending"`
}

// Dataset is a flat, per-subject feature export of a user's study history.
type Dataset struct {
	UserID   uint           `json:"user"`
	Date     time.Time      `json:"date"`
	Subjects []DatasetRow   `json:"subjects"`
	Overall  DatasetOverall `json:"overall"`
}

func BuildDataset(userID uint, subjects []model.Subject, tasks []model.Task, now time.Time) Dataset {
	overall := countTasks(tasks)
	dataset := Dataset{
		UserID:   userID,
		Date:     now,
		Subjects: make([]DatasetRow, 0, len(subjects)),
		Overall: DatasetOverall{
			TotalTasks: overall.total,
			Completed:  overall.completed,
			Missed:     overall.missed,
			Pending:    overall.pending,
		},
	}

	bySubject := groupBySubject(tasks)
	for _, subject := range subjects {
		c := countTasks(bySubject[subject.ID])
		row := DatasetRow{
			SubjectID:      subject.ID,
			Name:           subject.Name,
			Difficulty:     subject.Difficulty,
			Priority:       subject.Priority,
			DaysUntilExam:  DaysUntil(subject.ExamDate, now),
			TotalTasks:     c.total,
			CompletedTasks: c.completed,
			MissedTasks:    c.missed,
			CompletionRate: c.completionRate() * 100,
		}
		if c.total > 0 {
			row.AvgStudyTime = float64(c.plannedMinutes) / float64(c.total)
		}
		dataset.Subjects = append(dataset.Subjects, row)
	}
	return dataset
}
