package service

import (
	"context"
	"fmt"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/planner"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/logger"
	"study_planner_backend/pkg/monitoring"
	"study_planner_backend/pkg/tracing"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// GenerateResult is what a plan regeneration produced.
type GenerateResult struct {
	StudyPlans    []model.StudyPlan `json:"studyPlans"`
	TasksCreated  int               `json:"tasksCreated"`
	RevisionTasks int               `json:"revisionTasks"`
	TotalTasks    int               `json:"totalTasks"`
}

// PriorityUpdateReport lists the outcome of every subject touched by a priority pass.
type PriorityUpdateReport struct {
	Success    bool                     `json:"success"`
	Escalated  int                      `json:"escalated"`
	Normalized int                      `json:"normalized"`
	Unchanged  int                      `json:"unchanged"`
	Skipped    int                      `json:"skipped"`
	Failed     int                      `json:"failed"`
	Entries    []planner.PriorityUpdate `json:"entries"`
	Subjects   []model.Subject          `json:"subjects"`
}

type StudyPlanService struct {
	SubjectRepo *repository.SubjectRepository
	TaskRepo    *repository.TaskRepository
	PlanRepo    *repository.StudyPlanRepository
	Cache       AnalyticsCache
	Events      Notifier
	Now         func() time.Time

	mu       sync.RWMutex
	defaults config.PlannerConfig
}

func NewStudyPlanService(
	subjectRepo *repository.SubjectRepository,
	taskRepo *repository.TaskRepository,
	planRepo *repository.StudyPlanRepository,
	cache AnalyticsCache,
	defaults config.PlannerConfig,
) *StudyPlanService {
	return &StudyPlanService{
		SubjectRepo: subjectRepo,
		TaskRepo:    taskRepo,
		PlanRepo:    planRepo,
		Cache:       cache,
		Events:      NoopNotifier{},
		Now:         time.Now,
		defaults:    defaults,
	}
}

// SetDefaults swaps the planner defaults at runtime, used by config hot reload.
func (s *StudyPlanService) SetDefaults(defaults config.PlannerConfig) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = defaults
}

func (s *StudyPlanService) Defaults() config.PlannerConfig {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.defaults
}

// Generate replaces the user's plans and tasks with a fresh seven-day schedule, plus
// revision sessions for exams coming up soon. dailyMinutes <= 0 uses the configured default.
func (s *StudyPlanService) Generate(ctx context.Context, userID uint, dailyMinutes int) (*GenerateResult, error) {
	ctx, span := tracing.StartSpan(ctx, "studyplan.generate", attribute.Int64("user.id", int64(userID)))
	defer span.End()

	defaults := s.Defaults()
	if dailyMinutes <= 0 {
		dailyMinutes = defaults.DailyMinutes
	}
	now := s.Now()

	subjects, err := s.SubjectRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load subjects: %w", err)
	}
	if len(subjects) == 0 {
		return nil, util.ErrNoSubjects
	}

	if _, err := s.PlanRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete plans: %w", err)
	}
	if _, err := s.TaskRepo.DeleteByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("delete tasks: %w", err)
	}

	days := planner.GenerateStudyPlan(subjects, dailyMinutes, now)
	plans := make([]model.StudyPlan, 0, len(days))
	for _, day := range days {
		plan := model.StudyPlan{
			UserID: userID,
			Date:   day.Date,
			Plan:   day.Plan,
		}
		if err := s.PlanRepo.Create(ctx, &plan); err != nil {
			return nil, fmt.Errorf("save plan for %s: %w", day.Date.Format(util.DateFormat), err)
		}
		plans = append(plans, plan)
	}

	tasks := planner.GenerateTasks(days, userID)
	if err := s.TaskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, fmt.Errorf("create study tasks: %w", err)
	}

	revisionCount := 0
	for _, subject := range subjects {
		if !planner.NeedsRevision(subject, now, defaults.RevisionWindowDays) {
			continue
		}
		revision := planner.GenerateRevisionTasks(subject, userID, defaults.RevisionDays)
		if err := s.TaskRepo.CreateBatch(ctx, revision); err != nil {
			return nil, fmt.Errorf("create revision tasks for subject %d: %w", subject.ID, err)
		}
		revisionCount += len(revision)
	}

	invalidateAnalytics(ctx, s.Cache, userID)
	monitoring.PlansGenerated.Inc()
	monitoring.TasksGenerated.WithLabelValues("study").Add(float64(len(tasks)))
	monitoring.TasksGenerated.WithLabelValues("revision").Add(float64(revisionCount))

	logger.Log.Info("Study plan generated",
		zap.Uint("userID", userID),
		zap.Int("subjects", len(subjects)),
		zap.Int("dailyMinutes", dailyMinutes),
		zap.Int("tasks", len(tasks)),
		zap.Int("revisionTasks", revisionCount),
	)

	result := &GenerateResult{
		StudyPlans:    plans,
		TasksCreated:  len(tasks),
		RevisionTasks: revisionCount,
		TotalTasks:    len(tasks) + revisionCount,
	}
	notify(s.Events, userID, Event{Type: EventPlanGenerated, Data: map[string]int{
		"plans":         len(plans),
		"tasksCreated":  result.TasksCreated,
		"revisionTasks": result.RevisionTasks,
	}})
	return result, nil
}

// GetPlans returns the plans for today and the following days of the current week window.
func (s *StudyPlanService) GetPlans(ctx context.Context, userID uint) ([]model.StudyPlan, error) {
	from := startOfDay(s.Now())
	return s.PlanRepo.FindRange(ctx, userID, from, from.AddDate(0, 0, planner.PlanDays+1))
}

// UpdatePriorities runs the feedback pass over every subject of the user. Saves happen one
// subject at a time; a failed save is recorded in the report and the pass moves on.
func (s *StudyPlanService) UpdatePriorities(ctx context.Context, userID uint) (*PriorityUpdateReport, error) {
	subjects, tasks, err := loadStudyData(ctx, s.SubjectRepo, s.TaskRepo, userID)
	if err != nil {
		return nil, err
	}

	updates := planner.ComputePriorityUpdates(subjects, tasks, s.Now())
	report := &PriorityUpdateReport{Success: true, Entries: updates}

	for i := range updates {
		u := &updates[i]
		if u.NeedsSave() {
			if err := s.SubjectRepo.UpdatePriority(ctx, u.SubjectID, u.NewPriority); err != nil {
				logger.Log.Error("Failed to save subject priority",
					zap.Uint("userID", userID),
					zap.Uint("subjectID", u.SubjectID),
					zap.Error(err),
				)
				u.Outcome = planner.OutcomeFailed
				u.Reason = err.Error()
				u.NewPriority = u.OldPriority
			}
		}

		switch u.Outcome {
		case planner.OutcomeEscalated:
			report.Escalated++
		case planner.OutcomeNormalized:
			report.Normalized++
		case planner.OutcomeUnchanged:
			report.Unchanged++
		case planner.OutcomeSkippedNoTasks:
			report.Skipped++
		case planner.OutcomeFailed:
			report.Failed++
			report.Success = false
		}
		monitoring.PriorityUpdates.WithLabelValues(string(u.Outcome)).Inc()
	}

	if report.Escalated+report.Normalized > 0 {
		invalidateAnalytics(ctx, s.Cache, userID)
	}

	refreshed, err := s.SubjectRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reload subjects: %w", err)
	}
	report.Subjects = refreshed
	notify(s.Events, userID, Event{Type: EventPrioritiesUpdated, Data: map[string]int{
		"escalated":  report.Escalated,
		"normalized": report.Normalized,
		"failed":     report.Failed,
	}})
	return report, nil
}

func (s *StudyPlanService) Recommendations(ctx context.Context, userID uint) ([]planner.Recommendation, error) {
	subjects, tasks, err := loadStudyData(ctx, s.SubjectRepo, s.TaskRepo, userID)
	if err != nil {
		return nil, err
	}
	return planner.GetRecommendations(subjects, tasks, s.Now()), nil
}

// Analytics serves the snapshot from cache when possible.
func (s *StudyPlanService) Analytics(ctx context.Context, userID uint) (*planner.Analytics, error) {
	var cached planner.Analytics
	hit, err := s.Cache.Get(ctx, userID, &cached)
	switch {
	case err != nil:
		monitoring.AnalyticsCache.WithLabelValues("error").Inc()
		logger.Log.Warn("Analytics cache read failed", zap.Uint("userID", userID), zap.Error(err))
	case hit:
		monitoring.AnalyticsCache.WithLabelValues("hit").Inc()
		return &cached, nil
	default:
		monitoring.AnalyticsCache.WithLabelValues("miss").Inc()
	}

	subjects, tasks, err := loadStudyData(ctx, s.SubjectRepo, s.TaskRepo, userID)
	if err != nil {
		return nil, err
	}
	analytics := planner.GetAnalytics(subjects, tasks)

	if err := s.Cache.Set(ctx, userID, analytics); err != nil {
		logger.Log.Warn("Analytics cache write failed", zap.Uint("userID", userID), zap.Error(err))
	}
	return &analytics, nil
}

// loadStudyData reads every subject and task a user owns.
func loadStudyData(ctx context.Context, subjectRepo *repository.SubjectRepository, taskRepo *repository.TaskRepository, userID uint) ([]model.Subject, []model.Task, error) {
	subjects, err := subjectRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, nil, fmt.Errorf("load subjects: %w", err)
	}
	tasks, err := taskRepo.FindByUser(ctx, userID, model.TaskFilter{})
	if err != nil {
		return nil, nil, fmt.Errorf("load tasks: %w", err)
	}
	return subjects, tasks, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
