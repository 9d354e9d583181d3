package service

import (
	"context"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/repository"
	"study_planner_backend/pkg/logger"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const jobTimeout = 10 * time.Minute

// SchedulerService runs the nightly maintenance jobs on a cron schedule.
type SchedulerService struct {
	cron      *cron.Cron
	UserRepo  *repository.UserRepository
	Tasks     *TaskService
	StudyPlan *StudyPlanService
}

func NewSchedulerService(loc *time.Location, userRepo *repository.UserRepository, tasks *TaskService, studyPlan *StudyPlanService) *SchedulerService {
	return &SchedulerService{
		cron:      cron.New(cron.WithLocation(loc), cron.WithSeconds()),
		UserRepo:  userRepo,
		Tasks:     tasks,
		StudyPlan: studyPlan,
	}
}

// LoadLocation resolves the scheduler timezone; "" and "Local" mean the server's zone.
func LoadLocation(name string) (*time.Location, error) {
	if name == "" || name == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(name)
}

// Register adds the missed-task sweep and the priority refresh using the configured specs.
func (s *SchedulerService) Register(cfg config.SchedulerConfig) error {
	if _, err := s.cron.AddFunc(cfg.MissedSweepSpec, s.runJob("missed_sweep", s.SweepMissed)); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc(cfg.PriorityRefreshSpec, s.runJob("priority_refresh", s.RefreshPriorities)); err != nil {
		return err
	}
	return nil
}

func (s *SchedulerService) Start() {
	s.cron.Start()
}

func (s *SchedulerService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *SchedulerService) Entries() int {
	return len(s.cron.Entries())
}

func (s *SchedulerService) runJob(name string, job func(context.Context) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := job(ctx); err != nil {
			logger.Log.Error("Scheduled job failed", zap.String("job", name), zap.Error(err))
			return
		}
		logger.Log.Info("Scheduled job finished", zap.String("job", name), zap.Duration("took", time.Since(start)))
	}
}

// SweepMissed marks yesterday's and older pending tasks as missed.
func (s *SchedulerService) SweepMissed(ctx context.Context) error {
	n, err := s.Tasks.MarkOverdueMissed(ctx)
	if err != nil {
		return err
	}
	logger.Log.Info("Overdue tasks marked missed", zap.Int64("count", n))
	return nil
}

// RefreshPriorities runs the priority feedback pass for every user. One user's failure
// does not stop the others.
func (s *SchedulerService) RefreshPriorities(ctx context.Context) error {
	ids, err := s.UserRepo.ListIDs(ctx)
	if err != nil {
		return err
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		report, err := s.StudyPlan.UpdatePriorities(ctx, id)
		if err != nil {
			logger.Log.Error("Priority refresh failed", zap.Uint("userID", id), zap.Error(err))
			continue
		}
		if !report.Success {
			logger.Log.Warn("Priority refresh partially failed", zap.Uint("userID", id), zap.Int("failed", report.Failed))
		}
	}
	return nil
}
