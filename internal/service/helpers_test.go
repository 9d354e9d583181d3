package service

import (
	"context"
	"encoding/json"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/internal/repository"
	"study_planner_backend/pkg/database"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var testNow = time.Date(2026, time.June, 1, 9, 0, 0, 0, time.UTC)

func fixedNow() time.Time { return testNow }

func examIn(days int) time.Time {
	return startOfDay(testNow).AddDate(0, 0, days)
}

// fakeCache is an in-memory AnalyticsCache that records invalidations.
type fakeCache struct {
	mu          sync.Mutex
	data        map[uint][]byte
	invalidated []uint
	flushes     int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[uint][]byte{}}
}

func (c *fakeCache) Get(_ context.Context, userID uint, dest interface{}) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.data[userID]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *fakeCache) Set(_ context.Context, userID uint, value interface{}) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[userID] = raw
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

func (c *fakeCache) InvalidateAll(context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = map[uint][]byte{}
	c.flushes++
	return nil
}

// recordingNotifier keeps every event it is handed, keyed by user.
type recordingNotifier struct {
	mu     sync.Mutex
	events map[uint][]Event
}

func (n *recordingNotifier) Notify(userID uint, evt Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.events == nil {
		n.events = map[uint][]Event{}
	}
	n.events[userID] = append(n.events[userID], evt)
}

func (n *recordingNotifier) types(userID uint) []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []string
	for _, evt := range n.events[userID] {
		out = append(out, evt.Type)
	}
	return out
}

type testEnv struct {
	db        *gorm.DB
	cache     *fakeCache
	events    *recordingNotifier
	users     *repository.UserRepository
	subjects  *repository.SubjectRepository
	tasks     *repository.TaskRepository
	plans     *repository.StudyPlanRepository
	cfg       *config.Config
	auth      *AuthService
	subject   *SubjectService
	task      *TaskService
	studyPlan *StudyPlanService
	progress  *ProgressService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := database.InitDB(&config.DatabaseConfig{Driver: database.DriverSQLite, DSN: ":memory:"}, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "service-test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: "local", LocalPath: t.TempDir()},
		Planner: config.PlannerConfig{DailyMinutes: 240, RevisionDays: 7, RevisionWindowDays: 14},
	}

	env := &testEnv{
		db:       db,
		cache:    newFakeCache(),
		events:   &recordingNotifier{},
		users:    repository.NewUserRepository(db),
		subjects: repository.NewSubjectRepository(db),
		tasks:    repository.NewTaskRepository(db),
		plans:    repository.NewStudyPlanRepository(db),
		cfg:      cfg,
	}

	env.auth = NewAuthService(env.users, cfg)
	env.subject = NewSubjectService(env.subjects, NewStorageService(cfg), env.cache)
	env.subject.Now = fixedNow
	env.task = NewTaskService(env.tasks, env.subjects, env.cache)
	env.task.Now = fixedNow
	env.task.Events = env.events
	env.studyPlan = NewStudyPlanService(env.subjects, env.tasks, env.plans, env.cache, cfg.Planner)
	env.studyPlan.Now = fixedNow
	env.studyPlan.Events = env.events
	env.progress = NewProgressService(env.subjects, env.tasks)
	env.progress.Now = fixedNow
	return env
}

func (e *testEnv) user(t *testing.T, email string) *model.User {
	t.Helper()
	u := &model.User{Name: "Test", Email: email, Password: "secret123"}
	require.NoError(t, e.auth.Register(context.Background(), u))
	return u
}

func (e *testEnv) newSubject(t *testing.T, userID uint, name string, difficulty model.Difficulty, examInDays int) *model.Subject {
	t.Helper()
	s, err := e.subject.Create(context.Background(), userID, model.SubjectInput{
		Name:       name,
		Difficulty: difficulty,
		ExamDate:   examIn(examInDays),
	})
	require.NoError(t, err)
	return s
}

func (e *testEnv) seedTasks(t *testing.T, userID, subjectID uint, status model.TaskStatus, n int) {
	t.Helper()
	tasks := make([]model.Task, n)
	for i := range tasks {
		tasks[i] = model.Task{
			UserID:    userID,
			SubjectID: subjectID,
			Title:     "seeded",
			Duration:  60,
			Status:    status,
			Date:      examIn(-1 - i),
		}
	}
	require.NoError(t, e.tasks.CreateBatch(context.Background(), tasks))
}
