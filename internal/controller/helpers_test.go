package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/middleware"
	"study_planner_backend/internal/repository"
	"study_planner_backend/internal/service"
	"study_planner_backend/internal/util"
	"study_planner_backend/pkg/database"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	router *gin.Engine
	db     *gorm.DB
	cfg    *config.Config
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.InitDB(&config.DatabaseConfig{Driver: database.DriverSQLite, DSN: ":memory:"}, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	cfg := &config.Config{
		JWT:     config.JWTConfig{Secret: "controller-test-secret", ExpireTime: time.Hour},
		Storage: config.StorageConfig{Type: util.StorageLocal, LocalPath: t.TempDir()},
		Planner: config.PlannerConfig{DailyMinutes: 240, RevisionDays: 7, RevisionWindowDays: 14},
	}

	users := repository.NewUserRepository(db)
	subjects := repository.NewSubjectRepository(db)
	tasks := repository.NewTaskRepository(db)
	plans := repository.NewStudyPlanRepository(db)
	cache := service.NoopAnalyticsCache{}

	auth := NewAuthController(service.NewAuthService(users, cfg))
	subject := NewSubjectController(service.NewSubjectService(subjects, service.NewStorageService(cfg), cache))
	task := NewTaskController(service.NewTaskService(tasks, subjects, cache))
	plan := NewStudyPlanController(service.NewStudyPlanService(subjects, tasks, plans, cache, cfg.Planner))
	progress := NewProgressController(service.NewProgressService(subjects, tasks))
	health := NewHealthController(db, nil)

	r := gin.New()
	r.GET("/api/health", health.HealthCheck)
	r.POST("/api/users/register", auth.Register)
	r.POST("/api/users/login", auth.Login)

	api := r.Group("/api", middleware.AuthMiddleware(cfg))
	api.GET("/users/profile", auth.Profile)

	api.POST("/subjects", subject.Create)
	api.GET("/subjects", subject.List)
	api.GET("/subjects/:id", subject.Get)
	api.PUT("/subjects/:id", subject.Update)
	api.DELETE("/subjects/:id", subject.Delete)
	api.POST("/subjects/:id/materials", subject.UploadMaterial)

	api.POST("/tasks", task.Create)
	api.GET("/tasks", task.List)
	api.PUT("/tasks/:id", task.Update)
	api.PATCH("/tasks/:id/complete", task.Complete)
	api.DELETE("/tasks/:id", task.Delete)

	api.GET("/study-plan", plan.GetPlans)
	api.POST("/study-plan/generate", plan.Generate)
	api.POST("/study-plan/update-priorities", plan.UpdatePriorities)
	api.GET("/study-plan/recommendations", plan.Recommendations)
	api.GET("/study-plan/analytics", plan.Analytics)

	api.GET("/progress", progress.Progress)
	api.GET("/ai-dataset", progress.Dataset)

	return &testServer{router: r, db: db, cfg: cfg}
}

func (s *testServer) serve(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

// do sends body as JSON when it is not nil.
func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return s.serve(req)
}

// signup registers a user and returns a session token for it.
func (s *testServer) signup(t *testing.T, email string) string {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/users/register", "", gin.H{
		"name": "Student", "email": email, "password": "secret123",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(t, http.MethodPost, "/api/users/login", "", gin.H{"email": email, "password": "secret123"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var login LoginResponse
	decodeData(t, rec, &login)
	require.NotEmpty(t, login.Token)
	return login.Token
}

func (s *testServer) createSubject(t *testing.T, token, name, difficulty string, examInDays int) uint {
	t.Helper()
	rec := s.do(t, http.MethodPost, "/api/subjects", token, gin.H{
		"name": name, "difficulty": difficulty, "examDate": dateIn(examInDays),
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	decodeData(t, rec, &created)
	return created.ID
}

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format(util.DateFormat)
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return env
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()
	env := decodeEnvelope(t, rec)
	require.NoError(t, json.Unmarshal(env.Data, dest), string(env.Data))
}

func idPath(format string, id uint) string {
	return fmt.Sprintf(format, id)
}
