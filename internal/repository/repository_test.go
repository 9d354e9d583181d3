package repository

import (
	"context"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"study_planner_backend/pkg/database"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var day0 = time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.InitDB(&config.DatabaseConfig{Driver: database.DriverSQLite, DSN: ":memory:"}, true)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func seedUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	user := &model.User{Name: email, Email: email, Password: "x"}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}

func seedSubject(t *testing.T, db *gorm.DB, userID uint, name string, examInDays int) *model.Subject {
	t.Helper()
	subject := &model.Subject{
		UserID:     userID,
		Name:       name,
		Difficulty: model.DifficultyMedium,
		ExamDate:   day0.AddDate(0, 0, examInDays),
	}
	require.NoError(t, NewSubjectRepository(db).Create(context.Background(), subject))
	return subject
}

func TestUserRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")

	found, err := repo.FindByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, alice.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	exists, err := repo.ExistsByEmail(ctx, "bob@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	// email is unique
	assert.Error(t, repo.Create(ctx, &model.User{Name: "dup", Email: "bob@example.com", Password: "x"}))

	ids, err := repo.ListIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []uint{alice.ID, bob.ID}, ids)
}

func TestSubjectRepository_ScopedByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewSubjectRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	later := seedSubject(t, db, alice.ID, "later", 20)
	sooner := seedSubject(t, db, alice.ID, "sooner", 5)
	seedSubject(t, db, bob.ID, "bobs", 1)

	subjects, err := repo.FindByUser(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, sooner.ID, subjects[0].ID)
	assert.Equal(t, later.ID, subjects[1].ID)

	_, err = repo.FindByIDForUser(ctx, later.ID, bob.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	require.NoError(t, repo.UpdatePriority(ctx, later.ID, 7.5))
	got, err := repo.FindByIDForUser(ctx, later.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 7.5, got.Priority)
}

func TestSubjectRepository_DeleteRemovesTasks(t *testing.T) {
	db := newTestDB(t)
	subjects := NewSubjectRepository(db)
	tasks := NewTaskRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	doomed := seedSubject(t, db, alice.ID, "doomed", 5)
	kept := seedSubject(t, db, alice.ID, "kept", 5)
	require.NoError(t, tasks.CreateBatch(ctx, []model.Task{
		{UserID: alice.ID, SubjectID: doomed.ID, Title: "a", Duration: 30, Status: model.TaskPending, Date: day0},
		{UserID: alice.ID, SubjectID: kept.ID, Title: "b", Duration: 30, Status: model.TaskPending, Date: day0},
	}))

	assert.ErrorIs(t, subjects.Delete(ctx, doomed.ID, alice.ID+1), gorm.ErrRecordNotFound)
	require.NoError(t, subjects.Delete(ctx, doomed.ID, alice.ID))

	remaining, err := tasks.FindByUser(ctx, alice.ID, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, kept.ID, remaining[0].SubjectID)
}

func TestTaskRepository_Filters(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	math := seedSubject(t, db, alice.ID, "math", 10)
	art := seedSubject(t, db, alice.ID, "art", 10)

	batch := []model.Task{
		{UserID: alice.ID, SubjectID: math.ID, Title: "m1", Duration: 60, Status: model.TaskPending, Date: day0.AddDate(0, 0, 1)},
		{UserID: alice.ID, SubjectID: math.ID, Title: "m0", Duration: 60, Status: model.TaskCompleted, Date: day0},
		{UserID: alice.ID, SubjectID: art.ID, Title: "a0", Duration: 45, Status: model.TaskPending, Date: day0},
	}
	require.NoError(t, repo.CreateBatch(ctx, batch))
	assert.NotZero(t, batch[0].ID)

	all, err := repo.FindByUser(ctx, alice.ID, model.TaskFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "m0", all[0].Title)
	require.NotNil(t, all[0].Subject)
	assert.Equal(t, "math", all[0].Subject.Name)

	pending, err := repo.FindByUser(ctx, alice.ID, model.TaskFilter{Status: model.TaskPending})
	require.NoError(t, err)
	assert.Len(t, pending, 2)

	mathOnly, err := repo.FindByUser(ctx, alice.ID, model.TaskFilter{SubjectID: math.ID})
	require.NoError(t, err)
	assert.Len(t, mathOnly, 2)

	from := day0.AddDate(0, 0, 1)
	upcoming, err := repo.FindByUser(ctx, alice.ID, model.TaskFilter{From: &from})
	require.NoError(t, err)
	require.Len(t, upcoming, 1)
	assert.Equal(t, "m1", upcoming[0].Title)
}

func TestTaskRepository_StatusAndDelete(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	subject := seedSubject(t, db, alice.ID, "math", 10)
	task := &model.Task{UserID: alice.ID, SubjectID: subject.ID, Title: "t", Duration: 60, Status: model.TaskPending, Date: day0}
	require.NoError(t, repo.Create(ctx, task))

	assert.ErrorIs(t, repo.UpdateStatus(ctx, task.ID, alice.ID+1, model.TaskCompleted), gorm.ErrRecordNotFound)
	require.NoError(t, repo.UpdateStatus(ctx, task.ID, alice.ID, model.TaskCompleted))

	got, err := repo.FindByIDForUser(ctx, task.ID, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, model.TaskCompleted, got.Status)

	require.NoError(t, repo.Delete(ctx, task.ID, alice.ID))
	assert.ErrorIs(t, repo.Delete(ctx, task.ID, alice.ID), gorm.ErrRecordNotFound)
}

func TestTaskRepository_DeleteByUser(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	bob := seedUser(t, db, "bob@example.com")
	as := seedSubject(t, db, alice.ID, "a", 10)
	bs := seedSubject(t, db, bob.ID, "b", 10)
	require.NoError(t, repo.CreateBatch(ctx, []model.Task{
		{UserID: alice.ID, SubjectID: as.ID, Title: "1", Duration: 30, Status: model.TaskPending, Date: day0},
		{UserID: alice.ID, SubjectID: as.ID, Title: "2", Duration: 30, Status: model.TaskPending, Date: day0},
		{UserID: bob.ID, SubjectID: bs.ID, Title: "3", Duration: 30, Status: model.TaskPending, Date: day0},
	}))

	n, err := repo.DeleteByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.FindByUser(ctx, bob.ID, model.TaskFilter{})
	require.NoError(t, err)
	assert.Len(t, left, 1)
}

func TestTaskRepository_MarkOverdueMissed(t *testing.T) {
	db := newTestDB(t)
	repo := NewTaskRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	s := seedSubject(t, db, alice.ID, "a", 10)
	require.NoError(t, repo.CreateBatch(ctx, []model.Task{
		{UserID: alice.ID, SubjectID: s.ID, Title: "old pending", Duration: 30, Status: model.TaskPending, Date: day0.AddDate(0, 0, -2)},
		{UserID: alice.ID, SubjectID: s.ID, Title: "old done", Duration: 30, Status: model.TaskCompleted, Date: day0.AddDate(0, 0, -2)},
		{UserID: alice.ID, SubjectID: s.ID, Title: "today", Duration: 30, Status: model.TaskPending, Date: day0},
	}))

	n, err := repo.MarkOverdueMissed(ctx, day0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	missed, err := repo.FindByUser(ctx, alice.ID, model.TaskFilter{Status: model.TaskMissed})
	require.NoError(t, err)
	require.Len(t, missed, 1)
	assert.Equal(t, "old pending", missed[0].Title)
}

func TestStudyPlanRepository(t *testing.T) {
	db := newTestDB(t)
	repo := NewStudyPlanRepository(db)
	ctx := context.Background()

	alice := seedUser(t, db, "alice@example.com")
	for i := 6; i >= 0; i-- {
		plan := &model.StudyPlan{
			UserID: alice.ID,
			Date:   day0.AddDate(0, 0, i),
			Plan:   []model.PlanEntry{{SubjectID: 1, Minutes: 120, Difficulty: model.DifficultyHard}},
		}
		require.NoError(t, repo.Create(ctx, plan))
		assert.Len(t, plan.ID, 36)
	}

	plans, err := repo.FindRange(ctx, alice.ID, day0, day0.AddDate(0, 0, 3))
	require.NoError(t, err)
	require.Len(t, plans, 3)
	assert.True(t, plans[0].Date.Equal(day0))
	assert.Equal(t, 120, plans[0].Plan[0].Minutes)

	n, err := repo.DeleteByUser(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(7), n)
}
