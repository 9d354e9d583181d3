package database

import (
	"path/filepath"
	"study_planner_backend/internal/config"
	"study_planner_backend/internal/model"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitDB_SQLiteFileAndMigrate(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "nested", "planner.db")

	db, err := InitDB(&config.DatabaseConfig{Driver: DriverSQLite, DSN: dsn}, true)
	require.NoError(t, err)

	for _, m := range []interface{}{&model.User{}, &model.Subject{}, &model.Task{}, &model.StudyPlan{}} {
		assert.True(t, db.Migrator().HasTable(m))
	}
	assert.FileExists(t, dsn)
}

func TestInitDB_UnknownDriver(t *testing.T) {
	_, err := InitDB(&config.DatabaseConfig{Driver: "oracle"}, false)
	assert.Error(t, err)
}

func TestInitRedis_Disabled(t *testing.T) {
	rdb, err := InitRedis(&config.RedisConfig{Enabled: false})
	assert.NoError(t, err)
	assert.Nil(t, rdb)
}
