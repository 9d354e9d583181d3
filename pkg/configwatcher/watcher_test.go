package configwatcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"study_planner_backend/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseConfig = `
jwt:
  secret: watcher-secret
storage:
  type: memory
planner:
  daily_minutes: %d
`

func writeConfig(t *testing.T, path string, minutes int) {
	t.Helper()
	body := []byte(fmt.Sprintf(baseConfig, minutes))
	require.NoError(t, os.WriteFile(path, body, 0o644))
}

func TestWatchConfig_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	writeConfig(t, path, 240)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reloaded := make(chan *config.Config, 1)
	done := make(chan error, 1)
	go func() {
		done <- WatchConfig(ctx, path, func(cfg *config.Config) {
			select {
			case reloaded <- cfg:
			default:
			}
		})
	}()

	// give the watcher a moment to register
	time.Sleep(100 * time.Millisecond)
	writeConfig(t, path, 180)

	select {
	case cfg := <-reloaded:
		assert.Equal(t, 180, cfg.Planner.DailyMinutes)
	case <-time.After(5 * time.Second):
		t.Fatal("config was not reloaded")
	}

	cancel()
	assert.NoError(t, <-done)
}
