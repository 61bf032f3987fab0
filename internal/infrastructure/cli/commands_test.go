package cli

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/akhellaf/deskpilot/internal/infrastructure/memory"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
)

func TestBackupLoopWritesPeriodicBackups(t *testing.T) {
	dir := t.TempDir()
	backupDir := filepath.Join(dir, "backups")
	store := memory.NewFileStore(filepath.Join(dir, "memory.json"), backupDir, 5)

	stop := startBackupLoop(context.Background(), store, logger.Nop{}, 5*time.Millisecond)
	defer stop()

	assert.Eventually(t, func() bool {
		entries, err := os.ReadDir(backupDir)
		return err == nil && len(entries) > 0
	}, 2*time.Second, 5*time.Millisecond, "expected a backup file to appear")
}

func TestBackupLoopStops(t *testing.T) {
	dir := t.TempDir()
	store := memory.NewFileStore(filepath.Join(dir, "memory.json"), filepath.Join(dir, "backups"), 5)

	stop := startBackupLoop(context.Background(), store, logger.Nop{}, time.Millisecond)
	stop()
}
