package memory

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
)

type backupDocument struct {
	Conversations  []domain.ConversationTurn `json:"conversations"`
	Tasks          []domain.Task             `json:"tasks"`
	CompletedTasks []domain.Task             `json:"completed_tasks"`
}

// writeBackup exports the document to a timestamped JSON file under dir and
// removes the oldest backups beyond keep.
func writeBackup(dir string, keep int, doc backupDocument) (string, error) {
	if err := os.MkdirAll(dir, domain.DirectoryPermissions); err != nil {
		return "", err
	}
	name := "memory_backup_" + time.Now().Format("20060102_150405") + ".json"
	path := filepath.Join(dir, name)
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", err
	}
	pruneBackups(dir, keep)
	return path, nil
}

func pruneBackups(dir string, keep int) {
	if keep <= 0 {
		keep = domain.DefaultBackupKeep
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return
	}
	// Timestamped names sort chronologically.
	sort.Strings(names)
	for _, name := range names[:len(names)-keep] {
		_ = os.Remove(filepath.Join(dir, name))
	}
}
