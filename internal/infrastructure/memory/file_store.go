package memory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// FileStore keeps all collections in a single JSON document file guarded by
// one coarse lock. It is the degraded backend when SQLite is unavailable.
type FileStore struct {
	path      string
	backupDir string
	keep      int
	mu        sync.Mutex
}

type document struct {
	Conversations  []domain.ConversationTurn `json:"conversations"`
	Tasks          []domain.Task             `json:"tasks"`
	CompletedTasks []domain.Task             `json:"completed_tasks"`
}

// NewFileStore creates a JSON-backed store at path.
func NewFileStore(path, backupDir string, keep int) *FileStore {
	return &FileStore{path: path, backupDir: backupDir, keep: keep}
}

func (f *FileStore) AppendTurn(_ context.Context, turn domain.ConversationTurn) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	doc.Conversations = append(doc.Conversations, turn)
	return f.save(doc)
}

func (f *FileStore) RecentTurns(_ context.Context, limit int) ([]domain.ConversationTurn, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	turns := doc.Conversations
	if limit > 0 && len(turns) > limit {
		turns = turns[len(turns)-limit:]
	}
	return turns, nil
}

func (f *FileStore) AddTask(_ context.Context, task domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return err
	}
	doc.Tasks = append(doc.Tasks, task)
	return f.save(doc)
}

func (f *FileStore) PendingTasks(_ context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	return doc.Tasks, nil
}

func (f *FileStore) CompletedTasks(_ context.Context) ([]domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return nil, err
	}
	return doc.CompletedTasks, nil
}

func (f *FileStore) CompleteTask(_ context.Context, match string) (domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return domain.Task{}, err
	}
	target, ok := matchTask(doc.Tasks, match)
	if !ok {
		return domain.Task{}, fmt.Errorf("no pending task matches %q", match)
	}

	now := time.Now()
	target.Status = domain.TaskCompleted
	target.CompletedAt = &now

	remaining := doc.Tasks[:0]
	for _, task := range doc.Tasks {
		if task.ID != target.ID {
			remaining = append(remaining, task)
		}
	}
	doc.Tasks = remaining
	doc.CompletedTasks = append(doc.CompletedTasks, target)
	if err := f.save(doc); err != nil {
		return domain.Task{}, err
	}
	return target, nil
}

func (f *FileStore) Backup(_ context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc, err := f.load()
	if err != nil {
		return "", err
	}
	return writeBackup(f.backupDir, f.keep, backupDocument(doc))
}

func (f *FileStore) Close() error {
	return nil
}

// Path returns the backing file path.
func (f *FileStore) Path() string {
	return f.path
}

func (f *FileStore) load() (document, error) {
	var doc document
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return doc, nil
		}
		return doc, err
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return document{}, err
	}
	return doc, nil
}

func (f *FileStore) save(doc document) error {
	if err := os.MkdirAll(filepath.Dir(f.path), domain.DirectoryPermissions); err != nil {
		return err
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return os.WriteFile(f.path, data, 0o644)
}

var _ ports.MemoryStore = (*FileStore)(nil)
