// Package memory persists conversations and reminder tasks. The primary
// backend is SQLite; when the database cannot be opened the store degrades to
// a JSON document file with the same behavior.
package memory

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// SQLiteStore persists memory in a SQLite database.
type SQLiteStore struct {
	db        *sql.DB
	path      string
	backupDir string
	keep      int
	mu        sync.Mutex
}

// NewStore opens (or creates) the database at path. On open failure it
// returns a JSON file store rooted next to the intended database.
func NewStore(path, backupDir string, keep int) ports.MemoryStore {
	_ = os.MkdirAll(filepath.Dir(path), domain.DirectoryPermissions)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return NewFileStore(path+".json", backupDir, keep)
	}
	store := &SQLiteStore{db: db, path: path, backupDir: backupDir, keep: keep}
	if err := store.init(); err != nil {
		_ = db.Close()
		return NewFileStore(path+".json", backupDir, keep)
	}
	return store
}

func (s *SQLiteStore) init() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			timestamp TEXT,
			user_input TEXT,
			assistant_response TEXT,
			metadata TEXT
		);
		CREATE TABLE IF NOT EXISTS tasks (
			id TEXT PRIMARY KEY,
			description TEXT,
			priority TEXT,
			created_at TEXT
		);
		CREATE TABLE IF NOT EXISTS completed_tasks (
			id TEXT PRIMARY KEY,
			description TEXT,
			priority TEXT,
			created_at TEXT,
			completed_at TEXT
		);`)
	return err
}

// AppendTurn inserts a conversation record. Records are never updated.
func (s *SQLiteStore) AppendTurn(ctx context.Context, turn domain.ConversationTurn) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, err := json.Marshal(turn.Metadata)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO conversations
		(timestamp, user_input, assistant_response, metadata)
		VALUES (?, ?, ?, ?)`,
		turn.Timestamp.Format(domain.TimestampFormat),
		turn.UserInput,
		turn.AssistantResponse,
		string(meta),
	)
	return err
}

// RecentTurns returns the newest turns in chronological order. A limit of
// zero or less returns everything.
func (s *SQLiteStore) RecentTurns(ctx context.Context, limit int) ([]domain.ConversationTurn, error) {
	if limit <= 0 {
		// SQLite treats a negative LIMIT as unbounded.
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT timestamp, user_input, assistant_response, metadata
		FROM conversations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var turns []domain.ConversationTurn
	for rows.Next() {
		var turn domain.ConversationTurn
		var ts, meta string
		if err := rows.Scan(&ts, &turn.UserInput, &turn.AssistantResponse, &meta); err != nil {
			return nil, err
		}
		if t, err := time.Parse(domain.TimestampFormat, ts); err == nil {
			turn.Timestamp = t
		}
		if meta != "" && meta != "null" {
			_ = json.Unmarshal([]byte(meta), &turn.Metadata)
		}
		turns = append(turns, turn)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// newest-first from the query; flip to chronological
	for i, j := 0, len(turns)-1; i < j; i, j = i+1, j-1 {
		turns[i], turns[j] = turns[j], turns[i]
	}
	return turns, nil
}

// AddTask inserts a pending task.
func (s *SQLiteStore) AddTask(ctx context.Context, task domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, err := s.db.ExecContext(ctx, `INSERT INTO tasks (id, description, priority, created_at)
		VALUES (?, ?, ?, ?)`,
		task.ID, task.Description, task.Priority,
		task.CreatedAt.Format(domain.TimestampFormat))
	return err
}

// PendingTasks lists pending tasks oldest first.
func (s *SQLiteStore) PendingTasks(ctx context.Context) ([]domain.Task, error) {
	return s.queryTasks(ctx, `SELECT id, description, priority, created_at, NULL
		FROM tasks ORDER BY datetime(created_at)`, domain.TaskPending)
}

// CompletedTasks lists completed tasks, most recently completed first.
func (s *SQLiteStore) CompletedTasks(ctx context.Context) ([]domain.Task, error) {
	return s.queryTasks(ctx, `SELECT id, description, priority, created_at, completed_at
		FROM completed_tasks ORDER BY datetime(completed_at) DESC`, domain.TaskCompleted)
}

func (s *SQLiteStore) queryTasks(ctx context.Context, query string, status domain.TaskStatus) ([]domain.Task, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		var created string
		var completed sql.NullString
		if err := rows.Scan(&task.ID, &task.Description, &task.Priority, &created, &completed); err != nil {
			return nil, err
		}
		task.Status = status
		if t, err := time.Parse(domain.TimestampFormat, created); err == nil {
			task.CreatedAt = t
		}
		if completed.Valid {
			if t, err := time.Parse(domain.TimestampFormat, completed.String); err == nil {
				task.CompletedAt = &t
			}
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// CompleteTask moves the first pending task matching the given text (by ID or
// description substring) into the completed table.
func (s *SQLiteStore) CompleteTask(ctx context.Context, match string) (domain.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	pending, err := s.PendingTasks(ctx)
	if err != nil {
		return domain.Task{}, err
	}
	target, ok := matchTask(pending, match)
	if !ok {
		return domain.Task{}, fmt.Errorf("no pending task matches %q", match)
	}

	now := time.Now()
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Task{}, err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `INSERT INTO completed_tasks
		(id, description, priority, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?)`,
		target.ID, target.Description, target.Priority,
		target.CreatedAt.Format(domain.TimestampFormat),
		now.Format(domain.TimestampFormat)); err != nil {
		return domain.Task{}, err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM tasks WHERE id = ?`, target.ID); err != nil {
		return domain.Task{}, err
	}
	if err := tx.Commit(); err != nil {
		return domain.Task{}, err
	}

	target.Status = domain.TaskCompleted
	target.CompletedAt = &now
	return target, nil
}

// Backup exports all collections to a timestamped JSON file and prunes old
// backups beyond the retention count.
func (s *SQLiteStore) Backup(ctx context.Context) (string, error) {
	turns, err := s.RecentTurns(ctx, 0)
	if err != nil {
		return "", err
	}
	pending, err := s.PendingTasks(ctx)
	if err != nil {
		return "", err
	}
	completed, err := s.CompletedTasks(ctx)
	if err != nil {
		return "", err
	}
	return writeBackup(s.backupDir, s.keep, backupDocument{
		Conversations:  turns,
		Tasks:          pending,
		CompletedTasks: completed,
	})
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Path returns the database path.
func (s *SQLiteStore) Path() string {
	return s.path
}

func matchTask(tasks []domain.Task, match string) (domain.Task, bool) {
	needle := strings.ToLower(strings.TrimSpace(match))
	for _, task := range tasks {
		if task.ID == match {
			return task, true
		}
	}
	for _, task := range tasks {
		if needle != "" && strings.Contains(strings.ToLower(task.Description), needle) {
			return task, true
		}
	}
	return domain.Task{}, false
}

var _ ports.MemoryStore = (*SQLiteStore)(nil)
