package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/infrastructure/memory"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
)

func chtemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
	return dir
}

func TestCreateFileDefaultsToGreeting(t *testing.T) {
	dir := chtemp(t)
	h := NewFileHandler(logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentCreateFile,
		Target: "test.txt",
	}, "create a test file")

	require.Equal(t, domain.StatusSuccess, result.Status)
	data, err := os.ReadFile(filepath.Join(dir, "test.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", string(data))
}

func TestCreateFileMessageNamesFileAndContent(t *testing.T) {
	chtemp(t)
	h := NewFileHandler(logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentCreateFile,
		Target: "test.txt",
	}, "create test.txt file, write hello world inside")

	require.Equal(t, domain.StatusSuccess, result.Status)
	assert.Contains(t, result.Message, "test.txt")
	assert.Contains(t, result.Message, "hello world")
}

func TestCreateFileExtractsDictatedContent(t *testing.T) {
	dir := chtemp(t)
	h := NewFileHandler(logger.Nop{})

	cases := []struct {
		input string
		file  string
		want  string
	}{
		{"create note.txt file, write goodbye moon inside", "note.txt", "goodbye moon inside"},
		{"make shopping.txt and note eggs and bread, save it", "shopping.txt", "eggs and bread"},
		{"create draft.txt, write the first chapter then open it", "draft.txt", "the first chapter"},
	}
	for _, tc := range cases {
		result := h.Handle(context.Background(), domain.PlannedAction{
			Action: domain.IntentCreateFile,
			Target: tc.file,
		}, tc.input)

		require.Equal(t, domain.StatusSuccess, result.Status, "input %q", tc.input)
		data, err := os.ReadFile(filepath.Join(dir, tc.file))
		require.NoError(t, err)
		assert.Equal(t, tc.want, string(data), "input %q", tc.input)
		assert.Contains(t, result.Message, tc.want, "input %q", tc.input)
	}
}

func TestCreateFileExtractsQuotedContent(t *testing.T) {
	dir := chtemp(t)
	h := NewFileHandler(logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentCreateFile,
		Target: "notes.txt",
	}, `create notes.txt with "remember the milk"`)

	require.Equal(t, domain.StatusSuccess, result.Status)
	data, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	assert.Equal(t, "remember the milk", string(data))
}

func TestCreateFileFindsNameInInput(t *testing.T) {
	dir := chtemp(t)
	h := NewFileHandler(logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentCreateFile,
	}, "please create a file called journal.md")

	require.Equal(t, domain.StatusSuccess, result.Status)
	_, err := os.Stat(filepath.Join(dir, "journal.md"))
	assert.NoError(t, err)
}

func TestReadFileReturnsContents(t *testing.T) {
	dir := chtemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("first line"), 0o644))
	h := NewFileHandler(logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentReadFile,
		Target: "readme.txt",
	}, "")

	require.Equal(t, domain.StatusSuccess, result.Status)
	assert.Contains(t, result.Message, "first line")
}

func TestReadMissingFileFails(t *testing.T) {
	chtemp(t)
	h := NewFileHandler(logger.Nop{})
	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentReadFile,
		Target: "ghost.txt",
	}, "")
	assert.Equal(t, domain.StatusError, result.Status)
}

func TestListDirectoryCountsEntries(t *testing.T) {
	dir := chtemp(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), nil, 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	h := NewFileHandler(logger.Nop{})

	result := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentListDirectory,
	}, "list files")

	require.Equal(t, domain.StatusSuccess, result.Status)
	assert.Equal(t, 2, result.Payload["count"])
	assert.Contains(t, result.Message, "sub/")
}

func TestTaskHandlerAddsAndCompletes(t *testing.T) {
	dir := t.TempDir()
	store := memory.NewFileStore(filepath.Join(dir, "memory.json"), filepath.Join(dir, "backups"), 5)
	h := NewTaskHandler(store, logger.Nop{})
	ctx := context.Background()

	added := h.Handle(ctx, domain.PlannedAction{
		Action: domain.IntentAddTask,
		Target: "water the plants",
	}, "")
	require.Equal(t, domain.StatusSuccess, added.Status)

	done := h.Handle(ctx, domain.PlannedAction{
		Action: domain.IntentCompleteTask,
		Target: "water",
	}, "")
	require.Equal(t, domain.StatusSuccess, done.Status)

	pending, err := store.PendingTasks(ctx)
	require.NoError(t, err)
	assert.Empty(t, pending)
	completed, err := store.CompletedTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, completed, 1)
}
