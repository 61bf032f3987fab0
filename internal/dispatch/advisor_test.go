package dispatch

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/pkg/logger"
)

func TestOrganizeGroupsByExtensionOffline(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.txt", "b.txt", "c.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	h := NewOrganizeHandler(offlineLLM{}, logger.Nop{})

	res := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentOrganizeFiles,
		Target: dir,
	}, "")

	require.Equal(t, domain.StatusSuccess, res.Status)
	assert.Contains(t, res.Message, "Organized 3 files into 2 folders")
	assert.FileExists(t, filepath.Join(dir, "txt", "a.txt"))
	assert.FileExists(t, filepath.Join(dir, "txt", "b.txt"))
	assert.FileExists(t, filepath.Join(dir, "log", "c.log"))
}

func TestOrganizeFollowsModelPlan(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"invoice.txt", "photo.log"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644))
	}
	llm := cannedLLM{response: `Here you go:
{"organization_plan":[{"folder":"paperwork","files":["invoice.txt","photo.log"],"reason":"related"}],"summary":"Everything is paperwork."}`}
	h := NewOrganizeHandler(llm, logger.Nop{})

	res := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentOrganizeFiles,
		Target: dir,
	}, "")

	require.Equal(t, domain.StatusSuccess, res.Status)
	assert.Contains(t, res.Message, "Everything is paperwork.")
	assert.FileExists(t, filepath.Join(dir, "paperwork", "invoice.txt"))
	assert.FileExists(t, filepath.Join(dir, "paperwork", "photo.log"))
}

func TestOrganizeEmptyDirectoryIsInfo(t *testing.T) {
	h := NewOrganizeHandler(offlineLLM{}, logger.Nop{})
	res := h.Handle(context.Background(), domain.PlannedAction{
		Action: domain.IntentOrganizeFiles,
		Target: t.TempDir(),
	}, "")
	assert.Equal(t, domain.StatusInfo, res.Status)
}

type stubInspector struct {
	analysis domain.ResourceAnalysis
	err      error
}

func (s *stubInspector) Analyze(context.Context) (domain.ResourceAnalysis, error) {
	return s.analysis, s.err
}

func TestCleanupReportsMemoryHogs(t *testing.T) {
	h := NewCleanupHandler(&stubInspector{analysis: domain.ResourceAnalysis{
		HighMemory: []domain.ProcessInfo{
			{Name: "chrome.exe", MemoryMB: 900},
			{Name: "teams.exe", MemoryMB: 700},
		},
	}})

	res := h.Handle(context.Background(), domain.PlannedAction{Action: domain.IntentSystemCleanup}, "")
	require.Equal(t, domain.StatusSuccess, res.Status)
	assert.Contains(t, res.Message, "2 memory-intensive processes")
	assert.Contains(t, res.Message, "cleanup tasks?")
}

type stubSnapshotter struct {
	snapshot domain.SystemSnapshot
}

func (s *stubSnapshotter) Collect(context.Context) domain.SystemSnapshot {
	return s.snapshot
}

func TestProductivityUsesModelSuggestions(t *testing.T) {
	llm := cannedLLM{response: `{"suggestions":[{"action":"Close teams.exe","benefit":"frees memory","priority":"high"},{"action":"Finish the report task","benefit":"clears your list","priority":"medium"}],"summary":"Light load overall."}`}
	h := NewProductivityHandler(llm, &stubSnapshotter{snapshot: domain.SystemSnapshot{PendingTasks: 1}}, logger.Nop{})

	res := h.Handle(context.Background(), domain.PlannedAction{Action: domain.IntentProductivityBoost}, "")
	require.Equal(t, domain.StatusSuccess, res.Status)
	assert.Contains(t, res.Message, "Light load overall.")
	assert.Contains(t, res.Message, "1. Close teams.exe")
	assert.Contains(t, res.Message, "2. Finish the report task")
}

func TestProductivityFallsBackToSnapshot(t *testing.T) {
	h := NewProductivityHandler(offlineLLM{}, &stubSnapshotter{snapshot: domain.SystemSnapshot{
		PendingTasks: 3,
		TopProcesses: []domain.ProcessInfo{{Name: "chrome.exe", MemoryMB: 1200}},
	}}, logger.Nop{})

	res := h.Handle(context.Background(), domain.PlannedAction{Action: domain.IntentProductivityBoost}, "")
	require.Equal(t, domain.StatusSuccess, res.Status)
	assert.Contains(t, res.Message, "3 pending tasks")
	assert.Contains(t, res.Message, "chrome.exe")
}
