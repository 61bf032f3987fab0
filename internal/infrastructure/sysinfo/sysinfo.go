// Package sysinfo collects live process and resource data for prompts and
// the analyze_system action.
package sysinfo

import (
	"context"
	"os"
	"sort"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
	"github.com/shirou/gopsutil/v4/process"

	"github.com/akhellaf/deskpilot/internal/domain"
	"github.com/akhellaf/deskpilot/internal/ports"
)

// Collector builds planner snapshots and deep resource analyses.
type Collector struct {
	store  ports.MemoryStore
	logger ports.Logger
}

// New builds a collector. The store supplies the pending-task count for
// snapshots; it may be nil.
func New(store ports.MemoryStore, logger ports.Logger) *Collector {
	return &Collector{store: store, logger: logger}
}

// Collect implements ports.SnapshotCollector. Every probe is best-effort; a
// failing probe leaves its field zeroed rather than failing the snapshot.
func (c *Collector) Collect(ctx context.Context) domain.SystemSnapshot {
	var snapshot domain.SystemSnapshot

	if wd, err := os.Getwd(); err == nil {
		snapshot.WorkingDir = wd
		if entries, err := os.ReadDir(wd); err == nil {
			snapshot.DirEntries = len(entries)
		}
	}

	if c.store != nil {
		if tasks, err := c.store.PendingTasks(ctx); err == nil {
			snapshot.PendingTasks = len(tasks)
		}
	}

	procs, err := topProcessesByMemory(ctx, 5)
	if err != nil {
		c.logger.Debug("process snapshot failed", map[string]interface{}{"error": err.Error()})
	} else {
		snapshot.TopProcesses = procs
	}
	return snapshot
}

// Analyze implements ports.SystemInspector.
func (c *Collector) Analyze(ctx context.Context) (domain.ResourceAnalysis, error) {
	var analysis domain.ResourceAnalysis

	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		analysis.TotalMemPercent = vm.UsedPercent
		analysis.AvailableMemoryGB = float64(vm.Available) / (1 << 30)
	}
	if percents, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(percents) > 0 {
		analysis.TotalCPUPercent = percents[0]
	}

	all, err := listProcesses(ctx)
	if err != nil {
		return analysis, err
	}
	analysis.TotalProcesses = len(all)

	byMemory := make([]domain.ProcessInfo, len(all))
	copy(byMemory, all)
	sort.Slice(byMemory, func(i, j int) bool { return byMemory[i].MemoryMB > byMemory[j].MemoryMB })

	byCPU := make([]domain.ProcessInfo, len(all))
	copy(byCPU, all)
	sort.Slice(byCPU, func(i, j int) bool { return byCPU[i].CPUPercent > byCPU[j].CPUPercent })

	analysis.HighMemory = headOver(byMemory, func(p domain.ProcessInfo) bool { return p.MemoryPercent > 5 }, 5)
	analysis.HighCPU = headOver(byCPU, func(p domain.ProcessInfo) bool { return p.CPUPercent > 10 }, 5)
	analysis.TopOverall = head(byMemory, 10)
	return analysis, nil
}

func head(procs []domain.ProcessInfo, n int) []domain.ProcessInfo {
	if len(procs) > n {
		procs = procs[:n]
	}
	return procs
}

func headOver(procs []domain.ProcessInfo, keep func(domain.ProcessInfo) bool, n int) []domain.ProcessInfo {
	var out []domain.ProcessInfo
	for _, p := range procs {
		if keep(p) {
			out = append(out, p)
		}
		if len(out) == n {
			break
		}
	}
	return out
}

func topProcessesByMemory(ctx context.Context, n int) ([]domain.ProcessInfo, error) {
	all, err := listProcesses(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(all, func(i, j int) bool { return all[i].MemoryMB > all[j].MemoryMB })
	return head(all, n), nil
}

func listProcesses(ctx context.Context) ([]domain.ProcessInfo, error) {
	procs, err := process.ProcessesWithContext(ctx)
	if err != nil {
		return nil, err
	}
	infos := make([]domain.ProcessInfo, 0, len(procs))
	for _, p := range procs {
		info := domain.ProcessInfo{PID: p.Pid}
		if name, err := p.NameWithContext(ctx); err == nil {
			info.Name = name
		} else {
			continue
		}
		if memInfo, err := p.MemoryInfoWithContext(ctx); err == nil && memInfo != nil {
			info.MemoryMB = float64(memInfo.RSS) / (1 << 20)
		}
		if pct, err := p.MemoryPercentWithContext(ctx); err == nil {
			info.MemoryPercent = float64(pct)
		}
		if pct, err := p.CPUPercentWithContext(ctx); err == nil {
			info.CPUPercent = pct
		}
		infos = append(infos, info)
	}
	return infos, nil
}

var _ ports.SnapshotCollector = (*Collector)(nil)
var _ ports.SystemInspector = (*Collector)(nil)
