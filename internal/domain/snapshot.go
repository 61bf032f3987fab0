package domain

// ProcessInfo is a minimal view of one running process.
type ProcessInfo struct {
	PID           int32   `json:"pid"`
	Name          string  `json:"name"`
	MemoryMB      float64 `json:"memory_mb"`
	MemoryPercent float64 `json:"memory_percent"`
	CPUPercent    float64 `json:"cpu_percent"`
}

// SystemSnapshot is the best-effort live context embedded into the planning
// prompt: top processes by memory, pending task count and the working
// directory listing size.
type SystemSnapshot struct {
	WorkingDir   string
	TopProcesses []ProcessInfo
	PendingTasks int
	DirEntries   int
}

// ResourceAnalysis is the payload of the analyze_system action.
type ResourceAnalysis struct {
	TotalCPUPercent   float64       `json:"total_cpu_usage"`
	TotalMemPercent   float64       `json:"total_memory_usage"`
	AvailableMemoryGB float64       `json:"available_memory_gb"`
	TotalProcesses    int           `json:"total_processes"`
	HighMemory        []ProcessInfo `json:"high_memory_processes"`
	HighCPU           []ProcessInfo `json:"high_cpu_processes"`
	TopOverall        []ProcessInfo `json:"top_10_overall"`
}

// WifiNetwork is one parsed wireless network, saved or broadcasting.
type WifiNetwork struct {
	Name           string `json:"name"`
	Security       string `json:"security,omitempty"`
	Authentication string `json:"authentication,omitempty"`
	Encryption     string `json:"encryption,omitempty"`
	Signal         string `json:"signal,omitempty"`
	Type           string `json:"type,omitempty"`
	AccessPoints   int    `json:"access_points,omitempty"`
}

// WifiScan aggregates one scan pass.
type WifiScan struct {
	Saved          []WifiNetwork `json:"saved_networks"`
	Available      []WifiNetwork `json:"available_networks"`
	TotalSaved     int           `json:"total_saved"`
	TotalAvailable int           `json:"total_available"`
	ScanTime       string        `json:"scan_time,omitempty"`
}
