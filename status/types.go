package status

import (
	"github.com/chatsched/chatsched/status/health"
)

type HealthResponse struct {
	Status     health.Status            `json:"status"`
	Components map[string]health.Result `json:"components"`
}

type StatusResponse struct {
	NodeID   string        `json:"node_id"`
	Version  string        `json:"version"`
	UpTime   string        `json:"uptime"`
	Runtime  RuntimeStats  `json:"runtime"`
	Memory   MemoryStats   `json:"memory"`
	Database DatabaseStats `json:"database"`
	Messages MessageStats  `json:"messages"`
	Worker   WorkerStats   `json:"worker"`
}

type MemoryStats struct {
	Alloc       string `json:"alloc"`
	Sys         string `json:"sys"`
	HeapAlloc   string `json:"heap_alloc"`
	HeapObjects int64  `json:"heap_objects"`
	GC          int64  `json:"gc"`
}

type DatabaseStats struct {
	TotalConnections  int `json:"total_connections"`
	ActiveConnections int `json:"active_connections"`
}

type RuntimeStats struct {
	Go         string `json:"go"`
	Goroutines int    `json:"goroutines"`
}

type MessageStats struct {
	Pending   int64 `json:"pending"`
	Sent      int64 `json:"sent"`
	Failed    int64 `json:"failed"`
	Cancelled int64 `json:"cancelled"`
}

type WorkerStats struct {
	Runs      int64  `json:"runs"`
	Sent      int64  `json:"sent"`
	Failed    int64  `json:"failed"`
	Skipped   int64  `json:"skipped"`
	LastRun   string `json:"last_run,omitempty"`
	LastError string `json:"last_error,omitempty"`
}

func BytesToMiB(bytes uint64) float64 {
	return float64(bytes) / 1024 / 1024
}
