package utils

import (
	"coachhub/database"
	"os"
	"runtime"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/disk"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// SystemMetrics is a point-in-time sample of the process, host and DB pool.
type SystemMetrics struct {
	CapturedAt        time.Time `json:"captured_at"`
	Goroutines        int       `json:"goroutines"`
	HeapAllocBytes    uint64    `json:"heap_alloc_bytes"`
	ProcessRSSBytes   uint64    `json:"process_rss_bytes"`
	ProcessCPUPercent float64   `json:"process_cpu_percent"`
	SystemCPUPercent  float64   `json:"system_cpu_percent"`
	MemoryTotalBytes  uint64    `json:"memory_total_bytes"`
	MemoryUsedBytes   uint64    `json:"memory_used_bytes"`
	DiskTotalBytes    uint64    `json:"disk_total_bytes"`
	DiskUsedBytes     uint64    `json:"disk_used_bytes"`
	DBDriver          string    `json:"db_driver"`
	DBOpenConns       int       `json:"db_open_connections"`
	DBInUse           int       `json:"db_in_use"`
	DBIdle            int       `json:"db_idle"`
}

// CaptureSystemMetrics samples metrics; individual probe failures leave zeros.
func CaptureSystemMetrics(diskPath string) SystemMetrics {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)

	sample := SystemMetrics{
		CapturedAt:     Now(),
		Goroutines:     runtime.NumGoroutine(),
		HeapAllocBytes: ms.HeapAlloc,
		DBDriver:       database.Database.Driver,
	}

	if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
		if info, err := proc.MemoryInfo(); err == nil && info != nil {
			sample.ProcessRSSBytes = info.RSS
		}
		if pct, err := proc.CPUPercent(); err == nil {
			sample.ProcessCPUPercent = pct
		}
	}
	if pcts, err := cpu.Percent(0, false); err == nil && len(pcts) > 0 {
		sample.SystemCPUPercent = pcts[0]
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		sample.MemoryTotalBytes = vm.Total
		sample.MemoryUsedBytes = vm.Total - vm.Available
	}
	usage, err := disk.Usage(diskPath)
	if err != nil {
		usage, err = disk.Usage("/")
	}
	if err == nil {
		sample.DiskTotalBytes = usage.Total
		sample.DiskUsedBytes = usage.Used
	}

	if database.Database.Db != nil {
		if sqlDB, err := database.Database.Db.DB(); err == nil {
			stats := sqlDB.Stats()
			sample.DBOpenConns = stats.OpenConnections
			sample.DBInUse = stats.InUse
			sample.DBIdle = stats.Idle
		}
	}
	return sample
}
