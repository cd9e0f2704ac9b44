// Package sysstat reports host health for the status command and the
// admin dashboard.
package sysstat

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/load"
	"github.com/shirou/gopsutil/v3/mem"
)

// Status is a point-in-time host snapshot.
type Status struct {
	Hostname          string        `json:"hostname"`
	Uptime            time.Duration `json:"uptime"`
	MemoryUsedPercent float64       `json:"memory_used_percent"`
	CPUPercent        float64       `json:"cpu_percent"`
	Load1             float64       `json:"load1"`
}

// Collector produces a Status.
type Collector func(ctx context.Context) (Status, error)

// Collect samples the local host.
func Collect(ctx context.Context) (Status, error) {
	var st Status

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return Status{}, errors.Wrap(err, "host info")
	}
	st.Hostname = info.Hostname
	st.Uptime = time.Duration(info.Uptime) * time.Second

	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return Status{}, errors.Wrap(err, "memory")
	}
	st.MemoryUsedPercent = vm.UsedPercent

	// Interval 0 compares against the previous call.
	if pct, err := cpu.PercentWithContext(ctx, 0, false); err == nil && len(pct) > 0 {
		st.CPUPercent = pct[0]
	}
	if avg, err := load.AvgWithContext(ctx); err == nil {
		st.Load1 = avg.Load1
	}
	return st, nil
}

// Level grades memory and CPU pressure.
func (s Status) Level() string {
	worst := s.MemoryUsedPercent
	if s.CPUPercent > worst {
		worst = s.CPUPercent
	}
	switch {
	case worst >= 90:
		return "HIGH"
	case worst >= 70:
		return "ELEVATED"
	default:
		return "LOW"
	}
}

// Lines renders the snapshot as notification lines.
func (s Status) Lines() []string {
	return []string{
		"System Status:",
		fmt.Sprintf("Load Level: %s", s.Level()),
		fmt.Sprintf("Memory: %.1f%%", s.MemoryUsedPercent),
		fmt.Sprintf("CPU: %.1f%%", s.CPUPercent),
		fmt.Sprintf("Load Average: %.2f", s.Load1),
		fmt.Sprintf("Uptime: %s", s.Uptime.Truncate(time.Second)),
	}
}
