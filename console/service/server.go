package service

import (
	"time"

	"github.com/relayforge/gateway-console/config"
	"github.com/relayforge/gateway-console/logger"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/load"
	"github.com/shirou/gopsutil/v4/mem"
)

// Status is a point-in-time view of the console host, rendered on the
// shell's status screen.
type Status struct {
	T       time.Time `json:"-"`
	Version string    `json:"version"`
	Cpu     float64   `json:"cpu"`
	Mem     struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"mem"`
	Disk struct {
		Current uint64 `json:"current"`
		Total   uint64 `json:"total"`
	} `json:"disk"`
	Loads      []float64 `json:"loads"`
	Uptime     uint64    `json:"uptime"`
	GatewayURL string    `json:"gatewayUrl"`
}

// ServerService reports host statistics for the console daemon.
type ServerService struct{}

// GetStatus gathers host stats. Individual collector failures degrade the
// report rather than failing it.
func (s *ServerService) GetStatus(gatewayURL string) *Status {
	now := time.Now()
	status := &Status{
		T:          now,
		Version:    config.GetVersion(),
		GatewayURL: gatewayURL,
	}

	if percents, err := cpu.Percent(0, false); err != nil {
		logger.Warning("get cpu percent failed:", err)
	} else if len(percents) > 0 {
		status.Cpu = percents[0]
	}

	if upTime, err := host.Uptime(); err != nil {
		logger.Warning("get uptime failed:", err)
	} else {
		status.Uptime = upTime
	}

	if memInfo, err := mem.VirtualMemory(); err != nil {
		logger.Warning("get virtual memory failed:", err)
	} else {
		status.Mem.Current = memInfo.Used
		status.Mem.Total = memInfo.Total
	}

	if diskInfo, err := disk.Usage("/"); err != nil {
		logger.Warning("get disk usage failed:", err)
	} else {
		status.Disk.Current = diskInfo.Used
		status.Disk.Total = diskInfo.Total
	}

	if avgState, err := load.Avg(); err != nil {
		logger.Warning("get load avg failed:", err)
	} else {
		status.Loads = []float64{avgState.Load1, avgState.Load5, avgState.Load15}
	}

	return status
}
