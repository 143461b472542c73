// Package status renders the mod-channel `status` command: a short health
// report covering the process and the moderation workload.
package status

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/process"

	"modwatch/internal/moderation"
)

// Report collects process stats and registry counts into a reply.
func Report(reg *moderation.Registry) (string, error) {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return "", fmt.Errorf("inspect process: %w", err)
	}

	var b strings.Builder
	b.WriteString("modwatch status\n")

	if created, err := p.CreateTime(); err == nil {
		up := time.Since(time.UnixMilli(created)).Round(time.Second)
		fmt.Fprintf(&b, "Uptime: %s\n", up)
	}
	if cpu, err := p.CPUPercent(); err == nil {
		fmt.Fprintf(&b, "CPU: %.1f%%\n", cpu)
	}
	if mem, err := p.MemoryInfo(); err == nil {
		fmt.Fprintf(&b, "RSS: %.1f MB\n", float64(mem.RSS)/(1024*1024))
	}

	fmt.Fprintf(&b, "Filed reports: %d\n", reg.ReportCount())
	fmt.Fprintf(&b, "Open report sessions: %d\n", reg.ReportSessionCount())
	fmt.Fprintf(&b, "Open response sessions: %d", reg.ResponseSessionCount())
	return b.String(), nil
}
