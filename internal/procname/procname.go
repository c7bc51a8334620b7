// Package procname resolves a process id to its executable name. The
// teacher (internal/monitor/monitor.go) left this as a `PID_%d`
// placeholder with a comment that production would use a proper
// lookup — this is that lookup.
package procname

import (
	"fmt"

	"github.com/shirou/gopsutil/v3/process"
)

// Lookup returns the executable name for pid, e.g. "chrome.exe" or
// "Safari". On any failure (process exited between capture and
// lookup, permission denied, unsupported platform) it falls back to
// the teacher's PID_%d placeholder rather than failing the caller —
// process-name resolution is a best-effort enrichment, never load
// bearing for the capture pipeline.
func Lookup(pid int) string {
	if pid <= 0 {
		return fmt.Sprintf("PID_%d", pid)
	}
	p, err := process.NewProcess(int32(pid))
	if err != nil {
		return fmt.Sprintf("PID_%d", pid)
	}
	name, err := p.Name()
	if err != nil || name == "" {
		return fmt.Sprintf("PID_%d", pid)
	}
	return name
}
