//go:build darwin

package platform

import (
	"context"
	"fmt"
	"image"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// enumScript lists every visible process's windows via System Events.
// Using AppleScript here mirrors the OS-automation-bridge pattern the
// desktop-automation collaborator uses (original_source's
// automation.rs) — it is the standard non-cgo way to reach window
// geometry and focus state on macOS without a private framework
// binding.
const enumScript = `
tell application "System Events"
	set output to ""
	repeat with proc in (every process whose visible is true)
		set appName to name of proc
		set pid to unix id of proc
		set isFront to frontmost of proc
		try
			repeat with w in windows of proc
				set wTitle to name of w
				set {px, py} to position of w
				set {pw, ph} to size of w
				set output to output & appName & "\t" & pid & "\t" & isFront & "\t" & wTitle & "\t" & px & "\t" & py & "\t" & pw & "\t" & ph & "\n"
			end repeat
		end try
	end repeat
	return output
end tell
`

// EnumWindows lists top-level windows via an AppleScript bridge into
// System Events. Best-effort: a window whose geometry AppleScript
// refuses to report (permission not yet granted) is skipped rather
// than failing the whole enumeration.
func EnumWindows() ([]WindowInfo, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	out, err := exec.CommandContext(ctx, "osascript", "-e", enumScript).Output()
	if err != nil {
		return nil, fmt.Errorf("enumerate windows via osascript: %w", err)
	}

	var windows []WindowInfo
	for _, line := range strings.Split(string(out), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 8 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil {
			continue
		}
		focused := fields[2] == "true"
		px, _ := strconv.Atoi(fields[4])
		py, _ := strconv.Atoi(fields[5])
		pw, _ := strconv.Atoi(fields[6])
		ph, _ := strconv.Atoi(fields[7])
		if pw <= 0 || ph <= 0 {
			continue
		}

		windows = append(windows, WindowInfo{
			Title:     fields[3],
			AppName:   fields[0],
			ProcessID: pid,
			Bounds:    image.Rect(px, py, px+pw, py+ph),
			Focused:   focused,
		})
	}
	return windows, nil
}
