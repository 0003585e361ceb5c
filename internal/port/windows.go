package port

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// NetstatScanner is the Windows discovery backend: netstat -ano for the
// connection table, tasklist for per-PID image names. There is no
// fallback tool on Windows, so a failed netstat is a real error the
// caller should surface.
type NetstatScanner struct {
	runner CmdRunner
}

// NewNetstatScanner creates the Windows scanner.
func NewNetstatScanner(runner CmdRunner) *NetstatScanner {
	return &NetstatScanner{runner: runner}
}

// FindByPort returns the processes listening on the given port,
// deduplicated by PID. Image name lookups are best effort.
func (s *NetstatScanner) FindByPort(ctx context.Context, port int) ([]ProcessEntry, error) {
	out, err := s.runner.Run(ctx, "netstat", "-ano")
	if err != nil {
		return nil, fmt.Errorf("failed to run netstat for port %d: %w", port, err)
	}

	var entries []ProcessEntry
	for _, pid := range ParseNetstatAnoPIDs(string(out), port) {
		entries = append(entries, ProcessEntry{PID: pid, Command: s.imageName(ctx, pid)})
	}
	return entries, nil
}

// imageName resolves a PID's image name via a filtered tasklist call.
func (s *NetstatScanner) imageName(ctx context.Context, pid int) string {
	out, err := s.runner.Run(ctx, "tasklist", "/FI", fmt.Sprintf("PID eq %d", pid))
	if err != nil {
		return UnknownCommand
	}
	if name := ParseTasklistImage(string(out)); name != "" {
		return name
	}
	return UnknownCommand
}

// ParseNetstatAnoPIDs extracts listener PIDs for the target port from
// netstat -ano output. The first 4 lines are headers; a data row looks
// like:
//
//	TCP    0.0.0.0:3000    0.0.0.0:0    LISTENING    1234
func ParseNetstatAnoPIDs(output string, port int) []int {
	lines := strings.Split(output, "\n")
	if len(lines) <= 4 {
		return nil
	}

	var pids []int
	seen := make(map[int]bool)
	for _, line := range lines[4:] {
		fields := strings.Fields(line)
		if len(fields) < 5 {
			continue
		}
		if fields[3] != "LISTENING" {
			continue
		}
		if !matchesLocalPort(fields[1], port) {
			continue
		}
		pid, err := strconv.Atoi(fields[4])
		if err != nil || pid <= 0 || seen[pid] {
			continue
		}
		seen[pid] = true
		pids = append(pids, pid)
	}
	return pids
}

// ParseTasklistImage pulls the image name out of filtered tasklist
// output: the first non-empty line is the column header, then a
// separator row of equals signs, then the data row whose first field is
// the image name. Returns "" when no data row is present.
func ParseTasklistImage(output string) string {
	var lines []string
	for _, line := range strings.Split(output, "\n") {
		if strings.TrimSpace(line) != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) < 2 {
		return ""
	}
	for _, line := range lines[1:] {
		if strings.HasPrefix(strings.TrimSpace(line), "=") {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		return fields[0]
	}
	return ""
}
