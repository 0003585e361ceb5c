package port

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/tejaswankalluri/portclean/internal/platform"
)

// Scanner defines the interface for discovering which processes hold a port.
type Scanner interface {
	FindByPort(ctx context.Context, port int) ([]ProcessEntry, error)
}

// NewScanner returns the discovery backend for the given platform. The
// platform value is detected once at startup and injected; backends never
// read ambient OS state themselves.
func NewScanner(p platform.Platform, runner CmdRunner) Scanner {
	if p == platform.Windows {
		return NewNetstatScanner(runner)
	}
	// Only Linux gets the netstat fallback: the darwin/BSD netstat has no
	// PID column, so there is nothing to parse when lsof is missing.
	return NewLsofScanner(runner, p == platform.Linux)
}

// LsofScanner discovers processes via lsof, with an optional netstat
// fallback for hosts where lsof is not installed.
type LsofScanner struct {
	runner          CmdRunner
	netstatFallback bool
}

// NewLsofScanner creates a scanner backed by lsof.
func NewLsofScanner(runner CmdRunner, netstatFallback bool) *LsofScanner {
	return &LsofScanner{runner: runner, netstatFallback: netstatFallback}
}

// FindByPort returns the processes holding the given port, deduplicated
// by PID. lsof exiting 1 with no output means "nothing matched" and is
// not an error; a missing lsof binary triggers the netstat fallback when
// one exists for this platform.
func (s *LsofScanner) FindByPort(ctx context.Context, port int) ([]ProcessEntry, error) {
	out, err := s.runner.Run(ctx, "lsof", fmt.Sprintf("-i:%d", port), "-P", "-n")
	if err == nil {
		return ParseLsofProcesses(string(out)), nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 && len(out) == 0 {
		return nil, nil
	}

	if !s.netstatFallback {
		return nil, fmt.Errorf("failed to run lsof for port %d: %w", port, err)
	}
	return s.findViaNetstat(ctx, port)
}

// findViaNetstat scans the full connection table and resolves command
// names per PID with ps. Name lookup failures degrade to "unknown".
func (s *LsofScanner) findViaNetstat(ctx context.Context, port int) ([]ProcessEntry, error) {
	out, err := s.runner.Run(ctx, "netstat", "-tunlp")
	if err != nil {
		return nil, fmt.Errorf("failed to run netstat for port %d: %w", port, err)
	}

	var entries []ProcessEntry
	for _, pid := range ParseNetstatPIDs(string(out), port) {
		entries = append(entries, ProcessEntry{PID: pid, Command: s.commandName(ctx, pid)})
	}
	return entries, nil
}

// commandName resolves a PID's command name via ps -o comm=.
func (s *LsofScanner) commandName(ctx context.Context, pid int) string {
	out, err := s.runner.Run(ctx, "ps", "-p", strconv.Itoa(pid), "-o", "comm=")
	if err != nil {
		return UnknownCommand
	}
	name := strings.TrimSpace(string(out))
	if name == "" {
		return UnknownCommand
	}
	// Extract just the binary name from path.
	parts := strings.Split(name, "/")
	return parts[len(parts)-1]
}

// ParseLsofProcesses parses columnar lsof output. Each line after the
// header has fields: COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME.
// Rows whose PID field is not a positive integer are dropped; duplicate
// PIDs collapse to one entry.
func ParseLsofProcesses(output string) []ProcessEntry {
	lines := strings.Split(output, "\n")
	if len(lines) < 2 {
		return nil
	}

	var entries []ProcessEntry
	seen := make(map[int]bool)
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		pid, err := strconv.Atoi(fields[1])
		if err != nil || pid <= 0 {
			continue
		}
		if seen[pid] {
			continue
		}
		seen[pid] = true
		entries = append(entries, ProcessEntry{PID: pid, Command: fields[0]})
	}
	return entries
}

// ParseNetstatPIDs extracts the PIDs listening on the target port from
// Linux netstat output. A row qualifies when it has at least 7 fields,
// the state column reads LISTEN, the PID/Program column starts with a
// PID, and the local address ends with the target port:
//
//	tcp  0  0  0.0.0.0:3000  0.0.0.0:*  LISTEN  1234/node
func ParseNetstatPIDs(output string, port int) []int {
	var pids []int
	seen := make(map[int]bool)
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 7 {
			continue
		}
		if fields[5] != "LISTEN" {
			continue
		}
		if !matchesLocalPort(fields[3], port) {
			continue
		}
		pid, ok := pidFromProgramField(fields[6])
		if !ok || seen[pid] {
			continue
		}
		seen[pid] = true
		pids = append(pids, pid)
	}
	return pids
}

// pidFromProgramField parses netstat's "PID/Program name" column.
func pidFromProgramField(field string) (int, bool) {
	idx := strings.Index(field, "/")
	if idx <= 0 {
		return 0, false
	}
	pid, err := strconv.Atoi(field[:idx])
	if err != nil || pid <= 0 {
		return 0, false
	}
	return pid, true
}

// matchesLocalPort reports whether the text after the last colon of a
// local-address field equals the target port.
func matchesLocalPort(addr string, port int) bool {
	idx := strings.LastIndex(addr, ":")
	if idx == -1 {
		return false
	}
	return addr[idx+1:] == strconv.Itoa(port)
}
