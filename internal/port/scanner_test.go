package port

import (
	"context"
	"errors"
	"reflect"
	"testing"
)

const lsofFixture = `COMMAND     PID      USER   FD   TYPE             DEVICE SIZE/OFF NODE NAME
node       5678   zhengda   23u  IPv4 0x1234567890      0t0  TCP *:3000 (LISTEN)
node       5678   zhengda   24u  IPv6 0x1234567891      0t0  TCP *:3000 (LISTEN)
python     9012      root   11u  IPv4 0x1234567892      0t0  TCP 127.0.0.1:3000 (LISTEN)
`

func TestParseLsofProcesses(t *testing.T) {
	entries := ParseLsofProcesses(lsofFixture)

	want := []ProcessEntry{
		{PID: 5678, Command: "node"},
		{PID: 9012, Command: "python"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries: got %v, want %v", entries, want)
	}
}

func TestParseLsofProcesses_DuplicatePIDsCollapse(t *testing.T) {
	entries := ParseLsofProcesses(lsofFixture)
	seen := make(map[int]int)
	for _, e := range entries {
		seen[e.PID]++
	}
	for pid, n := range seen {
		if n != 1 {
			t.Errorf("PID %d appears %d times, want 1", pid, n)
		}
	}
}

func TestParseLsofProcesses_SkipsBadRows(t *testing.T) {
	input := `COMMAND     PID      USER
node       notapid   zhengda
node       -5        zhengda
short
ruby       4242      deploy
`
	entries := ParseLsofProcesses(input)
	want := []ProcessEntry{{PID: 4242, Command: "ruby"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries: got %v, want %v", entries, want)
	}
}

func TestParseLsofProcesses_Empty(t *testing.T) {
	if got := ParseLsofProcesses(""); got != nil {
		t.Errorf("expected nil for empty input, got %v", got)
	}
	headerOnly := "COMMAND PID USER FD TYPE DEVICE SIZE/OFF NODE NAME\n"
	if got := ParseLsofProcesses(headerOnly); len(got) != 0 {
		t.Errorf("expected no entries for header-only input, got %v", got)
	}
}

const netstatLinuxFixture = `Active Internet connections (only servers)
Proto Recv-Q Send-Q Local Address           Foreign Address         State       PID/Program name
tcp        0      0 0.0.0.0:3000            0.0.0.0:*               LISTEN      1234/node
tcp        0      0 127.0.0.1:3000          0.0.0.0:*               LISTEN      1234/node
tcp6       0      0 :::3000                 :::*                    LISTEN      5678/java
tcp        0      0 0.0.0.0:8080            0.0.0.0:*               LISTEN      9999/ruby
tcp        0      0 10.0.0.5:3000           10.0.0.9:54321          ESTABLISHED 4444/curl
udp        0      0 0.0.0.0:3000            0.0.0.0:*                           -
`

func TestParseNetstatPIDs(t *testing.T) {
	pids := ParseNetstatPIDs(netstatLinuxFixture, 3000)
	want := []int{1234, 5678}
	if !reflect.DeepEqual(pids, want) {
		t.Errorf("pids: got %v, want %v", pids, want)
	}
}

func TestParseNetstatPIDs_NoMatch(t *testing.T) {
	if pids := ParseNetstatPIDs(netstatLinuxFixture, 5432); pids != nil {
		t.Errorf("expected no pids, got %v", pids)
	}
}

func TestLsofScanner_FallbackToNetstat(t *testing.T) {
	runner := &MultiMockCmdRunner{
		Responses: map[string]MockResponse{
			"lsof -i:3000 -P -n":     {Err: errors.New(`exec: "lsof": executable file not found in $PATH`)},
			"netstat -tunlp":         {Output: []byte(netstatLinuxFixture)},
			"ps -p 1234 -o comm=":    {Output: []byte("node\n")},
			"ps -p 5678 -o comm=":    {Output: []byte("/usr/bin/java\n")},
		},
	}

	s := NewLsofScanner(runner, true)
	entries, err := s.FindByPort(context.Background(), 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ProcessEntry{
		{PID: 1234, Command: "node"},
		{PID: 5678, Command: "java"},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries: got %v, want %v", entries, want)
	}
}

func TestLsofScanner_FallbackUnknownCommand(t *testing.T) {
	runner := &MultiMockCmdRunner{
		Responses: map[string]MockResponse{
			"lsof -i:8080 -P -n":  {Err: errors.New("lsof missing")},
			"netstat -tunlp":      {Output: []byte(netstatLinuxFixture)},
			"ps -p 9999 -o comm=": {Err: errors.New("no such process")},
		},
	}

	s := NewLsofScanner(runner, true)
	entries, err := s.FindByPort(context.Background(), 8080)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Command != UnknownCommand {
		t.Errorf("entries: got %v, want one entry with unknown command", entries)
	}
}

func TestLsofScanner_NoFallbackOnDarwin(t *testing.T) {
	runner := &MultiMockCmdRunner{
		Responses: map[string]MockResponse{
			"lsof -i:3000 -P -n": {Err: errors.New("lsof missing")},
		},
	}

	s := NewLsofScanner(runner, false)
	_, err := s.FindByPort(context.Background(), 3000)
	if err == nil {
		t.Fatal("expected an error when lsof fails and no fallback exists")
	}
	for _, call := range runner.Calls {
		if call == "netstat -tunlp" {
			t.Error("netstat fallback must never run without PID support")
		}
	}
}

func TestLsofScanner_Success(t *testing.T) {
	runner := &MockCmdRunner{Output: []byte(lsofFixture)}
	s := NewLsofScanner(runner, true)

	entries, err := s.FindByPort(context.Background(), 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 2 {
		t.Errorf("expected 2 entries, got %d", len(entries))
	}
}

const netstatAnoFixture = `
Active Connections

  Proto  Local Address          Foreign Address        State           PID
  TCP    0.0.0.0:3000           0.0.0.0:0              LISTENING       4321
  TCP    [::]:3000              [::]:0                 LISTENING       4321
  TCP    127.0.0.1:3000         127.0.0.1:52000        ESTABLISHED     8765
  TCP    0.0.0.0:8080           0.0.0.0:0              LISTENING       2468
  UDP    0.0.0.0:3000           *:*                                    1357
`

func TestParseNetstatAnoPIDs(t *testing.T) {
	pids := ParseNetstatAnoPIDs(netstatAnoFixture, 3000)
	want := []int{4321}
	if !reflect.DeepEqual(pids, want) {
		t.Errorf("pids: got %v, want %v", pids, want)
	}
}

const tasklistFixture = `
Image Name                     PID Session Name        Session#    Mem Usage
========================= ======== ================ =========== ============
node.exe                      4321 Console                    1     64,364 K
`

func TestParseTasklistImage(t *testing.T) {
	if got := ParseTasklistImage(tasklistFixture); got != "node.exe" {
		t.Errorf("image: got %q, want node.exe", got)
	}
}

func TestParseTasklistImage_NoDataRow(t *testing.T) {
	// tasklist prints a single info line when the filter matches nothing.
	single := "INFO: No tasks are running which match the specified criteria.\n"
	if got := ParseTasklistImage(single); got != "" {
		t.Errorf("image: got %q, want empty for info-only output", got)
	}
	if got := ParseTasklistImage(""); got != "" {
		t.Errorf("image: got %q, want empty", got)
	}
}

func TestNetstatScanner_FindByPort(t *testing.T) {
	runner := &MultiMockCmdRunner{
		Responses: map[string]MockResponse{
			"netstat -ano":                {Output: []byte(netstatAnoFixture)},
			"tasklist /FI PID eq 4321":    {Output: []byte(tasklistFixture)},
		},
	}

	s := NewNetstatScanner(runner)
	entries, err := s.FindByPort(context.Background(), 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []ProcessEntry{{PID: 4321, Command: "node.exe"}}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("entries: got %v, want %v", entries, want)
	}
}

func TestNetstatScanner_TasklistFailure(t *testing.T) {
	runner := &MultiMockCmdRunner{
		Responses: map[string]MockResponse{
			"netstat -ano":             {Output: []byte(netstatAnoFixture)},
			"tasklist /FI PID eq 4321": {Err: errors.New("tasklist unavailable")},
		},
	}

	s := NewNetstatScanner(runner)
	entries, err := s.FindByPort(context.Background(), 3000)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 || entries[0].Command != UnknownCommand {
		t.Errorf("entries: got %v, want one unknown-command entry", entries)
	}
}

func TestNetstatScanner_NetstatFailure(t *testing.T) {
	runner := &MockCmdRunner{Err: errors.New("netstat unavailable")}
	s := NewNetstatScanner(runner)

	if _, err := s.FindByPort(context.Background(), 3000); err == nil {
		t.Fatal("expected an error when netstat itself fails")
	}
}
