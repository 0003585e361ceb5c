// Package process implements the termination primitive: forcefully kill
// a single PID, with a subprocess fallback on Unix when direct signal
// delivery fails.
package process

import (
	"context"
	"fmt"
	"os"

	gops "github.com/shirou/gopsutil/v4/process"

	"github.com/tejaswankalluri/portclean/internal/port"
)

// Killer terminates a single process by PID.
type Killer interface {
	Kill(ctx context.Context, pid int) error
}

// RealKiller implements Killer against the host OS. It refuses to touch
// protected PIDs (the idle/init processes, our own PID, and anything the
// user listed in config).
type RealKiller struct {
	runner    port.CmdRunner
	protected map[int]bool

	// pidExists is swappable for tests; defaults to gopsutil, which is
	// reliable across platforms where signal-0 probing is not.
	pidExists func(pid int32) (bool, error)
}

// NewRealKiller creates a process killer. extraProtected holds PIDs the
// user configured as off limits, on top of the built-in set.
func NewRealKiller(runner port.CmdRunner, extraProtected []int) *RealKiller {
	protected := map[int]bool{
		0:           true,
		1:           true,
		os.Getpid(): true,
	}
	for _, pid := range extraProtected {
		protected[pid] = true
	}
	return &RealKiller{
		runner:    runner,
		protected: protected,
		pidExists: gops.PidExists,
	}
}

// Kill forcefully terminates the process. Guard checks run first so the
// platform primitive only ever sees a live, killable PID.
func (k *RealKiller) Kill(ctx context.Context, pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid PID %d", pid)
	}
	if k.protected[pid] {
		return fmt.Errorf("refusing to kill protected PID %d", pid)
	}
	if running, err := k.pidExists(int32(pid)); err == nil && !running {
		return fmt.Errorf("process %d is not running", pid)
	}
	return k.kill(ctx, pid)
}
