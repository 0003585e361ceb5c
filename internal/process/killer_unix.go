//go:build !windows

package process

import (
	"context"
	"fmt"
	"strconv"
	"syscall"
)

// kill sends SIGKILL directly; if signal delivery fails for any reason,
// it falls back to the external kill utility before giving up.
func (k *RealKiller) kill(ctx context.Context, pid int) error {
	err := syscall.Kill(pid, syscall.SIGKILL)
	if err == nil {
		return nil
	}

	if _, fallbackErr := k.runner.Run(ctx, "kill", "-9", strconv.Itoa(pid)); fallbackErr != nil {
		return fmt.Errorf("failed to kill PID %d: %w (kill utility: %v)", pid, err, fallbackErr)
	}
	return nil
}
