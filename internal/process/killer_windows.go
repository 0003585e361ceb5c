//go:build windows

package process

import (
	"context"
	"fmt"
	"strconv"
)

// kill invokes taskkill with the force flag. There is no secondary
// mechanism on Windows.
func (k *RealKiller) kill(ctx context.Context, pid int) error {
	if _, err := k.runner.Run(ctx, "taskkill", "/PID", strconv.Itoa(pid), "/F"); err != nil {
		return fmt.Errorf("failed to kill PID %d: %w", pid, err)
	}
	return nil
}
