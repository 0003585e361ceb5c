// Package run drives the per-port pipeline: discover, report, confirm,
// kill. It owns the batch-progress guarantee: nothing that goes wrong on
// one port or one process may stop the remaining ones.
package run

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/tejaswankalluri/portclean/internal/history"
	"github.com/tejaswankalluri/portclean/internal/port"
	"github.com/tejaswankalluri/portclean/internal/process"
)

// Options are the run's mode flags, read-only for the whole invocation.
type Options struct {
	Force bool // skip all confirmation
	All   bool // one batch prompt per port instead of per-process prompts
}

// Controller executes the pipeline for each port in sequence.
type Controller struct {
	Scanner  port.Scanner
	Killer   process.Killer
	Prompter Prompter
	Out      io.Writer
	Errout   io.Writer
	Opts     Options
	Styles   Styles

	// History is optional; journal failures never affect the run.
	History *history.Store
}

// Run processes every port in order. Per-port failures are reported with
// the port number and the loop continues.
func (c *Controller) Run(ctx context.Context, ports []int) {
	for _, p := range ports {
		if err := c.HandlePort(ctx, p); err != nil {
			fmt.Fprintf(c.Errout, "%s\n", c.Styles.Failure(fmt.Sprintf("Error handling port %d: %v", p, err)))
		}
	}
}

// HandlePort runs discover -> report -> confirm -> kill for one port.
// Discovery failures degrade to an empty result with a diagnostic, so a
// dead probe looks like a free port rather than aborting the batch.
func (c *Controller) HandlePort(ctx context.Context, p int) error {
	entries, err := c.Scanner.FindByPort(ctx, p)
	if err != nil {
		fmt.Fprintf(c.Errout, "%s\n", c.Styles.Failure(fmt.Sprintf("Discovery failed on port %d: %v", p, err)))
		entries = nil
	}

	if len(entries) == 0 {
		fmt.Fprintf(c.Out, "%s\n", c.Styles.Notice(fmt.Sprintf("No process found on port %d", p)))
		return nil
	}

	fmt.Fprintf(c.Out, "%s\n", c.Styles.Port(fmt.Sprintf("Port %d:", p)))
	for i, e := range entries {
		fmt.Fprintf(c.Out, "  %s\n", c.Styles.Entry(fmt.Sprintf("%d. %s (PID %d)", i+1, e.Command, e.PID)))
	}

	switch {
	case c.Opts.Force:
		for _, e := range entries {
			c.killOne(ctx, p, e)
		}
	case c.Opts.All:
		prompt := fmt.Sprintf("Kill all %d process(es) on port %d? (Y/n) ", len(entries), p)
		if c.Prompter.Confirm(prompt) {
			for _, e := range entries {
				c.killOne(ctx, p, e)
			}
		}
	default:
		// One independent prompt per process; declining one does not
		// block the rest.
		for _, e := range entries {
			prompt := fmt.Sprintf("Kill %s (PID %d)? (Y/n) ", e.Command, e.PID)
			if c.Prompter.Confirm(prompt) {
				c.killOne(ctx, p, e)
			}
		}
	}

	return nil
}

// killOne terminates a single confirmed process and reports the outcome.
// Failures are never fatal to the run.
func (c *Controller) killOne(ctx context.Context, p int, e port.ProcessEntry) {
	event := history.Event{
		Timestamp: time.Now(),
		Port:      p,
		PID:       e.PID,
		Command:   e.Command,
	}

	if err := c.Killer.Kill(ctx, e.PID); err != nil {
		event.Detail = err.Error()
		fmt.Fprintf(c.Errout, "%s\n", c.Styles.Failure(fmt.Sprintf("Failed to kill %s (PID %d): %v", e.Command, e.PID, err)))
	} else {
		event.Killed = true
		fmt.Fprintf(c.Out, "%s\n", c.Styles.Success(fmt.Sprintf("Killed %s (PID %d)", e.Command, e.PID)))
	}

	if c.History != nil {
		_ = c.History.Append(event)
	}
}
