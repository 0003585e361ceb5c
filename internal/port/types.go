package port

import "fmt"

// UnknownCommand is reported when a PID's command name cannot be resolved.
const UnknownCommand = "unknown"

// ProcessEntry is one process found holding a port. Command is best
// effort; discovery falls back to UnknownCommand when name lookup fails.
type ProcessEntry struct {
	PID     int
	Command string
}

// String returns a human-readable representation of the entry.
func (e ProcessEntry) String() string {
	return fmt.Sprintf("%s (PID %d)", e.Command, e.PID)
}
