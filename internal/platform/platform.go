// Package platform identifies the host OS family once at startup so the
// rest of the program can branch on an explicit value instead of reading
// runtime.GOOS at arbitrary call sites.
package platform

import (
	"fmt"
	"runtime"
)

// Platform is the discovery strategy family for the host OS.
type Platform int

const (
	// Darwin covers macOS and the BSDs: lsof is the only usable source,
	// since their netstat output carries no PID column.
	Darwin Platform = iota
	// Linux has lsof plus a netstat fallback that does expose PIDs.
	Linux
	// Windows uses netstat -ano with tasklist name lookups.
	Windows
)

// String returns the platform name for diagnostics.
func (p Platform) String() string {
	switch p {
	case Darwin:
		return "darwin"
	case Linux:
		return "linux"
	case Windows:
		return "windows"
	default:
		return fmt.Sprintf("platform(%d)", int(p))
	}
}

// Detect maps the compiled GOOS to a Platform. Any OS without a known
// discovery strategy is a hard error; there is nothing sensible to fall
// back to.
func Detect() (Platform, error) {
	return detect(runtime.GOOS)
}

func detect(goos string) (Platform, error) {
	switch goos {
	case "darwin", "freebsd", "openbsd", "netbsd":
		return Darwin, nil
	case "linux":
		return Linux, nil
	case "windows":
		return Windows, nil
	default:
		return 0, fmt.Errorf("unsupported platform: %s", goos)
	}
}
