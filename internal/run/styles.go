package run

import "github.com/charmbracelet/lipgloss"

// Styles renders the controller's output lines. Each function takes the
// plain message and returns the string to print.
type Styles struct {
	Port    func(string) string // port header line
	Entry   func(string) string // numbered process line
	Success func(string) string
	Failure func(string) string
	Notice  func(string) string // "no process found" and similar
}

// PlainStyles returns identity rendering, used in tests and when stdout
// is not a terminal.
func PlainStyles() Styles {
	id := func(s string) string { return s }
	return Styles{Port: id, Entry: id, Success: id, Failure: id, Notice: id}
}

// ColorStyles returns the lipgloss-rendered styles for terminal output.
func ColorStyles() Styles {
	var (
		portStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6"))
		entryStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
		successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
		failureStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("1"))
		noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	)
	render := func(st lipgloss.Style) func(string) string {
		return func(s string) string { return st.Render(s) }
	}
	return Styles{
		Port:    render(portStyle),
		Entry:   render(entryStyle),
		Success: render(successStyle),
		Failure: render(failureStyle),
		Notice:  render(noticeStyle),
	}
}
