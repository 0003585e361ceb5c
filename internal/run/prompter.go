package run

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Prompter asks a single yes/no question. It is a one-method capability
// so the controller can be tested with injected answers.
type Prompter interface {
	Confirm(prompt string) bool
}

// StdinPrompter reads answers line by line from an input stream.
//
// Polarity is default-yes when DefaultYes is set: a blank answer counts
// as confirmation, matching the "(Y/n)" prompt text. EOF always counts
// as a decline, so a closed stdin never kills anything.
type StdinPrompter struct {
	out        io.Writer
	reader     *bufio.Reader
	defaultYes bool
}

// NewStdinPrompter creates a prompter reading from in and echoing
// prompts to out.
func NewStdinPrompter(in io.Reader, out io.Writer, defaultYes bool) *StdinPrompter {
	return &StdinPrompter{
		out:        out,
		reader:     bufio.NewReader(in),
		defaultYes: defaultYes,
	}
}

// Confirm prints the prompt and interprets the next input line.
// Affirmative answers are "y" and "yes", case-insensitive; a blank line
// follows the configured default; everything else declines.
func (p *StdinPrompter) Confirm(prompt string) bool {
	fmt.Fprint(p.out, prompt)

	line, err := p.reader.ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	answer := strings.ToLower(strings.TrimSpace(line))
	if answer == "" {
		return p.defaultYes
	}
	return answer == "y" || answer == "yes"
}

// FakePrompter returns scripted answers for testing and records every
// prompt it was asked.
type FakePrompter struct {
	Answers []bool
	Prompts []string
}

// Confirm records the prompt and pops the next scripted answer, or
// declines once the script runs out.
func (f *FakePrompter) Confirm(prompt string) bool {
	f.Prompts = append(f.Prompts, prompt)
	if len(f.Answers) == 0 {
		return false
	}
	answer := f.Answers[0]
	f.Answers = f.Answers[1:]
	return answer
}
