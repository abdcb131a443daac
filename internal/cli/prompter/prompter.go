package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Prompter reads answers line by line from one input
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter reading from in and printing labels to out
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Stdio returns a prompter bound to the process's stdin and stdout
func Stdio() *Prompter {
	return New(os.Stdin, os.Stdout)
}

// PromptString prompts for a single trimmed line.
// io.EOF is returned when input ends before any text was read.
func (p *Prompter) PromptString(label string) (string, error) {
	fmt.Fprint(p.out, label)
	input, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || input == "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}

// PromptConfirm prompts for yes/no confirmation
func (p *Prompter) PromptConfirm(label string) (bool, error) {
	input, err := p.PromptString(label + " (y/n) ")
	if err != nil {
		return false, err
	}
	response := strings.ToLower(input)
	return response == "y" || response == "yes", nil
}

// PromptInt prompts for a whole number in [min, max]
func (p *Prompter) PromptInt(label string, min, max int) (int, error) {
	input, err := p.PromptString(label)
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", input)
	}
	if n < min || n > max {
		return 0, fmt.Errorf("%d is out of range (%d-%d)", n, min, max)
	}
	return n, nil
}

// PromptMultilineString reads lines until an empty line or maxLines lines
func (p *Prompter) PromptMultilineString(label string, maxLines int) (string, error) {
	fmt.Fprintf(p.out, "%s (finish with an empty line):\n", label)

	var lines []string
	for i := 0; i < maxLines; i++ {
		line, err := p.in.ReadString('\n')
		trimmed := strings.TrimRight(line, "\r\n")
		if trimmed != "" {
			lines = append(lines, trimmed)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if trimmed == "" {
			break
		}
	}

	return strings.Join(lines, "\n"), nil
}
