// Package prompter answers grant and pick questions on a terminal.
package prompter

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/reglet-dev/sysdialog/domain/entities"
	"github.com/reglet-dev/sysdialog/domain/ports"
)

var _ ports.Prompter = (*CliPrompter)(nil)

// CliPrompter implements ports.Prompter for CLI environments.
// All reads share one scanner, so the prompter can also serve a command loop.
type CliPrompter struct {
	in      io.Reader
	out     io.Writer
	scanner *bufio.Scanner
}

// NewCliPrompter creates a new CliPrompter.
func NewCliPrompter(in io.Reader, out io.Writer) *CliPrompter {
	return &CliPrompter{in: in, out: out, scanner: bufio.NewScanner(in)}
}

// IsInteractive checks if the input is a terminal.
func (p *CliPrompter) IsInteractive() bool {
	if f, ok := p.in.(*os.File); ok {
		stat, err := f.Stat()
		if err != nil {
			return false
		}
		return (stat.Mode() & os.ModeCharDevice) != 0
	}
	return false
}

// ReadLine prints prompt and returns the next trimmed input line.
// It returns io.EOF when the input is exhausted.
func (p *CliPrompter) ReadLine(prompt string) (string, error) {
	if prompt != "" {
		_, _ = fmt.Fprint(p.out, prompt)
	}
	if p.scanner.Scan() {
		return strings.TrimSpace(p.scanner.Text()), nil
	}
	if err := p.scanner.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// PromptForCapability asks the user to grant a single capability.
func (p *CliPrompter) PromptForCapability(c entities.Capability) (bool, error) {
	text, err := p.ReadLine(fmt.Sprintf("Allow %s? [y/n]: ", c.Name))
	if err != nil {
		return false, err
	}
	return isYes(text), nil
}

// PromptForCapabilities asks about caps as a group, or one by one on "each".
// Anything else, including end of input, denies.
func (p *CliPrompter) PromptForCapabilities(caps []entities.Capability) ([]bool, error) {
	results := make([]bool, len(caps))
	if len(caps) == 0 {
		return results, nil
	}

	_, _ = fmt.Fprintf(p.out, "Storage access requires the following permissions:\n")
	for _, c := range caps {
		_, _ = fmt.Fprintf(p.out, "- %s\n", c.Name)
	}

	text, err := p.ReadLine("Grant all? [y/n/each]: ")
	if err == io.EOF {
		// Default deny
		return results, nil
	}
	if err != nil {
		return nil, err
	}

	switch strings.ToLower(text) {
	case "y", "yes":
		for i := range results {
			results[i] = true
		}
	case "e", "each":
		for i, c := range caps {
			granted, err := p.PromptForCapability(c)
			if err == io.EOF {
				break
			}
			if err != nil {
				return nil, err
			}
			results[i] = granted
		}
	}
	return results, nil
}

// PromptForHandle asks for a path or document URI. Empty input cancels.
func (p *CliPrompter) PromptForHandle(kind entities.ActionKind, preferredName string) (entities.ResourceHandle, error) {
	var prompt string
	switch kind {
	case entities.OpenFile:
		prompt = "File to open"
	case entities.SaveFile:
		prompt = "Save as"
		if preferredName != "" {
			prompt += fmt.Sprintf(" (suggested %q)", preferredName)
		}
	case entities.OpenFolder:
		prompt = "Folder to open"
	case entities.SaveFolder:
		prompt = "Folder to save into"
	default:
		return "", fmt.Errorf("cannot prompt for %s", kind)
	}

	text, err := p.ReadLine(prompt + " [empty to cancel]: ")
	if err == io.EOF {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return entities.ResourceHandle(text), nil
}

func isYes(text string) bool {
	switch strings.ToLower(text) {
	case "y", "yes":
		return true
	default:
		return false
	}
}
