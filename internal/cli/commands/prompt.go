package commands

import (
	"errors"
	"fmt"
	"os"

	"github.com/manifoldco/promptui"
	"golang.org/x/term"
)

// ErrNonInteractive is returned when input is needed but stdin is not a terminal
var ErrNonInteractive = errors.New("stdin is not a terminal")

// prompter asks the operator for input the flags did not provide
type prompter interface {
	Password(label string) (string, error)
	Select(label string, items []string) (string, error)
}

// terminalPrompter reads from the controlling terminal
type terminalPrompter struct{}

func (terminalPrompter) Password(label string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNonInteractive
	}

	fmt.Fprintf(os.Stderr, "%s: ", label)
	bytePassword, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr) // New line after password input
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(bytePassword), nil
}

func (terminalPrompter) Select(label string, items []string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", ErrNonInteractive
	}

	templates := &promptui.SelectTemplates{
		Label:    "{{ . }}",
		Active:   "> {{ . | cyan }}",
		Inactive: "  {{ . }}",
		Selected: "{{ . | green }}",
	}

	prompt := promptui.Select{
		Label:     label,
		Items:     items,
		Templates: templates,
		Size:      len(items),
	}

	_, choice, err := prompt.Run()
	if err != nil {
		return "", fmt.Errorf("selection cancelled: %w", err)
	}
	return choice, nil
}
