package commands

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNoInput = errors.New("no input")

func (a *App) lineReader() *bufio.Reader {
	if a.reader == nil {
		a.reader = bufio.NewReader(a.In)
	}
	return a.reader
}

// prompt asks for a value on the app input. An empty answer yields def.
func (a *App) prompt(label, def string) (string, error) {
	if def != "" {
		fmt.Fprintf(a.Out, "%s [%s]: ", label, def)
	} else {
		fmt.Fprintf(a.Out, "%s: ", label)
	}

	line, err := a.lineReader().ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read %s: %w", strings.ToLower(label), err)
	}
	if errors.Is(err, io.EOF) && line == "" {
		fmt.Fprintln(a.Out)
		return "", fmt.Errorf("%s: %w", label, errNoInput)
	}

	line = strings.TrimSpace(line)
	if line == "" {
		return def, nil
	}
	return line, nil
}

// require keeps value when set, otherwise prompts until a non-empty answer.
func (a *App) require(value *string, label string) error {
	for strings.TrimSpace(*value) == "" {
		v, err := a.prompt(label, "")
		if err != nil {
			return err
		}
		*value = v
	}
	return nil
}

// optional prompts once for value unless skip is set or it is already filled.
func (a *App) optional(value *string, label string, skip bool) error {
	if skip || *value != "" {
		return nil
	}
	v, err := a.prompt(label, "")
	if err != nil {
		return err
	}
	*value = v
	return nil
}

// confirm asks a yes/no question; anything but y or yes is a no.
func (a *App) confirm(question string) (bool, error) {
	answer, err := a.prompt(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
