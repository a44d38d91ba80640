// Package prompt implements the blocking confirmation gates of an import.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"import-buddy/internal/console"
)

// Recognized confirmation tokens, compared case-insensitively.
const (
	TokenConfirm = "y"
	TokenReject  = "n"
)

// ErrNoInput is returned when input ends before a recognized response.
var ErrNoInput = errors.New("input closed before a response was given")

// InputError describes an unrecognized operator response.
type InputError struct {
	Input string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("unrecognized response %q", e.Input)
}

// Provider asks the operator to confirm an action or choose an option.
// Both calls block until a recognized response is read.
type Provider interface {
	Confirm(question, rejectHint string) (bool, error)
	Select(question string, options []string) (int, error)
}

// Terminal reads responses line by line from an input stream.
type Terminal struct {
	in  *bufio.Reader
	con *console.Console
}

var _ Provider = (*Terminal)(nil)

func NewTerminal(in io.Reader, con *console.Console) *Terminal {
	return &Terminal{in: bufio.NewReader(in), con: con}
}

// Script returns a Terminal that answers from the given lines, in order.
func Script(con *console.Console, lines ...string) *Terminal {
	return NewTerminal(strings.NewReader(strings.Join(lines, "\n")+"\n"), con)
}

func (t *Terminal) readLine() (string, error) {
	t.con.Prompt()
	line, err := t.in.ReadString('\n')
	if errors.Is(err, io.EOF) && line != "" {
		err = nil
	}
	if errors.Is(err, io.EOF) {
		return "", ErrNoInput
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm asks a yes/no question. rejectHint completes the re-prompt text
// ("enter N to ...").
func (t *Terminal) Confirm(question, rejectHint string) (bool, error) {
	t.con.Info("%s (y/N)", question)
	for {
		line, err := t.readLine()
		if err != nil {
			return false, err
		}
		answer, err := parseConfirm(line)
		if err == nil {
			return answer, nil
		}
		t.con.Invalid("please enter %q to confirm or %q to %s", TokenConfirm, strings.ToUpper(TokenReject), rejectHint)
	}
}

func parseConfirm(line string) (bool, error) {
	switch strings.ToLower(line) {
	case TokenConfirm:
		return true, nil
	case TokenReject:
		return false, nil
	default:
		return false, &InputError{Input: line}
	}
}

// Select lists options numbered from 1 and returns the 0-based index chosen.
func (t *Terminal) Select(question string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, errors.New("nothing to select from")
	}
	t.con.Options(options)
	t.con.Info("%s", question)
	for {
		line, err := t.readLine()
		if err != nil {
			return 0, err
		}
		idx, err := parseSelection(line, len(options))
		if err == nil {
			return idx, nil
		}
		t.con.Invalid("please enter a valid option displayed above")
	}
}

func parseSelection(line string, n int) (int, error) {
	choice, err := strconv.Atoi(line)
	if err != nil || choice < 1 || choice > n || strconv.Itoa(choice) != line {
		return 0, &InputError{Input: line}
	}
	return choice - 1, nil
}
