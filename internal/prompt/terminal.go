package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"golang.org/x/term"

	apperrors "rds-snapshot-copy/internal/errors"
)

// terminalPrompter reads answers line-by-line from an input stream
type terminalPrompter struct {
	reader    *bufio.Reader
	writer    io.Writer
	useColors bool
	width     int
}

// NewTerminalPrompter creates a Prompter bound to stdin/stdout
func NewTerminalPrompter(useColors bool) Prompter {
	width := 0
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width = w
	}
	return &terminalPrompter{
		reader:    bufio.NewReader(os.Stdin),
		writer:    os.Stdout,
		useColors: useColors,
		width:     width,
	}
}

// NewPrompterWithStreams creates a Prompter over explicit streams. Used by
// tests.
func NewPrompterWithStreams(in io.Reader, out io.Writer) Prompter {
	return &terminalPrompter{
		reader: bufio.NewReader(in),
		writer: out,
	}
}

// Choose presents a numbered option list and returns the selected option.
// Invalid input re-prompts; EOF or an interrupt cancels.
func (p *terminalPrompter) Choose(question string, options []string) (string, error) {
	fmt.Fprintln(p.writer, p.bold(question))
	for i, option := range options {
		fmt.Fprintf(p.writer, "  %2d) %s\n", i+1, p.truncate(option))
	}

	for {
		fmt.Fprint(p.writer, p.bold(fmt.Sprintf("Enter a number [1-%d]: ", len(options))))

		input, err := p.readLine()
		if err != nil {
			return "", err
		}

		if idx, convErr := strconv.Atoi(input); convErr == nil {
			if idx >= 1 && idx <= len(options) {
				return options[idx-1], nil
			}
			fmt.Fprintf(p.writer, "Choice %d is out of range.\n", idx)
			continue
		}

		// Typing the option text verbatim also selects it.
		for _, option := range options {
			if input == option {
				return option, nil
			}
		}

		fmt.Fprintf(p.writer, "Invalid choice %q.\n", input)
	}
}

// Confirm asks a yes/no question, defaulting to no
func (p *terminalPrompter) Confirm(question string) (bool, error) {
	for {
		fmt.Fprint(p.writer, p.bold(question+" [y/N]: "))

		input, err := p.readLine()
		if err != nil {
			return false, err
		}

		switch strings.ToLower(input) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		default:
			fmt.Fprintf(p.writer, "Invalid input %q. Please enter 'y' or 'n'.\n", input)
		}
	}
}

// readLine reads one answer, racing the read against an interrupt signal so
// Ctrl-C cancels the prompt instead of killing the process mid-read.
func (p *terminalPrompter) readLine() (string, error) {
	interruptChan := make(chan os.Signal, 1)
	signal.Notify(interruptChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(interruptChan)

	inputChan := make(chan string, 1)
	errorChan := make(chan error, 1)

	go func() {
		line, err := p.reader.ReadString('\n')
		if err != nil {
			errorChan <- err
			return
		}
		inputChan <- line
	}()

	select {
	case <-interruptChan:
		fmt.Fprintln(p.writer)
		return "", apperrors.ErrPromptCancelled
	case err := <-errorChan:
		if err == io.EOF {
			return "", apperrors.ErrPromptCancelled
		}
		return "", fmt.Errorf("failed to read input: %w", err)
	case line := <-inputChan:
		return strings.TrimSpace(line), nil
	}
}

func (p *terminalPrompter) bold(text string) string {
	if !p.useColors {
		return text
	}
	return color.New(color.Bold).Sprint(text)
}

// truncate keeps option lines inside the terminal width
func (p *terminalPrompter) truncate(option string) string {
	const indent = 6
	if p.width <= indent || len(option)+indent <= p.width {
		return option
	}
	if p.width-indent-3 < 1 {
		return option
	}
	return option[:p.width-indent-3] + "..."
}
