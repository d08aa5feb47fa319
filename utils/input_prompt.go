package utils

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/meysamhadeli/aibundle/constants/lipgloss"
)

// ReadLineWithContext reads one line, newline included, and gives up when ctx is cancelled.
// A final line without a newline is returned as is; io.EOF is only reported once the input is drained.
func ReadLineWithContext(ctx context.Context, reader *bufio.Reader) (string, error) {
	if ctx.Done() == nil {
		return readLine(reader)
	}

	type lineResult struct {
		line string
		err  error
	}
	resultChan := make(chan lineResult, 1)

	go func() {
		line, err := readLine(reader)
		resultChan <- lineResult{line: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case result := <-resultChan:
		return result.line, result.err
	}
}

func readLine(reader *bufio.Reader) (string, error) {
	line, err := reader.ReadString('\n')
	if err == io.EOF && line != "" {
		return line, nil
	}
	if err != nil {
		return "", err
	}
	return line, nil
}

// ConfirmPrompt asks a yes/no question and reports whether the answer was y or yes.
func ConfirmPrompt(w io.Writer, question string, reader *bufio.Reader) (bool, error) {
	fmt.Fprint(w, lipgloss.BlueSky.Render(fmt.Sprintf("%s (y/N): ", question)))

	answer, err := readLine(reader)
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("error reading input: %w", err)
	}

	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes", nil
}
