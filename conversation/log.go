package conversation

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/meysamhadeli/aibundle/conversation/contracts"
	"github.com/meysamhadeli/aibundle/conversation/models"
	"github.com/meysamhadeli/aibundle/utils"
)

const (
	// TimestampLayout is the format of the timestamp that opens every entry.
	TimestampLayout = "2006-01-02 15:04:05"
	// Sentinel ends a multi-line message when it is alone on a line.
	Sentinel = "EOF"
)

// ErrNotFound is returned when the conversation log does not exist yet.
var ErrNotFound = errors.New("conversation log not found")

var entryHeaderPattern = regexp.MustCompile(`(?m)^(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}) - (Human|Ai):\n`)

// Log is an append-only conversation transcript stored in a single file.
type Log struct {
	path  string
	clock func() time.Time
}

// NewLog creates a log stored at path. A nil clock means time.Now.
func NewLog(path string, clock func() time.Time) contracts.IConversationLog {
	if clock == nil {
		clock = time.Now
	}
	return &Log{path: path, clock: clock}
}

// FormatEntry renders an entry the way it is appended to the log: header, body ending in a newline,
// then one blank line. An empty body is kept empty.
func FormatEntry(timestamp time.Time, role models.Role, body string) string {
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}
	return fmt.Sprintf("%s - %s:\n%s\n", timestamp.Format(TimestampLayout), role.Label(), body)
}

func (l *Log) Append(role models.Role, body string) error {
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open conversation log: %w", err)
	}

	if _, err := file.WriteString(FormatEntry(l.clock(), role, body)); err != nil {
		file.Close()
		return fmt.Errorf("failed to append to conversation log: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close conversation log: %w", err)
	}
	return nil
}

func (l *Log) ReadAll() (string, error) {
	content, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read conversation log: %w", err)
	}
	return string(content), nil
}

// Entries parses the log back into its entries. Text before the first entry header is ignored.
func (l *Log) Entries() ([]models.Entry, error) {
	content, err := l.ReadAll()
	if err != nil {
		return nil, err
	}
	return ParseEntries(content), nil
}

// ParseEntries splits log text on entry headers.
func ParseEntries(content string) []models.Entry {
	headers := entryHeaderPattern.FindAllStringSubmatchIndex(content, -1)

	entries := make([]models.Entry, 0, len(headers))
	for i, header := range headers {
		bodyEnd := len(content)
		if i+1 < len(headers) {
			bodyEnd = headers[i+1][0]
		}

		timestamp, _ := time.ParseInLocation(TimestampLayout, content[header[2]:header[3]], time.Local)
		role := models.RoleHuman
		if content[header[4]:header[5]] == models.RoleAI.Label() {
			role = models.RoleAI
		}

		entries = append(entries, models.Entry{
			Timestamp: timestamp,
			Role:      role,
			Body:      strings.TrimSuffix(content[header[1]:bodyEnd], "\n"),
		})
	}
	return entries
}

// ReadMessage reads lines until one whose trimmed content is the sentinel, which is dropped.
// If the input ends first, the lines read so far are returned together with io.EOF.
func (l *Log) ReadMessage(ctx context.Context, reader *bufio.Reader) (string, error) {
	var message strings.Builder

	for {
		line, err := utils.ReadLineWithContext(ctx, reader)
		if err != nil {
			if err == io.EOF {
				return message.String(), io.EOF
			}
			return message.String(), err
		}

		if strings.TrimSpace(line) == Sentinel {
			return message.String(), nil
		}
		message.WriteString(line)
	}
}

func (l *Log) Path() string {
	return l.path
}
