package conversation

import (
	"bufio"
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/meysamhadeli/aibundle/conversation/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedClock(times ...time.Time) func() time.Time {
	i := 0
	return func() time.Time {
		now := times[i]
		if i < len(times)-1 {
			i++
		}
		return now
	}
}

func TestRole(t *testing.T) {
	assert.Equal(t, "Human", models.RoleHuman.Label())
	assert.Equal(t, "Ai", models.RoleAI.Label())

	role, err := models.ParseRole(" AI ")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAI, role)

	_, err = models.ParseRole("robot")
	assert.Error(t, err)
}

func TestLog_ReadAllMissing(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "ai_conversation.txt"), nil)

	_, err := log.ReadAll()
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = log.Entries()
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLog_AppendKeepsBothEntriesInOrder(t *testing.T) {
	first := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	second := first.Add(90 * time.Second)
	log := NewLog(filepath.Join(t.TempDir(), "ai_conversation.txt"), fixedClock(first, second))

	require.NoError(t, log.Append(models.RoleHuman, "hello\n"))
	require.NoError(t, log.Append(models.RoleAI, "world\n"))

	content, err := log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 09:30:00 - Human:\nhello\n\n2024-03-01 09:31:30 - Ai:\nworld\n\n", content)

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, models.Entry{Timestamp: first, Role: models.RoleHuman, Body: "hello\n"}, entries[0])
	assert.Equal(t, models.Entry{Timestamp: second, Role: models.RoleAI, Body: "world\n"}, entries[1])
}

func TestLog_AppendWithoutTrailingNewline(t *testing.T) {
	first := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)
	log := NewLog(filepath.Join(t.TempDir(), "ai_conversation.txt"), fixedClock(first, first.Add(time.Second)))

	require.NoError(t, log.Append(models.RoleHuman, "hello"))
	require.NoError(t, log.Append(models.RoleAI, "world"))

	content, err := log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, "2024-03-01 09:30:00 - Human:\nhello\n\n2024-03-01 09:30:01 - Ai:\nworld\n\n", content)

	entries, err := log.Entries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "hello\n", entries[0].Body)
	assert.Equal(t, "world\n", entries[1].Body)
}

func TestFormatEntry_EmptyBody(t *testing.T) {
	timestamp := time.Date(2024, 3, 1, 9, 30, 0, 0, time.Local)

	assert.Equal(t, "2024-03-01 09:30:00 - Human:\n\n", FormatEntry(timestamp, models.RoleHuman, ""))
}

func TestLog_ReadMessageStopsAtSentinel(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "ai_conversation.txt"), nil)
	reader := bufio.NewReader(strings.NewReader("line one\nline two\n  EOF  \nafter\n"))

	message, err := log.ReadMessage(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", message)

	rest, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "after\n", rest)
}

func TestLog_ReadMessageSentinelMustBeWholeLine(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "ai_conversation.txt"), nil)
	reader := bufio.NewReader(strings.NewReader("EOF is a word\nEOF\n"))

	message, err := log.ReadMessage(context.Background(), reader)
	require.NoError(t, err)
	assert.Equal(t, "EOF is a word\n", message)
}

func TestLog_ReadMessageEndOfInput(t *testing.T) {
	log := NewLog(filepath.Join(t.TempDir(), "ai_conversation.txt"), nil)

	message, err := log.ReadMessage(context.Background(), bufio.NewReader(strings.NewReader("partial")))
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, "partial", message)
}

func TestParseEntries_IgnoresLeadingText(t *testing.T) {
	entries := ParseEntries("notes\n2024-01-02 03:04:05 - Ai:\nanswer\n")

	require.Len(t, entries, 1)
	assert.Equal(t, models.RoleAI, entries[0].Role)
	assert.Equal(t, "answer", entries[0].Body)
}
