package menu

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	collectorcontracts "github.com/meysamhadeli/aibundle/collector/contracts"
	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/conversation"
	conversationcontracts "github.com/meysamhadeli/aibundle/conversation/contracts"
	"github.com/meysamhadeli/aibundle/conversation/models"
	exportercontracts "github.com/meysamhadeli/aibundle/exporter/contracts"
	"github.com/meysamhadeli/aibundle/menu/contracts"
	"github.com/meysamhadeli/aibundle/snapshot"
	snapshotcontracts "github.com/meysamhadeli/aibundle/snapshot/contracts"
	tokencontracts "github.com/meysamhadeli/aibundle/token_management/contracts"
	"github.com/meysamhadeli/aibundle/utils"
)

// ErrInputClosed is returned by Run when standard input ends before the exit choice.
var ErrInputClosed = errors.New("input closed")

const menuTitle = "AI Programming Assistant"

const menuOptions = "1. Take a snapshot of the codebase\n" +
	"2. View codebase snapshot\n" +
	"3. Add human message to conversation\n" +
	"4. Add AI response to conversation\n" +
	"5. View conversation\n" +
	"6. Export codebase and conversation for AI\n" +
	"7. Exit\n"

const choicePrompt = "Enter your choice: "

// Dependencies are the components the menu dispatches to.
type Dependencies struct {
	Root            string
	Collector       collectorcontracts.IFileTreeCollector
	Snapshots       snapshotcontracts.ISnapshotStore
	Conversation    conversationcontracts.IConversationLog
	Exporter        exportercontracts.IExportAssembler
	TokenManagement tokencontracts.ITokenManagement
	// Render prints snapshot and conversation dumps. Nil prints them as is.
	Render func(w io.Writer, text string) error
}

type Controller struct {
	in   *bufio.Reader
	out  io.Writer
	deps Dependencies
}

func NewController(in io.Reader, out io.Writer, deps Dependencies) contracts.IMenuController {
	reader, ok := in.(*bufio.Reader)
	if !ok {
		reader = bufio.NewReader(in)
	}
	return &Controller{in: reader, out: out, deps: deps}
}

// Run shows the menu until the exit choice, which returns nil.
func (c *Controller) Run(ctx context.Context) error {
	for {
		fmt.Fprint(c.out, "\n"+lipgloss.Title.Render(menuTitle)+"\n"+menuOptions)
		fmt.Fprint(c.out, lipgloss.BlueSky.Render(choicePrompt))

		line, err := utils.ReadLineWithContext(ctx, c.in)
		if err != nil {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(c.out)
				return ErrInputClosed
			}
			return err
		}

		switch strings.TrimSpace(line) {
		case "1":
			err = c.snapshotCodebase()
		case "2":
			err = c.viewSnapshot()
		case "3":
			err = c.addToConversation(ctx, models.RoleHuman)
		case "4":
			err = c.addToConversation(ctx, models.RoleAI)
		case "5":
			err = c.viewConversation()
		case "6":
			err = c.export()
		case "7":
			c.println(lipgloss.Green, "Exiting the program. Goodbye!")
			return nil
		default:
			c.println(lipgloss.Red, "Invalid choice. Please try again.")
		}

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			c.println(lipgloss.Red, err.Error())
		}
	}
}

func (c *Controller) snapshotCodebase() error {
	result, err := c.deps.Collector.Collect(c.deps.Root)
	if err != nil {
		return fmt.Errorf("failed to collect files: %w", err)
	}

	if err := c.deps.Snapshots.Save(result.Sections); err != nil {
		return err
	}

	c.println(lipgloss.Green, fmt.Sprintf("Codebase snapshot saved to %s", c.displayPath(c.deps.Snapshots.Path())))
	if len(result.Warnings) > 0 {
		c.println(lipgloss.Yellow, fmt.Sprintf("Skipped %d unreadable entries.", len(result.Warnings)))
	}
	return nil
}

func (c *Controller) viewSnapshot() error {
	content, err := c.deps.Snapshots.Load()
	if errors.Is(err, snapshot.ErrNotFound) {
		c.println(lipgloss.Yellow, "No codebase snapshot available. Take a snapshot first.")
		return nil
	}
	if err != nil {
		return err
	}
	return c.render(content)
}

func (c *Controller) addToConversation(ctx context.Context, role models.Role) error {
	prompt := "Enter your message: "
	if role == models.RoleAI {
		prompt = "Enter AI's response: "
	}
	fmt.Fprint(c.out, lipgloss.BlueSky.Render(prompt))

	message, err := c.deps.Conversation.ReadMessage(ctx, c.in)
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}

	if err := c.deps.Conversation.Append(role, message); err != nil {
		return err
	}

	c.println(lipgloss.Green, "Message added to the conversation.")
	return nil
}

func (c *Controller) viewConversation() error {
	content, err := c.deps.Conversation.ReadAll()
	if errors.Is(err, conversation.ErrNotFound) {
		c.println(lipgloss.Yellow, "No conversation recorded yet.")
		return nil
	}
	if err != nil {
		return err
	}
	return c.render(content)
}

func (c *Controller) export() error {
	path, document, err := c.deps.Exporter.Export()
	if err != nil {
		return err
	}

	c.println(lipgloss.Green, fmt.Sprintf("Exported conversation and codebase to %s", c.displayPath(path)))

	if c.deps.TokenManagement != nil {
		tokens := c.deps.TokenManagement.CountTokens(document)
		c.deps.TokenManagement.UsedTokens(tokens)
		c.deps.TokenManagement.DisplayTokens(c.out, tokens)
	}
	return nil
}

func (c *Controller) render(text string) error {
	if c.deps.Render != nil {
		return c.deps.Render(c.out, text)
	}
	_, err := io.WriteString(c.out, text)
	return err
}

type style interface {
	Render(strs ...string) string
}

// println renders a single line; multi-line text must not go through a style.
func (c *Controller) println(s style, message string) {
	fmt.Fprintln(c.out, s.Render(message))
}

func (c *Controller) displayPath(path string) string {
	relative, err := filepath.Rel(c.deps.Root, path)
	if err != nil || strings.HasPrefix(relative, "..") {
		return path
	}
	return filepath.ToSlash(relative)
}
