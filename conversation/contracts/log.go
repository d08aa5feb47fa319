package contracts

import (
	"bufio"
	"context"

	"github.com/meysamhadeli/aibundle/conversation/models"
)

type IConversationLog interface {
	Append(role models.Role, body string) error
	ReadAll() (string, error)
	Entries() ([]models.Entry, error)
	ReadMessage(ctx context.Context, reader *bufio.Reader) (string, error)
	Path() string
}
