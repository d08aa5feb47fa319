package token_management

import (
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/meysamhadeli/aibundle/constants/lipgloss"
	"github.com/meysamhadeli/aibundle/token_management/contracts"
)

// CharsPerToken is the rough ratio used to estimate how many tokens a text costs.
const CharsPerToken = 4

// TokenManager implementation
type tokenManager struct {
	usedToken int
}

// NewTokenManager creates a new token manager
func NewTokenManager() contracts.ITokenManagement {
	return &tokenManager{
		usedToken: 0,
	}
}

// CountTokens estimates the token count of text, rounding up.
func (tm *tokenManager) CountTokens(text string) int {
	runes := utf8.RuneCountInString(text)
	return (runes + CharsPerToken - 1) / CharsPerToken
}

// UsedTokens accumulates the token count for the session.
func (tm *tokenManager) UsedTokens(tokens int) {
	tm.usedToken += tokens
}

func (tm *tokenManager) DisplayTokens(w io.Writer, tokens int) {
	tokenInfo := fmt.Sprintf("Estimated Tokens: %d - Session Total: %d", tokens, tm.usedToken)

	tokenBox := lipgloss.BoxStyle.Render(tokenInfo)
	fmt.Fprintln(w, tokenBox)
}

func (tm *tokenManager) GetCurrentTokenUsage() int {
	return tm.usedToken
}

func (tm *tokenManager) ClearToken() {
	tm.usedToken = 0
}
