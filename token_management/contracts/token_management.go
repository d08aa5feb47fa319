package contracts

import "io"

type ITokenManagement interface {
	CountTokens(text string) int
	UsedTokens(tokens int)
	DisplayTokens(w io.Writer, tokens int)
	GetCurrentTokenUsage() int
	ClearToken()
}
