package models

import (
	"fmt"
	"strings"
	"time"
)

// Role tags who wrote a conversation entry.
type Role string

const (
	RoleHuman Role = "human"
	RoleAI    Role = "ai"
)

// ParseRole accepts "human" or "ai" in any case.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleHuman:
		return RoleHuman, nil
	case RoleAI:
		return RoleAI, nil
	default:
		return "", fmt.Errorf("unknown role %q, expected 'human' or 'ai'", value)
	}
}

// Label is the role name as written in the log: "Human" or "Ai".
func (r Role) Label() string {
	if r == "" {
		return ""
	}
	return strings.ToUpper(string(r[:1])) + string(r[1:])
}

// Entry is one message of the conversation log.
type Entry struct {
	Timestamp time.Time
	Role      Role
	Body      string
}
