package workflow

import "github.com/google/uuid"

// TokenGenerator produces the correlation token stamped on every workflow
// invocation's log records.
type TokenGenerator interface {
	NewToken() string
}

// UUIDv7Generator generates time-ordered UUIDv7 tokens, so log lines sort
// chronologically by token.
type UUIDv7Generator struct{}

// NewToken returns a new UUIDv7 string.
func (UUIDv7Generator) NewToken() string {
	return uuid.Must(uuid.NewV7()).String()
}

// FixedTokenGenerator always returns the same token. For deterministic tests.
type FixedTokenGenerator struct {
	Token string
}

func (g FixedTokenGenerator) NewToken() string {
	return g.Token
}
