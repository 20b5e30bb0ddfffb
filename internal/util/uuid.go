package util

import (
	"log"
	"strings"
	"sync"

	"github.com/google/uuid"
)

const tokenLength = 10

func GenerateUUID() string {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		log.Fatalf("Failed to generate UUID: %v", err)
	}
	return newUUID.String()
}

// TokenIssuer hands out short upper-case hex tokens that never repeat within
// the lifetime of the issuer.
type TokenIssuer struct {
	mu     sync.Mutex
	issued map[string]struct{}
	next   func() string
}

func NewTokenIssuer() *TokenIssuer {
	return &TokenIssuer{
		issued: make(map[string]struct{}),
		next:   randomToken,
	}
}

func (t *TokenIssuer) Issue() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	for {
		token := t.next()
		if _, seen := t.issued[token]; seen {
			continue
		}
		t.issued[token] = struct{}{}
		return token
	}
}

func randomToken() string {
	hex := strings.ReplaceAll(GenerateUUID(), "-", "")
	return strings.ToUpper(hex[:tokenLength])
}
