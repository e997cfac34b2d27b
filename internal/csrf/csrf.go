package csrf

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const nonceLength = 32

// Guard issues and verifies stateless CSRF tokens. A token is a random
// nonce plus an HMAC binding it to the session that requested it; nothing
// is stored server-side.
type Guard struct {
	secret []byte
}

// NewGuard constructs a guard from an explicit secret. An empty secret is
// a configuration error: the check must never be silently disabled.
func NewGuard(secret string) (*Guard, error) {
	if secret == "" {
		return nil, fmt.Errorf("csrf secret is required")
	}
	return &Guard{secret: []byte(secret)}, nil
}

// IssueToken generates a token bound to the given session id.
func (g *Guard) IssueToken(sessionID string) (string, error) {
	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}
	nonceHex := hex.EncodeToString(nonce)
	return nonceHex + ":" + g.mac(sessionID, nonceHex), nil
}

// VerifyToken reports whether the token was minted for the given session.
// Malformed tokens, wrong sessions, and any single-character mutation all
// fail verification; the MAC comparison is constant-time.
func (g *Guard) VerifyToken(token, sessionID string) bool {
	parts := strings.Split(token, ":")
	if len(parts) != 2 {
		return false
	}
	nonceHex, macHex := parts[0], parts[1]
	if len(nonceHex) != nonceLength*2 {
		return false
	}
	if _, err := hex.DecodeString(nonceHex); err != nil {
		return false
	}
	supplied, err := hex.DecodeString(macHex)
	if err != nil {
		return false
	}
	expected, err := hex.DecodeString(g.mac(sessionID, nonceHex))
	if err != nil {
		return false
	}
	return hmac.Equal(supplied, expected)
}

func (g *Guard) mac(sessionID, nonceHex string) string {
	h := hmac.New(sha256.New, g.secret)
	h.Write([]byte(sessionID + ":" + nonceHex))
	return hex.EncodeToString(h.Sum(nil))
}
