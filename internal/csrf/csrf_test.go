package csrf

import (
	"strings"
	"testing"
)

func TestNewGuard_RejectsEmptySecret(t *testing.T) {
	if _, err := NewGuard(""); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndVerify_RoundTrip(t *testing.T) {
	guard, err := NewGuard("test-secret")
	if err != nil {
		t.Fatalf("new guard: %v", err)
	}

	token, err := guard.IssueToken("session-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if !guard.VerifyToken(token, "session-1") {
		t.Fatal("expected token to verify for the minting session")
	}
	if guard.VerifyToken(token, "session-2") {
		t.Fatal("expected token to fail for a different session")
	}
}

func TestVerifyToken_RejectsMutatedToken(t *testing.T) {
	guard, _ := NewGuard("test-secret")
	token, err := guard.IssueToken("session-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	for i := 0; i < len(token); i++ {
		if token[i] == ':' {
			continue
		}
		mutated := []byte(token)
		if mutated[i] == 'a' {
			mutated[i] = 'b'
		} else {
			mutated[i] = 'a'
		}
		if guard.VerifyToken(string(mutated), "session-1") {
			t.Fatalf("expected mutation at position %d to fail verification", i)
		}
	}
}

func TestVerifyToken_RejectsMalformedTokens(t *testing.T) {
	guard, _ := NewGuard("test-secret")

	cases := []string{
		"",
		"no-separator",
		"a:b:c",
		"zz:" + strings.Repeat("0", 64),                 // nonce too short
		strings.Repeat("z", 64) + ":" + "deadbeef",      // non-hex nonce
		strings.Repeat("0", 64) + ":" + "not-hex-here!", // non-hex mac
	}
	for _, tc := range cases {
		if guard.VerifyToken(tc, "session-1") {
			t.Fatalf("expected malformed token %q to fail verification", tc)
		}
	}
}

func TestIssueToken_TokensAreUnique(t *testing.T) {
	guard, _ := NewGuard("test-secret")
	a, err := guard.IssueToken("session-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	b, err := guard.IssueToken("session-1")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	if a == b {
		t.Fatal("expected distinct nonces for consecutive tokens")
	}
	if !guard.VerifyToken(a, "session-1") || !guard.VerifyToken(b, "session-1") {
		t.Fatal("expected both tokens to verify")
	}
}
