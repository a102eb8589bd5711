// ABOUTME: Tests for the Basic auth checker
// ABOUTME: Covers header parsing, decoding bounds, lookup and comparison

package auth

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/2389/realmgate/internal/conf"
	"github.com/2389/realmgate/internal/realm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writePasswd(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.passwd")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("writing password file: %v", err)
	}
	return path
}

func newTestChecker(t *testing.T) (*Checker, *realm.Store) {
	t.Helper()
	store := realm.NewStore(time.Minute, discardLogger())
	t.Cleanup(store.Close)
	return NewChecker(store, discardLogger()), store
}

func basicHeader(creds string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(creds))
}

func TestVerifyValidCredentials(t *testing.T) {
	passwd := writePasswd(t, "alice = secret1\nbob = secret2\n")
	checker, _ := newTestChecker(t)

	username, ok := checker.Verify(context.Background(), basicHeader("alice:secret1"), passwd)
	if !ok {
		t.Fatal("expected valid credentials to be accepted")
	}
	if username != "alice" {
		t.Errorf("expected username 'alice', got %q", username)
	}

	if _, ok := checker.Verify(context.Background(), basicHeader("bob:secret2"), passwd); !ok {
		t.Error("expected bob's credentials to be accepted")
	}
}

func TestVerifyRejections(t *testing.T) {
	passwd := writePasswd(t, "alice = secret1\n")
	checker, _ := newTestChecker(t)

	oversized := "alice:" + strings.Repeat("x", conf.MaxLineLen)

	tests := []struct {
		name   string
		header string
	}{
		{"absent header", ""},
		{"wrong scheme", "Bearer " + base64.StdEncoding.EncodeToString([]byte("alice:secret1"))},
		{"lowercase scheme", "basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret1"))},
		{"not base64", "Basic !!!not-base64!!!"},
		{"no colon", basicHeader("alicesecret1")},
		{"oversized payload", basicHeader(oversized)},
		{"wrong password", basicHeader("alice:wrong")},
		{"unknown user", basicHeader("carol:anything")},
		{"password as prefix", basicHeader("alice:secret")},
		{"empty credentials", basicHeader("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := checker.Verify(context.Background(), tt.header, passwd); ok {
				t.Errorf("expected %s to be rejected", tt.name)
			}
		})
	}
}

func TestVerifyEmptyPassword(t *testing.T) {
	passwd := writePasswd(t, "alice =\n")
	checker, _ := newTestChecker(t)

	if _, ok := checker.Verify(context.Background(), basicHeader("alice:"), passwd); !ok {
		t.Error("expected empty password to match an empty record")
	}
	if _, ok := checker.Verify(context.Background(), basicHeader("alice:x"), passwd); ok {
		t.Error("expected non-empty password to mismatch an empty record")
	}
}

func TestVerifyPasswordContainingColon(t *testing.T) {
	// Only the first colon splits; the rest belongs to the password.
	passwd := writePasswd(t, "alice = se:cr:et\n")
	checker, _ := newTestChecker(t)

	if _, ok := checker.Verify(context.Background(), basicHeader("alice:se:cr:et"), passwd); !ok {
		t.Error("expected password containing colons to be accepted")
	}
}

func TestVerifyMissingPasswordFile(t *testing.T) {
	checker, _ := newTestChecker(t)

	missing := filepath.Join(t.TempDir(), "nope.passwd")
	if _, ok := checker.Verify(context.Background(), basicHeader("alice:secret1"), missing); ok {
		t.Error("expected verification against a missing file to fail")
	}
}

func TestVerifyMalformedPasswordFile(t *testing.T) {
	passwd := writePasswd(t, "alice = secret1\ngarbage line\n")
	checker, _ := newTestChecker(t)

	if _, ok := checker.Verify(context.Background(), basicHeader("alice:secret1"), passwd); ok {
		t.Error("expected verification against a malformed file to fail")
	}
}

func TestVerifyAfterStoreClose(t *testing.T) {
	passwd := writePasswd(t, "alice = secret1\n")
	store := realm.NewStore(time.Minute, discardLogger())
	checker := NewChecker(store, discardLogger())

	store.Close()

	if _, ok := checker.Verify(context.Background(), basicHeader("alice:secret1"), passwd); ok {
		t.Error("expected verification to fail after the store is closed")
	}
}

func TestChallenge(t *testing.T) {
	got := Challenge("Staging Area")
	want := `Basic realm="Staging Area"`
	if got != want {
		t.Errorf("Challenge() = %q, want %q", got, want)
	}
}
