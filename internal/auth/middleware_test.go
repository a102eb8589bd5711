// ABOUTME: Tests for the Basic auth HTTP middleware
// ABOUTME: Covers challenge emission, pass-through and context propagation

package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMiddlewareAllowsValidCredentials(t *testing.T) {
	passwd := writePasswd(t, "alice = secret1\n")
	checker, _ := newTestChecker(t)

	var gotUser *User
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser = UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	middleware := checker.Middleware("Test Realm", passwd)

	req := httptest.NewRequest(http.MethodGet, "/private/index.html", nil)
	req.Header.Set("Authorization", basicHeader("alice:secret1"))
	rec := httptest.NewRecorder()

	middleware(handler).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("expected status 200, got %d", rec.Code)
	}
	if rec.Header().Get("WWW-Authenticate") != "" {
		t.Error("expected no challenge on an allowed request")
	}
	if gotUser == nil {
		t.Fatal("expected User in context")
	}
	if gotUser.Name != "alice" {
		t.Errorf("expected user 'alice', got %q", gotUser.Name)
	}
	if gotUser.Realm != "Test Realm" {
		t.Errorf("expected realm 'Test Realm', got %q", gotUser.Realm)
	}
}

func TestMiddlewareDeniesWithChallenge(t *testing.T) {
	passwd := writePasswd(t, "alice = secret1\n")
	checker, _ := newTestChecker(t)

	middleware := checker.Middleware("Test Realm", passwd)
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called")
	})

	tests := []struct {
		name   string
		header string
	}{
		{"absent header", ""},
		{"malformed scheme", "NotBasic abc"},
		{"wrong password", basicHeader("alice:wrong")},
		{"unknown user", basicHeader("carol:x")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			middleware(handler).ServeHTTP(rec, req)

			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected status 401, got %d", rec.Code)
			}
			want := `Basic realm="Test Realm"`
			if got := rec.Header().Get("WWW-Authenticate"); got != want {
				t.Errorf("expected challenge %q, got %q", want, got)
			}
		})
	}
}

func TestUserFromContextAbsent(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if UserFromContext(req.Context()) != nil {
		t.Error("expected nil User on an unauthenticated context")
	}
}
