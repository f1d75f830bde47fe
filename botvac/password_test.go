package botvac

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPasswordSessionFlow(t *testing.T) {
	var loginRequests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions":
			loginRequests++
			if r.Method != http.MethodPost {
				t.Fatalf("expected POST to /sessions, got %s", r.Method)
			}
			var payload map[string]string
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("decode login payload: %v", err)
			}
			if payload["email"] != "user@example.com" || payload["password"] != "hunter2" {
				t.Fatalf("unexpected credentials: %v", payload)
			}
			if payload["token"] == "" {
				t.Fatalf("expected a device token in the login payload")
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"beehive-token"}`)
		case "/dashboard":
			if got := r.Header.Get("Authorization"); got != "Token token=beehive-token" {
				t.Fatalf("unexpected authorization header: %q", got)
			}
			if got := r.Header.Get("Accept"); got != "application/vnd.neato.nucleo.v1" {
				t.Fatalf("unexpected accept header: %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"robots":[]}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	session := NewPasswordSession("user@example.com", "hunter2", testVendor(server.URL))

	var out struct {
		Robots []any `json:"robots"`
	}
	if err := session.Get(context.Background(), "dashboard", &out); err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if loginRequests != 1 {
		t.Fatalf("expected 1 login request, got %d", loginRequests)
	}

	// A second request reuses the token.
	if err := session.Get(context.Background(), "dashboard", &out); err != nil {
		t.Fatalf("second get: %v", err)
	}
	if loginRequests != 1 {
		t.Fatalf("token was not reused: %d login requests", loginRequests)
	}
}

func TestPasswordSessionInvalidCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = io.WriteString(w, `{"message":"bad credentials"}`)
	}))
	defer server.Close()

	session := NewPasswordSession("user@example.com", "wrong", testVendor(server.URL))
	err := session.Authenticate(context.Background())

	var authErr AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != AuthInvalidCredentials {
		t.Fatalf("expected invalid_credentials, got %s", authErr.Reason)
	}
	if authErr.Status != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", authErr.Status)
	}
}

func TestPasswordSessionReauthenticates(t *testing.T) {
	var loginRequests, dashboardRequests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions":
			loginRequests++
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprintf(w, `{"access_token":"token-%d"}`, loginRequests)
		case "/dashboard":
			dashboardRequests++
			// The first token has been revoked server-side.
			if r.Header.Get("Authorization") == "Token token=token-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"robots":[]}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	session := NewPasswordSession("user@example.com", "hunter2", testVendor(server.URL))
	if err := session.Get(context.Background(), "dashboard", nil); err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
	if loginRequests != 2 {
		t.Fatalf("expected re-login after 401, got %d login requests", loginRequests)
	}
	if dashboardRequests != 2 {
		t.Fatalf("expected exactly one retry, got %d dashboard requests", dashboardRequests)
	}
}

func TestPasswordSessionExpiredAfterRetry(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/sessions":
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"access_token":"token"}`)
		default:
			w.WriteHeader(http.StatusUnauthorized)
		}
	}))
	defer server.Close()

	session := NewPasswordSession("user@example.com", "hunter2", testVendor(server.URL))
	err := session.Get(context.Background(), "dashboard", nil)

	var authErr AuthError
	if !errors.As(err, &authErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if authErr.Reason != AuthExpired {
		t.Fatalf("expected expired, got %s", authErr.Reason)
	}
}
