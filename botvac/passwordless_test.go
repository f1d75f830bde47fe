package botvac

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestPasswordlessOTPFlow(t *testing.T) {
	var otpRequests int

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/passwordless/start":
			otpRequests++
			var payload map[string]string
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("decode otp payload: %v", err)
			}
			if payload["connection"] != "email" || payload["send"] != "code" {
				t.Fatalf("unexpected otp payload: %v", payload)
			}
			if payload["email"] != "user@example.com" {
				t.Fatalf("unexpected email: %q", payload["email"])
			}
			w.WriteHeader(http.StatusOK)
		case "/token":
			var payload map[string]string
			body, _ := io.ReadAll(r.Body)
			if err := json.Unmarshal(body, &payload); err != nil {
				t.Fatalf("decode token payload: %v", err)
			}
			if payload["otp"] != "123456" {
				t.Fatalf("unexpected otp: %q", payload["otp"])
			}
			if payload["grant_type"] != "http://auth0.com/oauth/grant-type/passwordless/otp" {
				t.Fatalf("unexpected grant_type: %q", payload["grant_type"])
			}
			if payload["username"] != "user@example.com" || payload["realm"] != "email" {
				t.Fatalf("unexpected identity fields: %v", payload)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"id_token":"id-1","access_token":"access-1","token_type":"Bearer","expires_in":86400}`)
		case "/dashboard":
			if got := r.Header.Get("Authorization"); got != "Auth0Bearer id-1" {
				t.Fatalf("unexpected authorization header: %q", got)
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = io.WriteString(w, `{"robots":[]}`)
		default:
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
	}))
	defer server.Close()

	store := &memoryStore{}
	session, err := NewPasswordlessSession(PasswordlessConfig{
		Vendor: testVendor(server.URL),
		Store:  store,
	})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	if err := session.SendEmailOTP(context.Background(), "user@example.com"); err != nil {
		t.Fatalf("send otp: %v", err)
	}
	if otpRequests != 1 {
		t.Fatalf("expected 1 otp request, got %d", otpRequests)
	}

	if err := session.FetchTokenPasswordless(context.Background(), "user@example.com", "123456"); err != nil {
		t.Fatalf("fetch token: %v", err)
	}
	if _, ok := store.data["neato-passwordless"]; !ok {
		t.Fatalf("token was not persisted to the store")
	}

	if err := session.Get(context.Background(), "dashboard", nil); err != nil {
		t.Fatalf("get dashboard: %v", err)
	}
}

func TestPasswordlessInvalidCode(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"error":"invalid_grant","error_description":"Wrong email or verification code."}`)
	}))
	defer server.Close()

	session, err := NewPasswordlessSession(PasswordlessConfig{Vendor: testVendor(server.URL)})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	fetchErr := session.FetchTokenPasswordless(context.Background(), "user@example.com", "000000")
	var authErr AuthError
	if !errors.As(fetchErr, &authErr) || authErr.Reason != AuthInvalidCode {
		t.Fatalf("expected invalid_code, got %v", fetchErr)
	}
}

func TestPasswordlessUnauthenticatedBeforeExchange(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	session, err := NewPasswordlessSession(PasswordlessConfig{Vendor: testVendor(server.URL)})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}

	getErr := session.Get(context.Background(), "dashboard", nil)
	var authErr AuthError
	if !errors.As(getErr, &authErr) || authErr.Reason != AuthUnauthenticated {
		t.Fatalf("expected unauthenticated, got %v", getErr)
	}
	if requests != 0 {
		t.Fatalf("unauthenticated session hit the network %d times", requests)
	}
}

func TestPasswordlessExpiredTokenNeedsNewOTP(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	session, err := NewPasswordlessSession(PasswordlessConfig{Vendor: testVendor(server.URL)})
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	session.token = &passwordlessToken{IDToken: "stale"}

	getErr := session.Get(context.Background(), "dashboard", nil)
	var authErr AuthError
	if !errors.As(getErr, &authErr) || authErr.Reason != AuthExpired {
		t.Fatalf("expected expired, got %v", getErr)
	}
}
