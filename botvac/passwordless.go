package botvac

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// PasswordlessSession authenticates through the vendor's Auth0
// passwordless email grant: request a one-time code, then exchange it
// for a token. The code is single-use; there is no refresh path, so an
// expired token requires a new OTP round trip.
type PasswordlessSession struct {
	apiBase
	clientID string
	email    string
	token    *passwordlessToken
	store    TokenStore
}

// PasswordlessConfig holds the client identity for a
// PasswordlessSession. ClientID defaults to the vendor's app client.
type PasswordlessConfig struct {
	ClientID string
	Vendor   Vendor
	Store    TokenStore
}

type passwordlessToken struct {
	IDToken     string `json:"id_token"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

func NewPasswordlessSession(cfg PasswordlessConfig) (*PasswordlessSession, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = cfg.Vendor.OAuthClientID
	}
	if clientID == "" {
		return nil, errors.New("passwordless client_id is required")
	}

	s := &PasswordlessSession{
		apiBase:  newAPIBase(cfg.Vendor),
		clientID: clientID,
		store:    cfg.Store,
	}

	if cfg.Store != nil {
		if data, err := cfg.Store.Load(context.Background(), s.storeKey()); err == nil {
			var token passwordlessToken
			if json.Unmarshal(data, &token) == nil && token.IDToken != "" {
				s.token = &token
			}
		}
	}

	return s, nil
}

// SendEmailOTP asks the vendor to email a one-time code. No token
// state changes.
func (s *PasswordlessSession) SendEmailOTP(ctx context.Context, email string) error {
	payload := map[string]string{
		"client_id":  s.clientID,
		"connection": "email",
		"email":      email,
		"send":       "code",
	}

	err := s.doJSON(ctx, http.MethodPost, s.vendor.PasswordlessURL, http.Header{}, payload, nil)
	if err != nil {
		var status httpStatusError
		if errors.As(err, &status) && status.Status >= 400 && status.Status < 500 {
			return AuthError{Reason: AuthInvalidCredentials, Status: status.Status, Detail: status.Body}
		}
		return classifyTransport("send otp", err)
	}

	s.email = email
	return nil
}

// FetchTokenPasswordless exchanges the emailed code for a token.
func (s *PasswordlessSession) FetchTokenPasswordless(ctx context.Context, email, code string) error {
	payload := map[string]string{
		"prompt":       "login",
		"grant_type":   "http://auth0.com/oauth/grant-type/passwordless/otp",
		"scope":        strings.Join(s.vendor.Scope, " "),
		"locale":       "en",
		"otp":          code,
		"source":       s.vendor.Source,
		"platform":     "ios",
		"audience":     s.vendor.Audience,
		"username":     email,
		"client_id":    s.clientID,
		"realm":        "email",
		"country_code": "DE",
	}

	var token passwordlessToken
	err := s.doJSON(ctx, http.MethodPost, s.vendor.TokenURL, http.Header{}, payload, &token)
	if err != nil {
		var status httpStatusError
		if errors.As(err, &status) && status.Status >= 400 && status.Status < 500 {
			return AuthError{Reason: AuthInvalidCode, Status: status.Status, Detail: status.Body}
		}
		return classifyTransport("otp exchange", err)
	}
	if token.IDToken == "" {
		return MalformedResponseError{Field: "id_token"}
	}

	s.token = &token
	s.email = email
	s.persistToken()
	return nil
}

func (s *PasswordlessSession) Get(ctx context.Context, path string, out any) error {
	return s.request(ctx, http.MethodGet, path, nil, out)
}

func (s *PasswordlessSession) Post(ctx context.Context, path string, body, out any) error {
	return s.request(ctx, http.MethodPost, path, body, out)
}

func (s *PasswordlessSession) GetRaw(ctx context.Context, rawURL string) ([]byte, error) {
	if s.token == nil {
		return nil, AuthError{Reason: AuthUnauthenticated}
	}
	data, err := s.doRaw(ctx, http.MethodGet, rawURL, s.Headers(), nil)
	if isAuthStatus(err) {
		return nil, AuthError{Reason: AuthExpired}
	}
	return data, classifyTransport("GET "+rawURL, err)
}

func (s *PasswordlessSession) Headers() http.Header {
	headers := s.baseHeaders()
	if s.token != nil {
		headers.Set("Authorization", "Auth0Bearer "+s.token.IDToken)
	}
	return headers
}

func (s *PasswordlessSession) Vendor() Vendor { return s.vendor }

func (s *PasswordlessSession) request(ctx context.Context, method, path string, body, out any) error {
	if s.token == nil {
		return AuthError{Reason: AuthUnauthenticated}
	}

	err := s.doJSON(ctx, method, s.urljoin(path), s.Headers(), body, out)
	if isAuthStatus(err) {
		// Single-use codes cannot be replayed; the caller must run a
		// fresh OTP round trip.
		return AuthError{Reason: AuthExpired}
	}
	return classifyTransport(method+" "+path, err)
}

func (s *PasswordlessSession) storeKey() string {
	return s.vendor.Name + "-passwordless"
}

func (s *PasswordlessSession) persistToken() {
	if s.store == nil || s.token == nil {
		return
	}
	data, err := json.Marshal(s.token)
	if err != nil {
		return
	}
	_ = s.store.Save(context.Background(), s.storeKey(), data)
}
