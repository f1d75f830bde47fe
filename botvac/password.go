package botvac

import (
	"context"
	"errors"
	"net/http"
)

// PasswordSession authenticates with an email/password pair exchanged
// for a vendor bearer token. The token lives in memory for the session
// lifetime; it is fetched on first use and re-fetched once if a request
// comes back unauthorized.
type PasswordSession struct {
	apiBase
	email    string
	password string
	token    string
}

func NewPasswordSession(email, password string, vendor Vendor) *PasswordSession {
	return &PasswordSession{
		apiBase:  newAPIBase(vendor),
		email:    email,
		password: password,
	}
}

// Authenticate exchanges the credentials for a bearer token. Requests
// call it automatically; it is exported so callers can validate
// credentials eagerly.
func (s *PasswordSession) Authenticate(ctx context.Context) error {
	payload := map[string]string{
		"email":    s.email,
		"password": s.password,
		"platform": "ios",
		"token":    randomHex(64),
	}

	var resp struct {
		AccessToken string `json:"access_token"`
	}
	err := s.doJSON(ctx, http.MethodPost, s.urljoin("sessions"), s.baseHeaders(), payload, &resp)
	if err != nil {
		var status httpStatusError
		if errors.As(err, &status) && status.Status >= 400 && status.Status < 500 {
			return AuthError{Reason: AuthInvalidCredentials, Status: status.Status, Detail: status.Body}
		}
		return classifyTransport("login", err)
	}
	if resp.AccessToken == "" {
		return MalformedResponseError{Field: "access_token"}
	}

	s.token = resp.AccessToken
	return nil
}

func (s *PasswordSession) Get(ctx context.Context, path string, out any) error {
	return s.request(ctx, http.MethodGet, path, nil, out)
}

func (s *PasswordSession) Post(ctx context.Context, path string, body, out any) error {
	return s.request(ctx, http.MethodPost, path, body, out)
}

func (s *PasswordSession) GetRaw(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.ensureToken(ctx); err != nil {
		return nil, err
	}
	data, err := s.doRaw(ctx, http.MethodGet, rawURL, s.Headers(), nil)
	if isAuthStatus(err) {
		return nil, AuthError{Reason: AuthExpired}
	}
	return data, classifyTransport("GET "+rawURL, err)
}

func (s *PasswordSession) Headers() http.Header {
	headers := s.baseHeaders()
	if s.token != "" {
		headers.Set("Authorization", "Token token="+s.token)
	}
	return headers
}

func (s *PasswordSession) Vendor() Vendor { return s.vendor }

func (s *PasswordSession) ensureToken(ctx context.Context) error {
	if s.token != "" {
		return nil
	}
	return s.Authenticate(ctx)
}

func (s *PasswordSession) request(ctx context.Context, method, path string, body, out any) error {
	if err := s.ensureToken(ctx); err != nil {
		return err
	}

	err := s.doJSON(ctx, method, s.urljoin(path), s.Headers(), body, out)
	if !isAuthStatus(err) {
		return classifyTransport(method+" "+path, err)
	}

	// The vendor revokes tokens server-side; fetch a fresh one and
	// retry the call once.
	s.token = ""
	if err := s.Authenticate(ctx); err != nil {
		return err
	}
	err = s.doJSON(ctx, method, s.urljoin(path), s.Headers(), body, out)
	if isAuthStatus(err) {
		return AuthError{Reason: AuthExpired}
	}
	return classifyTransport(method+" "+path, err)
}
