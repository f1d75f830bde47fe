package botvac

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
)

// OAuthSession authenticates through the vendor's authorization-code
// grant. Lifecycle: construct, send the user to AuthorizationURL,
// exchange the redirect URL via FetchToken, then issue requests. An
// expired access token is renewed silently at most once per request
// when a refresh token is present.
type OAuthSession struct {
	apiBase
	config *oauth2.Config
	token  *oauth2.Token
	store  TokenStore
}

// OAuthConfig holds the client credentials for an OAuthSession.
type OAuthConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURI  string
	Vendor       Vendor
	// Store, when set, persists the token pair across runs.
	Store TokenStore
}

func NewOAuthSession(cfg OAuthConfig) (*OAuthSession, error) {
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = cfg.Vendor.OAuthClientID
	}
	if clientID == "" {
		return nil, errors.New("oauth client_id is required")
	}
	if cfg.ClientSecret == "" {
		return nil, errors.New("oauth client_secret is required")
	}

	s := &OAuthSession{
		apiBase: newAPIBase(cfg.Vendor),
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURI,
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.Vendor.AuthorizeURL,
				TokenURL: cfg.Vendor.TokenURL,
			},
			Scopes: cfg.Vendor.Scope,
		},
		store: cfg.Store,
	}

	if cfg.Store != nil {
		if data, err := cfg.Store.Load(context.Background(), s.storeKey()); err == nil {
			var token oauth2.Token
			if json.Unmarshal(data, &token) == nil && token.RefreshToken != "" {
				s.token = &token
			}
		}
	}

	return s, nil
}

// AuthorizationURL builds the browser URL for the code grant. Pure; no
// network call is made.
func (s *OAuthSession) AuthorizationURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// FetchToken completes the code grant from the full redirect URL the
// vendor sent the user back to. Any surrounding query parameters are
// tolerated; only the code is read.
func (s *OAuthSession) FetchToken(ctx context.Context, authorizationResponse string) error {
	code, err := extractCode(authorizationResponse)
	if err != nil {
		return err
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.http)
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return AuthError{
				Reason: AuthInvalidCode,
				Status: retrieveErr.Response.StatusCode,
				Detail: strings.TrimSpace(string(retrieveErr.Body)),
			}
		}
		return TransportError{Op: "token exchange", Err: err}
	}

	s.token = token
	s.persistToken()
	return nil
}

func extractCode(authorizationResponse string) (string, error) {
	parsed, err := url.Parse(authorizationResponse)
	if err != nil {
		return "", AuthError{Reason: AuthInvalidCode, Detail: "unparseable redirect url"}
	}
	code := parsed.Query().Get("code")
	if code == "" {
		return "", AuthError{Reason: AuthInvalidCode, Detail: "redirect url has no code parameter"}
	}
	return code, nil
}

func (s *OAuthSession) Get(ctx context.Context, path string, out any) error {
	return s.request(ctx, http.MethodGet, path, nil, out)
}

func (s *OAuthSession) Post(ctx context.Context, path string, body, out any) error {
	return s.request(ctx, http.MethodPost, path, body, out)
}

func (s *OAuthSession) GetRaw(ctx context.Context, rawURL string) ([]byte, error) {
	if err := s.ensureAccessToken(ctx); err != nil {
		return nil, err
	}
	data, err := s.doRaw(ctx, http.MethodGet, rawURL, s.Headers(), nil)
	if isAuthStatus(err) {
		if s.token.RefreshToken == "" {
			return nil, AuthError{Reason: AuthExpired}
		}
		if refreshErr := s.refresh(ctx); refreshErr != nil {
			return nil, refreshErr
		}
		data, err = s.doRaw(ctx, http.MethodGet, rawURL, s.Headers(), nil)
		if isAuthStatus(err) {
			return nil, AuthError{Reason: AuthExpired}
		}
	}
	return data, classifyTransport("GET "+rawURL, err)
}

func (s *OAuthSession) Headers() http.Header {
	headers := s.baseHeaders()
	if s.token != nil && s.token.AccessToken != "" {
		headers.Set("Authorization", "Bearer "+s.token.AccessToken)
	}
	return headers
}

func (s *OAuthSession) Vendor() Vendor { return s.vendor }

func (s *OAuthSession) request(ctx context.Context, method, path string, body, out any) error {
	if err := s.ensureAccessToken(ctx); err != nil {
		return err
	}

	err := s.doJSON(ctx, method, s.urljoin(path), s.Headers(), body, out)
	if !isAuthStatus(err) {
		return classifyTransport(method+" "+path, err)
	}

	if s.token.RefreshToken == "" {
		return AuthError{Reason: AuthExpired}
	}
	if err := s.refresh(ctx); err != nil {
		return err
	}
	err = s.doJSON(ctx, method, s.urljoin(path), s.Headers(), body, out)
	if isAuthStatus(err) {
		return AuthError{Reason: AuthExpired}
	}
	return classifyTransport(method+" "+path, err)
}

func (s *OAuthSession) ensureAccessToken(ctx context.Context) error {
	if s.token == nil {
		return AuthError{Reason: AuthUnauthenticated}
	}
	if s.token.AccessToken != "" {
		return nil
	}
	// A token restored from the store may carry only the refresh half.
	if s.token.RefreshToken == "" {
		return AuthError{Reason: AuthUnauthenticated}
	}
	return s.refresh(ctx)
}

// refresh renews the access token using the stored refresh token. The
// zero-valued base token forces x/oauth2 to hit the token endpoint
// instead of returning the cached (expired) access token.
func (s *OAuthSession) refresh(ctx context.Context) error {
	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.http)
	source := s.config.TokenSource(ctx, &oauth2.Token{RefreshToken: s.token.RefreshToken})
	token, err := source.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return AuthError{
				Reason: AuthExpired,
				Status: retrieveErr.Response.StatusCode,
				Detail: strings.TrimSpace(string(retrieveErr.Body)),
			}
		}
		return TransportError{Op: "token refresh", Err: err}
	}

	if token.RefreshToken == "" {
		token.RefreshToken = s.token.RefreshToken
	}
	s.token = token
	s.persistToken()
	return nil
}

func (s *OAuthSession) storeKey() string {
	return s.vendor.Name + "-oauth"
}

// persistToken mirrors the token pair to the store. The mirror is best
// effort; a store failure never fails the request that triggered it.
func (s *OAuthSession) persistToken() {
	if s.store == nil || s.token == nil {
		return
	}
	data, err := json.Marshal(s.token)
	if err != nil {
		return
	}
	_ = s.store.Save(context.Background(), s.storeKey(), data)
}
