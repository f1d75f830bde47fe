package botvac

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Session is the account-level authenticated capability against a
// vendor cloud. Exactly one concrete variant (password, OAuth, or
// passwordless) backs any given Account. Sessions are not safe for
// concurrent use without external locking.
type Session interface {
	// Get issues an authenticated GET against a beehive path and
	// decodes the JSON response into out (out may be nil).
	Get(ctx context.Context, path string, out any) error
	// Post issues an authenticated POST with a JSON body.
	Post(ctx context.Context, path string, body, out any) error
	// GetRaw issues an authenticated GET against an absolute URL and
	// returns the response bytes unmodified.
	GetRaw(ctx context.Context, rawURL string) ([]byte, error)
	// Headers returns the headers the session would attach right now.
	Headers() http.Header
	Vendor() Vendor
}

// apiBase carries the pieces shared by all session variants: the
// vendor descriptor and the HTTP client. Credential state stays in the
// variants themselves so no session can hold another protocol's fields.
type apiBase struct {
	vendor Vendor
	http   *http.Client
}

func newAPIBase(vendor Vendor) apiBase {
	return apiBase{
		vendor: vendor,
		http:   &http.Client{Timeout: 15 * time.Second},
	}
}

func (b apiBase) urljoin(path string) string {
	return strings.TrimSuffix(b.vendor.BeehiveURL, "/") + "/" + strings.TrimPrefix(path, "/")
}

func (b apiBase) baseHeaders() http.Header {
	headers := http.Header{}
	headers.Set("Accept", b.vendor.AcceptHeader)
	return headers
}

// httpStatusError is a non-2xx vendor response before it has been
// classified into the public error taxonomy.
type httpStatusError struct {
	Status int
	Body   string
}

func (e httpStatusError) Error() string {
	return fmt.Sprintf("beehive api error %d: %s", e.Status, strings.TrimSpace(e.Body))
}

func (b apiBase) doJSON(ctx context.Context, method, rawURL string, headers http.Header, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	data, err := b.doRaw(ctx, method, rawURL, headers, reader)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return MalformedResponseError{Field: "body", Err: err}
	}
	return nil
}

func (b apiBase) doRaw(ctx context.Context, method, rawURL string, headers http.Header, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for key, values := range headers {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := b.http.Do(req)
	if err != nil {
		return nil, TransportError{Op: method + " " + rawURL, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, TransportError{Op: method + " " + rawURL, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, httpStatusError{Status: resp.StatusCode, Body: string(data)}
	}
	return data, nil
}

// isAuthStatus reports whether err is a vendor 401/403 that the
// session variants treat as a credential problem.
func isAuthStatus(err error) bool {
	var status httpStatusError
	if !errors.As(err, &status) {
		return false
	}
	return status.Status == http.StatusUnauthorized || status.Status == http.StatusForbidden
}

// classifyTransport folds any remaining non-2xx status into the
// transport taxonomy. Auth statuses must be handled before calling.
func classifyTransport(op string, err error) error {
	if err == nil {
		return nil
	}
	var status httpStatusError
	if errors.As(err, &status) {
		return TransportError{Op: op, Err: status}
	}
	return err
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}
