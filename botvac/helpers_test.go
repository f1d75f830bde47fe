package botvac

import (
	"context"
)

// memoryStore is an in-memory TokenStore for tests.
type memoryStore struct {
	data map[string][]byte
}

func (m *memoryStore) Load(_ context.Context, key string) ([]byte, error) {
	if m.data != nil {
		if data, ok := m.data[key]; ok {
			return data, nil
		}
	}
	return nil, ErrTokenNotFound
}

func (m *memoryStore) Save(_ context.Context, key string, data []byte) error {
	if m.data == nil {
		m.data = make(map[string][]byte)
	}
	m.data[key] = data
	return nil
}

// testVendor points every endpoint at the one test server.
func testVendor(serverURL string) Vendor {
	return Vendor{
		Name:            "neato",
		BeehiveURL:      serverURL,
		NucleoURL:       serverURL,
		AcceptHeader:    "application/vnd.neato.nucleo.v1",
		AuthorizeURL:    serverURL + "/oauth2/authorize",
		TokenURL:        serverURL + "/token",
		PasswordlessURL: serverURL + "/passwordless/start",
		Audience:        "https://test.audience",
		Source:          "test_source",
		Scope:           []string{"control_robots"},
		OAuthClientID:   "default-client",
	}
}
