package botvac

import (
	"context"
	"errors"
	"testing"
)

func TestFileStoreRoundTrip(t *testing.T) {
	store := NewFileStore(t.TempDir())

	if _, err := store.Load(context.Background(), "neato-oauth"); !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}

	if err := store.Save(context.Background(), "neato-oauth", []byte(`{"access_token":"t"}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	data, err := store.Load(context.Background(), "neato-oauth")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if string(data) != `{"access_token":"t"}` {
		t.Fatalf("unexpected data: %s", data)
	}
}

func TestParseEndpoint(t *testing.T) {
	cases := []struct {
		raw    string
		host   string
		secure bool
	}{
		{"https://s3.example.com", "s3.example.com", true},
		{"http://localhost:9000", "localhost:9000", false},
		{"s3.example.com", "s3.example.com", true},
	}
	for _, tc := range cases {
		host, secure, err := parseEndpoint(tc.raw)
		if err != nil {
			t.Fatalf("%s: %v", tc.raw, err)
		}
		if host != tc.host || secure != tc.secure {
			t.Fatalf("%s: got %s secure=%t", tc.raw, host, secure)
		}
	}
}
