package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Email    string `json:"email"`
			Password string `json:"password"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)

		if body.Password != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Invalid email or password"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"message": "Login successful",
			"token":   "token123",
			"user":    map[string]any{"_id": "u1", "email": body.Email, "isAdmin": false},
		})
	})

	mux.HandleFunc("GET /api/users/profile", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token123" {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"message": "Access denied, token missing"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"_id": "u1", "name": "Alice", "email": "alice@example.com"})
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_LoginPersistsSession(t *testing.T) {
	srv := newTestServer(t)
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	c := New(srv.URL, store)

	sess, err := c.Login(context.Background(), "alice@example.com", "secret1")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.Token != "token123" || sess.User.ID != "u1" {
		t.Fatalf("unexpected session: %+v", sess)
	}

	stored, err := store.Load()
	if err != nil {
		t.Fatalf("session should be persisted: %v", err)
	}
	if stored.Token != "token123" {
		t.Fatalf("unexpected stored token: %s", stored.Token)
	}
}

func TestClient_LoginFailure(t *testing.T) {
	srv := newTestServer(t)
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	c := New(srv.URL, store)

	_, err := c.Login(context.Background(), "alice@example.com", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.StatusCode != http.StatusUnauthorized || apiErr.Message != "Invalid email or password" {
		t.Fatalf("unexpected error: %+v", apiErr)
	}

	if _, err := store.Load(); !errors.Is(err, ErrNoSession) {
		t.Fatalf("failed login must not persist a session")
	}
}

func TestClient_ProfileAttachesBearer(t *testing.T) {
	srv := newTestServer(t)
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	c := New(srv.URL, store)

	if _, err := c.Login(context.Background(), "alice@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}

	profile, err := c.Profile(context.Background())
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if profile.Name != "Alice" {
		t.Fatalf("unexpected profile: %+v", profile)
	}
}

func TestClient_LogoutClearsSession(t *testing.T) {
	srv := newTestServer(t)
	store := NewSessionStore(filepath.Join(t.TempDir(), "session.json"))
	c := New(srv.URL, store)

	if _, err := c.Login(context.Background(), "alice@example.com", "secret1"); err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := c.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}

	// Without a session the profile call carries no token and is rejected.
	_, err := c.Profile(context.Background())
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403 after logout, got %v", err)
	}
}
