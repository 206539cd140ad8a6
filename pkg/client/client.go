package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// APIError is a non-2xx response decoded into its message.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api: %d: %s", e.StatusCode, e.Message)
}

// Client talks to a userbase server. When built with a SessionStore, the
// auth flows persist the issued session and authenticated calls load the
// token from it.
type Client struct {
	baseURL  string
	httpc    *http.Client
	sessions *SessionStore
}

// New returns a Client for baseURL. sessions may be nil for stateless use.
func New(baseURL string, sessions *SessionStore) *Client {
	return &Client{
		baseURL:  strings.TrimSuffix(baseURL, "/"),
		httpc:    &http.Client{Timeout: 30 * time.Second},
		sessions: sessions,
	}
}

type authPayload struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResult struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    UserSummary `json:"user"`
}

// Register creates an account and persists the resulting session.
func (c *Client) Register(ctx context.Context, name, email, password string) (*Session, error) {
	return c.authCall(ctx, "/api/auth/register", authPayload{Name: name, Email: email, Password: password})
}

// Login authenticates and persists the resulting session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	return c.authCall(ctx, "/api/auth/login", authPayload{Email: email, Password: password})
}

// AdminLogin authenticates through the admin flow and persists the session.
func (c *Client) AdminLogin(ctx context.Context, email, password string) (*Session, error) {
	return c.authCall(ctx, "/api/auth/admin-login", authPayload{Email: email, Password: password})
}

// Logout clears the persisted session. The token itself stays valid until
// its expiry; there is no server-side revocation.
func (c *Client) Logout() error {
	if c.sessions == nil {
		return nil
	}
	return c.sessions.Clear()
}

// Profile fetches the caller's own record.
func (c *Client) Profile(ctx context.Context) (*UserSummary, error) {
	var out UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Users lists all accounts, newest first. Admin only.
func (c *Client) Users(ctx context.Context) ([]UserSummary, error) {
	var out []UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/users", nil, "", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// User fetches a single account by id (self or admin).
func (c *Client) User(ctx context.Context, id string) (*UserSummary, error) {
	var out UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/users/"+id, nil, "", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateUser partially updates an account: empty fields keep their stored
// values.
func (c *Client) UpdateUser(ctx context.Context, id, name, email string) (*UserSummary, error) {
	body, err := json.Marshal(map[string]string{"name": name, "email": email})
	if err != nil {
		return nil, err
	}
	var out UserSummary
	if err := c.do(ctx, http.MethodPut, "/api/users/"+id, bytes.NewReader(body), "application/json", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteUser removes an account. Admin only.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+id, nil, "", nil)
}

// UploadProfileImage sends an image for the caller's own profile and returns
// the stored reference.
func (c *Client) UploadProfileImage(ctx context.Context, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("profileImage", filename)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, r); err != nil {
		return "", err
	}
	if err := mw.Close(); err != nil {
		return "", err
	}

	var out struct {
		ImageURL string `json:"imageUrl"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/users/upload-profile", &buf, mw.FormDataContentType(), &out); err != nil {
		return "", err
	}
	return out.ImageURL, nil
}

func (c *Client) authCall(ctx context.Context, path string, payload authPayload) (*Session, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	var res authResult
	if err := c.do(ctx, http.MethodPost, path, bytes.NewReader(body), "application/json", &res); err != nil {
		return nil, err
	}

	sess := &Session{Token: res.Token, User: res.User}
	if c.sessions != nil {
		if err := c.sessions.Save(sess); err != nil {
			return nil, err
		}
	}
	return sess, nil
}

func (c *Client) do(ctx context.Context, method, path string, body io.Reader, contentType string, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.sessions != nil {
		if sess, err := c.sessions.Load(); err == nil {
			req.Header.Set("Authorization", "Bearer "+sess.Token)
		}
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func decodeAPIError(resp *http.Response) error {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	msg := resp.Status
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Message != "" {
			msg = body.Message
		} else if body.Error != "" {
			msg = body.Error
		}
	}
	return &APIError{StatusCode: resp.StatusCode, Message: msg}
}
