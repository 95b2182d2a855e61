package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// RemoteClient implements Client against the hosted service's HTTP API.
// Auth endpoints live under /auth/v1, row storage under /rest/v1.
type RemoteClient struct {
	baseURL string
	apiKey  string
	http    *http.Client

	mu      sync.Mutex
	session *AuthSession
}

// NewRemoteClient creates a client for the service at baseURL. The apiKey
// is the service's public (anon) key and is sent with every request.
func NewRemoteClient(baseURL, apiKey string) *RemoteClient {
	return &RemoteClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http: &http.Client{
			Timeout: 15 * time.Second,
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 5 * time.Second,
				}).DialContext,
			},
		},
	}
}

// SetSession installs a previously saved auth session, e.g. on startup.
func (c *RemoteClient) SetSession(s *AuthSession) {
	c.mu.Lock()
	c.session = s
	c.mu.Unlock()
}

// Session returns the current auth session, or nil when signed out.
func (c *RemoteClient) Session() *AuthSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session
}

func (c *RemoteClient) accessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return ""
	}
	return c.session.AccessToken
}

// wireUser is the user object as the auth API serves it. The display name
// rides along in the metadata blob.
type wireUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		FullName string `json:"full_name"`
	} `json:"user_metadata"`
}

func (w wireUser) toUser() User {
	return User{ID: w.ID, Email: w.Email, DisplayName: w.Metadata.FullName}
}

// wireSession is the token payload returned by sign-in and code exchange.
type wireSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         wireUser `json:"user"`
}

func (w wireSession) toSession(now time.Time) *AuthSession {
	return &AuthSession{
		AccessToken:  w.AccessToken,
		RefreshToken: w.RefreshToken,
		ExpiresAt:    now.Add(time.Duration(w.ExpiresIn) * time.Second),
		User:         w.User.toUser(),
	}
}

// apiErrorBody covers the error shapes the service uses across endpoints.
type apiErrorBody struct {
	Message     string `json:"message"`
	Msg         string `json:"msg"`
	ErrorDesc   string `json:"error_description"`
	ErrorString string `json:"error"`
}

func (b apiErrorBody) text() string {
	for _, s := range []string{b.Message, b.Msg, b.ErrorDesc, b.ErrorString} {
		if s != "" {
			return s
		}
	}
	return ""
}

func (c *RemoteClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("apikey", c.apiKey)
	token := c.accessToken()
	if token == "" {
		token = c.apiKey
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if method == http.MethodPost && strings.HasPrefix(path, "/rest/") {
		// Ask the row API to echo the inserted row back.
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call backend: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errBody apiErrorBody
		_ = json.Unmarshal(data, &errBody)
		return &APIError{Status: resp.StatusCode, Message: errBody.text()}
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func (c *RemoteClient) CurrentUser(ctx context.Context) (*User, error) {
	if c.accessToken() == "" {
		return nil, nil
	}
	var w wireUser
	err := c.do(ctx, http.MethodGet, "/auth/v1/user", nil, &w)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			// Token expired or revoked. Treat as signed out.
			c.SetSession(nil)
			return nil, nil
		}
		return nil, err
	}
	u := w.toUser()
	return &u, nil
}

func (c *RemoteClient) ListSessions(ctx context.Context, userID string, limit int) ([]FocusSession, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	q := url.Values{}
	q.Set("select", "*")
	q.Set("user_id", "eq."+userID)
	q.Set("order", "completed_at.desc")
	q.Set("limit", fmt.Sprintf("%d", ClampLimit(limit)))

	var sessions []FocusSession
	if err := c.do(ctx, http.MethodGet, "/rest/v1/focus_sessions?"+q.Encode(), nil, &sessions); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}

func (c *RemoteClient) InsertSession(ctx context.Context, userID string, durationMinutes int, completedAt time.Time) (*FocusSession, error) {
	if userID == "" {
		return nil, ErrNotAuthenticated
	}
	if err := ValidateDuration(durationMinutes); err != nil {
		return nil, err
	}

	body := map[string]any{
		"user_id":          userID,
		"duration_minutes": durationMinutes,
		"completed_at":     completedAt.UTC().Format(time.RFC3339),
	}
	// The row API returns the representation as a single-element array.
	var rows []FocusSession
	if err := c.do(ctx, http.MethodPost, "/rest/v1/focus_sessions", body, &rows); err != nil {
		return nil, fmt.Errorf("insert session: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("insert session: empty response")
	}
	return &rows[0], nil
}

func (c *RemoteClient) SignUp(ctx context.Context, email, password, displayName string) (*SignUpResult, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}

	body := map[string]any{
		"email":    email,
		"password": password,
		"data":     map[string]string{"full_name": displayName},
	}
	var resp struct {
		User    wireUser     `json:"user"`
		Session *wireSession `json:"session"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/v1/signup", body, &resp); err != nil {
		return nil, err
	}

	res := &SignUpResult{}
	if resp.Session != nil && resp.Session.AccessToken != "" {
		res.Session = resp.Session.toSession(time.Now())
		c.SetSession(res.Session)
	} else {
		// A user without a session means the service wants the email
		// confirmed first.
		res.NeedsConfirmation = resp.User.ID != ""
	}
	return res, nil
}

func (c *RemoteClient) SignIn(ctx context.Context, email, password string) (*AuthSession, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	body := map[string]string{"email": email, "password": password}
	var w wireSession
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=password", body, &w); err != nil {
		return nil, err
	}
	s := w.toSession(time.Now())
	c.SetSession(s)
	return s, nil
}

func (c *RemoteClient) SignOut(ctx context.Context) error {
	err := c.do(ctx, http.MethodPost, "/auth/v1/logout", nil, nil)
	// Local state is cleared regardless; a dead token server-side is the
	// service's problem.
	c.SetSession(nil)
	return err
}

func (c *RemoteClient) ResetPassword(ctx context.Context, email string) error {
	if email == "" {
		return fmt.Errorf("email is required")
	}
	return c.do(ctx, http.MethodPost, "/auth/v1/recover", map[string]string{"email": email}, nil)
}

func (c *RemoteClient) UpdatePassword(ctx context.Context, newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	if c.accessToken() == "" {
		return ErrNotAuthenticated
	}
	return c.do(ctx, http.MethodPut, "/auth/v1/user", map[string]string{"password": newPassword}, nil)
}

func (c *RemoteClient) ExchangeCode(ctx context.Context, code string) (*AuthSession, error) {
	if code == "" {
		return nil, fmt.Errorf("missing authorization code")
	}
	body := map[string]string{"auth_code": code}
	var w wireSession
	if err := c.do(ctx, http.MethodPost, "/auth/v1/token?grant_type=authorization_code", body, &w); err != nil {
		return nil, err
	}
	s := w.toSession(time.Now())
	c.SetSession(s)
	return s, nil
}
