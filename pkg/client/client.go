// Package client is a Go client for the OJT tracker API. It keeps the last
// fetched task and user lists in memory, refetching them after every
// mutation, and caches recent activity per user.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/localnerve/ojt-tracker/internal/services"
)

// ErrSubmitting is returned when a mutation is started while another is in flight
var ErrSubmitting = errors.New("another request is still being submitted")

// APIError is a failure envelope returned by the server
type APIError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given HTTP status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Status  int             `json:"status"`
	Type    string          `json:"type"`
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Jar is replaced
// when nil so sessions still work.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithRequiredHours sets the hours target used by the offline progress report
func WithRequiredHours(hours float64) Option {
	return func(c *Client) { c.requiredHours = hours }
}

// Client talks to one server with one session
type Client struct {
	base          *url.URL
	http          *http.Client
	requiredHours float64
	submitting    atomic.Bool

	mu       sync.RWMutex
	user     *services.SessionUser
	tasks    []services.TaskView
	users    []services.UserSummary
	activity *activityCache
	pending  []services.ActivityEntry
}

// New returns a client for the server at baseURL, e.g. "http://localhost:3000"
func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	c := &Client{
		base:          base,
		http:          &http.Client{Timeout: 30 * time.Second},
		requiredHours: 480,
		activity:      newActivityCache(ActivityCacheSize),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.http.Jar == nil {
		jar, err := cookiejar.New(nil)
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}
	return c, nil
}

// User returns the signed-in user, nil before Login or after Logout
func (c *Client) User() *services.SessionUser {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.user == nil {
		return nil
	}
	u := *c.user
	return &u
}

// Login starts a session
func (c *Client) Login(ctx context.Context, username, password string, remember bool) (*services.SessionUser, error) {
	return c.authenticate(ctx, "/api/login", services.LoginInput{
		Username: username,
		Password: password,
		Remember: remember,
	})
}

// Signup creates an account and starts its session
func (c *Client) Signup(ctx context.Context, in services.SignupInput) (*services.SessionUser, error) {
	return c.authenticate(ctx, "/api/signup", in)
}

// authenticate posts credentials and keeps the top-level user of the response
func (c *Client) authenticate(ctx context.Context, path string, body any) (*services.SessionUser, error) {
	env, err := c.send(ctx, http.MethodPost, path, nil, body)
	if err != nil {
		return nil, err
	}
	var user services.SessionUser
	if err := json.Unmarshal(env.User, &user); err != nil {
		return nil, fmt.Errorf("failed to decode %s user: %w", path, err)
	}
	c.setUser(&user)
	return &user, nil
}

// Logout ends the session and forgets every cached list
func (c *Client) Logout(ctx context.Context) error {
	if err := c.do(ctx, http.MethodPost, "/api/logout", nil, nil, nil); err != nil {
		return err
	}
	c.mu.Lock()
	c.user = nil
	c.tasks = nil
	c.users = nil
	c.pending = nil
	c.activity = newActivityCache(ActivityCacheSize)
	c.mu.Unlock()
	return nil
}

// CheckAuth asks the server who is signed in, restoring the session from the
// remember cookie when possible
func (c *Client) CheckAuth(ctx context.Context) (*services.SessionUser, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/check_auth", nil, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var status struct {
		Authenticated bool                  `json:"authenticated"`
		User          *services.SessionUser `json:"user"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode check_auth response: %w", err)
	}
	if !status.Authenticated {
		status.User = nil
	}
	c.setUser(status.User)
	return status.User, nil
}

// Tasks returns a copy of the cached task list
func (c *Client) Tasks() []services.TaskView {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.tasks)
}

// RefreshTasks refetches the signed-in user's tasks. The cache is left as it
// was when the request fails.
func (c *Client) RefreshTasks(ctx context.Context) ([]services.TaskView, error) {
	var tasks []services.TaskView
	if err := c.do(ctx, http.MethodGet, "/api/tasks", url.Values{"action": {"list"}}, nil, &tasks); err != nil {
		return c.Tasks(), err
	}
	c.mu.Lock()
	c.tasks = tasks
	c.mu.Unlock()
	return slices.Clone(tasks), nil
}

// CreateTask creates a task and refetches the task list
func (c *Client) CreateTask(ctx context.Context, in services.TaskInput) (uint64, error) {
	var created struct {
		ID uint64 `json:"id"`
	}
	err := c.submit(ctx, func() error {
		return c.do(ctx, http.MethodPost, "/api/tasks", nil, in, &created)
	})
	if err != nil {
		return 0, err
	}
	c.remember(created.ID, "task_created", "Created task: "+in.Title)
	return created.ID, c.refreshAfterMutation(ctx)
}

// UpdateTask applies patch to a task and refetches the task list
func (c *Client) UpdateTask(ctx context.Context, id uint64, patch services.TaskPatch) error {
	err := c.submit(ctx, func() error {
		return c.do(ctx, http.MethodPut, "/api/tasks", idQuery(id), patch, nil)
	})
	if err != nil {
		return err
	}
	c.remember(id, "task_updated", "Updated task #"+strconv.FormatUint(id, 10))
	return c.refreshAfterMutation(ctx)
}

// DeleteTask deletes a task and refetches the task list
func (c *Client) DeleteTask(ctx context.Context, id uint64) error {
	err := c.submit(ctx, func() error {
		return c.do(ctx, http.MethodDelete, "/api/tasks", idQuery(id), nil, nil)
	})
	if err != nil {
		return err
	}
	c.remember(0, "task_deleted", "Deleted task #"+strconv.FormatUint(id, 10))
	return c.refreshAfterMutation(ctx)
}

// Users returns a copy of the cached user list
func (c *Client) Users() []services.UserSummary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.users)
}

// RefreshUsers refetches the user list. Admin only.
func (c *Client) RefreshUsers(ctx context.Context) ([]services.UserSummary, error) {
	var users []services.UserSummary
	if err := c.do(ctx, http.MethodGet, "/api/get_users", nil, nil, &users); err != nil {
		return c.Users(), err
	}
	c.mu.Lock()
	c.users = users
	c.mu.Unlock()
	return slices.Clone(users), nil
}

// UpdateUser edits a user and refetches the user list when the caller is an admin
func (c *Client) UpdateUser(ctx context.Context, patch services.UserPatch) (*services.SessionUser, error) {
	var updated services.SessionUser
	err := c.submit(ctx, func() error {
		return c.do(ctx, http.MethodPost, "/api/update_user", nil, patch, &updated)
	})
	if err != nil {
		return nil, err
	}

	if me := c.User(); me != nil {
		if me.ID == updated.ID {
			c.setUser(&updated)
		}
		if me.IsAdmin() {
			_, err = c.RefreshUsers(ctx)
		}
	}
	return &updated, err
}

// DeleteUser removes a user and refetches the user list. Admin only.
func (c *Client) DeleteUser(ctx context.Context, userID uint64) error {
	err := c.submit(ctx, func() error {
		return c.do(ctx, http.MethodPost, "/api/delete_user", nil, map[string]uint64{"userId": userID}, nil)
	})
	if err != nil {
		return err
	}
	c.mu.Lock()
	c.activity.drop(userID)
	c.mu.Unlock()
	_, err = c.RefreshUsers(ctx)
	return err
}

// Progress fetches the signed-in user's progress report. When the endpoint
// cannot be reached or fails, the report is computed from the cached task
// list and Local is set. A rejected session is still an error.
func (c *Client) Progress(ctx context.Context) (*Progress, error) {
	var p services.Progress
	err := c.do(ctx, http.MethodGet, "/api/progress", nil, nil, &p)
	if err == nil {
		return &Progress{Progress: p}, nil
	}
	if IsStatus(err, http.StatusUnauthorized) || IsStatus(err, http.StatusForbidden) {
		return nil, err
	}
	return Summarize(c.Tasks(), c.requiredHours, time.Now()), nil
}

// ExportTasks downloads the OJT log workbook into w
func (c *Client) ExportTasks(ctx context.Context, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/api/export/tasks", nil, nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

func (c *Client) setUser(u *services.SessionUser) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if u == nil {
		c.user = nil
		return
	}
	cp := *u
	c.user = &cp
}

// submit runs fn unless another submission is in flight
func (c *Client) submit(ctx context.Context, fn func() error) error {
	if !c.submitting.CompareAndSwap(false, true) {
		return ErrSubmitting
	}
	defer c.submitting.Store(false)
	if err := ctx.Err(); err != nil {
		return err
	}
	return fn()
}

func (c *Client) refreshAfterMutation(ctx context.Context) error {
	if _, err := c.RefreshTasks(ctx); err != nil {
		return fmt.Errorf("mutation succeeded but the task list could not be refreshed: %w", err)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, query url.Values, body any) (*http.Request, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req, nil
}

// do sends a JSON request and decodes the success envelope's data into out
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	env, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to decode %s %s data: %w", method, path, err)
	}
	return nil
}

// send performs the request and returns the decoded success envelope
func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (*envelope, error) {
	req, err := c.newRequest(ctx, method, path, query, body)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, decodeError(resp)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return nil, fmt.Errorf("failed to decode %s %s response: %w", method, path, err)
	}
	if !env.Success {
		return nil, &APIError{Status: resp.StatusCode, Message: env.Message, Type: env.Type}
	}
	return &env, nil
}

func decodeError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, apiErr); err != nil || apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	apiErr.Status = resp.StatusCode
	return apiErr
}

func idQuery(id uint64) url.Values {
	return url.Values{"id": {strconv.FormatUint(id, 10)}}
}
