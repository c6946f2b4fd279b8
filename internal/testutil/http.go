package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Envelope decodes both the success and the error response shapes
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	User    json.RawMessage `json:"user"`
	Status  int             `json:"status"`
	Type    string          `json:"type"`
	URL     string          `json:"url"`
}

// Decode unmarshals the envelope data into target
func (e Envelope) Decode(t testing.TB, target any) {
	t.Helper()
	if err := json.Unmarshal(e.Data, target); err != nil {
		t.Fatalf("Failed to decode data: %v. Data: %s", err, string(e.Data))
	}
}

// DecodeUser unmarshals the top-level user of a login or signup response into target
func (e Envelope) DecodeUser(t testing.TB, target any) {
	t.Helper()
	if len(e.User) == 0 {
		t.Fatalf("Response has no user")
	}
	if err := json.Unmarshal(e.User, target); err != nil {
		t.Fatalf("Failed to decode user: %v. User: %s", err, string(e.User))
	}
}

// Client drives a Fiber app in process and carries cookies between requests
// the way a browser would.
type Client struct {
	app     *fiber.App
	cookies map[string]string
}

// NewClient returns a client with an empty cookie jar
func NewClient(app *fiber.App) *Client {
	return &Client{app: app, cookies: map[string]string{}}
}

// Cookie returns the current value of a cookie, empty when unset
func (c *Client) Cookie(name string) string {
	return c.cookies[name]
}

// SetCookie stores a cookie value, or removes it when value is empty
func (c *Client) SetCookie(name, value string) {
	if value == "" {
		delete(c.cookies, name)
		return
	}
	c.cookies[name] = value
}

// Do sends a request. A non-nil body is sent as JSON unless it is an io.Reader.
func (c *Client) Do(t testing.TB, method, path string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case io.Reader:
		reader = b
	default:
		raw, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(raw)
		contentType = fiber.MIMEApplicationJSON
	}

	req := httptest.NewRequest(method, path, reader)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return c.send(t, req)
}

// Upload posts a multipart form with one file part named "file"
func (c *Client) Upload(t testing.TB, path string, fields map[string]string, filename string, content []byte) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field %s: %v", k, err)
		}
	}
	if filename != "" {
		part, err := w.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		if _, err := part.Write(content); err != nil {
			t.Fatalf("Failed to write file part: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return c.send(t, req)
}

// Call sends a request and decodes the response envelope
func (c *Client) Call(t testing.TB, method, path string, body any) (int, Envelope) {
	t.Helper()
	resp := c.Do(t, method, path, body)
	var env Envelope
	ParseJSON(t, resp, &env)
	return resp.StatusCode, env
}

func (c *Client) send(t testing.TB, req *http.Request) *http.Response {
	t.Helper()

	for name, value := range c.cookies {
		req.AddCookie(&http.Cookie{Name: name, Value: value})
	}

	// bcrypt at the default cost can exceed the default one second test timeout
	resp, err := c.app.Test(req, -1)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	for _, ck := range resp.Cookies() {
		if ck.MaxAge < 0 {
			c.SetCookie(ck.Name, "")
			continue
		}
		c.SetCookie(ck.Name, ck.Value)
	}
	return resp
}

// AssertStatus verifies the HTTP status code
func AssertStatus(t testing.TB, resp *http.Response, expected int) {
	t.Helper()
	if resp.StatusCode != expected {
		t.Errorf("Expected status %d, got %d", expected, resp.StatusCode)
	}
}

// ParseJSON decodes the response body into the target
func ParseJSON(t testing.TB, resp *http.Response, target any) {
	t.Helper()
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response body: %v", err)
	}
	if err := json.Unmarshal(body, target); err != nil {
		t.Fatalf("Failed to decode JSON: %v. Body: %s", err, string(body))
	}
}
