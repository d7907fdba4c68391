package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/atolz-bro/usermanagementservice/pkg/api"
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Message    string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}

// IsStatus reports whether err carries the given HTTP status.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}

// Client представляет HTTP клиент для взаимодействия с сервером
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient создает новый API клиент
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("stopped after 10 redirects")
				}
				// Authorization переносится на тот же хост
				if len(via) > 0 && via[0].URL.Host == req.URL.Host && via[0].Header.Get("Authorization") != "" {
					req.Header.Set("Authorization", via[0].Header.Get("Authorization"))
				}
				return nil
			},
		},
	}
}

// Login выполняет аутентификацию пользователя
func (c *Client) Login(ctx context.Context, req api.LoginRequest) (*api.TokenResponse, error) {
	var resp api.TokenResponse
	if err := c.doRequest(ctx, http.MethodPost, "/api/auth/login", "", req, &resp); err != nil {
		return nil, fmt.Errorf("login request failed: %w", err)
	}
	return &resp, nil
}

// Health запрашивает состояние сервера
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.doRequest(ctx, http.MethodGet, "/api/health", "", nil, &resp); err != nil {
		return nil, fmt.Errorf("health request failed: %w", err)
	}
	return &resp, nil
}

// CreateUser создает пользователя
func (c *Client) CreateUser(ctx context.Context, token string, req api.CreateUserRequest) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodPost, "/api/users", token, req, &resp); err != nil {
		return nil, fmt.Errorf("create user request failed: %w", err)
	}
	return &resp, nil
}

// GetUser получает пользователя по id
func (c *Client) GetUser(ctx context.Context, token string, id int64) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodGet, userPath(id), token, nil, &resp); err != nil {
		return nil, fmt.Errorf("get user request failed: %w", err)
	}
	return &resp, nil
}

// UpdateUser изменяет username, email или role
func (c *Client) UpdateUser(ctx context.Context, token string, id int64, req api.UpdateUserRequest) (*api.User, error) {
	var resp api.User
	if err := c.doRequest(ctx, http.MethodPut, userPath(id), token, req, &resp); err != nil {
		return nil, fmt.Errorf("update user request failed: %w", err)
	}
	return &resp, nil
}

// DeleteUser удаляет пользователя и возвращает текст ответа сервера
func (c *Client) DeleteUser(ctx context.Context, token string, id int64) (string, error) {
	var msg string
	if err := c.doRequest(ctx, http.MethodDelete, userPath(id), token, nil, &msg); err != nil {
		return "", fmt.Errorf("delete user request failed: %w", err)
	}
	return msg, nil
}

func userPath(id int64) string {
	return fmt.Sprintf("/api/users/%d", id)
}

// doRequest выполняет HTTP запрос. Если result имеет тип *string,
// в него записывается тело ответа как есть.
func (c *Client) doRequest(ctx context.Context, method, path, token string, body, result any) error {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &StatusError{StatusCode: resp.StatusCode, Message: errorMessage(respBody)}
	}

	switch dst := result.(type) {
	case nil:
	case *string:
		*dst = string(respBody)
	default:
		if err := json.Unmarshal(respBody, dst); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// errorMessage достает текст ошибки из JSON {"error": ...} или plain text тела
func errorMessage(body []byte) string {
	var errResp api.ErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error != "" {
		if errResp.Message != "" {
			return errResp.Error + ": " + errResp.Message
		}
		return errResp.Error
	}
	return strings.TrimSpace(string(body))
}
