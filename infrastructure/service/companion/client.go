package companion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storedesk/storedesk/application/port/outbound"
	"github.com/storedesk/storedesk/domain/entity"
	apperror "github.com/storedesk/storedesk/domain/error"
	"github.com/storedesk/storedesk/infrastructure/service/logger"
)

// Client calls the companion API with the caller's bearer token
type Client struct {
	baseURL    string
	logger     logger.Logger
	httpClient *http.Client
}

// errorResponse is the companion API error body
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

var _ outbound.CompanionAPI = (*Client)(nil)

func NewClient(baseURL string, timeout time.Duration, log logger.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  log,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/products/"+url.PathEscape(id), nil, nil)
}

func (c *Client) CreateUser(ctx context.Context, input outbound.CreateUserInput) (*entity.AdminUser, error) {
	var user entity.AdminUser
	if err := c.do(ctx, http.MethodPost, "/api/users", input, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) UpdateUserRole(ctx context.Context, id string, role entity.Role) error {
	body := map[string]entity.Role{"role": role}
	return c.do(ctx, http.MethodPut, "/api/users/"+url.PathEscape(id)+"/role", body, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) SendOrderStatusUpdateEmail(ctx context.Context, orderID string, status entity.OrderStatus) error {
	body := map[string]entity.OrderStatus{"status": status}
	return c.do(ctx, http.MethodPost, "/api/orders/"+url.PathEscape(orderID)+"/status-update-email", body, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out interface{}) error {
	start := time.Now()

	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode companion request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to create companion request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := outbound.BearerTokenFromContext(ctx); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if cid := logger.CorrelationID(ctx); cid != "" {
		req.Header.Set("X-Correlation-ID", cid)
	}

	fields := map[string]interface{}{
		"method": method,
		"path":   path,
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error(ctx, "companion request failed", err, fields)
		return apperror.NewAppError(apperror.ErrCodeExternalServiceError, "Companion API unavailable", path, err)
	}
	defer resp.Body.Close()

	fields["status"] = resp.StatusCode
	logger.LogPerformance(ctx, c.logger, "companion_request", time.Since(start), fields)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperror.NewAppError(apperror.ErrCodeExternalServiceError, "Invalid companion API response", path, err)
	}
	return nil
}

// decodeError prefers the error field, then message, then the status text
func decodeError(resp *http.Response) error {
	var body errorResponse
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &body)

	message := body.Error
	if message == "" {
		message = body.Message
	}
	if message == "" {
		message = http.StatusText(resp.StatusCode)
	}
	return apperror.NewCompanionAPIError(resp.StatusCode, message)
}
