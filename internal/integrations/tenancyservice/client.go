package tenancyservice

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент сервиса жильцов (привязки пользователей к квартирам)
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// GetTenancy получает привязку пользователя. nil без ошибки, если привязки нет (404)
func (c *Client) GetTenancy(ctx context.Context, userID int64) (*Tenancy, error) {
	url := fmt.Sprintf("%s/internal/users/%d/tenancy", c.baseURL, userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, nil
	default:
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
	}

	var tenancy Tenancy
	if err := json.NewDecoder(resp.Body).Decode(&tenancy); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &tenancy, nil
}

// HasActiveTenancy возвращает true, если у пользователя есть активная привязка к квартире.
// Ошибки сервиса не превращаются в отказ: вызывающий сам решает, что делать
func (c *Client) HasActiveTenancy(ctx context.Context, userID int64) (bool, error) {
	tenancy, err := c.GetTenancy(ctx, userID)
	if err != nil {
		c.log.Error("TenancyService unavailable for user_id=%d: %v", userID, err)
		return false, err
	}

	if tenancy == nil || !tenancy.Active {
		c.log.Info("No active tenancy for user_id=%d", userID)
		return false, nil
	}

	return true, nil
}
