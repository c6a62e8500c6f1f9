package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"mediadeck/internal/apperrors"
	"mediadeck/internal/config"
)

const (
	authPath  = "/api/auth"
	mediaPath = "/api/media"

	requestTimeout = 30 * time.Second
	userAgent      = "mediadeck/1.0"
)

// Client handles communication with the remote catalog API
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *logrus.Logger
}

// NewClient creates a new catalog API client
func NewClient(cfg *config.Config, logger *logrus.Logger) (*Client, error) {
	if cfg.APIBaseURL == "" {
		return nil, fmt.Errorf("catalog API base URL is required")
	}

	rps := cfg.RequestsPerSec
	if rps < 1 {
		rps = 1
	}

	return &Client{
		baseURL:    cfg.APIBaseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		logger:     logger,
	}, nil
}

// BaseURL returns the API origin, used to absolutize poster paths
func (c *Client) BaseURL() string {
	return c.baseURL
}

// bearerValue builds the Authorization header value. The header is
// always sent; without a token its value is empty rather than the
// header being omitted.
func bearerValue(token string) string {
	if token == "" {
		return ""
	}
	return "Bearer " + token
}

// doJSON performs a JSON request against the catalog API
func (c *Client) doJSON(ctx context.Context, method, path, token string, body, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reqBody io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	fullURL := c.baseURL + path
	c.logger.WithFields(logrus.Fields{
		"method": method,
		"url":    fullURL,
	}).Debug("Making catalog API request")

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Authorization", bearerValue(token))

	return c.send(req, method, path, result)
}

// send executes a prepared request and decodes the response
func (c *Client) send(req *http.Request, method, path string, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &apperrors.NetworkError{Op: method + " " + path, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return c.decodeAPIError(resp)
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return nil
}

// decodeAPIError maps a non-2xx response to the error taxonomy,
// preserving the server-provided message when one is present.
func (c *Client) decodeAPIError(resp *http.Response) error {
	bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))

	var payload struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(bodyBytes, &payload)

	c.logger.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"message":     payload.Message,
	}).Debug("Catalog API returned non-2xx status")

	return apperrors.FromStatus(resp.StatusCode, payload.Message)
}
