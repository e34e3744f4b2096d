package predict

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/azhaanglitch/smart-accident-detector/internal/urlutil"
)

// requestTimeout bounds one prediction round trip. Media uploads are
// slower than the auth legs, so this is deliberately generous.
const requestTimeout = 60 * time.Second

// maxResponseBytes caps how much of the backend response is relayed.
const maxResponseBytes = 1 << 20

// Result is the backend's response relayed verbatim. The JSON contract
// belongs to the prediction backend; this client never interprets it.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Client forwards uploaded media to the external accident-prediction
// backend and relays whatever it answers.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a prediction client. An empty baseURL disables it.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
	}
}

// Enabled reports whether a prediction backend is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != ""
}

// Predict streams the multipart upload to the backend's predict
// endpoint. contentType must carry the original multipart boundary.
func (c *Client) Predict(ctx context.Context, contentType string, body io.Reader) (*Result, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("prediction backend is not configured")
	}

	url, err := urlutil.JoinPath(c.baseURL, "predict")
	if err != nil {
		return nil, fmt.Errorf("bad prediction backend URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to build prediction request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("prediction request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read prediction response: %w", err)
	}

	return &Result{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Body:        payload,
	}, nil
}
