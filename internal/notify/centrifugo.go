package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Publisher pushes a payload to a channel synchronously.
type Publisher interface {
	Publish(ctx context.Context, channel string, data any) error
}

// Centrifugo publishes through the Centrifugo server HTTP API.
type Centrifugo struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

func NewCentrifugo(host, apiKey string, timeout time.Duration) *Centrifugo {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Centrifugo{
		endpoint: strings.TrimRight(host, "/") + "/api/publish",
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type publishRequest struct {
	Channel string `json:"channel"`
	Data    any    `json:"data"`
}

type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type publishResponse struct {
	Error *apiError `json:"error,omitempty"`
}

func (c *Centrifugo) Publish(ctx context.Context, channel string, data any) error {
	body, err := json.Marshal(publishRequest{Channel: channel, Data: data})
	if err != nil {
		return fmt.Errorf("encode publish: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "apikey "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("publish %s: %w", channel, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("publish %s: unexpected status %d", channel, resp.StatusCode)
	}
	var out publishResponse
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &out); err != nil {
			return fmt.Errorf("decode publish response: %w", err)
		}
	}
	if out.Error != nil {
		return fmt.Errorf("publish %s: centrifugo error %d: %s", channel, out.Error.Code, out.Error.Message)
	}
	return nil
}
