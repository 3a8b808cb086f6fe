package telehealth

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

// RoomProvider provisions a video room and returns the URL participants
// join.
type RoomProvider interface {
	CreateRoom(ctx context.Context, name string, expiresAt time.Time) (string, error)
}

// ProviderOption configures an HTTPProvider.
type ProviderOption func(*HTTPProvider)

// WithHTTPClient overrides the default HTTP client used for provider
// calls.
func WithHTTPClient(c *http.Client) ProviderOption {
	return func(p *HTTPProvider) { p.client = c }
}

// HTTPProvider creates rooms against a Daily-compatible rooms API.
type HTTPProvider struct {
	apiURL string
	apiKey string
	client *http.Client
}

func NewHTTPProvider(apiURL, apiKey string, opts ...ProviderOption) *HTTPProvider {
	p := &HTTPProvider{
		apiURL: strings.TrimRight(apiURL, "/"),
		apiKey: apiKey,
		client: &http.Client{Timeout: 10 * time.Second},
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

type providerRoomRequest struct {
	Name       string         `json:"name"`
	Properties roomProperties `json:"properties"`
}

type roomProperties struct {
	Exp        int64 `json:"exp"`
	EjectAtExp bool  `json:"eject_at_room_exp"`
	EnableChat bool  `json:"enable_chat"`
}

type providerRoomResponse struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

func (p *HTTPProvider) CreateRoom(ctx context.Context, name string, expiresAt time.Time) (string, error) {
	body, err := json.Marshal(providerRoomRequest{
		Name: name,
		Properties: roomProperties{
			Exp:        expiresAt.Unix(),
			EjectAtExp: true,
			EnableChat: true,
		},
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.apiURL+"/rooms", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("video provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("video provider returned %d: %s", resp.StatusCode, snippet)
	}

	var out providerRoomResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("video provider response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("video provider response missing room url")
	}
	return out.URL, nil
}

// LocalProvider builds room URLs on the frontend without an external
// service. Used when no video API key is configured.
type LocalProvider struct {
	frontendURL string
}

func NewLocalProvider(frontendURL string) *LocalProvider {
	return &LocalProvider{frontendURL: strings.TrimRight(frontendURL, "/")}
}

func (p *LocalProvider) CreateRoom(_ context.Context, name string, _ time.Time) (string, error) {
	return p.frontendURL + "/room/" + name, nil
}
