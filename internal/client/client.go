package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gennadis/buddychat/internal/chat"
	"github.com/gennadis/buddychat/internal/config"
	"github.com/google/uuid"
)

const (
	JSONContentType = "application/json"
)

type ApiErrorResponse struct {
	Detail string `json:"detail"`
}

// Client talks to the remote agent service. It is stateless: the session id
// lives with the caller and is passed in on every chat/history call.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

func NewClient(cfg config.Config) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    cfg.BaseURL,
	}
}

// CreateSession registers the onboarding profile with the agent service and
// returns the issued session id together with the buddy's greeting.
func (c *Client) CreateSession(ctx context.Context, profile chat.Profile) (*CreateSessionResponse, error) {
	reqBody := CreateSessionRequest{OnboardingData: NewOnboardingData(profile)}

	body, err := c.send(ctx, http.MethodPost, "/create-session", reqBody)
	if err != nil {
		slog.Error("Failed to create session", "error", err)
		return nil, err
	}

	sessionResp := CreateSessionResponse{}
	if err := json.Unmarshal(body, &sessionResp); err != nil {
		slog.Error("Failed to unmarshal create session response body", "error", err)
		return nil, err
	}
	return &sessionResp, nil
}

// SendTurn sends one user message for the given session and returns the
// agent's reply text.
func (c *Client) SendTurn(ctx context.Context, sessionID, text string) (string, error) {
	reqBody := ChatRequest{Message: text, SessionID: sessionID}

	body, err := c.send(ctx, http.MethodPost, "/chat", reqBody)
	if err != nil {
		slog.Error("Failed to send chat turn", "error", err)
		return "", err
	}

	chatResp := ChatResponse{}
	if err := json.Unmarshal(body, &chatResp); err != nil {
		slog.Error("Failed to unmarshal chat response body", "error", err)
		return "", err
	}
	return chatResp.Response, nil
}

// FetchHistory returns the server-side transcript for the given session in
// chronological order.
func (c *Client) FetchHistory(ctx context.Context, sessionID string) ([]HistoryMessage, error) {
	path := fmt.Sprintf("/session/%s/history", sessionID)

	body, err := c.send(ctx, http.MethodGet, path, nil)
	if err != nil {
		slog.Error("Failed to fetch session history", "error", err)
		return nil, err
	}

	historyResp := HistoryResponse{}
	if err := json.Unmarshal(body, &historyResp); err != nil {
		slog.Error("Failed to unmarshal history response body", "error", err)
		return nil, err
	}
	return historyResp.Messages, nil
}

func (c *Client) send(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBytes, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(reqBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	req.Header.Set("Content-Type", JSONContentType)
	req.Header.Set("Accept", JSONContentType)
	req.Header.Set("X-Request-Id", uuid.NewString())

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if err := handleApiError(res, body); err != nil {
		return nil, err
	}
	return body, nil
}

func handleApiError(res *http.Response, body []byte) error {
	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		apiErr := ApiErrorResponse{}
		if err := json.Unmarshal(body, &apiErr); err != nil || apiErr.Detail == "" {
			return fmt.Errorf("Api request failed: status code %d", res.StatusCode)
		}
		return fmt.Errorf("Api request failed: status code %d, message %s", res.StatusCode, apiErr.Detail)
	}
	return nil
}
