package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/fyrsmithlabs/mcpmoose/internal/config"
)

const pickToolName = "pick_moose_objects"

// Rate limiter defaults: 50 requests per minute with small bursts.
const (
	defaultRateLimit = 50.0 / 60.0
	defaultBurst     = 5

	defaultBaseBackoff = 1 * time.Second
)

// selectorPrompt is the system prompt for the object selector.
const selectorPrompt = `You are a selector of MOOSE objects.
RULES:
• If you choose any HeatConduction kernel you should also pick:
    - at least one Variables/* object.
    - at least one BCs/* object (e.g. DirichletBC or NeumannBC).
• Always pick one Mesh/* generator and one Outputs/* block.
Return the shortest list that satisfies the request and these rules.
• If unsure, include the mesh generator, a primary variable, appropriate boundary conditions, and a basic output block.`

// OpenAIPicker implements Picker with one chat-completions call carrying a
// single enum-constrained tool, so the model can only answer with names
// from the allowed list.
type OpenAIPicker struct {
	model      string
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	maxRetries int
	logger     *zap.Logger
}

// NewOpenAIPicker creates a picker from the openai config section.
func NewOpenAIPicker(cfg config.OpenAIConfig, logger *zap.Logger) (*OpenAIPicker, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai API key required (set OPENAI_API_KEY)")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &OpenAIPicker{
		model:   cfg.Model,
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:    rate.NewLimiter(rate.Limit(defaultRateLimit), defaultBurst),
		maxRetries: cfg.MaxRetries,
		logger:     logger,
	}, nil
}

// Request/response wire types for the chat completions endpoint.

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Tools       []chatTool    `json:"tools"`
	ToolChoice  any           `json:"tool_choice"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function toolFunction `json:"function"`
}

type toolFunction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Parameters  any    `json:"parameters"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			ToolCalls []struct {
				Function struct {
					Name      string `json:"name"`
					Arguments string `json:"arguments"`
				} `json:"function"`
			} `json:"tool_calls"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

type apiError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// Pick asks the model for the object names needed for the prompt. The
// allowed list becomes the enum of the tool's objects parameter.
func (p *OpenAIPicker) Pick(ctx context.Context, prompt string, allowed []string) ([]string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter error: %w", err)
	}

	req := chatRequest{
		Model:       p.model,
		Temperature: 0, // deterministic selection
		Messages: []chatMessage{
			{Role: "system", Content: selectorPrompt},
			{Role: "user", Content: prompt},
		},
		Tools: []chatTool{{
			Type: "function",
			Function: toolFunction{
				Name: pickToolName,
				Description: "Return the MOOSE object names needed to satisfy the request. " +
					"Choose ONLY from the provided list.",
				Parameters: map[string]any{
					"type": "object",
					"properties": map[string]any{
						"objects": map[string]any{
							"type": "array",
							"items": map[string]any{
								"type": "string",
								"enum": allowed,
							},
						},
					},
					"required": []string{"objects"},
				},
			},
		}},
		ToolChoice: map[string]any{
			"type":     "function",
			"function": map[string]string{"name": pickToolName},
		},
	}

	var lastErr error
	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := defaultBaseBackoff * time.Duration(1<<(attempt-1))
			p.logger.Debug("retrying openai request",
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}

		picked, err := p.doRequest(ctx, req)
		if err == nil {
			return picked, nil
		}

		lastErr = err
		if !isRetryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("max retries exceeded: %w", lastErr)
}

// doRequest performs one HTTP round trip to the chat completions endpoint.
func (p *OpenAIPicker) doRequest(ctx context.Context, req chatRequest) ([]string, error) {
	jsonData, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", p.baseURL+"/v1/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, &retryableError{err: fmt.Errorf("API request failed: %w", err)}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &retryableError{err: fmt.Errorf("rate limited (429)")}
	}
	if resp.StatusCode >= 500 {
		return nil, &retryableError{err: fmt.Errorf("server error (%d): %s", resp.StatusCode, string(body))}
	}
	if resp.StatusCode != http.StatusOK {
		var errResp apiError
		if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
			return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, errResp.Error.Message)
		}
		return nil, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if len(chatResp.Choices) == 0 || len(chatResp.Choices[0].Message.ToolCalls) == 0 {
		return nil, fmt.Errorf("no tool call in response")
	}

	call := chatResp.Choices[0].Message.ToolCalls[0]
	if call.Function.Name != pickToolName {
		return nil, fmt.Errorf("unexpected tool call %q", call.Function.Name)
	}

	var args struct {
		Objects []string `json:"objects"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return nil, fmt.Errorf("failed to parse tool arguments: %w", err)
	}

	return args.Objects, nil
}

// retryableError marks an error as safe to retry.
type retryableError struct {
	err error
}

func (e *retryableError) Error() string { return e.err.Error() }
func (e *retryableError) Unwrap() error { return e.err }

func isRetryable(err error) bool {
	var re *retryableError
	return errors.As(err, &re)
}

var _ Picker = (*OpenAIPicker)(nil)
