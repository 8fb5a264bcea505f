// Package llm provides a streaming client for an OpenAI-compatible chat
// completions endpoint (OpenRouter).
package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/wooinsight/wooinsight-go/internal/domain"
	"github.com/wooinsight/wooinsight-go/internal/infra/resilience"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("llm")

// Client calls the provider's /chat/completions endpoint in streaming mode.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
	cb         *gobreaker.CircuitBreaker
	cfg        resilience.Config
	logger     *zap.Logger
}

// NewClient creates the model provider client.
func NewClient(httpClient *http.Client, baseURL, apiKey, model string, cb *gobreaker.CircuitBreaker, cfg resilience.Config, logger *zap.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
		cb:         cb,
		cfg:        cfg,
		logger:     logger,
	}
}

// --- wire shapes (OpenAI chat completions) ---

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type streamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

type chatRequest struct {
	Model         string         `json:"model"`
	Messages      []chatMessage  `json:"messages"`
	Stream        bool           `json:"stream"`
	StreamOptions *streamOptions `json:"stream_options,omitempty"`
}

type streamChunk struct {
	Choices []struct {
		Delta struct {
			Content string `json:"content"`
		} `json:"delta"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// StreamChat sends the system prompt plus the full message history and
// forwards each decoded token to onToken in arrival order. Retries (when
// enabled) apply only to establishing the stream; once tokens have been
// forwarded a failure is final, so the caller never sees duplicates.
func (c *Client) StreamChat(ctx context.Context, system string, messages []domain.ChatMessage, onToken func(token string) error) (*domain.TokenUsage, error) {
	ctx, span := tracer.Start(ctx, "LLM.StreamChat")
	defer span.End()
	span.SetAttributes(
		attribute.String("llm.model", c.model),
		attribute.Int("llm.history_len", len(messages)),
	)

	msgs := make([]chatMessage, 0, len(messages)+1)
	msgs = append(msgs, chatMessage{Role: "system", Content: system})
	for _, m := range messages {
		msgs = append(msgs, chatMessage{Role: m.Role, Content: m.Content})
	}

	payload, err := json.Marshal(chatRequest{
		Model:         c.model,
		Messages:      msgs,
		Stream:        true,
		StreamOptions: &streamOptions{IncludeUsage: true},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat request: %w", err)
	}

	var usage *domain.TokenUsage

	_, err = c.cb.Execute(func() (any, error) {
		var resp *http.Response

		connectErr := resilience.RetryWithBackoff(ctx, c.cfg, func() error {
			req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
			if err != nil {
				return fmt.Errorf("create chat request: %w", err)
			}
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
			req.Header.Set("Content-Type", "application/json")
			req.Header.Set("Accept", "text/event-stream")

			r, err := c.httpClient.Do(req)
			if err != nil {
				return fmt.Errorf("chat completions call: %w", err)
			}
			if r.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(io.LimitReader(r.Body, 4096))
				r.Body.Close()
				c.logger.Warn("llm: non-200 response",
					zap.Int("status", r.StatusCode),
					zap.ByteString("body", body),
				)
				return fmt.Errorf("chat completions returned status %d", r.StatusCode)
			}
			resp = r
			return nil
		})
		if connectErr != nil {
			return nil, connectErr
		}
		defer resp.Body.Close()

		u, streamErr := c.consumeStream(resp.Body, onToken)
		if streamErr != nil {
			return nil, streamErr
		}
		usage = u
		return nil, nil
	})
	if err != nil {
		return nil, &domain.ErrModelProvider{Err: err}
	}

	return usage, nil
}

// consumeStream reads SSE lines, decoding each data chunk and forwarding
// token deltas until the [DONE] sentinel or EOF.
func (c *Client) consumeStream(body io.Reader, onToken func(string) error) (*domain.TokenUsage, error) {
	var usage *domain.TokenUsage

	scanner := bufio.NewScanner(body)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "data:") {
			continue
		}
		data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
		if data == "[DONE]" {
			break
		}

		var chunk streamChunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			c.logger.Debug("llm: skipping undecodable chunk", zap.Error(err))
			continue
		}

		if chunk.Usage != nil {
			usage = &domain.TokenUsage{
				PromptTokens:     chunk.Usage.PromptTokens,
				CompletionTokens: chunk.Usage.CompletionTokens,
				TotalTokens:      chunk.Usage.TotalTokens,
			}
		}

		for _, choice := range chunk.Choices {
			if choice.Delta.Content == "" {
				continue
			}
			if err := onToken(choice.Delta.Content); err != nil {
				// caller gone; nothing to compensate, just stop forwarding
				return usage, nil
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return usage, fmt.Errorf("read token stream: %w", err)
	}

	return usage, nil
}
