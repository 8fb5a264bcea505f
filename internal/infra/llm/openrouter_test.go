package llm_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/wooinsight/wooinsight-go/internal/domain"
	"github.com/wooinsight/wooinsight-go/internal/infra/llm"
	"github.com/wooinsight/wooinsight-go/internal/infra/resilience"

	"go.uber.org/zap"
)

func newTestClient(srv *httptest.Server) *llm.Client {
	return llm.NewClient(
		srv.Client(),
		srv.URL,
		"sk-or-test",
		"qwen/qwen3-max",
		resilience.NewCircuitBreaker("llm-test"),
		resilience.Config{MaxRetries: 0, InitialBackoff: 10 * time.Millisecond},
		zap.NewNop(),
	)
}

func sseBody(chunks ...string) string {
	var b strings.Builder
	for _, c := range chunks {
		b.WriteString("data: " + c + "\n\n")
	}
	b.WriteString("data: [DONE]\n\n")
	return b.String()
}

func TestStreamChat_ForwardsTokensInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-or-test" {
			t.Errorf("unexpected auth header: %s", got)
		}
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, sseBody(
			`{"choices":[{"delta":{"content":"{\"narrative\":"}}]}`,
			`{"choices":[{"delta":{"content":"\"ok\"}"}}]}`,
			`{"choices":[],"usage":{"prompt_tokens":120,"completion_tokens":8,"total_tokens":128}}`,
		))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	var assembled strings.Builder
	usage, err := client.StreamChat(context.Background(), "system prompt",
		[]domain.ChatMessage{{Role: "user", Content: "revenue?"}},
		func(token string) error {
			assembled.WriteString(token)
			return nil
		})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if assembled.String() != `{"narrative":"ok"}` {
		t.Errorf("unexpected assembled text: %s", assembled.String())
	}
	if usage == nil || usage.TotalTokens != 128 {
		t.Errorf("expected usage reported, got %+v", usage)
	}
}

func TestStreamChat_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := newTestClient(srv)

	_, err := client.StreamChat(context.Background(), "sys", nil, func(string) error { return nil })
	if err == nil {
		t.Fatal("expected error for 429 response")
	}

	var provider *domain.ErrModelProvider
	if !errors.As(err, &provider) {
		t.Fatalf("expected ErrModelProvider, got %T: %v", err, err)
	}
}

func TestStreamChat_CallerDisconnectStopsForwarding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, sseBody(
			`{"choices":[{"delta":{"content":"first"}}]}`,
			`{"choices":[{"delta":{"content":"second"}}]}`,
			`{"choices":[{"delta":{"content":"third"}}]}`,
		))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	var tokens []string
	_, err := client.StreamChat(context.Background(), "sys", nil, func(token string) error {
		tokens = append(tokens, token)
		if len(tokens) == 2 {
			return errors.New("client gone")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("caller disconnect is not an error, got %v", err)
	}
	if len(tokens) != 2 {
		t.Errorf("expected forwarding to stop after 2 tokens, got %d", len(tokens))
	}
}

func TestStreamChat_SkipsMalformedChunks(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "data: not-json\n\n")
		fmt.Fprint(w, sseBody(`{"choices":[{"delta":{"content":"ok"}}]}`))
	}))
	defer srv.Close()

	client := newTestClient(srv)

	var assembled strings.Builder
	_, err := client.StreamChat(context.Background(), "sys", nil, func(token string) error {
		assembled.WriteString(token)
		return nil
	})
	if err != nil {
		t.Fatalf("expected malformed chunk to be skipped, got %v", err)
	}
	if assembled.String() != "ok" {
		t.Errorf("unexpected assembled text: %s", assembled.String())
	}
}
