package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/wooinsight/wooinsight-go/internal/analytics"
	"github.com/wooinsight/wooinsight-go/internal/domain"
	"github.com/wooinsight/wooinsight-go/internal/infra/observability"
	"github.com/wooinsight/wooinsight-go/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var tracer = otel.Tracer("service/insight")

// Assistant orchestrates one analytics conversation turn: classify the
// query, fetch the matching store data concurrently, assemble the grounding
// context and stream the model reply.
type Assistant struct {
	store   port.StoreGateway
	model   port.InsightModel
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewAssistant creates the insight service with all dependencies injected.
func NewAssistant(
	store port.StoreGateway,
	model port.InsightModel,
	metrics *observability.Metrics,
	logger *zap.Logger,
) *Assistant {
	return &Assistant{
		store:   store,
		model:   model,
		metrics: metrics,
		logger:  logger,
	}
}

// StreamInsight runs a full turn and forwards each model token to onToken in
// arrival order. An error from onToken means the caller is gone and stops
// the stream without error. Store fetch failures degrade the context; only
// an empty conversation or a model failure is an error.
func (a *Assistant) StreamInsight(ctx context.Context, messages []domain.ChatMessage, onToken func(token string) error) (*domain.TokenUsage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(messages) == 0 {
		return nil, &domain.ErrValidation{Field: "messages", Message: "must not be empty"}
	}

	ctx, span := tracer.Start(ctx, "Assistant.StreamInsight")
	defer span.End()

	start := time.Now()
	defer func() {
		a.metrics.RecordRequestDuration("chat", time.Since(start))
	}()

	userQuery := messages[len(messages)-1].Content
	plan := ClassifyIntent(userQuery)
	span.SetAttributes(
		attribute.Bool("plan.sales", plan.WantsSales),
		attribute.Bool("plan.products", plan.WantsProducts),
		attribute.Bool("plan.analytics", plan.WantsAnalytics),
	)

	data := a.collect(ctx, plan)
	system := fmt.Sprintf(systemPromptFormat, buildContext(data))

	modelStart := time.Now()
	usage, err := a.model.StreamChat(ctx, system, messages, onToken)
	a.metrics.RecordRequestDuration("model", time.Since(modelStart))
	if err != nil {
		a.logger.Error("model call failed", zap.Error(err))
		a.metrics.IncrUpstreamError("model")
		return nil, fmt.Errorf("model call: %w", err)
	}

	if usage != nil {
		a.metrics.RecordTokens(usage.PromptTokens, usage.CompletionTokens)
	}
	return usage, nil
}

// Insight runs a turn without streaming and returns the assembled reply.
func (a *Assistant) Insight(ctx context.Context, messages []domain.ChatMessage) (string, *domain.TokenUsage, error) {
	var b strings.Builder
	usage, err := a.StreamInsight(ctx, messages, func(token string) error {
		b.WriteString(token)
		return nil
	})
	if err != nil {
		return "", nil, err
	}
	return b.String(), usage, nil
}

// BuildSummary fetches the full order and product data and returns the local
// analytics summary. Unlike the chat path, a failed fetch here is an error:
// the summary is the whole point of the call.
func (a *Assistant) BuildSummary(ctx context.Context) (*domain.Summary, error) {
	ctx, span := tracer.Start(ctx, "Assistant.BuildSummary")
	defer span.End()

	var (
		orders   []domain.Order
		products []domain.Product
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		o, err := a.store.Orders(gCtx, map[string]string{"status": "any"})
		if err != nil {
			a.metrics.IncrUpstreamError("orders")
			return fmt.Errorf("orders fetch: %w", err)
		}
		orders = o
		return nil
	})

	g.Go(func() error {
		p, err := a.store.Products(gCtx, map[string]string{"status": "any"})
		if err != nil {
			a.metrics.IncrUpstreamError("products")
			return fmt.Errorf("products fetch: %w", err)
		}
		products = p
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return analytics.BuildSummary(orders, products), nil
}
