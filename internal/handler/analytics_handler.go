package handler

import (
	"net/http"

	"github.com/wooinsight/wooinsight-go/internal/infra/observability"
	"github.com/wooinsight/wooinsight-go/internal/service"

	"go.uber.org/zap"
)

// analyticsSummaryHandler serves GET /v1/analytics/summary: the local
// aggregation over the full order and catalog data, recomputed per call.
func analyticsSummaryHandler(svc *service.Assistant, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /v1/analytics/summary")
		defer span.End()

		summary, err := svc.BuildSummary(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		writeJSON(w, http.StatusOK, summary)
	}
}

// insightMetricsHandler serves GET /v1/metrics/insights with a counter
// snapshot (requests, tokens, cache hit rate).
func insightMetricsHandler(metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, metrics.Snapshot())
	}
}
