package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/wooinsight/wooinsight-go/internal/domain"
	"github.com/wooinsight/wooinsight-go/internal/infra/observability"
	"github.com/wooinsight/wooinsight-go/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// errClientGone signals that the streaming client disconnected mid-reply.
var errClientGone = errors.New("client disconnected")

// chatHandler serves POST /v1/chat. The default mode streams raw model
// tokens as they arrive (text/plain); ?stream=false waits for the full
// reply and returns it as a JSON envelope with the parsed insight.
func chatHandler(svc *service.Assistant, metrics *observability.Metrics, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /v1/chat")
		defer span.End()

		var req domain.ChatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if len(req.Messages) == 0 {
			writeError(w, http.StatusBadRequest, "messages must not be empty")
			return
		}

		if r.URL.Query().Get("stream") == "false" {
			content, usage, err := svc.Insight(ctx, req.Messages)
			if err != nil {
				metrics.IncrRequest("error")
				handleServiceError(w, err, logger)
				return
			}
			metrics.IncrRequest("success")

			writeJSON(w, http.StatusOK, domain.ChatResponse{
				ConversationID: uuid.New().String(),
				Message: &domain.ChatReply{
					ID:        uuid.New().String(),
					Role:      "assistant",
					Content:   content,
					Timestamp: time.Now().Format(time.RFC3339),
				},
				Insight:    service.ExtractInsight(content),
				TokenUsage: usage,
			})
			return
		}

		flusher, ok := w.(http.Flusher)
		if !ok {
			writeError(w, http.StatusInternalServerError, "streaming unsupported")
			return
		}

		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")

		wroteToken := false
		_, err := svc.StreamInsight(ctx, req.Messages, func(token string) error {
			if _, werr := w.Write([]byte(token)); werr != nil {
				return errClientGone
			}
			wroteToken = true
			flusher.Flush()
			return nil
		})
		if err != nil {
			metrics.IncrRequest("error")
			if !wroteToken {
				handleServiceError(w, err, logger)
				return
			}
			// Headers already went out; nothing left but to log.
			logger.Error("stream aborted mid-reply", zap.Error(err))
			return
		}
		metrics.IncrRequest("success")
	}
}
