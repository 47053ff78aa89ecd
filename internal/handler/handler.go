package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/cantonese-split/internal/metrics"
	"github.com/angeloszaimis/cantonese-split/internal/split"
)

const SplitPath = "/cantonese_split"

var errNotReady = errors.New("analyzer is not ready")

type SplitHandler struct {
	logger           *slog.Logger
	splitter         *split.Splitter
	metricsCollector *metrics.Collector
	maxBodyBytes     int64
}

func NewSplitHandler(logger *slog.Logger, splitter *split.Splitter, collector *metrics.Collector, maxBodyBytes int64) *SplitHandler {
	return &SplitHandler{
		logger:           logger,
		splitter:         splitter,
		metricsCollector: collector,
		maxBodyBytes:     maxBodyBytes,
	}
}

// Handle serves POST /cantonese_split.
func (h *SplitHandler) Handle(c *gin.Context) {
	start := time.Now()
	h.emitEvent(metrics.MetricEvent{
		Type:     metrics.EventRequestReceived,
		Endpoint: SplitPath,
	})

	if h.splitter == nil {
		h.fail(c, start, &split.Error{Kind: split.KindUnavailable, Err: errNotReady})
		return
	}

	body := c.Request.Body
	if h.maxBodyBytes > 0 {
		body = http.MaxBytesReader(c.Writer, body, h.maxBodyBytes)
	}

	batch, err := split.DecodeBatch(body)
	if err != nil {
		h.fail(c, start, err)
		return
	}

	resp, err := h.splitter.Split(c.Request.Context(), batch)
	if err != nil {
		h.fail(c, start, err)
		return
	}

	c.JSON(http.StatusOK, resp)

	chars, unknown := resp.Counts()
	h.logger.Info("Split request",
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.Int("keys", len(batch)),
		slog.Int("chars", chars),
		slog.Int("unknown", unknown))

	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventRequestCompleted,
		Endpoint:   SplitPath,
		Duration:   time.Since(start),
		StatusCode: http.StatusOK,
		Keys:       len(batch),
		Chars:      chars,
		Unknown:    unknown,
	})
}

func (h *SplitHandler) fail(c *gin.Context, start time.Time, err error) {
	status := abortWithError(c, err)

	kind := split.KindOf(err)
	attrs := []any{
		slog.String("request_id", c.GetString(requestIDKey)),
		slog.String("kind", string(kind)),
		slog.Int("status", status),
		slog.String("error", err.Error()),
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("Split request failed", attrs...)
	} else {
		h.logger.Warn("Split request rejected", attrs...)
	}

	h.emitEvent(metrics.MetricEvent{
		Type:       metrics.EventRequestFailed,
		Endpoint:   SplitPath,
		Duration:   time.Since(start),
		StatusCode: status,
		ErrorKind:  string(kind),
	})
}

func (h *SplitHandler) emitEvent(event metrics.MetricEvent) {
	if h.metricsCollector == nil {
		return
	}
	h.metricsCollector.Emit(event)
}
