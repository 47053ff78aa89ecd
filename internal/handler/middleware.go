package handler

import (
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/angeloszaimis/cantonese-split/internal/metrics"
	"github.com/angeloszaimis/cantonese-split/internal/split"
)

var errPanic = errors.New("panic while handling request")

const (
	RequestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	requestStartKey = "request_start"
)

// RequestID reuses the caller's X-Request-ID or assigns a new one, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request after it has been handled.
func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		level := slog.LevelInfo
		if status >= 500 {
			level = slog.LevelError
		} else if status >= 400 {
			level = slog.LevelWarn
		}

		logger.Log(c.Request.Context(), level, "Handled request",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("from", extractClientIP(c.Request)),
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("proto", c.Request.Proto),
			slog.String("user_agent", c.Request.UserAgent()),
			slog.Int("status", status),
			slog.Duration("duration", time.Since(start)))
	}
}

// Recovery turns a panic into a 500 internal error response. The panic value
// is logged, never sent to the client. The failure is reported to collector
// like any other failed request; collector may be nil.
func Recovery(logger *slog.Logger, collector *metrics.Collector) gin.HandlerFunc {
	recovery := gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, recovered any) {
		logger.Error("Recovered from panic",
			slog.String("request_id", c.GetString(requestIDKey)),
			slog.String("path", c.Request.URL.Path),
			slog.Any("panic", recovered))

		status := abortWithError(c, &split.Error{Kind: split.KindInternal, Err: errPanic})

		if collector != nil {
			collector.Emit(metrics.MetricEvent{
				Type:       metrics.EventRequestFailed,
				Endpoint:   c.Request.URL.Path,
				Duration:   time.Since(c.GetTime(requestStartKey)),
				StatusCode: status,
				ErrorKind:  string(split.KindInternal),
			})
		}
	})

	return func(c *gin.Context) {
		c.Set(requestStartKey, time.Now())
		recovery(c)
	}
}

func extractClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
