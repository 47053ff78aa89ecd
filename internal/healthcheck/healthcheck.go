package healthcheck

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/angeloszaimis/cantonese-split/internal/dictionary"
	"github.com/angeloszaimis/cantonese-split/internal/workerpool"
)

const (
	StatusOK          = "ok"
	StatusUnavailable = "unavailable"
)

// Readiness is implemented by *analyzer.Analyzer.
type Readiness interface {
	WarmedUp() bool
	Dictionary() *dictionary.Dictionary
}

type DictionaryStatus struct {
	Source      string `json:"source"`
	Entries     int    `json:"entries"`
	Fingerprint string `json:"fingerprint"`
}

type Report struct {
	Status     string            `json:"status"`
	WarmedUp   bool              `json:"warmed_up"`
	Dictionary *DictionaryStatus `json:"dictionary,omitempty"`
	Workers    workerpool.Stats  `json:"workers"`
	Timestamp  int64             `json:"timestamp"`
}

// Check builds a report. A nil Readiness means the analyzer has not been
// initialized yet.
func Check(r Readiness, pool *workerpool.Pool) Report {
	report := Report{
		Status:    StatusUnavailable,
		Workers:   pool.Stats(),
		Timestamp: time.Now().Unix(),
	}
	if r == nil {
		return report
	}

	if d := r.Dictionary(); d != nil {
		report.Dictionary = &DictionaryStatus{
			Source:      d.Source(),
			Entries:     d.Len(),
			Fingerprint: d.Fingerprint(),
		}
	}

	report.WarmedUp = r.WarmedUp()
	if report.WarmedUp {
		report.Status = StatusOK
	}

	return report
}

// Handler responds 200 when ready and 503 otherwise.
func Handler(r Readiness, pool *workerpool.Pool) gin.HandlerFunc {
	return func(c *gin.Context) {
		report := Check(r, pool)

		status := http.StatusOK
		if report.Status != StatusOK {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, report)
	}
}

// WaitReady polls the /health endpoint under baseURL every interval until it
// answers 200 or ctx ends.
func WaitReady(
	ctx context.Context,
	baseURL *url.URL,
	interval time.Duration,
	logger *slog.Logger,
) error {
	client := &http.Client{
		Timeout: 5 * time.Second,
	}

	healthURL := baseURL.ResolveReference(&url.URL{Path: "/health"})

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if probe(ctx, client, healthURL.String()) {
			logger.Info("Server is ready",
				slog.String("server", baseURL.String()))
			return nil
		}

		select {
		case <-ctx.Done():
			logger.Warn("Gave up waiting for server",
				slog.String("server", baseURL.String()))
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func probe(ctx context.Context, client *http.Client, healthURL string) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, healthURL, nil)
	if err != nil {
		return false
	}

	res, err := client.Do(req)
	if err != nil {
		return false
	}
	defer res.Body.Close()

	return res.StatusCode == http.StatusOK
}
