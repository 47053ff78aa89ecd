package healthcheck_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/angeloszaimis/cantonese-split/internal/analyzer"
	"github.com/angeloszaimis/cantonese-split/internal/dictionary"
	"github.com/angeloszaimis/cantonese-split/internal/healthcheck"
	"github.com/angeloszaimis/cantonese-split/internal/workerpool"
)

var _ = Describe("Healthcheck", func() {
	var (
		a    *analyzer.Analyzer
		pool *workerpool.Pool
		log  *slog.Logger
	)

	BeforeEach(func() {
		d, err := dictionary.Embedded()
		Expect(err).NotTo(HaveOccurred())
		a, err = analyzer.New(d, analyzer.Options{})
		Expect(err).NotTo(HaveOccurred())

		pool = workerpool.New(3)
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	})

	Describe("Check", func() {
		It("is unavailable before warm-up", func() {
			report := healthcheck.Check(a, pool)
			Expect(report.Status).To(Equal(healthcheck.StatusUnavailable))
			Expect(report.WarmedUp).To(BeFalse())
			Expect(report.Dictionary).NotTo(BeNil())
		})

		It("is ok after warm-up and describes the dictionary", func() {
			Expect(a.Warmup()).To(Succeed())

			report := healthcheck.Check(a, pool)
			Expect(report.Status).To(Equal(healthcheck.StatusOK))
			Expect(report.Dictionary.Source).To(Equal(dictionary.SourceEmbedded))
			Expect(report.Dictionary.Entries).To(Equal(a.Dictionary().Len()))
			Expect(report.Dictionary.Fingerprint).To(Equal(a.Dictionary().Fingerprint()))
			Expect(report.Workers.Size).To(Equal(int64(3)))
		})

		It("is unavailable without an analyzer", func() {
			report := healthcheck.Check(nil, pool)
			Expect(report.Status).To(Equal(healthcheck.StatusUnavailable))
			Expect(report.Dictionary).To(BeNil())
		})
	})

	Describe("Handler", func() {
		var router *gin.Engine

		BeforeEach(func() {
			gin.SetMode(gin.TestMode)
			router = gin.New()
			router.GET("/health", healthcheck.Handler(a, pool))
		})

		It("returns 503 before warm-up", func() {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(w.Code).To(Equal(http.StatusServiceUnavailable))
		})

		It("returns 200 with a report after warm-up", func() {
			Expect(a.Warmup()).To(Succeed())

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
			Expect(w.Code).To(Equal(http.StatusOK))

			var report healthcheck.Report
			Expect(json.Unmarshal(w.Body.Bytes(), &report)).To(Succeed())
			Expect(report.WarmedUp).To(BeTrue())
		})
	})

	Describe("WaitReady", func() {
		It("returns once the server reports healthy", func() {
			var calls atomic.Int32
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path == "/health" && calls.Add(1) >= 3 {
					w.WriteHeader(http.StatusOK)
					return
				}
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			err := healthcheck.WaitReady(ctx, mustParseURL(server.URL), 10*time.Millisecond, log)
			Expect(err).NotTo(HaveOccurred())
			Expect(calls.Load()).To(BeNumerically(">=", 3))
		})

		It("stops when the context is cancelled", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			}))
			defer server.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()

			err := healthcheck.WaitReady(ctx, mustParseURL(server.URL), 10*time.Millisecond, log)
			Expect(err).To(MatchError(context.DeadlineExceeded))
		})
	})
})

func mustParseURL(rawURL string) *url.URL {
	u, err := url.Parse(rawURL)
	if err != nil {
		panic(err)
	}
	return u
}
