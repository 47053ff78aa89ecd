// Loadtest sends concurrent POST /cantonese_split requests and reports
// throughput, latency percentiles and status codes.
//
// Usage:
//
//	go run ./scripts -url http://localhost:48000 -concurrency 10 -requests 1000
//	go run ./scripts -url http://localhost:48000 -keys 8 -csv results.csv -out summary.json
//
// The tool waits for /health to report ready before the first request.
package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"runtime"
	"slices"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alecthomas/kong"
	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/cantonese-split/internal/healthcheck"
	"github.com/angeloszaimis/cantonese-split/pkg/logger"
)

var samples = []string{
	"你好",
	"廣東話",
	"我哋去飲茶",
	"唔該",
	"銀行喺邊度",
	"今日天氣好好",
	"多謝晒",
	"早晨",
}

type options struct {
	URL         string        `name:"url" help:"Base URL of the service." default:"http://localhost:48000"`
	Concurrency int           `name:"concurrency" help:"Number of concurrent workers." default:"10"`
	Requests    int           `name:"requests" help:"Total number of requests to send." default:"100"`
	Keys        int           `name:"keys" help:"Keys per request body." default:"4"`
	Timeout     time.Duration `name:"timeout" help:"Per-request timeout." default:"10s"`
	WaitReady   time.Duration `name:"wait-ready" help:"How long to wait for /health before giving up." default:"30s"`
	OutJSON     string        `name:"out" help:"Write JSON summary to this file."`
	OutCSV      string        `name:"csv" help:"Write per-request CSV to this file."`
	Verbose     bool          `name:"verbose" short:"v" help:"Log every request."`
}

type sample struct {
	requestID string
	status    int
	duration  time.Duration
	err       error
}

type summary struct {
	Target      string        `json:"target"`
	Requests    int           `json:"requests"`
	Concurrency int           `json:"concurrency"`
	Success     int64         `json:"success"`
	Failure     int64         `json:"failure"`
	StatusCodes map[int]int64 `json:"status_codes"`
	DurationMS  int64         `json:"duration_ms"`
	Throughput  float64       `json:"throughput_rps"`
	P50         float64       `json:"p50_ms"`
	P90         float64       `json:"p90_ms"`
	P95         float64       `json:"p95_ms"`
	P99         float64       `json:"p99_ms"`
}

func main() {
	var opts options
	kong.Parse(&opts,
		kong.Name("loadtest"),
		kong.Description("Load generator for POST /cantonese_split"),
	)

	log := logger.New("info", false, "dev")

	failures, err := run(opts, log)
	if err != nil {
		log.Error("Load test failed", slog.Any("err", err))
		os.Exit(1)
	}
	if failures > 0 {
		os.Exit(2)
	}
}

// run returns the number of failed requests.
func run(opts options, log *slog.Logger) (int64, error) {
	base, err := url.Parse(opts.URL)
	if err != nil {
		return 0, fmt.Errorf("parse url: %w", err)
	}
	target := base.JoinPath("/cantonese_split").String()

	ctx, cancel := context.WithTimeout(context.Background(), opts.WaitReady)
	err = healthcheck.WaitReady(ctx, base, 500*time.Millisecond, log)
	cancel()
	if err != nil {
		return 0, fmt.Errorf("service not ready: %w", err)
	}

	body := requestBody(opts.Keys)

	client := &http.Client{Timeout: opts.Timeout}
	results := make([]sample, opts.Requests)
	var success, failure atomic.Int64

	var csvWriter *csv.Writer
	var csvMu sync.Mutex
	if opts.OutCSV != "" {
		f, err := os.Create(opts.OutCSV)
		if err != nil {
			return 0, fmt.Errorf("create csv file: %w", err)
		}
		defer f.Close()
		csvWriter = csv.NewWriter(f)
		defer csvWriter.Flush()
		csvWriter.Write([]string{"idx", "timestamp", "request_id", "status", "duration_ms"})
	}

	var g errgroup.Group
	g.SetLimit(max(opts.Concurrency, 1))

	testStart := time.Now()
	for i := range opts.Requests {
		g.Go(func() error {
			s := send(client, target, body)
			results[i] = s

			if s.err == nil && s.status >= 200 && s.status <= 299 {
				success.Add(1)
			} else {
				failure.Add(1)
			}

			if csvWriter != nil {
				csvMu.Lock()
				csvWriter.Write([]string{
					strconv.Itoa(i),
					time.Now().Format(time.RFC3339Nano),
					s.requestID,
					strconv.Itoa(s.status),
					fmt.Sprintf("%.3f", float64(s.duration.Microseconds())/1000.0),
				})
				csvMu.Unlock()
			}

			if opts.Verbose {
				log.Info("Request done",
					slog.Int("idx", i),
					slog.String("request_id", s.requestID),
					slog.Int("status", s.status),
					slog.Duration("duration", s.duration),
					slog.Any("err", s.err))
			}
			return nil
		})
	}
	_ = g.Wait()

	sum := summarize(opts, target, results, time.Since(testStart))
	sum.Success = success.Load()
	sum.Failure = failure.Load()
	printSummary(sum)

	if opts.OutJSON != "" {
		if err := writeJSON(opts.OutJSON, sum); err != nil {
			return sum.Failure, err
		}
		fmt.Printf("\nWrote JSON summary to %s\n", opts.OutJSON)
	}

	return sum.Failure, nil
}

func requestBody(keys int) []byte {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i := range max(keys, 1) {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, _ := json.Marshal("k" + strconv.Itoa(i))
		text, _ := json.Marshal(samples[i%len(samples)])
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(text)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

func send(client *http.Client, target string, body []byte) sample {
	start := time.Now()

	resp, err := client.Post(target, "application/json", bytes.NewReader(body))
	if err != nil {
		return sample{err: err, duration: time.Since(start)}
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return sample{
		requestID: resp.Header.Get("X-Request-ID"),
		status:    resp.StatusCode,
		duration:  time.Since(start),
	}
}

func summarize(opts options, target string, results []sample, elapsed time.Duration) summary {
	sum := summary{
		Target:      target,
		Requests:    opts.Requests,
		Concurrency: opts.Concurrency,
		StatusCodes: make(map[int]int64),
		DurationMS:  elapsed.Milliseconds(),
		Throughput:  float64(len(results)) / elapsed.Seconds(),
	}

	latencies := make([]time.Duration, 0, len(results))
	for _, r := range results {
		if r.err == nil {
			sum.StatusCodes[r.status]++
		}
		latencies = append(latencies, r.duration)
	}
	slices.Sort(latencies)

	pick := func(p float64) float64 {
		if len(latencies) == 0 {
			return 0
		}
		return float64(latencies[int(float64(len(latencies)-1)*p)].Microseconds()) / 1000.0
	}
	sum.P50 = pick(0.50)
	sum.P90 = pick(0.90)
	sum.P95 = pick(0.95)
	sum.P99 = pick(0.99)

	return sum
}

func printSummary(sum summary) {
	fmt.Println("--- Load Test Summary ---")
	fmt.Printf("Target: %s\n", sum.Target)
	fmt.Printf("Requests: %d  Concurrency: %d\n", sum.Requests, sum.Concurrency)
	fmt.Printf("Success: %d  Failure: %d\n", sum.Success, sum.Failure)
	fmt.Printf("Duration: %dms  Throughput: %.2f req/s\n", sum.DurationMS, sum.Throughput)

	fmt.Println("\nStatus codes:")
	codes := make([]int, 0, len(sum.StatusCodes))
	for code := range sum.StatusCodes {
		codes = append(codes, code)
	}
	slices.Sort(codes)
	for _, code := range codes {
		fmt.Printf("  %d -> %d\n", code, sum.StatusCodes[code])
	}

	fmt.Println("\nLatencies (ms):")
	fmt.Printf("  p50=%.3f p90=%.3f p95=%.3f p99=%.3f\n", sum.P50, sum.P90, sum.P95, sum.P99)

	fmt.Printf("\nGOMAXPROCS=%d  NumGoroutine=%d\n", runtime.GOMAXPROCS(0), runtime.NumGoroutine())
}

func writeJSON(path string, sum summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create json file: %w", err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(sum)
}
