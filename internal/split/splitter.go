package split

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/angeloszaimis/cantonese-split/internal/analyzer"
	"github.com/angeloszaimis/cantonese-split/internal/jyutping"
	"github.com/angeloszaimis/cantonese-split/internal/workerpool"
)

// Analyzer is the pair of capabilities a Splitter needs.
type Analyzer interface {
	Segment(text string) ([]analyzer.Pair, error)
	Decompose(romanization string) ([]jyutping.Syllable, error)
}

type Splitter struct {
	logger   *slog.Logger
	analyzer Analyzer
	pool     *workerpool.Pool
}

func New(logger *slog.Logger, a Analyzer, pool *workerpool.Pool) *Splitter {
	return &Splitter{
		logger:   logger,
		analyzer: a,
		pool:     pool,
	}
}

// Split analyzes every entry of batch on the worker pool. Keys may run in
// parallel, at most the pool size at a time; the response is always in batch
// order. The first failure cancels keys that have not started yet.
func (s *Splitter) Split(ctx context.Context, batch Batch) (Response, error) {
	resp := make(Response, len(batch))
	errs := make([]error, len(batch))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.pool.Size())
	for i, entry := range batch {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				errs[i] = fmt.Errorf("%w: %w", workerpool.ErrUnavailable, err)
				return errs[i]
			}

			errs[i] = s.pool.Do(gctx, func() error {
				start := time.Now()
				records, err := s.Analyze(entry.Text)
				if err != nil {
					return err
				}

				resp[i] = Result{Key: entry.Key, Records: records}
				s.logger.Debug("Analyzed key",
					slog.String("key", entry.Key),
					slog.Int("chars", len(records)),
					slog.Duration("duration", time.Since(start)))
				return nil
			})
			return errs[i]
		})
	}

	if err := g.Wait(); err == nil {
		return resp, nil
	}

	return nil, firstFailure(batch, errs)
}

// firstFailure picks the error to report: the earliest key whose analysis
// failed, or, if every failure is a key that never got a worker, the earliest
// of those.
func firstFailure(batch Batch, errs []error) *Error {
	unavailable := -1
	for i, err := range errs {
		switch {
		case err == nil:
		case errors.Is(err, workerpool.ErrUnavailable):
			if unavailable < 0 {
				unavailable = i
			}
		default:
			return classify(batch[i].Key, err)
		}
	}
	return classify(batch[unavailable].Key, errs[unavailable])
}

// Analyze produces the records for a single text.
func (s *Splitter) Analyze(text string) ([]Record, error) {
	pairs, err := s.analyzer.Segment(text)
	if err != nil {
		return nil, fmt.Errorf("segment: %w", err)
	}

	records := make([]Record, 0, len(pairs))
	for _, p := range pairs {
		units := []Unit{}
		if p.Romanization != "" {
			syllables, err := s.analyzer.Decompose(p.Romanization)
			if err != nil {
				return nil, fmt.Errorf("decompose %q for %q: %w", p.Romanization, p.Char, err)
			}
			for _, syl := range syllables {
				units = append(units, Unit{
					Initial: syl.Onset,
					Nucleus: syl.Nucleus,
					Coda:    syl.Coda,
					Tone:    syl.Tone,
				})
			}
		}

		records = append(records, Record{
			Char:        p.Char,
			Pinyin:      p.Romanization,
			InitialList: units,
		})
	}

	return records, nil
}

func classify(key string, err error) *Error {
	if errors.Is(err, workerpool.ErrUnavailable) {
		return &Error{Kind: KindUnavailable, Key: key, Err: err}
	}
	return &Error{Kind: KindAnalysisFailure, Key: key, Err: err}
}
