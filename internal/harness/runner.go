package harness

import (
	"context"
	"time"

	"github.com/iammike/cardcheck/internal/domain"
	"github.com/iammike/cardcheck/internal/usecase"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultBatchSize  = 5
	DefaultBatchDelay = 500 * time.Millisecond

	// failures keep this many results for the report
	topResultCount = 3
)

// Pipeline is the part of the lookup service a run exercises
type Pipeline interface {
	NewSession(specifics domain.ItemSpecifics, title string) *usecase.LookupSession
	Query(session *usecase.LookupSession) string
	Search(ctx context.Context, query string, isSportsCard bool) (*domain.SearchResponse, error)
}

// Status is the verdict on one case
type Status string

const (
	StatusPass Status = "pass"
	StatusFail Status = "fail"
)

// CaseResult is the outcome of one case
type CaseResult struct {
	Case    Case
	Status  Status
	Message string

	// Reason explains a failure in full
	Reason     string
	Site       domain.Site
	Query      string
	Match      *domain.SearchResult
	TopResults []domain.SearchResult
	Record     *domain.CardRecord

	// Unvalidated is set when the case named no expected result
	Unvalidated bool
	Err         error
	Duration    time.Duration
}

// Config holds runner settings
type Config struct {
	BatchSize  int
	BatchDelay time.Duration
}

// Runner executes cases in fixed-size concurrent batches. Every case in a
// batch finishes before the next batch starts.
type Runner struct {
	pipeline   Pipeline
	batchSize  int
	batchDelay time.Duration
	sleep      func(context.Context, time.Duration) error
	logger     *zap.Logger
}

// NewRunner creates a new runner
func NewRunner(pipeline Pipeline, config Config, logger *zap.Logger) *Runner {
	if config.BatchSize < 1 {
		config.BatchSize = DefaultBatchSize
	}
	if config.BatchDelay < 0 {
		config.BatchDelay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		pipeline:   pipeline,
		batchSize:  config.BatchSize,
		batchDelay: config.BatchDelay,
		sleep:      sleepContext,
		logger:     logger,
	}
}

// Run executes all cases and reports them in input order. A case failure
// never stops the run; only ctx cancellation between batches does.
func (r *Runner) Run(ctx context.Context, cases []Case) (*Report, error) {
	start := time.Now()
	results := make([]CaseResult, len(cases))

	for offset := 0; offset < len(cases); offset += r.batchSize {
		end := min(offset+r.batchSize, len(cases))

		var g errgroup.Group
		for i := offset; i < end; i++ {
			g.Go(func() error {
				results[i] = r.runCase(ctx, cases[i])
				return nil
			})
		}
		_ = g.Wait()

		r.logger.Debug("batch complete",
			zap.Int("from", offset+1),
			zap.Int("to", end),
			zap.Int("total", len(cases)),
		)

		if end < len(cases) && r.batchDelay > 0 {
			if err := r.sleep(ctx, r.batchDelay); err != nil {
				return newReport(results[:end], time.Since(start)), eris.Wrap(err, "harness interrupted")
			}
		}
	}

	return newReport(results, time.Since(start)), nil
}

func (r *Runner) runCase(ctx context.Context, c Case) (res CaseResult) {
	start := time.Now()
	res = CaseResult{Case: c}
	defer func() {
		if p := recover(); p != nil {
			res.Status = StatusFail
			res.Message = "panic"
			res.Reason = eris.Errorf("panic: %v", p).Error()
		}
		res.Duration = time.Since(start)
		r.logger.Debug("case finished",
			zap.String("case", c.Label()),
			zap.String("status", string(res.Status)),
			zap.String("message", res.Message),
		)
	}()

	session := r.pipeline.NewSession(c.ItemSpecifics, c.Title)
	res.Record = session.Record
	res.Site = session.Site

	if session.Site != c.ExpectedSite {
		res.Status = StatusFail
		res.Message = "wrong routing"
		res.Reason = "Expected " + string(c.ExpectedSite) + ", got " + string(session.Site)
		return res
	}

	res.Query = r.pipeline.Query(session)
	resp, err := r.pipeline.Search(ctx, res.Query, session.IsSportsCard)
	if err != nil {
		res.Status = StatusFail
		res.Message = "search failed"
		res.Reason = err.Error()
		res.Err = err
		return res
	}

	if len(resp.Results) == 0 {
		res.Status = StatusFail
		res.Message = "no results"
		res.Reason = "No results found"
		res.Err = eris.Wrapf(domain.ErrNoCandidates, "query %q", res.Query)
		return res
	}

	if c.ExpectedResultName == "" {
		res.Status = StatusPass
		res.Unvalidated = true
		if resp.ExactMatch {
			res.Message = "exact match [no validation]"
		} else {
			res.Message = plural(len(resp.Results), "result") + " [no validation]"
		}
		return res
	}

	match, found := FindExpected(resp.Results, c.ExpectedResultName, c.ExpectedResultCategory)
	if !found {
		res.Status = StatusFail
		res.Message = `expected "` + c.ExpectedResultName + `" not found`
		res.Reason = `Expected "` + c.ExpectedResultName + `" not in results`
		res.TopResults = resp.Results[:min(topResultCount, len(resp.Results))]
		return res
	}

	res.Status = StatusPass
	res.Match = match
	res.Message = `found "` + match.Name + `" in ` + match.Category
	return res
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
