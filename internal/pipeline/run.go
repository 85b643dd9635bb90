// Package pipeline orchestrates a department run: discovery, per-person enrichment and persistence.
package pipeline

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jonathan/faculty-enricher/internal/extraction"
	"github.com/jonathan/faculty-enricher/internal/logger"
	"github.com/jonathan/faculty-enricher/internal/types"
)

// Step names reported in progress events.
const (
	StepDiscover  = "discover"
	StepAggregate = "aggregate"
	StepExtract   = "extract"
	StepPersist   = "persist"
)

// ProgressEvent represents a progress update during a run.
type ProgressEvent struct {
	Step    string `json:"step"`
	URL     string `json:"url,omitempty"`
	Message string `json:"message"`
	// Index is the position of URL in discovery order; Total is the number discovered.
	Index int `json:"index"`
	Total int `json:"total"`
}

// ProgressCallback is called when pipeline progress occurs. It may be called from several goroutines.
type ProgressCallback func(event ProgressEvent)

// URLDiscoverer lists a department's faculty homepages in discovery order.
type URLDiscoverer interface {
	Discover(ctx context.Context, dept types.Department) ([]string, error)
}

// BioAggregator returns the biography text of a faculty page.
type BioAggregator interface {
	Aggregate(ctx context.Context, url string) (string, error)
}

// FieldExtractor derives the record fields from a biography.
type FieldExtractor interface {
	Extract(ctx context.Context, bio string, src extraction.Sources) extraction.Fields
}

// Options configures an Orchestrator.
type Options struct {
	// Workers bounds how many people are processed at once. Values below 1 mean sequential.
	Workers    int
	Logger     logger.Logger
	OnProgress ProgressCallback
}

// Stats summarizes one run.
type Stats struct {
	Discovered int           `json:"discovered"`
	Extracted  int           `json:"extracted"`
	Failed     int           `json:"failed"`
	Duration   time.Duration `json:"duration"`
}

// Result is the outcome of a run.
type Result struct {
	Records []types.FacultyRecord
	Stats   Stats
}

// Orchestrator runs the department pipeline.
type Orchestrator struct {
	discoverer URLDiscoverer
	aggregator BioAggregator
	extractor  FieldExtractor
	sink       Sink
	opts       Options
	log        logger.Logger
}

// New creates an orchestrator. A nil sink skips persistence.
func New(discoverer URLDiscoverer, aggregator BioAggregator, extractor FieldExtractor, sink Sink, opts Options) *Orchestrator {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	log := opts.Logger
	if log == nil {
		log = logger.NewNop()
	}
	return &Orchestrator{
		discoverer: discoverer,
		aggregator: aggregator,
		extractor:  extractor,
		sink:       sink,
		opts:       opts,
		log:        log,
	}
}

func (o *Orchestrator) emit(step, url, message string, index, total int) {
	if o.opts.OnProgress != nil {
		o.opts.OnProgress(ProgressEvent{Step: step, URL: url, Message: message, Index: index, Total: total})
	}
}

// Run produces the records for dept and hands them to the sink once.
func (o *Orchestrator) Run(ctx context.Context, dept types.Department) ([]types.FacultyRecord, error) {
	result, err := o.RunWithStats(ctx, dept)
	if result == nil {
		return nil, err
	}
	return result.Records, err
}

// RunWithStats is Run with a summary of the run. On a PersistenceError the result is still returned.
func (o *Orchestrator) RunWithStats(ctx context.Context, dept types.Department) (*Result, error) {
	start := time.Now()
	if err := dept.Validate(); err != nil {
		return nil, fmt.Errorf("invalid department: %w", err)
	}
	log := o.log.With(logger.String("department", dept.DepartmentURL))

	o.emit(StepDiscover, dept.Listing(), "discovering faculty pages", 0, 0)
	urls, err := o.discoverer.Discover(ctx, dept)
	if err != nil {
		log.Error("discovery failed", logger.Error(err))
		return nil, &DiscoveryError{DepartmentURL: dept.DepartmentURL, Cause: err}
	}
	total := len(urls)
	log.Info("discovered faculty pages", logger.Int("count", total))
	o.emit(StepDiscover, dept.Listing(), fmt.Sprintf("discovered %d faculty pages", total), 0, total)

	// Index-addressed slots keep discovery order regardless of completion order.
	slots := make([]*types.FacultyRecord, total)
	var failed atomic.Int64

	g := new(errgroup.Group)
	g.SetLimit(o.opts.Workers)
	for i, url := range urls {
		g.Go(func() error {
			rec, err := o.processIsolated(ctx, url, dept, i, total)
			if err != nil {
				failed.Add(1)
				log.Warn("dropping faculty member", logger.String("url", url), logger.Error(err))
				return nil
			}
			slots[i] = &rec
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records := make([]types.FacultyRecord, 0, total)
	for _, rec := range slots {
		if rec != nil {
			records = append(records, *rec)
		}
	}
	result := &Result{
		Records: records,
		Stats: Stats{
			Discovered: total,
			Extracted:  len(records),
			Failed:     int(failed.Load()),
		},
	}

	if o.sink != nil {
		o.emit(StepPersist, "", fmt.Sprintf("persisting %d records", len(records)), total, total)
		if err := o.sink.AddRecords(ctx, records); err != nil {
			log.Error("persisting records failed", logger.Error(err))
			result.Stats.Duration = time.Since(start)
			return result, &PersistenceError{Records: records, Cause: err}
		}
	}

	result.Stats.Duration = time.Since(start)
	log.Info("run complete",
		logger.Int("discovered", result.Stats.Discovered),
		logger.Int("extracted", result.Stats.Extracted),
		logger.Int("failed", result.Stats.Failed),
		logger.Duration("duration", result.Stats.Duration))
	return result, nil
}

// processIsolated runs Process and converts a panic into a PersonError.
func (o *Orchestrator) processIsolated(ctx context.Context, url string, dept types.Department, index, total int) (rec types.FacultyRecord, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Debug("recovered panic", logger.String("url", url), logger.String("stack", string(debug.Stack())))
			err = &PersonError{URL: url, Message: fmt.Sprintf("panic: %v", r)}
		}
	}()
	if err := ctx.Err(); err != nil {
		return types.FacultyRecord{}, &PersonError{URL: url, Message: "cancelled", Cause: err}
	}
	return o.process(ctx, url, dept, index, total)
}

// Process enriches a single faculty page. It does not recover panics.
func (o *Orchestrator) Process(ctx context.Context, url string, dept types.Department) (types.FacultyRecord, error) {
	return o.process(ctx, url, dept, 0, 1)
}

func (o *Orchestrator) process(ctx context.Context, url string, dept types.Department, index, total int) (types.FacultyRecord, error) {
	o.emit(StepAggregate, url, "aggregating biography", index, total)
	bio, err := o.aggregator.Aggregate(ctx, url)
	if err != nil {
		return types.FacultyRecord{}, &PersonError{URL: url, Message: "biography aggregation failed", Cause: err}
	}

	o.emit(StepExtract, url, "extracting fields", index, total)
	src := extraction.Sources{
		FacultyURL:    url,
		DepartmentURL: dept.DepartmentURL,
		UniversityURL: dept.UniversityURL,
	}
	fields := o.extractor.Extract(ctx, bio, src)
	return extraction.Assemble(src, fields), nil
}
