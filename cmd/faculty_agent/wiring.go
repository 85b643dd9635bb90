package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jonathan/faculty-enricher/internal/biography"
	"github.com/jonathan/faculty-enricher/internal/config"
	"github.com/jonathan/faculty-enricher/internal/db"
	"github.com/jonathan/faculty-enricher/internal/discovery"
	"github.com/jonathan/faculty-enricher/internal/extraction"
	"github.com/jonathan/faculty-enricher/internal/fetch"
	"github.com/jonathan/faculty-enricher/internal/geo"
	"github.com/jonathan/faculty-enricher/internal/index"
	"github.com/jonathan/faculty-enricher/internal/llm"
	"github.com/jonathan/faculty-enricher/internal/logger"
	"github.com/jonathan/faculty-enricher/internal/ner"
	"github.com/jonathan/faculty-enricher/internal/pipeline"
	"github.com/jonathan/faculty-enricher/internal/research"
	"github.com/jonathan/faculty-enricher/internal/types"
)

// app holds the adapters built for one command invocation.
type app struct {
	cfg        config.Config
	log        logger.Logger
	namesFile  string
	sqlite     *db.SQLite
	postgres   *db.DB
	renderer   fetch.Renderer
	tagger     ner.Tagger
	sinkNames  []string
	closeFuncs []func()
}

func newApp(cfg config.Config, namesFile string) (*app, error) {
	log, err := newLogger(cfg)
	if err != nil {
		return nil, err
	}
	return &app{cfg: cfg, log: log, namesFile: namesFile}, nil
}

// close releases everything opened by the app in reverse order.
func (a *app) close() {
	for i := len(a.closeFuncs) - 1; i >= 0; i-- {
		a.closeFuncs[i]()
	}
	_ = a.log.Sync()
}

func (a *app) fetchOptions() *fetch.Options {
	opts := fetch.DefaultOptions()
	opts.Timeout = a.cfg.Timeout()
	return opts
}

// openStores connects the configured SQL stores. They serve both as record sinks and page caches.
func (a *app) openStores(ctx context.Context) error {
	if a.cfg.SQLitePath != "" && a.sqlite == nil {
		s, err := db.OpenSQLite(a.cfg.SQLitePath)
		if err != nil {
			return err
		}
		a.sqlite = s
		a.closeFuncs = append(a.closeFuncs, func() { _ = s.Close() })
	}
	if a.cfg.DatabaseURL != "" && a.postgres == nil {
		pg, err := db.Connect(ctx, a.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		a.postgres = pg
		a.closeFuncs = append(a.closeFuncs, pg.Close)
		if err := pg.Migrate(ctx); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) pageCache() fetch.PageCache {
	switch {
	case a.sqlite != nil:
		return a.sqlite
	case a.postgres != nil:
		return a.postgres
	default:
		return nil
	}
}

// buildRenderer returns HTTP rendering, optionally falling back to headless Chrome,
// bounded by RenderConcurrency and cached when a SQL store is open.
func (a *app) buildRenderer() fetch.Renderer {
	if a.renderer != nil {
		return a.renderer
	}
	var r fetch.Renderer = fetch.NewHTTPRenderer(a.fetchOptions())
	if a.cfg.UseBrowser {
		r = &fetch.FallbackRenderer{Primary: r, Fallback: fetch.NewBrowserRenderer(a.cfg.Timeout())}
	}
	r = fetch.NewLimitedRenderer(r, a.cfg.RenderConcurrency)
	if cache := a.pageCache(); cache != nil {
		r = fetch.NewCachedRenderer(r, cache, a.cfg.PageCacheTTL())
	}
	a.renderer = r
	return r
}

// buildTagger prefers a names file, which needs no network, over the Gemini tagger.
func (a *app) buildTagger(ctx context.Context) (ner.Tagger, error) {
	if a.tagger != nil {
		return a.tagger, nil
	}
	var t ner.Tagger
	switch {
	case a.namesFile != "":
		names, err := readNames(a.namesFile)
		if err != nil {
			return nil, err
		}
		a.log.Info("using names gazetteer", logger.String("path", a.namesFile), logger.Int("names", len(names)))
		t = ner.NewPersonGazetteer(names...)
	case a.cfg.GeminiAPIKey != "":
		llmCfg := llm.DefaultConfig()
		if a.cfg.GeminiModel != "" {
			llmCfg = llmCfg.WithModel(a.cfg.GeminiModel)
		}
		client, err := llm.NewGeminiClient(ctx, llmCfg, a.cfg.GeminiAPIKey)
		if err != nil {
			return nil, err
		}
		a.closeFuncs = append(a.closeFuncs, func() { _ = client.Close() })
		t = ner.NewLLMTagger(client, ner.DefaultBatchSize)
	default:
		return nil, fmt.Errorf("GEMINI_API_KEY environment variable, --api-key or --names-file is required")
	}
	a.tagger = ner.NewLimitedTagger(t, a.cfg.TaggerConcurrency)
	return a.tagger, nil
}

func (a *app) buildDiscoverer(ctx context.Context) (*discovery.Discoverer, error) {
	tagger, err := a.buildTagger(ctx)
	if err != nil {
		return nil, err
	}
	resolver := discovery.NewResolver(fetch.NewHTTPStatusChecker(a.fetchOptions()), a.log)
	opts := []discovery.Option{discovery.WithLogger(a.log)}
	if len(a.cfg.ContentMarkers) > 0 {
		opts = append(opts, discovery.WithContentMarkers(a.cfg.ContentMarkers))
	}
	return discovery.NewDiscoverer(a.buildRenderer(), discovery.NewNameMatcher(tagger), resolver, opts...), nil
}

func (a *app) buildAggregator() *biography.Aggregator {
	return biography.NewAggregator(a.buildRenderer(), a.cfg.BioMarkers, a.log)
}

func (a *app) buildExtractor(ctx context.Context) (*extraction.Extractor, error) {
	tagger, err := a.buildTagger(ctx)
	if err != nil {
		return nil, err
	}
	var geocoder geo.Geocoder
	if a.cfg.MapsAPIKey != "" {
		g, err := geo.NewGoogleGeocoder(a.cfg.MapsAPIKey)
		if err != nil {
			return nil, err
		}
		geocoder = g
	} else {
		a.log.Warn("no maps API key; locations will be Unknown")
	}
	return extraction.NewExtractor(
		fetch.NewCollyTitleFetcher(a.fetchOptions()),
		tagger,
		geocoder,
		extraction.WithTitleSegment(a.cfg.TitleSegmentOrDefault()),
		extraction.WithLogger(a.log),
	), nil
}

// buildSinks combines every configured sink. No configured sink means JSON on stdout.
func (a *app) buildSinks(ctx context.Context, stdout io.Writer) (pipeline.Sink, error) {
	var sinks pipeline.MultiSink
	if a.postgres != nil {
		sinks = append(sinks, a.postgres)
		a.sinkNames = append(a.sinkNames, "postgres")
	}
	if a.sqlite != nil {
		sinks = append(sinks, a.sqlite)
		a.sinkNames = append(a.sinkNames, "sqlite")
	}
	if a.cfg.ElasticsearchURL != "" {
		es, err := index.NewElastic(index.Config{
			URL:      a.cfg.ElasticsearchURL,
			Index:    a.cfg.ElasticsearchIndex,
			APIKey:   os.Getenv("ELASTICSEARCH_API_KEY"),
			Username: os.Getenv("ELASTICSEARCH_USERNAME"),
			Password: os.Getenv("ELASTICSEARCH_PASSWORD"),
		}, a.log)
		if err != nil {
			return nil, err
		}
		if err := es.EnsureIndex(ctx); err != nil {
			return nil, err
		}
		sinks = append(sinks, es)
		a.sinkNames = append(a.sinkNames, "elasticsearch:"+es.Index())
	}

	switch a.cfg.OutputPath {
	case "":
		if len(sinks) == 0 {
			sinks = append(sinks, pipeline.JSONSink{W: stdout})
			a.sinkNames = append(a.sinkNames, "stdout")
		}
	case "-":
		sinks = append(sinks, pipeline.JSONSink{W: stdout})
		a.sinkNames = append(a.sinkNames, "stdout")
	default:
		f, err := os.Create(a.cfg.OutputPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create output file: %w", err)
		}
		a.closeFuncs = append(a.closeFuncs, func() { _ = f.Close() })
		sinks = append(sinks, pipeline.JSONSink{W: f})
		a.sinkNames = append(a.sinkNames, a.cfg.OutputPath)
	}

	if len(sinks) == 1 {
		return sinks[0], nil
	}
	return sinks, nil
}

// department builds the run input, looking up the university homepage when it was not given.
func (a *app) department(ctx context.Context) (types.Department, error) {
	dept := types.Department{
		DepartmentURL: a.cfg.DepartmentURL,
		ListingURL:    a.cfg.ListingURL,
		UniversityURL: a.cfg.UniversityURL,
	}
	if dept.DepartmentURL == "" {
		return dept, errors.New("--department is required (via flag or config)")
	}
	if dept.UniversityURL != "" {
		return dept, nil
	}

	finder := research.NewOfflineFinder(a.log)
	if a.cfg.SearchAPIKey != "" {
		f, err := research.NewFinder(ctx, a.cfg.SearchAPIKey, a.cfg.SearchCX, a.log)
		if err != nil {
			return dept, err
		}
		finder = f
	}
	home, err := finder.FindUniversityHomepage(ctx, dept.DepartmentURL)
	if err != nil {
		return dept, fmt.Errorf("--university not given and could not be determined: %w", err)
	}
	a.log.Info("resolved university homepage", logger.String("university", home))
	dept.UniversityURL = home
	return dept, nil
}
