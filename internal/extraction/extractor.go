package extraction

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/jonathan/faculty-enricher/internal/fetch"
	"github.com/jonathan/faculty-enricher/internal/geo"
	"github.com/jonathan/faculty-enricher/internal/logger"
	"github.com/jonathan/faculty-enricher/internal/ner"
	"github.com/jonathan/faculty-enricher/internal/textproc"
	"github.com/jonathan/faculty-enricher/internal/topicmodel"
)

// ErrNoSource is recorded on a field whose source URL was not provided.
var ErrNoSource = errors.New("no source URL")

// Extractor computes Fields for one faculty member. It is safe for concurrent use.
// Department and university titles and geocoding results are memoized per extractor,
// since every member of a department shares them.
type Extractor struct {
	titles       fetch.TitleFetcher
	tagger       ner.Tagger
	geocoder     geo.Geocoder
	titleSegment int
	topicOptions topicmodel.Options
	log          logger.Logger

	mu        sync.Mutex
	titleMemo map[string]string
	placeMemo map[string]string
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithTitleSegment selects which "|"-separated title segment names the page.
func WithTitleSegment(index int) Option {
	return func(e *Extractor) { e.titleSegment = index }
}

// WithTopicOptions overrides the topic model sampler settings.
func WithTopicOptions(opts topicmodel.Options) Option {
	return func(e *Extractor) { e.topicOptions = opts }
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// NewExtractor creates an extractor. A nil geocoder leaves every location unknown.
func NewExtractor(titles fetch.TitleFetcher, tagger ner.Tagger, geocoder geo.Geocoder, opts ...Option) *Extractor {
	e := &Extractor{
		titles:       titles,
		tagger:       tagger,
		geocoder:     geocoder,
		titleSegment: DefaultTitleSegment,
		topicOptions: topicmodel.DefaultOptions(),
		log:          logger.NewNop(),
		titleMemo:    make(map[string]string),
		placeMemo:    make(map[string]string),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract runs every field rule. It never fails; problems are reported per field.
func (e *Extractor) Extract(ctx context.Context, bio string, src Sources) Fields {
	var f Fields
	tagged, tagErr := e.tag(ctx, bio)
	f.Name = e.title(ctx, src.FacultyURL, false)
	f.Department = e.title(ctx, src.DepartmentURL, true)
	f.University = e.title(ctx, src.UniversityURL, true)
	if tagErr == nil {
		f.Name = orEntity(f.Name, tagged, ner.LabelPerson)
		f.Department = orEntity(f.Department, tagged, ner.LabelOrganization)
	}
	f.Phone = present(ExtractPhone(bio))
	f.Email = present(ExtractEmail(bio))
	f.Expertise = e.expertise(bio, tagged, tagErr)
	f.Biodata = present(textproc.NormalizeBiodata(bio))
	f.Location = e.location(ctx, f.University)

	for name, err := range f.Errors() {
		e.log.Debug("field not extracted",
			logger.String("url", src.FacultyURL),
			logger.String("field", name),
			logger.Error(err))
	}
	return f
}

func (e *Extractor) title(ctx context.Context, url string, memoize bool) Field {
	if url == "" {
		return failed(ErrNoSource)
	}
	if memoize {
		e.mu.Lock()
		v, ok := e.titleMemo[url]
		e.mu.Unlock()
		if ok {
			return present(v)
		}
	}
	if e.titles == nil {
		return failed(errors.New("no title fetcher configured"))
	}

	raw, err := e.titles.Title(ctx, url)
	if err != nil {
		return failed(err)
	}
	v := ParseTitle(raw, e.titleSegment)
	if memoize {
		e.mu.Lock()
		e.titleMemo[url] = v
		e.mu.Unlock()
	}
	return present(v)
}

// tag runs the tagger over bio one sentence at a time. It returns nil when there is
// no tagger or nothing to tag.
func (e *Extractor) tag(ctx context.Context, bio string) ([][]ner.TaggedToken, error) {
	if e.tagger == nil || strings.TrimSpace(bio) == "" {
		return nil, nil
	}
	tagged, err := tagSentences(ctx, e.tagger, bio)
	if err != nil {
		return nil, fmt.Errorf("tag biography: %w", err)
	}
	return tagged, nil
}

// orEntity keeps a present title field, otherwise falls back to the first entity
// labeled label in the tagged biography.
func orEntity(f Field, tagged [][]ner.TaggedToken, label ner.Label) Field {
	if f.Present {
		return f
	}
	for _, sentence := range tagged {
		for _, span := range ner.Spans(sentence, entityBoundary) {
			if span.Label == label {
				return present(span.Text)
			}
		}
	}
	return f
}

func (e *Extractor) expertise(bio string, tagged [][]ner.TaggedToken, tagErr error) Field {
	if strings.TrimSpace(bio) == "" {
		return Field{}
	}
	if tagErr != nil {
		return failed(tagErr)
	}
	kept := []string{bio}
	if tagged != nil {
		kept = withoutPersons(tagged)
	}
	terms := textproc.ContentTerms(strings.Join(kept, " "))
	keywords, err := TopicKeywords(terms, ExpertiseTerms, e.topicOptions)
	if err != nil {
		return failed(fmt.Errorf("fit topic model: %w", err))
	}
	return present(keywords)
}

func (e *Extractor) location(ctx context.Context, university Field) Field {
	if !university.Present {
		return Field{}
	}
	if e.geocoder == nil {
		return failed(errors.New("no geocoder configured"))
	}
	place := university.Value

	e.mu.Lock()
	v, ok := e.placeMemo[place]
	e.mu.Unlock()
	if ok {
		return present(v)
	}

	components, err := e.geocoder.Lookup(ctx, place)
	if err != nil {
		return failed(err)
	}
	v = geo.FormatLocation(components)
	e.mu.Lock()
	e.placeMemo[place] = v
	e.mu.Unlock()
	return present(v)
}
