package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/faculty-enricher/internal/extraction"
	"github.com/jonathan/faculty-enricher/internal/types"
)

var testDept = types.Department{
	DepartmentURL: "https://cs.example.edu/",
	ListingURL:    "https://cs.example.edu/faculty",
	UniversityURL: "https://example.edu/",
}

type stubDiscoverer struct {
	urls []string
	err  error
}

func (s stubDiscoverer) Discover(context.Context, types.Department) ([]string, error) {
	return s.urls, s.err
}

// stubAggregator returns "bio of <url>", failing or panicking for the configured URLs.
type stubAggregator struct {
	fail   map[string]bool
	panics map[string]bool
	delay  func(url string) time.Duration
}

func (s stubAggregator) Aggregate(_ context.Context, url string) (string, error) {
	if s.delay != nil {
		time.Sleep(s.delay(url))
	}
	if s.panics[url] {
		panic("boom")
	}
	if s.fail[url] {
		return "", errors.New("render failed")
	}
	return "bio of " + url, nil
}

type stubExtractor struct{}

func (stubExtractor) Extract(_ context.Context, bio string, src extraction.Sources) extraction.Fields {
	return extraction.Fields{
		Name:    extraction.Field{Value: "Name " + src.FacultyURL, Present: true},
		Biodata: extraction.Field{Value: bio, Present: true},
	}
}

type recordingSink struct {
	mu    sync.Mutex
	calls [][]types.FacultyRecord
	err   error
}

func (s *recordingSink) AddRecords(_ context.Context, records []types.FacultyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, records)
	return s.err
}

func facultyURLs(n int) []string {
	urls := make([]string, n)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://cs.example.edu/people/p%02d", i)
	}
	return urls
}

func homepages(records []types.FacultyRecord) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.FacultyHomepageURL
	}
	return out
}

func TestRun_AllSucceed(t *testing.T) {
	urls := facultyURLs(3)
	sink := &recordingSink{}
	o := New(stubDiscoverer{urls: urls}, stubAggregator{}, stubExtractor{}, sink, Options{})

	records, err := o.Run(context.Background(), testDept)
	require.NoError(t, err)
	assert.Equal(t, urls, homepages(records))

	rec := records[0]
	assert.Equal(t, "Name "+urls[0], types.Deref(rec.FacultyName))
	assert.Equal(t, "bio of "+urls[0], types.Deref(rec.FacultyBiodata))
	assert.Equal(t, testDept.DepartmentURL, rec.FacultyDepartmentURL)
	assert.Equal(t, testDept.UniversityURL, rec.FacultyUniversityURL)
	assert.Equal(t, types.UnknownLocation, rec.FacultyLocation)

	require.Len(t, sink.calls, 1)
	assert.Equal(t, records, sink.calls[0])
}

func TestRun_OneFailureIsIsolated(t *testing.T) {
	urls := facultyURLs(5)
	sink := &recordingSink{}
	agg := stubAggregator{fail: map[string]bool{urls[2]: true}}
	o := New(stubDiscoverer{urls: urls}, agg, stubExtractor{}, sink, Options{})

	result, err := o.RunWithStats(context.Background(), testDept)
	require.NoError(t, err)
	assert.Equal(t, []string{urls[0], urls[1], urls[3], urls[4]}, homepages(result.Records))
	assert.Equal(t, 5, result.Stats.Discovered)
	assert.Equal(t, 4, result.Stats.Extracted)
	assert.Equal(t, 1, result.Stats.Failed)
	require.Len(t, sink.calls, 1)
	assert.Len(t, sink.calls[0], 4)
}

func TestRun_PanicIsIsolated(t *testing.T) {
	urls := facultyURLs(3)
	agg := stubAggregator{panics: map[string]bool{urls[0]: true}}
	o := New(stubDiscoverer{urls: urls}, agg, stubExtractor{}, &recordingSink{}, Options{Workers: 2})

	records, err := o.Run(context.Background(), testDept)
	require.NoError(t, err)
	assert.Equal(t, urls[1:], homepages(records))
}

func TestRun_PreservesOrderUnderConcurrency(t *testing.T) {
	urls := facultyURLs(20)
	// Later URLs finish first.
	agg := stubAggregator{delay: func(url string) time.Duration {
		for i, u := range urls {
			if u == url {
				return time.Duration(len(urls)-i) * time.Millisecond
			}
		}
		return 0
	}}
	sink := &recordingSink{}
	o := New(stubDiscoverer{urls: urls}, agg, stubExtractor{}, sink, Options{Workers: 8})

	records, err := o.Run(context.Background(), testDept)
	require.NoError(t, err)
	assert.Equal(t, urls, homepages(records))
	assert.Len(t, sink.calls, 1)
}

func TestRun_DiscoveryFailure(t *testing.T) {
	sink := &recordingSink{}
	o := New(stubDiscoverer{err: errors.New("listing unreachable")}, stubAggregator{}, stubExtractor{}, sink, Options{})

	records, err := o.Run(context.Background(), testDept)
	require.Error(t, err)
	assert.Nil(t, records)

	var discErr *DiscoveryError
	require.ErrorAs(t, err, &discErr)
	assert.Equal(t, testDept.DepartmentURL, discErr.DepartmentURL)
	assert.Empty(t, sink.calls)
}

func TestRun_PersistenceFailure(t *testing.T) {
	urls := facultyURLs(2)
	sink := &recordingSink{err: errors.New("db down")}
	o := New(stubDiscoverer{urls: urls}, stubAggregator{}, stubExtractor{}, sink, Options{})

	records, err := o.Run(context.Background(), testDept)
	require.Error(t, err)

	var persistErr *PersistenceError
	require.ErrorAs(t, err, &persistErr)
	assert.Len(t, persistErr.Records, 2)
	assert.Equal(t, urls, homepages(records))
	assert.Contains(t, err.Error(), "db down")
}

func TestRun_NoFacultyStillPersistsOnce(t *testing.T) {
	sink := &recordingSink{}
	o := New(stubDiscoverer{}, stubAggregator{}, stubExtractor{}, sink, Options{})

	records, err := o.Run(context.Background(), testDept)
	require.NoError(t, err)
	assert.Empty(t, records)
	require.Len(t, sink.calls, 1)
	assert.Empty(t, sink.calls[0])
}

func TestRun_InvalidDepartment(t *testing.T) {
	o := New(stubDiscoverer{}, stubAggregator{}, stubExtractor{}, nil, Options{})
	_, err := o.Run(context.Background(), types.Department{DepartmentURL: "not a url"})
	assert.Error(t, err)
}

func TestRun_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sink := &recordingSink{}
	o := New(stubDiscoverer{urls: facultyURLs(3)}, stubAggregator{}, stubExtractor{}, sink, Options{})

	_, err := o.Run(ctx, testDept)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, sink.calls)
}

func TestRun_ProgressEvents(t *testing.T) {
	urls := facultyURLs(2)
	var mu sync.Mutex
	var steps []string
	o := New(stubDiscoverer{urls: urls}, stubAggregator{}, stubExtractor{}, &recordingSink{}, Options{
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			steps = append(steps, e.Step)
			assert.LessOrEqual(t, e.Index, e.Total)
		},
	})

	_, err := o.Run(context.Background(), testDept)
	require.NoError(t, err)
	assert.Equal(t, []string{
		StepDiscover, StepDiscover,
		StepAggregate, StepExtract,
		StepAggregate, StepExtract,
		StepPersist,
	}, steps)
}

func TestProcess(t *testing.T) {
	o := New(nil, stubAggregator{}, stubExtractor{}, nil, Options{})
	rec, err := o.Process(context.Background(), "https://cs.example.edu/people/x", testDept)
	require.NoError(t, err)
	assert.Equal(t, "https://cs.example.edu/people/x", rec.FacultyHomepageURL)

	o = New(nil, stubAggregator{fail: map[string]bool{"https://x/": true}}, stubExtractor{}, nil, Options{})
	_, err = o.Process(context.Background(), "https://x/", testDept)
	var personErr *PersonError
	require.ErrorAs(t, err, &personErr)
	assert.Equal(t, "https://x/", personErr.URL)
}

func TestMultiSink(t *testing.T) {
	a := &recordingSink{err: errors.New("a failed")}
	b := &recordingSink{}
	records := []types.FacultyRecord{types.NewFacultyRecord("https://x/", "https://d/", "https://u/")}

	err := MultiSink{a, b}.AddRecords(context.Background(), records)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "a failed")
	assert.Len(t, b.calls, 1, "later sinks still run")
}

func TestJSONSink(t *testing.T) {
	var buf bytes.Buffer
	rec := types.NewFacultyRecord("https://x/", "https://d/", "https://u/")
	require.NoError(t, JSONSink{W: &buf}.AddRecords(context.Background(), []types.FacultyRecord{rec}))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "https://x/", decoded[0]["faculty_homepage_url"])
	assert.Nil(t, decoded[0]["faculty_email"])
	assert.Equal(t, "Unknown", decoded[0]["faculty_location"])

	buf.Reset()
	require.NoError(t, JSONSink{W: &buf}.AddRecords(context.Background(), nil))
	assert.JSONEq(t, "[]", buf.String())
}
