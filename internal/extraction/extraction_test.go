package extraction

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/faculty-enricher/internal/geo"
	"github.com/jonathan/faculty-enricher/internal/ner"
	"github.com/jonathan/faculty-enricher/internal/topicmodel"
	"github.com/jonathan/faculty-enricher/internal/types"
)

const sampleBio = "Geoffrey Werner Challen Teaching Associate Professor 2227 Siebel Center for Comp Sci " +
	"201 N. Goodwin Ave. Urbana Illinois 61801 (217) 300-6150 challen@illinois.edu : Primary Research Area " +
	"CS Education Research Areas CS Education For more information blue Systems Research Group (Defunct) " +
	"Internet Class: Learn About the Internet on the Internet OPS Class: Learn Operating Systems Online " +
	"CS 125 Home Page Education Ph.D. Computer Science, Harvard University, 2010"

type stubTitles struct {
	mu     sync.Mutex
	titles map[string]string
	calls  map[string]int
}

func newStubTitles(titles map[string]string) *stubTitles {
	return &stubTitles{titles: titles, calls: make(map[string]int)}
}

func (s *stubTitles) Title(_ context.Context, url string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[url]++
	t, ok := s.titles[url]
	if !ok {
		return "", errors.New("404")
	}
	return t, nil
}

type stubGeocoder struct {
	components []geo.AddressComponent
	err        error
	calls      int
}

func (s *stubGeocoder) Lookup(context.Context, string) ([]geo.AddressComponent, error) {
	s.calls++
	return s.components, s.err
}

var urbana = []geo.AddressComponent{
	{LongName: "Urbana", Types: []string{geo.TypeLocality, "political"}},
	{LongName: "Illinois", ShortName: "IL", Types: []string{geo.TypeAdminAreaLevel1, "political"}},
	{LongName: "United States", ShortName: "US", Types: []string{geo.TypeCountry, "political"}},
}

func testSources() Sources {
	return Sources{
		FacultyURL:    "https://cs.illinois.edu/about/people/faculty/challen",
		DepartmentURL: "https://cs.illinois.edu/",
		UniversityURL: "https://illinois.edu/",
	}
}

func testTitles() *stubTitles {
	return newStubTitles(map[string]string{
		"https://cs.illinois.edu/about/people/faculty/challen": "Faculty | Geoffrey Challen | Illinois",
		"https://cs.illinois.edu/":                             "Home | Siebel School of Computing and Data Science",
		"https://illinois.edu/":                                "University of Illinois Urbana-Champaign",
	})
}

func TestParseTitle(t *testing.T) {
	assert.Equal(t, "Geoffrey Challen", ParseTitle("Faculty | Geoffrey Challen | Illinois", 1))
	assert.Equal(t, "Faculty", ParseTitle("Faculty | Geoffrey Challen", 0))
	assert.Equal(t, "University of Illinois", ParseTitle("  University of Illinois ", 1))
	assert.Equal(t, "Computer Science", ParseTitle("Computer Science |  ", 1), "blank segment falls back to first")
	assert.Equal(t, "Computer Science", ParseTitle("Computer Science", 3))
	assert.Equal(t, "Only", ParseTitle(" | Only", 5))
	assert.Empty(t, ParseTitle(" | ", 1))
	assert.Empty(t, ParseTitle("", 1))
}

func TestExtractPhone(t *testing.T) {
	assert.Equal(t, "(217) 300-6150", ExtractPhone(sampleBio))
	assert.Equal(t, "(217) 300-6150", ExtractPhone("call +1 217.300.6150 today"))
	assert.Equal(t, "(217) 300-6150", ExtractPhone("217-300-6150"))
	assert.Equal(t, "(312) 555-0199", ExtractPhone("Fax: 3125550199"))
	assert.Empty(t, ExtractPhone("Office 2227, zip 61801"))
	assert.Empty(t, ExtractPhone("ID 123-456-7890"), "area code cannot start with 1")
	assert.Empty(t, ExtractPhone("ISBN 978-3-16-148410-0"))
	assert.Empty(t, ExtractPhone(""))
}

func TestExtractEmail(t *testing.T) {
	assert.Equal(t, "challen@illinois.edu", ExtractEmail(sampleBio))
	assert.Equal(t, "a.b-c@cs.example.edu", ExtractEmail("Mail a.b-c@cs.example.edu. Or x@y.org"))
	assert.Empty(t, ExtractEmail("contact: jane at example dot edu"))
}

func TestTopicKeywords(t *testing.T) {
	terms := []string{"internet", "class", "internet", "learn", "internet", "class", "systems"}
	keywords, err := TopicKeywords(terms, 2, topicmodel.DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, "internet class", keywords)

	keywords, err = TopicKeywords(nil, 10, topicmodel.DefaultOptions())
	require.NoError(t, err)
	assert.Empty(t, keywords)
}

func TestExtract_AllFields(t *testing.T) {
	geocoder := &stubGeocoder{components: urbana}
	e := NewExtractor(testTitles(), ner.NewPersonGazetteer("Geoffrey Werner Challen"), geocoder)

	f := e.Extract(context.Background(), sampleBio, testSources())

	assert.Equal(t, "Geoffrey Challen", f.Name.String())
	assert.Equal(t, "Siebel School of Computing and Data Science", f.Department.String())
	assert.Equal(t, "University of Illinois Urbana-Champaign", f.University.String())
	assert.Equal(t, "(217) 300-6150", f.Phone.String())
	assert.Equal(t, "challen@illinois.edu", f.Email.String())
	assert.Equal(t, "Illinois, Urbana, United States", f.LocationOrUnknown())

	require.True(t, f.Expertise.Present)
	words := strings.Fields(f.Expertise.Value)
	assert.LessOrEqual(t, len(words), ExpertiseTerms)
	require.GreaterOrEqual(t, len(words), 4)
	assert.ElementsMatch(t, []string{"research", "cs", "education", "internet"}, words[:4], "most frequent terms, acronyms included")
	for _, w := range words {
		assert.Equal(t, strings.ToLower(w), w)
		assert.NotContains(t, []string{"geoffrey", "werner", "challen"}, w)
	}

	require.True(t, f.Biodata.Present)
	assert.True(t, strings.HasPrefix(f.Biodata.Value, "geoffrey werner challen teaching"))
	assert.NotContains(t, f.Biodata.Value, " the ")
	assert.Empty(t, f.Errors())
}

func TestExtract_EmptyBiography(t *testing.T) {
	e := NewExtractor(testTitles(), ner.NewPersonGazetteer(), &stubGeocoder{components: urbana})

	f := e.Extract(context.Background(), "", testSources())

	assert.True(t, f.Name.Present)
	assert.False(t, f.Phone.Present)
	assert.False(t, f.Email.Present)
	assert.False(t, f.Expertise.Present)
	assert.False(t, f.Biodata.Present)
}

func TestExtract_LocationUnknown(t *testing.T) {
	e := NewExtractor(testTitles(), nil, &stubGeocoder{err: geo.ErrNotFound})
	f := e.Extract(context.Background(), sampleBio, testSources())
	assert.Equal(t, types.UnknownLocation, f.LocationOrUnknown())
	assert.ErrorIs(t, f.Location.Err, geo.ErrNotFound)

	e = NewExtractor(testTitles(), nil, &stubGeocoder{components: []geo.AddressComponent{{LongName: "Earth", Types: []string{"planet"}}}})
	f = e.Extract(context.Background(), sampleBio, testSources())
	assert.Equal(t, types.UnknownLocation, f.LocationOrUnknown())

	src := testSources()
	src.UniversityURL = ""
	f = e.Extract(context.Background(), sampleBio, src)
	assert.False(t, f.University.Present)
	assert.ErrorIs(t, f.University.Err, ErrNoSource)
	assert.Equal(t, types.UnknownLocation, f.LocationOrUnknown())
}

func TestExtract_TitleFailureIsFieldLevel(t *testing.T) {
	e := NewExtractor(newStubTitles(nil), nil, nil)
	f := e.Extract(context.Background(), sampleBio, testSources())

	assert.False(t, f.Name.Present)
	assert.Error(t, f.Name.Err)
	assert.Equal(t, "challen@illinois.edu", f.Email.String())
}

func TestExtract_MissingTitlesFallBackToEntities(t *testing.T) {
	titles := newStubTitles(map[string]string{
		"https://cs.illinois.edu/about/people/faculty/challen": " | ",
		"https://illinois.edu/":                                "University of Illinois Urbana-Champaign",
	})
	tagger := ner.NewStaticTagger(map[string]ner.Label{
		"Geoffrey": ner.LabelPerson, "Werner": ner.LabelPerson, "Challen": ner.LabelPerson,
		"Siebel": ner.LabelOrganization, "Center": ner.LabelOrganization,
	})
	e := NewExtractor(titles, tagger, nil)

	f := e.Extract(context.Background(), sampleBio, testSources())

	assert.Equal(t, "Geoffrey Werner Challen", f.Name.String(), "blank title uses the first PERSON entity")
	assert.Equal(t, "Siebel Center", f.Department.String(), "failed title uses the first ORGANIZATION entity")
	assert.Nil(t, f.Department.Err)
	assert.Equal(t, "University of Illinois Urbana-Champaign", f.University.String())
}

func TestExtract_EntityFallbackNeedsAMatchingLabel(t *testing.T) {
	e := NewExtractor(newStubTitles(nil), ner.NewPersonGazetteer("Geoffrey Werner Challen"), nil)

	f := e.Extract(context.Background(), sampleBio, testSources())

	assert.Equal(t, "Geoffrey Werner Challen", f.Name.String())
	assert.False(t, f.Department.Present)
	assert.Error(t, f.Department.Err, "no ORGANIZATION entity keeps the title error")
	assert.False(t, f.University.Present, "university has no entity fallback")
}

func TestExtract_TaggerFailure(t *testing.T) {
	e := NewExtractor(testTitles(), failingTagger{}, nil)
	f := e.Extract(context.Background(), sampleBio, testSources())

	assert.False(t, f.Expertise.Present)
	assert.Error(t, f.Expertise.Err)
	assert.True(t, f.Biodata.Present)
}

func TestExtract_MemoizesSharedPages(t *testing.T) {
	titles := testTitles()
	geocoder := &stubGeocoder{components: urbana}
	e := NewExtractor(titles, nil, geocoder)

	for i := 0; i < 3; i++ {
		e.Extract(context.Background(), "", testSources())
	}
	assert.Equal(t, 3, titles.calls["https://cs.illinois.edu/about/people/faculty/challen"])
	assert.Equal(t, 1, titles.calls["https://cs.illinois.edu/"])
	assert.Equal(t, 1, titles.calls["https://illinois.edu/"])
	assert.Equal(t, 1, geocoder.calls)
}

func TestWithTitleSegment(t *testing.T) {
	e := NewExtractor(testTitles(), nil, nil, WithTitleSegment(0))
	f := e.Extract(context.Background(), "", testSources())
	assert.Equal(t, "Faculty", f.Name.String())
	assert.Equal(t, "Home", f.Department.String())
}

func TestAssemble(t *testing.T) {
	src := testSources()
	rec := Assemble(src, Fields{
		Name:  present("Geoffrey Challen"),
		Email: present("challen@illinois.edu"),
		Phone: failed(errors.New("nope")),
	})

	assert.NotEqual(t, uuid.Nil, rec.ID)
	assert.Equal(t, src.FacultyURL, rec.FacultyHomepageURL)
	assert.Equal(t, src.DepartmentURL, rec.FacultyDepartmentURL)
	assert.Equal(t, src.UniversityURL, rec.FacultyUniversityURL)
	assert.Equal(t, "Geoffrey Challen", types.Deref(rec.FacultyName))
	assert.Equal(t, "challen@illinois.edu", types.Deref(rec.FacultyEmail))
	assert.Nil(t, rec.FacultyPhone)
	assert.Nil(t, rec.FacultyExpertise)
	assert.Equal(t, types.UnknownLocation, rec.FacultyLocation)
}

type failingTagger struct{}

func (failingTagger) Tag(context.Context, []string) ([]ner.TaggedToken, error) {
	return nil, errors.New("tagger offline")
}
