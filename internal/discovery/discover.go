package discovery

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/faculty-enricher/internal/fetch"
	"github.com/jonathan/faculty-enricher/internal/logger"
	"github.com/jonathan/faculty-enricher/internal/textproc"
	"github.com/jonathan/faculty-enricher/internal/types"
)

// DefaultContentMarkers are the class/id substrings that identify a page's main content container.
var DefaultContentMarkers = []string{"content", "container"}

// DefaultContainerTags are the elements inspected for content markers.
var DefaultContainerTags = []string{"div"}

// Anchor is a hyperlink found inside a content container.
type Anchor struct {
	Href string
	Text string
}

// ScanAnchors collects the anchors inside every container whose class or id contains one of markers.
// Anchors are de-duplicated by element identity and mailto:/tel: links are skipped.
func ScanAnchors(doc *goquery.Document, markers, containerTags []string) []Anchor {
	if len(containerTags) == 0 {
		containerTags = DefaultContainerTags
	}
	containers := doc.Find(strings.Join(containerTags, ", "))

	seen := make(map[*html.Node]struct{})
	var anchors []Anchor
	collect := func(container *goquery.Selection) {
		container.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok || href == "" || strings.Contains(href, "mailto:") || strings.Contains(href, "tel:") {
				return
			}
			node := a.Get(0)
			if _, dup := seen[node]; dup {
				return
			}
			seen[node] = struct{}{}
			anchors = append(anchors, Anchor{Href: href, Text: strings.TrimSpace(a.Text())})
		})
	}

	for _, marker := range markers {
		for _, attr := range []string{"class", "id"} {
			containers.Each(func(_ int, s *goquery.Selection) {
				if v, ok := s.Attr(attr); ok && strings.Contains(v, marker) {
					collect(s)
				}
			})
		}
	}
	return anchors
}

// Discoverer produces the faculty homepage URLs listed on a department page.
type Discoverer struct {
	renderer      fetch.Renderer
	matcher       *NameMatcher
	resolver      *Resolver
	markers       []string
	containerTags []string
	log           logger.Logger
}

// Option configures a Discoverer.
type Option func(*Discoverer)

// WithContentMarkers overrides DefaultContentMarkers.
func WithContentMarkers(markers []string) Option {
	return func(d *Discoverer) {
		if len(markers) > 0 {
			d.markers = markers
		}
	}
}

// WithContainerTags overrides DefaultContainerTags.
func WithContainerTags(tags []string) Option {
	return func(d *Discoverer) {
		if len(tags) > 0 {
			d.containerTags = tags
		}
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(d *Discoverer) {
		if log != nil {
			d.log = log
		}
	}
}

// NewDiscoverer wires the listing renderer, name matcher and link resolver.
func NewDiscoverer(renderer fetch.Renderer, matcher *NameMatcher, resolver *Resolver, opts ...Option) *Discoverer {
	d := &Discoverer{
		renderer:      renderer,
		matcher:       matcher,
		resolver:      resolver,
		markers:       DefaultContentMarkers,
		containerTags: DefaultContainerTags,
		log:           logger.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Discover renders the department's listing page and returns its faculty URLs in discovery order.
func (d *Discoverer) Discover(ctx context.Context, dept types.Department) ([]string, error) {
	listing := dept.Listing()
	page, err := d.renderer.Render(ctx, listing)
	if err != nil {
		return nil, &Error{URL: listing, Message: "failed to render listing page", Cause: err}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return nil, &Error{URL: listing, Message: "failed to parse listing page", Cause: err}
	}
	return d.DiscoverDocument(ctx, doc, dept)
}

// DiscoverDocument runs discovery over an already parsed listing page.
func (d *Discoverer) DiscoverDocument(ctx context.Context, doc *goquery.Document, dept types.Department) ([]string, error) {
	anchors := ScanAnchors(doc, d.markers, d.containerTags)
	d.log.Debug("scanned listing page", logger.String("url", dept.Listing()), logger.Int("anchors", len(anchors)))

	candidates, err := d.MatchAnchors(ctx, anchors)
	if err != nil {
		return nil, &Error{URL: dept.Listing(), Message: "failed to match names", Cause: err}
	}

	seen := make(map[string]struct{})
	var urls []string
	for _, a := range candidates {
		u, ok := d.resolver.Resolve(ctx, a.Href, dept.DepartmentURL, dept.Listing())
		if !ok {
			d.log.Info("dropping unreachable faculty link", logger.String("href", a.Href), logger.String("text", a.Text))
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		urls = append(urls, u)
	}
	return urls, nil
}

// MatchAnchors keeps the anchors whose sanitized text exactly equals a recognised person name.
func (d *Discoverer) MatchAnchors(ctx context.Context, anchors []Anchor) ([]Anchor, error) {
	texts := make([]string, len(anchors))
	for i, a := range anchors {
		texts[i] = a.Text
	}
	names, err := d.matcher.Match(ctx, texts)
	if err != nil {
		return nil, err
	}

	var matched []Anchor
	for _, a := range anchors {
		key := textproc.NameKey(a.Text)
		if key == "" {
			continue
		}
		if _, ok := names[key]; ok {
			matched = append(matched, a)
		}
	}
	return matched, nil
}
