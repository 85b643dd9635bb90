// Package biography gathers the visible biography text of a faculty member's page.
package biography

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"

	"github.com/jonathan/faculty-enricher/internal/fetch"
	"github.com/jonathan/faculty-enricher/internal/logger"
)

// DefaultMarkers are the class or id names of the elements holding a profile's main text.
var DefaultMarkers = []string{"content", "container"}

// Aggregator renders a faculty page and concatenates the text inside its content elements.
type Aggregator struct {
	renderer fetch.Renderer
	markers  []string
	log      logger.Logger
}

// NewAggregator creates an aggregator. Empty markers fall back to DefaultMarkers.
func NewAggregator(renderer fetch.Renderer, markers []string, log logger.Logger) *Aggregator {
	if len(markers) == 0 {
		markers = DefaultMarkers
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Aggregator{renderer: renderer, markers: markers, log: log}
}

// Aggregate returns the biography text of the page at url, or "" when no content element exists.
func (a *Aggregator) Aggregate(ctx context.Context, url string) (string, error) {
	page, err := a.renderer.Render(ctx, url)
	if err != nil {
		return "", &Error{URL: url, Message: "failed to render faculty page", Cause: err}
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return "", &Error{URL: url, Message: "failed to parse faculty page", Cause: err}
	}

	bio := Collect(doc, a.markers)
	a.log.Debug("aggregated biography", logger.String("url", url), logger.Int("chars", len(bio)))
	return bio, nil
}

// Collect gathers text for each marker in order. Elements are looked up by class token first,
// then by id when no element carries the class.
func Collect(doc *goquery.Document, markers []string) string {
	var parts []string
	for _, marker := range markers {
		marker = strings.TrimSpace(marker)
		if marker == "" {
			continue
		}
		sel := doc.Find("." + marker)
		if sel.Length() == 0 {
			sel = doc.Find("#" + marker)
		}
		sel.Each(func(_ int, s *goquery.Selection) {
			for _, n := range s.Nodes {
				parts = appendTextNodes(parts, n)
			}
		})
	}
	return strings.Join(parts, " ")
}

func appendTextNodes(parts []string, n *html.Node) []string {
	if n.Type == html.TextNode {
		if t := strings.TrimSpace(n.Data); t != "" {
			parts = append(parts, t)
		}
		return parts
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		parts = appendTextNodes(parts, c)
	}
	return parts
}
