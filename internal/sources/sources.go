// Package sources holds the per-site adapters that turn fetched HTML
// documents into raw article records. The registry is a closed set known at
// build time; adding a source means adding an adapter here, not configuring
// one at runtime.
package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// DefaultLimit caps how many records an adapter emits per run when no other
// limit is configured.
const DefaultLimit = 10

// Registry returns the fixed adapter set in registration order. The order is
// stable so run summaries are reproducible.
func Registry(limit int) []ingest.Adapter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return []ingest.Adapter{
		&Gramwzielone{limit: limit},
		&WysokieNapiecie{limit: limit},
		&WNP{limit: limit},
	}
}

// firstText returns the trimmed text of the first selection matching any of
// the given selectors.
func firstText(s *goquery.Selection, selectors ...string) string {
	for _, sel := range selectors {
		if text := strings.TrimSpace(s.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

// timeValue extracts a raw date string from the first <time> element,
// preferring its machine-readable datetime attribute over the visible text.
func timeValue(s *goquery.Selection) string {
	t := s.Find("time").First()
	if t.Length() == 0 {
		return ""
	}
	if dt, ok := t.Attr("datetime"); ok && strings.TrimSpace(dt) != "" {
		return strings.TrimSpace(dt)
	}
	return strings.TrimSpace(t.Text())
}

// structureErr builds the parse error every adapter returns when its
// expected repeating container is absent.
func structureErr(source string) error {
	return &ingest.ParseError{Source: source, Err: ingest.ErrStructureChanged}
}
