// Package normalize converts raw, source-specific article records into the
// canonical article shape: it validates required fields, parses publication
// dates with locale-aware fallbacks, classifies the category from the title,
// and resolves best-effort location hints.
package normalize

import (
	"net/url"
	"strings"
	"time"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// Normalize converts one raw record into its canonical form. Title and an
// absolute http(s) URL are required; everything else degrades softly — an
// unparseable date or unresolvable location never rejects the record.
func Normalize(raw ingest.RawArticle, source string, now time.Time) (ingest.Article, error) {
	title := strings.TrimSpace(raw.Title)
	if title == "" {
		return ingest.Article{}, &ingest.ValidationError{Field: "title", Reason: "empty"}
	}

	link, err := validateURL(raw.URL)
	if err != nil {
		return ingest.Article{}, err
	}

	article := ingest.Article{
		Title:     title,
		URL:       link,
		Source:    source,
		Summary:   strings.TrimSpace(raw.Teaser),
		Category:  Classify(title),
		ScrapedAt: now,
		CreatedAt: now,
	}

	if parsed, ok := ParseDate(raw.RawDate); ok {
		article.PublishedAt = &parsed
	}

	hint := strings.Join([]string{title, raw.Teaser, raw.LocationHint}, " ")
	if name, lat, lon, ok := ResolveLocation(hint); ok {
		article.Location = &name
		article.Latitude = &lat
		article.Longitude = &lon
	}

	return article, nil
}

func validateURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", &ingest.ValidationError{Field: "url", Reason: "empty"}
	}
	u, err := url.Parse(value)
	if err != nil {
		return "", &ingest.ValidationError{Field: "url", Reason: "unparseable"}
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", &ingest.ValidationError{Field: "url", Reason: "not an absolute http(s) url"}
	}
	if u.Host == "" {
		return "", &ingest.ValidationError{Field: "url", Reason: "missing host"}
	}
	return u.String(), nil
}
