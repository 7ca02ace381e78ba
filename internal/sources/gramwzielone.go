package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// Gramwzielone extracts wind-energy articles from gramwzielone.pl. The
// listing page repeats <article class="post"> blocks with an h2 (sometimes
// h3) title, a link, and an optional <time> element.
type Gramwzielone struct {
	limit int
}

func (g *Gramwzielone) Name() string { return "gramwzielone.pl" }

func (g *Gramwzielone) BaseURL() string {
	return "https://www.gramwzielone.pl/energia-wiatrowa"
}

// Extract returns up to limit raw records, or a parse error when the
// expected article list is missing entirely.
func (g *Gramwzielone) Extract(doc *goquery.Document) ([]ingest.RawArticle, error) {
	items := doc.Find("article.post")
	if items.Length() == 0 {
		return nil, structureErr(g.Name())
	}

	var out []ingest.RawArticle
	items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= g.limit {
			return false
		}
		title := firstText(s, "h2", "h3")
		href, _ := s.Find("a").First().Attr("href")
		if title == "" || strings.TrimSpace(href) == "" {
			return true
		}
		out = append(out, ingest.RawArticle{
			Title:   title,
			URL:     strings.TrimSpace(href),
			Teaser:  firstText(s, "p"),
			RawDate: timeValue(s),
		})
		return true
	})
	return out, nil
}
