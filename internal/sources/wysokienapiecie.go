package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// WysokieNapiecie extracts articles from the wysokienapiecie.pl wind-energy
// category page. Entries are plain <article> blocks; the title link sits in
// h2.entry-title, with a bare h2 as fallback for older templates.
type WysokieNapiecie struct {
	limit int
}

func (w *WysokieNapiecie) Name() string { return "wysokienapiecie.pl" }

func (w *WysokieNapiecie) BaseURL() string {
	return "https://wysokienapiecie.pl/category/energia-wiatrowa/"
}

func (w *WysokieNapiecie) Extract(doc *goquery.Document) ([]ingest.RawArticle, error) {
	items := doc.Find("article")
	if items.Length() == 0 {
		return nil, structureErr(w.Name())
	}

	var out []ingest.RawArticle
	items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= w.limit {
			return false
		}
		link := s.Find("h2.entry-title a").First()
		if link.Length() == 0 {
			link = s.Find("h2 a").First()
		}
		if link.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		if title == "" || strings.TrimSpace(href) == "" {
			return true
		}
		out = append(out, ingest.RawArticle{
			Title:   title,
			URL:     strings.TrimSpace(href),
			Teaser:  firstText(s, "div.entry-summary", "p"),
			RawDate: timeValue(s),
		})
		return true
	})
	return out, nil
}
