package sources

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

const wnpBase = "https://www.wnp.pl"

// WNP extracts articles from the wnp.pl renewable-energy section. The
// listing repeats <div class="news-item"> blocks whose first link carries
// both the title text and an often relative href. The listing exposes no
// publication date.
type WNP struct {
	limit int
}

func (w *WNP) Name() string { return "wnp.pl" }

func (w *WNP) BaseURL() string { return wnpBase + "/oze/" }

func (w *WNP) Extract(doc *goquery.Document) ([]ingest.RawArticle, error) {
	items := doc.Find("div.news-item")
	if items.Length() == 0 {
		return nil, structureErr(w.Name())
	}

	var out []ingest.RawArticle
	items.EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if len(out) >= w.limit {
			return false
		}
		link := s.Find("a").First()
		if link.Length() == 0 {
			return true
		}
		title := strings.TrimSpace(link.Text())
		href, _ := link.Attr("href")
		href = strings.TrimSpace(href)
		if title == "" || href == "" {
			return true
		}
		if !strings.HasPrefix(href, "http") {
			href = wnpBase + href
		}
		out = append(out, ingest.RawArticle{
			Title:  title,
			URL:    href,
			Teaser: firstText(s, "p"),
		})
		return true
	})
	return out, nil
}
