package normalize

import (
	"strings"

	"github.com/windnewsmapper/windnews-ingest/internal/ingest"
)

// categoryKeywords is scanned in order; the first category with a matching
// token wins. Tokens are stems so inflected Polish forms still match.
var categoryKeywords = []struct {
	category ingest.Category
	tokens   []string
}{
	{
		category: ingest.CategoryInvestment,
		tokens:   []string{"inwestyc", "finansowan", "przetarg", "kontrakt", "akwizyc", "mln zł", "mld zł"},
	},
	{
		category: ingest.CategoryRegulatory,
		tokens:   []string{"ustaw", "regulac", "przepis", "rozporządz", "koncesj", "10h", "prawo"},
	},
	{
		category: ingest.CategoryTechnical,
		tokens:   []string{"technicz", "turbin", "technolog", "serwis", "fundament", "łopat"},
	},
}

// Classify assigns a category from the lower-cased title. It is a pure
// function: the same title always yields the same category. Titles matching
// no keyword fall back to CategoryNews.
func Classify(title string) ingest.Category {
	lower := strings.ToLower(title)
	for _, entry := range categoryKeywords {
		for _, token := range entry.tokens {
			if strings.Contains(lower, token) {
				return entry.category
			}
		}
	}
	return ingest.CategoryNews
}
