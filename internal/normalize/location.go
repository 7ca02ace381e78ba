package normalize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// voivodeships lists the sixteen Polish voivodeships with an approximate
// centroid. The list order matters: "pomorskie" precedes the hyphenated
// names that contain it, mirroring how wind-farm articles usually name the
// plain region.
var voivodeships = []struct {
	name string
	lat  float64
	lon  float64
}{
	{"pomorskie", 54.25, 17.97},
	{"zachodniopomorskie", 53.45, 15.55},
	{"wielkopolskie", 52.28, 17.25},
	{"kujawsko-pomorskie", 53.07, 18.49},
	{"warmińsko-mazurskie", 53.87, 20.79},
	{"podlaskie", 53.27, 23.01},
	{"mazowieckie", 52.35, 21.05},
	{"łódzkie", 51.61, 19.42},
	{"lubelskie", 51.22, 22.90},
	{"podkarpackie", 49.95, 22.17},
	{"małopolskie", 49.86, 20.26},
	{"śląskie", 50.33, 19.03},
	{"opolskie", 50.60, 17.88},
	{"dolnośląskie", 51.09, 16.40},
	{"lubuskie", 52.21, 15.32},
	{"świętokrzyskie", 50.75, 20.75},
}

// ResolveLocation scans free text for a known voivodeship name and returns
// the capitalized name with its centroid coordinates. A miss is not an
// error; articles without a resolvable location simply carry no coordinates.
func ResolveLocation(text string) (string, float64, float64, bool) {
	lower := strings.ToLower(text)
	for _, v := range voivodeships {
		if strings.Contains(lower, v.name) {
			return capitalize(v.name), v.lat, v.lon, true
		}
	}
	return "", 0, 0, false
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
