package freshness

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/contentiq/contentiq/internal/models"
)

var (
	tagRe       = regexp.MustCompile(`<[^>]*>`)
	yearRe      = regexp.MustCompile(`\b(20\d{2})\b`)
	monthYearRe = regexp.MustCompile(`(?i)\b(January|February|March|April|May|June|July|August|September|October|November|December)\s+(20\d{2})\b`)
	asOfRe      = regexp.MustCompile(`(?i)\b(?:as of|since|in)\s+(?:[A-Za-z]+\s+)?20\d{2}\b`)
	bareYearRe  = regexp.MustCompile(`20\d{2}`)

	percentageRe  = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*%\s+of\s+\w+`)
	userCountRe   = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*(?:million|billion|thousand|M|B|K)\s+(?:users|customers|subscribers|downloads|installs)\b`)
	marketShareRe = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*%\s+(?:market share|of the market)\b`)
	growthRe      = regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*%\s+(?:growth|increase|decline)\b`)

	versionRe = regexp.MustCompile(`(?i)\b(React|Angular|Vue|Python|Java|Node|PHP|iOS|Android|Windows|macOS|Ubuntu)\s+(\d+(?:\.\d+)?)\b`)
)

// versionFloors is the "current enough" version per technology family.
// Families absent from the map are never flagged on version alone.
var versionFloors = map[string]float64{
	"react":   17,
	"angular": 15,
	"vue":     3,
	"python":  3.9,
	"node":    16,
	"ios":     15,
	"android": 12,
}

var deprecatedTerms = []string{
	"bower",
	"grunt",
	"gulp",
	"jQuery UI",
	"AngularJS",
	"Backbone.js",
	"CoffeeScript",
	"Flash",
	"Silverlight",
	"Internet Explorer",
	"IE11",
}

// supersededProducts pairs a discontinued or rebranded product name with
// the reason it should be reviewed.
var supersededProducts = []struct {
	Name   string
	Reason string
}{
	{"Google+", "Google Plus has been discontinued"},
	{"Hangouts", "Google Hangouts has been replaced by Google Chat/Meet"},
	{"Inbox by Gmail", "Inbox has been discontinued"},
	{"Twitter", "Platform has been rebranded to X (verify if still relevant)"},
}

func stripTags(content string) string {
	return tagRe.ReplaceAllString(content, " ")
}

// DetectOutdatedDates flags year references, month+year phrases, and
// "as of / since / in <year>" temporal claims older than the configured
// year threshold.
func (a *Analyzer) DetectOutdatedDates(content string) []models.OutdatedItem {
	currentYear := a.clock().Year()
	text := stripTags(content)
	var items []models.OutdatedItem

	for _, m := range yearRe.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[1])
		age := currentYear - year
		if age < a.thresholds.OutdatedYearThreshold {
			continue
		}
		confidence := models.ConfidenceMedium
		if age >= 3 {
			confidence = models.ConfidenceHigh
		}
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedYear,
			Content:    m[1],
			Reason:     fmt.Sprintf("Referenced year is %d years old", age),
			Confidence: confidence,
		})
	}

	for _, m := range monthYearRe.FindAllStringSubmatch(text, -1) {
		year, _ := strconv.Atoi(m[2])
		age := currentYear - year
		if age < a.thresholds.OutdatedYearThreshold {
			continue
		}
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedDate,
			Content:    m[0],
			Reason:     fmt.Sprintf("Date reference is %d years old", age),
			Confidence: models.ConfidenceHigh,
		})
	}

	for _, m := range asOfRe.FindAllString(text, -1) {
		yearText := bareYearRe.FindString(m)
		if yearText == "" {
			continue
		}
		year, _ := strconv.Atoi(yearText)
		age := currentYear - year
		if age < a.thresholds.OutdatedYearThreshold {
			continue
		}
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedDate,
			Content:    m,
			Reason:     fmt.Sprintf("Temporal statement is %d years old", age),
			Confidence: models.ConfidenceHigh,
			Location:   "temporal reference",
		})
	}

	return items
}

// DetectOutdatedStatistics flags numeric claims. Statistics are flagged
// unconditionally: any percentage, count, market-share, or growth figure
// ages from the moment it is published.
func (a *Analyzer) DetectOutdatedStatistics(content string) []models.OutdatedItem {
	text := stripTags(content)
	var items []models.OutdatedItem

	for _, m := range percentageRe.FindAllString(text, -1) {
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedStatistic,
			Content:    m,
			Reason:     "Percentage statistic may be outdated",
			Confidence: models.ConfidenceMedium,
			Location:   "statistic",
		})
	}

	for _, m := range userCountRe.FindAllString(text, -1) {
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedStatistic,
			Content:    m,
			Reason:     "User/customer count may be outdated",
			Confidence: models.ConfidenceHigh,
			Location:   "metrics",
		})
	}

	for _, m := range marketShareRe.FindAllString(text, -1) {
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedStatistic,
			Content:    m,
			Reason:     "Market share data may be outdated",
			Confidence: models.ConfidenceHigh,
			Location:   "market data",
		})
	}

	for _, m := range growthRe.FindAllString(text, -1) {
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedStatistic,
			Content:    m,
			Reason:     "Growth rate may be outdated",
			Confidence: models.ConfidenceMedium,
			Location:   "growth metrics",
		})
	}

	return items
}

// DetectOutdatedTechnologies flags version references below the per-family
// floor, plus known deprecated terms and superseded product names.
func (a *Analyzer) DetectOutdatedTechnologies(content string) []models.OutdatedItem {
	text := stripTags(content)
	var items []models.OutdatedItem

	for _, m := range versionRe.FindAllStringSubmatch(text, -1) {
		floor, ok := versionFloors[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		version, err := strconv.ParseFloat(m[2], 64)
		if err != nil || version >= floor {
			continue
		}
		items = append(items, models.OutdatedItem{
			Type:       models.OutdatedTechnology,
			Content:    m[0],
			Reason:     "Technology version may be outdated",
			Confidence: models.ConfidenceMedium,
			Location:   "technology reference",
		})
	}

	for _, term := range deprecatedTerms {
		if wordRegexp(term).MatchString(text) {
			items = append(items, models.OutdatedItem{
				Type:       models.OutdatedTechnology,
				Content:    term,
				Reason:     fmt.Sprintf("%s is deprecated or outdated", term),
				Confidence: models.ConfidenceHigh,
				Location:   "deprecated technology",
			})
		}
	}

	for _, product := range supersededProducts {
		if wordRegexp(product.Name).MatchString(text) {
			items = append(items, models.OutdatedItem{
				Type:       models.OutdatedProduct,
				Content:    product.Name,
				Reason:     product.Reason,
				Confidence: models.ConfidenceHigh,
				Location:   "product reference",
			})
		}
	}

	return items
}

// wordRegexp matches term as a whole word. The trailing \b only works when
// the term ends in a word character; names like "Google+" need an explicit
// not-a-word-character check instead.
func wordRegexp(term string) *regexp.Regexp {
	tail := `\b`
	if r, _ := utf8.DecodeLastRuneInString(term); !isWordRune(r) {
		tail = `(?:$|[^\w])`
	}
	return regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(term) + tail)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
