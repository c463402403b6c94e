package scraping

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"cenometr/server/internal/models"
)

// candidate is one loosely-typed listing record pulled out of the page
// before normalization.
type candidate map[string]interface{}

// extractStrategy is one way of locating listing records in a fetched page.
// Strategies are tried in order; the first that yields usable records wins.
type extractStrategy interface {
	name() string
	extract(doc *goquery.Document) ([]candidate, int, error)
}

// Extractor turns a raw search-result page into scraped listings. It never
// returns an error: a page no strategy can read produces a failed
// ScrapeResult with a diagnostic message.
type Extractor struct {
	logger     *logrus.Logger
	strategies []extractStrategy
}

func NewExtractor(logger *logrus.Logger) *Extractor {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Extractor{
		logger: logger,
		strategies: []extractStrategy{
			embeddedStateStrategy{},
			inlineFragmentStrategy{},
			structuralStrategy{},
		},
	}
}

func (e *Extractor) Extract(html string) models.ScrapeResult {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return models.ScrapeResult{Success: false, Error: fmt.Sprintf("failed to parse page: %v", err)}
	}

	for _, strategy := range e.strategies {
		candidates, totalFound, err := strategy.extract(doc)
		if err != nil {
			e.logger.WithField("strategy", strategy.name()).WithError(err).Debug("Strategy yielded nothing")
			continue
		}

		listings := make([]models.ScrapedListing, 0, len(candidates))
		for _, c := range candidates {
			listing, err := Normalize(c)
			if err != nil {
				// a malformed item must not fail the whole batch
				e.logger.WithField("strategy", strategy.name()).WithError(err).Debug("Skipping candidate")
				continue
			}
			listings = append(listings, listing)
		}
		if len(listings) == 0 {
			continue
		}

		if totalFound < len(listings) {
			totalFound = len(listings)
		}
		e.logger.WithFields(logrus.Fields{
			"strategy":    strategy.name(),
			"listings":    len(listings),
			"total_found": totalFound,
		}).Info("Extraction succeeded")

		return models.ScrapeResult{Success: true, Listings: listings, TotalFound: totalFound}
	}

	return models.ScrapeResult{
		Success: false,
		Error:   "Nie znaleziono ogłoszeń na stronie (możliwa zmiana struktury strony Otodom)",
	}
}

// embeddedStateStrategy reads the structured-data block the portal embeds
// in every rendered page.
type embeddedStateStrategy struct{}

func (embeddedStateStrategy) name() string { return "embedded-state" }

// itemPaths are the known locations of the item list inside pageProps: the
// current schema, a legacy schema, and an alternate nested wrapper. The
// portal restructures this block periodically, so all of them are probed.
var itemPaths = [][]string{
	{"data", "searchAds"},
	{"ads"},
	{"initialProps", "data", "searchAds"},
}

func (embeddedStateStrategy) extract(doc *goquery.Document) ([]candidate, int, error) {
	raw := doc.Find("script#__NEXT_DATA__").Text()
	if strings.TrimSpace(raw) == "" {
		return nil, 0, errors.New("no __NEXT_DATA__ block in page")
	}

	var data map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &data); err != nil {
		return nil, 0, fmt.Errorf("invalid __NEXT_DATA__ JSON: %w", err)
	}

	pageProps, ok := dig(data, "props", "pageProps")
	if !ok {
		return nil, 0, errors.New("no pageProps in __NEXT_DATA__")
	}

	for _, path := range itemPaths {
		ads, ok := dig(pageProps, path...)
		if !ok {
			continue
		}
		items, totalFound := adItems(ads)
		if len(items) > 0 {
			return items, totalFound, nil
		}
	}
	return nil, 0, errors.New("no listing items found in __NEXT_DATA__")
}

// inlineFragmentStrategy scans the remaining script payloads for a
// brace-delimited JSON fragment carrying the item-list marker.
type inlineFragmentStrategy struct{}

func (inlineFragmentStrategy) name() string { return "inline-fragment" }

var fragmentPattern = regexp.MustCompile(`\{[\s\S]*"searchAds"[\s\S]*\}`)

func (inlineFragmentStrategy) extract(doc *goquery.Document) ([]candidate, int, error) {
	var items []candidate
	var totalFound int

	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if id, _ := s.Attr("id"); id == "__NEXT_DATA__" {
			return true
		}
		content := s.Text()
		if !strings.Contains(content, "searchAds") {
			return true
		}

		match := fragmentPattern.FindString(content)
		if match == "" {
			return true
		}
		var data map[string]interface{}
		if err := json.Unmarshal([]byte(match), &data); err != nil {
			return true
		}
		ads, ok := data["searchAds"].(map[string]interface{})
		if !ok {
			return true
		}

		items, totalFound = adItems(ads)
		return len(items) == 0
	})

	if len(items) == 0 {
		return nil, 0, errors.New("no inline searchAds fragment found")
	}
	return items, totalFound, nil
}

// structuralStrategy parses the rendered markup directly. Least reliable,
// used only when both embedded-data strategies come up empty.
type structuralStrategy struct{}

func (structuralStrategy) name() string { return "structural" }

func (structuralStrategy) extract(doc *goquery.Document) ([]candidate, int, error) {
	var items []candidate

	selector := `[data-cy="listing-item"], [data-testid="listing-item"], article[data-featured-name]`
	doc.Find(selector).Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Find(`a[href*="/oferta/"]`).First().Attr("href")
		if href == "" {
			return
		}
		segments := strings.Split(href, "/")
		id := strings.SplitN(segments[len(segments)-1], "?", 2)[0]
		if id == "" {
			return
		}

		title := strings.TrimSpace(card.Find(`[data-cy="listing-item-title"], h3, h2`).First().Text())
		if title == "" {
			title = "Mieszkanie"
		}

		price := ParsePolishNumber(card.Find(`[data-cy="listing-item-price"]`).First().Text())
		area := ParsePolishNumber(card.Find(`span:contains("m²")`).First().Text())
		if price <= 0 || area <= 0 {
			return
		}

		absURL := href
		if !strings.HasPrefix(href, "http") {
			absURL = listingURLBase + href
		}

		item := candidate{
			"id":                 id,
			"title":              title,
			"totalPrice":         price,
			"areaInSquareMeters": area,
			"url":                absURL,
		}
		if rooms := leadingInt(card.Find(`span:contains("poko")`).First().Text()); rooms > 0 {
			item["roomsNumber"] = float64(rooms)
		}
		items = append(items, item)
	})

	if len(items) == 0 {
		return nil, 0, errors.New("no listing cards found in markup")
	}
	return items, len(items), nil
}

// dig walks nested JSON objects along path.
func dig(m map[string]interface{}, path ...string) (map[string]interface{}, bool) {
	current := m
	for _, key := range path {
		next, ok := current[key].(map[string]interface{})
		if !ok {
			return nil, false
		}
		current = next
	}
	return current, true
}

// adItems pulls the item list and the total-result count out of a searchAds
// style wrapper. The count falls back to the item count when the pagination
// field is absent.
func adItems(ads map[string]interface{}) ([]candidate, int) {
	rawItems, _ := ads["items"].([]interface{})
	items := make([]candidate, 0, len(rawItems))
	for _, raw := range rawItems {
		if item, ok := raw.(map[string]interface{}); ok {
			items = append(items, item)
		}
	}

	totalFound := len(items)
	if pagination, ok := ads["pagination"].(map[string]interface{}); ok {
		if total, ok := pagination["totalResults"].(float64); ok && total > 0 {
			totalFound = int(total)
		}
	}
	return items, totalFound
}
