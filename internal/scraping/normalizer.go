package scraping

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"cenometr/server/internal/models"
)

const listingURLBase = "https://www.otodom.pl"

var (
	errMissingID   = errors.New("candidate has no usable id")
	errNonPositive = errors.New("price or area is not a positive number")
)

// Normalize coerces one raw candidate into a clean ScrapedListing. Records
// without an id or without positive price and area are rejected; everything
// else is optional.
func Normalize(c candidate) (models.ScrapedListing, error) {
	id := stringValue(c["id"])
	if id == "" {
		id = stringValue(c["slug"])
	}
	if id == "" {
		return models.ScrapedListing{}, errMissingID
	}

	price := numberValue(c["totalPrice"])
	if price <= 0 {
		price = numberValue(c["price"])
	}
	area := numberValue(c["areaInSquareMeters"])
	if area <= 0 {
		area = numberValue(c["area"])
	}
	if price <= 0 || area <= 0 {
		return models.ScrapedListing{}, errNonPositive
	}

	pricePerM2 := numberValue(c["pricePerSquareMeter"])
	if pricePerM2 <= 0 {
		pricePerM2 = price / area
	}

	title := strings.TrimSpace(stringValue(c["title"]))
	if title == "" {
		title = "Mieszkanie"
	}

	listing := models.ScrapedListing{
		ExternalID: id,
		Title:      title,
		Price:      price,
		Area:       round2(area),
		PricePerM2: round2(pricePerM2),
		URL:        listingURL(c, id),
	}

	if rooms := intValue(c["roomsNumber"]); rooms > 0 {
		listing.Rooms = &rooms
	} else if rooms := intValue(c["rooms"]); rooms > 0 {
		listing.Rooms = &rooms
	}
	// floor 0 (parter) is a real value, only an absent field is skipped
	if floor, ok := intField(c, "floor", "floorNumber"); ok {
		listing.Floor = &floor
	}

	if agency, ok := c["agency"].(map[string]interface{}); ok {
		if name := strings.TrimSpace(stringValue(agency["name"])); name != "" {
			listing.Developer = &name
		}
	}
	if address := extractAddress(c); address != "" {
		listing.Address = &address
	}

	return listing, nil
}

// listingURL prefers the portal's own URL field and otherwise rebuilds the
// offer URL from the slug or id.
func listingURL(c candidate, id string) string {
	if raw := stringValue(c["url"]); raw != "" {
		if strings.HasPrefix(raw, "http") {
			return raw
		}
		return listingURLBase + raw
	}

	slug := stringValue(c["slug"])
	if slug == "" {
		slug = id
	}
	return listingURLBase + "/pl/oferta/" + slug
}

// extractAddress joins the street and district names from the nested
// location block, either of which may be absent.
func extractAddress(c candidate) string {
	location, ok := c["location"].(map[string]interface{})
	if !ok {
		return ""
	}
	address, ok := location["address"].(map[string]interface{})
	if !ok {
		return ""
	}

	var parts []string
	if street, ok := address["street"].(map[string]interface{}); ok {
		if name := strings.TrimSpace(stringValue(street["name"])); name != "" {
			parts = append(parts, name)
		}
	}
	if district, ok := address["district"].(map[string]interface{}); ok {
		if name := strings.TrimSpace(stringValue(district["name"])); name != "" {
			parts = append(parts, name)
		}
	}
	return strings.Join(parts, ", ")
}

func stringValue(v interface{}) string {
	switch value := v.(type) {
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return ""
	}
}

// numberValue reads a numeric field that the portal serves either as a bare
// number or wrapped in a {value, currency} object.
func numberValue(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case map[string]interface{}:
		if inner, ok := value["value"].(float64); ok {
			return inner
		}
	}
	return 0
}

func intValue(v interface{}) int {
	switch value := v.(type) {
	case float64:
		return int(value)
	case string:
		return leadingInt(value)
	}
	return 0
}

// intField reads the first of keys that carries a numeric value, reporting
// whether any was present so zero survives as a value.
func intField(c candidate, keys ...string) (int, bool) {
	for _, key := range keys {
		if value, ok := c[key].(float64); ok {
			return int(value), true
		}
	}
	return 0, false
}

var nonNumberPattern = regexp.MustCompile(`[^\d,.\s]`)

// ParsePolishNumber reads a Polish-formatted number out of display text,
// e.g. "399 000 zł" or "48,5 m²".
func ParsePolishNumber(text string) float64 {
	cleaned := nonNumberPattern.ReplaceAllString(text, "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")
	cleaned = strings.ReplaceAll(cleaned, ",", ".")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0
	}

	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0
	}
	return value
}

// leadingInt reads the first run of digits in text, e.g. "3 pokoje" -> 3.
func leadingInt(text string) int {
	digits := ""
	for _, r := range strings.TrimSpace(text) {
		if r < '0' || r > '9' {
			if digits != "" {
				break
			}
			continue
		}
		digits += string(r)
	}
	if digits == "" {
		return 0
	}
	value, err := strconv.Atoi(digits)
	if err != nil {
		return 0
	}
	return value
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
