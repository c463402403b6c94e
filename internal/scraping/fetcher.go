package scraping

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"

	"cenometr/server/config"
	"cenometr/server/internal/models"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// browserHeaders makes the request look like an ordinary browser visit;
// the source blocks obvious automated clients.
var browserHeaders = map[string]string{
	"User-Agent":                userAgent,
	"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
	"Accept-Language":           "pl-PL,pl;q=0.9,en-US;q=0.8,en;q=0.7",
	"Cache-Control":             "no-cache",
	"Pragma":                    "no-cache",
	"Sec-Fetch-Dest":            "document",
	"Sec-Fetch-Mode":            "navigate",
	"Sec-Fetch-Site":            "none",
	"Sec-Fetch-User":            "?1",
	"Upgrade-Insecure-Requests": "1",
}

// HTTPStatusError reports a non-success response from the source.
type HTTPStatusError struct {
	StatusCode int
	Status     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Status)
}

// Fetcher retrieves one search-result page from the Otodom portal.
type Fetcher struct {
	client    *http.Client
	baseURL   string
	pageLimit int
	logger    *logrus.Logger
}

func NewFetcher(cfg *config.Config, logger *logrus.Logger) *Fetcher {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}

	return &Fetcher{
		client: &http.Client{
			Timeout: time.Duration(cfg.Scraping.FetchTimeout) * time.Second,
		},
		baseURL:   cfg.Scraping.BaseURL,
		pageLimit: cfg.Scraping.PageLimit,
		logger:    logger,
	}
}

// BuildSearchURL assembles the apartment-sale search URL for one city. The
// market filter is omitted entirely when ALL markets are requested.
func (f *Fetcher) BuildSearchURL(voivodeshipSlug, citySlug string, market models.Market, page int) string {
	base := fmt.Sprintf("%s/pl/wyniki/sprzedaz/mieszkanie/%s/%s", f.baseURL, voivodeshipSlug, citySlug)

	params := url.Values{}
	if market != "" && market != models.MarketAll {
		params.Set("market", string(market))
	}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	params.Set("limit", strconv.Itoa(f.pageLimit))
	params.Set("by", "DEFAULT")
	params.Set("direction", "DESC")
	params.Set("viewType", "listing")

	return base + "?" + params.Encode()
}

// Fetch requests the first result page for a city and market filter and
// returns the raw page body. No pagination and no retries: a failed fetch
// is reported to the caller and the prior listing set stays untouched.
func (f *Fetcher) Fetch(ctx context.Context, voivodeshipSlug, citySlug string, market models.Market) (string, error) {
	target := f.BuildSearchURL(voivodeshipSlug, citySlug, market, 1)
	f.logger.WithField("url", target).Info("Fetching search page")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	for key, value := range browserHeaders {
		req.Header.Set(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &HTTPStatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}
	return string(body), nil
}
