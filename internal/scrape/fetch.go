// Package scrape retrieves the facility's opening-hours page and extracts
// the weekly schedule from it. The page is rendered client-side, so fetching
// goes through headless Chromium; the last good page body is kept on disk so
// a fetch failure degrades to slightly stale data instead of an outage.
package scrape

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/chromedp/chromedp"

	appLog "velocal/internal/log"
	"velocal/internal/schedule"
)

const defaultFetchTimeout = 30 * time.Second

// Scraper fetches and extracts the weekly schedule from a single page URL.
type Scraper struct {
	url      string
	cacheDir string
	timeout  time.Duration
}

// pageMeta records when the cached page body was last refreshed.
type pageMeta struct {
	URL       string    `json:"url"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewScraper creates a Scraper for the given page URL. cacheDir is the base
// directory for the on-disk page cache; timeout bounds one full fetch
// (zero means defaultFetchTimeout).
func NewScraper(url, cacheDir string, timeout time.Duration) *Scraper {
	if cacheDir == "" {
		// Fallback keeps development runs working without root permissions.
		cacheDir = "./var/page-cache"
	}
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Scraper{
		url:      url,
		cacheDir: cacheDir,
		timeout:  timeout,
	}
}

// Scrape fetches the page and extracts the WeeklySchedule from it. An empty
// or missing schedule is a hard error (ErrEmptySchedule); everything softer
// (individual malformed day strings, unresolvable week headings) is handled
// downstream by the parser and generator.
func (s *Scraper) Scrape(ctx context.Context) (schedule.WeeklySchedule, error) {
	body, fromCache, err := s.fetchHTML(ctx)
	if err != nil {
		return nil, err
	}

	sched, err := ExtractSchedule(body)
	if err != nil {
		return nil, err
	}

	appLog.Info("schedule scraped", "url", s.url, "weeks", len(sched), "from_cache", fromCache)
	return sched, nil
}

// fetchHTML loads the page in headless Chromium and returns the rendered
// document. On success the body is written to the disk cache; on failure the
// cached body (if any) is returned instead.
func (s *Scraper) fetchHTML(ctx context.Context) (string, bool, error) {
	if s.url == "" {
		return "", false, errors.New("scrape: page URL is empty")
	}

	cachePath, err := s.cachePath()
	if err != nil {
		return "", false, err
	}

	html, err := s.renderPage(ctx)
	if err != nil {
		cached, cacheErr := os.ReadFile(filepath.Join(cachePath, "body.html"))
		if cacheErr == nil && len(cached) > 0 {
			appLog.Error("page fetch failed, using cached body", err, "url", s.url)
			return string(cached), true, nil
		}
		return "", false, err
	}

	if err := s.saveCache(cachePath, html); err != nil {
		// Cache trouble is not fatal; the fresh body is still good.
		appLog.Error("page cache save failed", err, "url", s.url)
	}

	return html, false, nil
}

// renderPage navigates headless Chromium to the page and captures the
// rendered outer HTML once the body is ready.
func (s *Scraper) renderPage(parentCtx context.Context) (string, error) {
	ctx, cancel := chromedp.NewContext(parentCtx)
	defer cancel()

	ctx, timeoutCancel := context.WithTimeout(ctx, s.timeout)
	defer timeoutCancel()

	appLog.Info("page fetch start", "url", s.url)

	var html string
	tasks := chromedp.Tasks{
		chromedp.Navigate(s.url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	}
	if err := chromedp.Run(ctx, tasks); err != nil {
		return "", err
	}
	return html, nil
}

func (s *Scraper) cachePath() (string, error) {
	sum := sha256.Sum256([]byte(s.url))
	dir := filepath.Join(s.cacheDir, hex.EncodeToString(sum[:8]))
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func (s *Scraper) saveCache(cachePath, body string) error {
	// Write body first so meta never points at a missing body.
	if err := os.WriteFile(filepath.Join(cachePath, "body.html"), []byte(body), 0o600); err != nil {
		return err
	}

	meta := pageMeta{URL: s.url, UpdatedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(&meta, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(cachePath, "meta.json"), data, 0o600)
}
