package scraper

import (
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"net/http"
	"net/url"
	"path"
	"regexp"
	"strings"
	"time"
)

const userAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// ErrNoSound is returned when the page contains no discoverable audio reference.
var ErrNoSound = errors.New("no audio reference found on page")

var (
	audioMetaRegex  = regexp.MustCompile(`<meta\s+property="og:audio"\s+content="([^"]+)"`)
	titleMetaRegex  = regexp.MustCompile(`<meta\s+property="og:title"\s+content="([^"]+)"`)
	playButtonRegex = regexp.MustCompile(`onclick="play\('([^']+)'`)
	htmlTitleRegex  = regexp.MustCompile(`<title>([^<]+)</title>`)
)

// Sound is the audio reference extracted from a page.
type Sound struct {
	SourceURL string
	Title     string
}

// Scraper extracts a downloadable audio URL and a display title from a
// sound page.
type Scraper struct {
	client *http.Client
}

func New() *Scraper {
	return &Scraper{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Scrape fetches pageURL and extracts the first audio reference on it.
// Relative audio paths are resolved against the page URL.
func (s *Scraper) Scrape(ctx context.Context, pageURL string) (*Sound, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("page fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page fetch failed with status code %v", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("page read failed: %w", err)
	}

	page := string(body)

	audioRef := firstMatch(page, audioMetaRegex, playButtonRegex)
	if audioRef == "" {
		return nil, ErrNoSound
	}

	sourceURL, err := resolveURL(pageURL, html.UnescapeString(audioRef))
	if err != nil {
		return nil, fmt.Errorf("invalid audio URL on page: %w", err)
	}

	title := firstMatch(page, titleMetaRegex, htmlTitleRegex)
	if title == "" {
		title = titleFromURL(sourceURL)
	}

	return &Sound{
		SourceURL: sourceURL,
		Title:     strings.TrimSpace(html.UnescapeString(title)),
	}, nil
}

func firstMatch(page string, regexes ...*regexp.Regexp) string {
	for _, re := range regexes {
		if m := re.FindStringSubmatch(page); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

func resolveURL(pageURL, ref string) (string, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	return base.ResolveReference(u).String(), nil
}

func titleFromURL(sourceURL string) string {
	u, err := url.Parse(sourceURL)
	if err != nil {
		return sourceURL
	}
	name := path.Base(u.Path)
	return strings.TrimSuffix(name, path.Ext(name))
}
