// Package fetch retrieves job posting pages and reduces their HTML to a title and plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; JobConnect/1.0)"

// MaxBodyBytes caps how much of a response body is read.
const MaxBodyBytes = 5 << 20

// Result holds the raw content from a URL fetch.
type Result struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// InvalidURLError is returned for URLs that are not absolute http or https URLs.
type InvalidURLError struct {
	URL    string
	Reason string
}

func (e *InvalidURLError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

// Options configures the fetch behavior.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	Headers   map[string]string
}

// DefaultOptions returns sensible defaults for fetching.
func DefaultOptions() *Options {
	return &Options{
		Timeout:   DefaultTimeout,
		UserAgent: DefaultUserAgent,
	}
}

// ValidateURL accepts only absolute http and https URLs with a host.
func ValidateURL(raw string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, &InvalidURLError{URL: raw, Reason: "unparseable"}
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return nil, &InvalidURLError{URL: raw, Reason: "scheme must be http or https"}
	}
	if parsed.Host == "" {
		return nil, &InvalidURLError{URL: raw, Reason: "missing host"}
	}
	return parsed, nil
}

// URL retrieves HTML content from a URL.
func URL(ctx context.Context, urlStr string, opts *Options) (*Result, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	if _, err := ValidateURL(urlStr); err != nil {
		return nil, err
	}

	client := &http.Client{Timeout: opts.Timeout}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")
	for key, value := range opts.Headers {
		req.Header.Set(key, value)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, MaxBodyBytes))
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to read response body", Cause: err}
	}

	result := &Result{
		URL:         urlStr,
		HTML:        string(bodyBytes),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}

	if resp.StatusCode != http.StatusOK {
		return result, &Error{
			URL:     urlStr,
			Message: fmt.Sprintf("HTTP status %d", resp.StatusCode),
		}
	}

	return result, nil
}

// Document is the readable part of an HTML page.
type Document struct {
	Title string
	Text  string
}

// Extract parses HTML and returns the page title and main body text. Noise
// elements are removed first, then the first matching content selector wins,
// falling back to the body.
func Extract(html string, contentSelectors []string, noiseSelectors ...string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	title := pageTitle(doc)

	doc.Find("nav, footer, header, script, style, noscript, svg, iframe, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if sel := strings.Join(noiseSelectors, ", "); sel != "" {
		doc.Find(sel).Remove()
	}

	var content *goquery.Selection
	for _, selector := range contentSelectors {
		if s := doc.Find(selector); s.Length() > 0 {
			content = s.First()
			break
		}
	}
	if content == nil {
		content = doc.Find("body")
	}

	// Block elements need a break so adjacent paragraphs don't run together.
	content.Find("p, li, h1, h2, h3, h4, h5, h6, br, div, tr").Each(func(_ int, s *goquery.Selection) {
		s.AppendHtml("\n")
	})

	return &Document{Title: title, Text: cleanWhitespace(content.Text())}, nil
}

// pageTitle prefers og:title, then <title>, then the first <h1>.
func pageTitle(doc *goquery.Document) string {
	if og, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok && strings.TrimSpace(og) != "" {
		return strings.TrimSpace(og)
	}
	if t := strings.TrimSpace(doc.Find("title").First().Text()); t != "" {
		return collapseSpaces(t)
	}
	return collapseSpaces(strings.TrimSpace(doc.Find("h1").First().Text()))
}

// JobPostingSelectors returns selectors optimized for job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims every line, collapses runs of spaces and drops empty lines.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = collapseSpaces(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
