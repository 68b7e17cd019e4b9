package fetch

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultCacheTTL is how long an imported page is reused.
const DefaultCacheTTL = 15 * time.Minute

// Page is a job posting page reduced to text.
type Page struct {
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Text     string   `json:"text"`
	Platform Platform `json:"platform"`
	Rendered bool     `json:"rendered"`
}

// Fetcher downloads job pages over HTTP and falls back to a headless browser
// for client-rendered pages. Results are cached in memory per URL.
type Fetcher struct {
	options  *Options
	renderer Renderer
	logger   *zap.Logger

	mu    sync.Mutex
	ttl   time.Duration
	cache map[string]cacheEntry
	now   func() time.Time
}

type cacheEntry struct {
	page    *Page
	expires time.Time
}

// NewFetcher creates a Fetcher. A nil renderer disables the browser path.
func NewFetcher(opts *Options, renderer Renderer, log *zap.Logger) *Fetcher {
	if opts == nil {
		opts = DefaultOptions()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Fetcher{
		options:  opts,
		renderer: renderer,
		logger:   log,
		ttl:      DefaultCacheTTL,
		cache:    make(map[string]cacheEntry),
		now:      time.Now,
	}
}

// SetCacheTTL changes the cache lifetime; zero disables caching.
func (f *Fetcher) SetCacheTTL(ttl time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ttl = ttl
}

// Fetch retrieves a page. When useBrowser is set, or the platform is known to
// render client-side, or the HTTP text is too short, the page is rendered in
// the browser. A browser failure keeps the HTTP text if there is any.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string, useBrowser bool) (*Page, error) {
	parsed, err := ValidateURL(rawURL)
	if err != nil {
		return nil, err
	}
	urlStr := parsed.String()

	if page := f.cached(urlStr, useBrowser); page != nil {
		f.logger.Debug("page cache hit", zap.String("url", urlStr))
		return page, nil
	}

	page := &Page{URL: urlStr, Platform: DetectPlatform(urlStr)}
	content := ContentSelectors(urlStr)
	noise := NoiseSelectors(urlStr)

	result, httpErr := URL(ctx, urlStr, f.options)
	if httpErr == nil {
		doc, err := Extract(result.HTML, content, noise...)
		if err != nil {
			return nil, err
		}
		page.Title, page.Text = doc.Title, doc.Text
	} else {
		f.logger.Warn("http fetch failed", zap.String("url", urlStr), zap.Error(httpErr))
	}

	wantBrowser := useBrowser || RequiresBrowser(urlStr) || ShouldUseBrowser(page.Text)
	if wantBrowser && f.renderer != nil {
		html, err := f.renderer.Render(ctx, urlStr)
		switch {
		case err == nil:
			doc, err := Extract(html, content, noise...)
			if err != nil {
				return nil, err
			}
			if len(doc.Text) >= len(page.Text) {
				page.Text = doc.Text
				page.Rendered = true
			}
			if page.Title == "" {
				page.Title = doc.Title
			}
		case httpErr != nil:
			return nil, errors.Join(httpErr, err)
		default:
			f.logger.Warn("browser render failed, using HTTP text", zap.String("url", urlStr), zap.Error(err))
		}
	} else if httpErr != nil {
		return nil, httpErr
	}

	if strings.TrimSpace(page.Text) == "" {
		return nil, &Error{URL: urlStr, Message: "page has no readable text"}
	}

	f.store(urlStr, page)
	return page, nil
}

// cached returns a fresh cache entry. A browser request is only served from a rendered entry.
func (f *Fetcher) cached(urlStr string, useBrowser bool) *Page {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[urlStr]
	if !ok {
		return nil
	}
	if f.now().After(entry.expires) {
		delete(f.cache, urlStr)
		return nil
	}
	if useBrowser && !entry.page.Rendered {
		return nil
	}
	p := *entry.page
	return &p
}

func (f *Fetcher) store(urlStr string, page *Page) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.ttl <= 0 {
		return
	}
	now := f.now()
	for k, e := range f.cache {
		if now.After(e.expires) {
			delete(f.cache, k)
		}
	}
	p := *page
	f.cache[urlStr] = cacheEntry{page: &p, expires: now.Add(f.ttl)}
}
