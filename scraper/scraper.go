// Package scraper walks the paginated catalog, extracts item records, and
// optionally resolves each item's category through a secondary fetch.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"bookcatalog/config"
	"bookcatalog/models"
	"bookcatalog/pipeline"
)

// Scraper drives the sequential listing-page loop. Each page's outcome
// gates whether a next page exists: a not-found response is the only normal
// termination signal.
type Scraper struct {
	cfg      *config.Config
	listing  *colly.Collector
	resolver *Resolver
	Metrics  *Metrics

	handlersOnce sync.Once

	mu           sync.Mutex
	pageBooks    []*models.Book
	malformed    int
	lastStatus   int
	errorsByType map[string]int
	failedURLs   []string
	requestCount int
}

// NewScraper builds a scraper instance configured from cfg.
func NewScraper(cfg *config.Config) (*Scraper, error) {
	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if parsed.Host == "" {
		return nil, fmt.Errorf("base url must include a host")
	}

	listing := colly.NewCollector(
		colly.AllowedDomains(parsed.Host),
		colly.UserAgent(cfg.UserAgent),
	)
	listing.SetRequestTimeout(cfg.Timeout)
	listing.WithTransport(&http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	})

	if err := listing.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      cfg.PageDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure rate limits: %w", err)
	}

	s := &Scraper{
		cfg:          cfg,
		listing:      listing,
		Metrics:      NewMetrics(),
		errorsByType: make(map[string]int),
	}

	if cfg.ResolveCategories {
		resolver, err := newResolver(cfg, parsed.Host, s.Metrics)
		if err != nil {
			return nil, err
		}
		s.resolver = resolver
	}

	return s, nil
}

// Run crawls listing pages from the configured start page, streaming items
// through the pipeline, until the site reports the first missing page.
func (s *Scraper) Run(ctx context.Context, p *pipeline.Pipeline) (*models.CrawlResult, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	s.configureHandlers()

	result := &models.CrawlResult{
		StartTime:    time.Now(),
		ErrorsByType: make(map[string]int),
	}

	for page := s.cfg.StartPage; ; page++ {
		if s.cfg.MaxPages > 0 && page >= s.cfg.StartPage+s.cfg.MaxPages {
			slog.Info("reached page bound", slog.Int("max_pages", s.cfg.MaxPages))
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageURL := listingURL(s.cfg.BaseURL, page)
		s.beginPage()
		visitErr := s.listing.Visit(pageURL)
		books, malformed, status := s.endPage()

		if visitErr != nil {
			if status == http.StatusNotFound {
				// page beyond the last existing one: normal end of crawl
				slog.Info("pagination ended", slog.Int("pages", result.PageCount))
				break
			}
			classified := classifyError(visitErr, status)
			label := errorTypeLabel(classified)
			s.recordError(label, pageURL)
			s.Metrics.IncError(label)
			return nil, &ListingFetchError{Page: page, URL: pageURL, Err: classified}
		}

		if len(books) == 0 && malformed == 0 {
			// a page that answered normally but carried no fragments:
			// an anomaly, never conflated with normal completion
			return nil, fmt.Errorf("page %d (%s): %w", page, pageURL, ErrEmptyPage)
		}

		result.PageCount++
		result.MalformedCount += malformed
		result.ItemCount += len(books)

		for _, book := range books {
			if s.resolver != nil {
				category, err := s.resolver.Resolve(book.URL)
				book.Category = category
				if err != nil {
					result.ResolverFallbacks++
					s.Metrics.IncResolverFallback()
					slog.Warn("category resolution degraded",
						slog.String("url", book.URL),
						slog.Any("error", err),
					)
				}
			}
			s.Metrics.IncItems()
			if err := p.Process(book); err != nil && !errors.Is(err, pipeline.ErrPipelineClosed) {
				slog.Error("pipeline process error", slog.Any("error", err))
			}
		}

		slog.Debug("listing page scraped",
			slog.Int("page", page),
			slog.Int("items", len(books)),
			slog.Int("malformed", malformed),
		)
	}

	result.EndTime = time.Now()

	s.mu.Lock()
	result.RequestCount = s.requestCount
	result.ErrorCount = len(s.failedURLs)
	result.FailedURLs = append([]string(nil), s.failedURLs...)
	for label, count := range s.errorsByType {
		result.ErrorsByType[label] = count
	}
	s.mu.Unlock()

	return result, nil
}

func (s *Scraper) configureHandlers() {
	s.handlersOnce.Do(func() {
		s.listing.OnRequest(func(r *colly.Request) {
			r.Ctx.Put("start", time.Now())
			s.mu.Lock()
			s.requestCount++
			s.mu.Unlock()
			s.Metrics.IncRequest("listing")
		})

		s.listing.OnResponse(func(r *colly.Response) {
			if start, ok := r.Request.Ctx.GetAny("start").(time.Time); ok {
				s.Metrics.ObserveDuration(time.Since(start))
			}
		})

		s.listing.OnError(func(r *colly.Response, err error) {
			status := 0
			if r != nil {
				status = r.StatusCode
			}
			s.mu.Lock()
			s.lastStatus = status
			s.mu.Unlock()
		})

		s.listing.OnHTML("article.product_pod", func(e *colly.HTMLElement) {
			book, err := extractBook(e)
			if err != nil {
				s.mu.Lock()
				s.malformed++
				s.mu.Unlock()
				s.Metrics.IncMalformed()
				slog.Warn("dropping malformed fragment",
					slog.String("page", e.Request.URL.String()),
					slog.Any("error", err),
				)
				return
			}
			s.mu.Lock()
			s.pageBooks = append(s.pageBooks, book)
			s.mu.Unlock()
		})
	})
}

func (s *Scraper) beginPage() {
	s.mu.Lock()
	s.pageBooks = nil
	s.malformed = 0
	s.lastStatus = 0
	s.mu.Unlock()
}

func (s *Scraper) endPage() (books []*models.Book, malformed, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pageBooks, s.malformed, s.lastStatus
}

func (s *Scraper) recordError(label, url string) {
	s.mu.Lock()
	s.errorsByType[label]++
	s.failedURLs = append(s.failedURLs, url)
	s.mu.Unlock()
}

// withTransport swaps the HTTP transport on all collectors, for tests.
func (s *Scraper) withTransport(rt http.RoundTripper) {
	s.listing.WithTransport(rt)
	if s.resolver != nil {
		s.resolver.withTransport(rt)
	}
}

func listingURL(baseURL string, page int) string {
	return fmt.Sprintf("%s/catalogue/page-%d.html", baseURL, page)
}

func classifyError(err error, statusCode int) error {
	if err == nil && statusCode == 0 {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return ErrTimeout{Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrTimeout{Err: err}
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return ErrConnection{Err: err}
	}

	if statusCode != 0 {
		wrapped := err
		if wrapped == nil {
			wrapped = fmt.Errorf("http status %d", statusCode)
		}
		switch statusCode {
		case http.StatusForbidden:
			return ErrForbidden{Err: wrapped}
		case http.StatusNotFound:
			return ErrNotFound{Err: wrapped}
		case http.StatusTooManyRequests:
			return ErrRateLimited{Err: wrapped}
		}
	}

	if err == nil {
		return nil
	}
	return err
}
