package scraper

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gocolly/colly/v2"

	"bookcatalog/catalog"
	"bookcatalog/config"
)

// errShortTrail marks a detail page whose breadcrumb has fewer elements
// than the fixed root → catalog → category → title layout.
var errShortTrail = errors.New("breadcrumb trail shorter than expected")

// Resolver performs the best-effort secondary fetch for an item's category.
// Resolve never propagates a failure: every error mode degrades to the
// Unknown fallback, which is what lets the crawl treat it as optional.
//
// The resolver follows the listing loop's sequential cadence and is not
// safe for concurrent use.
type Resolver struct {
	collector *colly.Collector
	metrics   *Metrics

	mu     sync.Mutex
	trail  []string
	status int
}

func newResolver(cfg *config.Config, host string, metrics *Metrics) (*Resolver, error) {
	collector := colly.NewCollector(
		colly.AllowedDomains(host),
		colly.UserAgent(cfg.UserAgent),
	)
	collector.SetRequestTimeout(cfg.Timeout)
	collector.AllowURLRevisit = true

	if err := collector.Limit(&colly.LimitRule{
		DomainGlob: "*",
		Delay:      cfg.DetailDelay,
	}); err != nil {
		return nil, fmt.Errorf("configure detail rate limits: %w", err)
	}

	r := &Resolver{
		collector: collector,
		metrics:   metrics,
	}

	collector.OnRequest(func(req *colly.Request) {
		req.Ctx.Put("start", time.Now())
		metrics.IncRequest("detail")
	})
	collector.OnResponse(func(resp *colly.Response) {
		if start, ok := resp.Request.Ctx.GetAny("start").(time.Time); ok {
			metrics.ObserveDuration(time.Since(start))
		}
	})
	collector.OnError(func(resp *colly.Response, err error) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		r.mu.Lock()
		r.status = status
		r.mu.Unlock()
		metrics.IncError(errorTypeLabel(classifyError(err, status)))
	})
	collector.OnHTML("ul.breadcrumb li", func(e *colly.HTMLElement) {
		r.mu.Lock()
		r.trail = append(r.trail, strings.TrimSpace(e.Text))
		r.mu.Unlock()
	})

	return r, nil
}

// Resolve fetches the detail page and extracts the category from the
// breadcrumb trail: the element third from the start. On any failure it
// returns the Unknown fallback and the cause for logging.
func (r *Resolver) Resolve(detailURL string) (string, error) {
	if detailURL == "" {
		return catalog.Unknown, fmt.Errorf("empty detail URL")
	}

	r.mu.Lock()
	r.trail = nil
	r.status = 0
	r.mu.Unlock()

	if err := r.collector.Visit(detailURL); err != nil {
		r.mu.Lock()
		status := r.status
		r.mu.Unlock()
		return catalog.Unknown, classifyError(err, status)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.trail) < 3 {
		return catalog.Unknown, errShortTrail
	}
	return r.trail[2], nil
}

// withTransport swaps the HTTP transport, for tests.
func (r *Resolver) withTransport(rt http.RoundTripper) {
	r.collector.WithTransport(rt)
}
