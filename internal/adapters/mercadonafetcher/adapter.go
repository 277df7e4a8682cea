package mercadonafetcher

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
)

// Config - параметры доступа к API каталога
type Config struct {
	BaseURL      string
	ProbeTimeout time.Duration
	FetchTimeout time.Duration
	// RequestDelay - пауза между запросами к API
	RequestDelay time.Duration
}

// MercadonaFetcherAdapter отвечает за все взаимодействия с API каталога Mercadona
type MercadonaFetcherAdapter struct {
	// Клоны разделяют http-клиент родителя, поэтому для разных таймаутов нужны два родителя
	probeCollector *colly.Collector
	fetchCollector *colly.Collector
	baseURL        *url.URL
}

func NewMercadonaFetcherAdapter(cfg Config) (*MercadonaFetcherAdapter, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("MercadonaFetcherAdapter: invalid base url %q: %w", cfg.BaseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("MercadonaFetcherAdapter: base url %q must be absolute", cfg.BaseURL)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	probe, err := newCollector(base.Hostname(), cfg.ProbeTimeout, cfg.RequestDelay)
	if err != nil {
		return nil, err
	}
	fetch, err := newCollector(base.Hostname(), cfg.FetchTimeout, cfg.RequestDelay)
	if err != nil {
		return nil, err
	}

	return &MercadonaFetcherAdapter{
		probeCollector: probe,
		fetchCollector: fetch,
		baseURL:        base,
	}, nil
}

func newCollector(host string, timeout, delay time.Duration) (*colly.Collector, error) {
	c := colly.NewCollector(colly.AllowedDomains(host), colly.AllowURLRevisit())
	if timeout > 0 {
		c.SetRequestTimeout(timeout)
	}

	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		Delay:       delay,
	})
	if err != nil {
		return nil, fmt.Errorf("MercadonaFetcherAdapter: failed to set limit rule: %w", err)
	}
	return c, nil
}

// categoryURL строит адрес вида {base}{id}/?lang={lang}&wh={warehouse}
func (a *MercadonaFetcherAdapter) categoryURL(categoryID int, warehouse, lang string) string {
	u := *a.baseURL
	u.Path = fmt.Sprintf("%s%d/", a.baseURL.Path, categoryID)

	q := url.Values{}
	q.Set("lang", lang)
	q.Set("wh", warehouse)
	u.RawQuery = q.Encode()

	return u.String()
}
