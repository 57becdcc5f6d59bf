package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// FetchResult тело канала и признак того, что оно взято из кеша
type FetchResult struct {
	Body      []byte
	FromCache bool
}

// cacheEntry последнее успешно полученное тело и HTTP-метаданные для условного запроса
type cacheEntry struct {
	body         []byte
	etag         string
	lastModified string
	fetchedAt    time.Time
}

// Fetcher загружает iCal-каналы с учётом ETag / Last-Modified.
// Кеш хранится в памяти процесса; при ошибке сети или статусе не 2xx
// отдаётся последнее сохранённое тело.
type Fetcher struct {
	client    *http.Client
	userAgent string
	ttl       time.Duration
	logger    Logger
	now       func() time.Time

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewFetcher создает загрузчик каналов.
// ttl - сколько секунд тело отдаётся из памяти без обращения к источнику (0 - всегда запрашивать).
func NewFetcher(timeout time.Duration, userAgent string, ttl time.Duration, logger Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Fetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		ttl:       ttl,
		logger:    logger,
		now:       time.Now,
		cache:     make(map[string]cacheEntry),
	}
}

// Fetch отдаёт тело канала, пока оно свежее, иначе выполняет условный запрос
func (f *Fetcher) Fetch(ctx context.Context, feedURL string) (FetchResult, error) {
	if feedURL == "" {
		return FetchResult{}, ErrEmptyURL
	}

	if entry, ok := f.cached(feedURL); ok && f.ttl > 0 && f.now().Sub(entry.fetchedAt) < f.ttl {
		return FetchResult{Body: entry.body, FromCache: true}, nil
	}
	return f.Refresh(ctx, feedURL)
}

// Refresh всегда обращается к источнику, игнорируя срок свежести
func (f *Fetcher) Refresh(ctx context.Context, feedURL string) (FetchResult, error) {
	if feedURL == "" {
		return FetchResult{}, ErrEmptyURL
	}

	entry, hasCache := f.cached(feedURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, nil)
	if err != nil {
		return FetchResult{}, fmt.Errorf("%w: build request for %s: %v", ErrFetch, redactURL(feedURL), err)
	}
	req.Header.Set("Accept", "text/calendar, text/plain;q=0.9, */*;q=0.1")
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	if hasCache {
		if entry.etag != "" {
			req.Header.Set("If-None-Match", entry.etag)
		}
		if entry.lastModified != "" {
			req.Header.Set("If-Modified-Since", entry.lastModified)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		if hasCache {
			f.logger.Warn("Feed: %s network error, using cached body: %v", redactURL(feedURL), err)
			return FetchResult{Body: entry.body, FromCache: true}, nil
		}
		return FetchResult{}, fmt.Errorf("%w: %s: %v", ErrFetch, redactURL(feedURL), err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotModified && hasCache:
		entry.fetchedAt = f.now()
		f.store(feedURL, entry)
		f.logger.Info("Feed: %s not modified", redactURL(feedURL))
		return FetchResult{Body: entry.body, FromCache: true}, nil

	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			if hasCache {
				f.logger.Warn("Feed: %s read failed, using cached body: %v", redactURL(feedURL), err)
				return FetchResult{Body: entry.body, FromCache: true}, nil
			}
			return FetchResult{}, fmt.Errorf("%w: read %s: %v", ErrFetch, redactURL(feedURL), err)
		}

		f.store(feedURL, cacheEntry{
			body:         body,
			etag:         resp.Header.Get("ETag"),
			lastModified: resp.Header.Get("Last-Modified"),
			fetchedAt:    f.now(),
		})
		f.logger.Info("Feed: %s fetched, %d bytes", redactURL(feedURL), len(body))
		return FetchResult{Body: body}, nil

	default:
		if hasCache {
			f.logger.Warn("Feed: %s returned %d, using cached body", redactURL(feedURL), resp.StatusCode)
			return FetchResult{Body: entry.body, FromCache: true}, nil
		}
		return FetchResult{}, fmt.Errorf("%w: %s: unexpected status %d", ErrFetch, redactURL(feedURL), resp.StatusCode)
	}
}

func (f *Fetcher) cached(feedURL string) (cacheEntry, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.cache[feedURL]
	return entry, ok
}

func (f *Fetcher) store(feedURL string, entry cacheEntry) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cache[feedURL] = entry
}

// redactURL скрывает путь и токены адреса канала для логов
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" {
		return "ical://...(redacted)"
	}
	return u.Scheme + "://" + u.Host + "/...(redacted)"
}
