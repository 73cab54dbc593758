// Package fetcher loads gallery pages from disk or over HTTP.
package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTimeout bounds a single page request.
const DefaultTimeout = 30 * time.Second

type Fetcher struct {
	client *http.Client
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: DefaultTimeout},
	}
}

// IsURL reports whether location should be fetched over HTTP.
func IsURL(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// GetPage parses the page at location, which is either an http(s) URL or a
// local file path.
func (f *Fetcher) GetPage(ctx context.Context, location string) (*goquery.Document, error) {
	var body io.ReadCloser
	var err error
	if IsURL(location) {
		body, err = f.get(ctx, location)
	} else {
		body, err = os.Open(location)
		if err != nil {
			err = fmt.Errorf("failed to open page: %w", err)
		}
	}
	if err != nil {
		return nil, err
	}
	defer body.Close()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}

func (f *Fetcher) get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("failed to fetch HTML, status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}
