package ingest

import (
	"bytes"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/valyala/fasthttp"

	"forecast-go/pkg/logger"
)

const fetchTimeout = 30 * time.Second

// Fetcher downloads keyword sheets over HTTP(S) so the CLI and the API
// can take a sheet URL instead of a local file.
type Fetcher struct {
	client *fasthttp.Client
	log    *logger.Logger
}

// NewFetcher creates an HTTP fetcher for remote CSV sheets.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &fasthttp.Client{
			ReadTimeout:  fetchTimeout,
			WriteTimeout: fetchTimeout,
		},
		log: logger.GetLogger().WithField("component", "csv_fetcher"),
	}
}

// Fetch downloads the sheet at targetURL and returns its raw bytes,
// transparently decompressing gzip responses.
func (f *Fetcher) Fetch(ctx context.Context, targetURL string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(targetURL)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Encoding", "gzip")

	if err := f.client.DoTimeout(req, resp, fetchTimeout); err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("HTTP %d fetching %s", resp.StatusCode(), targetURL)
	}

	body := make([]byte, len(resp.Body()))
	copy(body, resp.Body())

	if f.isGzipped(targetURL, resp) {
		reader, err := gzip.NewReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer reader.Close()
		decompressed, err := io.ReadAll(reader)
		if err != nil {
			return nil, fmt.Errorf("failed to decompress response: %w", err)
		}
		body = decompressed
	}

	f.log.WithFields(map[string]interface{}{
		"url":  targetURL,
		"size": len(body),
	}).Debug("Fetched keyword sheet")

	return body, nil
}

func (f *Fetcher) isGzipped(targetURL string, resp *fasthttp.Response) bool {
	return strings.HasSuffix(strings.ToLower(targetURL), ".gz") ||
		string(resp.Header.Peek("Content-Encoding")) == "gzip"
}
