package duelcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"
)

// HTTPClient wraps http.Client with timeout
type HTTPClient struct {
	client *http.Client
}

// newHTTPClient creates a new HTTP client with timeout
func newHTTPClient(timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		client: &http.Client{Timeout: timeout},
	}
}

// Get performs a GET request
func (c *HTTPClient) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.client.Do(req)
}

// Post performs a POST request without a body
func (c *HTTPClient) Post(ctx context.Context, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	return c.client.Do(req)
}

// readResponseBody reads and closes the response body
func readResponseBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

// getJSON fetches rawURL and decodes the payload into v.
func getJSON(ctx context.Context, client *HTTPClient, rawURL string, v any) error {
	resp, err := client.Get(ctx, rawURL)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	body, err := readResponseBody(resp)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != StatusOK {
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}

	return nil
}

// lookupResult carries everything fetched for one lookup address. The
// record is fetched twice so verification can confirm repeat lookups
// agree.
type lookupResult struct {
	address string
	record  RecordResult
	repeat  RecordResult
	duels   DuelsResult
	err     error
}

// runLookups issues record and duels lookups for every pool address
// using a worker pool.
func runLookups(ctx context.Context, config *Config, pool *Pool, stats *Stats) ([]lookupResult, error) {
	log.Printf("🔎 Looking up %d addresses with %d workers...", len(pool.Lookups), config.Workers)

	client := newHTTPClient(config.Timeout)
	results := make([]lookupResult, len(pool.Lookups))

	var issued, failed int64

	indexChan := make(chan int, config.Workers*WorkerChannelMultiplier)

	var wg sync.WaitGroup

	for i := 0; i < config.Workers; i++ {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for index := range indexChan {
				select {
				case <-ctx.Done():
					return
				default:
				}

				address := pool.Lookups[index]
				results[index] = fetchLookup(ctx, client, config.BaseURL, address)

				atomic.AddInt64(&issued, 1)

				if results[index].err != nil {
					atomic.AddInt64(&failed, 1)

					if config.Verbose {
						log.Printf("⚠️  Lookup failed for %s: %v", address, results[index].err)
					}
				}
			}
		}()
	}

	go func() {
		defer close(indexChan)

		for i := range pool.Lookups {
			select {
			case <-ctx.Done():
				return
			case indexChan <- i:
			}
		}
	}()

	wg.Wait()

	stats.LookupsIssued = int(atomic.LoadInt64(&issued))
	stats.LookupsFailed = int(atomic.LoadInt64(&failed))

	log.Printf("✅ Lookups completed: %d issued, %d failed", stats.LookupsIssued, stats.LookupsFailed)

	if stats.LookupsIssued > 0 && stats.LookupsFailed == stats.LookupsIssued {
		return nil, fmt.Errorf("every lookup failed; first error: %w", firstError(results))
	}

	return results, nil
}

// fetchLookup fetches the record, the duels breakdown, then the record
// again for the same address.
func fetchLookup(ctx context.Context, client *HTTPClient, baseURL, address string) lookupResult {
	result := lookupResult{address: address}
	escaped := url.PathEscape(address)

	if err := getJSON(ctx, client, baseURL+"/record/"+escaped, &result.record); err != nil {
		result.err = err

		return result
	}

	if err := getJSON(ctx, client, baseURL+"/duels/"+escaped, &result.duels); err != nil {
		result.err = err

		return result
	}

	if err := getJSON(ctx, client, baseURL+"/record/"+escaped, &result.repeat); err != nil {
		result.err = err

		return result
	}

	return result
}

func firstError(results []lookupResult) error {
	for _, r := range results {
		if r.err != nil {
			return r.err
		}
	}

	return nil
}

// queueRefreshes posts a refresh for a sample of participants and
// counts how many the service accepted.
func queueRefreshes(ctx context.Context, config *Config, pool *Pool, stats *Stats) {
	client := newHTTPClient(config.Timeout)
	queued := 0

	for i, p := range pool.Participants {
		if i%refreshSampleStride != 0 {
			continue
		}

		resp, err := client.Post(ctx, config.BaseURL+"/refresh/"+url.PathEscape(p.Address))
		if err != nil {
			if config.Verbose {
				log.Printf("⚠️  Refresh request failed for %s: %v", p.Address, err)
			}

			continue
		}

		_, _ = readResponseBody(resp)

		if resp.StatusCode == StatusAccepted {
			queued++
		}
	}

	stats.RefreshesQueued = queued

	log.Printf("🔁 Queued %d refreshes", queued)
}
