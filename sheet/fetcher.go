// Package sheet fetches the menu tab of the source spreadsheet as a CSV
// snapshot through the public export endpoint.
package sheet

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"menugen/menu"
)

// ErrUnchanged reports that the fetched data is identical to the existing
// snapshot. Callers treat it as a successful no-op, not a failure.
var ErrUnchanged = errors.New("sheet data unchanged since last fetch")

// FetchError wraps a transport or status failure from the export endpoint.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
	}
	return fmt.Sprintf("fetch %s: HTTP %d %s", e.URL, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *FetchError) Unwrap() error { return e.Err }

const (
	defaultBaseURL = "https://docs.google.com"

	// maxCSVBytes caps the export response. Menu tabs are tiny; anything
	// near this is a misconfigured spreadsheet id.
	maxCSVBytes = 8 << 20
)

// Fetcher retrieves spreadsheet tabs through the CSV export endpoint.
type Fetcher struct {
	client  *http.Client
	baseURL string
}

// NewFetcher creates a Fetcher with the given request timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
	}
}

// exportURL builds the CSV export endpoint for a sheet tab.
func (f *Fetcher) exportURL(spreadsheetID, tab string) string {
	return fmt.Sprintf("%s/spreadsheets/d/%s/gviz/tq?tqx=out:csv&sheet=%s",
		f.baseURL, url.PathEscape(spreadsheetID), url.QueryEscape(tab))
}

// FetchCSV downloads the tab and writes it to destPath. It returns
// ErrUnchanged when the body matches the existing snapshot byte for byte,
// and a *FetchError when the endpoint is unreachable, returns a
// non-success status, or serves something that is not the expected menu
// table. The snapshot is written through a temp file and rename, so a
// failed run never leaves a partial file behind.
func (f *Fetcher) FetchCSV(ctx context.Context, spreadsheetID, tab, destPath string) error {
	u := f.exportURL(spreadsheetID, tab)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &FetchError{URL: u, Err: err}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return &FetchError{URL: u, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &FetchError{URL: u, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxCSVBytes+1))
	if err != nil {
		return &FetchError{URL: u, Err: err}
	}
	if int64(len(body)) > maxCSVBytes {
		return &FetchError{URL: u, Err: fmt.Errorf("response exceeds %d bytes", maxCSVBytes)}
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return &FetchError{URL: u, Err: fmt.Errorf("empty response body")}
	}
	if err := checkHeader(body); err != nil {
		return &FetchError{URL: u, Err: err}
	}

	if unchanged(destPath, body) {
		return ErrUnchanged
	}
	return writeAtomic(destPath, body)
}

// checkHeader verifies the first record carries the expected column set.
func checkHeader(body []byte) error {
	r := csv.NewReader(bytes.NewReader(body))
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("parse header: %w", err)
	}

	cols := make(map[string]bool, len(header))
	for _, c := range header {
		cols[strings.ToLower(strings.TrimSpace(c))] = true
	}

	var missing []string
	for _, c := range menu.Columns {
		if !cols[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("sheet is missing columns: %s", strings.Join(missing, ", "))
	}
	return nil
}

// unchanged reports whether destPath already holds exactly this body.
func unchanged(destPath string, body []byte) bool {
	existing, err := os.ReadFile(destPath)
	if err != nil {
		return false
	}
	return sha256.Sum256(existing) == sha256.Sum256(body)
}

func writeAtomic(destPath string, body []byte) error {
	if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
		return fmt.Errorf("create data directory: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(destPath), ".menu-*.csv")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), destPath); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}
