// Package drive is a minimal Google Drive v3 REST client covering the two
// calls the pipeline needs: listing the images folder and downloading file
// media by file id.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

const defaultBaseURL = "https://www.googleapis.com/drive/v3"

// File is one entry from a folder listing.
type File struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	MimeType string `json:"mimeType"`
}

// Client calls the Drive REST API with an API key. The images folder must
// be readable by the key's project; link-shared folders are.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
}

// NewClient creates a Drive client with the given request timeout.
func NewClient(apiKey string, timeout time.Duration) *Client {
	return &Client{
		client:  &http.Client{Timeout: timeout},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
	}
}

type listResponse struct {
	Files         []File `json:"files"`
	NextPageToken string `json:"nextPageToken"`
}

// ListFolder returns every non-trashed file directly inside folderID,
// following pagination.
func (c *Client) ListFolder(ctx context.Context, folderID string) ([]File, error) {
	var files []File
	pageToken := ""

	for {
		q := url.Values{}
		q.Set("q", fmt.Sprintf("'%s' in parents and trashed = false", folderID))
		q.Set("fields", "nextPageToken, files(id, name, mimeType)")
		q.Set("pageSize", "1000")
		q.Set("key", c.apiKey)
		if pageToken != "" {
			q.Set("pageToken", pageToken)
		}

		u := fmt.Sprintf("%s/files?%s", c.baseURL, q.Encode())
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("list folder %s: %w", folderID, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("list folder %s: HTTP %d %s", folderID, resp.StatusCode, http.StatusText(resp.StatusCode))
		}

		var page listResponse
		err = json.NewDecoder(resp.Body).Decode(&page)
		resp.Body.Close()
		if err != nil {
			return nil, fmt.Errorf("decode folder listing: %w", err)
		}

		files = append(files, page.Files...)
		if page.NextPageToken == "" {
			break
		}
		pageToken = page.NextPageToken
	}

	return files, nil
}

// Download fetches the raw bytes of a file, capped at maxBytes.
func (c *Client) Download(ctx context.Context, fileID string, maxBytes int64) ([]byte, error) {
	u := fmt.Sprintf("%s/files/%s?alt=media&key=%s", c.baseURL, url.PathEscape(fileID), url.QueryEscape(c.apiKey))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download %s: HTTP %d %s", fileID, resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return nil, fmt.Errorf("download %s: %w", fileID, err)
	}
	if int64(len(body)) > maxBytes {
		return nil, fmt.Errorf("download %s: file exceeds %d bytes", fileID, maxBytes)
	}
	return body, nil
}

// IndexByName builds a name to file-id index of a listing. The first file
// wins when names collide.
func IndexByName(files []File) map[string]string {
	m := make(map[string]string, len(files))
	for _, f := range files {
		if _, ok := m[f.Name]; !ok {
			m[f.Name] = f.ID
		}
	}
	return m
}
