// Package helpdoc fetches the remote operator help document and renders it
// as markdown for the terminal.
package helpdoc

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/JohannesKaufmann/html-to-markdown/plugin"
	readability "github.com/go-shiori/go-readability"
	"golang.org/x/net/html"
)

const (
	defaultUserAgent = "menugen/0.1"

	// maxDocBytes caps the help document response.
	maxDocBytes = 4 << 20
)

// Viewer fetches the help document over HTTP.
type Viewer struct {
	client    *http.Client
	userAgent string
}

// NewViewer creates a Viewer with the given request timeout.
func NewViewer(timeout time.Duration) *Viewer {
	return &Viewer{
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects (max 5)")
				}
				return nil
			},
		},
		userAgent: defaultUserAgent,
	}
}

// Fetch retrieves the help document, failing on any non-200 status.
func (v *Viewer) Fetch(ctx context.Context, docURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, docURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", v.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch help document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch help document: HTTP %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read help document: %w", err)
	}
	if int64(len(body)) > maxDocBytes {
		return nil, fmt.Errorf("help document exceeds %d bytes", maxDocBytes)
	}
	return body, nil
}

// Render extracts the readable article from HTML and converts it to
// GitHub-flavored markdown. It falls back to converting the raw HTML when
// article extraction finds nothing usable.
func Render(htmlContent []byte, pageURL string) (string, error) {
	title := extractTitle(htmlContent)
	content := string(htmlContent)

	if u, err := url.Parse(pageURL); err == nil {
		if article, err := readability.FromReader(strings.NewReader(content), u); err == nil && strings.TrimSpace(article.Content) != "" {
			content = article.Content
			if article.Title != "" {
				title = article.Title
			}
		}
	}

	converter := md.NewConverter("", true, nil)
	converter.Use(plugin.GitHubFlavored())

	markdown, err := converter.ConvertString(content)
	if err != nil {
		return "", fmt.Errorf("convert help document: %w", err)
	}

	markdown = strings.TrimSpace(markdown)
	if title != "" && !strings.HasPrefix(markdown, "# ") {
		markdown = "# " + title + "\n\n" + markdown
	}
	return markdown + "\n", nil
}

// extractTitle pulls the <title> text from the document head.
func extractTitle(content []byte) string {
	doc, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return ""
	}

	var title string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "title" && n.FirstChild != nil {
			title = strings.TrimSpace(n.FirstChild.Data)
			return
		}
		for c := n.FirstChild; c != nil && title == ""; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return title
}
