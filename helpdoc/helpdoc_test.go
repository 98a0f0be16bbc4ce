package helpdoc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixtureHTML = `<!DOCTYPE html>
<html>
<head><title>Menu Sheet Guide</title></head>
<body>
<article>
<h1>Menu Sheet Guide</h1>
<p>Every menu row needs a name, a category from the allowed list, a price
and an image file name that matches a file in the shared Drive folder.</p>
<p>Set the show column to Yes when the item is ready to publish. Rows with
any other value stay off the site.</p>
<p>Image files should be photos of the finished product on a neutral
background, at least 1200 pixels on the longest edge.</p>
</article>
</body>
</html>`

func TestRender_ProducesMarkdown(t *testing.T) {
	out, err := Render([]byte(fixtureHTML), "https://example.com/guide")
	require.NoError(t, err)

	assert.Contains(t, out, "# Menu Sheet Guide")
	assert.Contains(t, out, "show column")
	assert.NotContains(t, out, "<p>")
	assert.NotContains(t, out, "<article>")
}

func TestRender_FallsBackWithoutArticle(t *testing.T) {
	html := `<html><head><title>Short Note</title></head><body><p>One line.</p></body></html>`

	out, err := Render([]byte(html), "https://example.com/note")
	require.NoError(t, err)
	assert.Contains(t, out, "One line.")
}

func TestFetch_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte(fixtureHTML))
	}))
	defer srv.Close()

	body, err := NewViewer(5 * time.Second).Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Contains(t, string(body), "Menu Sheet Guide")
}

func TestFetch_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	_, err := NewViewer(5 * time.Second).Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP 410")
}

func TestExtractTitle(t *testing.T) {
	assert.Equal(t, "Menu Sheet Guide", extractTitle([]byte(fixtureHTML)))
	assert.Equal(t, "", extractTitle([]byte("<html><body>no title</body></html>")))
}
