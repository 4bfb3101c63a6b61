package coretools

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	readability "github.com/go-shiori/go-readability"

	"github.com/halim/orin/pkg/tool"
)

const (
	defaultHTTPTimeout = 30 * time.Second
	maxFetchBytes      = 2 * 1024 * 1024
	fetchUserAgent     = "orin/0.1 (+https://github.com/halim/orin)"
)

// webFetch downloads a page and extracts its readable text.
type webFetch struct {
	tool.Base
	client *http.Client
}

func newWebFetch(opts Options) *webFetch {
	timeout := defaultHTTPTimeout
	if opts.HTTPTimeoutSecs > 0 {
		timeout = time.Duration(opts.HTTPTimeoutSecs) * time.Second
	}
	return &webFetch{
		client: &http.Client{Timeout: timeout},
		Base: tool.Base{Desc: tool.Descriptor{
			Name:        "web_fetch",
			Description: "Fetches a web page and returns its readable text content.",
			InputSchema: tool.InputSchema{
				Required: []string{"url"},
				Properties: map[string]tool.Property{
					"url": {
						Type:        "string",
						Description: "Absolute http or https URL to fetch.",
					},
				},
			},
		}},
	}
}

func (t *webFetch) Execute(ctx context.Context, args map[string]any) tool.Result {
	if missing := t.ValidateInputs(args); len(missing) > 0 {
		return tool.Failf("Missing required input(s): %s", strings.Join(missing, ", "))
	}

	rawURL, _ := args["url"].(string)
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return tool.Failf("'url' must be an absolute http(s) URL, got: %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return tool.Failf("Failed to build request: %v", err)
	}
	req.Header.Set("User-Agent", fetchUserAgent)

	resp, err := t.client.Do(req)
	if err != nil {
		return tool.Failf("Failed to fetch %s: %v", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return tool.Failf("Fetch of %s returned status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchBytes))
	if err != nil {
		return tool.Failf("Failed to read response body: %v", err)
	}

	text, title := extractReadable(body, resp)
	return tool.Succeed(text).
		WithMeta("url", resp.Request.URL.String()).
		WithMeta("title", title).
		WithMeta("length", len(text))
}

// extractReadable runs readability extraction on HTML responses and falls
// back to the raw body for everything else.
func extractReadable(body []byte, resp *http.Response) (text, title string) {
	contentType := resp.Header.Get("Content-Type")
	if !strings.Contains(contentType, "text/html") {
		return string(body), ""
	}

	article, err := readability.FromReader(bytes.NewReader(body), resp.Request.URL)
	if err != nil {
		return string(body), ""
	}

	text = strings.TrimSpace(article.TextContent)
	if article.Title != "" {
		text = fmt.Sprintf("# %s\n\n%s", article.Title, text)
	}
	return text, article.Title
}
