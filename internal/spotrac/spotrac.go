package spotrac

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://www.spotrac.com"

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient() *Client {
	return NewClientWithBaseURL(defaultBaseURL)
}

func NewClientWithBaseURL(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 10 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
	}
}

// Search looks a player up. Spotrac redirects straight to the player page
// when there is exactly one match.
func (c *Client) Search(query string) (*SearchResult, error) {
	searchURL := fmt.Sprintf("%s/search?q=%s", c.baseURL, url.QueryEscape(query))

	body, finalURL, err := c.get(searchURL)
	if err != nil {
		return nil, err
	}

	if strings.Contains(finalURL, "/player/") && !strings.Contains(finalURL, "/search") {
		parts := strings.Split(strings.TrimRight(finalURL, "/"), "/")
		name := strings.ReplaceAll(parts[len(parts)-1], "-", " ")
		return &SearchResult{
			Type: "single",
			PlayerResults: []PlayerSearchResult{
				{Name: name, URL: finalURL, ID: playerIDFromURL(finalURL)},
			},
		}, nil
	}

	return ParseSearchResults(bytes.NewReader(body))
}

func (c *Client) GetPlayerContract(playerURL string) (*ContractInfo, error) {
	if strings.HasPrefix(playerURL, "/") {
		playerURL = c.baseURL + playerURL
	}

	body, _, err := c.get(playerURL)
	if err != nil {
		return nil, err
	}
	return ParseContractInfo(bytes.NewReader(body))
}

func (c *Client) get(rawURL string) ([]byte, string, error) {
	req, err := http.NewRequest("GET", rawURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("creating request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("performing request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading response body: %w", err)
	}
	return body, resp.Request.URL.String(), nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/137.0.0.0 Safari/537.36")
}
