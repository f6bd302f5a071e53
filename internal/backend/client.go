package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pmurley/capbot/internal/models"
)

// Client talks to the league backend that owns the cap snapshots.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type errorBody struct {
	Reason string `json:"reason"`
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func (b errorBody) message() string {
	for _, s := range []string{b.Reason, b.Detail, b.Error} {
		if s != "" {
			return s
		}
	}
	return ""
}

// TeamOutline fetches a team's cap outline.
func (c *Client) TeamOutline(ctx context.Context, team string) (*models.Outline, error) {
	var outline models.Outline
	path := fmt.Sprintf("/api/teams/%s/outline/", url.PathEscape(strings.ToUpper(team)))
	if err := c.getJSON(ctx, path, &outline); err != nil {
		return nil, err
	}
	if outline.Team.TeamShortform == "" {
		outline.Team.TeamShortform = strings.ToUpper(team)
	}
	return &outline, nil
}

// UserTeam returns the team code a user manages.
func (c *Client) UserTeam(ctx context.Context, username string) (string, error) {
	var body struct {
		TeamShortform string `json:"team_shortform"`
	}
	path := "/api/users/get_user_team/" + url.PathEscape(username)
	if err := c.getJSON(ctx, path, &body); err != nil {
		return "", err
	}
	if body.TeamShortform == "" {
		return "", models.Preconditionf("%s does not manage a team", username)
	}
	return strings.ToUpper(body.TeamShortform), nil
}

// FreeAgents fetches the current free-agent pool.
func (c *Client) FreeAgents(ctx context.Context) ([]models.FreeAgentRecord, error) {
	var agents []models.FreeAgentRecord
	if err := c.getJSON(ctx, "/api/freeagencies", &agents); err != nil {
		return nil, err
	}
	return agents, nil
}

// SubmitTransaction asks the backend to accept a planned transaction. A 409
// comes back as a ConflictWithServer error, a 422 as PreconditionFailed with
// the backend's reason.
func (c *Client) SubmitTransaction(ctx context.Context, sub models.Submission) error {
	payload, err := json.Marshal(sub)
	if err != nil {
		return fmt.Errorf("encoding submission: %w", err)
	}

	path := fmt.Sprintf("/api/teams/%s/transactions/", url.PathEscape(sub.TeamCode))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Unavailable("the league backend could not be reached", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return statusError(resp)
}

func (c *Client) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.Unavailable("the league backend could not be reached", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return models.Unavailable("the league backend sent an unreadable response", fmt.Errorf("decoding %s: %w", path, err))
	}
	return nil
}

func statusError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var eb errorBody
	_ = json.Unmarshal(body, &eb)
	reason := eb.message()

	switch {
	case resp.StatusCode == http.StatusConflict:
		if reason == "" {
			reason = "the team's books changed on the server"
		}
		return models.Conflict(reason, nil)
	case resp.StatusCode == http.StatusUnprocessableEntity:
		if reason == "" {
			reason = "the league rejected the transaction"
		}
		return models.Preconditionf("%s", reason)
	case resp.StatusCode == http.StatusNotFound:
		return models.Validationf("not found on the league backend: %s", resp.Request.URL.Path)
	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		if reason == "" {
			reason = resp.Status
		}
		return models.Validationf("league backend refused the request: %s", reason)
	default:
		return models.Unavailable("the league backend is having trouble", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))))
	}
}
