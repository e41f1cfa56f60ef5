// Package codec wraps the HTTP exploration collaborator. The collaborator
// executes door-sequence plans and accepts the final structural guess; it is
// the only suspension point in the solving loop. Transport failures are
// returned to the caller as session-level errors; there is no internal retry.
package codec

// #region imports
import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/danielpatrickdp/wayfinder/internal/graph"
	"github.com/danielpatrickdp/wayfinder/internal/probe"
)

// #endregion

// #region wire-types

type registerRequest struct {
	Name  string `json:"name"`
	PL    string `json:"pl"`
	Email string `json:"email"`
}

type registerResponse struct {
	ID string `json:"id"`
}

type selectRequest struct {
	ID          string `json:"id"`
	ProblemName string `json:"problemName"`
}

type selectResponse struct {
	ProblemName string `json:"problemName"`
}

type exploreRequest struct {
	ID    string   `json:"id"`
	Plans []string `json:"plans"`
}

type exploreResponse struct {
	Results    [][]int `json:"results"`
	QueryCount int     `json:"queryCount"`
}

type guessRequest struct {
	ID  string      `json:"id"`
	Map graph.Chart `json:"map"`
}

type guessResponse struct {
	Correct bool `json:"correct"`
}

// #endregion wire-types

// #region http-error

// HTTPError is a non-200 answer from the collaborator.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("collaborator returned %d: %s", e.StatusCode, e.Body)
}

// #endregion http-error

// #region client

// Client talks to the exploration collaborator.
type Client struct {
	baseURL string
	teamID  string
	http    *http.Client
}

// NewClient builds a client for the collaborator at baseURL.
func NewClient(baseURL, teamID string) *Client {
	return &Client{
		baseURL: baseURL,
		teamID:  teamID,
		http:    &http.Client{Timeout: 60 * time.Second},
	}
}

// NewClientWithHTTP injects the underlying HTTP client. Used by tests.
func NewClientWithHTTP(baseURL, teamID string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, teamID: teamID, http: hc}
}

// #endregion client

// #region register

// Register creates a team and returns its id.
func (c *Client) Register(ctx context.Context, name, pl, email string) (string, error) {
	var resp registerResponse
	if err := c.post(ctx, "/register", registerRequest{Name: name, PL: pl, Email: email}, &resp); err != nil {
		return "", fmt.Errorf("register: %w", err)
	}
	return resp.ID, nil
}

// #endregion register

// #region select

// SelectProblem picks the named problem for this team.
func (c *Client) SelectProblem(ctx context.Context, problem string) (string, error) {
	var resp selectResponse
	if err := c.post(ctx, "/select", selectRequest{ID: c.teamID, ProblemName: problem}, &resp); err != nil {
		return "", fmt.Errorf("select problem: %w", err)
	}
	return resp.ProblemName, nil
}

// #endregion select

// #region explore

// Explore submits a batch of plans and returns one result per plan plus the
// server's monotonically increasing query counter.
func (c *Client) Explore(ctx context.Context, plans []probe.Plan) ([]probe.Result, int, error) {
	raw := make([]string, len(plans))
	for i, p := range plans {
		raw[i] = string(p)
	}

	var resp exploreResponse
	if err := c.post(ctx, "/explore", exploreRequest{ID: c.teamID, Plans: raw}, &resp); err != nil {
		return nil, 0, fmt.Errorf("explore: %w", err)
	}
	if len(resp.Results) != len(plans) {
		return nil, 0, fmt.Errorf("explore: %d plans sent, %d results back", len(plans), len(resp.Results))
	}

	results := make([]probe.Result, len(plans))
	for i, labels := range resp.Results {
		r := probe.Result{Plan: plans[i], Labels: make([]probe.Label, len(labels))}
		for j, l := range labels {
			r.Labels[j] = probe.Label(l)
		}
		results[i] = r
	}
	return results, resp.QueryCount, nil
}

// #endregion explore

// #region guess

// SubmitGuess sends the final chart and returns the correctness flag.
func (c *Client) SubmitGuess(ctx context.Context, chart graph.Chart) (bool, error) {
	var resp guessResponse
	if err := c.post(ctx, "/guess", guessRequest{ID: c.teamID, Map: chart}, &resp); err != nil {
		return false, fmt.Errorf("submit guess: %w", err)
	}
	return resp.Correct, nil
}

// #endregion guess

// #region post

func (c *Client) post(ctx context.Context, endpoint string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build request %s: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s response: %w", endpoint, err)
	}
	if resp.StatusCode != http.StatusOK {
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(data)}
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("unmarshal %s response: %w", endpoint, err)
	}
	return nil
}

// #endregion post
