package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/strideworks/form.report/internal/engine"
	"github.com/strideworks/form.report/internal/httputil"
)

// Client drives a remote analysis server. It exists so the CLI can stream a
// recorded session through a running instance instead of analyzing locally.
type Client struct {
	base string
	http httputil.HTTPClient
}

// NewClient builds a client for the server at baseURL. A nil httpClient uses
// http.DefaultClient.
func NewClient(baseURL string, httpClient httputil.HTTPClient) *Client {
	if httpClient == nil {
		httpClient = httputil.NewStandardClient(nil)
	}
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		http: httpClient,
	}
}

// CreateSession starts a session for the named exercise and returns its id.
func (c *Client) CreateSession(exercise string) (string, error) {
	body, err := json.Marshal(CreateSessionRequest{Exercise: exercise})
	if err != nil {
		return "", err
	}
	resp, err := c.http.Post(c.base+"/api/sessions", "application/json", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create session request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		return "", c.errorFrom(resp)
	}

	var created CreateSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return "", fmt.Errorf("failed to decode create session response: %w", err)
	}
	return created.ID, nil
}

// PostFrames streams a batch of frames to the session and returns the reps
// those frames completed.
func (c *Client) PostFrames(id string, frames []engine.FrameSample) ([]engine.RepAnalysis, error) {
	body, err := json.Marshal(frames)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Post(
		fmt.Sprintf("%s/api/sessions/%s/frames", c.base, id),
		"application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("post frames request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, c.errorFrom(resp)
	}

	var result PostFramesResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode frames response: %w", err)
	}
	return result.CompletedReps, nil
}

// Finish seals the session and returns the final report.
func (c *Client) Finish(id string) (engine.SessionReport, error) {
	resp, err := c.http.Post(
		fmt.Sprintf("%s/api/sessions/%s/finish", c.base, id),
		"application/json", nil)
	if err != nil {
		return engine.SessionReport{}, fmt.Errorf("finish request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return engine.SessionReport{}, c.errorFrom(resp)
	}

	var report engine.SessionReport
	if err := json.NewDecoder(resp.Body).Decode(&report); err != nil {
		return engine.SessionReport{}, fmt.Errorf("failed to decode report: %w", err)
	}
	return report, nil
}

func (c *Client) errorFrom(resp *http.Response) error {
	var apiErr struct {
		Error string `json:"error"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err := json.Unmarshal(raw, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("server returned %d: %s", resp.StatusCode, apiErr.Error)
	}
	return fmt.Errorf("server returned %d", resp.StatusCode)
}
