package grading

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"pilemap/domain/pile"
	"pilemap/internal/errors"
)

// maxConcurrentTrackers bounds the per-tracker grading fan-out.
const maxConcurrentTrackers = 4

// Client talks to the external grading service over HTTP. The service is
// opaque: it accepts tracker/pile payloads plus constraints and returns
// graded elevations.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a grading client. baseURL points at the service's API
// root, e.g. "http://localhost:8000/api".
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// GradeTracker grades a single tracker.
func (c *Client) GradeTracker(ctx context.Context, req pile.TrackerGradingRequest) (*pile.TrackerGradingResponse, error) {
	var resp pile.TrackerGradingResponse
	if err := c.post(ctx, "/grade-tracker", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GradeProject grades all trackers of a project in one call.
func (c *Client) GradeProject(ctx context.Context, req pile.ProjectGradingRequest) (*pile.ProjectGradingResponse, error) {
	var resp pile.ProjectGradingResponse
	if err := c.post(ctx, "/grade-project", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GradeTrackers grades each tracker concurrently with bounded parallelism
// and aggregates the results into a project-shaped response. Any tracker
// failure fails the whole call.
func (c *Client) GradeTrackers(ctx context.Context, trackerType string, trackers []pile.Tracker, constraints pile.Constraints) (*pile.ProjectGradingResponse, error) {
	responses := make([]*pile.TrackerGradingResponse, len(trackers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentTrackers)
	for i, t := range trackers {
		i, t := i, t
		g.Go(func() error {
			resp, err := c.GradeTracker(gctx, pile.TrackerGradingRequest{
				TrackerID:   t.TrackerID,
				TrackerType: trackerType,
				Piles:       t.Piles,
				Constraints: constraints,
			})
			if err != nil {
				return errors.Wrapf(err, "grading tracker %d failed", t.TrackerID)
			}
			responses[i] = resp
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	aggregate := &pile.ProjectGradingResponse{
		Success:     true,
		Constraints: constraints,
	}
	for _, resp := range responses {
		aggregate.TotalCut += resp.TotalCut
		aggregate.TotalFill += resp.TotalFill
		aggregate.Piles = append(aggregate.Piles, resp.Piles...)
		aggregate.Violations = append(aggregate.Violations, resp.Violations...)
	}
	aggregate.Message = fmt.Sprintf("Successfully graded %d trackers", len(trackers))
	return aggregate, nil
}

func (c *Client) post(ctx context.Context, path string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.Wrap(err, "failed to encode grading request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "failed to build grading request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.ExternalServiceError("grading", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return errors.ExternalServiceError("grading",
			fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(detail))))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.ExternalServiceError("grading", fmt.Errorf("invalid response body: %w", err))
	}
	return nil
}
