package ocr

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/paddockpal/paddock/core"
)

// JobStatus is an extraction job's lifecycle state as reported by the
// service. Jobs move queued -> in progress -> done|failed.
type JobStatus string

const (
	StatusQueued     JobStatus = "queued"
	StatusInProgress JobStatus = "in progress"
	StatusDone       JobStatus = "done"
	StatusFailed     JobStatus = "failed"
)

// Terminal reports whether the status ends the job.
func (s JobStatus) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

type jobStatusResponse struct {
	Status  JobStatus `json:"status"`
	Content struct {
		DownloadURI string `json:"downloadUri"`
	} `json:"content"`
}

// pollJob checks the job status at a fixed interval until it reaches a
// terminal state or the attempt budget runs out. Unlike an unbounded wait
// loop, exhaustion surfaces as core.ErrTimeout so a stuck job cannot hang
// the pipeline; context cancellation aborts between checks.
func (c *Client) pollJob(ctx context.Context, token, location string) (string, error) {
	deadline := time.Duration(c.retries) * c.poll
	c.logger.Debug("polling job", "interval", c.poll, "maxAttempts", c.retries, "budget", deadline)

	for attempt := 1; attempt <= c.retries; attempt++ {
		status, downloadURL, err := c.checkJob(ctx, token, location)
		if err != nil {
			return "", err
		}

		switch status {
		case StatusDone:
			if downloadURL == "" {
				return "", fmt.Errorf("%w: job done but no download URL", core.ErrExtractionFailed)
			}
			return downloadURL, nil
		case StatusFailed:
			return "", fmt.Errorf("%w: job reported failed status", core.ErrExtractionFailed)
		}

		c.logger.Debug("job still running", "status", status, "attempt", attempt)

		if attempt == c.retries {
			break
		}

		timer := time.NewTimer(c.poll)
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}

	return "", fmt.Errorf("%w: job not terminal after %d checks over %s",
		core.ErrTimeout, c.retries, deadline)
}

// checkJob performs one status request.
func (c *Client) checkJob(ctx context.Context, token, location string) (JobStatus, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return "", "", err
	}
	c.authorize(req, token)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", "", fmt.Errorf("%w: status request: %v", core.ErrTransient, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", "", httpError("status", resp)
	}

	var js jobStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&js); err != nil {
		return "", "", fmt.Errorf("%w: decoding status: %v", core.ErrTransient, err)
	}
	return js.Status, js.Content.DownloadURI, nil
}
