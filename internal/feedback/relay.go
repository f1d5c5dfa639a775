package feedback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"rygonet-server/internal/shared/errors"
)

// Submission is a user feedback report bound for the external issue
// tracker. The roster core has no dependency on what the tracker does
// with it.
type Submission struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	UserEmail   string `json:"userEmail,omitempty"`
	URL         string `json:"url,omitempty"`
}

// Confirmation is whatever opaque acknowledgement the tracker returns.
type Confirmation struct {
	ID  string `json:"id,omitempty"`
	URL string `json:"url,omitempty"`
}

var validCategories = map[string]bool{
	"bug":     true,
	"feature": true,
	"data":    true,
	"other":   true,
}

func (s *Submission) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return errors.Validation("title is required")
	}
	if strings.TrimSpace(s.Description) == "" {
		return errors.Validation("description is required")
	}
	if !validCategories[s.Category] {
		return errors.Validationf("unknown feedback category: %s", s.Category)
	}
	return nil
}

// Relay forwards submissions to the configured tracker endpoint. It holds
// no state and failures never touch roster data.
type Relay struct {
	endpoint string
	token    string
	client   *http.Client
	logger   *slog.Logger
}

func NewRelay(endpoint, token string, timeout time.Duration, logger *slog.Logger) *Relay {
	logger.Debug("Initializing feedback relay", "configured", endpoint != "")

	return &Relay{
		endpoint: endpoint,
		token:    token,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}
}

func (r *Relay) Configured() bool {
	return r.endpoint != ""
}

// Submit posts the report and returns the tracker's confirmation.
func (r *Relay) Submit(ctx context.Context, submission *Submission) (*Confirmation, error) {
	logger := r.logger.With("component", "feedback_relay", "operation", "submit", "category", submission.Category)

	if !r.Configured() {
		return nil, errors.External("feedback relay is not configured")
	}

	if err := submission.Validate(); err != nil {
		return nil, err
	}

	payload, err := json.Marshal(submission)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize feedback: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to build feedback request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		logger.Error("Feedback relay request failed", "error", err)
		return nil, errors.WrapExternal("feedback service is unreachable", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Error("Failed to close relay response body", "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("Feedback relay rejected submission", "status_code", resp.StatusCode)
		return nil, errors.External(fmt.Sprintf("feedback service returned status %d", resp.StatusCode))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if err != nil {
		logger.Warn("Failed to read relay response", "error", err)
		return &Confirmation{}, nil
	}

	var confirmation Confirmation
	if len(body) > 0 {
		// The confirmation shape is the tracker's business; a body that
		// does not parse is still a successful submission.
		if err := json.Unmarshal(body, &confirmation); err != nil {
			logger.Debug("Relay response was not JSON", "error", err)
		}
	}

	logger.Info("Feedback submitted", "tracker_id", confirmation.ID)
	return &confirmation, nil
}
