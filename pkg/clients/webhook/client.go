package webhook

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/entdash/backoffice/internal/config"
	"github.com/entdash/backoffice/internal/domain/models"
)

// Client delivers cycle snapshots to an external receiver.
type Client interface {
	SendSnapshot(ctx context.Context, snapshot Snapshot) error
}

// Snapshot is the payload posted after each completed cycle.
type Snapshot struct {
	CycleDate   string              `json:"cycle_date"`
	GeneratedAt time.Time           `json:"generated_at"`
	Data        []models.TeamTotal  `json:"data"`
	Daily       []models.DailyTotal `json:"daily"`
}

// APIClient is a resty-backed implementation of Client.
type APIClient struct {
	httpClient *resty.Client
}

// NewClient builds a webhook client from the notifier configuration.
func NewClient(cfg config.NotifierConfig) *APIClient {
	restyClient := resty.New()
	restyClient.
		SetBaseURL(cfg.WebhookURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(15 * time.Second)

	if cfg.AuthToken != "" {
		restyClient.SetHeader("Authorization", fmt.Sprintf("Bearer %s", cfg.AuthToken))
	}

	return &APIClient{httpClient: restyClient}
}

// SendSnapshot posts the snapshot to the configured URL.
func (c *APIClient) SendSnapshot(ctx context.Context, snapshot Snapshot) error {
	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetBody(snapshot).
		Post("")
	if err != nil {
		return fmt.Errorf("send cycle snapshot: %w", err)
	}

	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("webhook rejected snapshot: status=%d, body=%s", resp.StatusCode(), resp.String())
	}

	return nil
}
