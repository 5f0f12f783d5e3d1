package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/scrimqueue/draftlobby/internal/api/response"
	"github.com/scrimqueue/draftlobby/internal/model"
)

// Notifier receives out-of-band notifications about finished matches.
// Delivery is best-effort; failures never roll back the match.
type Notifier interface {
	MatchFinished(ctx context.Context, match *model.MatchRecord) error
}

// LogNotifier writes match notifications to the application log
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a LogNotifier
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{
		logger: logger.With(slog.String("component", "notify")),
	}
}

func (n *LogNotifier) MatchFinished(ctx context.Context, match *model.MatchRecord) error {
	n.logger.InfoContext(ctx, "match finished",
		slog.String("match_id", string(match.ID)),
		slog.String("lobby", string(match.LobbyCode)),
		slog.String("winner", string(match.Winner)),
		slog.Bool("is_draw", match.IsDraw))
	return nil
}

var _ Notifier = (*LogNotifier)(nil)

// WebhookNotifier POSTs match records as JSON to a configured endpoint
type WebhookNotifier struct {
	url    string
	client *http.Client
	logger *slog.Logger
}

// NewWebhookNotifier creates a WebhookNotifier targeting url
func NewWebhookNotifier(url string, logger *slog.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger.With(slog.String("component", "notify-webhook")),
	}
}

func (n *WebhookNotifier) MatchFinished(ctx context.Context, match *model.MatchRecord) error {
	body, err := json.Marshal(response.MatchFromModel(match))
	if err != nil {
		return fmt.Errorf("marshaling match notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building match notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("delivering match notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("match notification rejected: status %d", resp.StatusCode)
	}

	n.logger.InfoContext(ctx, "match notification delivered",
		slog.String("match_id", string(match.ID)),
		slog.Int("status", resp.StatusCode))
	return nil
}

var _ Notifier = (*WebhookNotifier)(nil)
