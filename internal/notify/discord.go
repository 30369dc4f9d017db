package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	domain "github.com/donaldgifford/manifest-analyzer/pkg/types"
)

const (
	colorGreen  = 0x2ECC71 // Strong Buy
	colorYellow = 0xF1C40F // Buy
	colorOrange = 0xE67E22 // Consider
	colorGrey   = 0x95A5A6 // Pass

	defaultDiscordTimeout = 10 * time.Second
)

// DiscordNotifier implements Notifier via Discord webhook.
type DiscordNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewDiscordNotifier creates a new DiscordNotifier.
func NewDiscordNotifier(webhookURL string, opts ...DiscordOption) *DiscordNotifier {
	d := &DiscordNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: defaultDiscordTimeout},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DiscordOption configures a DiscordNotifier.
type DiscordOption func(*DiscordNotifier)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(c *http.Client) DiscordOption {
	return func(d *DiscordNotifier) {
		d.client = c
	}
}

// discordWebhookPayload is the Discord webhook JSON structure.
type discordWebhookPayload struct {
	Embeds []discordEmbed `json:"embeds"`
}

type discordEmbed struct {
	Title       string              `json:"title"`
	URL         string              `json:"url,omitempty"`
	Color       int                 `json:"color"`
	Description string              `json:"description,omitempty"`
	Fields      []discordEmbedField `json:"fields,omitempty"`
}

type discordEmbedField struct {
	Name   string `json:"name"`
	Value  string `json:"value"`
	Inline bool   `json:"inline"`
}

// NotifyAnalysis sends the analysis as a single Discord embed.
func (d *DiscordNotifier) NotifyAnalysis(ctx context.Context, p *AnalysisPayload) error {
	return d.post(ctx, discordWebhookPayload{
		Embeds: []discordEmbed{buildEmbed(p)},
	})
}

func buildEmbed(p *AnalysisPayload) discordEmbed {
	embed := discordEmbed{
		Title:       fmt.Sprintf("%s: %s", p.Action, p.FileName),
		URL:         p.URL,
		Color:       actionColor(p.Action),
		Description: "Manifest " + p.ManifestID,
		Fields: []discordEmbedField{
			{Name: "Average ROI", Value: fmt.Sprintf("%.2f%%", p.AverageROI), Inline: true},
			{Name: "Expected Profit", Value: fmt.Sprintf("$%.2f", p.ExpectedProfit), Inline: true},
			{Name: "Retail Value", Value: fmt.Sprintf("$%.2f", p.RetailValue), Inline: true},
			{Name: "Items", Value: fmt.Sprintf("%d valid of %d", p.ValidItems, p.TotalItems), Inline: true},
			{Name: "Confidence", Value: fmt.Sprintf("%.2f", p.Confidence), Inline: true},
			{Name: "High Risk Items", Value: fmt.Sprintf("%d", p.HighRiskItems), Inline: true},
		},
	}

	if len(p.TopCategories) > 0 {
		lines := make([]string, len(p.TopCategories))
		for i, c := range p.TopCategories {
			lines[i] = fmt.Sprintf("%s: %d items, $%.2f est.", c.Category, c.Items, c.EstimatedValue)
		}
		embed.Fields = append(embed.Fields, discordEmbedField{
			Name:  "Top Categories",
			Value: strings.Join(lines, "\n"),
		})
	}

	return embed
}

func actionColor(a domain.RecommendedAction) int {
	switch a {
	case domain.ActionStrongBuy:
		return colorGreen
	case domain.ActionBuy:
		return colorYellow
	case domain.ActionConsider:
		return colorOrange
	default:
		return colorGrey
	}
}

func (d *DiscordNotifier) post(ctx context.Context, payload discordWebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		d.webhookURL,
		bytes.NewReader(body),
	)
	if err != nil {
		return fmt.Errorf("creating discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("sending discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return errors.New("discord rate limited (429)")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 4096))
		if readErr != nil {
			return fmt.Errorf("discord returned %d (body unreadable)", resp.StatusCode)
		}
		return fmt.Errorf("discord returned %d: %s", resp.StatusCode, respBody)
	}

	return nil
}
