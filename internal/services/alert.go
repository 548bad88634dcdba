package services

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"sku-pulse/internal/dashboard"
)

// AlertNotifier posts anomaly summaries to a configured webhook.
type AlertNotifier struct {
	webhookURL string
	client     *resty.Client
}

func NewAlertNotifier(webhookURL string) *AlertNotifier {
	client := resty.New()
	client.SetTimeout(10 * time.Second)

	return &AlertNotifier{
		webhookURL: webhookURL,
		client:     client,
	}
}

// Enabled reports whether a webhook target is configured.
func (n *AlertNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// NotifyAnomalies posts a text summary of the report's flagged days.
// It is a no-op without a webhook target or without flagged days.
func (n *AlertNotifier) NotifyAnomalies(rep *dashboard.Report) error {
	if !n.Enabled() {
		return nil
	}
	flagged := rep.AnomalyDays()
	if len(flagged) == 0 {
		return nil
	}

	lines := make([]string, 0, len(flagged)+1)
	lines = append(lines, fmt.Sprintf("Net GMV anomalies, %d flagged day(s) in %s..%s:",
		len(flagged), rep.DateStart, rep.DateEnd))
	for _, a := range flagged {
		lines = append(lines, fmt.Sprintf("- %s: net GMV %.2f (z=%.2f)", a.Date, a.NetGMV, a.Z))
	}

	resp, err := n.client.R().
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"text": strings.Join(lines, "\n")}).
		Post(n.webhookURL)
	if err != nil {
		return fmt.Errorf("failed to post anomaly alert: %w", err)
	}
	if resp.StatusCode() >= 300 {
		return fmt.Errorf("anomaly alert rejected with status %d", resp.StatusCode())
	}
	log.Printf("Posted anomaly alert for %d day(s)", len(flagged))
	return nil
}
