package utils

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

type SlackClient struct {
	webhookURL string
	client     *http.Client
}

// NewSlackClient builds a client for a Slack incoming webhook. The webhook URL
// comes from SLACK_WEBHOOK_URL.
func NewSlackClient() *SlackClient {
	return &SlackClient{
		webhookURL: os.Getenv("SLACK_WEBHOOK_URL"),
		client:     &http.Client{Timeout: 10 * time.Second},
	}
}

// SendMenuPublished posts a new-menu announcement with a link to the menu page.
func (s *SlackClient) SendMenuPublished(menuTitle, menuLink string) error {
	if s.webhookURL == "" {
		return errors.New("SLACK_WEBHOOK_URL not set")
	}

	payload := map[string]string{
		"text": fmt.Sprintf("El menú de hoy (%s) ya está disponible! %s", menuTitle, menuLink),
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal slack payload: %w", err)
	}

	resp, err := s.client.Post(s.webhookURL, "application/json", bytes.NewReader(b))
	if err != nil {
		return fmt.Errorf("failed to call slack webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("slack webhook error %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
