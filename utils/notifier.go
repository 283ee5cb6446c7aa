package utils

import (
	"eduflow/config"
	"log"
	"time"

	"github.com/go-resty/resty/v2"
)

// NotifyWebhook posts a platform event to the configured webhook endpoint.
// Fire-and-forget: the call runs in a goroutine and failures are only logged.
// A no-op when WEBHOOK_URL is not set.
func NotifyWebhook(event string, payload map[string]interface{}) {
	url := config.AppConfig.WebhookURL
	if url == "" {
		return
	}

	go func() {
		client := resty.New().SetTimeout(10 * time.Second)
		resp, err := client.R().
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]interface{}{
				"event":   event,
				"data":    payload,
				"sent_at": time.Now().UTC().Format(time.RFC3339),
			}).
			Post(url)
		if err != nil {
			log.Printf("Error calling webhook for %s: %v", event, err)
			return
		}
		if resp.StatusCode() >= 300 {
			log.Printf("Webhook for %s returned status %d: %s", event, resp.StatusCode(), resp.String())
		}
	}()
}
