package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"pharmaguard/internal/domain"
	"pharmaguard/internal/webhook"
)

// webhooktest fires a single synthetic event at one webhook URL and reports
// the delivery outcome, grounded on dbtest's connectivity-smoke-test shape.
func main() {
	url := flag.String("url", "", "Webhook URL to test (required)")
	secret := flag.String("secret", "test-secret", "HMAC signing secret")
	event := flag.String("event", string(domain.EventSystemHealth), "Event name to send")
	flag.Parse()

	if *url == "" {
		fmt.Println("Usage: webhooktest -url <https://example.com/hook> [-secret <secret>] [-event <event.name>]")
		os.Exit(1)
	}

	store := webhook.NewMemoryStore()
	manager := webhook.NewManager(store, store, webhook.Config{
		DeliveryTimeout:   10 * time.Second,
		DefaultRetryCount: 1,
		DefaultRetryDelay: time.Second,
	})

	sub, err := manager.Register(domain.WebhookSubscription{
		ID:     "webhooktest",
		Name:   "webhooktest",
		URL:    *url,
		Secret: *secret,
		Events: []string{"*"},
		Active: true,
	})
	if err != nil {
		log.Fatalf("Failed to register test subscription: %v", err)
	}
	log.Printf("Registered subscription %s targeting %s", sub.ID, sub.URL)

	deliveries, err := manager.Trigger(context.Background(), *event, map[string]string{
		"message": "webhooktest smoke delivery",
	})
	if err != nil {
		log.Fatalf("Trigger failed: %v", err)
	}

	for _, d := range deliveries {
		log.Printf("status=%s attempts=%d response_code=%d body=%q", d.Status, d.Attempts, d.ResponseCode, d.ResponseBody)
	}
}
