package webhook

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/domain"
)

const maxStoredResponseBody = 500

var successStatuses = map[int]bool{200: true, 201: true, 202: true, 204: true}

// Manager fans out events to registered subscriptions and records delivery
// attempts. It holds no mutable state of its own — all mutation flows
// through SubscriptionStore/DeliveryHistoryStore — so a Manager value is
// safe to share across request handlers. Grounded on WebhookManager.
type Manager struct {
	subscriptions SubscriptionStore
	history       DeliveryHistoryStore
	httpClient    *http.Client
	deliveryTimeout time.Duration
	defaultRetryCount int
	defaultRetryDelay time.Duration
}

type Config struct {
	DeliveryTimeout   time.Duration
	DefaultRetryCount int
	DefaultRetryDelay time.Duration
}

func NewManager(subscriptions SubscriptionStore, history DeliveryHistoryStore, cfg Config) *Manager {
	if cfg.DeliveryTimeout <= 0 {
		cfg.DeliveryTimeout = 30 * time.Second
	}
	if cfg.DefaultRetryCount <= 0 {
		cfg.DefaultRetryCount = 3
	}
	if cfg.DefaultRetryDelay <= 0 {
		cfg.DefaultRetryDelay = 60 * time.Second
	}
	return &Manager{
		subscriptions:     subscriptions,
		history:           history,
		httpClient:        &http.Client{Timeout: cfg.DeliveryTimeout},
		deliveryTimeout:   cfg.DeliveryTimeout,
		defaultRetryCount: cfg.DefaultRetryCount,
		defaultRetryDelay: cfg.DefaultRetryDelay,
	}
}

// Register adds a new subscription, applying the manager's defaults for any
// zero-valued retry fields.
func (m *Manager) Register(sub domain.WebhookSubscription) (domain.WebhookSubscription, error) {
	if sub.RetryCount <= 0 {
		sub.RetryCount = m.defaultRetryCount
	}
	if sub.RetryDelay <= 0 {
		sub.RetryDelay = m.defaultRetryDelay
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}
	if err := m.subscriptions.Register(sub); err != nil {
		return domain.WebhookSubscription{}, err
	}
	return sub, nil
}

func (m *Manager) Update(id string, apply func(*domain.WebhookSubscription)) (domain.WebhookSubscription, error) {
	return m.subscriptions.Update(id, apply)
}

func (m *Manager) Delete(id string) error {
	return m.subscriptions.Delete(id)
}

func (m *Manager) List() ([]domain.WebhookSubscription, error) {
	return m.subscriptions.List()
}

func (m *Manager) DeliveryHistory(filter domain.DeliveryHistoryFilter) ([]domain.WebhookDelivery, error) {
	return m.history.History(filter)
}

// GenerateSignature computes the hex-encoded HMAC-SHA256 of payload using
// secret. Grounded on WebhookManager.generate_signature.
func GenerateSignature(payload []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature reports whether signature is the correct HMAC-SHA256 of
// payload under secret, using a constant-time comparison.
func VerifySignature(payload []byte, secret, signature string) bool {
	expected := GenerateSignature(payload, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

type envelope struct {
	Event      string      `json:"event"`
	Timestamp  string      `json:"timestamp"`
	DeliveryID string      `json:"delivery_id"`
	Data       interface{} `json:"data"`
}

// serializeEnvelope marshals via an intermediate map so the top-level keys
// come out alphabetically sorted — encoding/json sorts map[string]any keys —
// giving a stable signing input independent of struct field order.
func serializeEnvelope(env envelope) ([]byte, error) {
	asMap := map[string]interface{}{
		"event":       env.Event,
		"timestamp":   env.Timestamp,
		"delivery_id": env.DeliveryID,
		"data":        env.Data,
	}
	return json.Marshal(asMap)
}

// deliverOnce performs a single HTTP POST attempt and returns the response
// status and truncated body, or an error if the request could not be sent.
func (m *Manager) deliverOnce(ctx context.Context, sub domain.WebhookSubscription, body []byte, signature, eventName, deliveryID string) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sub.URL, bytes.NewReader(body))
	if err != nil {
		return 0, "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Webhook-Signature", signature)
	req.Header.Set("X-Webhook-Event", eventName)
	req.Header.Set("X-Webhook-Delivery", deliveryID)
	for k, v := range sub.Headers {
		req.Header.Set(k, v)
	}

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxStoredResponseBody))
	return resp.StatusCode, string(respBody), nil
}

// sendWebhook delivers one event to one subscription, making up to
// sub.RetryCount attempts in total with sub.RetryDelay between attempts. Grounded on
// WebhookManager.send_webhook.
func (m *Manager) sendWebhook(ctx context.Context, sub domain.WebhookSubscription, eventName string, payload interface{}) domain.WebhookDelivery {
	now := time.Now()
	deliveryID := fmt.Sprintf("del-%d-%s", now.UnixNano(), sub.ID)

	env := envelope{Event: eventName, Timestamp: now.UTC().Format(time.RFC3339), DeliveryID: deliveryID, Data: payload}
	body, err := serializeEnvelope(env)
	if err != nil {
		return domain.WebhookDelivery{
			ID: deliveryID, SubscriptionID: sub.ID, EventType: eventName,
			Payload: payload, Status: domain.WebhookStatusFailed, CreatedAt: now,
		}
	}
	signature := GenerateSignature(body, sub.Secret)

	delivery := domain.WebhookDelivery{
		ID:             deliveryID,
		SubscriptionID: sub.ID,
		EventType:      eventName,
		Payload:        payload,
		Status:         domain.WebhookStatusRetrying,
		CreatedAt:      now,
	}

	retryCount := sub.RetryCount
	if retryCount <= 0 {
		retryCount = m.defaultRetryCount
	}
	retryDelay := sub.RetryDelay
	if retryDelay <= 0 {
		retryDelay = m.defaultRetryDelay
	}

	for attempt := 0; attempt < retryCount; attempt++ {
		delivery.Attempts++
		delivery.LastAttempt = time.Now()

		status, respBody, err := m.deliverOnce(ctx, sub, body, signature, eventName, deliveryID)
		if err != nil {
			log.Printf("webhook: delivery %s to %s attempt %d failed: %v", deliveryID, sub.URL, delivery.Attempts, err)
		} else {
			delivery.ResponseCode = status
			if len(respBody) > maxStoredResponseBody {
				respBody = respBody[:maxStoredResponseBody]
			}
			delivery.ResponseBody = respBody
			if successStatuses[status] {
				delivery.Status = domain.WebhookStatusDelivered
				break
			}
			log.Printf("webhook: delivery %s to %s attempt %d returned status %d", deliveryID, sub.URL, delivery.Attempts, status)
		}

		if attempt < retryCount-1 {
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				delivery.Status = domain.WebhookStatusFailed
				m.record(delivery)
				return delivery
			}
		}
	}

	if delivery.Status != domain.WebhookStatusDelivered {
		delivery.Status = domain.WebhookStatusFailed
	}

	m.record(delivery)
	return delivery
}

func (m *Manager) record(delivery domain.WebhookDelivery) {
	if err := m.history.Record(delivery); err != nil {
		log.Printf("webhook: failed to record delivery %s: %v", delivery.ID, err)
	}
}

// Trigger delivers eventName to every active subscription accepting it,
// concurrently, and returns the resulting delivery records. Grounded on
// WebhookManager.trigger_event.
func (m *Manager) Trigger(ctx context.Context, eventName string, payload interface{}) ([]domain.WebhookDelivery, error) {
	subs, err := m.subscriptions.List()
	if err != nil {
		return nil, apperr.Internalf("listing webhook subscriptions: %v", err)
	}

	var targets []domain.WebhookSubscription
	for _, sub := range subs {
		if sub.AcceptsEvent(eventName) {
			targets = append(targets, sub)
		}
	}
	if len(targets) == 0 {
		return nil, nil
	}

	results := make([]domain.WebhookDelivery, len(targets))
	done := make(chan int, len(targets))
	for i, sub := range targets {
		go func(i int, sub domain.WebhookSubscription) {
			results[i] = m.sendWebhook(ctx, sub, eventName, payload)
			done <- i
		}(i, sub)
	}
	for range targets {
		<-done
	}

	return results, nil
}

// BlockedPrescriptionAlert builds the well-known payload shape for a blocked
// prescription and triggers prescription.blocked. Grounded on
// WebhookManager.send_blocked_prescription_alert.
func (m *Manager) BlockedPrescriptionAlert(ctx context.Context, prescriptionID string, result domain.ValidationResult) ([]domain.WebhookDelivery, error) {
	payload := map[string]interface{}{
		"prescription_id":   prescriptionID,
		"is_valid":           result.IsValid,
		"interactions":       result.Interactions,
		"contraindications":  result.Contraindications,
		"dosing_adjustments": result.DosingAdjustments,
	}
	return m.Trigger(ctx, string(domain.EventPrescriptionBlocked), payload)
}

// MajorInteractionAlert builds the well-known payload shape for a single
// major interaction and triggers interaction.major. Grounded on
// WebhookManager.send_major_interaction_alert.
func (m *Manager) MajorInteractionAlert(ctx context.Context, prescriptionID string, interaction domain.DrugInteraction) ([]domain.WebhookDelivery, error) {
	payload := map[string]interface{}{
		"prescription_id": prescriptionID,
		"interaction":      interaction,
	}
	return m.Trigger(ctx, string(domain.EventMajorInteraction), payload)
}
