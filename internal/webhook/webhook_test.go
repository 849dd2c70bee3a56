package webhook

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaguard/internal/domain"
)

func TestGenerateAndVerifySignatureRoundTrip(t *testing.T) {
	payload := []byte(`{"a":1,"b":2}`)
	sig := GenerateSignature(payload, "my-secret")
	assert.True(t, VerifySignature(payload, "my-secret", sig))
	assert.False(t, VerifySignature(payload, "wrong-secret", sig))
}

func TestSerializeEnvelopeIsDeterministic(t *testing.T) {
	env := envelope{Event: "test.event", Timestamp: "2026-07-30T00:00:00Z", DeliveryID: "del-1", Data: map[string]string{"k": "v"}}
	a, err := serializeEnvelope(env)
	require.NoError(t, err)
	b, err := serializeEnvelope(env)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func newTestManager(retryDelay time.Duration) (*Manager, *MemoryStore) {
	store := NewMemoryStore()
	m := NewManager(store, store, Config{
		DeliveryTimeout:   2 * time.Second,
		DefaultRetryCount: 3,
		DefaultRetryDelay: retryDelay,
	})
	return m, store
}

func TestRetryCountOneMeansExactlyOneAttempt(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	m, store := newTestManager(time.Millisecond)
	_, err := m.Register(domain.WebhookSubscription{
		ID: "sub-1", Name: "test", URL: server.URL, Secret: "s",
		Events: []string{"*"}, Active: true, RetryCount: 1, RetryDelay: time.Millisecond,
	})
	require.NoError(t, err)

	start := time.Now()
	deliveries, err := m.Trigger(context.Background(), "test.event", map[string]string{"x": "y"})
	elapsed := time.Since(start)
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
	assert.Equal(t, domain.WebhookStatusFailed, deliveries[0].Status)
	assert.Less(t, elapsed, 500*time.Millisecond, "no sleep should occur after the only attempt")

	history, err := store.History(domain.DeliveryHistoryFilter{})
	require.NoError(t, err)
	require.Len(t, history, 1)
}

func TestRetryToDeliveredOnThirdAttempt(t *testing.T) {
	var attempts int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&attempts, 1)
		if n < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	m, _ := newTestManager(10 * time.Millisecond)
	_, err := m.Register(domain.WebhookSubscription{
		ID: "sub-2", Name: "test", URL: server.URL, Secret: "s",
		Events: []string{"*"}, Active: true, RetryCount: 3, RetryDelay: 10 * time.Millisecond,
	})
	require.NoError(t, err)

	deliveries, err := m.Trigger(context.Background(), "test.event", map[string]string{"x": "y"})
	require.NoError(t, err)
	require.Len(t, deliveries, 1)

	assert.Equal(t, int32(3), atomic.LoadInt32(&attempts))
	assert.Equal(t, domain.WebhookStatusDelivered, deliveries[0].Status)
	assert.Equal(t, 3, deliveries[0].Attempts)
}

func TestTriggerSkipsInactiveAndNonMatchingSubscriptions(t *testing.T) {
	m, _ := newTestManager(time.Millisecond)
	_, err := m.Register(domain.WebhookSubscription{
		ID: "inactive", URL: "http://example.invalid", Secret: "s",
		Events: []string{"*"}, Active: false,
	})
	require.NoError(t, err)
	_, err = m.Register(domain.WebhookSubscription{
		ID: "wrong-event", URL: "http://example.invalid", Secret: "s",
		Events: []string{"system.health"}, Active: true,
	})
	require.NoError(t, err)

	deliveries, err := m.Trigger(context.Background(), "prescription.blocked", nil)
	require.NoError(t, err)
	assert.Empty(t, deliveries)
}

func TestTriggerWithNoSubscriptionsReturnsNil(t *testing.T) {
	m, _ := newTestManager(time.Millisecond)
	deliveries, err := m.Trigger(context.Background(), "system.health", nil)
	require.NoError(t, err)
	assert.Nil(t, deliveries)
}

func TestDeliveryHistoryFiltersByStatus(t *testing.T) {
	store := NewMemoryStore()
	require.NoError(t, store.Record(domain.WebhookDelivery{ID: "d1", Status: domain.WebhookStatusDelivered, CreatedAt: time.Now()}))
	require.NoError(t, store.Record(domain.WebhookDelivery{ID: "d2", Status: domain.WebhookStatusFailed, CreatedAt: time.Now()}))

	delivered, err := store.History(domain.DeliveryHistoryFilter{Status: domain.WebhookStatusDelivered})
	require.NoError(t, err)
	require.Len(t, delivered, 1)
	assert.Equal(t, "d1", delivered[0].ID)
}

func TestAcceptsEventWildcard(t *testing.T) {
	sub := domain.WebhookSubscription{Active: true, Events: []string{"*"}}
	assert.True(t, sub.AcceptsEvent("anything.at.all"))
}

func TestAcceptsEventRejectsWhenInactive(t *testing.T) {
	sub := domain.WebhookSubscription{Active: false, Events: []string{"*"}}
	assert.False(t, sub.AcceptsEvent("anything.at.all"))
}
