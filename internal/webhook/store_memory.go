package webhook

import (
	"sort"
	"sync"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/domain"
)

// MemoryStore is the default SubscriptionStore and DeliveryHistoryStore
// implementation: a mutex-guarded map and an append-only slice. Grounded on
// the lineage's single-writer/many-reader discipline (SPEC_FULL.md §9),
// generalized from WebhookManager's in-process dict in the original source.
type MemoryStore struct {
	mu            sync.Mutex
	subscriptions map[string]domain.WebhookSubscription
	deliveries    []domain.WebhookDelivery
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		subscriptions: make(map[string]domain.WebhookSubscription),
	}
}

func (m *MemoryStore) Register(sub domain.WebhookSubscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscriptions[sub.ID] = sub
	return nil
}

func (m *MemoryStore) Get(id string) (domain.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subscriptions[id]
	if !ok {
		return domain.WebhookSubscription{}, apperr.NotFoundf("webhook %s not found", id)
	}
	return sub, nil
}

func (m *MemoryStore) Update(id string, apply func(*domain.WebhookSubscription)) (domain.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sub, ok := m.subscriptions[id]
	if !ok {
		return domain.WebhookSubscription{}, apperr.NotFoundf("webhook %s not found", id)
	}
	apply(&sub)
	m.subscriptions[id] = sub
	return sub, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.subscriptions[id]; !ok {
		return apperr.NotFoundf("webhook %s not found", id)
	}
	delete(m.subscriptions, id)
	return nil
}

func (m *MemoryStore) List() ([]domain.WebhookSubscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WebhookSubscription, 0, len(m.subscriptions))
	for _, sub := range m.subscriptions {
		out = append(out, sub)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) Record(delivery domain.WebhookDelivery) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deliveries = append(m.deliveries, delivery)
	return nil
}

func (m *MemoryStore) History(filter domain.DeliveryHistoryFilter) ([]domain.WebhookDelivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	matches := make([]domain.WebhookDelivery, 0, len(m.deliveries))
	for _, d := range m.deliveries {
		if filter.SubscriptionID != "" && d.SubscriptionID != filter.SubscriptionID {
			continue
		}
		if filter.EventType != "" && d.EventType != filter.EventType {
			continue
		}
		if filter.Status != "" && d.Status != filter.Status {
			continue
		}
		matches = append(matches, d)
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.After(matches[j].CreatedAt) })

	limit := filter.Limit
	if limit <= 0 || limit > len(matches) {
		limit = len(matches)
	}
	return matches[:limit], nil
}
