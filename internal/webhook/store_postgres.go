package webhook

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/domain"
)

// PostgresSubscriptionStore persists webhook subscriptions in a
// "webhook_subscriptions" table via a pooled pgx connection. It implements
// the same SubscriptionStore interface as MemoryStore so Manager's delivery
// logic never changes when the store is swapped (SPEC_FULL.md §4.6
// "Pluggable stores").
type PostgresSubscriptionStore struct {
	pool *pgxpool.Pool
}

func NewPostgresSubscriptionStore(pool *pgxpool.Pool) *PostgresSubscriptionStore {
	return &PostgresSubscriptionStore{pool: pool}
}

const createWebhookSubscriptionsTable = `
CREATE TABLE IF NOT EXISTS webhook_subscriptions (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	url TEXT NOT NULL,
	secret TEXT NOT NULL,
	events JSONB NOT NULL,
	active BOOLEAN NOT NULL DEFAULT TRUE,
	headers JSONB NOT NULL DEFAULT '{}',
	retry_count INT NOT NULL DEFAULT 3,
	retry_delay_seconds INT NOT NULL DEFAULT 60,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the webhook_subscriptions table if it does not
// already exist. Called once at startup.
func (s *PostgresSubscriptionStore) EnsureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, createWebhookSubscriptionsTable)
	return err
}

func (s *PostgresSubscriptionStore) Register(sub domain.WebhookSubscription) error {
	ctx := context.Background()
	events, err := json.Marshal(sub.Events)
	if err != nil {
		return apperr.Internalf("marshaling webhook events: %v", err)
	}
	headers, err := json.Marshal(sub.Headers)
	if err != nil {
		return apperr.Internalf("marshaling webhook headers: %v", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO webhook_subscriptions (id, name, url, secret, events, active, headers, retry_count, retry_delay_seconds, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name, url = EXCLUDED.url, secret = EXCLUDED.secret,
			events = EXCLUDED.events, active = EXCLUDED.active, headers = EXCLUDED.headers,
			retry_count = EXCLUDED.retry_count, retry_delay_seconds = EXCLUDED.retry_delay_seconds`,
		sub.ID, sub.Name, sub.URL, sub.Secret, events, sub.Active, headers,
		sub.RetryCount, int(sub.RetryDelay.Seconds()), sub.CreatedAt)
	if err != nil {
		return apperr.Internalf("registering webhook subscription: %v", err)
	}
	return nil
}

func scanSubscription(row pgx.Row) (domain.WebhookSubscription, error) {
	var sub domain.WebhookSubscription
	var events, headers []byte
	var retryDelaySeconds int

	if err := row.Scan(&sub.ID, &sub.Name, &sub.URL, &sub.Secret, &events, &sub.Active,
		&headers, &sub.RetryCount, &retryDelaySeconds, &sub.CreatedAt); err != nil {
		return domain.WebhookSubscription{}, err
	}

	if err := json.Unmarshal(events, &sub.Events); err != nil {
		return domain.WebhookSubscription{}, apperr.Internalf("unmarshaling webhook events: %v", err)
	}
	if err := json.Unmarshal(headers, &sub.Headers); err != nil {
		return domain.WebhookSubscription{}, apperr.Internalf("unmarshaling webhook headers: %v", err)
	}
	sub.RetryDelay = time.Duration(retryDelaySeconds) * time.Second

	return sub, nil
}

func (s *PostgresSubscriptionStore) Get(id string) (domain.WebhookSubscription, error) {
	row := s.pool.QueryRow(context.Background(), `
		SELECT id, name, url, secret, events, active, headers, retry_count, retry_delay_seconds, created_at
		FROM webhook_subscriptions WHERE id = $1`, id)

	sub, err := scanSubscription(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return domain.WebhookSubscription{}, apperr.NotFoundf("webhook %s not found", id)
		}
		return domain.WebhookSubscription{}, apperr.Internalf("loading webhook subscription: %v", err)
	}
	return sub, nil
}

func (s *PostgresSubscriptionStore) Update(id string, apply func(*domain.WebhookSubscription)) (domain.WebhookSubscription, error) {
	sub, err := s.Get(id)
	if err != nil {
		return domain.WebhookSubscription{}, err
	}
	apply(&sub)
	if err := s.Register(sub); err != nil {
		return domain.WebhookSubscription{}, err
	}
	return sub, nil
}

func (s *PostgresSubscriptionStore) Delete(id string) error {
	tag, err := s.pool.Exec(context.Background(), `DELETE FROM webhook_subscriptions WHERE id = $1`, id)
	if err != nil {
		return apperr.Internalf("deleting webhook subscription: %v", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFoundf("webhook %s not found", id)
	}
	return nil
}

func (s *PostgresSubscriptionStore) List() ([]domain.WebhookSubscription, error) {
	rows, err := s.pool.Query(context.Background(), `
		SELECT id, name, url, secret, events, active, headers, retry_count, retry_delay_seconds, created_at
		FROM webhook_subscriptions ORDER BY id`)
	if err != nil {
		return nil, apperr.Internalf("listing webhook subscriptions: %v", err)
	}
	defer rows.Close()

	var out []domain.WebhookSubscription
	for rows.Next() {
		sub, err := scanSubscription(rows)
		if err != nil {
			return nil, apperr.Internalf("scanning webhook subscription: %v", err)
		}
		out = append(out, sub)
	}
	return out, rows.Err()
}
