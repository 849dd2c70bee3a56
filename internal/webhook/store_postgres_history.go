package webhook

import (
	"database/sql"
	"encoding/json"
	"strconv"

	_ "github.com/lib/pq"

	"pharmaguard/internal/apperr"
	"pharmaguard/internal/domain"
)

// PostgresHistoryStore records delivery attempts through database/sql with
// the lib/pq driver — deliberately a different Postgres client than
// PostgresSubscriptionStore's pgx pool, so both of the lineage's Postgres
// drivers are exercised (SPEC_FULL.md §11).
type PostgresHistoryStore struct {
	db *sql.DB
}

func NewPostgresHistoryStore(db *sql.DB) *PostgresHistoryStore {
	return &PostgresHistoryStore{db: db}
}

const createWebhookDeliveriesTable = `
CREATE TABLE IF NOT EXISTS webhook_deliveries (
	id TEXT PRIMARY KEY,
	subscription_id TEXT NOT NULL,
	event_type TEXT NOT NULL,
	payload JSONB,
	status TEXT NOT NULL,
	attempts INT NOT NULL DEFAULT 0,
	last_attempt TIMESTAMPTZ,
	response_code INT,
	response_body TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func (s *PostgresHistoryStore) EnsureSchema() error {
	_, err := s.db.Exec(createWebhookDeliveriesTable)
	return err
}

func (s *PostgresHistoryStore) Record(delivery domain.WebhookDelivery) error {
	payload, err := json.Marshal(delivery.Payload)
	if err != nil {
		return apperr.Internalf("marshaling delivery payload: %v", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO webhook_deliveries
			(id, subscription_id, event_type, payload, status, attempts, last_attempt, response_code, response_body, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status, attempts = EXCLUDED.attempts, last_attempt = EXCLUDED.last_attempt,
			response_code = EXCLUDED.response_code, response_body = EXCLUDED.response_body`,
		delivery.ID, delivery.SubscriptionID, delivery.EventType, payload, delivery.Status,
		delivery.Attempts, delivery.LastAttempt, delivery.ResponseCode, delivery.ResponseBody, delivery.CreatedAt)
	if err != nil {
		return apperr.Internalf("recording webhook delivery: %v", err)
	}
	return nil
}

func (s *PostgresHistoryStore) History(filter domain.DeliveryHistoryFilter) ([]domain.WebhookDelivery, error) {
	query := `
		SELECT id, subscription_id, event_type, payload, status, attempts, last_attempt, response_code, response_body, created_at
		FROM webhook_deliveries WHERE 1=1`
	var args []interface{}

	addFilter := func(column, value string) {
		args = append(args, value)
		query += " AND " + column + " = $" + strconv.Itoa(len(args))
	}
	if filter.SubscriptionID != "" {
		addFilter("subscription_id", filter.SubscriptionID)
	}
	if filter.EventType != "" {
		addFilter("event_type", filter.EventType)
	}
	if filter.Status != "" {
		addFilter("status", string(filter.Status))
	}
	query += " ORDER BY created_at DESC"
	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += " LIMIT " + strconv.Itoa(limit)

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, apperr.Internalf("querying delivery history: %v", err)
	}
	defer rows.Close()

	var out []domain.WebhookDelivery
	for rows.Next() {
		var d domain.WebhookDelivery
		var payload []byte
		if err := rows.Scan(&d.ID, &d.SubscriptionID, &d.EventType, &payload, &d.Status,
			&d.Attempts, &d.LastAttempt, &d.ResponseCode, &d.ResponseBody, &d.CreatedAt); err != nil {
			return nil, apperr.Internalf("scanning delivery row: %v", err)
		}
		if len(payload) > 0 {
			_ = json.Unmarshal(payload, &d.Payload)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
