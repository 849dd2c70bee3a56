package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"pharmaguard/internal/config"
	"pharmaguard/internal/domain"
	"pharmaguard/internal/engine"
)

// version is the engine's reported build identifier. A production build
// would stamp this via -ldflags; it is a plain constant here since no build
// pipeline is in scope.
const version = "1.0.0"

// Handlers aggregates every chi handler and the engine/config they close
// over. Grounded on the lineage's handler/api.Handlers aggregator.
type Handlers struct {
	engine    *engine.Engine
	cfg       *config.Config
	startedAt time.Time
}

func NewHandlers(e *engine.Engine, cfg *config.Config) *Handlers {
	return &Handlers{engine: e, cfg: cfg, startedAt: time.Now()}
}

// Health reports catalog load status, per SPEC_FULL.md §6.1.
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	if !h.engine.Catalog.Loaded() {
		status = "database_not_loaded"
	}
	respondOK(w, map[string]interface{}{
		"status":             status,
		"medications_loaded": h.engine.Catalog.Loaded(),
		"version":            version,
		"timestamp":          time.Now().UTC(),
		"uptime_seconds":     int(time.Since(h.startedAt).Seconds()),
	})
}

type loadCatalogResponse struct {
	MedicationsLoaded int         `json:"medications_loaded"`
	Statistics        interface{} `json:"statistics"`
}

// LoadCatalog bootstraps the medication catalog from the request body, a
// JSON document per SPEC_FULL.md §6.3. Safe to call more than once: Load is
// idempotent.
func (h *Handlers) LoadCatalog(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	n, err := h.engine.Catalog.Load(r.Body)
	if err != nil {
		respondErr(w, err)
		return
	}

	respondOK(w, loadCatalogResponse{
		MedicationsLoaded: n,
		Statistics:        h.engine.Catalog.Statistics(),
	})
}

// SearchMedications supports `?q=` and `?limit=`, defaulting limit to the
// configured catalog search limit.
func (h *Handlers) SearchMedications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	limit := h.cfg.Catalog.SearchLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	results := h.engine.Catalog.Search(query, limit)
	summaries := make([]domain.Summary, 0, len(results))
	for _, med := range results {
		summaries = append(summaries, toSummary(h.engine, med))
	}

	respondOK(w, ListResponse{Data: summaries, TotalCount: len(summaries)})
}

func toSummary(e *engine.Engine, med domain.Medication) domain.Summary {
	return domain.Summary{
		ID:             med.ID,
		CommercialName: med.CommercialName,
		GenericName:    med.GenericName,
		DosageForm:     med.DosageForm,
		Strength:       med.Strength,
		IsHighAlert:    e.Catalog.IsHighAlert(med.ID),
	}
}

// GetMedication returns the full medication detail for the id path param,
// including its similar-medication list.
func (h *Handlers) GetMedication(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		respondBadRequest(w, "medication id must be an integer")
		return
	}

	med, err := h.engine.Catalog.Get(id)
	if err != nil {
		respondErr(w, err)
		return
	}

	similar := h.engine.Catalog.Similar(id)
	if len(similar) > 5 {
		similar = similar[:5]
	}

	respondOK(w, map[string]interface{}{
		"medication":          med,
		"is_high_alert":       h.engine.Catalog.IsHighAlert(id),
		"similar_medications": similar,
	})
}

// ValidatePrescription runs the full pipeline and, based on the derived
// status, decides whether to fire webhook events. ValidatePrescription and
// ValidateList, through dispatchEvents, are the only places in the codebase
// where a ValidationResult and the webhook manager meet (SPEC_FULL.md §9
// "Event dispatch decoupling").
func (h *Handlers) ValidatePrescription(w http.ResponseWriter, r *http.Request) {
	var prescription domain.Prescription
	if err := decodeJSON(r, &prescription); err != nil {
		respondErr(w, err)
		return
	}

	result, err := h.engine.Pipeline.Validate(prescription)
	if err != nil {
		respondErr(w, err)
		return
	}

	h.dispatchEvents(r.Context(), prescription.ID, result)
	respondOK(w, result)
}

type validateListRequest struct {
	MedicationIDs []int                  `json:"medication_ids"`
	Patient       *domain.PatientContext `json:"patient,omitempty"`
}

func (h *Handlers) ValidateList(w http.ResponseWriter, r *http.Request) {
	var req validateListRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	result, err := h.engine.Pipeline.ValidateList(req.MedicationIDs, req.Patient)
	if err != nil {
		respondErr(w, err)
		return
	}

	h.dispatchEvents(r.Context(), result.PrescriptionID, result)
	respondOK(w, result)
}

func (h *Handlers) ValidatePair(w http.ResponseWriter, r *http.Request) {
	id1, err1 := strconv.Atoi(r.URL.Query().Get("id1"))
	id2, err2 := strconv.Atoi(r.URL.Query().Get("id2"))
	if err1 != nil || err2 != nil {
		respondBadRequest(w, "id1 and id2 query parameters must be integers")
		return
	}

	interactions, err := h.engine.Pipeline.ValidatePair(id1, id2)
	if err != nil {
		respondErr(w, err)
		return
	}

	respondOK(w, ListResponse{Data: interactions, TotalCount: len(interactions)})
}

// Statistics reports catalog statistics alongside feature flags, per
// SPEC_FULL.md §6.1.
func (h *Handlers) Statistics(w http.ResponseWriter, r *http.Request) {
	respondOK(w, map[string]interface{}{
		"catalog": h.engine.Catalog.Statistics(),
		"feature_flags": map[string]bool{
			"ensemble_ddi_detector": h.engine.Pipeline.EnsembleEnabled(),
		},
	})
}

// dispatchEvents fires webhook events appropriate to the validation
// outcome. Delivery failures are logged by the manager and never surfaced
// to the caller (SPEC_FULL.md §7).
func (h *Handlers) dispatchEvents(ctx context.Context, prescriptionID string, result domain.ValidationResult) {
	if h.engine.Webhooks == nil {
		return
	}

	switch result.Status() {
	case domain.StatusBlocked:
		h.engine.Webhooks.BlockedPrescriptionAlert(ctx, prescriptionID, result)
	case domain.StatusWarning:
		h.engine.Webhooks.Trigger(ctx, string(domain.EventPrescriptionWarning), result)
	}

	for _, interaction := range result.Interactions {
		if interaction.Severity == domain.SeverityMajor {
			h.engine.Webhooks.MajorInteractionAlert(ctx, prescriptionID, interaction)
		}
	}

	for _, contraindication := range result.Contraindications {
		h.engine.Webhooks.Trigger(ctx, string(domain.EventContraindication), map[string]interface{}{
			"prescription_id": prescriptionID,
			"message":         contraindication,
		})
	}

	for _, adjustment := range result.DosingAdjustments {
		if adjustment.Contraindicated {
			h.engine.Webhooks.Trigger(ctx, string(domain.EventDosingAlert), map[string]interface{}{
				"prescription_id": prescriptionID,
				"adjustment":      adjustment,
			})
		}
	}
}

type registerWebhookRequest struct {
	Name       string            `json:"name"`
	URL        string            `json:"url"`
	Secret     string            `json:"secret"`
	Events     []string          `json:"events"`
	Active     *bool             `json:"active,omitempty"`
	Headers    map[string]string `json:"headers,omitempty"`
	RetryCount int               `json:"retry_count,omitempty"`
}

// RegisterWebhook creates a new subscription. Active defaults to true when
// omitted, matching a caller registering a webhook to use immediately.
func (h *Handlers) RegisterWebhook(w http.ResponseWriter, r *http.Request) {
	var req registerWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	sub, err := h.engine.Webhooks.Register(domain.WebhookSubscription{
		ID:         uuid.New().String(),
		Name:       req.Name,
		URL:        req.URL,
		Secret:     req.Secret,
		Events:     req.Events,
		Active:     active,
		Headers:    req.Headers,
		RetryCount: req.RetryCount,
	})
	if err != nil {
		respondErr(w, err)
		return
	}

	respondCreated(w, sub)
}

func (h *Handlers) ListWebhooks(w http.ResponseWriter, r *http.Request) {
	subs, err := h.engine.Webhooks.List()
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, ListResponse{Data: subs, TotalCount: len(subs)})
}

type updateWebhookRequest struct {
	Name    *string           `json:"name,omitempty"`
	URL     *string           `json:"url,omitempty"`
	Secret  *string           `json:"secret,omitempty"`
	Events  []string          `json:"events,omitempty"`
	Active  *bool             `json:"active,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
}

func (h *Handlers) UpdateWebhook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req updateWebhookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondErr(w, err)
		return
	}

	sub, err := h.engine.Webhooks.Update(id, func(s *domain.WebhookSubscription) {
		if req.Name != nil {
			s.Name = *req.Name
		}
		if req.URL != nil {
			s.URL = *req.URL
		}
		if req.Secret != nil {
			s.Secret = *req.Secret
		}
		if req.Events != nil {
			s.Events = req.Events
		}
		if req.Active != nil {
			s.Active = *req.Active
		}
		if req.Headers != nil {
			s.Headers = req.Headers
		}
	})
	if err != nil {
		respondErr(w, err)
		return
	}

	respondOK(w, sub)
}

func (h *Handlers) DeleteWebhook(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.engine.Webhooks.Delete(id); err != nil {
		respondErr(w, err)
		return
	}
	respondNoContent(w)
}

// TestWebhook fires a synthetic system.health event at every matching
// subscription so an operator can confirm delivery before relying on it.
func (h *Handlers) TestWebhook(w http.ResponseWriter, r *http.Request) {
	deliveries, err := h.engine.Webhooks.Trigger(r.Context(), string(domain.EventSystemHealth), map[string]string{
		"message": "test delivery",
	})
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, ListResponse{Data: deliveries, TotalCount: len(deliveries)})
}

func (h *Handlers) WebhookHistory(w http.ResponseWriter, r *http.Request) {
	filter := domain.DeliveryHistoryFilter{
		SubscriptionID: r.URL.Query().Get("subscription_id"),
		EventType:      r.URL.Query().Get("event_type"),
		Status:         domain.WebhookStatus(r.URL.Query().Get("status")),
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			filter.Limit = parsed
		}
	}

	history, err := h.engine.Webhooks.DeliveryHistory(filter)
	if err != nil {
		respondErr(w, err)
		return
	}
	respondOK(w, ListResponse{Data: history, TotalCount: len(history)})
}
