package httpapi

import (
	"github.com/go-chi/chi/v5"
)

// SetupRoutes wires every handler to its method/path, grounded on the
// lineage's handler/api.SetupRoutes. There is no auth middleware group here:
// SPEC_FULL.md §1 places authentication out of scope for this
// engine, which is expected to sit behind a pharmacy system's own gateway.
func SetupRoutes(r chi.Router, h *Handlers) {
	r.Get("/health", h.Health)
	r.Get("/statistics", h.Statistics)

	r.Route("/catalog", func(r chi.Router) {
		r.Post("/load", h.LoadCatalog)
		r.Get("/search", h.SearchMedications)
		r.Get("/medications/{id}", h.GetMedication)
	})

	r.Route("/validate", func(r chi.Router) {
		r.Post("/prescription", h.ValidatePrescription)
		r.Post("/list", h.ValidateList)
		r.Get("/pair", h.ValidatePair)
	})

	r.Route("/webhooks", func(r chi.Router) {
		r.Post("/", h.RegisterWebhook)
		r.Get("/", h.ListWebhooks)
		r.Patch("/{id}", h.UpdateWebhook)
		r.Delete("/{id}", h.DeleteWebhook)
		r.Post("/test", h.TestWebhook)
		r.Get("/history", h.WebhookHistory)
	})
}
