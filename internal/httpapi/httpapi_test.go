package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pharmaguard/internal/catalog"
	"pharmaguard/internal/config"
	"pharmaguard/internal/domain"
	"pharmaguard/internal/engine"
	"pharmaguard/internal/webhook"
)

const testBootstrap = `{
  "medications": [
    {"id": 1, "commercial_name": "Coumadin 5mg Tab", "generic_name": "warfarin"},
    {"id": 2, "commercial_name": "Aspocid 100mg Tab", "generic_name": "aspirin"}
  ]
}`

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	cat := catalog.New()
	_, err := cat.Load(strings.NewReader(testBootstrap))
	require.NoError(t, err)

	store := webhook.NewMemoryStore()
	manager := webhook.NewManager(store, store, webhook.Config{})
	eng := engine.New(cat, manager, engine.Options{})

	cfg := &config.Config{Catalog: config.CatalogConfig{SearchLimit: 20}}
	handlers := NewHandlers(eng, cfg)

	r := chi.NewRouter()
	SetupRoutes(r, handlers)
	return httptest.NewServer(r)
}

func TestHealthReportsLoaded(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, true, body["medications_loaded"])
}

func TestSearchMedicationsFindsByGeneric(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/catalog/search?q=warfarin")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []domain.Summary `json:"data"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, 1, body.Data[0].ID)
}

func TestGetMedicationNotFoundReturns404(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/catalog/medications/999")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestValidatePrescriptionWarfarinAspirinIsBlocked(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	body := `{"id":"rx-1","patient":{},"items":[{"medication_id":1},{"medication_id":2}]}`
	resp, err := http.Post(server.URL+"/validate/prescription", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var result domain.ValidationResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.False(t, result.IsValid)
}

func TestValidatePairQueryParams(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/validate/pair?id1=1&id2=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestValidatePairRejectsNonIntegerIDs(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/validate/pair?id1=abc&id2=2")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegisterListAndDeleteWebhook(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	body := `{"name":"ops","url":"http://example.invalid/hook","secret":"s","events":["*"]}`
	resp, err := http.Post(server.URL+"/webhooks/", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))

	listResp, err := http.Get(server.URL + "/webhooks/")
	require.NoError(t, err)
	defer listResp.Body.Close()
	assert.Equal(t, http.StatusOK, listResp.StatusCode)

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/webhooks/"+created.ID, nil)
	require.NoError(t, err)
	delResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer delResp.Body.Close()
	assert.Equal(t, http.StatusNoContent, delResp.StatusCode)
}

func TestStatisticsEndpoint(t *testing.T) {
	server := newTestServer(t)
	defer server.Close()

	resp, err := http.Get(server.URL + "/statistics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
