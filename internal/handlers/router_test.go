package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/conformis-app/conformigo/internal/ai"
	"github.com/conformis-app/conformigo/internal/config"
	"github.com/conformis-app/conformigo/internal/storage"
	"github.com/conformis-app/conformigo/internal/store"
	"github.com/conformis-app/conformigo/internal/websocket"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()

	cfg := &config.Config{
		Port:      "0",
		JWTSecret: "test-secret",
		Admin: config.AdminConfig{
			Email:    "admin@conformis.local",
			Password: "changeme",
		},
	}

	backend, err := storage.NewFileBackend(t.TempDir(), 0)
	if err != nil {
		t.Fatalf("Failed to create backend: %v", err)
	}
	st := store.New(backend)
	if err := st.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}

	hub := websocket.NewHub()
	go hub.Run()

	return NewRouter(cfg, st, ai.NewAnalyzer("test-model"), hub)
}

// loginToken authenticates with the bootstrap admin and returns a token.
func loginToken(t *testing.T, r *Router) string {
	t.Helper()

	body := bytes.NewBufferString(`{"email": "admin@conformis.local", "password": "changeme"}`)
	req := httptest.NewRequest("POST", "/auth/login", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Login failed with status %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unparsable login response: %v", err)
	}
	return resp.Token
}

func authedRequest(t *testing.T, r *Router, method, path, token string, body []byte) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthCheck(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected 200, got %d", w.Code)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r := newTestRouter(t)

	body := bytes.NewBufferString(`{"email": "admin@conformis.local", "password": "wrong"}`)
	req := httptest.NewRequest("POST", "/auth/login", body)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401, got %d", w.Code)
	}
}

func TestAPIRequiresToken(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest("GET", "/api/suppliers", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("Expected 401 without token, got %d", w.Code)
	}
}

func TestSupplierLifecycle(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	// Create
	w := authedRequest(t, r, "POST", "/api/suppliers", token,
		[]byte(`{"name": "Moulins Réunis", "country": "France"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("Create failed with %d: %s", w.Code, w.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &created); err != nil || created.ID == "" {
		t.Fatalf("Create response has no id: %s", w.Body.String())
	}

	// Read back
	w = authedRequest(t, r, "GET", "/api/suppliers/"+created.ID, token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Get failed with %d", w.Code)
	}

	// Partial update
	w = authedRequest(t, r, "PATCH", "/api/suppliers/"+created.ID, token,
		[]byte(`{"riskScore": 80}`))
	if w.Code != http.StatusOK {
		t.Fatalf("Update failed with %d: %s", w.Code, w.Body.String())
	}
	var updated struct {
		RiskScore int    `json:"riskScore"`
		Country   string `json:"country"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &updated); err != nil {
		t.Fatalf("Unparsable update response: %v", err)
	}
	if updated.RiskScore != 80 || updated.Country != "France" {
		t.Errorf("Partial update went wrong: %+v", updated)
	}

	// Missing supplier
	w = authedRequest(t, r, "GET", "/api/suppliers/nope", token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown supplier, got %d", w.Code)
	}
}

func TestCreateSupplierValidation(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := authedRequest(t, r, "POST", "/api/suppliers", token, []byte(`{"country": "France"}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Nameless supplier should be rejected, got %d", w.Code)
	}

	w = authedRequest(t, r, "POST", "/api/suppliers", token, []byte(`not json`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Invalid JSON should be rejected, got %d", w.Code)
	}
}

func TestWorkspaceExportDownload(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := authedRequest(t, r, "GET", "/api/workspace/export", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Export failed with %d", w.Code)
	}
	if cd := w.Header().Get("Content-Disposition"); cd == "" {
		t.Error("Export should set Content-Disposition")
	}

	var state map[string]json.RawMessage
	if err := json.Unmarshal(w.Body.Bytes(), &state); err != nil {
		t.Fatalf("Export body is not JSON: %v", err)
	}
	for _, key := range []string{"suppliers", "campaigns", "settings", "notifications"} {
		if _, ok := state[key]; !ok {
			t.Errorf("Export missing top-level key %q", key)
		}
	}
}

func TestWorkspaceImportRejectsMalformed(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := authedRequest(t, r, "POST", "/api/workspace/import", token, []byte("{broken"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Malformed import should return 400, got %d", w.Code)
	}
}

func TestWorkspaceResetRequiresConfirmation(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := authedRequest(t, r, "POST", "/api/workspace/reset", token, []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Errorf("Unconfirmed reset should return 400, got %d", w.Code)
	}

	w = authedRequest(t, r, "POST", "/api/workspace/reset", token, []byte(`{"confirm": true}`))
	if w.Code != http.StatusOK {
		t.Errorf("Confirmed reset should succeed, got %d: %s", w.Code, w.Body.String())
	}
}

func TestListTemplates(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := authedRequest(t, r, "GET", "/api/analysis/templates", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Template listing failed with %d", w.Code)
	}

	var resp struct {
		Templates []struct {
			ID string `json:"id"`
		} `json:"templates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unparsable response: %v", err)
	}
	if len(resp.Templates) < 3 {
		t.Errorf("Expected at least 3 templates, got %d", len(resp.Templates))
	}
}

func TestExtractDocumentWithoutCredentials(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("templateId", "ifs_certificate")
	mw.WriteField("text", "IFS Food certificate, score 94%")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/analysis/extract", &buf)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnprocessableEntity {
		t.Errorf("Missing API key should return 422, got %d: %s", w.Code, w.Body.String())
	}
}

func TestSupplierReportDownload(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	w := authedRequest(t, r, "GET", "/api/suppliers/sup-demo-001/report", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Report failed with %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected PDF content type, got %s", ct)
	}
	if !bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")) {
		t.Error("Report body should be a PDF document")
	}
}

func TestNotificationEndpoints(t *testing.T) {
	r := newTestRouter(t)
	token := loginToken(t, r)

	// A supplier creation surfaces an activity record.
	authedRequest(t, r, "POST", "/api/suppliers", token, []byte(`{"name": "Moulins Réunis"}`))

	w := authedRequest(t, r, "GET", "/api/notifications", token, nil)
	var resp struct {
		Notifications []struct {
			ID     string `json:"id"`
			IsRead bool   `json:"isRead"`
		} `json:"notifications"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("Unparsable response: %v", err)
	}
	if len(resp.Notifications) == 0 {
		t.Fatal("Expected at least one notification")
	}

	id := resp.Notifications[0].ID
	w = authedRequest(t, r, "POST", fmt.Sprintf("/api/notifications/%s/read", id), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Mark read failed with %d", w.Code)
	}

	w = authedRequest(t, r, "DELETE", "/api/notifications", token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("Clear failed with %d", w.Code)
	}
}
