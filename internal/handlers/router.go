package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/conformis-app/conformigo/internal/ai"
	"github.com/conformis-app/conformigo/internal/config"
	"github.com/conformis-app/conformigo/internal/middleware"
	"github.com/conformis-app/conformigo/internal/store"
	"github.com/conformis-app/conformigo/internal/utils"
	"github.com/conformis-app/conformigo/internal/websocket"
	"github.com/gorilla/mux"
)

// Router wraps the mux router with the workspace store and its collaborators.
type Router struct {
	*mux.Router
	cfg       *config.Config
	store     *store.Store
	analyzer  *ai.Analyzer
	hub       *websocket.Hub
	adminHash string
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(cfg *config.Config, st *store.Store, analyzer *ai.Analyzer, hub *websocket.Hub) *Router {
	adminHash, err := utils.HashPassword(cfg.Admin.Password)
	if err != nil {
		log.Printf("⚠️ Failed to hash admin password: %v", err)
	}

	r := &Router{
		Router:    mux.NewRouter(),
		cfg:       cfg,
		store:     st,
		analyzer:  analyzer,
		hub:       hub,
		adminHash: adminHash,
	}

	// Health check and login stay outside the auth boundary
	r.HandleFunc("/health", r.healthCheck).Methods("GET")
	r.HandleFunc("/auth/login", r.login).Methods("POST")

	// Workspace change events
	r.HandleFunc("/ws", func(w http.ResponseWriter, req *http.Request) {
		websocket.ServeWS(r.hub, w, req)
	})

	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	// Suppliers
	api.HandleFunc("/suppliers", r.listSuppliers).Methods("GET")
	api.HandleFunc("/suppliers", r.createSupplier).Methods("POST")
	api.HandleFunc("/suppliers/import", r.bulkImportSuppliers).Methods("POST")
	api.HandleFunc("/suppliers/{id}", r.getSupplier).Methods("GET")
	api.HandleFunc("/suppliers/{id}", r.updateSupplier).Methods("PATCH")
	api.HandleFunc("/suppliers/{id}/comments", r.addComment).Methods("POST")
	api.HandleFunc("/suppliers/{id}/attachments", r.addAttachment).Methods("POST")
	api.HandleFunc("/suppliers/{id}/documents", r.addDocument).Methods("POST")
	api.HandleFunc("/suppliers/{id}/documents/analyze", r.analyzeSupplierDocument).Methods("POST")
	api.HandleFunc("/suppliers/{id}/links", r.linkSecondarySupplier).Methods("POST")
	api.HandleFunc("/suppliers/{id}/non-conformities", r.addNonConformity).Methods("POST")
	api.HandleFunc("/suppliers/{id}/non-conformities/{ncId}", r.updateNonConformity).Methods("PATCH")
	api.HandleFunc("/suppliers/{id}/reception-controls", r.addReceptionControl).Methods("POST")
	api.HandleFunc("/suppliers/{id}/certificates", r.addGFSICertificate).Methods("POST")
	api.HandleFunc("/suppliers/{id}/analyses", r.addLaboratoryAnalysis).Methods("POST")
	api.HandleFunc("/suppliers/{id}/reviews", r.addAnnualReview).Methods("POST")
	api.HandleFunc("/suppliers/{id}/report", r.supplierReport).Methods("GET")

	// Campaigns
	api.HandleFunc("/campaigns", r.listCampaigns).Methods("GET")
	api.HandleFunc("/campaigns", r.createCampaign).Methods("POST")
	api.HandleFunc("/campaigns/{id}", r.updateCampaign).Methods("PATCH")

	// Raw materials
	api.HandleFunc("/materials", r.listRawMaterials).Methods("GET")
	api.HandleFunc("/materials", r.createRawMaterial).Methods("POST")
	api.HandleFunc("/materials/{id}", r.updateRawMaterial).Methods("PATCH")

	// Notifications
	api.HandleFunc("/notifications", r.listNotifications).Methods("GET")
	api.HandleFunc("/notifications/{id}/read", r.markNotificationRead).Methods("POST")
	api.HandleFunc("/notifications", r.clearNotifications).Methods("DELETE")

	// Settings
	api.HandleFunc("/settings", r.getSettings).Methods("GET")
	api.HandleFunc("/settings", r.updateSettings).Methods("PATCH")

	// Workspace lifecycle
	api.HandleFunc("/workspace/export", r.exportWorkspace).Methods("GET")
	api.HandleFunc("/workspace/import", r.importWorkspace).Methods("POST")
	api.HandleFunc("/workspace/reset", r.resetWorkspace).Methods("POST")

	// Document intelligence
	api.HandleFunc("/analysis/templates", r.listTemplates).Methods("GET")
	api.HandleFunc("/analysis/extract", r.extractDocument).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
