package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/conformis-app/conformigo/internal/store"
	"github.com/gorilla/mux"
)

// --- Campaigns ---

func (r *Router) listCampaigns(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"campaigns": r.store.Campaigns(),
	})
}

func (r *Router) createCampaign(w http.ResponseWriter, req *http.Request) {
	var c models.Campaign
	if err := json.NewDecoder(req.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if c.Title == "" {
		respondError(w, http.StatusBadRequest, "Campaign title is required")
		return
	}
	if c.Status == "" {
		c.Status = models.CampaignDraft
	}

	created := r.store.AddCampaign(c)
	respondJSON(w, http.StatusCreated, created)
}

func (r *Router) updateCampaign(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var patch map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := r.store.UpdateCampaign(id, patch); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Update not applicable: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Campaign updated"})
}

// --- Raw materials ---

func (r *Router) listRawMaterials(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"rawMaterials": r.store.RawMaterials(),
	})
}

func (r *Router) createRawMaterial(w http.ResponseWriter, req *http.Request) {
	var m models.RawMaterial
	if err := json.NewDecoder(req.Body).Decode(&m); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if m.Name == "" {
		respondError(w, http.StatusBadRequest, "Material name is required")
		return
	}
	if m.RiskLevel == "" {
		m.RiskLevel = models.RiskMedium
	}

	created := r.store.AddRawMaterial(m)
	respondJSON(w, http.StatusCreated, created)
}

func (r *Router) updateRawMaterial(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var patch map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := r.store.UpdateRawMaterial(id, patch); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Update not applicable: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Material updated"})
}

// --- Notifications ---

func (r *Router) listNotifications(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"notifications": r.store.Notifications(),
	})
}

func (r *Router) markNotificationRead(w http.ResponseWriter, req *http.Request) {
	r.store.MarkNotificationAsRead(mux.Vars(req)["id"])
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notification read"})
}

func (r *Router) clearNotifications(w http.ResponseWriter, req *http.Request) {
	r.store.ClearNotifications()
	respondJSON(w, http.StatusOK, map[string]string{"message": "Notifications cleared"})
}

// --- Settings ---

func (r *Router) getSettings(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, r.store.Settings())
}

func (r *Router) updateSettings(w http.ResponseWriter, req *http.Request) {
	var patch map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := r.store.UpdateSettings(patch); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Update not applicable: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, r.store.Settings())
}

// --- Workspace lifecycle ---

// exportWorkspace streams the full workspace snapshot as a downloadable
// JSON file.
func (r *Router) exportWorkspace(w http.ResponseWriter, req *http.Request) {
	data, filename, err := r.store.ExportWorkspace()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to serialize workspace")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Write(data)
}

// importWorkspace replaces the whole workspace with an uploaded snapshot.
// A malformed snapshot leaves the current workspace untouched.
func (r *Router) importWorkspace(w http.ResponseWriter, req *http.Request) {
	data, err := io.ReadAll(io.LimitReader(req.Body, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unreadable request body")
		return
	}

	if err := r.store.ImportWorkspace(data); err != nil {
		if errors.Is(err, store.ErrMalformedSnapshot) {
			respondError(w, http.StatusBadRequest, "Malformed workspace snapshot")
			return
		}
		respondError(w, http.StatusInternalServerError, "Import failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Workspace imported"})
}

// resetWorkspace wipes persisted data and reinstalls the example
// workspace. The destructive intent must be spelled out in the body.
func (r *Router) resetWorkspace(w http.ResponseWriter, req *http.Request) {
	var body struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || !body.Confirm {
		respondError(w, http.StatusBadRequest, "Reset requires {\"confirm\": true}")
		return
	}

	if err := r.store.ResetWorkspace(); err != nil {
		respondError(w, http.StatusInternalServerError, "Reset failed")
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Workspace reset"})
}
