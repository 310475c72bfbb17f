package store

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/google/uuid"
)

// ExportWorkspace serializes the full workspace state, pretty-printed,
// and returns it with a date-stamped filename. The exported form is the
// persisted snapshot shape: re-importing it requires no transformation.
func (s *Store) ExportWorkspace() ([]byte, string, error) {
	s.mu.RLock()
	data, err := json.MarshalIndent(s.state, "", "  ")
	s.mu.RUnlock()
	if err != nil {
		return nil, "", fmt.Errorf("failed to serialize workspace: %w", err)
	}

	filename := fmt.Sprintf("conformis-workspace-%s.json", time.Now().Format("2006-01-02"))
	return data, filename, nil
}

// ImportWorkspace parses a snapshot file and replaces each top-level
// collection whose parsed value has the expected container shape (array
// for suppliers/campaigns/notifications, object for settings); keys with
// the wrong shape are ignored while the others still apply. Content that
// is not valid JSON returns ErrMalformedSnapshot and mutates nothing.
func (s *Store) ImportWorkspace(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedSnapshot, err)
	}

	s.mu.Lock()
	applied := 0

	if msg, ok := raw["suppliers"]; ok {
		var suppliers []models.Supplier
		if err := json.Unmarshal(msg, &suppliers); err == nil && suppliers != nil {
			for i := range suppliers {
				normalizeSupplier(&suppliers[i])
			}
			s.state.Suppliers = suppliers
			applied++
		} else {
			log.Printf("⚠️ Import: ignoring 'suppliers' key with unexpected shape")
		}
	}
	if msg, ok := raw["campaigns"]; ok {
		var campaigns []models.Campaign
		if err := json.Unmarshal(msg, &campaigns); err == nil && campaigns != nil {
			s.state.Campaigns = campaigns
			applied++
		} else {
			log.Printf("⚠️ Import: ignoring 'campaigns' key with unexpected shape")
		}
	}
	if msg, ok := raw["notifications"]; ok {
		var notifications []models.AppNotification
		if err := json.Unmarshal(msg, &notifications); err == nil && notifications != nil {
			s.state.Notifications = notifications
			applied++
		} else {
			log.Printf("⚠️ Import: ignoring 'notifications' key with unexpected shape")
		}
	}
	if msg, ok := raw["settings"]; ok {
		var settings models.Settings
		if err := json.Unmarshal(msg, &settings); err == nil && strings.HasPrefix(strings.TrimSpace(string(msg)), "{") {
			s.state.Settings = settings
			applied++
		} else {
			log.Printf("⚠️ Import: ignoring 'settings' key with unexpected shape")
		}
	}
	if msg, ok := raw["rawMaterials"]; ok {
		var materials []models.RawMaterial
		if err := json.Unmarshal(msg, &materials); err == nil && materials != nil {
			s.state.RawMaterials = materials
		}
	}

	s.pushNotification("Workspace imported", fmt.Sprintf("Workspace import applied %d collections.", applied), models.NotifSuccess)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeWorkspace)
	return nil
}

// BulkImportSuppliers merges a batch of supplier skeletons into the
// workspace, dropping rows whose name matches an existing supplier
// case-insensitively. The notification reports the requested count, not
// the count actually inserted (observed behavior, kept as-is).
func (s *Store) BulkImportSuppliers(newSuppliers []models.Supplier) int {
	s.mu.Lock()

	existing := make(map[string]bool, len(s.state.Suppliers))
	for _, sup := range s.state.Suppliers {
		existing[strings.ToLower(sup.Name)] = true
	}

	var survivors []models.Supplier
	for _, sup := range newSuppliers {
		key := strings.ToLower(sup.Name)
		if sup.Name == "" || existing[key] {
			continue
		}
		existing[key] = true
		if sup.ID == "" {
			sup.ID = uuid.New().String()
		}
		normalizeSupplier(&sup)
		survivors = append(survivors, sup)
	}

	s.state.Suppliers = append(survivors, s.state.Suppliers...)
	s.pushNotification("Suppliers imported", fmt.Sprintf("Bulk import processed %d suppliers.", len(newSuppliers)), models.NotifSuccess)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
	return len(survivors)
}

// ResetWorkspace destroys the persisted snapshot and reinitializes the
// workspace from the seed dataset. Irreversible; the HTTP layer requires
// an explicit confirmation before calling this.
func (s *Store) ResetWorkspace() error {
	s.mu.Lock()
	if err := s.backend.Delete(SnapshotKey); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("failed to clear persisted snapshot: %w", err)
	}
	s.state = seedState()
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeWorkspace)
	return nil
}
