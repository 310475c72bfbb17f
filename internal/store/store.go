// Package store owns the canonical workspace collections (suppliers,
// campaigns, settings, notifications, raw materials) and their
// persistence lifecycle against a single snapshot blob.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/conformis-app/conformigo/internal/storage"
	"github.com/google/uuid"
)

const (
	// SnapshotKey is the fixed storage key of the workspace blob.
	SnapshotKey = "conformis_workspace"

	// SnapshotVersion tags newly written snapshots. Older tags are
	// accepted as-is on load; there is no migration logic.
	SnapshotVersion = "2.0"

	maxNotifications = 50
)

// ErrMalformedSnapshot is returned by ImportWorkspace when the file
// content does not decode as JSON. No mutation is applied in that case.
var ErrMalformedSnapshot = errors.New("workspace snapshot is not valid JSON")

// EventScope names the collection a store event refers to.
type EventScope string

const (
	ScopeSuppliers     EventScope = "suppliers"
	ScopeCampaigns     EventScope = "campaigns"
	ScopeNotifications EventScope = "notifications"
	ScopeSettings      EventScope = "settings"
	ScopeMaterials     EventScope = "rawMaterials"
	ScopeWorkspace     EventScope = "workspace"
)

// Event is pushed to subscribers after each committed mutation.
type Event struct {
	Scope EventScope `json:"scope"`
}

// Store is the single source of truth for the workspace. All mutators
// serialize and overwrite the full snapshot; if the backend rejects the
// write the in-memory state stays authoritative and an ERROR
// notification is surfaced instead.
type Store struct {
	mu          sync.RWMutex
	state       models.WorkspaceState
	backend     storage.Backend
	subscribers []func(Event)
}

// New creates a store bound to a snapshot backend. Call Load before use.
func New(backend storage.Backend) *Store {
	return &Store{backend: backend}
}

// Subscribe registers an observer invoked after every committed
// mutation. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Event)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Load reads the persisted snapshot. A missing or unparsable snapshot
// falls back to the seed dataset and default settings; a partial
// snapshot keeps what it has and defaults the rest. Load never fails
// on bad content, only on backend I/O errors other than not-found.
func (s *Store) Load() error {
	data, err := s.backend.Load(SnapshotKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			log.Println("📂 No workspace snapshot found, seeding default workspace")
			s.adopt(seedState())
			return nil
		}
		return fmt.Errorf("failed to read workspace snapshot: %w", err)
	}

	// Pointer fields distinguish "key absent" from "key empty" so a
	// degraded snapshot keeps whichever collections it still has.
	var snap struct {
		Suppliers     *[]models.Supplier        `json:"suppliers"`
		Campaigns     *[]models.Campaign        `json:"campaigns"`
		Settings      *models.Settings          `json:"settings"`
		Notifications *[]models.AppNotification `json:"notifications"`
		RawMaterials  *[]models.RawMaterial     `json:"rawMaterials"`
		Version       string                    `json:"version"`
	}
	if err := json.Unmarshal(data, &snap); err != nil {
		log.Printf("⚠️ Workspace snapshot is unparsable, falling back to seed: %v", err)
		s.adopt(seedState())
		return nil
	}

	state := seedState()
	if snap.Suppliers != nil {
		state.Suppliers = *snap.Suppliers
		for i := range state.Suppliers {
			normalizeSupplier(&state.Suppliers[i])
		}
	}
	if snap.Campaigns != nil {
		state.Campaigns = *snap.Campaigns
	}
	if snap.Settings != nil {
		state.Settings = *snap.Settings
	}
	if snap.Notifications != nil {
		state.Notifications = *snap.Notifications
	}
	if snap.RawMaterials != nil {
		state.RawMaterials = *snap.RawMaterials
	}
	if snap.Version != "" {
		state.Version = snap.Version
	}

	s.adopt(state)
	return nil
}

func (s *Store) adopt(state models.WorkspaceState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// persist serializes the full state and overwrites the snapshot. Must be
// called with the write lock held. A capacity rejection degrades to an
// in-memory ERROR notification; the mutation itself is never rolled back.
func (s *Store) persist() {
	s.state.LastModified = nowMillis()
	s.state.Version = SnapshotVersion

	data, err := json.Marshal(s.state)
	if err != nil {
		log.Printf("❌ Failed to serialize workspace state: %v", err)
		return
	}

	if err := s.backend.Save(SnapshotKey, data); err != nil {
		if errors.Is(err, storage.ErrStorageExhausted) {
			log.Printf("⚠️ Snapshot write rejected, storage saturated: %v", err)
			s.pushNotification("Storage saturated",
				"The workspace could not be saved: storage capacity is exhausted. Changes are kept in memory only.",
				models.NotifError)
			return
		}
		log.Printf("❌ Failed to persist workspace snapshot: %v", err)
	}
}

// notify fans an event out to subscribers. Must be called without the lock.
func (s *Store) notify(scope EventScope) {
	s.mu.RLock()
	subs := make([]func(Event), len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.RUnlock()

	for _, fn := range subs {
		fn(Event{Scope: scope})
	}
}

// pushNotification prepends an activity record and truncates the list to
// the 50 most recent entries. Must be called with the write lock held.
func (s *Store) pushNotification(title, message string, typ models.NotificationType) {
	n := models.AppNotification{
		ID:        uuid.New().String(),
		Title:     title,
		Message:   message,
		Type:      typ,
		IsRead:    false,
		Timestamp: nowMillis(),
	}
	s.state.Notifications = append([]models.AppNotification{n}, s.state.Notifications...)
	if len(s.state.Notifications) > maxNotifications {
		s.state.Notifications = s.state.Notifications[:maxNotifications]
	}
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}

// normalizeSupplier defaults every owned list to an empty slice and the
// industrial-info object to an empty map, so downstream rendering and
// filtering stay total functions.
func normalizeSupplier(sup *models.Supplier) {
	if sup.Documents == nil {
		sup.Documents = []models.Document{}
	}
	if sup.Products == nil {
		sup.Products = []models.Product{}
	}
	if sup.Commentaries == nil {
		sup.Commentaries = []models.Comment{}
	}
	if sup.Contacts == nil {
		sup.Contacts = []models.Contact{}
	}
	if sup.Attachments == nil {
		sup.Attachments = []models.Attachment{}
	}
	if sup.NonConformities == nil {
		sup.NonConformities = []models.NonConformity{}
	}
	if sup.IndustrialInfo == nil {
		sup.IndustrialInfo = map[string]interface{}{}
	}
}

// Accessors. All return copies so callers cannot mutate store state.

// Suppliers returns the supplier collection, newest first.
func (s *Store) Suppliers() []models.Supplier {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Supplier, len(s.state.Suppliers))
	copy(out, s.state.Suppliers)
	return out
}

// Supplier returns one supplier by id.
func (s *Store) Supplier(id string) (models.Supplier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, sup := range s.state.Suppliers {
		if sup.ID == id {
			return sup, true
		}
	}
	return models.Supplier{}, false
}

// Campaigns returns the campaign collection, newest first.
func (s *Store) Campaigns() []models.Campaign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Campaign, len(s.state.Campaigns))
	copy(out, s.state.Campaigns)
	return out
}

// Notifications returns the activity records, newest first.
func (s *Store) Notifications() []models.AppNotification {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.AppNotification, len(s.state.Notifications))
	copy(out, s.state.Notifications)
	return out
}

// Settings returns the workspace settings object.
func (s *Store) Settings() models.Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Settings
}

// RawMaterials returns the raw-material collection.
func (s *Store) RawMaterials() []models.RawMaterial {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.RawMaterial, len(s.state.RawMaterials))
	copy(out, s.state.RawMaterials)
	return out
}

// State returns a deep copy of the full workspace state.
func (s *Store) State() models.WorkspaceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Round-tripping through JSON is the simplest faithful deep copy for
	// a state that is JSON-shaped by contract.
	data, err := json.Marshal(s.state)
	if err != nil {
		return s.state
	}
	var out models.WorkspaceState
	if err := json.Unmarshal(data, &out); err != nil {
		return s.state
	}
	return out
}
