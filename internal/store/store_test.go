package store

import (
	"fmt"
	"testing"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/conformis-app/conformigo/internal/storage"
)

// memBackend is an in-memory snapshot backend for tests. Setting
// saveErr makes every Save fail with that error.
type memBackend struct {
	blobs   map[string][]byte
	saveErr error
	saves   int
}

func newMemBackend() *memBackend {
	return &memBackend{blobs: map[string][]byte{}}
}

func (m *memBackend) Load(key string) ([]byte, error) {
	data, ok := m.blobs[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return data, nil
}

func (m *memBackend) Save(key string, data []byte) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	cp := make([]byte, len(data))
	copy(cp, data)
	m.blobs[key] = cp
	return nil
}

func (m *memBackend) Delete(key string) error {
	delete(m.blobs, key)
	return nil
}

func newTestStore(t *testing.T) (*Store, *memBackend) {
	t.Helper()
	backend := newMemBackend()
	s := New(backend)
	if err := s.Load(); err != nil {
		t.Fatalf("Failed to load store: %v", err)
	}
	return s, backend
}

func TestLoadSeedsEmptyBackend(t *testing.T) {
	s, _ := newTestStore(t)

	suppliers := s.Suppliers()
	if len(suppliers) != 1 {
		t.Fatalf("Expected 1 seed supplier, got %d", len(suppliers))
	}
	if suppliers[0].Name != "Laiterie des Monts" {
		t.Errorf("Unexpected seed supplier name: %s", suppliers[0].Name)
	}
	if !s.Settings().AutoSave {
		t.Error("Default settings should enable auto-save")
	}
}

func TestLoadDegradedSnapshot(t *testing.T) {
	backend := newMemBackend()
	backend.blobs[SnapshotKey] = []byte(`{"settings":{"companyName":"ACME Foods"}}`)

	s := New(backend)
	if err := s.Load(); err != nil {
		t.Fatalf("Failed to load degraded snapshot: %v", err)
	}

	// The present key applies, the absent collections fall back to seed.
	if got := s.Settings().CompanyName; got != "ACME Foods" {
		t.Errorf("Expected company name from snapshot, got %q", got)
	}
	if len(s.Suppliers()) != 1 {
		t.Errorf("Missing suppliers key should fall back to seed, got %d suppliers", len(s.Suppliers()))
	}
}

func TestLoadUnparsableSnapshotFallsBackToSeed(t *testing.T) {
	backend := newMemBackend()
	backend.blobs[SnapshotKey] = []byte("{not json at all")

	s := New(backend)
	if err := s.Load(); err != nil {
		t.Fatalf("Unparsable snapshot should not fail Load: %v", err)
	}
	if len(s.Suppliers()) != 1 {
		t.Errorf("Expected seed fallback, got %d suppliers", len(s.Suppliers()))
	}
}

func TestAddSupplierNormalizesAndPrepends(t *testing.T) {
	s, backend := newTestStore(t)

	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis"})
	if created.ID == "" {
		t.Error("AddSupplier should synthesize an id")
	}
	if created.Documents == nil || created.Commentaries == nil || created.NonConformities == nil {
		t.Error("Owned lists should be initialized to empty slices")
	}
	if created.IndustrialInfo == nil {
		t.Error("Industrial info should be initialized to an empty map")
	}

	suppliers := s.Suppliers()
	if suppliers[0].Name != "Moulins Réunis" {
		t.Errorf("New supplier should be first, got %s", suppliers[0].Name)
	}
	if backend.saves == 0 {
		t.Error("Mutation should persist a snapshot")
	}
}

func TestUpdateSupplierMergesPartial(t *testing.T) {
	s, _ := newTestStore(t)
	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis", Country: "France", RiskScore: 40})

	err := s.UpdateSupplier(created.ID, map[string]interface{}{
		"riskScore": 75,
		"id":        "evil-id",
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	sup, ok := s.Supplier(created.ID)
	if !ok {
		t.Fatal("Supplier vanished after update")
	}
	if sup.RiskScore != 75 {
		t.Errorf("Expected risk score 75, got %d", sup.RiskScore)
	}
	if sup.Country != "France" {
		t.Errorf("Untouched fields should survive the merge, got country %q", sup.Country)
	}
}

func TestUpdateSupplierRejectsBadPatch(t *testing.T) {
	s, _ := newTestStore(t)
	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis", RiskScore: 40})

	err := s.UpdateSupplier(created.ID, map[string]interface{}{
		"riskScore": "not a number",
	})
	if err == nil {
		t.Fatal("Type-incompatible patch should fail")
	}

	sup, _ := s.Supplier(created.ID)
	if sup.RiskScore != 40 {
		t.Errorf("Failed update should not mutate the record, got risk score %d", sup.RiskScore)
	}
}

func TestCommentOrderingNewestFirst(t *testing.T) {
	s, _ := newTestStore(t)
	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis"})

	s.AddCommentToSupplier(created.ID, models.Comment{Text: "first", Author: "qa"})
	s.AddCommentToSupplier(created.ID, models.Comment{Text: "second", Author: "qa"})

	sup, _ := s.Supplier(created.ID)
	if len(sup.Commentaries) != 2 {
		t.Fatalf("Expected 2 comments, got %d", len(sup.Commentaries))
	}
	if sup.Commentaries[0].Text != "second" {
		t.Errorf("Newest comment should be first, got %q", sup.Commentaries[0].Text)
	}
	if sup.Commentaries[0].ID == "" || sup.Commentaries[0].CreatedAt == 0 {
		t.Error("Comment id and timestamp should be synthesized")
	}
}

func TestDocumentStatusEscalationOneWay(t *testing.T) {
	s, _ := newTestStore(t)
	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis", ComplianceStatus: models.StatusCompliant})

	s.AddDocumentToSupplier(created.ID, models.Document{Name: "audit.pdf", Type: "AUDIT", Status: models.StatusRejected})
	sup, _ := s.Supplier(created.ID)
	if sup.ComplianceStatus != models.StatusRejected {
		t.Errorf("Rejected document should escalate supplier status, got %s", sup.ComplianceStatus)
	}

	// A later compliant document must not restore the degraded status.
	s.AddDocumentToSupplier(created.ID, models.Document{Name: "cert.pdf", Type: "IFS_CERTIFICATE", Status: models.StatusCompliant})
	sup, _ = s.Supplier(created.ID)
	if sup.ComplianceStatus != models.StatusRejected {
		t.Errorf("Compliant document should not restore status, got %s", sup.ComplianceStatus)
	}
}

func TestLinkSecondarySupplierIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddSupplier(models.Supplier{Name: "A"})
	b := s.AddSupplier(models.Supplier{Name: "B"})

	s.LinkSecondarySupplier(a.ID, b.ID)
	s.LinkSecondarySupplier(a.ID, b.ID)

	sup, _ := s.Supplier(a.ID)
	if len(sup.SecondarySuppliers) != 1 {
		t.Errorf("Duplicate link should be a no-op, got %d entries", len(sup.SecondarySuppliers))
	}
}

func TestNotificationCapEvictsOldest(t *testing.T) {
	s, _ := newTestStore(t)

	for i := 0; i < maxNotifications+5; i++ {
		s.AddNotification(fmt.Sprintf("event %d", i), "msg", models.NotifInfo)
	}

	notifications := s.Notifications()
	if len(notifications) != maxNotifications {
		t.Fatalf("Expected %d notifications, got %d", maxNotifications, len(notifications))
	}
	if notifications[0].Title != fmt.Sprintf("event %d", maxNotifications+4) {
		t.Errorf("Newest notification should be first, got %q", notifications[0].Title)
	}
}

func TestMarkNotificationAsRead(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddNotification("hello", "msg", models.NotifInfo)

	id := s.Notifications()[0].ID
	s.MarkNotificationAsRead(id)

	if !s.Notifications()[0].IsRead {
		t.Error("Notification should be marked read")
	}
}

func TestStorageExhaustedDegradesToNotification(t *testing.T) {
	s, backend := newTestStore(t)
	backend.saveErr = storage.ErrStorageExhausted

	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis"})

	// The mutation is kept in memory.
	if _, ok := s.Supplier(created.ID); !ok {
		t.Fatal("Rejected persist should not roll back the mutation")
	}

	notifications := s.Notifications()
	if len(notifications) == 0 {
		t.Fatal("Expected a storage-saturation notification")
	}
	if notifications[0].Type != models.NotifError {
		t.Errorf("Expected ERROR notification first, got %s", notifications[0].Type)
	}
}

func TestSubscribeReceivesEvents(t *testing.T) {
	s, _ := newTestStore(t)

	var events []Event
	s.Subscribe(func(ev Event) {
		events = append(events, ev)
	})

	s.AddSupplier(models.Supplier{Name: "Moulins Réunis"})
	s.AddCampaign(models.Campaign{Title: "Collecte IFS 2026"})

	if len(events) != 2 {
		t.Fatalf("Expected 2 events, got %d", len(events))
	}
	if events[0].Scope != ScopeSuppliers || events[1].Scope != ScopeCampaigns {
		t.Errorf("Unexpected event scopes: %v", events)
	}
}

func TestAccessorsReturnCopies(t *testing.T) {
	s, _ := newTestStore(t)
	created := s.AddSupplier(models.Supplier{Name: "Moulins Réunis"})

	suppliers := s.Suppliers()
	suppliers[0].Name = "mutated"

	sup, _ := s.Supplier(created.ID)
	if sup.Name != "Moulins Réunis" {
		t.Error("Mutating a returned slice should not touch store state")
	}
}
