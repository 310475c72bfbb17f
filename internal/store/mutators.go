package store

import (
	"encoding/json"
	"fmt"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/google/uuid"
)

// AddSupplier normalizes the owned lists of the supplier and prepends it
// to the collection.
func (s *Store) AddSupplier(sup models.Supplier) models.Supplier {
	if sup.ID == "" {
		sup.ID = uuid.New().String()
	}
	normalizeSupplier(&sup)

	s.mu.Lock()
	s.state.Suppliers = append([]models.Supplier{sup}, s.state.Suppliers...)
	s.pushNotification("Supplier added", fmt.Sprintf("Supplier %q was added to the workspace.", sup.Name), models.NotifSuccess)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
	return sup
}

// UpdateSupplier shallow-merges a partial update into the matching
// supplier. A missing id is a no-op. The merged result is not validated
// for internal consistency; field-level correctness is the caller's job.
func (s *Store) UpdateSupplier(id string, patch map[string]interface{}) error {
	s.mu.Lock()
	idx := s.supplierIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}

	cp := s.state.Suppliers[idx]
	merged, err := shallowMerge(&cp, patch)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	sup := merged.(*models.Supplier)
	sup.ID = id // the id is not patchable
	normalizeSupplier(sup)
	s.state.Suppliers[idx] = *sup
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
	return nil
}

// AddCommentToSupplier synthesizes id and timestamp and prepends the
// comment. Newest-first ordering is a hard invariant.
func (s *Store) AddCommentToSupplier(id string, c models.Comment) {
	c.ID = uuid.New().String()
	c.CreatedAt = nowMillis()

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.Commentaries = append([]models.Comment{c}, sup.Commentaries...)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddAttachmentToSupplier synthesizes id and upload timestamp and
// prepends the attachment.
func (s *Store) AddAttachmentToSupplier(id string, att models.Attachment) {
	att.ID = uuid.New().String()
	att.UploadedAt = nowMillis()

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.Attachments = append([]models.Attachment{att}, sup.Attachments...)
		s.pushNotification("Attachment uploaded", fmt.Sprintf("File %q attached to %s.", att.Name, sup.Name), models.NotifSuccess)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddDocumentToSupplier prepends the document. A REJECTED or EXPIRED
// document escalates the supplier's overall compliance status to match;
// the escalation is one-directional, a later compliant document does not
// restore a degraded status.
func (s *Store) AddDocumentToSupplier(id string, doc models.Document) {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	if doc.CreatedAt == 0 {
		doc.CreatedAt = nowMillis()
	}

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.Documents = append([]models.Document{doc}, sup.Documents...)
		if doc.Status == models.StatusRejected || doc.Status == models.StatusExpired {
			sup.ComplianceStatus = doc.Status
		}
		s.pushNotification("Document added", fmt.Sprintf("Document %q recorded for %s.", doc.Name, sup.Name), models.NotifInfo)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// LinkSecondarySupplier adds a weak reference to another supplier.
// Idempotent: linking the same id twice keeps a single entry.
func (s *Store) LinkSecondarySupplier(id, subID string) {
	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		linked := false
		for _, existing := range sup.SecondarySuppliers {
			if existing == subID {
				linked = true
				break
			}
		}
		if !linked {
			sup.SecondarySuppliers = append(sup.SecondarySuppliers, subID)
			s.persist()
		}
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddNonConformity prepends a remediation record and surfaces a WARNING.
func (s *Store) AddNonConformity(id string, nc models.NonConformity) {
	nc.ID = uuid.New().String()
	nc.CreatedAt = nowMillis()
	if nc.Status == "" {
		nc.Status = models.NCOpen
	}

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.NonConformities = append([]models.NonConformity{nc}, sup.NonConformities...)
		s.pushNotification("Non-conformity opened", fmt.Sprintf("A %s non-conformity was recorded for %s.", nc.Severity, sup.Name), models.NotifWarning)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// UpdateNonConformity merges a partial update into a non-conformity in place.
func (s *Store) UpdateNonConformity(id, ncID string, patch map[string]interface{}) error {
	s.mu.Lock()
	idx := s.supplierIndex(id)
	if idx < 0 {
		s.mu.Unlock()
		return nil
	}
	sup := &s.state.Suppliers[idx]
	for i := range sup.NonConformities {
		if sup.NonConformities[i].ID != ncID {
			continue
		}
		cp := sup.NonConformities[i]
		merged, err := shallowMerge(&cp, patch)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		nc := merged.(*models.NonConformity)
		nc.ID = ncID
		sup.NonConformities[i] = *nc
		s.persist()
		break
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
	return nil
}

// AddReceptionControl appends the quality gate for one delivery.
// Controls are immutable once filed; there is no update operation.
func (s *Store) AddReceptionControl(id string, rc models.ReceptionControl) {
	if rc.ID == "" {
		rc.ID = uuid.New().String()
	}

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.ReceptionControls = append([]models.ReceptionControl{rc}, sup.ReceptionControls...)
		if rc.Decision == models.ReceptionRejected {
			s.pushNotification("Delivery rejected", fmt.Sprintf("Reception control rejected a delivery from %s (lot %s).", sup.Name, rc.SupplierLot), models.NotifWarning)
		}
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddGFSICertificate prepends a structured certification record.
func (s *Store) AddGFSICertificate(id string, cert models.GFSICertificate) {
	if cert.ID == "" {
		cert.ID = uuid.New().String()
	}

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.GFSICertificates = append([]models.GFSICertificate{cert}, sup.GFSICertificates...)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddLaboratoryAnalysis prepends an external lab result.
func (s *Store) AddLaboratoryAnalysis(id string, la models.LaboratoryAnalysis) {
	if la.ID == "" {
		la.ID = uuid.New().String()
	}

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.LaboratoryAnalyses = append([]models.LaboratoryAnalysis{la}, sup.LaboratoryAnalyses...)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddAnnualReview prepends a yearly requalification record.
func (s *Store) AddAnnualReview(id string, ar models.AnnualReview) {
	if ar.ID == "" {
		ar.ID = uuid.New().String()
	}

	s.mu.Lock()
	if idx := s.supplierIndex(id); idx >= 0 {
		sup := &s.state.Suppliers[idx]
		sup.AnnualReviews = append([]models.AnnualReview{ar}, sup.AnnualReviews...)
		s.persist()
	}
	s.mu.Unlock()

	s.notify(ScopeSuppliers)
}

// AddCampaign prepends a collection campaign.
func (s *Store) AddCampaign(c models.Campaign) models.Campaign {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.CreatedAt == 0 {
		c.CreatedAt = nowMillis()
	}
	if c.TargetSupplierIDs == nil {
		c.TargetSupplierIDs = []string{}
	}

	s.mu.Lock()
	s.state.Campaigns = append([]models.Campaign{c}, s.state.Campaigns...)
	s.pushNotification("Campaign created", fmt.Sprintf("Campaign %q created for %d suppliers.", c.Title, len(c.TargetSupplierIDs)), models.NotifSuccess)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeCampaigns)
	return c
}

// UpdateCampaign merges a partial update into the matching campaign.
func (s *Store) UpdateCampaign(id string, patch map[string]interface{}) error {
	s.mu.Lock()
	for i := range s.state.Campaigns {
		if s.state.Campaigns[i].ID != id {
			continue
		}
		cp := s.state.Campaigns[i]
		merged, err := shallowMerge(&cp, patch)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		c := merged.(*models.Campaign)
		c.ID = id
		s.state.Campaigns[i] = *c
		s.persist()
		break
	}
	s.mu.Unlock()

	s.notify(ScopeCampaigns)
	return nil
}

// AddRawMaterial prepends a raw-material record to the top-level collection.
func (s *Store) AddRawMaterial(m models.RawMaterial) models.RawMaterial {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	if m.ApprovedSupplierIDs == nil {
		m.ApprovedSupplierIDs = []string{}
	}

	s.mu.Lock()
	s.state.RawMaterials = append([]models.RawMaterial{m}, s.state.RawMaterials...)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeMaterials)
	return m
}

// UpdateRawMaterial merges a partial update into a raw material.
func (s *Store) UpdateRawMaterial(id string, patch map[string]interface{}) error {
	s.mu.Lock()
	for i := range s.state.RawMaterials {
		if s.state.RawMaterials[i].ID != id {
			continue
		}
		cp := s.state.RawMaterials[i]
		merged, err := shallowMerge(&cp, patch)
		if err != nil {
			s.mu.Unlock()
			return err
		}
		m := merged.(*models.RawMaterial)
		m.ID = id
		s.state.RawMaterials[i] = *m
		s.persist()
		break
	}
	s.mu.Unlock()

	s.notify(ScopeMaterials)
	return nil
}

// AddNotification synthesizes id and timestamp, marks the record unread,
// prepends it and evicts past the 50-entry cap.
func (s *Store) AddNotification(title, message string, typ models.NotificationType) {
	s.mu.Lock()
	s.pushNotification(title, message, typ)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeNotifications)
}

// MarkNotificationAsRead flips the read flag of one notification.
func (s *Store) MarkNotificationAsRead(id string) {
	s.mu.Lock()
	for i := range s.state.Notifications {
		if s.state.Notifications[i].ID == id {
			s.state.Notifications[i].IsRead = true
			s.persist()
			break
		}
	}
	s.mu.Unlock()

	s.notify(ScopeNotifications)
}

// ClearNotifications removes all activity records.
func (s *Store) ClearNotifications() {
	s.mu.Lock()
	s.state.Notifications = []models.AppNotification{}
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeNotifications)
}

// UpdateSettings shallow-merges a partial update into the settings object.
func (s *Store) UpdateSettings(patch map[string]interface{}) error {
	s.mu.Lock()
	cp := s.state.Settings
	merged, err := shallowMerge(&cp, patch)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.state.Settings = *merged.(*models.Settings)
	s.persist()
	s.mu.Unlock()

	s.notify(ScopeSettings)
	return nil
}

// supplierIndex returns the position of a supplier, -1 if absent.
// Must be called with the lock held.
func (s *Store) supplierIndex(id string) int {
	for i := range s.state.Suppliers {
		if s.state.Suppliers[i].ID == id {
			return i
		}
	}
	return -1
}

// shallowMerge overlays patch keys onto the JSON form of target and
// decodes the result back into the same type. target must be a pointer;
// the returned value is a pointer of the same type. This mirrors the
// spread-style partial updates of the original workspace contract.
func shallowMerge(target interface{}, patch map[string]interface{}) (interface{}, error) {
	raw, err := json.Marshal(target)
	if err != nil {
		return nil, fmt.Errorf("failed to encode record for merge: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("failed to decode record for merge: %w", err)
	}
	for k, v := range patch {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to encode merged record: %w", err)
	}
	if err := json.Unmarshal(merged, target); err != nil {
		return nil, fmt.Errorf("merged record does not fit the target type: %w", err)
	}
	return target, nil
}
