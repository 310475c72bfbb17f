package store

import "github.com/conformis-app/conformigo/internal/models"

// seedState is the workspace a fresh (or unrecoverable) installation
// starts from: one example supplier and default settings.
func seedState() models.WorkspaceState {
	esg := 72
	seedSupplier := models.Supplier{
		ID:               "sup-demo-001",
		Name:             "Laiterie des Monts",
		Country:          "France",
		Email:            "qualite@laiteriedesmonts.example",
		Phone:            "+33 4 50 00 00 00",
		RiskScore:        35,
		ESGScore:         &esg,
		ComplianceStatus: models.StatusPending,
		OnboardingStep:   models.StepDocsPending,
		ApprovalStatus:   models.ApprovalPendingDocs,
		Documents: []models.Document{
			{
				ID:         "doc-demo-001",
				Name:       "IFS Food Certificate",
				Type:       "IFS_CERTIFICATE",
				ExpiryDate: "2026-11-30",
				Status:     models.StatusCompliant,
				Issuer:     "Bureau Veritas",
			},
		},
		Products: []models.Product{
			{ID: "prod-demo-001", Name: "Skimmed milk powder", Category: "Dairy"},
		},
		Contacts: []models.Contact{
			{Name: "Claire Dubois", Role: "Quality Manager", Email: "c.dubois@laiteriedesmonts.example"},
		},
	}
	normalizeSupplier(&seedSupplier)

	return models.WorkspaceState{
		Suppliers:     []models.Supplier{seedSupplier},
		Campaigns:     []models.Campaign{},
		Settings:      defaultSettings(),
		Notifications: []models.AppNotification{},
		RawMaterials:  []models.RawMaterial{},
		Version:       SnapshotVersion,
	}
}

func defaultSettings() models.Settings {
	return models.Settings{
		AutoSave:    true,
		CompanyName: "My Company",
		Theme:       "light",
	}
}
