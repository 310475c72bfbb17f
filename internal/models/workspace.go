package models

// Settings is the single per-workspace configuration object.
type Settings struct {
	GeminiAPIKey     string            `json:"geminiApiKey,omitempty"`
	AutoSave         bool              `json:"autoSave"`
	CompanyName      string            `json:"companyName,omitempty"`
	Theme            string            `json:"theme,omitempty"`
	SecondaryAPIKeys map[string]string `json:"secondaryApiKeys,omitempty"`
}

// WorkspaceState is the full persisted snapshot: the unit of persistence,
// export and import. An exported file must be re-importable bit-for-bit.
// RawMaterials is an optional fifth collection; snapshots without the key
// remain valid.
type WorkspaceState struct {
	Suppliers     []Supplier        `json:"suppliers"`
	Campaigns     []Campaign        `json:"campaigns"`
	Settings      Settings          `json:"settings"`
	Notifications []AppNotification `json:"notifications"`
	RawMaterials  []RawMaterial     `json:"rawMaterials,omitempty"`
	LastModified  int64             `json:"lastModified"` // epoch ms
	Version       string            `json:"version"`
}
