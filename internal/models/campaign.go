package models

// CampaignStatus is the lifecycle of a mass document-collection campaign.
type CampaignStatus string

const (
	CampaignDraft  CampaignStatus = "DRAFT"
	CampaignActive CampaignStatus = "ACTIVE"
	CampaignClosed CampaignStatus = "CLOSED"
)

// CampaignStats are informational counters maintained by the caller.
// They are not recomputed from supplier state.
type CampaignStats struct {
	Total    int `json:"total"`
	Received int `json:"received"`
	Pending  int `json:"pending"`
}

// Campaign is a batch outreach workflow requesting one document type from
// a set of suppliers.
type Campaign struct {
	ID                    string         `json:"id"`
	Title                 string         `json:"title"`
	TargetSupplierIDs     []string       `json:"targetSupplierIds"`
	RequestedDocumentType string         `json:"requestedDocumentType"`
	Status                CampaignStatus `json:"status"`
	Stats                 CampaignStats  `json:"stats"`
	CreatedAt             int64          `json:"createdAt,omitempty"` // epoch ms
}
