package models

// RiskLevel grades raw-material exposure (sanitary, fraud, food defense).
type RiskLevel string

const (
	RiskHigh   RiskLevel = "HIGH"
	RiskMedium RiskLevel = "MEDIUM"
	RiskLow    RiskLevel = "LOW"
)

// RawMaterial is a top-level ingredient/category record, referenced by
// reception controls and GFSI certificates through its id. Approved
// suppliers are weak references (supplier ids), not containment.
type RawMaterial struct {
	ID                  string    `json:"id"`
	Name                string    `json:"name"`
	Category            string    `json:"category,omitempty"`
	RiskLevel           RiskLevel `json:"riskLevel"`
	FraudVulnerability  RiskLevel `json:"fraudVulnerability"`
	FoodDefenseRisk     RiskLevel `json:"foodDefenseRisk"`
	ApprovedSupplierIDs []string  `json:"approvedSupplierIds"`
}
