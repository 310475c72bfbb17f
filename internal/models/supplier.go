package models

// ComplianceStatus is the coarse conformity classification of a supplier
// or one of its documents.
type ComplianceStatus string

const (
	StatusCompliant    ComplianceStatus = "COMPLIANT"
	StatusPending      ComplianceStatus = "PENDING"
	StatusExpired      ComplianceStatus = "EXPIRED"
	StatusRejected     ComplianceStatus = "REJECTED"
	StatusNonCompliant ComplianceStatus = "NON_COMPLIANT"
)

// OnboardingStep tracks where a supplier sits in the onboarding funnel.
type OnboardingStep string

const (
	StepNew         OnboardingStep = "NEW"
	StepDocsPending OnboardingStep = "DOCS_PENDING"
	StepReview      OnboardingStep = "REVIEW"
	StepValidated   OnboardingStep = "VALIDATED"
)

// ApprovalStatus is the certification-workflow state, separate from onboarding.
type ApprovalStatus string

const (
	ApprovalNew                 ApprovalStatus = "NEW"
	ApprovalPendingDocs         ApprovalStatus = "PENDING_DOCS"
	ApprovalUnderReview         ApprovalStatus = "UNDER_REVIEW"
	ApprovalApproved            ApprovalStatus = "APPROVED"
	ApprovalApprovedConditional ApprovalStatus = "APPROVED_CONDITIONAL"
	ApprovalRejected            ApprovalStatus = "REJECTED"
)

// Supplier is the root aggregate of the workspace. Owned lists (documents,
// products, commentaries, contacts, attachments, nonConformities) must never
// serialize as null; the store normalizes them to empty slices on insert.
// SecondarySuppliers holds ids of other suppliers, a non-owning association.
type Supplier struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Address string `json:"address,omitempty"`

	RiskScore int  `json:"riskScore"` // 0-100
	ESGScore  *int `json:"esgScore,omitempty"`

	ComplianceStatus ComplianceStatus `json:"complianceStatus"`
	OnboardingStep   OnboardingStep   `json:"onboardingStep"`
	ApprovalStatus   ApprovalStatus   `json:"approvalStatus,omitempty"`

	Documents       []Document      `json:"documents"`
	Products        []Product       `json:"products"`
	Commentaries    []Comment       `json:"commentaries"`
	Contacts        []Contact       `json:"contacts"`
	Attachments     []Attachment    `json:"attachments"`
	NonConformities []NonConformity `json:"nonConformities"`

	GFSICertificates   []GFSICertificate    `json:"gfsiCertificates,omitempty"`
	ReceptionControls  []ReceptionControl   `json:"receptionControls,omitempty"`
	LaboratoryAnalyses []LaboratoryAnalysis `json:"laboratoryAnalyses,omitempty"`
	AnnualReviews      []AnnualReview       `json:"annualReviews,omitempty"`

	SecondarySuppliers []string               `json:"secondarySuppliers,omitempty"`
	IndustrialInfo     map[string]interface{} `json:"industrialInfo"`
}

// Document is a compliance artifact attached to a supplier, created either
// manually or by the document-intelligence flow.
type Document struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Type            string           `json:"type"`
	ExpiryDate      string           `json:"expiryDate,omitempty"` // YYYY-MM-DD
	Status          ComplianceStatus `json:"status"`
	Issuer          string           `json:"issuer,omitempty"`
	RiskAnalysis    string           `json:"riskAnalysis,omitempty"`
	ConfidenceScore *float64         `json:"confidenceScore,omitempty"`
	CreatedAt       int64            `json:"createdAt,omitempty"` // epoch ms
}

// Product is an article a supplier delivers.
type Product struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category,omitempty"`
}

// Comment is a free-text note on a supplier, newest first.
type Comment struct {
	ID        string `json:"id"`
	Author    string `json:"author,omitempty"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"` // epoch ms
}

// Contact is a named person at the supplier.
type Contact struct {
	Name  string `json:"name"`
	Role  string `json:"role,omitempty"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Attachment is an uploaded file kept with the supplier record.
type Attachment struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	MimeType   string `json:"mimeType,omitempty"`
	Size       int64  `json:"size,omitempty"`
	Data       string `json:"data,omitempty"` // base64 payload
	UploadedAt int64  `json:"uploadedAt"`     // epoch ms
}

// Severity grades a non-conformity.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// NCStatus is the remediation state of a non-conformity.
type NCStatus string

const (
	NCOpen       NCStatus = "OPEN"
	NCInProgress NCStatus = "IN_PROGRESS"
	NCResolved   NCStatus = "RESOLVED"
)

// NonConformity is a recorded deviation requiring remediation. Created
// automatically when an analyzed document comes back REJECTED or EXPIRED,
// or manually.
type NonConformity struct {
	ID          string   `json:"id"`
	Severity    Severity `json:"severity"`
	Status      NCStatus `json:"status"`
	DueDate     string   `json:"dueDate,omitempty"` // YYYY-MM-DD
	Description string   `json:"description"`
	CreatedAt   int64    `json:"createdAt"` // epoch ms
}

// GFSIScheme identifies the certification scheme of a GFSI certificate.
type GFSIScheme string

const (
	SchemeIFS       GFSIScheme = "IFS"
	SchemeBRCGS     GFSIScheme = "BRCGS"
	SchemeFSSC22000 GFSIScheme = "FSSC22000"
	SchemeISO22000  GFSIScheme = "ISO22000"
	SchemeOther     GFSIScheme = "OTHER"
)

// GFSICertificate is a structured certification record, usually filled from
// the extraction result of the document-intelligence flow.
type GFSICertificate struct {
	ID                   string                 `json:"id"`
	Type                 GFSIScheme             `json:"type"`
	MaterialID           string                 `json:"materialId,omitempty"`
	ValidFrom            string                 `json:"validFrom,omitempty"`  // YYYY-MM-DD
	ValidUntil           string                 `json:"validUntil,omitempty"` // YYYY-MM-DD
	Score                float64                `json:"score,omitempty"`
	MajorNonConformities int                    `json:"majorNonConformities"`
	MinorNonConformities int                    `json:"minorNonConformities"`
	ExtractedData        map[string]interface{} `json:"extractedData,omitempty"`
}

// ReceptionDecision closes a reception control.
type ReceptionDecision string

const (
	ReceptionAccepted            ReceptionDecision = "ACCEPTED"
	ReceptionAcceptedConditional ReceptionDecision = "ACCEPTED_CONDITIONAL"
	ReceptionRejected            ReceptionDecision = "REJECTED"
)

// DocumentaryChecks are the paperwork gates of a reception control.
type DocumentaryChecks struct {
	DeliveryNote bool `json:"deliveryNote"`
	Certificate  bool `json:"certificate"`
	Labelling    bool `json:"labelling"`
}

// PhysicalChecks are the on-dock inspection gates of a reception control.
type PhysicalChecks struct {
	Temperature      float64 `json:"temperature"`
	TemperatureLimit float64 `json:"temperatureLimit"`
	Visual           bool    `json:"visual"`
	Smell            bool    `json:"smell"`
	Packaging        bool    `json:"packaging"`
}

// ReceptionControl is the quality gate filed for one incoming delivery.
// Controls are append-only: corrections are filed as a new control.
type ReceptionControl struct {
	ID                string            `json:"id"`
	Date              string            `json:"date"` // YYYY-MM-DD
	MaterialID        string            `json:"materialId,omitempty"`
	InternalLot       string            `json:"internalLot,omitempty"`
	SupplierLot       string            `json:"supplierLot,omitempty"`
	Quantity          float64           `json:"quantity"`
	Unit              string            `json:"unit,omitempty"`
	DocumentaryChecks DocumentaryChecks `json:"documentaryChecks"`
	PhysicalChecks    PhysicalChecks    `json:"physicalChecks"`
	Decision          ReceptionDecision `json:"decision"`
}

// LaboratoryAnalysis records an external lab result for a delivered lot.
type LaboratoryAnalysis struct {
	ID         string `json:"id"`
	Date       string `json:"date"` // YYYY-MM-DD
	Laboratory string `json:"laboratory,omitempty"`
	Parameter  string `json:"parameter,omitempty"`
	Result     string `json:"result,omitempty"`
	Unit       string `json:"unit,omitempty"`
	Compliant  bool   `json:"compliant"`
}

// AnnualReview is the yearly requalification of a supplier.
type AnnualReview struct {
	ID         string  `json:"id"`
	Year       int     `json:"year"`
	Date       string  `json:"date,omitempty"` // YYYY-MM-DD
	Score      float64 `json:"score,omitempty"`
	Conclusion string  `json:"conclusion,omitempty"`
	Reviewer   string  `json:"reviewer,omitempty"`
}
