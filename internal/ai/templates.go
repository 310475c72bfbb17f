package ai

import (
	"fmt"
	"sort"
)

// FieldType declares the expected primitive type of an extraction point.
type FieldType string

const (
	FieldString  FieldType = "string"
	FieldNumber  FieldType = "number"
	FieldDate    FieldType = "date"
	FieldArray   FieldType = "array"
	FieldBoolean FieldType = "boolean"
)

// Criticality tags how much a missing extraction point matters.
type Criticality string

const (
	CriticalityHigh   Criticality = "high"
	CriticalityMedium Criticality = "medium"
	CriticalityLow    Criticality = "low"
)

// ExtractionPoint is a single field a template instructs the AI
// capability to extract, with the synonym labels it may appear under in
// the source document (French and English variants included).
type ExtractionPoint struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Criticality Criticality `json:"criticality"`
	Synonyms    []string    `json:"synonyms"`
	Type        FieldType   `json:"type"`
}

// Template is a named, read-only extraction definition for one document kind.
type Template struct {
	ID           string            `json:"id"`
	Name         string            `json:"name"`
	DocumentType string            `json:"documentType"`
	Points       []ExtractionPoint `json:"points"`
}

// The registry is static configuration data: no mutation operations.
var templates = map[string]*Template{
	"ifs_certificate": {
		ID:           "ifs_certificate",
		Name:         "IFS Food Certificate",
		DocumentType: "IFS_CERTIFICATE",
		Points: []ExtractionPoint{
			{Name: "certificateNumber", Description: "Unique certificate identifier", Criticality: CriticalityHigh,
				Synonyms: []string{"Certificate No", "Numéro de certificat", "Certificate Register No"}, Type: FieldString},
			{Name: "certificationBody", Description: "Accredited body that issued the certificate", Criticality: CriticalityMedium,
				Synonyms: []string{"Certification Body", "Organisme certificateur", "Issued by"}, Type: FieldString},
			{Name: "ifsLevel", Description: "Certification level (Foundation, Higher)", Criticality: CriticalityMedium,
				Synonyms: []string{"Level", "Niveau", "Higher Level"}, Type: FieldString},
			{Name: "score", Description: "Global audit score in percent", Criticality: CriticalityHigh,
				Synonyms: []string{"Score", "Note", "Result", "Résultat global"}, Type: FieldNumber},
			{Name: "validFrom", Description: "Start of the validity window", Criticality: CriticalityMedium,
				Synonyms: []string{"Valid from", "Valable à partir du", "Date of issue"}, Type: FieldDate},
			{Name: "validUntil", Description: "End of the validity window", Criticality: CriticalityHigh,
				Synonyms: []string{"Valid until", "Valable jusqu'au", "Expiry date", "Date de fin de validité"}, Type: FieldDate},
			{Name: "majorNonConformities", Description: "Count of major non-conformities raised at audit", Criticality: CriticalityMedium,
				Synonyms: []string{"Major", "NC majeures", "Major non-conformities"}, Type: FieldNumber},
			{Name: "productScopes", Description: "Audited product scopes", Criticality: CriticalityLow,
				Synonyms: []string{"Product scopes", "Périmètre produit", "Scope of audit"}, Type: FieldArray},
		},
	},
	"brcgs_certificate": {
		ID:           "brcgs_certificate",
		Name:         "BRCGS Food Safety Certificate",
		DocumentType: "BRCGS_CERTIFICATE",
		Points: []ExtractionPoint{
			{Name: "siteCode", Description: "BRCGS site code", Criticality: CriticalityHigh,
				Synonyms: []string{"Site code", "BRCGS Site Code", "Code site"}, Type: FieldString},
			{Name: "grade", Description: "Audit grade (AA, A, B, C, D)", Criticality: CriticalityHigh,
				Synonyms: []string{"Grade", "Note", "Audit grade"}, Type: FieldString},
			{Name: "certificationBody", Description: "Accredited body that issued the certificate", Criticality: CriticalityMedium,
				Synonyms: []string{"Certification Body", "Organisme certificateur"}, Type: FieldString},
			{Name: "auditDate", Description: "Date of the audit", Criticality: CriticalityMedium,
				Synonyms: []string{"Audit date", "Date d'audit"}, Type: FieldDate},
			{Name: "expiryDate", Description: "Certificate expiry date", Criticality: CriticalityHigh,
				Synonyms: []string{"Expiry date", "Date d'expiration", "Certificate expiry"}, Type: FieldDate},
			{Name: "announced", Description: "Whether the audit was announced", Criticality: CriticalityLow,
				Synonyms: []string{"Announced", "Audit annoncé", "Announced audit"}, Type: FieldBoolean},
			{Name: "scope", Description: "Certified production scope", Criticality: CriticalityLow,
				Synonyms: []string{"Scope", "Périmètre", "Scope of certification"}, Type: FieldString},
		},
	},
	"micro_analysis": {
		ID:           "micro_analysis",
		Name:         "Microbiological Analysis Bulletin",
		DocumentType: "MICRO_ANALYSIS",
		Points: []ExtractionPoint{
			{Name: "laboratory", Description: "Laboratory that performed the analysis", Criticality: CriticalityMedium,
				Synonyms: []string{"Laboratory", "Laboratoire", "Lab"}, Type: FieldString},
			{Name: "sampleDate", Description: "Sampling date", Criticality: CriticalityMedium,
				Synonyms: []string{"Sample date", "Date de prélèvement", "Sampling date"}, Type: FieldDate},
			{Name: "lotNumber", Description: "Analyzed lot number", Criticality: CriticalityHigh,
				Synonyms: []string{"Lot", "Numéro de lot", "Batch"}, Type: FieldString},
			{Name: "parameters", Description: "Analyzed parameters (Listeria, Salmonella, ...)", Criticality: CriticalityHigh,
				Synonyms: []string{"Parameters", "Paramètres", "Analyses", "Determinations"}, Type: FieldArray},
			{Name: "compliant", Description: "Overall conformity verdict of the bulletin", Criticality: CriticalityHigh,
				Synonyms: []string{"Compliant", "Conforme", "Conformity", "Conclusion"}, Type: FieldBoolean},
			{Name: "analysisDate", Description: "Date the results were issued", Criticality: CriticalityLow,
				Synonyms: []string{"Analysis date", "Date d'analyse", "Date du rapport"}, Type: FieldDate},
		},
	},
}

// GetTemplate retrieves an extraction template by id.
func GetTemplate(id string) (*Template, error) {
	tmpl, ok := templates[id]
	if !ok {
		return nil, fmt.Errorf("template %s not found", id)
	}
	return tmpl, nil
}

// ListTemplates returns all templates, ordered by id.
func ListTemplates() []*Template {
	out := make([]*Template, 0, len(templates))
	for _, tmpl := range templates {
		out = append(out, tmpl)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
