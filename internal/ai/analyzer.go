// Package ai translates supplier documents into structured compliance
// data by delegating semantic extraction to the Gemini API. It owns
// prompt construction, the static template registry and the best-effort
// type normalization of the remote replies.
package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/conformis-app/conformigo/internal/utils"
	"github.com/google/generative-ai-go/genai"
)

var (
	// ErrCredentialsMissing is returned before any network activity when
	// no API key is configured.
	ErrCredentialsMissing = errors.New("ai api key is missing")

	// ErrAnalysisFailed wraps remote failures (network, auth, quota).
	// The adapter never retries; retrying is the caller's decision.
	ErrAnalysisFailed = errors.New("document analysis failed")
)

// Metadata describes one completed analysis.
type Metadata struct {
	Confidence float64   `json:"confidence"`
	Warnings   []string  `json:"warnings"`
	AnalyzedAt time.Time `json:"analyzedAt"`
	TemplateID string    `json:"templateId"`
}

// StructuredResult is the validated, typed field map of one analysis.
// Fields holds one entry per extraction point; unextracted fields are null.
type StructuredResult struct {
	Fields   map[string]interface{} `json:"extractedData"`
	Metadata Metadata               `json:"_metadata"`
}

// ComplianceVerdict is the fixed-shape result of the compliance check.
type ComplianceVerdict struct {
	IsValid         bool                    `json:"isValid"`
	ExtractedDate   string                  `json:"extractedDate"`
	Issuer          string                  `json:"issuer"`
	RiskAssessment  string                  `json:"riskAssessment"`
	SuggestedStatus models.ComplianceStatus `json:"suggestedStatus"`
	Confidence      float64                 `json:"confidence"`
}

// Analyzer is the document-intelligence adapter. One remote request per
// analysis call, no retries, no caching.
type Analyzer struct {
	modelName    string
	newGenerator GeneratorFactory
}

// NewAnalyzer builds an analyzer backed by the Gemini API.
func NewAnalyzer(modelName string) *Analyzer {
	return &Analyzer{
		modelName: modelName,
		newGenerator: func(ctx context.Context, apiKey string, schema *genai.Schema) (ContentGenerator, error) {
			return NewGeminiClient(ctx, apiKey, modelName, schema)
		},
	}
}

// Analyze extracts the template's fields from raw document content
// (plain text or a base64 payload description). Malformed remote JSON is
// treated as an empty extraction, not a failure; per-field coercion
// errors keep the raw value and add a warning.
func (a *Analyzer) Analyze(ctx context.Context, content string, tmpl *Template, apiKey string) (*StructuredResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrCredentialsMissing
	}

	gen, err := a.newGenerator(ctx, apiKey, extractionSchema(tmpl))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	defer gen.Close()

	raw, err := gen.GenerateContent(ctx, buildExtractionPrompt(tmpl, content))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var reply struct {
		ExtractedData map[string]interface{} `json:"extractedData"`
		Confidence    float64                `json:"confidence"`
		Warnings      []string               `json:"warnings"`
	}
	if err := json.Unmarshal([]byte(utils.SanitizeJSON(raw)), &reply); err != nil {
		// Unusable reply: degrade to an empty extraction with zero
		// confidence rather than failing the whole call.
		log.Printf("⚠️ AI reply for template %s is not valid JSON: %v", tmpl.ID, err)
		reply.ExtractedData = nil
		reply.Confidence = 0
		reply.Warnings = nil
	}

	warnings := reply.Warnings
	if warnings == nil {
		warnings = []string{}
	}

	fields := make(map[string]interface{}, len(tmpl.Points))
	for _, p := range tmpl.Points {
		value, ok := reply.ExtractedData[p.Name]
		if !ok || value == nil {
			fields[p.Name] = nil
			continue
		}
		coerced, err := CoerceValue(p.Type, value)
		if err != nil {
			log.Printf("⚠️ Field %s.%s kept as-is: %v", tmpl.ID, p.Name, err)
			warnings = append(warnings, fmt.Sprintf("field %q could not be normalized to %s", p.Name, p.Type))
			fields[p.Name] = value
			continue
		}
		fields[p.Name] = coerced
	}

	return &StructuredResult{
		Fields: fields,
		Metadata: Metadata{
			Confidence: reply.Confidence,
			Warnings:   warnings,
			AnalyzedAt: time.Now().UTC(),
			TemplateID: tmpl.ID,
		},
	}, nil
}

// AnalyzeCompliance runs the fixed-shape compliance check on free
// document text. The classification policy travels in the prompt; the
// adapter does not verify the verdict locally.
func (a *Analyzer) AnalyzeCompliance(ctx context.Context, text, documentType, apiKey string) (*ComplianceVerdict, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrCredentialsMissing
	}

	gen, err := a.newGenerator(ctx, apiKey, complianceSchema())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}
	defer gen.Close()

	raw, err := gen.GenerateContent(ctx, buildCompliancePrompt(documentType, text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, err)
	}

	var verdict ComplianceVerdict
	if err := json.Unmarshal([]byte(utils.SanitizeJSON(raw)), &verdict); err != nil {
		return nil, fmt.Errorf("%w: unparsable verdict: %v", ErrAnalysisFailed, err)
	}
	if verdict.SuggestedStatus == "" {
		verdict.SuggestedStatus = models.StatusPending
	}
	return &verdict, nil
}

// extractionSchema constrains the Gemini reply to the template's field set.
func extractionSchema(tmpl *Template) *genai.Schema {
	props := make(map[string]*genai.Schema, len(tmpl.Points))
	for _, p := range tmpl.Points {
		props[p.Name] = fieldSchema(p)
	}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"extractedData": {Type: genai.TypeObject, Properties: props},
			"confidence":    {Type: genai.TypeNumber},
			"warnings":      {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
		},
		Required: []string{"extractedData", "confidence"},
	}
}

func fieldSchema(p ExtractionPoint) *genai.Schema {
	s := &genai.Schema{Description: p.Description, Nullable: true}
	switch p.Type {
	case FieldNumber:
		s.Type = genai.TypeNumber
	case FieldBoolean:
		s.Type = genai.TypeBoolean
	case FieldArray:
		s.Type = genai.TypeArray
		s.Items = &genai.Schema{Type: genai.TypeString}
	default:
		// Dates travel as strings and are normalized by the coercion table.
		s.Type = genai.TypeString
	}
	return s
}

func complianceSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"isValid":         {Type: genai.TypeBoolean},
			"extractedDate":   {Type: genai.TypeString},
			"issuer":          {Type: genai.TypeString},
			"riskAssessment":  {Type: genai.TypeString},
			"suggestedStatus": {Type: genai.TypeString, Enum: []string{"COMPLIANT", "PENDING", "EXPIRED", "REJECTED"}},
			"confidence":      {Type: genai.TypeNumber},
		},
		Required: []string{"isValid", "suggestedStatus", "confidence"},
	}
}
