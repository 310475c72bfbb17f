package ai

import (
	"context"
	"errors"
	"testing"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/google/generative-ai-go/genai"
)

// fakeGenerator replays a canned reply, or fails.
type fakeGenerator struct {
	reply string
	err   error
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	return f.reply, f.err
}

func (f *fakeGenerator) Close() {}

func fakeAnalyzer(reply string, genErr error) (*Analyzer, *int) {
	calls := 0
	a := NewAnalyzer("test-model")
	a.newGenerator = func(ctx context.Context, apiKey string, schema *genai.Schema) (ContentGenerator, error) {
		calls++
		return &fakeGenerator{reply: reply, err: genErr}, nil
	}
	return a, &calls
}

func mustTemplate(t *testing.T, id string) *Template {
	t.Helper()
	tmpl, err := GetTemplate(id)
	if err != nil {
		t.Fatalf("Template %s missing: %v", id, err)
	}
	return tmpl
}

func TestAnalyzeMissingCredentials(t *testing.T) {
	a, calls := fakeAnalyzer("{}", nil)

	_, err := a.Analyze(context.Background(), "content", mustTemplate(t, "ifs_certificate"), "  ")
	if !errors.Is(err, ErrCredentialsMissing) {
		t.Fatalf("Expected ErrCredentialsMissing, got %v", err)
	}
	if *calls != 0 {
		t.Error("No remote activity should happen without credentials")
	}
}

func TestAnalyzeCoercesFields(t *testing.T) {
	reply := `{
		"extractedData": {
			"certificateNumber": "IFS-123",
			"score": "94%",
			"validUntil": "30/11/2026",
			"majorNonConformities": 0
		},
		"confidence": 0.9,
		"warnings": []
	}`
	a, _ := fakeAnalyzer(reply, nil)

	result, err := a.Analyze(context.Background(), "certificate text", mustTemplate(t, "ifs_certificate"), "key")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Fields["score"] != float64(94) {
		t.Errorf("Percent string should coerce to a number, got %v", result.Fields["score"])
	}
	if result.Fields["validUntil"] != "2026-11-30" {
		t.Errorf("Date should normalize to ISO form, got %v", result.Fields["validUntil"])
	}
	if result.Fields["certificateNumber"] != "IFS-123" {
		t.Errorf("String field should pass through, got %v", result.Fields["certificateNumber"])
	}
	// Unextracted fields are present and null.
	if v, ok := result.Fields["ifsLevel"]; !ok || v != nil {
		t.Errorf("Missing extraction point should be null, got %v (present=%v)", v, ok)
	}
	if result.Metadata.Confidence != 0.9 {
		t.Errorf("Expected confidence 0.9, got %v", result.Metadata.Confidence)
	}
	if result.Metadata.TemplateID != "ifs_certificate" {
		t.Errorf("Unexpected template id: %s", result.Metadata.TemplateID)
	}
}

func TestAnalyzeKeepsRawValueOnCoercionFailure(t *testing.T) {
	reply := `{
		"extractedData": {"validUntil": "sometime in autumn"},
		"confidence": 0.4
	}`
	a, _ := fakeAnalyzer(reply, nil)

	result, err := a.Analyze(context.Background(), "text", mustTemplate(t, "ifs_certificate"), "key")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}

	if result.Fields["validUntil"] != "sometime in autumn" {
		t.Errorf("Uncoercible value should be kept raw, got %v", result.Fields["validUntil"])
	}
	if len(result.Metadata.Warnings) == 0 {
		t.Error("Coercion failure should surface a warning")
	}
}

func TestAnalyzeMalformedReplyDegrades(t *testing.T) {
	a, _ := fakeAnalyzer("I am sorry, I cannot produce JSON today.", nil)

	result, err := a.Analyze(context.Background(), "text", mustTemplate(t, "ifs_certificate"), "key")
	if err != nil {
		t.Fatalf("Malformed reply should not fail the call: %v", err)
	}

	if result.Metadata.Confidence != 0 {
		t.Errorf("Malformed reply should yield zero confidence, got %v", result.Metadata.Confidence)
	}
	for name, v := range result.Fields {
		if v != nil {
			t.Errorf("Field %s should be null on malformed reply, got %v", name, v)
		}
	}
}

func TestAnalyzeFencedReply(t *testing.T) {
	reply := "```json\n{\"extractedData\": {\"grade\": \"AA\"}, \"confidence\": 0.8}\n```"
	a, _ := fakeAnalyzer(reply, nil)

	result, err := a.Analyze(context.Background(), "text", mustTemplate(t, "brcgs_certificate"), "key")
	if err != nil {
		t.Fatalf("Analyze failed: %v", err)
	}
	if result.Fields["grade"] != "AA" {
		t.Errorf("Fenced JSON should still parse, got %v", result.Fields["grade"])
	}
}

func TestAnalyzeRemoteFailure(t *testing.T) {
	a, _ := fakeAnalyzer("", errors.New("quota exceeded"))

	_, err := a.Analyze(context.Background(), "text", mustTemplate(t, "ifs_certificate"), "key")
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("Expected ErrAnalysisFailed, got %v", err)
	}
}

func TestAnalyzeComplianceVerdict(t *testing.T) {
	reply := `{
		"isValid": false,
		"extractedDate": "2024-01-15",
		"issuer": "Bureau Veritas",
		"riskAssessment": "Certificate expired over a year ago",
		"suggestedStatus": "EXPIRED",
		"confidence": 0.95
	}`
	a, _ := fakeAnalyzer(reply, nil)

	verdict, err := a.AnalyzeCompliance(context.Background(), "text", "IFS_CERTIFICATE", "key")
	if err != nil {
		t.Fatalf("AnalyzeCompliance failed: %v", err)
	}
	if verdict.SuggestedStatus != models.StatusExpired {
		t.Errorf("Expected EXPIRED, got %s", verdict.SuggestedStatus)
	}
	if verdict.IsValid {
		t.Error("Verdict should be invalid")
	}
	if verdict.Issuer != "Bureau Veritas" {
		t.Errorf("Unexpected issuer: %s", verdict.Issuer)
	}
}

func TestAnalyzeComplianceEmptyStatusDefaultsToPending(t *testing.T) {
	a, _ := fakeAnalyzer(`{"isValid": true, "confidence": 0.5}`, nil)

	verdict, err := a.AnalyzeCompliance(context.Background(), "text", "IFS_CERTIFICATE", "key")
	if err != nil {
		t.Fatalf("AnalyzeCompliance failed: %v", err)
	}
	if verdict.SuggestedStatus != models.StatusPending {
		t.Errorf("Empty status should default to PENDING, got %s", verdict.SuggestedStatus)
	}
}

func TestAnalyzeComplianceUnparsableVerdictFails(t *testing.T) {
	a, _ := fakeAnalyzer("not json", nil)

	_, err := a.AnalyzeCompliance(context.Background(), "text", "IFS_CERTIFICATE", "key")
	if !errors.Is(err, ErrAnalysisFailed) {
		t.Fatalf("Expected ErrAnalysisFailed for unparsable verdict, got %v", err)
	}
}

func TestListTemplatesOrdered(t *testing.T) {
	all := ListTemplates()
	if len(all) < 3 {
		t.Fatalf("Expected at least 3 templates, got %d", len(all))
	}
	for i := 1; i < len(all); i++ {
		if all[i-1].ID >= all[i].ID {
			t.Errorf("Templates should be ordered by id: %s before %s", all[i-1].ID, all[i].ID)
		}
	}
}
