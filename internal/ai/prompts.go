package ai

import (
	"fmt"
	"strings"
)

// buildExtractionPrompt enumerates every extraction point of the
// template with its synonyms and expected format, then pins the reply to
// the strict JSON envelope the adapter parses.
func buildExtractionPrompt(tmpl *Template, content string) string {
	var b strings.Builder

	b.WriteString("You are a food-safety compliance analyst. Extract the following fields from the document below.\n")
	b.WriteString("The document may be in French or English.\n\n")
	b.WriteString("### FIELDS TO EXTRACT\n")
	for _, p := range tmpl.Points {
		fmt.Fprintf(&b, "- %q (%s, criticality %s): %s. The field may be labelled: %s.\n",
			p.Name, fieldFormat(p.Type), p.Criticality, p.Description, strings.Join(p.Synonyms, ", "))
	}

	b.WriteString(`
### OUTPUT FORMAT
Respond with strict JSON only, no markdown, no commentary:
{
  "extractedData": { "<fieldName>": <value or null>, ... },
  "confidence": <float between 0 and 1>,
  "warnings": ["<anything ambiguous or unreadable>"]
}
Use null for any field that is not present in the document.

### DOCUMENT
`)
	b.WriteString(content)
	return b.String()
}

func fieldFormat(t FieldType) string {
	switch t {
	case FieldNumber:
		return "number"
	case FieldDate:
		return "date, ISO format YYYY-MM-DD"
	case FieldBoolean:
		return "boolean"
	case FieldArray:
		return "array of strings"
	default:
		return "string"
	}
}

// buildCompliancePrompt carries the classification policy for the
// fixed-shape compliance verdict. The classification is delegated to the
// remote capability; the adapter does not re-verify it locally.
func buildCompliancePrompt(documentType, text string) string {
	return fmt.Sprintf(`You are a food-safety compliance analyst reviewing a supplier document of type %q.
The document may be in French or English.

### CLASSIFICATION POLICY
- A critical non-conformity or a "suspended" marker implies REJECTED.
- An expired validity window implies EXPIRED.
- A valid certificate with a low grade or score implies PENDING.
- Otherwise the document is COMPLIANT.

### OUTPUT FORMAT
Respond with strict JSON only:
{
  "isValid": <boolean>,
  "extractedDate": "<expiry date, YYYY-MM-DD, or empty string>",
  "issuer": "<issuing body, or empty string>",
  "riskAssessment": "<one sentence>",
  "suggestedStatus": "<COMPLIANT | PENDING | EXPIRED | REJECTED>",
  "confidence": <float between 0 and 1>
}

### DOCUMENT
%s`, documentType, text)
}
