package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"

	"github.com/conformis-app/conformigo/internal/ai"
	"github.com/conformis-app/conformigo/internal/extract"
	"github.com/conformis-app/conformigo/internal/models"
	"github.com/gorilla/mux"
)

// apiKey resolves the Gemini credential, preferring the workspace
// setting over the environment.
func (r *Router) apiKey() string {
	if key := strings.TrimSpace(r.store.Settings().GeminiAPIKey); key != "" {
		return key
	}
	return r.cfg.GeminiAPIKey
}

// listTemplates returns the static extraction-template registry.
func (r *Router) listTemplates(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"templates": ai.ListTemplates(),
	})
}

// extractDocument runs template-driven field extraction on an uploaded
// document and returns the typed field map without touching any
// supplier record.
func (r *Router) extractDocument(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}

	tmpl, err := ai.GetTemplate(req.FormValue("templateId"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unknown template")
		return
	}

	text, err := r.readUploadedText(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := r.analyzer.Analyze(req.Context(), text, tmpl, r.apiKey())
	if err != nil {
		r.respondAnalysisError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// analyzeSupplierDocument runs the compliance check on an uploaded
// document and records the verdict as a document on the supplier. A
// REJECTED or EXPIRED verdict also opens a non-conformity.
func (r *Router) analyzeSupplierDocument(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	if _, ok := r.store.Supplier(id); !ok {
		respondError(w, http.StatusNotFound, "Supplier not found")
		return
	}

	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	docType := req.FormValue("documentType")
	if docType == "" {
		respondError(w, http.StatusBadRequest, "documentType is required")
		return
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Unreadable upload")
		return
	}
	text, err := extract.Text(header.Filename, data)
	if err != nil {
		log.Printf("❌ Text extraction failed for %s: %v", header.Filename, err)
		respondError(w, http.StatusUnprocessableEntity, "Could not extract text from document")
		return
	}

	verdict, err := r.analyzer.AnalyzeCompliance(req.Context(), text, docType, r.apiKey())
	if err != nil {
		r.respondAnalysisError(w, err)
		return
	}

	confidence := verdict.Confidence
	doc := models.Document{
		Name:            header.Filename,
		Type:            docType,
		ExpiryDate:      verdict.ExtractedDate,
		Status:          verdict.SuggestedStatus,
		Issuer:          verdict.Issuer,
		RiskAnalysis:    verdict.RiskAssessment,
		ConfidenceScore: &confidence,
	}
	r.store.AddDocumentToSupplier(id, doc)

	if verdict.SuggestedStatus == models.StatusRejected || verdict.SuggestedStatus == models.StatusExpired {
		r.store.AddNonConformity(id, models.NonConformity{
			Severity:    models.SeverityHigh,
			Status:      models.NCOpen,
			Description: fmt.Sprintf("Document '%s' assessed as %s: %s", header.Filename, verdict.SuggestedStatus, verdict.RiskAssessment),
		})
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"verdict":  verdict,
		"document": doc,
	})
}

// readUploadedText accepts either an uploaded file (form field "file")
// or inline text (form field "text").
func (r *Router) readUploadedText(req *http.Request) (string, error) {
	if inline := req.FormValue("text"); inline != "" {
		return inline, nil
	}

	file, header, err := req.FormFile("file")
	if err != nil {
		return "", errors.New("provide a 'file' upload or a 'text' form field")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadSize))
	if err != nil {
		return "", errors.New("unreadable upload")
	}
	text, err := extract.Text(header.Filename, data)
	if err != nil {
		return "", errors.New("could not extract text from document")
	}
	return text, nil
}

func (r *Router) respondAnalysisError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ai.ErrCredentialsMissing):
		respondError(w, http.StatusUnprocessableEntity, "No Gemini API key configured")
	case errors.Is(err, ai.ErrAnalysisFailed):
		respondError(w, http.StatusBadGateway, "Document analysis failed")
	default:
		respondError(w, http.StatusInternalServerError, "Analysis error")
	}
	if !errors.Is(err, ai.ErrCredentialsMissing) {
		log.Printf("❌ Analysis error: %v", err)
	}
}
