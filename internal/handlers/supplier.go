package handlers

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"

	"github.com/conformis-app/conformigo/internal/bulkimport"
	"github.com/conformis-app/conformigo/internal/models"
	"github.com/conformis-app/conformigo/internal/report"
	"github.com/gorilla/mux"
)

const maxUploadSize = 20 << 20 // 20MB

// listSuppliers returns the supplier collection, newest first.
func (r *Router) listSuppliers(w http.ResponseWriter, req *http.Request) {
	suppliers := r.store.Suppliers()
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"suppliers": suppliers,
		"count":     len(suppliers),
	})
}

// getSupplier returns one supplier by id.
func (r *Router) getSupplier(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	sup, ok := r.store.Supplier(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Supplier not found")
		return
	}
	respondJSON(w, http.StatusOK, sup)
}

// createSupplier adds a supplier to the workspace.
func (r *Router) createSupplier(w http.ResponseWriter, req *http.Request) {
	var sup models.Supplier
	if err := json.NewDecoder(req.Body).Decode(&sup); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if sup.Name == "" {
		respondError(w, http.StatusBadRequest, "Supplier name is required")
		return
	}
	if sup.ComplianceStatus == "" {
		sup.ComplianceStatus = models.StatusPending
	}
	if sup.OnboardingStep == "" {
		sup.OnboardingStep = models.StepNew
	}

	created := r.store.AddSupplier(sup)
	respondJSON(w, http.StatusCreated, created)
}

// updateSupplier shallow-merges a partial update into a supplier.
func (r *Router) updateSupplier(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var patch map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := r.store.UpdateSupplier(id, patch); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Update not applicable: %v", err))
		return
	}

	sup, ok := r.store.Supplier(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Supplier not found")
		return
	}
	respondJSON(w, http.StatusOK, sup)
}

// addComment appends a note to the supplier, newest first.
func (r *Router) addComment(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var c models.Comment
	if err := json.NewDecoder(req.Body).Decode(&c); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if c.Text == "" {
		respondError(w, http.StatusBadRequest, "Comment text is required")
		return
	}

	r.store.AddCommentToSupplier(id, c)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Comment added"})
}

// addAttachment stores an uploaded file with the supplier record.
func (r *Router) addAttachment(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var att models.Attachment
	if err := json.NewDecoder(req.Body).Decode(&att); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if att.Name == "" {
		respondError(w, http.StatusBadRequest, "Attachment name is required")
		return
	}

	r.store.AddAttachmentToSupplier(id, att)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Attachment stored"})
}

// addDocument records a compliance document manually.
func (r *Router) addDocument(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var doc models.Document
	if err := json.NewDecoder(req.Body).Decode(&doc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if doc.Name == "" || doc.Type == "" {
		respondError(w, http.StatusBadRequest, "Document name and type are required")
		return
	}
	if doc.Status == "" {
		doc.Status = models.StatusPending
	}

	r.store.AddDocumentToSupplier(id, doc)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Document recorded"})
}

// linkSecondarySupplier adds a weak reference to another supplier.
func (r *Router) linkSecondarySupplier(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var body struct {
		SupplierID string `json:"supplierId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.SupplierID == "" {
		respondError(w, http.StatusBadRequest, "supplierId is required")
		return
	}
	if _, ok := r.store.Supplier(body.SupplierID); !ok {
		respondError(w, http.StatusNotFound, "Linked supplier not found")
		return
	}

	r.store.LinkSecondarySupplier(id, body.SupplierID)
	respondJSON(w, http.StatusOK, map[string]string{"message": "Suppliers linked"})
}

// addNonConformity opens a remediation record.
func (r *Router) addNonConformity(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var nc models.NonConformity
	if err := json.NewDecoder(req.Body).Decode(&nc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if nc.Description == "" {
		respondError(w, http.StatusBadRequest, "Description is required")
		return
	}
	if nc.Severity == "" {
		nc.Severity = models.SeverityMedium
	}

	r.store.AddNonConformity(id, nc)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Non-conformity recorded"})
}

// updateNonConformity merges a partial update into a non-conformity.
func (r *Router) updateNonConformity(w http.ResponseWriter, req *http.Request) {
	vars := mux.Vars(req)

	var patch map[string]interface{}
	if err := json.NewDecoder(req.Body).Decode(&patch); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	if err := r.store.UpdateNonConformity(vars["id"], vars["ncId"], patch); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Update not applicable: %v", err))
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Non-conformity updated"})
}

// addReceptionControl files the quality gate of one delivery. Controls
// are append-only; there is no update endpoint.
func (r *Router) addReceptionControl(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var rc models.ReceptionControl
	if err := json.NewDecoder(req.Body).Decode(&rc); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if rc.Date == "" {
		respondError(w, http.StatusBadRequest, "Control date is required")
		return
	}
	if rc.Decision == "" {
		respondError(w, http.StatusBadRequest, "Decision is required")
		return
	}

	r.store.AddReceptionControl(id, rc)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Reception control filed"})
}

// addGFSICertificate records a structured certification record.
func (r *Router) addGFSICertificate(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var cert models.GFSICertificate
	if err := json.NewDecoder(req.Body).Decode(&cert); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}
	if cert.Type == "" {
		cert.Type = models.SchemeOther
	}

	r.store.AddGFSICertificate(id, cert)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Certificate recorded"})
}

// addLaboratoryAnalysis records an external laboratory result.
func (r *Router) addLaboratoryAnalysis(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var la models.LaboratoryAnalysis
	if err := json.NewDecoder(req.Body).Decode(&la); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	r.store.AddLaboratoryAnalysis(id, la)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Analysis recorded"})
}

// addAnnualReview records a yearly requalification.
func (r *Router) addAnnualReview(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]

	var ar models.AnnualReview
	if err := json.NewDecoder(req.Body).Decode(&ar); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid JSON payload")
		return
	}

	r.store.AddAnnualReview(id, ar)
	respondJSON(w, http.StatusCreated, map[string]string{"message": "Annual review recorded"})
}

// supplierReport streams the printable compliance sheet as PDF.
func (r *Router) supplierReport(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	sup, ok := r.store.Supplier(id)
	if !ok {
		respondError(w, http.StatusNotFound, "Supplier not found")
		return
	}

	pdfBytes, err := report.SupplierReport(sup)
	if err != nil {
		log.Printf("❌ Failed to render supplier report: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to render report")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=supplier-%s.pdf", id))
	w.Write(pdfBytes)
}

// bulkImportSuppliers maps an uploaded XLSX workbook onto supplier
// skeletons and merges them into the workspace.
func (r *Router) bulkImportSuppliers(w http.ResponseWriter, req *http.Request) {
	if err := req.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid multipart payload")
		return
	}
	file, _, err := req.FormFile("file")
	if err != nil {
		respondError(w, http.StatusBadRequest, "Missing 'file' form field")
		return
	}
	defer file.Close()

	suppliers, err := bulkimport.ParseSuppliers(io.LimitReader(file, maxUploadSize))
	if err != nil {
		respondError(w, http.StatusBadRequest, fmt.Sprintf("Unreadable workbook: %v", err))
		return
	}

	inserted := r.store.BulkImportSuppliers(suppliers)
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"requested": len(suppliers),
		"inserted":  inserted,
	})
}
