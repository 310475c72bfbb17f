// Package report renders printable supplier compliance sheets. The QR
// code carries the supplier id so the sheet can be scanned at goods
// reception.
package report

import (
	"bytes"
	"fmt"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
)

// SupplierReport creates a one-supplier compliance summary PDF.
func SupplierReport(sup models.Supplier) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.Cell(130, 10, "Supplier Compliance Sheet")
	pdf.SetFont("Arial", "", 9)
	pdf.CellFormat(0, 10, sup.ID, "", 1, "R", false, 0, "")

	// QR code for goods-reception scanning
	qrPng, err := qrcode.Encode("conformis://supplier/"+sup.ID, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate qr code: %w", err)
	}
	pdf.RegisterImageOptionsReader("supplier-qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPng))
	pdf.ImageOptions("supplier-qr", 165, 12, 30, 30, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 12)
	pdf.Cell(0, 8, sup.Name)
	pdf.Ln(8)

	pdf.SetFont("Arial", "", 10)
	writeField(pdf, "Country", sup.Country)
	writeField(pdf, "Compliance status", string(sup.ComplianceStatus))
	writeField(pdf, "Onboarding step", string(sup.OnboardingStep))
	writeField(pdf, "Risk score", fmt.Sprintf("%d / 100", sup.RiskScore))
	if sup.ESGScore != nil {
		writeField(pdf, "ESG score", fmt.Sprintf("%d / 100", *sup.ESGScore))
	}

	// Documents table
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, "Documents")
	pdf.Ln(8)
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(235, 235, 235)
	pdf.CellFormat(70, 7, "Name", "1", 0, "L", true, 0, "")
	pdf.CellFormat(45, 7, "Type", "1", 0, "L", true, 0, "")
	pdf.CellFormat(30, 7, "Expiry", "1", 0, "L", true, 0, "")
	pdf.CellFormat(35, 7, "Status", "1", 1, "L", true, 0, "")
	pdf.SetFont("Arial", "", 9)
	if len(sup.Documents) == 0 {
		pdf.CellFormat(180, 7, "No documents on file", "1", 1, "L", false, 0, "")
	}
	for _, doc := range sup.Documents {
		pdf.CellFormat(70, 7, doc.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(45, 7, doc.Type, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, doc.ExpiryDate, "1", 0, "L", false, 0, "")
		pdf.CellFormat(35, 7, string(doc.Status), "1", 1, "L", false, 0, "")
	}

	// Open non-conformities
	open := openNonConformities(sup)
	pdf.Ln(6)
	pdf.SetFont("Arial", "B", 11)
	pdf.Cell(0, 8, fmt.Sprintf("Open non-conformities (%d)", len(open)))
	pdf.Ln(8)
	pdf.SetFont("Arial", "", 9)
	for _, nc := range open {
		pdf.CellFormat(25, 6, string(nc.Severity), "", 0, "L", false, 0, "")
		pdf.MultiCell(0, 6, nc.Description, "", "L", false)
	}
	if len(open) == 0 {
		pdf.Cell(0, 6, "None")
		pdf.Ln(6)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func writeField(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetFont("Arial", "B", 10)
	pdf.Cell(45, 6, label)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, value)
	pdf.Ln(6)
}

func openNonConformities(sup models.Supplier) []models.NonConformity {
	var open []models.NonConformity
	for _, nc := range sup.NonConformities {
		if nc.Status != models.NCResolved {
			open = append(open, nc)
		}
	}
	return open
}
