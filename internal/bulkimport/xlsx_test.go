package bulkimport

import (
	"bytes"
	"testing"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/xuri/excelize/v2"
)

// buildWorkbook writes rows into the default sheet of an in-memory workbook.
func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Reader {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to write row %d: %v", i, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("Failed to serialize workbook: %v", err)
	}
	return bytes.NewReader(buf.Bytes())
}

func TestParseSuppliersFrenchHeaders(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Nom", "Pays", "E-mail", "Téléphone", "Contact"},
		{"Laiterie des Monts", "France", "qualite@ldm.example", "+33 4 50 00 00 00", "Claire Dubois"},
		{"Molino Bianco", "Italie", "quality@molino.example", "", ""},
	})

	suppliers, err := ParseSuppliers(wb)
	if err != nil {
		t.Fatalf("ParseSuppliers failed: %v", err)
	}
	if len(suppliers) != 2 {
		t.Fatalf("Expected 2 suppliers, got %d", len(suppliers))
	}

	first := suppliers[0]
	if first.Name != "Laiterie des Monts" || first.Country != "France" {
		t.Errorf("Unexpected first supplier: %+v", first)
	}
	if first.Email != "qualite@ldm.example" || first.Phone != "+33 4 50 00 00 00" {
		t.Errorf("Contact columns not mapped: %+v", first)
	}
	if len(first.Contacts) != 1 || first.Contacts[0].Name != "Claire Dubois" {
		t.Errorf("Contact person should become a contact entry: %+v", first.Contacts)
	}
	if len(suppliers[1].Contacts) != 0 {
		t.Error("Row without a contact column should have no contacts")
	}
}

func TestParseSuppliersEnglishHeadersAndDefaults(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Supplier", "Country", "Email"},
		{"ACME Foods", "Germany", "qa@acme.example"},
	})

	suppliers, err := ParseSuppliers(wb)
	if err != nil {
		t.Fatalf("ParseSuppliers failed: %v", err)
	}
	if len(suppliers) != 1 {
		t.Fatalf("Expected 1 supplier, got %d", len(suppliers))
	}

	sup := suppliers[0]
	if sup.RiskScore != 50 {
		t.Errorf("Expected default risk score 50, got %d", sup.RiskScore)
	}
	if sup.ComplianceStatus != models.StatusPending {
		t.Errorf("Expected PENDING status, got %s", sup.ComplianceStatus)
	}
	if sup.OnboardingStep != models.StepNew {
		t.Errorf("Expected NEW onboarding step, got %s", sup.OnboardingStep)
	}
}

func TestParseSuppliersSkipsNamelessRows(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Country"},
		{"", "France"},
		{"Valid Supplier", "Spain"},
	})

	suppliers, err := ParseSuppliers(wb)
	if err != nil {
		t.Fatalf("ParseSuppliers failed: %v", err)
	}
	if len(suppliers) != 1 || suppliers[0].Name != "Valid Supplier" {
		t.Errorf("Nameless rows should be skipped, got %+v", suppliers)
	}
}

func TestParseSuppliersEmptySheet(t *testing.T) {
	wb := buildWorkbook(t, [][]interface{}{
		{"Name", "Country"},
	})

	if _, err := ParseSuppliers(wb); err == nil {
		t.Error("Header-only workbook should be an error")
	}
}

func TestParseSuppliersNotAWorkbook(t *testing.T) {
	if _, err := ParseSuppliers(bytes.NewReader([]byte("this is not xlsx"))); err == nil {
		t.Error("Garbage input should be an error")
	}
}
