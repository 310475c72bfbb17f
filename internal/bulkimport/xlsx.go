// Package bulkimport maps supplier spreadsheets onto workspace supplier
// skeletons. Column headers are matched tolerantly across French and
// English variants; rows are otherwise free-form.
package bulkimport

import (
	"fmt"
	"io"
	"strings"

	"github.com/conformis-app/conformigo/internal/models"
	"github.com/xuri/excelize/v2"
)

// Header variants accepted for each supplier field, lowercase.
var headerAliases = map[string]string{
	"nom":            "name",
	"name":           "name",
	"fournisseur":    "name",
	"supplier":       "name",
	"raison sociale": "name",

	"pays":    "country",
	"country": "country",

	"email":    "email",
	"e-mail":   "email",
	"courriel": "email",
	"mail":     "email",

	"téléphone": "phone",
	"telephone": "phone",
	"phone":     "phone",
	"tél":       "phone",
	"tel":       "phone",

	"adresse": "address",
	"address": "address",

	"contact":        "contact",
	"contact person": "contact",
}

// ParseSuppliers reads the first sheet of an XLSX workbook and returns
// one supplier skeleton per data row: default risk score 50, PENDING
// compliance status, NEW onboarding step, all owned lists empty. Rows
// without a name are skipped.
func ParseSuppliers(r io.Reader) ([]models.Supplier, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("sheet %s has no data rows", sheet)
	}

	// Map column index -> canonical field from the header row.
	columns := map[int]string{}
	for i, header := range rows[0] {
		if field, ok := headerAliases[strings.ToLower(strings.TrimSpace(header))]; ok {
			columns[i] = field
		}
	}

	var suppliers []models.Supplier
	for _, row := range rows[1:] {
		sup := models.Supplier{
			RiskScore:        50,
			ComplianceStatus: models.StatusPending,
			OnboardingStep:   models.StepNew,
		}
		var contact string
		for i, cell := range row {
			value := strings.TrimSpace(cell)
			if value == "" {
				continue
			}
			switch columns[i] {
			case "name":
				sup.Name = value
			case "country":
				sup.Country = value
			case "email":
				sup.Email = value
			case "phone":
				sup.Phone = value
			case "address":
				sup.Address = value
			case "contact":
				contact = value
			}
		}
		if sup.Name == "" {
			continue
		}
		if contact != "" {
			sup.Contacts = []models.Contact{{Name: contact, Email: sup.Email, Phone: sup.Phone}}
		}
		suppliers = append(suppliers, sup)
	}

	return suppliers, nil
}
