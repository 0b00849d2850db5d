package importer

import (
	"fmt"
	"io"

	appcustomer "github.com/agency/backend/internal/application/customer"
)

// MaxCustomerRows caps a single customer import
const MaxCustomerRows = 5000

// CustomerRows reads a customer upload. Rows missing a name are reported
// in the returned sheet's errors and left out of the result.
func CustomerRows(filename string, r io.Reader) ([]appcustomer.ImportRow, *Sheet, error) {
	sheet, err := Read(filename, r, MaxCustomerRows)
	if err != nil {
		return nil, nil, err
	}
	if !sheet.HasColumn("name") {
		return nil, nil, fmt.Errorf("%w: name column is required", ErrMissingHeader)
	}

	rows := make([]appcustomer.ImportRow, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		name := row.Get("name")
		if name == "" {
			sheet.Errors.Add(RowError{
				Row:     row.Line,
				Column:  "name",
				Code:    ErrCodeImportRequiredField,
				Message: "name is required",
			})
			continue
		}
		rows = append(rows, appcustomer.ImportRow{
			Line: row.Line,
			Request: appcustomer.CustomerRequest{
				Name:    name,
				Phone:   row.Get("phone"),
				Email:   row.Get("email"),
				Company: row.Get("company"),
				Address: row.Get("address"),
				Notes:   row.Get("notes"),
				Source:  row.Get("source"),
			},
		})
	}
	return rows, sheet, nil
}
