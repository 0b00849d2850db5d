package importer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCustomerRows(t *testing.T) {
	data := "name,phone,email,source\nSara,0501234567,sara@example.com,referral\n,0550000000,,\nOmar,,,\n"

	rows, sheet, err := CustomerRows("customers.csv", strings.NewReader(data))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, 2, rows[0].Line)
	assert.Equal(t, "Sara", rows[0].Request.Name)
	assert.Equal(t, "referral", rows[0].Request.Source)
	assert.Equal(t, 4, rows[1].Line)

	require.Equal(t, 1, sheet.Errors.TotalCount())
	e := sheet.Errors.Errors()[0]
	assert.Equal(t, 3, e.Row)
	assert.Equal(t, "name", e.Column)
	assert.Equal(t, ErrCodeImportRequiredField, e.Code)
}

func TestCustomerRows_MissingNameColumn(t *testing.T) {
	_, _, err := CustomerRows("customers.csv", strings.NewReader("phone\n0501234567\n"))
	assert.ErrorIs(t, err, ErrMissingHeader)
}
