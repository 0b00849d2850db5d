package importer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadCSV(t *testing.T) {
	t.Run("strips BOM and normalizes headers", func(t *testing.T) {
		data := "\xEF\xBB\xBFName, Phone ,E-mail\nSara,0501234567,sara@example.com\n\n Omar ,,\n"
		sheet, err := ReadCSV(strings.NewReader(data), 0)
		require.NoError(t, err)

		assert.Equal(t, []string{"name", "phone", "email"}, sheet.Headers)
		require.Len(t, sheet.Rows, 2)
		assert.Equal(t, 2, sheet.Rows[0].Line)
		assert.Equal(t, "sara@example.com", sheet.Rows[0].Get("email"))
		assert.Equal(t, 4, sheet.Rows[1].Line, "blank line is skipped but still counted")
		assert.Equal(t, "Omar", sheet.Rows[1].Get("name"))
		assert.False(t, sheet.Errors.HasErrors())
	})

	t.Run("arabic headers", func(t *testing.T) {
		data := "الاسم,الجوال,الشركة\nسارة,0501234567,مؤسسة النور\n"
		sheet, err := ReadCSV(strings.NewReader(data), 0)
		require.NoError(t, err)
		assert.Equal(t, []string{"name", "phone", "company"}, sheet.Headers)
		assert.Equal(t, "مؤسسة النور", sheet.Rows[0].Get("company"))
	})

	t.Run("short rows are padded", func(t *testing.T) {
		sheet, err := ReadCSV(strings.NewReader("name,phone,email\nSara\n"), 0)
		require.NoError(t, err)
		v, ok := sheet.Rows[0].Data["email"]
		assert.True(t, ok)
		assert.Empty(t, v)
	})

	t.Run("empty file", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), 0)
		assert.ErrorIs(t, err, ErrEmptyFile)
	})

	t.Run("invalid encoding", func(t *testing.T) {
		_, err := ReadCSV(bytes.NewReader([]byte{'n', 'a', 0xff, 0xfe, 'x', '\n'}), 0)
		assert.ErrorIs(t, err, ErrInvalidEncoding)
	})

	t.Run("row limit", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("name\na\nb\nc\n"), 2)
		assert.ErrorContains(t, err, "more than 2 rows")
	})
}

func TestReadXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Phone", "Notes"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"Sara", "0501234567", "vip"}))
	require.NoError(t, f.SetSheetRow(sheet, "A4", &[]interface{}{"Omar"}))
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	parsed, err := Read("customers.XLSX", &buf, 0)
	require.NoError(t, err)

	assert.Equal(t, []string{"name", "phone", "notes"}, parsed.Headers)
	require.Len(t, parsed.Rows, 2)
	assert.Equal(t, "vip", parsed.Rows[0].Get("notes"))
	assert.Equal(t, 4, parsed.Rows[1].Line)
	assert.Equal(t, "", parsed.Rows[1].Get("phone"))
}

func TestRead_UnsupportedFormat(t *testing.T) {
	_, err := Read("customers.pdf", strings.NewReader("x"), 0)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestErrorCollection_Truncates(t *testing.T) {
	ec := NewErrorCollection(2)
	for i := 0; i < 3; i++ {
		ec.Add(RowError{Row: i + 2, Code: ErrCodeImportRequiredField, Message: "x"})
	}
	assert.Len(t, ec.Errors(), 2)
	assert.Equal(t, 3, ec.TotalCount())
	assert.True(t, ec.IsTruncated())
	assert.Equal(t, "row 2: x", ec.Errors()[0].Error())
}
