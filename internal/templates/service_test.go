package templates

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	original := DefaultTemplates()

	var buf bytes.Buffer
	require.NoError(t, WriteTemplates(&buf, original))

	parsed, err := ReadTemplates(&buf)
	require.NoError(t, err)
	require.Len(t, parsed, len(original))

	for i := range original {
		assert.Equal(t, original[i].Name, parsed[i].Name)
		assert.Equal(t, original[i].Category, parsed[i].Category)
		assert.True(t, original[i].Amount.Equal(parsed[i].Amount))
		assert.Equal(t, original[i].Verified, parsed[i].Verified)
	}
}

func TestReadTemplates_BadAmount(t *testing.T) {
	input := "name,category,amount,verified\nRent,Rent,notanumber,false\n"
	_, err := ReadTemplates(strings.NewReader(input))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
}

func TestServiceLookup(t *testing.T) {
	svc := NewService(DefaultTemplates())

	tmpl, ok := svc.Get("rent")
	require.True(t, ok, "lookup is case-insensitive")
	assert.Equal(t, "Rent", tmpl.Name)
	assert.Equal(t, "-1200.00", tmpl.Amount.StringFixed(2))

	_, ok = svc.Get("mortgage")
	assert.False(t, ok)
}

func TestTemplateDraft(t *testing.T) {
	svc := NewService(DefaultTemplates())
	tmpl, ok := svc.Get("Salary")
	require.True(t, ok)

	d := tmpl.Draft("2025/11/01")
	assert.Equal(t, "2025/11/01", d.Date)
	assert.Equal(t, "Salary", d.Description)
	assert.Equal(t, "Salary", d.Category)
	assert.Equal(t, "2500.00", d.Amount)
}

func TestSaveAndLoad(t *testing.T) {
	workspace := t.TempDir()

	svc := NewService(DefaultTemplates())
	require.NoError(t, svc.Save(workspace))

	loaded, err := Load(workspace)
	require.NoError(t, err)
	assert.Len(t, loaded.All(), len(DefaultTemplates()))

	tmpl, ok := loaded.Get("VAT Output")
	require.True(t, ok)
	assert.Equal(t, "300.00", tmpl.Amount.StringFixed(2))
}

func TestLoad_MissingFile(t *testing.T) {
	svc, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, svc.All())
}
