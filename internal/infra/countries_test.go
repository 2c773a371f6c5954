package infra

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCountries(t *testing.T) {
	in := `[
		{"iso_code2": "de", "name_ru": "Германия"},
		{"iso_code2": "FR", "name": "France", "name_ru": "Франция"}
	]`
	got, err := ParseCountries(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "DE", got[0].Code)
	assert.Equal(t, "Германия", got[0].Name)
	assert.Equal(t, "France", got[1].Name)
}

func TestParseCountries_Rejects(t *testing.T) {
	cases := map[string]string{
		"not json":       `{`,
		"long code":      `[{"iso_code2": "DEU", "name": "Germany"}]`,
		"missing name":   `[{"iso_code2": "DE"}]`,
		"duplicate code": `[{"iso_code2": "DE", "name": "Germany"}, {"iso_code2": "de", "name": "Deutschland"}]`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := ParseCountries(strings.NewReader(in))
			assert.Error(t, err)
		})
	}
}

func TestLoadCountriesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "countries.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"iso_code2": "AT", "name": "Austria"}]`), 0o600))

	got, err := LoadCountriesFile(path)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "AT", got[0].Code)

	_, err = LoadCountriesFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
