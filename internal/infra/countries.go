package infra

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"retailing/internal/model"
)

// countryRecord is one entry of the countries dataset. Older dumps carry the
// display name under name_ru, newer ones under name.
type countryRecord struct {
	ISOCode2 string `json:"iso_code2"`
	NameRU   string `json:"name_ru"`
	Name     string `json:"name"`
}

// LoadCountriesFile reads a countries dataset from path.
func LoadCountriesFile(path string) ([]model.Country, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("countries: open %s: %w", path, err)
	}
	defer f.Close()
	return ParseCountries(f)
}

// ParseCountries decodes a JSON array of countries. Codes are upper-cased;
// entries without a code or name and duplicate codes are rejected.
func ParseCountries(r io.Reader) ([]model.Country, error) {
	var records []countryRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("countries: decode: %w", err)
	}

	seen := make(map[string]bool, len(records))
	out := make([]model.Country, 0, len(records))
	for i, rec := range records {
		code := strings.ToUpper(strings.TrimSpace(rec.ISOCode2))
		name := strings.TrimSpace(rec.Name)
		if name == "" {
			name = strings.TrimSpace(rec.NameRU)
		}
		if len(code) != 2 || name == "" {
			return nil, fmt.Errorf("countries: entry %d: need a 2-letter iso_code2 and a name", i)
		}
		if seen[code] {
			return nil, fmt.Errorf("countries: entry %d: duplicate code %s", i, code)
		}
		seen[code] = true
		out = append(out, model.Country{Code: code, Name: name})
	}
	return out, nil
}
