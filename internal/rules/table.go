// Package rules loads and models the three reference tables driving the
// eligibility decision: legal natures, economic activities (CNAE) and the
// CNPJ exception list. Tables are plain ordered collections of named text
// cells; which physical column plays which logical role comes from the
// ruleset manifest, validated once at load time.
package rules

import "strings"

// Row is one record of a reference table, column name → text value.
type Row map[string]string

// Table is an ordered reference table loaded from CSV, XLSX or JSON.
type Table struct {
	Source  string
	Columns []string
	Rows    []Row
}

// Column resolves a column name case-insensitively against the table header
// and returns the physical name, or "" if absent.
func (t *Table) Column(name string) string {
	for _, c := range t.Columns {
		if strings.EqualFold(strings.TrimSpace(c), strings.TrimSpace(name)) {
			return c
		}
	}
	return ""
}

// FindByDigits returns the first row whose digits-normalized cell in col
// equals key. key must already be digits-normalized; an empty key never
// matches.
func (t *Table) FindByDigits(col, key string) (Row, bool) {
	if key == "" {
		return nil, false
	}
	for _, r := range t.Rows {
		if DigitsOnly(r[col]) == key {
			return r, true
		}
	}
	return nil, false
}
