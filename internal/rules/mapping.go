package rules

import (
	"fmt"
	"strings"

	"aderencia/internal/common"
)

// RuleColumns binds logical roles to physical column names of a nature or
// activity table. Note is optional.
type RuleColumns struct {
	Code string `yaml:"code" json:"code"`
	Rule string `yaml:"rule" json:"rule"`
	Note string `yaml:"note" json:"note"`
}

// ExceptionColumns binds logical roles to physical column names of the CNPJ
// exception table. Activity is optional.
type ExceptionColumns struct {
	TaxID    string `yaml:"tax_id" json:"tax_id"`
	Result   string `yaml:"result" json:"result"`
	Activity string `yaml:"activity" json:"activity"`
}

// resolveColumn validates one role → column binding against a loaded table.
// The error names the missing column and lists every available one, so an
// operator can fix the manifest.
func resolveColumn(t *Table, role, name string, required bool) (string, error) {
	if name == "" {
		if required {
			return "", common.NewConfigError(
				fmt.Sprintf("table %s: no column mapped for role %q", t.Source, role),
				common.ErrInvalidInput)
		}
		return "", nil
	}
	if col := t.Column(name); col != "" {
		return col, nil
	}
	return "", common.NewConfigError(
		fmt.Sprintf("table %s: column %q (role %q) not found; available columns: %s",
			t.Source, name, role, strings.Join(t.Columns, ", ")),
		common.ErrInvalidInput)
}
