package rules

import (
	"strings"
	"time"
)

// RuleTable is a code→rule reference table with its columns resolved.
type RuleTable struct {
	Table *Table
	Code  string
	Rule  string
	Note  string
}

// NewRuleTable resolves the column mapping against the loaded table. Code and
// rule columns are required, note is optional.
func NewRuleTable(t *Table, cols RuleColumns) (RuleTable, error) {
	code, err := resolveColumn(t, "code", cols.Code, true)
	if err != nil {
		return RuleTable{}, err
	}
	rule, err := resolveColumn(t, "rule", cols.Rule, true)
	if err != nil {
		return RuleTable{}, err
	}
	note, err := resolveColumn(t, "note", cols.Note, false)
	if err != nil {
		return RuleTable{}, err
	}
	return RuleTable{Table: t, Code: code, Rule: rule, Note: note}, nil
}

// Lookup finds the first row whose code matches raw after digits
// normalization and returns its rule and note cells.
func (rt RuleTable) Lookup(raw string) (rule, note string, found bool) {
	row, ok := rt.Table.FindByDigits(rt.Code, DigitsOnly(raw))
	if !ok {
		return "", "", false
	}
	if rt.Note != "" {
		note = strings.TrimSpace(row[rt.Note])
	}
	return strings.TrimSpace(row[rt.Rule]), note, true
}

// ExceptionTable is the CNPJ allow-list with its columns resolved.
type ExceptionTable struct {
	Table    *Table
	TaxID    string
	Result   string
	Activity string
}

// NewExceptionTable resolves the column mapping against the loaded table.
func NewExceptionTable(t *Table, cols ExceptionColumns) (ExceptionTable, error) {
	taxID, err := resolveColumn(t, "tax_id", cols.TaxID, true)
	if err != nil {
		return ExceptionTable{}, err
	}
	result, err := resolveColumn(t, "result", cols.Result, true)
	if err != nil {
		return ExceptionTable{}, err
	}
	activity, err := resolveColumn(t, "activity", cols.Activity, false)
	if err != nil {
		return ExceptionTable{}, err
	}
	return ExceptionTable{Table: t, TaxID: taxID, Result: result, Activity: activity}, nil
}

// Lookup finds the first row whose tax ID matches raw after digits
// normalization and returns its result text and referenced activity code.
func (et ExceptionTable) Lookup(raw string) (result, activity string, found bool) {
	row, ok := et.Table.FindByDigits(et.TaxID, DigitsOnly(raw))
	if !ok {
		return "", "", false
	}
	if et.Activity != "" {
		activity = strings.TrimSpace(row[et.Activity])
	}
	return strings.TrimSpace(row[et.Result]), activity, true
}

// Ruleset is the full set of reference tables handed to the decision engine.
// Read-only after load; safe for concurrent use.
type Ruleset struct {
	Nature    RuleTable
	Activity  RuleTable
	Exception ExceptionTable
	Synonyms  []string
	LoadedAt  time.Time
}

// Positive applies the ruleset's accepted-synonym set to a rule cell.
func (rs *Ruleset) Positive(value string) bool {
	return IsPositive(value, rs.Synonyms)
}
