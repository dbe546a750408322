// Package cartao extracts structured company data from the text of a Cartão
// CNPJ, the registration document issued by the Brazilian federal revenue
// service. The document follows a fixed template with Portuguese section
// labels, so extraction works by anchoring on those labels and capturing the
// text that follows each one.
package cartao

import (
	"regexp"
	"strings"
)

// Sentinel values used when an anchor is absent from the document. Extraction
// never fails on a partial document; the decision engine treats these as
// non-matching.
const (
	NotIdentifiedM = "Não identificado"
	NotIdentifiedF = "Não identificada"
)

// SecondaryActivity is one entry of the secondary CNAE list, in document order.
type SecondaryActivity struct {
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Record holds the fields extracted from one document. Immutable after Parse.
type Record struct {
	CompanyName           string              `json:"company_name"`
	CNPJ                  string              `json:"cnpj"`
	LegalNatureCode       string              `json:"legal_nature_code"`
	LegalNature           string              `json:"legal_nature"`
	PrincipalActivityCode string              `json:"principal_activity_code"`
	PrincipalActivity     string              `json:"principal_activity"`
	SecondaryActivities   []SecondaryActivity `json:"secondary_activities"`
}

var (
	// 12.345.678/0001-90
	reCNPJ = regexp.MustCompile(`\d{2}\.\d{3}\.\d{3}/\d{4}-\d{2}`)
	// 213-5
	reNatureCode = regexp.MustCompile(`\d{3}-\d`)
	// 47.11-3-02
	reActivityCode = regexp.MustCompile(`\d{2}\.\d{2}-\d-\d{2}`)

	reName = regexp.MustCompile(`(?s)NOME EMPRESARIAL\s*\n(.*?)\n\s*(?:TÍTULO|PORTE)`)
	// The line after the header starts with the 3-digit nature code.
	reNature = regexp.MustCompile(`(?s)CÓDIGO E DESCRIÇÃO DA NATUREZA JURÍDICA.*?\n(\d{3}-\d.*?)(?:\n|$)`)
	// Government templates spell ECONÔMICA with Ô, Ó or plain O depending on
	// the issue date, so all three are accepted.
	rePrincipalHeader = regexp.MustCompile(`(?i)ATIVIDADE ECON[ÔÓO]MICA PRINCIPAL`)
	// Captures from the first activity code up to the next line that opens a
	// new section in capital letters, or end of text.
	rePrincipalValue  = regexp.MustCompile(`(?s)(\d{2}\.\d{2}-\d-\d{2}.*?)(?:\n[A-Z]|$)`)
	reSecondaryBlock  = regexp.MustCompile(`(?s)CÓDIGO E DESCRIÇÃO DAS ATIVIDADES ECONÔMICAS SECUNDÁRIAS(.*?)CÓDIGO E DESCRIÇÃO DA NATUREZA`)
	reSecondaryLine   = regexp.MustCompile(`(\d{2}\.\d{2}-\d-\d{2}.*?)(?:\n|$)`)
	reWhitespaceRun   = regexp.MustCompile(`\s+`)
)

// collapseSpaces folds newlines and space runs into single spaces and trims.
func collapseSpaces(s string) string {
	return strings.TrimSpace(reWhitespaceRun.ReplaceAllString(s, " "))
}

// Parse extracts a Record from raw document text (pages concatenated in
// order). Absent fields keep their defaults; Parse never fails.
func Parse(text string) Record {
	rec := Record{
		CompanyName:       NotIdentifiedM,
		LegalNature:       NotIdentifiedF,
		PrincipalActivity: NotIdentifiedM,
	}

	if m := reName.FindStringSubmatch(text); m != nil {
		rec.CompanyName = collapseSpaces(m[1])
	}

	rec.CNPJ = reCNPJ.FindString(text)

	if m := reNature.FindStringSubmatch(text); m != nil {
		line := collapseSpaces(m[1])
		rec.LegalNature = line
		rec.LegalNatureCode = reNatureCode.FindString(line)
	}

	if loc := rePrincipalHeader.FindStringIndex(text); loc != nil {
		after := text[loc[1]:]
		if m := rePrincipalValue.FindStringSubmatch(after); m != nil {
			full := collapseSpaces(m[1])
			rec.PrincipalActivity = full
			rec.PrincipalActivityCode = reActivityCode.FindString(full)
		}
	}

	if m := reSecondaryBlock.FindStringSubmatch(text); m != nil {
		for _, lm := range reSecondaryLine.FindAllStringSubmatch(m[1], -1) {
			line := collapseSpaces(lm[1])
			if code := reActivityCode.FindString(line); code != "" {
				rec.SecondaryActivities = append(rec.SecondaryActivities, SecondaryActivity{
					Code:        code,
					Description: line,
				})
			}
		}
	}

	return rec
}
