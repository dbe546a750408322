package cartao

import (
	"strings"
	"testing"
)

const fixture = `REPÚBLICA FEDERATIVA DO BRASIL
CADASTRO NACIONAL DA PESSOA JURÍDICA
NÚMERO DE INSCRIÇÃO
12.345.678/0001-90
MATRIZ
COMPROVANTE DE INSCRIÇÃO E DE SITUAÇÃO CADASTRAL
DATA DE ABERTURA
01/02/2010
NOME EMPRESARIAL
PADARIA E CONFEITARIA ESTRELA DO SUL LTDA
TÍTULO DO ESTABELECIMENTO (NOME DE FANTASIA)
PADARIA ESTRELA
PORTE
ME
CÓDIGO E DESCRIÇÃO DA ATIVIDADE ECONÔMICA PRINCIPAL
47.21-1-02 - Padaria e confeitaria com predominância de revenda
CÓDIGO E DESCRIÇÃO DAS ATIVIDADES ECONÔMICAS SECUNDÁRIAS
47.11-3-02 - Comércio varejista de mercadorias em geral
56.11-2-03 - Lanchonetes, casas de chá, de sucos e similares
CÓDIGO E DESCRIÇÃO DA NATUREZA JURÍDICA
206-2 - Sociedade Empresária Limitada
LOGRADOURO
RUA DAS ACÁCIAS
`

func TestParseFullDocument(t *testing.T) {
	rec := Parse(fixture)

	if rec.CompanyName != "PADARIA E CONFEITARIA ESTRELA DO SUL LTDA" {
		t.Errorf("company name: got %q", rec.CompanyName)
	}
	if rec.CNPJ != "12.345.678/0001-90" {
		t.Errorf("cnpj: got %q", rec.CNPJ)
	}
	if rec.LegalNatureCode != "206-2" {
		t.Errorf("legal nature code: got %q", rec.LegalNatureCode)
	}
	if rec.LegalNature != "206-2 - Sociedade Empresária Limitada" {
		t.Errorf("legal nature: got %q", rec.LegalNature)
	}
	if rec.PrincipalActivityCode != "47.21-1-02" {
		t.Errorf("principal code: got %q", rec.PrincipalActivityCode)
	}
	if rec.PrincipalActivity != "47.21-1-02 - Padaria e confeitaria com predominância de revenda" {
		t.Errorf("principal: got %q", rec.PrincipalActivity)
	}
	if len(rec.SecondaryActivities) != 2 {
		t.Fatalf("secondaries: got %d, want 2", len(rec.SecondaryActivities))
	}
	if rec.SecondaryActivities[0].Code != "47.11-3-02" {
		t.Errorf("secondary[0]: got %q", rec.SecondaryActivities[0].Code)
	}
	if rec.SecondaryActivities[1].Code != "56.11-2-03" {
		t.Errorf("secondary[1]: got %q", rec.SecondaryActivities[1].Code)
	}
}

func TestParsePrincipalHeaderSpellings(t *testing.T) {
	for _, spelling := range []string{
		"ATIVIDADE ECONÔMICA PRINCIPAL",
		"ATIVIDADE ECONÓMICA PRINCIPAL",
		"ATIVIDADE ECONOMICA PRINCIPAL",
		"atividade econômica principal",
	} {
		text := "CÓDIGO E DESCRIÇÃO DA " + spelling + "\n62.01-5-01 - Desenvolvimento de programas de computador sob encomenda\nCÓDIGO E DESCRIÇÃO DA NATUREZA JURÍDICA\n"
		rec := Parse(text)
		if rec.PrincipalActivityCode != "62.01-5-01" {
			t.Errorf("spelling %q: principal code not found, got %q", spelling, rec.PrincipalActivityCode)
		}
	}
}

func TestParseWrappedPrincipalDescription(t *testing.T) {
	text := "ATIVIDADE ECONÔMICA PRINCIPAL\n47.21-1-02 - Padaria e confeitaria com predominância de\nrevenda de produtos próprios\nCÓDIGO E DESCRIÇÃO DAS ATIVIDADES\n"
	rec := Parse(text)
	want := "47.21-1-02 - Padaria e confeitaria com predominância de revenda de produtos próprios"
	if rec.PrincipalActivity != want {
		t.Errorf("wrapped description: got %q, want %q", rec.PrincipalActivity, want)
	}
}

func TestParseMissingAnchors(t *testing.T) {
	rec := Parse("documento vazio sem nenhum rótulo conhecido")

	if rec.CompanyName != NotIdentifiedM {
		t.Errorf("company name default: got %q", rec.CompanyName)
	}
	if rec.CNPJ != "" {
		t.Errorf("cnpj default: got %q", rec.CNPJ)
	}
	if rec.LegalNature != NotIdentifiedF || rec.LegalNatureCode != "" {
		t.Errorf("nature defaults: got %q / %q", rec.LegalNature, rec.LegalNatureCode)
	}
	if rec.PrincipalActivity != NotIdentifiedM || rec.PrincipalActivityCode != "" {
		t.Errorf("principal defaults: got %q / %q", rec.PrincipalActivity, rec.PrincipalActivityCode)
	}
	if len(rec.SecondaryActivities) != 0 {
		t.Errorf("secondaries default: got %v", rec.SecondaryActivities)
	}
}

func TestParseDuplicateSecondariesPreserved(t *testing.T) {
	text := "CÓDIGO E DESCRIÇÃO DAS ATIVIDADES ECONÔMICAS SECUNDÁRIAS\n" +
		"47.11-3-02 - Comércio varejista\n" +
		"47.11-3-02 - Comércio varejista\n" +
		"CÓDIGO E DESCRIÇÃO DA NATUREZA JURÍDICA\n"
	rec := Parse(text)
	if len(rec.SecondaryActivities) != 2 {
		t.Fatalf("duplicates must be preserved: got %d rows", len(rec.SecondaryActivities))
	}
}

func TestParseFirstCNPJWins(t *testing.T) {
	text := "11.222.333/0001-44\n99.888.777/0001-66\n"
	if got := Parse(text).CNPJ; got != "11.222.333/0001-44" {
		t.Errorf("first CNPJ must win, got %q", got)
	}
}

func TestParseCompanyNameCollapsesWhitespace(t *testing.T) {
	text := "NOME EMPRESARIAL\n  EMPRESA   DE  TESTE \nPORTE\n"
	if got := Parse(text).CompanyName; got != "EMPRESA DE TESTE" {
		t.Errorf("got %q", got)
	}
}

func TestParseIgnoresLowercaseContinuationOnly(t *testing.T) {
	// Boundary heuristic: a new all-caps section header ends the capture.
	text := "ATIVIDADE ECONÔMICA PRINCIPAL\n62.01-5-01 - Desenvolvimento\nDATA DA SITUAÇÃO CADASTRAL\n"
	rec := Parse(text)
	if strings.Contains(rec.PrincipalActivity, "DATA DA") {
		t.Errorf("capture crossed section boundary: %q", rec.PrincipalActivity)
	}
}
