package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"aderencia/constants"
	"aderencia/internal/engine"
	"aderencia/internal/repository"
)

func TestVerdictXLSX(t *testing.T) {
	ev := &repository.Evaluation{
		ID:          uuid.New(),
		CreatedAt:   time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC),
		CompanyName: "PADARIA ESTRELA LTDA",
		CNPJ:        "11.222.333/0001-44",
	}
	v := engine.Verdict{
		Outcome: constants.OutcomeApproved,
		Phase:   constants.PhaseActivity,
		Reason:  "Atividade econômica secundária aderente: 56.11-2-03.",
		ActivityReport: []engine.ActivityRow{
			{Type: constants.ActivityPrincipal, Code: "47.21-1-02", Description: "Padaria", Matched: false},
			{Type: constants.ActivitySecondary, Code: "56.11-2-03", Description: "Lanchonetes", Matched: true},
		},
		Phases: []engine.PhaseResult{
			{Phase: constants.PhaseNature, Attempted: true, Passed: true, Detail: "ok"},
			{Phase: constants.PhaseActivity, Attempted: true, Passed: true, Detail: "ok"},
		},
	}

	data, err := NewService(nil).VerdictXLSX(ev, v)
	if err != nil {
		t.Fatal(err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer func() { _ = f.Close() }()

	const sheet = "Aderência"
	if got, _ := f.GetCellValue(sheet, "B1"); got != "PADARIA ESTRELA LTDA" {
		t.Errorf("B1: %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "B4"); got != "APROVADO" {
		t.Errorf("B4: %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "A9"); got != "Principal" {
		t.Errorf("A9: %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "D10"); got != "Aderente" {
		t.Errorf("D10: %q", got)
	}
	if got, _ := f.GetCellValue(sheet, "D9"); got != "Não Aderente" {
		t.Errorf("D9: %q", got)
	}
}
