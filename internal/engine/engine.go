// Package engine decides whether a company is eligible ("aderente") for the
// commercial plan. Three rule phases run in a fixed cascade: legal nature is
// an eliminatory gate, activity codes classify, and the CNPJ exception list
// is a final repechage. The engine is a pure function of the extracted record
// and the loaded ruleset; every "not found" is a business outcome, never an
// error.
package engine

import (
	"fmt"

	"aderencia/constants"
	"aderencia/internal/cartao"
	"aderencia/internal/rules"
)

// ActivityRow is one line of the compatibility report. The report always
// carries the principal activity first, then every secondary activity in
// document order, whatever the final outcome.
type ActivityRow struct {
	Type        string `json:"type"`
	Code        string `json:"code"`
	Description string `json:"description"`
	Matched     bool   `json:"matched"`
	Note        string `json:"note,omitempty"`
}

// PhaseResult summarizes one phase attempt for the final report.
type PhaseResult struct {
	Phase     constants.Phase `json:"phase"`
	Attempted bool            `json:"attempted"`
	Passed    bool            `json:"passed"`
	Detail    string          `json:"detail"`
}

// Verdict is the engine's only output. Field names are stable; the HTTP
// layer and the XLSX report render it as-is.
type Verdict struct {
	Outcome           constants.Outcome `json:"outcome"`
	Phase             constants.Phase   `json:"phase"`
	Reason            string            `json:"reason"`
	Note              string            `json:"note,omitempty"`
	ReferenceActivity string            `json:"reference_activity,omitempty"`
	ActivityReport    []ActivityRow     `json:"activity_report"`
	Phases            []PhaseResult     `json:"phases"`
}

// Evaluate runs the three-phase cascade. Pure and deterministic: no I/O, no
// mutation of its inputs, safe to call concurrently.
func Evaluate(rec cartao.Record, rs *rules.Ruleset) Verdict {
	var phases []PhaseResult

	// Phase 1 — legal nature, eliminatory. Passing only unlocks phase 2;
	// it never approves by itself.
	rule, natureNote, found := rs.Nature.Lookup(rec.LegalNatureCode)
	if !found {
		reason := fmt.Sprintf("Natureza jurídica: código %q não encontrado na base.", rec.LegalNatureCode)
		if rules.DigitsOnly(rec.LegalNatureCode) == "" {
			reason = "Natureza jurídica não identificada no documento."
		}
		phases = append(phases, PhaseResult{Phase: constants.PhaseNature, Attempted: true, Detail: reason})
		return Verdict{
			Outcome: constants.OutcomeRejected,
			Phase:   constants.PhaseNature,
			Reason:  reason,
			Phases:  phases,
		}
	}
	if !rs.Positive(rule) {
		reason := fmt.Sprintf("Natureza jurídica %s não permitida.", rec.LegalNatureCode)
		phases = append(phases, PhaseResult{Phase: constants.PhaseNature, Attempted: true, Detail: reason})
		return Verdict{
			Outcome: constants.OutcomeRejected,
			Phase:   constants.PhaseNature,
			Reason:  reason,
			Note:    natureNote,
			Phases:  phases,
		}
	}
	phases = append(phases, PhaseResult{
		Phase:     constants.PhaseNature,
		Attempted: true,
		Passed:    true,
		Detail:    "Natureza jurídica aderente.",
	})

	// Phase 2 — activity codes. Every code is evaluated and reported even
	// after a positive match: the report must show the full picture.
	report := make([]ActivityRow, 0, 1+len(rec.SecondaryActivities))
	report = append(report, evalActivity(rs, constants.ActivityPrincipal, rec.PrincipalActivityCode, rec.PrincipalActivity))
	for _, sec := range rec.SecondaryActivities {
		report = append(report, evalActivity(rs, constants.ActivitySecondary, sec.Code, sec.Description))
	}

	for _, row := range report {
		if !row.Matched {
			continue
		}
		// First positive in principal-then-document order wins the reason.
		label := "principal"
		if row.Type == constants.ActivitySecondary {
			label = "secundária"
		}
		reason := fmt.Sprintf("Atividade econômica %s aderente: %s.", label, row.Code)
		phases = append(phases, PhaseResult{Phase: constants.PhaseActivity, Attempted: true, Passed: true, Detail: reason})
		return Verdict{
			Outcome:        constants.OutcomeApproved,
			Phase:          constants.PhaseActivity,
			Reason:         reason,
			Note:           row.Note,
			ActivityReport: report,
			Phases:         phases,
		}
	}
	phases = append(phases, PhaseResult{
		Phase:     constants.PhaseActivity,
		Attempted: true,
		Detail:    "Nenhuma atividade econômica compatível.",
	})

	// Phase 3 — CNPJ exception list.
	if result, refActivity, ok := rs.Exception.Lookup(rec.CNPJ); ok {
		phases = append(phases, PhaseResult{Phase: constants.PhaseException, Attempted: true, Passed: true, Detail: result})
		return Verdict{
			Outcome:           constants.OutcomeApproved,
			Phase:             constants.PhaseException,
			Reason:            result,
			ReferenceActivity: refActivity,
			ActivityReport:    report,
			Phases:            phases,
		}
	}
	phases = append(phases, PhaseResult{
		Phase:     constants.PhaseException,
		Attempted: true,
		Detail:    "CNPJ não consta na lista de exceções.",
	})

	return Verdict{
		Outcome:        constants.OutcomeRejected,
		Phase:          constants.PhaseNone,
		Reason:         "Nenhum critério de aderência satisfeito.",
		ActivityReport: report,
		Phases:         phases,
	}
}

func evalActivity(rs *rules.Ruleset, typ, code, description string) ActivityRow {
	rule, note, found := rs.Activity.Lookup(code)
	return ActivityRow{
		Type:        typ,
		Code:        code,
		Description: description,
		Matched:     found && rs.Positive(rule),
		Note:        note,
	}
}
