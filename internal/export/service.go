// Package export renders a persisted evaluation as an XLSX workbook: the
// extracted company data, one row per examined activity, and the verdict.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"aderencia/constants"
	"aderencia/internal/engine"
	"aderencia/internal/repository"
)

type Service struct {
	logger *zap.Logger
}

func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// VerdictXLSX returns a workbook (as bytes) for one evaluation.
func (s *Service) VerdictXLSX(ev *repository.Evaluation, v engine.Verdict) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	if err := f.SetSheetName(sheet, "Aderência"); err != nil {
		return nil, err
	}
	sheet = "Aderência"

	write := func(col, row int, val any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, val)
	}

	// Company block.
	write(1, 1, "Empresa")
	write(2, 1, ev.CompanyName)
	write(1, 2, "CNPJ")
	write(2, 2, ev.CNPJ)
	write(1, 3, "Avaliado em")
	write(2, 3, ev.CreatedAt.Format("2006-01-02 15:04:05"))
	write(1, 4, "Resultado")
	write(2, 4, outcomeLabel(v.Outcome))
	write(1, 5, "Fase")
	write(2, 5, string(v.Phase))
	write(1, 6, "Motivo")
	write(2, 6, v.Reason)

	// Activity report block.
	headers := []string{"Tipo", "Código", "Descrição", "Status", "Observação"}
	headerRow := 8
	for i, h := range headers {
		write(i+1, headerRow, h)
	}
	row := headerRow + 1
	for _, ar := range v.ActivityReport {
		tipo := "Principal"
		if ar.Type == constants.ActivitySecondary {
			tipo = "Secundário"
		}
		status := "Não Aderente"
		if ar.Matched {
			status = "Aderente"
		}
		write(1, row, tipo)
		write(2, row, ar.Code)
		write(3, row, ar.Description)
		write(4, row, status)
		write(5, row, ar.Note)
		row++
	}

	// Phase summary block.
	row++
	write(1, row, "Fases avaliadas")
	row++
	for _, pr := range v.Phases {
		result := "não satisfeita"
		if pr.Passed {
			result = "satisfeita"
		}
		write(1, row, string(pr.Phase))
		write(2, row, result)
		write(3, row, pr.Detail)
		row++
	}

	_ = f.SetColWidth(sheet, "A", "A", 14)
	_ = f.SetColWidth(sheet, "B", "B", 18)
	_ = f.SetColWidth(sheet, "C", "C", 64)
	_ = f.SetColWidth(sheet, "D", "D", 14)
	_ = f.SetColWidth(sheet, "E", "E", 32)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		zap.String("evaluation_id", ev.ID.String()),
		zap.Int("activity_rows", len(v.ActivityReport)),
		zap.Int64("elapsed_ms", time.Since(start).Milliseconds()),
	)
	return buf.Bytes(), nil
}

func outcomeLabel(o constants.Outcome) string {
	if o == constants.OutcomeApproved {
		return "APROVADO"
	}
	return "REPROVADO"
}
